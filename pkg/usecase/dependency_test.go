package usecase_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
	"github.com/m-mizutani/semrel/pkg/infra/workspace"
	"github.com/m-mizutani/semrel/pkg/usecase"
)

func TestResolveDependencyRoots(t *testing.T) {
	ws, err := workspace.New(t.TempDir(),
		&model.Project{Name: "app", Root: "apps/app", Dependencies: []string{"ui", "core"}},
		&model.Project{Name: "ui", Root: "libs/ui", Dependencies: []string{"core", "icons"}},
		&model.Project{Name: "core", Root: "libs/core"},
		&model.Project{Name: "icons", Root: "libs/icons", Dependencies: []string{"app"}},
		&model.Project{Name: "standalone", Root: "libs/standalone"},
	)
	gt.NoError(t, err)

	t.Run("transitive dependencies in declaration order", func(t *testing.T) {
		roots, err := usecase.ResolveDependencyRoots(ws, "app")
		gt.NoError(t, err)
		gt.Value(t, roots).Equal([]string{"libs/ui", "libs/core", "libs/icons"})
	})

	t.Run("project without dependencies", func(t *testing.T) {
		roots, err := usecase.ResolveDependencyRoots(ws, "standalone")
		gt.NoError(t, err)
		gt.Value(t, len(roots)).Equal(0)
	})

	t.Run("cycle does not include the project itself", func(t *testing.T) {
		roots, err := usecase.ResolveDependencyRoots(ws, "icons")
		gt.NoError(t, err)
		gt.Value(t, roots).Equal([]string{"apps/app", "libs/ui", "libs/core"})
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := usecase.ResolveDependencyRoots(ws, "missing")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.ErrTagDependencyResolution))
	})
}

func TestResolveDependencyRoots_UnknownDependency(t *testing.T) {
	ws, err := workspace.New(t.TempDir(),
		&model.Project{Name: "app", Root: "apps/app", Dependencies: []string{"ghost"}},
	)
	gt.NoError(t, err)

	_, err = usecase.ResolveDependencyRoots(ws, "app")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagDependencyResolution))
	gt.String(t, err.Error()).Contains("dependency is not registered")
}
