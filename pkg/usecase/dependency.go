package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
)

// ResolveDependencyRoots returns the roots of every project projectName depends on,
// directly or transitively, in depth-first declaration order without duplicates.
// The project itself is never included.
func ResolveDependencyRoots(registry interfaces.ProjectRegistry, projectName string) ([]string, error) {
	project, err := registry.Project(projectName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up project",
			goerr.V("project", projectName),
			goerr.T(types.ErrTagDependencyResolution))
	}

	visited := map[string]bool{projectName: true}
	var roots []string

	var walk func(p *model.Project) error
	walk = func(p *model.Project) error {
		for _, name := range p.Dependencies {
			if visited[name] {
				continue
			}
			visited[name] = true

			dep, err := registry.Project(name)
			if err != nil {
				return goerr.Wrap(err, "dependency is not registered in the workspace",
					goerr.V("project", p.Name),
					goerr.V("dependency", name),
					goerr.T(types.ErrTagDependencyResolution))
			}
			roots = append(roots, dep.Root)

			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(project); err != nil {
		return nil, err
	}

	return roots, nil
}
