package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/infra/workspace"
)

const tomlWorkspace = `
[changelog]
header = "# Release notes"

[[projects]]
name = "app"
root = "apps/app"
dependencies = ["lib-a"]

[[projects.post_tasks]]
executor = "exec"
[projects.post_tasks.options]
command = "echo ${tag}"

[[projects]]
name = "lib-a"
root = "libs/a/"
manifest = "package.json"
`

const yamlWorkspace = `
changelog:
  header: "# Release notes"
projects:
  - name: app
    root: apps/app
    dependencies: [lib-a]
    post_tasks:
      - executor: exec
        options:
          command: echo ${tag}
  - name: lib-a
    root: libs/a/
    manifest: package.json
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "TOML", file: "semrel.toml", content: tomlWorkspace},
		{name: "YAML", file: "semrel.yaml", content: yamlWorkspace},
		{name: "YML", file: "semrel.yml", content: yamlWorkspace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			ws, err := workspace.Load(path)
			gt.NoError(t, err)

			gt.Value(t, ws.Root()).Equal(filepath.Dir(path))
			gt.Value(t, ws.ChangelogHeader()).Equal("# Release notes")
			gt.Value(t, len(ws.Projects())).Equal(2)

			app, err := ws.Project("app")
			gt.NoError(t, err)
			gt.Value(t, app.Root).Equal("apps/app")
			gt.Value(t, app.Dependencies).Equal([]string{"lib-a"})
			gt.Value(t, app.ManifestFile()).Equal(model.DefaultManifest)
			gt.Value(t, len(app.PostTasks)).Equal(1)
			gt.Value(t, app.PostTasks[0].Executor).Equal("exec")
			gt.Value(t, app.PostTasks[0].Options["command"]).Equal("echo ${tag}")

			lib, err := ws.Project("lib-a")
			gt.NoError(t, err)
			gt.Value(t, lib.Root).Equal("libs/a")
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := workspace.Load(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err)
	})

	t.Run("malformed TOML", func(t *testing.T) {
		_, err := workspace.Load(writeFile(t, "semrel.toml", "[[projects]\nname ="))
		gt.Error(t, err)
	})

	t.Run("duplicated project", func(t *testing.T) {
		_, err := workspace.Load(writeFile(t, "semrel.toml", `
[[projects]]
name = "a"
root = "a"
[[projects]]
name = "a"
root = "b"
`))
		gt.Error(t, err)
	})
}

func TestNew_RejectsOutsideRoots(t *testing.T) {
	for _, root := range []string{"..", "../x", "/abs/path"} {
		t.Run(root, func(t *testing.T) {
			_, err := workspace.New("/ws", &model.Project{Name: "p", Root: root})
			gt.Error(t, err)
		})
	}
}

func TestWorkspace_ProjectNotFound(t *testing.T) {
	ws, err := workspace.New("/ws", &model.Project{Name: "p", Root: ""})
	gt.NoError(t, err)

	p, err := ws.Project("p")
	gt.NoError(t, err)
	gt.Value(t, p.Root).Equal(".")

	_, err = ws.Project("missing")
	gt.Error(t, err)
}
