package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the workspace file looked up when none is given
const DefaultFile = "semrel.toml"

type projectConfig struct {
	Name         string           `toml:"name" yaml:"name"`
	Root         string           `toml:"root" yaml:"root"`
	Manifest     string           `toml:"manifest" yaml:"manifest"`
	Dependencies []string         `toml:"dependencies" yaml:"dependencies"`
	PostTasks    []model.PostTask `toml:"post_tasks" yaml:"post_tasks"`
}

type fileConfig struct {
	Changelog struct {
		Header string `toml:"header" yaml:"header"`
	} `toml:"changelog" yaml:"changelog"`
	Projects []projectConfig `toml:"projects" yaml:"projects"`
}

// Workspace is the project registry loaded from a workspace file
type Workspace struct {
	root            string
	changelogHeader string
	projects        []*model.Project
	byName          map[string]*model.Project
}

// Load reads a workspace file. The format follows the extension: .yaml/.yml is YAML,
// anything else TOML. The workspace root is the directory holding the file.
func Load(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read workspace file", goerr.V("path", path))
	}

	var cfg fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to parse workspace YAML", goerr.V("path", path))
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, goerr.Wrap(err, "failed to parse workspace TOML", goerr.V("path", path))
		}
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve workspace root", goerr.V("path", path))
	}

	projects := make([]*model.Project, 0, len(cfg.Projects))
	for _, p := range cfg.Projects {
		projects = append(projects, &model.Project{
			Name:         p.Name,
			Root:         p.Root,
			Dependencies: p.Dependencies,
			Manifest:     p.Manifest,
			PostTasks:    p.PostTasks,
		})
	}

	ws, err := New(root, projects...)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid workspace file", goerr.V("path", path))
	}
	ws.changelogHeader = cfg.Changelog.Header
	return ws, nil
}

// New builds a workspace rooted at root. Project roots are normalized to slash-separated
// paths relative to root.
func New(root string, projects ...*model.Project) (*Workspace, error) {
	ws := &Workspace{
		root:   root,
		byName: make(map[string]*model.Project, len(projects)),
	}

	for i, p := range projects {
		if p.Name == "" {
			return nil, goerr.New("project name is required", goerr.V("index", i))
		}
		if _, dup := ws.byName[p.Name]; dup {
			return nil, goerr.New("duplicated project name", goerr.V("project", p.Name))
		}

		projectRoot := filepath.ToSlash(filepath.Clean(p.Root))
		if filepath.IsAbs(p.Root) || projectRoot == ".." || strings.HasPrefix(projectRoot, "../") {
			return nil, goerr.New("project root must be inside the workspace",
				goerr.V("project", p.Name),
				goerr.V("root", p.Root))
		}

		project := *p
		project.Root = projectRoot
		ws.projects = append(ws.projects, &project)
		ws.byName[p.Name] = &project
	}

	return ws, nil
}

// Root returns the absolute workspace root
func (w *Workspace) Root() string {
	return w.root
}

// ChangelogHeader returns the configured changelog header, empty when unset
func (w *Workspace) ChangelogHeader() string {
	return w.changelogHeader
}

// Project looks up a project by name
func (w *Workspace) Project(name string) (*model.Project, error) {
	p, ok := w.byName[name]
	if !ok {
		return nil, goerr.New("project not found in workspace", goerr.V("project", name))
	}
	return p, nil
}

// Projects returns all projects in declaration order
func (w *Workspace) Projects() []*model.Project {
	return w.projects
}
