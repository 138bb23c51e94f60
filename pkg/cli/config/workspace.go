package config

import (
	"github.com/m-mizutani/semrel/pkg/infra/workspace"
	"github.com/urfave/cli/v3"
)

// Workspace holds the location of the workspace file
type Workspace struct {
	Path string
}

// Flags returns CLI flags for workspace configuration
func (c *Workspace) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace",
			Aliases:     []string{"w"},
			Usage:       "Workspace file (TOML or YAML)",
			Value:       workspace.DefaultFile,
			Destination: &c.Path,
			Sources:     cli.EnvVars("SEMREL_WORKSPACE"),
		},
	}
}

// Load reads the workspace file
func (c *Workspace) Load() (*workspace.Workspace, error) {
	return workspace.Load(c.Path)
}
