package interfaces

import "github.com/m-mizutani/semrel/pkg/domain/model"

// ProjectRegistry is the read-only view of the workspace project graph
type ProjectRegistry interface {
	// Root returns the absolute path of the workspace root
	Root() string

	// Project looks up a project by name
	Project(name string) (*model.Project, error)

	// Projects returns all projects in declaration order
	Projects() []*model.Project
}
