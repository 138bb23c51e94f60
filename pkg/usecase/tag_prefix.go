package usecase

// WorkspaceTagPrefix is the tag prefix shared by all projects in sync mode
const WorkspaceTagPrefix = "v"

// ResolveTagPrefix returns the tag prefix for a project. An override is returned verbatim,
// sync mode uses WorkspaceTagPrefix, and independent projects are prefixed with their name
// so tags never collide across projects.
func ResolveTagPrefix(override *string, projectName string, syncVersions bool) string {
	if override != nil {
		return *override
	}
	if syncVersions {
		return WorkspaceTagPrefix
	}
	return projectName + "-"
}
