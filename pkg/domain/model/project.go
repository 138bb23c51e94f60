package model

// DefaultManifest is the manifest file looked up in a project root when none is configured.
const DefaultManifest = "package.json"

// Project is a read-only entry of the workspace registry
type Project struct {
	Name         string     // Unique project name within the workspace
	Root         string     // Root path relative to the workspace root ("." for the workspace itself)
	Dependencies []string   // Names of workspace projects this project depends on
	Manifest     string     // Manifest file name relative to Root
	PostTasks    []PostTask // Post-release tasks declared for the project
}

// ManifestFile returns the manifest file name, falling back to DefaultManifest
func (p *Project) ManifestFile() string {
	if p.Manifest == "" {
		return DefaultManifest
	}
	return p.Manifest
}
