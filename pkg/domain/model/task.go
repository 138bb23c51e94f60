package model

import "strconv"

// TaskContext holds the runtime values post-release task options may refer to
type TaskContext struct {
	Project    string
	Version    string
	Tag        string
	TagPrefix  string
	NoVerify   bool
	DryRun     bool
	Remote     string
	BaseBranch string
}

// Variables returns the template variables available to task options
func (c *TaskContext) Variables() map[string]string {
	return map[string]string{
		"project":    c.Project,
		"version":    c.Version,
		"tag":        c.Tag,
		"tagPrefix":  c.TagPrefix,
		"noVerify":   strconv.FormatBool(c.NoVerify),
		"dryRun":     strconv.FormatBool(c.DryRun),
		"remote":     c.Remote,
		"baseBranch": c.BaseBranch,
	}
}
