package model

// GitHubRelease is a GitHub release to publish for a tag
type GitHubRelease struct {
	Owner      string
	Repo       string
	Tag        string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}
