package model

import "strings"

// ReleaseType is an explicit bump level requested by the caller
type ReleaseType string

const (
	ReleaseTypeMajor      ReleaseType = "major"
	ReleaseTypeMinor      ReleaseType = "minor"
	ReleaseTypePatch      ReleaseType = "patch"
	ReleaseTypePremajor   ReleaseType = "premajor"
	ReleaseTypePreminor   ReleaseType = "preminor"
	ReleaseTypePrepatch   ReleaseType = "prepatch"
	ReleaseTypePrerelease ReleaseType = "prerelease"
)

// IsValid reports whether t is one of the known bump levels
func (t ReleaseType) IsValid() bool {
	switch t {
	case ReleaseTypeMajor, ReleaseTypeMinor, ReleaseTypePatch,
		ReleaseTypePremajor, ReleaseTypePreminor, ReleaseTypePrepatch, ReleaseTypePrerelease:
		return true
	}
	return false
}

// IsPre reports whether t produces a prerelease version
func (t ReleaseType) IsPre() bool {
	switch t {
	case ReleaseTypePremajor, ReleaseTypePreminor, ReleaseTypePrepatch, ReleaseTypePrerelease:
		return true
	}
	return false
}

// Pre returns the prerelease variant of a plain bump level
func (t ReleaseType) Pre() ReleaseType {
	switch t {
	case ReleaseTypeMajor:
		return ReleaseTypePremajor
	case ReleaseTypeMinor:
		return ReleaseTypePreminor
	case ReleaseTypePatch:
		return ReleaseTypePrepatch
	}
	return t
}

// PostTask is a caller-configured follow-up action run after a successful release
type PostTask struct {
	Executor string            `json:"executor" toml:"executor" yaml:"executor"`
	Options  map[string]string `json:"options,omitempty" toml:"options" yaml:"options"`
}

// ReleaseRequest is the immutable input of one release run
type ReleaseRequest struct {
	Project              string
	SyncVersions         bool
	ReleaseAs            string // Bump level or exact version
	Version              string // Deprecated alias of ReleaseAs
	Preid                string
	DryRun               bool
	TrackDeps            bool
	Push                 bool
	Remote               string
	BaseBranch           string
	NoVerify             bool
	SkipRootChangelog    bool
	SkipProjectChangelog bool
	TagPrefix            *string
	ChangelogHeader      string
	PostTasks            []PostTask
}

// ResolvedReleaseAs returns ReleaseAs, falling back to the Version alias
func (r *ReleaseRequest) ResolvedReleaseAs() string {
	if v := strings.TrimSpace(r.ReleaseAs); v != "" {
		return v
	}
	return strings.TrimSpace(r.Version)
}
