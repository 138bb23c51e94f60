package config

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Release holds the options of one release run
type Release struct {
	Project              string
	SyncVersions         bool
	ReleaseAs            string
	Version              string
	Preid                string
	DryRun               bool
	TrackDeps            bool
	Push                 bool
	Remote               string
	BaseBranch           string
	NoVerify             bool
	SkipRootChangelog    bool
	SkipProjectChangelog bool
	TagPrefix            string
	ChangelogHeader      string
	PostTasks            []string

	tagPrefixSet bool
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Project to release",
			Destination: &c.Project,
			Sources:     cli.EnvVars("SEMREL_PROJECT"),
		},
		&cli.BoolFlag{
			Name:        "sync-versions",
			Usage:       "Release every project of the workspace under one version",
			Destination: &c.SyncVersions,
			Sources:     cli.EnvVars("SEMREL_SYNC_VERSIONS"),
		},
		&cli.StringFlag{
			Name:        "release-as",
			Usage:       "Bump level (major, minor, patch, premajor, preminor, prepatch, prerelease) or exact version",
			Destination: &c.ReleaseAs,
			Sources:     cli.EnvVars("SEMREL_RELEASE_AS"),
		},
		&cli.StringFlag{
			Name:        "version",
			Usage:       "Deprecated alias of --release-as",
			Destination: &c.Version,
		},
		&cli.StringFlag{
			Name:        "preid",
			Usage:       "Prerelease identifier such as alpha, beta or rc",
			Destination: &c.Preid,
			Sources:     cli.EnvVars("SEMREL_PREID"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Compute and report the release without writing, committing, tagging or pushing",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("SEMREL_DRY_RUN"),
		},
		&cli.BoolFlag{
			Name:        "track-deps",
			Usage:       "Count commits of dependency projects when deriving the bump",
			Destination: &c.TrackDeps,
			Sources:     cli.EnvVars("SEMREL_TRACK_DEPS"),
		},
		&cli.BoolFlag{
			Name:        "push",
			Usage:       "Push the release commit and tag",
			Destination: &c.Push,
			Sources:     cli.EnvVars("SEMREL_PUSH"),
		},
		&cli.StringFlag{
			Name:        "remote",
			Usage:       "Remote to push to",
			Value:       "origin",
			Destination: &c.Remote,
			Sources:     cli.EnvVars("SEMREL_REMOTE"),
		},
		&cli.StringFlag{
			Name:        "base-branch",
			Usage:       "Branch to push",
			Value:       "main",
			Destination: &c.BaseBranch,
			Sources:     cli.EnvVars("SEMREL_BASE_BRANCH"),
		},
		&cli.BoolFlag{
			Name:        "no-verify",
			Usage:       "Skip git hooks on commit and push",
			Destination: &c.NoVerify,
			Sources:     cli.EnvVars("SEMREL_NO_VERIFY"),
		},
		&cli.BoolFlag{
			Name:        "skip-root-changelog",
			Usage:       "Do not update the workspace changelog in sync mode",
			Destination: &c.SkipRootChangelog,
		},
		&cli.BoolFlag{
			Name:        "skip-project-changelog",
			Usage:       "Do not update project changelogs in sync mode",
			Destination: &c.SkipProjectChangelog,
		},
		&cli.StringFlag{
			Name:        "tag-prefix",
			Usage:       "Tag prefix override (default: <project>- or v in sync mode)",
			Destination: &c.TagPrefix,
			Sources:     cli.EnvVars("SEMREL_TAG_PREFIX"),
			Action: func(_ context.Context, _ *cli.Command, _ string) error {
				c.tagPrefixSet = true
				return nil
			},
		},
		&cli.StringFlag{
			Name:        "changelog-header",
			Usage:       "Header written at the top of changelogs",
			Destination: &c.ChangelogHeader,
		},
		&cli.StringSliceFlag{
			Name:        "post-task",
			Usage:       "Post-release task as executor:key=value;key=value (repeatable)",
			Destination: &c.PostTasks,
		},
	}
}

// Request builds the release request
func (c *Release) Request() (*model.ReleaseRequest, error) {
	tasks, err := ParsePostTasks(c.PostTasks)
	if err != nil {
		return nil, err
	}

	req := &model.ReleaseRequest{
		Project:              c.Project,
		SyncVersions:         c.SyncVersions,
		ReleaseAs:            c.ReleaseAs,
		Version:              c.Version,
		Preid:                c.Preid,
		DryRun:               c.DryRun,
		TrackDeps:            c.TrackDeps,
		Push:                 c.Push,
		Remote:               c.Remote,
		BaseBranch:           c.BaseBranch,
		NoVerify:             c.NoVerify,
		SkipRootChangelog:    c.SkipRootChangelog,
		SkipProjectChangelog: c.SkipProjectChangelog,
		ChangelogHeader:      c.ChangelogHeader,
		PostTasks:            tasks,
	}
	if c.tagPrefixSet {
		prefix := c.TagPrefix
		req.TagPrefix = &prefix
	}

	return req, nil
}

// ParsePostTasks parses task descriptors of the form executor:key=value;key=value.
// Values may contain "=" and ${var} references; they are resolved when the task runs.
func ParsePostTasks(specs []string) ([]model.PostTask, error) {
	tasks := make([]model.PostTask, 0, len(specs))

	for _, spec := range specs {
		executor, rest, _ := strings.Cut(spec, ":")
		executor = strings.TrimSpace(executor)
		if executor == "" {
			return nil, goerr.New("post-task executor is missing",
				goerr.V("task", spec),
				goerr.T(types.ErrTagPostTaskConfiguration))
		}

		task := model.PostTask{Executor: executor, Options: map[string]string{}}
		for _, pair := range strings.Split(rest, ";") {
			if strings.TrimSpace(pair) == "" {
				continue
			}
			key, value, ok := strings.Cut(pair, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return nil, goerr.New("post-task option must be key=value",
					goerr.V("task", spec),
					goerr.V("option", pair),
					goerr.T(types.ErrTagPostTaskConfiguration))
			}
			task.Options[key] = value
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}
