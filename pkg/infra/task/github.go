package task

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	githubinfra "github.com/m-mizutani/semrel/pkg/infra/github"
)

// GitHubClientFactory builds the GitHub client for one task execution
type GitHubClientFactory func(options map[string]string) (interfaces.GitHubClient, error)

// GitHub publishes a GitHub release for the release tag.
// Options: repo (owner/name) and tag (required); name, body, draft, prerelease and
// credentials (token, or app_id + installation_id + private_key_file) optional.
// Without credentials the GITHUB_TOKEN environment variable is used.
type GitHub struct {
	newClient GitHubClientFactory
}

// GitHubOption configures the GitHub executor
type GitHubOption func(*GitHub)

// WithGitHubClientFactory replaces how the GitHub client is built
func WithGitHubClientFactory(f GitHubClientFactory) GitHubOption {
	return func(g *GitHub) {
		g.newClient = f
	}
}

// NewGitHub creates a GitHub executor
func NewGitHub(opts ...GitHubOption) *GitHub {
	g := &GitHub{newClient: newGitHubClient}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the executor name
func (g *GitHub) Name() string { return "github" }

// Validate checks the options
func (g *GitHub) Validate(options map[string]string) error {
	if err := checkOptions(options,
		[]string{"repo", "tag"},
		[]string{"name", "body", "draft", "prerelease", "token", "app_id", "installation_id", "private_key_file"},
	); err != nil {
		return err
	}

	if _, _, err := splitRepo(options["repo"]); err != nil {
		return err
	}
	for _, key := range []string{"draft", "prerelease"} {
		if v := options[key]; v != "" {
			if _, err := strconv.ParseBool(v); err != nil {
				return goerr.Wrap(err, "option must be true or false", goerr.V("option", key))
			}
		}
	}
	return nil
}

// Execute creates the release
func (g *GitHub) Execute(ctx context.Context, options map[string]string) error {
	owner, repo, err := splitRepo(options["repo"])
	if err != nil {
		return err
	}

	client, err := g.newClient(options)
	if err != nil {
		return err
	}

	release := &model.GitHubRelease{
		Owner: owner,
		Repo:  repo,
		Tag:   options["tag"],
		Name:  options["name"],
		Body:  options["body"],
	}
	if release.Name == "" {
		release.Name = release.Tag
	}
	release.Draft, _ = strconv.ParseBool(options["draft"])
	release.Prerelease, _ = strconv.ParseBool(options["prerelease"])

	url, err := client.CreateRelease(ctx, release)
	if err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Published GitHub release", "repo", options["repo"], "tag", release.Tag, "url", url)
	return nil
}

func splitRepo(s string) (string, string, error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", goerr.New("repo must be owner/name", goerr.V("repo", s))
	}
	return owner, repo, nil
}

func newGitHubClient(options map[string]string) (interfaces.GitHubClient, error) {
	if options["app_id"] != "" {
		appID, err := strconv.ParseInt(options["app_id"], 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid app_id", goerr.V("app_id", options["app_id"]))
		}
		installationID, err := strconv.ParseInt(options["installation_id"], 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid installation_id", goerr.V("installation_id", options["installation_id"]))
		}
		privateKey, err := os.ReadFile(options["private_key_file"])
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read private key", goerr.V("path", options["private_key_file"]))
		}
		return githubinfra.NewClient(appID, installationID, privateKey)
	}

	token := options["token"]
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, goerr.New("GitHub credentials are missing; set token, app_id or GITHUB_TOKEN")
	}
	return githubinfra.NewTokenClient(token)
}
