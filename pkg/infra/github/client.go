package github

import (
	"context"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
)

type client struct {
	githubClient *github.Client
}

// Option configures the GitHub client
type Option func(*github.Client) (*github.Client, error)

// WithBaseURL points the client to a GitHub Enterprise server or a test server
func WithBaseURL(baseURL string) Option {
	return func(c *github.Client) (*github.Client, error) {
		return c.WithEnterpriseURLs(baseURL, baseURL)
	}
}

// NewClient creates a new GitHub client with App authentication
func NewClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	// Create GitHub App transport
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID))
	}

	return newClient(github.NewClient(&http.Client{Transport: itr}), opts...)
}

// NewTokenClient creates a new GitHub client authenticated by a personal or workflow token
func NewTokenClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	return newClient(github.NewClient(nil).WithAuthToken(token), opts...)
}

func newClient(gh *github.Client, opts ...Option) (*client, error) {
	for _, opt := range opts {
		var err error
		if gh, err = opt(gh); err != nil {
			return nil, goerr.Wrap(err, "failed to configure GitHub client")
		}
	}
	return &client{githubClient: gh}, nil
}

// CreateRelease creates a release for an existing tag
func (c *client) CreateRelease(ctx context.Context, release *model.GitHubRelease) (string, error) {
	input := &github.RepositoryRelease{
		TagName:    github.Ptr(release.Tag),
		Name:       github.Ptr(release.Name),
		Draft:      github.Ptr(release.Draft),
		Prerelease: github.Ptr(release.Prerelease),
	}
	if release.Body != "" {
		input.Body = github.Ptr(release.Body)
	} else {
		input.GenerateReleaseNotes = github.Ptr(true)
	}

	created, _, err := c.githubClient.Repositories.CreateRelease(ctx, release.Owner, release.Repo, input)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create GitHub release",
			goerr.V("owner", release.Owner),
			goerr.V("repo", release.Repo),
			goerr.V("tag", release.Tag))
	}

	return created.GetHTMLURL(), nil
}
