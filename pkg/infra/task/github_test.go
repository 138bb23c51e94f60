package task_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/infra/task"
)

// MockGitHubClient records created releases
type MockGitHubClient struct {
	releases []*model.GitHubRelease
	err      error
}

func (m *MockGitHubClient) CreateRelease(ctx context.Context, release *model.GitHubRelease) (string, error) {
	m.releases = append(m.releases, release)
	if m.err != nil {
		return "", m.err
	}
	return "https://github.com/" + release.Owner + "/" + release.Repo + "/releases/tag/" + release.Tag, nil
}

func newGitHubExecutor(client *MockGitHubClient) *task.GitHub {
	return task.NewGitHub(task.WithGitHubClientFactory(func(options map[string]string) (interfaces.GitHubClient, error) {
		return client, nil
	}))
}

func TestGitHub_Validate(t *testing.T) {
	g := task.NewGitHub()

	tests := []struct {
		name    string
		options map[string]string
		wantErr bool
	}{
		{name: "minimal", options: map[string]string{"repo": "acme/mono", "tag": "v1.0.0"}},
		{name: "with flags", options: map[string]string{"repo": "acme/mono", "tag": "v1.0.0", "draft": "true", "prerelease": "false"}},
		{name: "missing tag", options: map[string]string{"repo": "acme/mono"}, wantErr: true},
		{name: "bad repo", options: map[string]string{"repo": "mono", "tag": "v1.0.0"}, wantErr: true},
		{name: "nested repo", options: map[string]string{"repo": "acme/mono/x", "tag": "v1.0.0"}, wantErr: true},
		{name: "bad draft", options: map[string]string{"repo": "acme/mono", "tag": "v1.0.0", "draft": "maybe"}, wantErr: true},
		{name: "unknown option", options: map[string]string{"repo": "acme/mono", "tag": "v1.0.0", "assets": "dist/*"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.options)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGitHub_Execute(t *testing.T) {
	client := &MockGitHubClient{}
	g := newGitHubExecutor(client)

	err := g.Execute(context.Background(), map[string]string{
		"repo":       "acme/mono",
		"tag":        "lib-1.2.0-rc.0",
		"prerelease": "true",
	})
	gt.NoError(t, err)

	gt.Value(t, len(client.releases)).Equal(1)
	gt.Value(t, *client.releases[0]).Equal(model.GitHubRelease{
		Owner:      "acme",
		Repo:       "mono",
		Tag:        "lib-1.2.0-rc.0",
		Name:       "lib-1.2.0-rc.0",
		Prerelease: true,
	})
}

func TestGitHub_ExecuteError(t *testing.T) {
	client := &MockGitHubClient{err: errors.New("tag not found")}
	g := newGitHubExecutor(client)

	err := g.Execute(context.Background(), map[string]string{"repo": "acme/mono", "tag": "v9.9.9"})
	gt.Error(t, err)
}

func TestGitHub_MissingCredentials(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	err := task.NewGitHub().Execute(context.Background(), map[string]string{"repo": "acme/mono", "tag": "v1.0.0"})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("credentials are missing")
}
