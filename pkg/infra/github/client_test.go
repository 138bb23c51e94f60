package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	githubinfra "github.com/m-mizutani/semrel/pkg/infra/github"
)

func TestClient_CreateRelease(t *testing.T) {
	var received map[string]any
	var authHeader, path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authHeader = r.Header.Get("Authorization")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1, "html_url": "https://github.com/acme/mono/releases/tag/lib-1.2.0"}`))
	}))
	defer server.Close()

	client, err := githubinfra.NewTokenClient("test-token", githubinfra.WithBaseURL(server.URL+"/"))
	gt.NoError(t, err)

	url, err := client.CreateRelease(context.Background(), &model.GitHubRelease{
		Owner:      "acme",
		Repo:       "mono",
		Tag:        "lib-1.2.0",
		Name:       "lib 1.2.0",
		Prerelease: true,
	})
	gt.NoError(t, err)

	gt.Value(t, url).Equal("https://github.com/acme/mono/releases/tag/lib-1.2.0")
	gt.Value(t, path).Equal("/api/v3/repos/acme/mono/releases")
	gt.Value(t, authHeader).Equal("Bearer test-token")
	gt.Value(t, received["tag_name"]).Equal("lib-1.2.0")
	gt.Value(t, received["prerelease"]).Equal(true)
	gt.Value(t, received["generate_release_notes"]).Equal(true)
}

func TestClient_CreateReleaseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	}))
	defer server.Close()

	client, err := githubinfra.NewTokenClient("test-token", githubinfra.WithBaseURL(server.URL+"/"))
	gt.NoError(t, err)

	_, err = client.CreateRelease(context.Background(), &model.GitHubRelease{Owner: "acme", Repo: "mono", Tag: "v1.0.0"})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to create GitHub release")
}

func TestClient_NewClientWithApp(t *testing.T) {
	// This test requires GitHub App credentials from environment variables
	appID := os.Getenv("TEST_GITHUB_APP_ID")
	installationID := os.Getenv("TEST_GITHUB_INSTALLATION_ID")
	privateKey := os.Getenv("TEST_GITHUB_PRIVATE_KEY")

	if appID == "" || installationID == "" || privateKey == "" {
		t.Skip("Test GitHub App credentials not provided via environment variables")
	}

	// Parse string IDs to int64
	appIDInt, err := strconv.ParseInt(appID, 10, 64)
	gt.NoError(t, err)

	installationIDInt, err := strconv.ParseInt(installationID, 10, 64)
	gt.NoError(t, err)

	client, err := githubinfra.NewClient(appIDInt, installationIDInt, []byte(privateKey))
	gt.NoError(t, err)
	gt.Value(t, client).NotNil()
}

func TestClient_NewClientInvalidKey(t *testing.T) {
	_, err := githubinfra.NewClient(1, 2, []byte("not a pem key"))
	gt.Error(t, err)
}
