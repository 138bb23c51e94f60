package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/infra/conventional"
	"github.com/m-mizutani/semrel/pkg/infra/manifest"
	"github.com/m-mizutani/semrel/pkg/infra/workspace"
	"github.com/m-mizutani/semrel/pkg/usecase"
)

// MockGitClient is an in-memory GitClient. History is keyed by root path and does not
// depend on the since tag.
type MockGitClient struct {
	tags      []string
	history   map[string][]*model.Commit
	tagsErr   error
	logErr    error
	commitErr error
	tagErr    error
	pushErr   error

	logCalls    []MockLogCall
	commitCalls []MockCommitCall
	tagCalls    []string
	pushCalls   []MockPushCall
}

type MockLogCall struct {
	SinceTag string
	Paths    []string
}

type MockCommitCall struct {
	Message  string
	Paths    []string
	NoVerify bool
}

type MockPushCall struct {
	Remote   string
	Branch   string
	NoVerify bool
}

func newMockGit(tags ...string) *MockGitClient {
	return &MockGitClient{
		tags:    tags,
		history: make(map[string][]*model.Commit),
	}
}

func (m *MockGitClient) addCommit(root, hash, message string) {
	m.history[root] = append(m.history[root], &model.Commit{Hash: hash, Message: message})
}

func (m *MockGitClient) Tags(ctx context.Context) ([]string, error) {
	if m.tagsErr != nil {
		return nil, m.tagsErr
	}
	return m.tags, nil
}

func (m *MockGitClient) CommitsSince(ctx context.Context, sinceTag string, paths ...string) ([]*model.Commit, error) {
	m.logCalls = append(m.logCalls, MockLogCall{SinceTag: sinceTag, Paths: paths})
	if m.logErr != nil {
		return nil, m.logErr
	}

	var commits []*model.Commit
	for _, p := range paths {
		if p == "." {
			commits = append(commits, m.allCommits()...)
			continue
		}
		commits = append(commits, m.history[p]...)
	}
	return commits, nil
}

func (m *MockGitClient) allCommits() []*model.Commit {
	var all []*model.Commit
	for root, commits := range m.history {
		if root == "." {
			continue
		}
		all = append(all, commits...)
	}
	return append(all, m.history["."]...)
}

func (m *MockGitClient) Commit(ctx context.Context, message string, paths []string, noVerify bool) error {
	m.commitCalls = append(m.commitCalls, MockCommitCall{Message: message, Paths: paths, NoVerify: noVerify})
	return m.commitErr
}

func (m *MockGitClient) Tag(ctx context.Context, name, message string) error {
	m.tagCalls = append(m.tagCalls, name)
	return m.tagErr
}

func (m *MockGitClient) Push(ctx context.Context, remote, branch string, noVerify bool) error {
	m.pushCalls = append(m.pushCalls, MockPushCall{Remote: remote, Branch: branch, NoVerify: noVerify})
	return m.pushErr
}

func (m *MockGitClient) mutations() int {
	return len(m.commitCalls) + len(m.tagCalls) + len(m.pushCalls)
}

// MockExecutor records post-release task executions
type MockExecutor struct {
	name        string
	required    []string
	executeErr  error
	executeCall []map[string]string
}

func (m *MockExecutor) Name() string { return m.name }

func (m *MockExecutor) Validate(options map[string]string) error {
	for _, key := range m.required {
		if options[key] == "" {
			return errors.New("missing option " + key)
		}
	}
	return nil
}

func (m *MockExecutor) Execute(ctx context.Context, options map[string]string) error {
	m.executeCall = append(m.executeCall, options)
	return m.executeErr
}

var testClock = func() time.Time {
	return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
}

func newRenderer(t *testing.T) *usecase.ChangelogRenderer {
	t.Helper()
	r, err := usecase.NewChangelogRenderer(usecase.WithClock(testClock))
	gt.NoError(t, err)
	return r
}

// newTestWorkspace creates a workspace in a temp dir with a package.json in every
// project root
func newTestWorkspace(t *testing.T, projects ...*model.Project) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()

	for _, p := range projects {
		dir := filepath.Join(root, p.Root)
		gt.NoError(t, os.MkdirAll(dir, 0755))
		manifest := `{"name": "` + p.Name + `", "version": "0.0.0"}`
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0644))
	}

	ws, err := workspace.New(root, projects...)
	gt.NoError(t, err)
	return ws
}

func readFile(t *testing.T, ws *workspace.Workspace, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ws.Root(), rel))
	gt.NoError(t, err)
	return string(data)
}

func fileExists(ws *workspace.Workspace, rel string) bool {
	_, err := os.Stat(filepath.Join(ws.Root(), rel))
	return err == nil
}

func newTestRelease(t *testing.T, ws *workspace.Workspace, git *MockGitClient, executors ...interfaces.TaskExecutor) interfaces.ReleaseUseCase {
	t.Helper()
	runner := usecase.NewTaskRunner(executors...)
	return usecase.NewRelease(ws, git, conventional.New(), manifest.NewJSON(), newRenderer(t), runner)
}
