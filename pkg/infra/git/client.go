package git

import (
	"context"
	"errors"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/model"
)

// Client reads history through go-git and mutates the repository through the git binary,
// so hooks and --no-verify behave exactly like a manual release. A go-git repository is
// not safe for concurrent use; every read holds mu.
type Client struct {
	root   string // Workspace root, working directory of git commands
	prefix string // Workspace root relative to the repository top level, slash separated

	mu   sync.Mutex
	repo *gogit.Repository
}

// New opens the repository containing root
func New(root string) (*Client, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve workspace root", goerr.V("root", root))
	}

	repo, err := gogit.PlainOpenWithOptions(absRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open git repository", goerr.V("root", absRoot))
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get worktree", goerr.V("root", absRoot))
	}

	prefix, err := relativePrefix(wt.Filesystem.Root(), absRoot)
	if err != nil {
		return nil, err
	}

	return &Client{
		root:   absRoot,
		prefix: prefix,
		repo:   repo,
	}, nil
}

func relativePrefix(top, root string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(top); err == nil {
		top = resolved
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	rel, err := filepath.Rel(top, root)
	if err != nil {
		return "", goerr.Wrap(err, "workspace root is outside the repository",
			goerr.V("top", top),
			goerr.V("root", root))
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

// Tags returns the short names of all tags
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	iter, err := c.repo.Tags()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tags")
	}
	defer iter.Close()

	var tags []string
	if err := iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate tags")
	}

	return tags, nil
}

// CommitsSince returns commits reachable from HEAD and not from sinceTag that touch any
// of paths, newest first. An empty repository has no commits.
func (c *Client) CommitsSince(ctx context.Context, sinceTag string, paths ...string) ([]*model.Commit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	head, err := c.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve HEAD")
	}

	excluded := make(map[plumbing.Hash]bool)
	if sinceTag != "" {
		tagCommit, err := c.resolveTag(sinceTag)
		if err != nil {
			return nil, err
		}
		if err := c.walk(ctx, &gogit.LogOptions{From: tagCommit}, func(commit *object.Commit) {
			excluded[commit.Hash] = true
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to read history of tag", goerr.V("tag", sinceTag))
		}
	}

	opts := &gogit.LogOptions{From: head.Hash()}
	if filter := c.pathFilter(paths); filter != nil {
		opts.PathFilter = filter
	}

	var commits []*model.Commit
	if err := c.walk(ctx, opts, func(commit *object.Commit) {
		if excluded[commit.Hash] {
			return
		}
		commits = append(commits, &model.Commit{
			Hash:    commit.Hash.String(),
			Message: commit.Message,
		})
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to read history", goerr.V("since_tag", sinceTag), goerr.V("paths", paths))
	}

	ctxlog.From(ctx).Debug("Read commits", "since_tag", sinceTag, "paths", paths, "count", len(commits))
	return commits, nil
}

func (c *Client) walk(ctx context.Context, opts *gogit.LogOptions, fn func(*object.Commit)) error {
	iter, err := c.repo.Log(opts)
	if err != nil {
		return err
	}
	defer iter.Close()

	return iter.ForEach(func(commit *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(commit)
		return nil
	})
}

// resolveTag returns the commit a lightweight or annotated tag points at
func (c *Client) resolveTag(name string) (plumbing.Hash, error) {
	ref, err := c.repo.Tag(name)
	if err != nil {
		return plumbing.ZeroHash, goerr.Wrap(err, "failed to find tag", goerr.V("tag", name))
	}

	tag, err := c.repo.TagObject(ref.Hash())
	switch {
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	case err != nil:
		return plumbing.ZeroHash, goerr.Wrap(err, "failed to read tag object", goerr.V("tag", name))
	}

	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, goerr.Wrap(err, "tag does not point at a commit", goerr.V("tag", name))
	}
	return commit.Hash, nil
}

// pathFilter matches files below any of paths. It returns nil when the whole repository
// is selected.
func (c *Client) pathFilter(paths []string) func(string) bool {
	var prefixes []string
	for _, p := range paths {
		full := path.Clean(path.Join(c.prefix, filepath.ToSlash(p)))
		if full == "." {
			return nil
		}
		prefixes = append(prefixes, full)
	}
	if len(prefixes) == 0 && c.prefix == "" {
		return nil
	}
	if len(prefixes) == 0 {
		prefixes = append(prefixes, c.prefix)
	}

	return func(file string) bool {
		for _, p := range prefixes {
			if file == p || strings.HasPrefix(file, p+"/") {
				return true
			}
		}
		return false
	}
}

// Commit stages paths and commits only them
func (c *Client) Commit(ctx context.Context, message string, paths []string, noVerify bool) error {
	if len(paths) == 0 {
		return goerr.New("nothing to commit", goerr.V("message", message))
	}

	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := c.run(ctx, addArgs...); err != nil {
		return err
	}

	args := []string{"commit", "-m", message}
	if noVerify {
		args = append(args, "--no-verify")
	}
	args = append(args, "--")
	args = append(args, paths...)

	_, err := c.run(ctx, args...)
	return err
}

// Tag creates an annotated tag at HEAD
func (c *Client) Tag(ctx context.Context, name, message string) error {
	_, err := c.run(ctx, "tag", "-a", name, "-m", message)
	return err
}

// Push pushes branch and reachable annotated tags atomically
func (c *Client) Push(ctx context.Context, remote, branch string, noVerify bool) error {
	args := []string{"push", "--follow-tags", "--atomic"}
	if noVerify {
		args = append(args, "--no-verify")
	}
	args = append(args, remote, branch)

	_, err := c.run(ctx, args...)
	return err
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	logger := ctxlog.From(ctx)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.root
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", goerr.Wrap(err, "git command failed",
			goerr.V("args", args),
			goerr.V("output", strings.TrimSpace(string(output))))
	}

	logger.Debug("git command finished", "args", args)
	return string(output), nil
}
