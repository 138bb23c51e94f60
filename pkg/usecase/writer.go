package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
)

// writerBase holds what both writers share. Every read and render happens regardless of
// dry-run; only apply touches the filesystem and git.
type writerBase struct {
	registry   interfaces.ProjectRegistry
	git        interfaces.GitClient
	classifier interfaces.CommitClassifier
	manifest   interfaces.ManifestUpdater
	changelog  *ChangelogRenderer
}

type projectWriter struct {
	*writerBase
}

type workspaceWriter struct {
	*writerBase
}

// NewProjectWriter creates a writer that releases a single project
func NewProjectWriter(
	registry interfaces.ProjectRegistry,
	git interfaces.GitClient,
	classifier interfaces.CommitClassifier,
	manifest interfaces.ManifestUpdater,
	changelog *ChangelogRenderer,
) interfaces.ReleaseWriter {
	return &projectWriter{
		writerBase: &writerBase{
			registry:   registry,
			git:        git,
			classifier: classifier,
			manifest:   manifest,
			changelog:  changelog,
		},
	}
}

// NewWorkspaceWriter creates a writer that releases every project under one version
func NewWorkspaceWriter(
	registry interfaces.ProjectRegistry,
	git interfaces.GitClient,
	classifier interfaces.CommitClassifier,
	manifest interfaces.ManifestUpdater,
	changelog *ChangelogRenderer,
) interfaces.ReleaseWriter {
	return &workspaceWriter{
		writerBase: &writerBase{
			registry:   registry,
			git:        git,
			classifier: classifier,
			manifest:   manifest,
			changelog:  changelog,
		},
	}
}

// Write updates the project's changelog and manifest, then commits and tags
func (w *projectWriter) Write(ctx context.Context, opts *model.WriteOptions) (*model.WriteResult, error) {
	project := opts.Project
	result := &model.WriteResult{
		Version:       opts.NewVersion,
		Tag:           opts.Tag(),
		CommitMessage: fmt.Sprintf("chore(%s): release version %s", project.Name, opts.NewVersion),
		DryRun:        opts.DryRun,
	}

	changes := newChangeSet()

	changelog, err := w.changelogChange(ctx, opts, project.Root)
	if err != nil {
		return nil, err
	}
	changes.add(changelog)

	manifest, err := w.manifestChange(project.Root, project.ManifestFile(), opts.NewVersion)
	if err != nil {
		return nil, err
	}
	changes.add(manifest)

	result.Files = changes.files
	if err := w.apply(ctx, result, opts.NoVerify); err != nil {
		return nil, err
	}
	return result, nil
}

// Write updates every project manifest, the changelogs not skipped by opts, then commits
// once and tags once
func (w *workspaceWriter) Write(ctx context.Context, opts *model.WriteOptions) (*model.WriteResult, error) {
	result := &model.WriteResult{
		Version:       opts.NewVersion,
		Tag:           opts.Tag(),
		CommitMessage: fmt.Sprintf("chore(workspace): release version %s", opts.NewVersion),
		DryRun:        opts.DryRun,
	}

	changes := newChangeSet()

	if !opts.SkipRootChangelog {
		changelog, err := w.changelogChange(ctx, opts, ".")
		if err != nil {
			return nil, err
		}
		changes.add(changelog)
	}

	manifest, err := w.manifestChange(".", model.DefaultManifest, opts.NewVersion)
	if err != nil {
		return nil, err
	}
	changes.add(manifest)

	for _, project := range w.registry.Projects() {
		if !opts.SkipProjectChangelog && project.Root != "." {
			changelog, err := w.changelogChange(ctx, opts, project.Root)
			if err != nil {
				return nil, err
			}
			changes.add(changelog)
		}

		manifest, err := w.manifestChange(project.Root, project.ManifestFile(), opts.NewVersion)
		if err != nil {
			return nil, err
		}
		changes.add(manifest)
	}

	result.Files = changes.files
	if err := w.apply(ctx, result, opts.NoVerify); err != nil {
		return nil, err
	}
	return result, nil
}

// changelogChange renders the entry for root and prepends it to root's changelog
func (w *writerBase) changelogChange(ctx context.Context, opts *model.WriteOptions, root string) (*model.FileChange, error) {
	commits, err := collectCommits(ctx, w.git, w.classifier, opts.PreviousTag, []string{root})
	if err != nil {
		return nil, err
	}

	entry, err := w.changelog.Entry(opts.NewVersion, commits)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render changelog", goerr.V("root", root), goerr.T(types.ErrTagWrite))
	}

	path := filepath.Join(root, ChangelogFile)
	existing, found, err := w.readFile(path)
	if err != nil {
		return nil, err
	}

	return &model.FileChange{
		Path:    path,
		Content: w.changelog.Prepend(existing, opts.ChangelogHeader, entry),
		Created: !found,
	}, nil
}

// manifestChange bumps the manifest version. A root without manifest yields no change.
func (w *writerBase) manifestChange(root, manifest, version string) (*model.FileChange, error) {
	path := filepath.Join(root, manifest)
	existing, found, err := w.readFile(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	updated, err := w.manifest.Update(existing, version)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update manifest", goerr.V("path", path), goerr.T(types.ErrTagWrite))
	}

	return &model.FileChange{Path: path, Content: updated}, nil
}

func (w *writerBase) readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(w.registry.Root(), path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to read file", goerr.V("path", path), goerr.T(types.ErrTagWrite))
	}
	return data, true, nil
}

// apply writes files, commits and tags. In dry-run it only reports what would happen.
func (w *writerBase) apply(ctx context.Context, result *model.WriteResult, noVerify bool) error {
	logger := ctxlog.From(ctx)

	if result.DryRun {
		for _, f := range result.Files {
			logger.Info("Dry run: skip writing file", "path", f.Path, "created", f.Created)
			logger.Debug("Dry run: file content", "path", f.Path, "content", string(f.Content))
		}
		logger.Info("Dry run: skip commit and tag",
			"commit_message", result.CommitMessage,
			"tag", result.Tag,
		)
		return nil
	}

	for _, f := range result.Files {
		abs := filepath.Join(w.registry.Root(), f.Path)
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return goerr.Wrap(err, "failed to create directory", goerr.V("path", f.Path), goerr.T(types.ErrTagWrite))
		}
		if err := os.WriteFile(abs, f.Content, 0644); err != nil {
			return goerr.Wrap(err, "failed to write file", goerr.V("path", f.Path), goerr.T(types.ErrTagWrite))
		}
		logger.Debug("Updated file", "path", f.Path)
	}

	if err := w.git.Commit(ctx, result.CommitMessage, result.Paths(), noVerify); err != nil {
		return goerr.Wrap(err, "failed to commit release", goerr.V("message", result.CommitMessage), goerr.T(types.ErrTagWrite))
	}
	if err := w.git.Tag(ctx, result.Tag, result.CommitMessage); err != nil {
		return goerr.Wrap(err, "failed to tag release", goerr.V("tag", result.Tag), goerr.T(types.ErrTagWrite))
	}

	logger.Info("Committed and tagged release",
		"tag", result.Tag,
		"file_count", len(result.Files),
	)
	return nil
}

// changeSet keeps file changes in insertion order, first change per path wins
type changeSet struct {
	files []model.FileChange
	seen  map[string]bool
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[string]bool)}
}

func (s *changeSet) add(change *model.FileChange) {
	if change == nil || s.seen[change.Path] {
		return
	}
	s.seen[change.Path] = true
	s.files = append(s.files, *change)
}
