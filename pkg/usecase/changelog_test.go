package usecase_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/infra/conventional"
	"github.com/m-mizutani/semrel/pkg/usecase"
)

func classify(messages ...string) []*model.CommitInfo {
	c := conventional.New()
	var infos []*model.CommitInfo
	for i, msg := range messages {
		infos = append(infos, c.Classify(&model.Commit{
			Hash:    strings.Repeat(string(rune('a'+i)), 40),
			Message: msg,
		}))
	}
	return infos
}

func TestChangelogRenderer_Entry(t *testing.T) {
	r := newRenderer(t)

	entry, err := r.Entry("1.3.0", classify(
		"feat(api): add search endpoint",
		"fix: handle empty body",
		"chore: update deps",
		"feat!: remove legacy flag",
	))
	gt.NoError(t, err)

	gt.String(t, entry).Contains("## 1.3.0 (2026-10-19)")
	gt.String(t, entry).Contains("### ⚠ BREAKING CHANGES")
	gt.String(t, entry).Contains("* remove legacy flag (ddddddd)")
	gt.String(t, entry).Contains("### Features")
	gt.String(t, entry).Contains("* **api:** add search endpoint (aaaaaaa)")
	gt.String(t, entry).Contains("### Bug Fixes")
	gt.String(t, entry).Contains("* handle empty body (bbbbbbb)")
	gt.Value(t, strings.Contains(entry, "update deps")).Equal(false)
}

func TestChangelogRenderer_EntryWithoutCommits(t *testing.T) {
	r := newRenderer(t)

	entry, err := r.Entry("2.0.0", nil)
	gt.NoError(t, err)
	gt.Value(t, entry).Equal("## 2.0.0 (2026-10-19)")
}

func TestChangelogRenderer_Prepend(t *testing.T) {
	r := newRenderer(t)

	t.Run("new file gets default header", func(t *testing.T) {
		out := string(r.Prepend(nil, "", "## 1.0.0 (2026-10-19)"))
		gt.Value(t, out).Equal(usecase.DefaultChangelogHeader + "\n\n## 1.0.0 (2026-10-19)\n")
	})

	t.Run("existing entries stay below the new one", func(t *testing.T) {
		existing := usecase.DefaultChangelogHeader + "\n\n## 1.0.0 (2026-01-01)\n\n* old\n"
		out := string(r.Prepend([]byte(existing), "", "## 1.1.0 (2026-10-19)"))

		gt.Value(t, strings.Count(out, usecase.DefaultChangelogHeader)).Equal(1)
		gt.Number(t, strings.Index(out, "## 1.0.0")).Greater(strings.Index(out, "## 1.1.0"))
		gt.String(t, out).Contains("* old")
	})

	t.Run("changed header replaces the old one", func(t *testing.T) {
		existing := "# Changelog\n\nAll notable changes are listed here.\n\n## 1.0.0 (2026-01-01)\n\n* old\n"
		out := string(r.Prepend([]byte(existing), "# Release notes", "## 1.1.0 (2026-10-19)"))

		gt.Value(t, out).Equal("# Release notes\n\n## 1.1.0 (2026-10-19)\n\n## 1.0.0 (2026-01-01)\n\n* old\n")
	})

	t.Run("header that prefixes the old preamble", func(t *testing.T) {
		existing := "# Changelog\n\nAll notable changes are listed here.\n\n## 1.0.0 (2026-01-01)\n"
		out := string(r.Prepend([]byte(existing), "# Changelog", "## 1.1.0 (2026-10-19)"))

		gt.Value(t, strings.Count(out, "All notable changes")).Equal(0)
		gt.True(t, strings.HasPrefix(out, "# Changelog\n\n## 1.1.0"))
	})

	t.Run("custom header", func(t *testing.T) {
		out := string(r.Prepend(nil, "# Release notes", "## 1.0.0 (2026-10-19)"))
		gt.True(t, strings.HasPrefix(out, "# Release notes\n\n## 1.0.0"))
	})
}
