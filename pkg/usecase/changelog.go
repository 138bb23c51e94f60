package usecase

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/model"
)

//go:embed templates/changelog_entry.md
var changelogEntryTemplate string

// DefaultChangelogHeader is written at the top of a new changelog
const DefaultChangelogHeader = "# Changelog\n\nThis file was generated using semrel."

// ChangelogFile is the changelog file name in every project root
const ChangelogFile = "CHANGELOG.md"

// entryPrefix starts the heading of every release entry
const entryPrefix = "## "

// ChangelogRenderer renders release entries and prepends them to changelog files
type ChangelogRenderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// ChangelogOption configures a ChangelogRenderer
type ChangelogOption func(*ChangelogRenderer)

// WithClock sets the clock used for entry dates
func WithClock(now func() time.Time) ChangelogOption {
	return func(r *ChangelogRenderer) {
		r.now = now
	}
}

// NewChangelogRenderer creates a new ChangelogRenderer
func NewChangelogRenderer(opts ...ChangelogOption) (*ChangelogRenderer, error) {
	tmpl, err := template.New("entry").Parse(changelogEntryTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse changelog template")
	}

	r := &ChangelogRenderer{
		tmpl: tmpl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type changelogEntry struct {
	Version  string
	Date     string
	Breaking []*model.CommitInfo
	Features []*model.CommitInfo
	Fixes    []*model.CommitInfo
}

// Entry renders the changelog section for one version
func (r *ChangelogRenderer) Entry(version string, commits []*model.CommitInfo) (string, error) {
	entry := changelogEntry{
		Version: version,
		Date:    r.now().Format("2006-01-02"),
	}
	for _, c := range commits {
		if c.Significance == model.SignificanceBreaking {
			entry.Breaking = append(entry.Breaking, c)
		}
		switch c.Type {
		case "feat":
			entry.Features = append(entry.Features, c)
		case "fix", "perf", "revert":
			entry.Fixes = append(entry.Fixes, c)
		}
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, entry); err != nil {
		return "", goerr.Wrap(err, "failed to render changelog entry", goerr.V("version", version))
	}
	return strings.TrimSpace(buf.String()), nil
}

// Prepend places entry below header, in front of the entries already in existing.
// Whatever precedes the first entry of existing is the old header block and is replaced,
// so a changed header never leaves two headers behind.
func (r *ChangelogRenderer) Prepend(existing []byte, header, entry string) []byte {
	if header == "" {
		header = DefaultChangelogHeader
	}
	header = strings.TrimSpace(header)

	rest := strings.TrimSpace(string(existing))
	if i := firstEntry(rest); i >= 0 {
		rest = rest[i:]
	} else {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, header))
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	sb.WriteString(entry)
	sb.WriteString("\n")
	if rest != "" {
		sb.WriteString("\n")
		sb.WriteString(rest)
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// firstEntry returns the offset of the first "## " release heading in s, or -1
func firstEntry(s string) int {
	if strings.HasPrefix(s, entryPrefix) {
		return 0
	}
	if i := strings.Index(s, "\n"+entryPrefix); i >= 0 {
		return i + 1
	}
	return -1
}
