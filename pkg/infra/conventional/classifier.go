package conventional

import (
	"strings"

	cc "github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
	"github.com/m-mizutani/semrel/pkg/domain/model"
)

// Classifier maps conventional commit messages to significances:
// breaking changes are breaking, feat is a feature, fix/perf/revert are fixes and
// everything else, including non-conventional messages, is none.
type Classifier struct {
	machine cc.Machine
}

// New creates a new Classifier
func New() *Classifier {
	return &Classifier{
		machine: parser.NewMachine(
			parser.WithTypes(cc.TypesConventional),
			parser.WithBestEffort(),
		),
	}
}

// Classify parses the commit message and returns its classification
func (c *Classifier) Classify(commit *model.Commit) *model.CommitInfo {
	info := &model.CommitInfo{
		Commit:      commit,
		Description: firstLine(commit.Message),
	}

	msg, err := c.machine.Parse([]byte(strings.TrimSpace(commit.Message)))
	if msg == nil || (err != nil && !msg.Ok()) {
		return info
	}

	parsed, ok := msg.(*cc.ConventionalCommit)
	if !ok {
		return info
	}

	info.Type = strings.ToLower(parsed.Type)
	if parsed.Scope != nil {
		info.Scope = *parsed.Scope
	}
	if parsed.Description != "" {
		info.Description = parsed.Description
	}

	switch {
	case msg.IsBreakingChange():
		info.Significance = model.SignificanceBreaking
	case msg.IsFeat():
		info.Significance = model.SignificanceFeature
	case msg.IsFix(), info.Type == "perf", info.Type == "revert":
		info.Significance = model.SignificanceFix
	}

	return info
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
