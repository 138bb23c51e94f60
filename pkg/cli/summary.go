package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/semrel/pkg/domain/model"
)

func printOutcome(w io.Writer, req *model.ReleaseRequest, outcome *model.ReleaseOutcome) {
	if w == nil {
		w = os.Stdout
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	switch {
	case !outcome.Success:
		_, _ = fmt.Fprintf(w, "%s release failed while %s: %v\n", red("✗"), outcome.Failure.State, outcome.Failure.Err)
		return
	case outcome.State == model.StateNothingToRelease:
		_, _ = fmt.Fprintf(w, "%s nothing to release since %s\n", yellow("-"), previousLabel(outcome.Decision))
		return
	}

	prefix := ""
	if req.DryRun {
		prefix = yellow("[dry-run] ")
	}

	_, _ = fmt.Fprintf(w, "%s%s released %s (%s -> %s)\n",
		prefix, green("✓"), outcome.Result.Tag,
		outcome.Decision.PreviousVersion, outcome.Decision.NextVersion)
	for _, f := range outcome.Result.Files {
		_, _ = fmt.Fprintf(w, "  %s %s\n", dim("updated"), f.Path)
	}
	if req.Push && !req.DryRun {
		_, _ = fmt.Fprintf(w, "  %s %s/%s\n", dim("pushed"), req.Remote, req.BaseBranch)
	}
}

func printDecision(w io.Writer, outcome *model.ReleaseOutcome) {
	if w == nil {
		w = os.Stdout
	}

	switch {
	case !outcome.Success:
		red := color.New(color.FgRed).SprintFunc()
		_, _ = fmt.Fprintf(w, "%s %v\n", red("✗"), outcome.Failure.Err)
	case outcome.Decision.NoChange():
		_, _ = fmt.Fprintf(w, "%s (no change)\n", outcome.Decision.PreviousVersion)
	default:
		_, _ = fmt.Fprintln(w, outcome.Decision.NextVersion)
	}
}

func previousLabel(d *model.BumpDecision) string {
	if d == nil || d.PreviousTag == "" {
		return "the first commit"
	}
	return d.PreviousTag
}
