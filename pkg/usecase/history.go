package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
)

// collectCommits reads and classifies commits since sinceTag for every root.
// A commit touching several roots is returned once, at its first occurrence.
func collectCommits(ctx context.Context, git interfaces.GitClient, classifier interfaces.CommitClassifier, sinceTag string, roots []string) ([]*model.CommitInfo, error) {
	seen := make(map[string]bool)
	var infos []*model.CommitInfo

	for _, root := range roots {
		commits, err := git.CommitsSince(ctx, sinceTag, root)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read commit history",
				goerr.V("root", root),
				goerr.V("since_tag", sinceTag),
				goerr.T(types.ErrTagHistoryRead))
		}

		for _, c := range commits {
			if seen[c.Hash] {
				continue
			}
			seen[c.Hash] = true
			infos = append(infos, classifier.Classify(c))
		}
	}

	return infos, nil
}

// highestSignificance folds classified commits into their highest significance
func highestSignificance(infos []*model.CommitInfo) model.Significance {
	result := model.SignificanceNone
	for _, info := range infos {
		result = result.Max(info.Significance)
	}
	return result
}
