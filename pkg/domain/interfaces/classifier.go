package interfaces

import "github.com/m-mizutani/semrel/pkg/domain/model"

// CommitClassifier decides the significance of a single commit message
type CommitClassifier interface {
	Classify(commit *model.Commit) *model.CommitInfo
}
