package model

// BumpDecision is the outcome of the version bump calculation. The zero value means
// nothing was released since the last tag.
type BumpDecision struct {
	NextVersion     string       // Empty when there is nothing to release
	PreviousVersion string       // Latest version found for the tag prefix, "0.0.0" when none
	PreviousTag     string       // Tag the history was read from, empty when none
	Significance    Significance // Highest significance across inspected roots
	Explicit        bool         // True when derived from an explicit release type
}

// NoChange reports whether the decision is "nothing to release"
func (d *BumpDecision) NoChange() bool {
	return d == nil || d.NextVersion == ""
}
