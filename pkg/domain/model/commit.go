package model

// Commit is a single commit read from history
type Commit struct {
	Hash    string
	Message string
}

// ShortHash returns the abbreviated commit hash
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// CommitInfo is a commit together with its conventional-commit classification
type CommitInfo struct {
	Commit       *Commit
	Type         string // e.g. feat, fix, chore; empty when the message is not conventional
	Scope        string
	Description  string
	Significance Significance
}
