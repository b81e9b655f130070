package model

import "time"

// RepositoryState is a snapshot of the local repository relative to the
// freshly fetched remote branch.
type RepositoryState struct {
	CurrentBranch string    `json:"currentBranch"`
	Branch        string    `json:"branch"`
	Clean         bool      `json:"clean"`
	Dirty         []string  `json:"dirty,omitempty"`
	Ahead         int       `json:"ahead"`
	Behind        int       `json:"behind"`
	HeadTags      []string  `json:"headTags,omitempty"`
	CapturedAt    time.Time `json:"capturedAt"`
}

// Diverged reports whether the local branch has commits the remote lacks.
func (s RepositoryState) Diverged() bool {
	return s.Ahead > 0
}

// HasTagOnHead reports whether HEAD already carries a tag.
func (s RepositoryState) HasTagOnHead() bool {
	return len(s.HeadTags) > 0
}

// OnBranch reports whether the checked out branch is the release branch.
func (s RepositoryState) OnBranch() bool {
	return s.CurrentBranch == s.Branch
}
