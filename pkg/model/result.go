package model

import "time"

// ReleaseStatus is the outcome of a release run.
type ReleaseStatus string

const (
	ReleaseStatusPublished ReleaseStatus = "published"
	ReleaseStatusAborted   ReleaseStatus = "aborted"
	ReleaseStatusPlanned   ReleaseStatus = "planned"
	ReleaseStatusFailed    ReleaseStatus = "failed"
)

// String returns the string representation of the ReleaseStatus.
func (s ReleaseStatus) String() string {
	return string(s)
}

// ReleaseResult contains the result of a release run.
type ReleaseResult struct {
	Timestamp  time.Time       `json:"timestamp"`
	Status     ReleaseStatus   `json:"status"`
	Plan       *ReleasePlan    `json:"plan,omitempty"`
	State      RepositoryState `json:"state"`
	FailedStep string          `json:"failedStep,omitempty"`
	Error      string          `json:"error,omitempty"`
	ReleaseURL string          `json:"releaseUrl,omitempty"`
}

// InspectResult contains what the inspector learned about a repository.
type InspectResult struct {
	Timestamp time.Time       `json:"timestamp"`
	Remote    string          `json:"remote"`
	Branches  []string        `json:"branches"`
	LatestTag string          `json:"latestTag,omitempty"`
	State     RepositoryState `json:"state"`
}
