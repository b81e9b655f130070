package releaser

import (
	"errors"
	"fmt"
)

// Kind classifies a release failure.
type Kind string

// Input and state errors: the repository is not in a state the workflow can
// reason about.
const (
	KindNoPriorRelease       Kind = "NoPriorRelease"
	KindNoRemoteBranches     Kind = "NoRemoteBranches"
	KindInvalidVersionFormat Kind = "InvalidVersionFormat"
	KindUnsupportedIncrement Kind = "UnsupportedIncrement"
	KindUnknownBranch        Kind = "UnknownBranch"
	KindIncrementNotAllowed  Kind = "IncrementNotAllowed"
	KindBranchNotAllowed     Kind = "BranchNotAllowed"
	KindManifestError        Kind = "ManifestError"
	KindMissingInput         Kind = "MissingInput"
)

// Precondition violations: expected and operator-actionable.
const (
	KindDirtyWorkingTree Kind = "DirtyWorkingTree"
	KindWrongBranch      Kind = "WrongBranch"
	KindUnpushedCommits  Kind = "UnpushedCommits"
	KindDuplicateTag     Kind = "DuplicateTag"
	KindStalePlan        Kind = "StalePlan"
)

// Infrastructure errors: surfaced verbatim from the VCS.
const (
	KindVCSError       Kind = "VCSError"
	KindNetworkError   Kind = "NetworkError"
	KindSyncConflict   Kind = "SyncConflict"
	KindCheckoutFailed Kind = "CheckoutFailed"
	KindPublishFailed  Kind = "PublishFailed"
	KindPushRejected   Kind = "PushRejected"
	KindAnnounceFailed Kind = "AnnounceFailed"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// Error is the single error type produced by the release pipeline.
type Error struct {
	Kind Kind
	// Step names the publish step that failed, empty before publishing.
	Step string
	// Hint is a remediation the operator can act on.
	Hint string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Step != "" {
		msg = fmt.Sprintf("step %s failed: %s", e.Step, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err,
// &Error{Kind: KindDirtyWorkingTree}) works through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Step == "" || t.Step == e.Step)
}

func newError(kind Kind, err error, hint string) *Error {
	return &Error{Kind: kind, Err: err, Hint: hint}
}

func stepError(step string, kind Kind, err error, hint string) *Error {
	return &Error{Kind: kind, Step: step, Err: err, Hint: hint}
}

// KindOf returns the Kind of a pipeline error, or "" for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StepOf returns the failed publish step of a pipeline error, if any.
func StepOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Step
	}
	return ""
}

// HintOf returns the remediation hint of a pipeline error, if any.
func HintOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}
