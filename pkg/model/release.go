package model

import (
	"cmp"
	"fmt"
	"strings"
)

// Tag and message formats. The inspector strips TagPrefix to recover the
// last released version, so both must stay stable across releases.
const (
	TagPrefix     = "Release-"
	MessagePrefix = "FEA-"
)

// IncrementKind selects which semantic version component is bumped.
type IncrementKind string

const (
	IncrementPatch IncrementKind = "patch"
	IncrementMinor IncrementKind = "minor"
	IncrementMajor IncrementKind = "major"
)

// IncrementKinds returns all supported increment kinds in prompt order.
func IncrementKinds() []IncrementKind {
	return []IncrementKind{IncrementPatch, IncrementMinor, IncrementMajor}
}

// ParseIncrementKind parses an increment kind, case-insensitively.
func ParseIncrementKind(s string) (IncrementKind, error) {
	switch k := IncrementKind(strings.ToLower(strings.TrimSpace(s))); k {
	case IncrementPatch, IncrementMinor, IncrementMajor:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported increment kind: %q", s)
	}
}

// String returns the string representation of the IncrementKind.
func (k IncrementKind) String() string {
	return string(k)
}

// ReleaseBranch identifies the branch being released.
type ReleaseBranch struct {
	Name string `json:"name"`
}

// VersionTag is a released (or to-be-released) semantic version.
type VersionTag struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

// Version returns the bare version, e.g. "1.4.3".
func (v VersionTag) Version() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// TagName returns the tag name, e.g. "Release-1.4.3".
func (v VersionTag) TagName() string {
	return TagPrefix + v.Version()
}

// Message returns the tag annotation message, e.g. "FEA-1.4.3".
func (v VersionTag) Message() string {
	return MessagePrefix + v.Version()
}

// String returns the tag name.
func (v VersionTag) String() string {
	return v.TagName()
}

// Compare returns -1, 0 or 1 as v is lower than, equal to or higher than o.
func (v VersionTag) Compare(o VersionTag) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

// ReleasePlan is the immutable output of planning, consumed by publishing.
type ReleasePlan struct {
	Branch    ReleaseBranch `json:"branch"`
	Previous  VersionTag    `json:"previous"`
	Next      VersionTag    `json:"next"`
	Increment IncrementKind `json:"increment"`
	Remote    string        `json:"remote"`
	Manifest  string        `json:"manifest"`
}

// TagName returns the tag the plan will create.
func (p ReleasePlan) TagName() string {
	return p.Next.TagName()
}

// CommitMessage returns the message of the release commit.
func (p ReleasePlan) CommitMessage() string {
	return p.Next.TagName()
}

// Refs returns the refs pushed together when publishing.
func (p ReleasePlan) Refs() []string {
	return []string{p.Branch.Name, p.Next.TagName()}
}
