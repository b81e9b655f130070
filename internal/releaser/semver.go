package releaser

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/m-mizutani/goerr/v2"

	"github.com/grokify/releaseconductor/pkg/model"
)

// Version represents a semantic version together with the prefix it was
// written with.
type Version struct {
	*semver.Version
	Prefix string // "v" or empty
}

// Parse parses a version string leniently: a "v" prefix and missing minor or
// patch components are accepted.
func Parse(v string) (*Version, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid version format", goerr.V("version", v))
	}
	ver := &Version{Version: sv}
	if strings.HasPrefix(v, "v") {
		ver.Prefix = "v"
	}
	return ver, nil
}

// ParseRelease parses a strict MAJOR.MINOR.PATCH release version. Prefixes,
// prerelease and build metadata are rejected.
func ParseRelease(v string) (model.VersionTag, error) {
	sv, err := parseStrict(v)
	if err != nil {
		return model.VersionTag{}, err
	}
	return toVersionTag(sv), nil
}

func parseStrict(v string) (*semver.Version, error) {
	sv, err := semver.StrictNewVersion(v)
	if err != nil {
		return nil, newError(KindInvalidVersionFormat,
			goerr.Wrap(err, "version is not MAJOR.MINOR.PATCH", goerr.V("version", v)),
			"release tags must look like "+model.TagPrefix+"1.2.3")
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return nil, newError(KindInvalidVersionFormat,
			goerr.New("prerelease and build metadata are not release versions", goerr.V("version", v)),
			"release tags must look like "+model.TagPrefix+"1.2.3")
	}
	return sv, nil
}

// String returns the version as a string, including its prefix.
func (v *Version) String() string {
	return v.Prefix + v.Version.String()
}

// BumpMajor increments the major version and resets minor and patch.
func (v *Version) BumpMajor() *Version {
	next := v.IncMajor()
	return &Version{Version: &next, Prefix: v.Prefix}
}

// BumpMinor increments the minor version and resets patch.
func (v *Version) BumpMinor() *Version {
	next := v.IncMinor()
	return &Version{Version: &next, Prefix: v.Prefix}
}

// BumpPatch increments the patch version.
func (v *Version) BumpPatch() *Version {
	next := v.IncPatch()
	return &Version{Version: &next, Prefix: v.Prefix}
}

// Bump increments the component selected by kind.
func (v *Version) Bump(kind model.IncrementKind) (*Version, error) {
	switch kind {
	case model.IncrementPatch:
		return v.BumpPatch(), nil
	case model.IncrementMinor:
		return v.BumpMinor(), nil
	case model.IncrementMajor:
		return v.BumpMajor(), nil
	default:
		return nil, newError(KindUnsupportedIncrement,
			goerr.New("unsupported increment kind", goerr.V("increment", kind)),
			"choose one of patch, minor, major")
	}
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v *Version) Compare(other *Version) int {
	return v.Version.Compare(other.Version)
}

// LatestReleaseTag returns the highest Release-X.Y.Z tag among tags.
// Tags that do not carry the release prefix are ignored; a prefixed tag
// whose remainder is not a release version is an InvalidVersionFormat error.
func LatestReleaseTag(tags []string) (model.VersionTag, error) {
	var (
		latest model.VersionTag
		found  bool
	)
	for _, tag := range tags {
		raw, ok := strings.CutPrefix(tag, model.TagPrefix)
		if !ok {
			continue
		}
		v, err := ParseRelease(raw)
		if err != nil {
			return model.VersionTag{}, err
		}
		if !found || v.Compare(latest) > 0 {
			latest, found = v, true
		}
	}
	if !found {
		return model.VersionTag{}, newError(KindNoPriorRelease,
			goerr.New("no release tag found", goerr.V("pattern", model.TagPrefix+"*")),
			"create the first "+model.TagPrefix+"X.Y.Z tag or pass --initial-version")
	}
	return latest, nil
}

// Plan computes the next release version from the previous one. It is pure:
// the same inputs always produce the same output.
func Plan(previous string, kind model.IncrementKind) (model.VersionTag, error) {
	sv, err := parseStrict(previous)
	if err != nil {
		return model.VersionTag{}, err
	}
	next, err := (&Version{Version: sv}).Bump(kind)
	if err != nil {
		return model.VersionTag{}, err
	}
	return toVersionTag(next.Version), nil
}

// NewReleasePlan builds the immutable plan for releasing branch.
func NewReleasePlan(branch string, previous model.VersionTag, kind model.IncrementKind, remote, manifest string) (model.ReleasePlan, error) {
	next, err := Plan(previous.Version(), kind)
	if err != nil {
		return model.ReleasePlan{}, err
	}
	return model.ReleasePlan{
		Branch:    model.ReleaseBranch{Name: branch},
		Previous:  previous,
		Next:      next,
		Increment: kind,
		Remote:    remote,
		Manifest:  manifest,
	}, nil
}

func toVersionTag(sv *semver.Version) model.VersionTag {
	return model.VersionTag{
		Major: int(sv.Major()), //nolint:gosec // versions are small
		Minor: int(sv.Minor()), //nolint:gosec // versions are small
		Patch: int(sv.Patch()), //nolint:gosec // versions are small
	}
}
