package releaser

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/grokify/releaseconductor/pkg/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1.2.3", "1.2.3", false},
		{"v1.2.3", "v1.2.3", false},
		{"v1.2", "v1.2.0", false},
		{"1.0.0-beta.1", "1.0.0-beta.1", false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got.String(), tt.want)
		})
	}
}

func TestParseRelease(t *testing.T) {
	v, err := ParseRelease("1.4.2")
	gt.NoError(t, err)
	gt.Equal(t, v, model.VersionTag{Major: 1, Minor: 4, Patch: 2})

	for _, bad := range []string{"v1.4.2", "1.4", "1.4.2-rc.1", "1.4.2+build", "latest"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseRelease(bad)
			gt.Error(t, err)
			gt.Equal(t, KindOf(err), KindInvalidVersionFormat)
		})
	}
}

func TestVersion_Bump(t *testing.T) {
	v, err := Parse("v1.2.3")
	gt.NoError(t, err)

	gt.Equal(t, v.BumpMajor().String(), "v2.0.0")
	gt.Equal(t, v.BumpMinor().String(), "v1.3.0")
	gt.Equal(t, v.BumpPatch().String(), "v1.2.4")
	gt.Equal(t, v.String(), "v1.2.3")

	_, err = v.Bump(model.IncrementKind("hotfix"))
	gt.Equal(t, KindOf(err), KindUnsupportedIncrement)
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"v2.0.0", "1.9.9", 1},
	}

	for _, tt := range tests {
		a, err := Parse(tt.a)
		gt.NoError(t, err)
		b, err := Parse(tt.b)
		gt.NoError(t, err)
		gt.Equal(t, a.Compare(b), tt.want)
	}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		previous string
		kind     model.IncrementKind
		want     string
	}{
		{"1.4.2", model.IncrementPatch, "1.4.3"},
		{"1.4.2", model.IncrementMinor, "1.5.0"},
		{"1.4.2", model.IncrementMajor, "2.0.0"},
		{"0.0.0", model.IncrementPatch, "0.0.1"},
		{"0.9.9", model.IncrementMinor, "0.10.0"},
		{"3.0.17", model.IncrementMinor, "3.1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.previous+"+"+tt.kind.String(), func(t *testing.T) {
			got, err := Plan(tt.previous, tt.kind)
			gt.NoError(t, err)
			gt.Equal(t, got.Version(), tt.want)
		})
	}
}

func TestPlan_Properties(t *testing.T) {
	for major := 0; major < 3; major++ {
		for minor := 0; minor < 4; minor++ {
			for patch := 0; patch < 5; patch++ {
				prev := model.VersionTag{Major: major, Minor: minor, Patch: patch}

				p, err := Plan(prev.Version(), model.IncrementPatch)
				gt.NoError(t, err)
				gt.Equal(t, p, model.VersionTag{Major: major, Minor: minor, Patch: patch + 1})

				m, err := Plan(prev.Version(), model.IncrementMinor)
				gt.NoError(t, err)
				gt.Equal(t, m, model.VersionTag{Major: major, Minor: minor + 1})

				again, err := Plan(prev.Version(), model.IncrementMinor)
				gt.NoError(t, err)
				gt.Equal(t, again, m)
			}
		}
	}
}

func TestPlan_Invalid(t *testing.T) {
	_, err := Plan("1.4", model.IncrementPatch)
	gt.Equal(t, KindOf(err), KindInvalidVersionFormat)

	_, err = Plan("1.4.2", "")
	gt.Equal(t, KindOf(err), KindUnsupportedIncrement)
}

func TestLatestReleaseTag(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		want     string
		wantKind Kind
	}{
		{"single", []string{"Release-1.4.2"}, "Release-1.4.2", ""},
		{"highest on shared commit", []string{"Release-1.4.2", "Release-1.10.0", "Release-1.9.9"}, "Release-1.10.0", ""},
		{"ignores foreign tags", []string{"v9.9.9", "Release-0.1.0", "nightly"}, "Release-0.1.0", ""},
		{"none", nil, "", KindNoPriorRelease},
		{"only foreign", []string{"v1.0.0"}, "", KindNoPriorRelease},
		{"malformed", []string{"Release-1.4"}, "", KindInvalidVersionFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LatestReleaseTag(tt.tags)
			if tt.wantKind != "" {
				gt.Equal(t, KindOf(err), tt.wantKind)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got.TagName(), tt.want)
		})
	}
}

func TestNewReleasePlan(t *testing.T) {
	prev := model.VersionTag{Major: 1, Minor: 4, Patch: 2}
	plan, err := NewReleasePlan("main", prev, model.IncrementPatch, "origin", "package.json")
	gt.NoError(t, err)

	gt.Equal(t, plan.TagName(), "Release-1.4.3")
	gt.Equal(t, plan.CommitMessage(), "Release-1.4.3")
	gt.Equal(t, plan.Next.Message(), "FEA-1.4.3")
	gt.V(t, plan.Refs()).Equal([]string{"main", "Release-1.4.3"})
	gt.Equal(t, plan.Previous, prev)
}
