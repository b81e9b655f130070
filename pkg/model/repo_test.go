package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/grokify/releaseconductor/pkg/model"
)

func TestParseRepoRef(t *testing.T) {
	gt.Equal(t, model.ParseRepoRef("acme/widget"), model.RepoRef{Owner: "acme", Name: "widget"})
	gt.Equal(t, model.ParseRepoRef("widget"), model.RepoRef{Name: "widget"})
	gt.Equal(t, model.RepoRef{Owner: "acme", Name: "widget"}.FullName(), "acme/widget")
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		remote  string
		want    model.RepoRef
		wantErr bool
	}{
		{"git@github.com:acme/widget.git", model.RepoRef{Owner: "acme", Name: "widget"}, false},
		{"https://github.com/acme/widget", model.RepoRef{Owner: "acme", Name: "widget"}, false},
		{"https://github.com/acme/widget.git/", model.RepoRef{Owner: "acme", Name: "widget"}, false},
		{"ssh://git@github.com/acme/widget.git", model.RepoRef{Owner: "acme", Name: "widget"}, false},
		{"/srv/git/widget.git", model.RepoRef{}, true},
		{"https://github.com/widget", model.RepoRef{}, true},
		{"https://example.com/group/sub/widget", model.RepoRef{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			got, err := model.ParseRemoteURL(tt.remote)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestRepositoryState(t *testing.T) {
	s := model.RepositoryState{CurrentBranch: "main", Branch: "main", Clean: true}
	gt.True(t, s.OnBranch())
	gt.False(t, s.Diverged())
	gt.False(t, s.HasTagOnHead())

	s.CurrentBranch = "feature"
	s.Ahead = 1
	s.HeadTags = []string{"Release-1.4.2"}
	gt.False(t, s.OnBranch())
	gt.True(t, s.Diverged())
	gt.True(t, s.HasTagOnHead())
}
