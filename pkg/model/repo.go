package model

import (
	"fmt"
	"net/url"
	"strings"
)

// RepoRef is a lightweight reference to a GitHub repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the full repository name in owner/repo format.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef parses a full name like "owner/repo" into a RepoRef.
func ParseRepoRef(fullName string) RepoRef {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return RepoRef{
				Owner: fullName[:i],
				Name:  fullName[i+1:],
			}
		}
	}
	return RepoRef{Name: fullName}
}

// ParseRemoteURL extracts owner/repo from a GitHub remote URL. Both the
// scp-like SSH form (git@github.com:owner/repo.git) and URL forms
// (https://github.com/owner/repo, ssh://git@github.com/owner/repo.git)
// are accepted.
func ParseRemoteURL(remote string) (RepoRef, error) {
	remote = strings.TrimSpace(remote)
	var path string

	switch {
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil {
			return RepoRef{}, fmt.Errorf("invalid remote URL %q: %w", remote, err)
		}
		path = u.Path
	case strings.Contains(remote, ":"):
		path = remote[strings.Index(remote, ":")+1:]
	default:
		return RepoRef{}, fmt.Errorf("unrecognized remote URL: %q", remote)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	ref := ParseRepoRef(path)
	if ref.Owner == "" || ref.Name == "" || strings.Contains(ref.Name, "/") {
		return RepoRef{}, fmt.Errorf("remote URL %q does not name an owner/repo", remote)
	}
	return ref, nil
}
