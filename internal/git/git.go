package git

import (
	"net/url"

	"github.com/go-git/go-git/v5"
)

// Info describes the repository a corpus was read from
type Info struct {
	Root      string `json:"root" yaml:"root" toml:"root"`
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty" toml:"branch,omitempty"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty" toml:"commit,omitempty"`
	IsDirty   bool   `json:"is_dirty" yaml:"is_dirty" toml:"is_dirty"`
	RemoteURL string `json:"remote_url,omitempty" yaml:"remote_url,omitempty" toml:"remote_url,omitempty"`
}

// Describe returns repository information for path, searching parent
// directories for the repository. Returns nil outside a repository.
func Describe(path string) *Info {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}

	info := &Info{}

	head, err := repo.Head()
	if err == nil {
		info.Commit = head.Hash().String()[:7]
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		} else {
			info.Branch = "HEAD" // detached
		}
	}

	// status walks the whole worktree
	if worktree, err := repo.Worktree(); err == nil {
		info.Root = worktree.Filesystem.Root()
		if status, err := worktree.Status(); err == nil {
			info.IsDirty = !status.IsClean()
		}
	}

	if cfg, err := repo.Config(); err == nil {
		if origin := cfg.Remotes["origin"]; origin != nil && len(origin.URLs) > 0 {
			info.RemoteURL = sanitizeRemoteURL(origin.URLs[0])
		}
	}

	return info
}

// sanitizeRemoteURL strips credentials from HTTP(S) remote URLs. SCP-style
// SSH remotes are returned unchanged.
func sanitizeRemoteURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil || (u.Scheme != "http" && u.Scheme != "https") {
		return raw
	}
	u.User = nil
	return u.String()
}
