// Package layout maps a user's download tree onto paths.
//
// The tree is laid out as:
//
//	<base>/<username>/
//	    GitHub/<component>/        one directory per component to look up
//	    Official/                  destination root
//	        available_url_list.json
//	        abnormal_url_list.json
//	        <component>/
//	            downloadlinks.txt
//	            repos/<file name>
//
// The user, GitHub and Official directories must exist before a run; the
// per-component directories below Official are created on demand.
package layout

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/sourcescout/pkg/errors"
)

// File and directory names inside the user tree.
const (
	GitHubDirName     = "GitHub"
	OfficialDirName   = "Official"
	ReposDirName      = "repos"
	ManifestFileName  = "downloadlinks.txt"
	AvailableFileName = "available_url_list.json"
	AbnormalFileName  = "abnormal_url_list.json"
)

// Layout resolves paths for one user under a base directory.
type Layout struct {
	BaseDir  string
	Username string
}

// New creates a Layout.
func New(baseDir, username string) Layout {
	return Layout{BaseDir: baseDir, Username: username}
}

// UserDir returns <base>/<username>, which must exist.
func (l Layout) UserDir() (string, error) {
	return requireDir(filepath.Join(l.BaseDir, l.Username),
		"download dir not found, please create it manually")
}

// GitHubDir returns <base>/<username>/GitHub, which must exist.
func (l Layout) GitHubDir() (string, error) {
	user, err := l.UserDir()
	if err != nil {
		return "", err
	}
	return requireDir(filepath.Join(user, GitHubDirName),
		"download dir for GitHub components not found, please reorganize your download directory")
}

// OfficialDir returns <base>/<username>/Official, which must exist.
func (l Layout) OfficialDir() (string, error) {
	user, err := l.UserDir()
	if err != nil {
		return "", err
	}
	return requireDir(filepath.Join(user, OfficialDirName),
		"download dir for official components not found, please reorganize your download directory")
}

// Check verifies that every required directory exists.
func (l Layout) Check() error {
	if _, err := l.GitHubDir(); err != nil {
		return err
	}
	_, err := l.OfficialDir()
	return err
}

// ComponentNames lists the subdirectories of the GitHub directory, sorted.
// Plain files are ignored.
func (l Layout) ComponentNames() ([]string, error) {
	dir, err := l.GitHubDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingDirectory, err, "read %s", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// ComponentDir returns Official/<component>, creating it if needed.
func (l Layout) ComponentDir(component string) (string, error) {
	if err := errors.ValidateComponentName(component); err != nil {
		return "", err
	}
	official, err := l.OfficialDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(official, component))
}

// ReposDir returns Official/<component>/repos, creating it if needed.
func (l Layout) ReposDir(component string) (string, error) {
	dir, err := l.ComponentDir(component)
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dir, ReposDirName))
}

// ManifestPath returns Official/<component>/downloadlinks.txt.
func (l Layout) ManifestPath(component string) (string, error) {
	dir, err := l.ComponentDir(component)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ManifestFileName), nil
}

// AvailablePath returns Official/available_url_list.json.
func (l Layout) AvailablePath() (string, error) {
	return l.officialFile(AvailableFileName)
}

// AbnormalPath returns Official/abnormal_url_list.json.
func (l Layout) AbnormalPath() (string, error) {
	return l.officialFile(AbnormalFileName)
}

func (l Layout) officialFile(name string) (string, error) {
	official, err := l.OfficialDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(official, name), nil
}

// WriteJSON writes v to path as a 2-space indented JSON document. A nil
// slice must be passed as an empty slice to be written as [].
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func requireDir(path, msg string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", errors.New(errors.ErrCodeMissingDirectory, "%s: %s", msg, path)
	}
	return path, nil
}

func ensureDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}
