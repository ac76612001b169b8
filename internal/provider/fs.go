package provider

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/petrarca/trigram-langid/internal/types"
)

// FSProvider reads profiles and corpus documents from disk. Relative paths
// resolve against the directory it was created for; absolute paths are
// used as given.
type FSProvider struct {
	rootPath string
}

func NewFSProvider(rootPath string) *FSProvider {
	return &FSProvider{
		rootPath: strings.TrimSuffix(rootPath, "/"),
	}
}

// ListDir returns the entries of a directory sorted by name. Entries that
// disappear between the listing and their stat are left out.
func (p *FSProvider) ListDir(path string) ([]types.File, error) {
	entries, err := os.ReadDir(p.resolve(path))
	if err != nil {
		return nil, err
	}

	files := make([]types.File, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, types.File{
			Name:  entry.Name(),
			Path:  filepath.Join(path, entry.Name()),
			IsDir: entry.IsDir(),
			Size:  info.Size(),
		})
	}

	return files, nil
}

func (p *FSProvider) Open(path string) (io.ReadCloser, error) {
	return os.Open(p.resolve(path))
}

func (p *FSProvider) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(p.resolve(path))
}

// Exists is false without error only when nothing is at path; permission
// and I/O failures are returned.
func (p *FSProvider) Exists(path string) (bool, error) {
	_, err := os.Stat(p.resolve(path))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (p *FSProvider) IsDir(path string) (bool, error) {
	info, err := os.Stat(p.resolve(path))
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (p *FSProvider) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if path == "." || path == "" {
		return p.rootPath
	}
	return filepath.Join(p.rootPath, path)
}

// GetBasePath is the directory relative paths resolve against
func (p *FSProvider) GetBasePath() string {
	return p.rootPath
}
