package provider

import (
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/petrarca/trigram-langid/internal/types"
)

// FakeProvider implements the Provider interface in memory for testing
type FakeProvider struct {
	dirs    map[string][]types.File
	content map[string]string
}

// NewFakeProvider creates a new fake provider with an empty root
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		dirs:    map[string][]types.File{".": {}},
		content: make(map[string]string),
	}
}

// AddFile adds a file, creating its parent directories
func (p *FakeProvider) AddFile(path, content string) {
	path = filepath.Clean(path)
	p.addEntry(types.File{
		Name: filepath.Base(path),
		Path: path,
		Size: int64(len(content)),
	})
	p.content[path] = content
}

// AddDir adds an empty directory, creating its parents
func (p *FakeProvider) AddDir(path string) {
	path = filepath.Clean(path)
	if _, ok := p.dirs[path]; ok {
		return
	}
	p.dirs[path] = []types.File{}
	if path != "." && path != "/" {
		p.addEntry(types.File{Name: filepath.Base(path), Path: path, IsDir: true})
	}
}

func (p *FakeProvider) addEntry(file types.File) {
	dir := filepath.Dir(file.Path)
	p.AddDir(dir)
	for _, existing := range p.dirs[dir] {
		if existing.Path == file.Path {
			return
		}
	}
	p.dirs[dir] = append(p.dirs[dir], file)
	sort.Slice(p.dirs[dir], func(i, j int) bool {
		return p.dirs[dir][i].Name < p.dirs[dir][j].Name
	})
}

// ListDir returns the contents of a directory
func (p *FakeProvider) ListDir(path string) ([]types.File, error) {
	files, ok := p.dirs[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	return files, nil
}

// Open returns a reader over the file content
func (p *FakeProvider) Open(path string) (io.ReadCloser, error) {
	content, ok := p.content[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// ReadFile reads file content as bytes
func (p *FakeProvider) ReadFile(path string) ([]byte, error) {
	content, ok := p.content[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

// Exists checks if a file or directory exists
func (p *FakeProvider) Exists(path string) (bool, error) {
	path = filepath.Clean(path)
	_, fileExists := p.content[path]
	_, dirExists := p.dirs[path]
	return fileExists || dirExists, nil
}

// IsDir checks if a path is a directory
func (p *FakeProvider) IsDir(path string) (bool, error) {
	_, ok := p.dirs[filepath.Clean(path)]
	if !ok {
		if _, isFile := p.content[filepath.Clean(path)]; !isFile {
			return false, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
		}
	}
	return ok, nil
}

// GetBasePath returns "." for the in-memory root
func (p *FakeProvider) GetBasePath() string {
	return "."
}
