package types

import "io"

// Provider defines the file system operations used to read profiles and
// documents
type Provider interface {
	// ListDir lists a directory, entries sorted by name
	ListDir(path string) ([]File, error)

	// Open opens a file for streaming reads
	Open(path string) (io.ReadCloser, error)

	// ReadFile reads a whole file, used for profiles and ignore files
	ReadFile(path string) ([]byte, error)

	// Exists reports a missing path as false with a nil error
	Exists(path string) (bool, error)

	IsDir(path string) (bool, error)

	// GetBasePath is the directory relative paths resolve against
	GetBasePath() string
}

// File is one directory entry as listed by a Provider
type File struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}
