package spec

const (
	// Version represents the output format specification version
	// This version indicates the structure and schema of the identify output
	// It should be updated when breaking changes are made to the output format
	Version = "1.0"
)
