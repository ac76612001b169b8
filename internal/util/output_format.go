package util

import (
	"fmt"
	"sort"
	"strings"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ValidOutputFormats defines the supported output formats
var ValidOutputFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatYAML: true,
	FormatTOML: true,
}

// ValidateOutputFormat checks if the given format is valid
func ValidateOutputFormat(format string) error {
	if !ValidOutputFormats[strings.ToLower(format)] {
		return fmt.Errorf("invalid format: %s. Valid formats are: %s", format, strings.Join(GetValidFormats(), ", "))
	}
	return nil
}

// GetValidFormats returns the valid output formats in sorted order
func GetValidFormats() []string {
	formats := make([]string, 0, len(ValidOutputFormats))
	for format := range ValidOutputFormats {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// NormalizeFormat normalizes the format string to lowercase
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// FormatFromFile derives an output format from a file extension, or ""
// when the extension names no format
func FormatFromFile(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".toml"):
		return FormatTOML
	case strings.HasSuffix(lower, ".txt"):
		return FormatText
	default:
		return ""
	}
}
