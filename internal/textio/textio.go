// Package textio reads documents into the line sequences consumed by the
// identifier.
package textio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/petrarca/trigram-langid/internal/types"
)

// DefaultEncoding is used when Options.Encoding is empty
const DefaultEncoding = "utf-8"

// Options control how raw bytes become lines
type Options struct {
	// Encoding is a WHATWG encoding label such as "utf-8", "latin1" or
	// "windows-1251". A byte order mark in the input overrides it.
	Encoding string
	// NFC composes each line to Unicode normalization form C
	NFC bool
	// MaxLines stops reading after this many lines; 0 reads everything
	MaxLines int
}

// ValidateEncoding reports whether label names a supported encoding
func ValidateEncoding(label string) error {
	_, err := lookupEncoding(label)
	return err
}

func lookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc, nil
}

// ReadLines decodes r and splits it on '\n'. Carriage returns are left in
// place. Invalid byte sequences decode to U+FFFD instead of failing.
func ReadLines(r io.Reader, opts Options) (types.Text, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	// decoder state is per call
	decoder := unicode.BOMOverride(enc.NewDecoder())
	reader := bufio.NewReader(transform.NewReader(r, decoder))

	var text types.Text
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			if opts.NFC {
				line = norm.NFC.String(line)
			}
			text = append(text, line)
			if opts.MaxLines > 0 && len(text) >= opts.MaxLines {
				return text, nil
			}
		}
		if errors.Is(err, io.EOF) {
			return text, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read text: %w", err)
		}
	}
}

// ReadFile reads the lines of the file at path
func ReadFile(path string, opts Options) (types.Text, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	text, err := ReadLines(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// FromString splits an in-memory string into lines
func FromString(s string) types.Text {
	if s == "" {
		return types.Text{}
	}
	return types.Text(strings.Split(strings.TrimSuffix(s, "\n"), "\n"))
}
