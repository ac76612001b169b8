package profiles

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format identifies a profile serialization
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
)

// Formats lists the supported serializations in lookup order
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatTOML, FormatMsgpack}

// FormatFromPath derives the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported profile format: %s", path)
	}
}

// packedDocument is the msgpack wire layout; counts are stored unsigned
type packedDocument struct {
	Code     string            `msgpack:"code"`
	Name     string            `msgpack:"name,omitempty"`
	Total    uint32            `msgpack:"total"`
	Trigrams map[string]uint32 `msgpack:"trigrams"`
}

// Decode parses a profile document. CSV documents carry no code or name;
// callers fill those in.
func Decode(format Format, data []byte) (Document, error) {
	var doc Document
	var err error

	switch format {
	case FormatCSV:
		doc, err = decodeCSV(bytes.NewReader(data))
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	case FormatMsgpack:
		doc, err = decodeMsgpack(data)
	default:
		return doc, fmt.Errorf("unsupported profile format: %q", format)
	}

	if err != nil {
		return doc, fmt.Errorf("failed to parse %s profile: %w", format, err)
	}
	if doc.Trigrams == nil {
		doc.Trigrams = make(map[string]int)
	}
	return doc, nil
}

// Encode serializes a profile document
func Encode(format Format, doc Document) ([]byte, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(doc)
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode TOML profile: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		return encodeMsgpack(doc)
	default:
		return nil, fmt.Errorf("unsupported profile format: %q", format)
	}
}

func decodeCSV(r io.Reader) (Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.LazyQuotes = true

	doc := Document{Trigrams: make(map[string]int)}
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		if err != nil {
			return doc, err
		}
		if line == 1 && record[0] == "trigram" {
			continue // header
		}
		count, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return doc, fmt.Errorf("line %d: invalid count %q", line, record[1])
		}
		doc.Trigrams[record[0]] += count
		doc.Total += count
	}
}

func encodeCSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, key := range doc.sortedKeys() {
		if err := writer.Write([]string{key, strconv.Itoa(doc.Trigrams[key])}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func decodeMsgpack(data []byte) (Document, error) {
	var packed packedDocument
	if err := msgpack.Unmarshal(data, &packed); err != nil {
		return Document{}, err
	}

	doc := Document{
		Code:     packed.Code,
		Name:     packed.Name,
		Trigrams: make(map[string]int, len(packed.Trigrams)),
	}
	total, err := safecast.Conv[int](packed.Total)
	if err != nil {
		return doc, fmt.Errorf("total: %w", err)
	}
	doc.Total = total
	for key, count := range packed.Trigrams {
		n, err := safecast.Conv[int](count)
		if err != nil {
			return doc, fmt.Errorf("trigram %q: %w", key, err)
		}
		doc.Trigrams[key] = n
	}
	return doc, nil
}

func encodeMsgpack(doc Document) ([]byte, error) {
	total, err := safecast.Conv[uint32](doc.Total)
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	packed := packedDocument{
		Code:     doc.Code,
		Name:     doc.Name,
		Total:    total,
		Trigrams: make(map[string]uint32, len(doc.Trigrams)),
	}
	for key, count := range doc.Trigrams {
		n, err := safecast.Conv[uint32](count)
		if err != nil {
			return nil, fmt.Errorf("trigram %q: %w", key, err)
		}
		packed.Trigrams[key] = n
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(packed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes doc in the format implied by path and replaces the file
// atomically
func Write(path string, doc Document) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(format, doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".profile-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
