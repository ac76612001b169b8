package corpus

import (
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// Kinds reported for collected files
const (
	KindProse       = "prose"
	KindMarkup      = "markup"
	KindData        = "data"
	KindProgramming = "programming"
	KindUnknown     = "unknown"
)

// kindToString converts enry.Type to one of the Kind constants
func kindToString(t enry.Type) string {
	switch t {
	case enry.Programming:
		return KindProgramming
	case enry.Data:
		return KindData
	case enry.Markup:
		return KindMarkup
	case enry.Prose:
		return KindProse
	default:
		return KindUnknown
	}
}

// detectLanguage returns the linguist language of a file and its kind.
// Ambiguous extensions fall back to content analysis.
func detectLanguage(filename string, head []byte) (string, string) {
	lang, safe := enry.GetLanguageByExtension(filename)
	if !safe && lang != "" && len(head) > 0 {
		lang = enry.GetLanguage(filepath.Base(filename), head)
	}
	if lang == "" {
		lang, _ = enry.GetLanguageByFilename(filename)
	}
	if lang == "" {
		return "", KindUnknown
	}
	return lang, kindToString(enry.GetLanguageType(lang))
}

// LanguageKind returns the kind of a linguist language name
func LanguageKind(lang string) string {
	return kindToString(enry.GetLanguageType(lang))
}
