// Package language wraps trigram-based language detection. Detection is
// advisory: any failure or low-confidence result falls back to English
// rather than surfacing as a request error.
package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

const fallbackLang = "en"

// Detector classifies text into an ISO 639-1 language code.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the ISO 639-1 code for text, or "en" when the text is
// empty, the classifier is unsure, or the language has no 639-1 code.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return fallbackLang
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return fallbackLang
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return fallbackLang
	}
	return code
}
