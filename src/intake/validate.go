package intake

import (
	"errors"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// MinTextLen and MaxTextLen bound the trimmed submission body in runes.
	MinTextLen = 10
	MaxTextLen = 2000
)

var (
	ErrInvalidLength = errors.New("text length out of bounds")
	ErrPIIDetected   = errors.New("text looks like it contains personal contact info")
	ErrDuplicate     = errors.New("identical text was submitted recently")
)

// stripper removes any markup from submitted text. Submissions are plain
// text; whatever the form sends is flattened before validation.
var stripper = bluemonday.StrictPolicy()

// Validate checks a raw submission body and normalizes the declared
// language. It returns the cleaned text and the effective language, or
// ErrInvalidLength when the trimmed body falls outside [MinTextLen, MaxTextLen].
func Validate(raw, declaredLang string) (text, lang string, err error) {
	// StrictPolicy escapes entities while stripping tags; unescape so the
	// stored text is what the submitter typed, minus markup.
	text = html.UnescapeString(stripper.Sanitize(raw))
	text = strings.TrimSpace(text)

	if n := utf8.RuneCountInString(text); n < MinTextLen || n > MaxTextLen {
		return "", "", ErrInvalidLength
	}

	lang = "en"
	if declaredLang == "ru" {
		lang = "ru"
	}
	return text, lang, nil
}
