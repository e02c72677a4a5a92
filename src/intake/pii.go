package intake

import "regexp"

// Detector decides whether submitted text likely leaks personal contact
// info. It is a best-effort heuristic: false positives and false negatives
// are expected, the pattern set is swappable without touching intake flow.
type Detector interface {
	LooksLikePII(text string) bool
}

// RegexDetector is the default Detector: phone-like digit runs, email-shaped
// tokens and Telegram invite links.
type RegexDetector struct {
	patterns []*regexp.Regexp
}

var defaultPatterns = []*regexp.Regexp{
	// Nine or more digits allowing spaces, dashes, dots and parentheses
	// between them (phone numbers in most local formats).
	regexp.MustCompile(`(?i)(?:[\s().-]*\d){9,}`),
	// local@domain.tld with a 2+ letter TLD.
	regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`),
	// Telegram invite / profile links.
	regexp.MustCompile(`(?i)(?:t|telegram)\.me/`),
}

func NewRegexDetector() *RegexDetector {
	return &RegexDetector{patterns: defaultPatterns}
}

func (d *RegexDetector) LooksLikePII(text string) bool {
	for _, re := range d.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
