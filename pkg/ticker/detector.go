package ticker

import (
	"strings"
	"unicode"
)

const maxTokenLen = 5

// DefaultAllowList holds the symbols the market provider is expected to resolve.
var DefaultAllowList = []string{
	"AAPL", "MSFT", "NVDA", "GOOG", "GOOGL", "AMZN", "META", "TSLA", "NFLX",
	"AMD", "INTC", "IBM", "ORCL", "CRM", "PYPL", "UBER", "COIN",
	"JPM", "BAC", "WFC", "GS", "BRK.A", "BRK.B",
	"CVX", "XOM", "OXY",
	"T", "VZ",
	"SPY", "QQQ", "IWM",
	"V", "MA", "DIS", "PEP", "KO", "COST", "HD", "MCD", "NKE", "SBUX",
}

// DefaultStopList are ticker-shaped words that should never be treated as symbols.
var DefaultStopList = []string{
	"WHAT", "HOW", "WHY", "WHEN", "THIS", "THAT",
	"FED", "GDP", "USA", "AND", "FOR", "THE", "IS", "ARE",
}

type Detector struct {
	allow map[string]struct{}
	stop  map[string]struct{}
}

func NewDetector(allow, stop []string) *Detector {
	return &Detector{
		allow: toSet(allow),
		stop:  toSet(stop),
	}
}

func Default() *Detector {
	return NewDetector(DefaultAllowList, DefaultStopList)
}

// Detect returns the first allow-listed, non-stop-listed token in text, upper-cased.
// The boolean is false when nothing qualifies.
func (d *Detector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	for _, token := range tokens(strings.ToUpper(text)) {
		if _, stop := d.stop[token]; stop {
			continue
		}
		if _, ok := d.allow[token]; ok {
			return token, true
		}
	}
	return "", false
}

// tokens returns the word runs made only of 1-5 ASCII capitals. Words are split on any rune that is
// not a Unicode letter, digit or underscore, so "VÉRITÉ" or "AMD64" stay whole and never qualify.
func tokens(upper string) []string {
	words := strings.FieldsFunc(upper, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	out := words[:0]
	for _, w := range words {
		if len(w) <= maxTokenLen && isASCIIUpper(w) {
			out = append(out, w)
		}
	}
	return out
}

func isASCIIUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return s != ""
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}
