package hallucination

import (
	"log"
	"regexp"
	"strings"
)

// Rules holds the tuned blocklists the filter matches against. The
// phrase lists come from configuration: they grow with every observed
// transcription artifact and are reviewed, not hard-coded.
type Rules struct {
	ShortTextLimit int      // flag rule 1 only applies below this length
	RepeatPhrase   string   // phrase whose repetition alone flags the text
	RepeatLimit    int      // occurrences of RepeatPhrase that flag
	FillerPhrases  []string // stock sign-off/filler phrases models emit on silence
	CaptionMarkers []string // provenance strings from captioning products
	AdPhrases      []string // known advertising-injection phrases
	PromoPhrases   []string // promotional phrasing that flags alongside a domain
}

// DefaultRules returns the baseline blocklists.
func DefaultRules() Rules {
	return Rules{
		ShortTextLimit: 100,
		RepeatPhrase:   "thank you",
		RepeatLimit:    3,
		FillerPhrases: []string{
			"thank you",
			"thanks for watching",
			"bye",
			"goodbye",
			"see you next time",
			"subscribe",
			"transcribed by",
		},
		CaptionMarkers: []string{
			"subtitles by the amara.org community",
			"captioning by",
		},
		AdPhrases: []string{
			"use code",
			"promo code",
			"limited time offer",
		},
		PromoPhrases: []string{
			"sponsored by",
			"brought to you by",
			"check out",
			"sign up today",
		},
	}
}

// domainPattern matches a bare domain-looking token ("something.com").
var domainPattern = regexp.MustCompile(`\b[a-z0-9][a-z0-9-]*\.(com|net|org|io|co|app)\b`)

// Filter suppresses known speech-to-text failure modes: stock phrases
// hallucinated on silence, caption-product provenance markers, and ad
// bleed from unrelated audio.
type Filter struct {
	rules Rules
}

// NewFilter creates a filter with the given rules.
func NewFilter(rules Rules) *Filter {
	if rules.ShortTextLimit <= 0 {
		rules.ShortTextLimit = 100
	}
	if rules.RepeatLimit <= 0 {
		rules.RepeatLimit = 3
	}
	return &Filter{rules: rules}
}

// Result is the filter's verdict for one transcript.
type Result struct {
	Text       string  // original text, or "" when flagged
	Confidence float64 // passed-through confidence, or 0 when flagged
	Flagged    bool
	Reason     string
}

// Apply evaluates one chunk's transcript. Flagged text becomes empty
// (not null) with zero confidence, preserving the chunk's place in the
// ordered sequence; clean text passes through untouched.
func (f *Filter) Apply(text string, confidence float64) Result {
	if reason := f.flag(text); reason != "" {
		log.Printf("[INFO] Hallucination filter suppressed transcript (%s): %q", reason, truncate(text, 60))
		return Result{Text: "", Confidence: 0, Flagged: true, Reason: reason}
	}

	return Result{Text: text, Confidence: confidence}
}

// flag returns a non-empty reason when text matches a known artifact
// pattern. The checks are ORed, cheapest first.
func (f *Filter) flag(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return ""
	}

	// Rule 1: short text containing a stock filler phrase
	if len(lower) < f.rules.ShortTextLimit {
		for _, phrase := range f.rules.FillerPhrases {
			if strings.Contains(lower, strings.ToLower(phrase)) {
				return "filler"
			}
		}
	}

	// Rule 2: the repeat phrase appearing too many times
	if f.rules.RepeatPhrase != "" &&
		strings.Count(lower, strings.ToLower(f.rules.RepeatPhrase)) >= f.rules.RepeatLimit {
		return "repetition"
	}

	// Rule 3: provenance marker of a captioning product
	for _, marker := range f.rules.CaptionMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return "caption-marker"
		}
	}

	// Rule 4: advertising injection, either a known ad phrase or a
	// domain together with promotional phrasing
	for _, phrase := range f.rules.AdPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return "advertising"
		}
	}
	if domainPattern.MatchString(lower) {
		for _, phrase := range f.rules.PromoPhrases {
			if strings.Contains(lower, strings.ToLower(phrase)) {
				return "advertising"
			}
		}
	}

	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
