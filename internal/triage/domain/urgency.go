package domain

import (
	"fmt"
	"regexp"
)

// UrgencyExtractor pulls an urgency label out of the assistant's final text.
// It is a pluggable strategy so the regex matching can later be replaced by a
// structured gateway response without touching the session state machine.
type UrgencyExtractor interface {
	// Extract returns the matched urgency phrase, or "" when no pattern
	// matches. It never fails; an unset urgency never blocks saving.
	Extract(text string) string
}

// urgencyPhrases is the closed vocabulary of triage outcomes, in match order.
// Emergency wins over the milder labels when several phrases appear.
var urgencyPhrases = []string{
	`紧急`,
	`Emergency`,
	`24小时内(?:就医)?`,
	`Within 24 hours`,
	`可观察`,
	`观察`,
	`Monitor`,
}

// The heading marker that precedes the urgency phrase in the fixed output
// format, optionally prefixed by an emoji or bullet and markdown emphasis.
const urgencyHeading = `(?:紧急程度|Urgency Level)`

type patternExtractor struct {
	patterns []*regexp.Regexp
}

// NewUrgencyExtractor builds the heading-anchored bilingual pattern set over
// the closed urgency vocabulary. First matching pattern wins.
func NewUrgencyExtractor() UrgencyExtractor {
	patterns := make([]*regexp.Regexp, 0, len(urgencyPhrases))
	for _, phrase := range urgencyPhrases {
		patterns = append(patterns, regexp.MustCompile(
			fmt.Sprintf(`(?s)%s.{0,80}?(%s)`, urgencyHeading, phrase)))
	}
	return &patternExtractor{patterns: patterns}
}

func (e *patternExtractor) Extract(text string) string {
	for _, p := range e.patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
