// Package classify implements the fast-path intent classifier: an ordered
// table of case-insensitive regex patterns that labels a user turn before
// any model or retrieval tool is consulted. Trivial conversational turns
// (greeting, goodbye, small talk) short-circuit to templated replies so the
// expensive agent path is reserved for queries that need it.
package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hungryfork/concierge/core"
)

// greetingTokens drive the length-bounded fast path: a trimmed input of at
// most 10 characters containing one of these is a greeting, no pattern scan
// needed.
var greetingTokens = []string{"hi", "hello", "hey"}

// category pairs a label with its compiled patterns. Categories are tested
// in declaration order; the first match wins.
type category struct {
	label    core.Label
	patterns []*regexp.Regexp
}

// Classifier labels user turns. Classification never fails: inputs that
// match nothing are labeled core.LabelGeneral.
//
// The pattern table and its priority order are product behavior, not an
// implementation detail. Overlapping queries ("any cheap food deals?")
// resolve by order, so reordering changes answers.
type Classifier struct {
	categories []category
}

// New compiles the classifier's pattern table.
func New() *Classifier {
	table := []struct {
		label    core.Label
		patterns []string
	}{
		{core.LabelGreeting, []string{
			`\b(hi|hello|hey|good\s*(morning|afternoon|evening)|greetings?)\b`,
			`^(hi|hello|hey)[\s\W]*$`,
		}},
		{core.LabelGoodbye, []string{
			`\b(bye|goodbye|see\s*you|thanks?\s*(bye|goodbye)|have\s*a\s*good\s*(day|night))\b`,
			`\b(exit|quit|done|finished?)\b`,
		}},
		{core.LabelHowAreYou, []string{
			`\b(how\s*are\s*you|how\s*do\s*you\s*do|how\s*is\s*it\s*going)\b`,
		}},
		{core.LabelMenuQuery, []string{
			`\b(menu|food|dish|eat|hungry|meal|cuisine|spicy|vegetarian|vegan|price|cost)\b`,
			`\b(what.*available|show.*menu|recommend|suggest.*food)\b`,
			`\b(pizza|burger|chicken|rice|bread|dessert|drink|beverage|starter|appetizer)\b`,
			`\b(under|below|less than|within).*(\d+).*rupees?\b`,
		}},
		{core.LabelRestaurantInfo, []string{
			`\b(hours?|time|open|close|location|address|phone|contact|delivery|takeout)\b`,
			`\b(where.*located|how.*reach|reservation|book.*table)\b`,
		}},
		{core.LabelPromotionQuery, []string{
			`\b(deal|discount|offer|promotion|special|coupon|cheap)\b`,
			`\b(any.*offer|save.*money|best.*deal)\b`,
		}},
	}

	c := &Classifier{categories: make([]category, 0, len(table))}
	for _, row := range table {
		compiled := make([]*regexp.Regexp, 0, len(row.patterns))
		for _, p := range row.patterns {
			compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
		}
		c.categories = append(c.categories, category{label: row.label, patterns: compiled})
	}
	return c
}

// Classify labels a single user turn. The input is trimmed and lower-cased
// before matching.
func (c *Classifier) Classify(text string) core.Label {
	query := strings.ToLower(strings.TrimSpace(text))

	// Length-bounded shortcut for the most common turn of all. The bound
	// counts characters, not bytes, so short multibyte input qualifies.
	if utf8.RuneCountInString(query) <= 10 {
		for _, tok := range greetingTokens {
			if strings.Contains(query, tok) {
				return core.LabelGreeting
			}
		}
	}

	for _, cat := range c.categories {
		for _, p := range cat.patterns {
			if p.MatchString(query) {
				return cat.label
			}
		}
	}
	return core.LabelGeneral
}
