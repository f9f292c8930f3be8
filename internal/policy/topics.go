// Package policy holds the single source of truth for what the assistant
// must refuse to discuss and which actions may leave the core.
package policy

import "regexp"

// Topic is a restricted subject. A query is restricted when any Pattern
// match does not itself match Unless.
type Topic struct {
	Name    string
	Pattern *regexp.Regexp
	Unless  *regexp.Regexp
}

// Patterns run against textnorm.Fold output (lower-case, no diacritics).
var restrictedTopics = []Topic{
	{
		Name:    "event_tickets",
		Pattern: regexp.MustCompile(`\b(veh|vesz|vegy|vasarol|venn|buy|book|foglal)\w*\s+(\w+\s+){0,2}(jegy|ticket|belepo)\w*|\b(jegy|ticket|belepo)\w*\s+(\w+\s+){0,2}(venni|vasarol\w*|foglal\w*)`),
		Unless:  regexp.MustCompile(`parkol|parking`),
	},
	{
		Name:    "games",
		Pattern: regexp.MustCompile(`\b(jatek(ok|ot)?|nyeremenyjatek\w*|kviz\w*|quiz|game|games)\b`),
	},
	{
		Name:    "food_ordering",
		Pattern: regexp.MustCompile(`\b(rendeld meg|rendelj nekem|order (it|this|food) for me)\b`),
	},
	{
		Name:    "gambling",
		Pattern: regexp.MustCompile(`\b(szerencsejatek\w*|kaszino\w*|casino|fogadas\w*|sportfogad\w*|betting|lotto)\b`),
	},
	{
		Name:    "drugs",
		Pattern: regexp.MustCompile(`\b(drog\w*|kabitoszer\w*|marihuana|cocaine|kokain)\b`),
	},
	{
		Name:    "weapons",
		Pattern: regexp.MustCompile(`\b(fegyver\w*|loszer\w*|weapon\w*|bomba)\b`),
	},
	{
		Name:    "politics",
		Pattern: regexp.MustCompile(`\b(politik\w*|valasztas\w*|partprogram\w*|election\w*)\b`),
	},
}

// RestrictedTopic reports the first restricted topic folded text touches.
func RestrictedTopic(folded string) (string, bool) {
	for _, t := range restrictedTopics {
		if t.Unless == nil {
			if t.Pattern.MatchString(folded) {
				return t.Name, true
			}
			continue
		}
		for _, m := range t.Pattern.FindAllString(folded, -1) {
			if !t.Unless.MatchString(m) {
				return t.Name, true
			}
		}
	}
	return "", false
}
