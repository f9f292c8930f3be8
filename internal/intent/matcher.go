// Package intent classifies free-text queries into ranked intent tags.
package intent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/policy"
	"github.com/alexanderramin/cityguide/internal/textnorm"
)

// Matcher is a rule-based multi-label classifier. It is pure and safe for
// concurrent use.
type Matcher struct {
	rules    []Rule
	plate    *regexp.Regexp
	greeting *regexp.Regexp
}

// NewMatcher returns a matcher over the built-in rule table.
func NewMatcher() *Matcher {
	return &Matcher{
		rules:    defaultRules,
		plate:    platePattern,
		greeting: greetingPattern,
	}
}

// Detect returns the intents of query ordered by priority. The result is
// never empty. A restricted topic yields exactly [restricted].
func (m *Matcher) Detect(query string) domain.IntentSet {
	text := strings.TrimSpace(textnorm.Fold(query))
	if text == "" {
		return domain.IntentSet{domain.IntentUnknown}
	}
	if _, ok := policy.RestrictedTopic(text); ok {
		return domain.IntentSet{domain.IntentRestricted}
	}

	var found []domain.Intent
	for _, r := range m.rules {
		if r.Pattern.MatchString(text) {
			found = append(found, r.Intent)
		}
	}
	if m.plate.MatchString(text) {
		found = append(found, domain.IntentParking)
	}

	if len(found) == 0 {
		if m.greeting.MatchString(text) {
			return domain.IntentSet{domain.IntentSmalltalk}
		}
		return domain.IntentSet{domain.IntentUnknown}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return priorities[found[i]] > priorities[found[j]]
	})
	return dedupe(found)
}

func dedupe(in []domain.Intent) domain.IntentSet {
	out := make(domain.IntentSet, 0, len(in))
	seen := make(map[domain.Intent]bool, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
