package domain

import (
	"strings"
	"time"
)

// TriggerCategory names a proactive suggestion category.
type TriggerCategory string

const (
	TriggerDinner   TriggerCategory = "dinner"
	TriggerEvent    TriggerCategory = "event"
	TriggerRain     TriggerCategory = "rain"
	TriggerPlanning TriggerCategory = "planning"
)

// TriggerCandidate is an ephemeral proposal recomputed on every evaluation.
type TriggerCandidate struct {
	ID       string          `json:"id"`
	Type     TriggerCategory `json:"type"`
	Text     string          `json:"text"`
	Action   *ActionRef      `json:"action"`
	Priority int             `json:"priority"`
}

// CategoryOfCandidate recovers the category from a candidate id such as
// "dinner-20260502".
func CategoryOfCandidate(id string) (TriggerCategory, bool) {
	prefix, _, _ := strings.Cut(id, "-")
	switch cat := TriggerCategory(prefix); cat {
	case TriggerDinner, TriggerEvent, TriggerRain, TriggerPlanning:
		return cat, true
	}
	return "", false
}

// BehaviorProfile is the durable per-session record of how the user reacted
// to suggestions. A zero LastShown means nothing was shown yet.
type BehaviorProfile struct {
	Ignored   map[TriggerCategory]bool `json:"ignored"`
	Accepted  map[TriggerCategory]int  `json:"accepted"`
	LastShown time.Time                `json:"last_shown"`
}

// Clone returns a deep copy so callers cannot mutate shared maps.
func (p BehaviorProfile) Clone() BehaviorProfile {
	out := BehaviorProfile{
		Ignored:   make(map[TriggerCategory]bool, len(p.Ignored)),
		Accepted:  make(map[TriggerCategory]int, len(p.Accepted)),
		LastShown: p.LastShown,
	}
	for k, v := range p.Ignored {
		out.Ignored[k] = v
	}
	for k, v := range p.Accepted {
		out.Accepted[k] = v
	}
	return out
}
