package trigger

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// Config tunes the engine. Zero values are replaced by defaults in NewEngine.
type Config struct {
	Threshold      int
	Cooldown       time.Duration
	EventLookahead time.Duration
	UrgencyWindow  time.Duration
	UrgencyBoost   int
	IgnoredPenalty int
	Weights        Weights
}

func DefaultConfig() Config {
	return Config{
		Threshold:      55,
		Cooldown:       30 * time.Minute,
		EventLookahead: 3 * time.Hour,
		UrgencyWindow:  time.Hour,
		UrgencyBoost:   15,
		IgnoredPenalty: 25,
		Weights:        DefaultWeights(),
	}
}

// Engine scores the proactive suggestion categories against a snapshot.
type Engine struct {
	cfg Config
}

// NewEngine fills zero fields of cfg from DefaultConfig.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	if cfg.EventLookahead <= 0 {
		cfg.EventLookahead = def.EventLookahead
	}
	if cfg.UrgencyWindow <= 0 {
		cfg.UrgencyWindow = def.UrgencyWindow
	}
	if cfg.UrgencyBoost == 0 {
		cfg.UrgencyBoost = def.UrgencyBoost
	}
	if cfg.IgnoredPenalty == 0 {
		cfg.IgnoredPenalty = def.IgnoredPenalty
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = def.Weights
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config { return e.cfg }

// CoolingDown reports whether a suggestion was shown within the cooldown.
func (e *Engine) CoolingDown(s Snapshot) bool {
	last := s.Behavior.LastShown
	return !last.IsZero() && s.Now.Sub(last) < e.cfg.Cooldown
}

// Evaluate returns the best candidate, or nil when cooling down or when the
// best candidate scores below the threshold.
func (e *Engine) Evaluate(s Snapshot) *domain.TriggerCandidate {
	if e.CoolingDown(s) {
		return nil
	}
	ranked := e.Candidates(s)
	if len(ranked) == 0 {
		return nil
	}
	best := ranked[0]
	if best.Priority < e.cfg.Threshold {
		return nil
	}
	return &best
}

// Candidates scores every category valid for the snapshot, best first. Ties
// are broken by candidate ID. Cooldown and threshold are not applied.
func (e *Engine) Candidates(s Snapshot) []domain.TriggerCandidate {
	var out []domain.TriggerCandidate
	for _, r := range rules {
		if !r.allows(s.AppMode) {
			continue
		}
		c, ok := r.build(e, s)
		if !ok {
			continue
		}
		if s.Behavior.Ignored[r.category] {
			c.Priority -= e.cfg.IgnoredPenalty
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type rule struct {
	category domain.TriggerCategory
	modes    []domain.AppMode
	build    func(e *Engine, s Snapshot) (domain.TriggerCandidate, bool)
}

func (r rule) allows(m domain.AppMode) bool {
	for _, want := range r.modes {
		if want == m {
			return true
		}
	}
	return false
}

var rules = []rule{
	{category: domain.TriggerDinner, modes: []domain.AppMode{domain.ModeCity, domain.ModeApproaching}, build: buildDinner},
	{category: domain.TriggerEvent, modes: []domain.AppMode{domain.ModeCity, domain.ModeApproaching}, build: buildEvent},
	{category: domain.TriggerRain, modes: []domain.AppMode{domain.ModeCity}, build: buildRain},
	{category: domain.TriggerPlanning, modes: []domain.AppMode{domain.ModeRemote}, build: buildPlanning},
}

func dayID(cat domain.TriggerCategory, now time.Time) string {
	return fmt.Sprintf("%s-%s", cat, now.Format("20060102"))
}

func buildDinner(e *Engine, s Snapshot) (domain.TriggerCandidate, bool) {
	ctxFit := 0.8
	if s.AppMode == domain.ModeApproaching {
		ctxFit = 0.6
	}
	sub := SubScores{
		Time:     timeFit(clockDistance(s.Now, 19), 3),
		Movement: movementFit(s.Movement),
		Interest: interestFit(s, "food", domain.TriggerDinner),
		Context:  ctxFit,
	}
	return domain.TriggerCandidate{
		ID:       dayID(domain.TriggerDinner, s.Now),
		Type:     domain.TriggerDinner,
		Text:     "Vacsoraidő közeleg. Megmutassam a közeli éttermeket?",
		Action:   &domain.ActionRef{Type: domain.ActionNavigateLeisure, Params: map[string]any{"category": "restaurants"}},
		Priority: sub.Combine(e.cfg.Weights),
	}, true
}

// nextEvent picks the earliest event starting within the lookahead.
func nextEvent(events []domain.Event, now time.Time, lookahead time.Duration) (domain.Event, bool) {
	var best domain.Event
	found := false
	for _, ev := range events {
		until := ev.StartsAt.Sub(now)
		if until <= 0 || until > lookahead {
			continue
		}
		if !found || ev.StartsAt.Before(best.StartsAt) || (ev.StartsAt.Equal(best.StartsAt) && ev.ID < best.ID) {
			best, found = ev, true
		}
	}
	return best, found
}

func buildEvent(e *Engine, s Snapshot) (domain.TriggerCandidate, bool) {
	ev, ok := nextEvent(s.UpcomingEvents, s.Now, e.cfg.EventLookahead)
	if !ok {
		return domain.TriggerCandidate{}, false
	}
	until := ev.StartsAt.Sub(s.Now)
	ctxFit := 1.0
	if s.AppMode == domain.ModeApproaching {
		ctxFit = 0.7
	}
	sub := SubScores{
		Time:     timeFit((until - time.Hour).Hours(), 2),
		Movement: movementFit(s.Movement),
		Interest: interestFit(s, "events", domain.TriggerEvent),
		Context:  ctxFit,
	}
	priority := sub.Combine(e.cfg.Weights)
	if until <= e.cfg.UrgencyWindow {
		priority += e.cfg.UrgencyBoost
	}
	return domain.TriggerCandidate{
		ID:       "event-" + ev.ID,
		Type:     domain.TriggerEvent,
		Text:     fmt.Sprintf("Hamarosan kezdődik: %s (%s).", ev.Title, ev.StartsAt.Format("15:04")),
		Action:   &domain.ActionRef{Type: domain.ActionNavigateEvents, Params: map[string]any{"id": ev.ID}},
		Priority: priority,
	}, true
}

func buildRain(e *Engine, s Snapshot) (domain.TriggerCandidate, bool) {
	if s.Weather == nil || !s.Weather.Raining {
		return domain.TriggerCandidate{}, false
	}
	sub := SubScores{
		Time:     timeFit(clockDistance(s.Now, 15), 6),
		Movement: movementFit(s.Movement),
		Interest: interestFit(s, "indoor", domain.TriggerRain),
		Context:  1,
	}
	return domain.TriggerCandidate{
		ID:       dayID(domain.TriggerRain, s.Now),
		Type:     domain.TriggerRain,
		Text:     "Esik az eső. Ajánljak fedett programokat, múzeumokat?",
		Action:   &domain.ActionRef{Type: domain.ActionNavigateAttractions, Params: map[string]any{"filter": "indoor"}},
		Priority: sub.Combine(e.cfg.Weights),
	}, true
}

func buildPlanning(e *Engine, s Snapshot) (domain.TriggerCandidate, bool) {
	ctxFit := 0.5
	if len(s.UpcomingEvents) > 0 {
		ctxFit = 0.8
	}
	sub := SubScores{
		Time:     timeFit(clockDistance(s.Now, 20), 4),
		Movement: movementFit(s.Movement),
		Interest: interestFit(s, "planning", domain.TriggerPlanning),
		Context:  ctxFit,
	}
	return domain.TriggerCandidate{
		ID:       dayID(domain.TriggerPlanning, s.Now),
		Type:     domain.TriggerPlanning,
		Text:     "Tervezel látogatást Kőszegre? Nézd meg a következő napok programjait!",
		Action:   &domain.ActionRef{Type: domain.ActionNavigateEvents, Params: map[string]any{}},
		Priority: sub.Combine(e.cfg.Weights),
	}, true
}
