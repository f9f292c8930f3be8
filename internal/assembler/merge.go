package assembler

import (
	"sort"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/textnorm"
)

// mergeRestaurants joins the curated list with the live list by normalized
// name. Live data only patches Tier and Promoted on a match; everything else
// stays curated. Live-only entries are appended. The result is stable-sorted
// by paid tier and capped.
func mergeRestaurants(static, live []domain.Restaurant, limit int) []domain.Restaurant {
	liveByKey := make(map[string]domain.Restaurant, len(live))
	for _, r := range live {
		k := textnorm.Key(r.Name)
		if _, dup := liveByKey[k]; !dup {
			liveByKey[k] = r
		}
	}

	out := make([]domain.Restaurant, 0, len(static)+len(live))
	staticByKey := make(map[string]bool, len(static))
	for _, r := range static {
		k := textnorm.Key(r.Name)
		if staticByKey[k] {
			continue
		}
		staticByKey[k] = true
		if l, ok := liveByKey[k]; ok {
			if l.Tier != "" {
				r.Tier = l.Tier
			}
			r.Promoted = l.Promoted
		}
		out = append(out, r)
	}
	for _, r := range live {
		k := textnorm.Key(r.Name)
		if staticByKey[k] {
			continue
		}
		staticByKey[k] = true
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return domain.TierRank(out[i].Tier) < domain.TierRank(out[j].Tier)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// EventDuration is assumed for events without an explicit end.
const EventDuration = 3 * time.Hour

// eventKeys returns the identity keys of e: its ID, and its normalized
// title on its start date.
func eventKeys(e domain.Event, loc *time.Location) []string {
	keys := make([]string, 0, 2)
	if e.ID != "" {
		keys = append(keys, "id:"+e.ID)
	}
	if e.Title != "" {
		keys = append(keys, "title:"+textnorm.Key(e.Title)+"@"+e.StartsAt.In(loc).Format("2006-01-02"))
	}
	return keys
}

// eventEnd is EndsAt when set, the end of the start day for all-day events,
// and start + EventDuration otherwise.
func eventEnd(e domain.Event, loc *time.Location) time.Time {
	if e.EndsAt != nil {
		return *e.EndsAt
	}
	if e.AllDay {
		s := e.StartsAt.In(loc)
		return time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	}
	return e.StartsAt.Add(EventDuration)
}

// mergeEvents joins curated and live events. Curated entries win on any
// shared identity key. Only events still running or upcoming at now are kept,
// sorted by start and capped.
func mergeEvents(static, live []domain.Event, now time.Time, loc *time.Location, limit int) []domain.Event {
	seen := make(map[string]bool, 2*(len(static)+len(live)))
	out := make([]domain.Event, 0, len(static)+len(live))

	add := func(e domain.Event) {
		keys := eventKeys(e, loc)
		for _, k := range keys {
			if seen[k] {
				return
			}
		}
		for _, k := range keys {
			seen[k] = true
		}
		if eventEnd(e, loc).After(now) {
			out = append(out, e)
		}
	}
	for _, e := range static {
		add(e)
	}
	for _, e := range live {
		add(e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
