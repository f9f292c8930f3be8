package assembler

import (
	"testing"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func TestMergeRestaurants(t *testing.T) {
	static := []domain.Restaurant{
		{ID: "s1", Name: "Hétvezér Étterem", Cuisine: "magyar", Tier: domain.TierStandard},
		{ID: "s2", Name: "Bécsikapu", Cuisine: "pizzéria", Tier: domain.TierSilver},
		{ID: "s3", Name: "Zöld Fa", Tier: domain.TierStandard},
	}
	live := []domain.Restaurant{
		// Patches tier and promotion only; cuisine stays curated.
		{ID: "l1", Name: "hetvezer etterem", Cuisine: "gyorsétterem", Tier: domain.TierGold, Promoted: true},
		{ID: "l2", Name: "Új Bisztró", Tier: domain.TierSilver},
	}

	got := mergeRestaurants(static, live, 10)
	want := []domain.Restaurant{
		{ID: "s1", Name: "Hétvezér Étterem", Cuisine: "magyar", Tier: domain.TierGold, Promoted: true},
		{ID: "s2", Name: "Bécsikapu", Cuisine: "pizzéria", Tier: domain.TierSilver},
		{ID: "l2", Name: "Új Bisztró", Tier: domain.TierSilver},
		{ID: "s3", Name: "Zöld Fa", Tier: domain.TierStandard},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mergeRestaurants mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRestaurants_CapAfterSort(t *testing.T) {
	static := []domain.Restaurant{
		{Name: "A", Tier: domain.TierStandard},
		{Name: "B", Tier: domain.TierStandard},
	}
	live := []domain.Restaurant{{Name: "C", Tier: domain.TierGold}}

	got := mergeRestaurants(static, live, 2)
	want := []domain.Restaurant{
		{Name: "C", Tier: domain.TierGold},
		{Name: "A", Tier: domain.TierStandard},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeRestaurants_DoesNotAliasInputs(t *testing.T) {
	static := []domain.Restaurant{{Name: "A", Tier: domain.TierStandard}}
	live := []domain.Restaurant{{Name: "a", Tier: domain.TierGold}}

	_ = mergeRestaurants(static, live, 10)
	if static[0].Tier != domain.TierStandard {
		t.Fatalf("static input mutated: %+v", static[0])
	}
}

func TestMergeEvents(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 10, 19, 18, 0, 0, 0, loc)
	at := func(day, hour int) time.Time { return time.Date(2026, 10, day, hour, 0, 0, 0, loc) }
	end := at(19, 17)

	static := []domain.Event{
		{ID: "e1", Title: "Szüreti Fesztivál", Venue: "Fő tér", StartsAt: at(19, 20)},
		{ID: "e2", Title: "Délutáni koncert", StartsAt: at(19, 16)},                // ends 19:00, still running
		{ID: "e3", Title: "Reggeli piac", StartsAt: at(19, 8), EndsAt: &end},       // already over
		{ID: "e4", Title: "Egész napos vásár", StartsAt: at(19, 9), AllDay: true},  // ends at midnight
		{ID: "e5", Title: "Holnapi túra", StartsAt: at(20, 9)},
	}
	live := []domain.Event{
		{ID: "e1", Title: "Szüreti fesztivál (élő)", Venue: "Máshol", StartsAt: at(19, 20)}, // same id, curated wins
		{ID: "x9", Title: "szureti fesztival", StartsAt: at(19, 21)},                          // same title and day
		{ID: "x3", Title: "Reggeli piac", StartsAt: at(19, 8)},                                // curated copy expired, stays out
		{ID: "x7", Title: "Esti színház", StartsAt: at(19, 19)},
	}

	got := mergeEvents(static, live, now, loc, 10)
	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	want := []string{"e4", "e2", "x7", "e1", "e5"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("mergeEvents ids mismatch (-want +got):\n%s", diff)
	}
	if got[3].Venue != "Fő tér" {
		t.Errorf("curated event should win, got venue %q", got[3].Venue)
	}
}

func TestMergeEvents_Cap(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	var static []domain.Event
	for i := 0; i < 5; i++ {
		static = append(static, domain.Event{ID: string(rune('a' + i)), StartsAt: now.Add(time.Duration(5-i) * time.Hour)})
	}
	got := mergeEvents(static, nil, now, time.UTC, 2)
	if len(got) != 2 || got[0].ID != "e" || got[1].ID != "d" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestMenuTerms(t *testing.T) {
	got := MenuTerms("Van gulyásleves vagy pizza? Pizza!")
	want := []string{"gulyasleves", "vagy", "pizza"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MenuTerms mismatch (-want +got):\n%s", diff)
	}
}
