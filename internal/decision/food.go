// Package decision disambiguates intents whose meaning depends on the
// user's situation.
package decision

import (
	"regexp"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/textnorm"
)

// TiesFavorDineIn makes an equal score resolve to dine-in. Dine-in is the
// public default; flip only with product sign-off.
const TiesFavorDineIn = true

const (
	weightVerb          = 3
	weightCityPlace     = 2
	weightRemoteDeliver = 2
	weightApproachPlace = 1
	weightMealWindow    = 1
	weightLateNight     = 2
)

var (
	deliveryCues = regexp.MustCompile(`\b(hazhozszallit\w*|kiszallit\w*|rendel\w*|hozzak ki|hazhoz|delivery|deliver\w*|takeaway|elvitel\w*)\b`)
	dineInCues   = regexp.MustCompile(`\b(etterem\w*|ettermet|beul\w*|asztal\w*|helyben|elmenn\w*|kimenn\w*|vacsoraz\w*|ebedel\w*|dine|restaurant\w*)\b`)
)

// FoodScores are the two accumulators of the food router.
type FoodScores struct {
	Place    int
	Delivery int
}

// ScoreFood accumulates linguistic, situational and temporal cues. Each cue
// contributes at most once, so adding text never lowers a score.
func ScoreFood(query string, mode domain.AppMode, hour int) FoodScores {
	var s FoodScores
	text := textnorm.Fold(query)

	if deliveryCues.MatchString(text) {
		s.Delivery += weightVerb
	}
	if dineInCues.MatchString(text) {
		s.Place += weightVerb
	}

	switch mode {
	case domain.ModeCity:
		s.Place += weightCityPlace
	case domain.ModeApproaching:
		s.Place += weightApproachPlace
	case domain.ModeRemote:
		s.Delivery += weightRemoteDeliver
	}

	switch {
	case hour >= 11 && hour < 14, hour >= 18 && hour < 21:
		s.Place += weightMealWindow
	case hour >= 22 || hour < 6:
		s.Delivery += weightLateNight
	}
	return s
}

// DecideFood resolves the food intent. A remote user can neither dine in nor
// receive delivery, so no action is emitted and the reply is kept to planning.
func DecideFood(query string, mode domain.AppMode, hour int) domain.Decision {
	if mode == domain.ModeRemote {
		return domain.Decision{Intent: domain.IntentFoodPlanning, FetchMenu: true}
	}

	s := ScoreFood(query, mode, hour)
	if dineInWins(s) {
		return domain.Decision{
			Intent: domain.IntentFoodPlace,
			Action: &domain.ActionRef{
				Type:   domain.ActionNavigateLeisure,
				Params: map[string]any{"category": "restaurants"},
			},
		}
	}
	return domain.Decision{Intent: domain.IntentFoodDelivery, FetchMenu: true}
}

func dineInWins(s FoodScores) bool {
	if TiesFavorDineIn {
		return s.Place >= s.Delivery
	}
	return s.Place > s.Delivery
}
