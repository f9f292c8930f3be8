package domain

// Intent is a coarse classification of what the user is trying to do.
type Intent string

const (
	IntentRestricted   Intent = "restricted"
	IntentEmergency    Intent = "emergency"
	IntentParking      Intent = "parking"
	IntentFoodGeneral  Intent = "food_general"
	IntentFoodPlace    Intent = "food_place"
	IntentFoodDelivery Intent = "food_delivery"
	IntentFoodPlanning Intent = "food_planning"
	IntentAttractions  Intent = "attractions"
	IntentLeisure      Intent = "leisure"
	IntentEvents       Intent = "events"
	IntentHotels       Intent = "hotels"
	IntentNavigation   Intent = "navigation"
	IntentItinerary    Intent = "itinerary"
	IntentInfo         Intent = "info"
	IntentSmalltalk    Intent = "smalltalk"
	IntentUnknown      Intent = "unknown"
)

// IsFood reports whether the intent belongs to the food family.
func (i Intent) IsFood() bool {
	switch i {
	case IntentFoodGeneral, IntentFoodPlace, IntentFoodDelivery, IntentFoodPlanning:
		return true
	}
	return false
}

// IntentSet is an ordered, duplicate-free sequence of intents. The first
// element is the primary intent.
type IntentSet []Intent

// Primary returns the highest ranked intent, or IntentUnknown for an empty set.
func (s IntentSet) Primary() Intent {
	if len(s) == 0 {
		return IntentUnknown
	}
	return s[0]
}

func (s IntentSet) Has(i Intent) bool {
	for _, v := range s {
		if v == i {
			return true
		}
	}
	return false
}

// Replace swaps every occurrence of from with to, dropping duplicates that
// the swap would introduce.
func (s IntentSet) Replace(from, to Intent) IntentSet {
	out := make(IntentSet, 0, len(s))
	seen := make(map[Intent]bool, len(s))
	for _, v := range s {
		if v == from {
			v = to
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (s IntentSet) Strings() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}
