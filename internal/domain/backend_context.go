package domain

import "sync"

// DataDomain keys one dataset the assembler can load for an intent.
type DataDomain string

const (
	DomainEvents      DataDomain = "events"
	DomainRestaurants DataDomain = "restaurants"
	DomainAttractions DataDomain = "attractions"
	DomainHotels      DataDomain = "hotels"
	DomainParking     DataDomain = "parking"
	DomainLeisure     DataDomain = "leisure"
	DomainInfo        DataDomain = "info"
)

var intentDomains = map[Intent][]DataDomain{
	IntentEmergency:    {DomainInfo},
	IntentParking:      {DomainParking},
	IntentFoodGeneral:  {DomainRestaurants},
	IntentFoodPlace:    {DomainRestaurants},
	IntentFoodDelivery: {DomainRestaurants},
	IntentFoodPlanning: {DomainRestaurants},
	IntentAttractions:  {DomainAttractions},
	IntentLeisure:      {DomainLeisure, DomainEvents},
	IntentEvents:       {DomainEvents},
	IntentHotels:       {DomainHotels},
	IntentNavigation:   {DomainAttractions, DomainParking},
	IntentItinerary:    {DomainAttractions, DomainEvents, DomainRestaurants},
	IntentInfo:         {DomainInfo},
}

// DomainsFor returns the datasets an intent needs. Unknown intents need none.
func DomainsFor(i Intent) []DataDomain {
	return intentDomains[i]
}

// BackendContext is the supporting data assembled for one request. Each
// domain is claimed at most once so no dataset is fetched twice.
type BackendContext struct {
	mu      sync.Mutex
	claimed map[DataDomain]bool

	History         []Interaction           `json:"history,omitempty"`
	Profile         *UserProfile            `json:"profile,omitempty"`
	Vehicles        []Vehicle               `json:"vehicles,omitempty"`
	Personalization *PersonalizationProfile `json:"personalization,omitempty"`
	Knowledge       map[string]string       `json:"knowledge,omitempty"`

	Events      []Event       `json:"events,omitempty"`
	Restaurants []Restaurant  `json:"restaurants,omitempty"`
	Attractions []Place       `json:"attractions,omitempty"`
	Hotels      []Place       `json:"hotels,omitempty"`
	Parking     []ParkingZone `json:"parking,omitempty"`
	Leisure     []Place       `json:"leisure,omitempty"`
	Info        []Place       `json:"info,omitempty"`
	Menu        []MenuItem    `json:"menu,omitempty"`
}

func NewBackendContext() *BackendContext {
	return &BackendContext{claimed: make(map[DataDomain]bool)}
}

// Claim marks d as being loaded. It returns false if d was already claimed.
func (c *BackendContext) Claim(d DataDomain) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.claimed == nil {
		c.claimed = make(map[DataDomain]bool)
	}
	if c.claimed[d] {
		return false
	}
	c.claimed[d] = true
	return true
}

// Count returns how many records are loaded for d.
func (c *BackendContext) Count(d DataDomain) int {
	switch d {
	case DomainEvents:
		return len(c.Events)
	case DomainRestaurants:
		return len(c.Restaurants)
	case DomainAttractions:
		return len(c.Attractions)
	case DomainHotels:
		return len(c.Hotels)
	case DomainParking:
		return len(c.Parking)
	case DomainLeisure:
		return len(c.Leisure)
	case DomainInfo:
		return len(c.Info)
	}
	return 0
}

// HasDataFor reports whether any dataset backing intent i is non-empty.
func (c *BackendContext) HasDataFor(i Intent) bool {
	for _, d := range DomainsFor(i) {
		if c.Count(d) > 0 {
			return true
		}
	}
	return false
}
