package domain

import "time"

type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
	HomeCity    string `json:"home_city,omitempty"`
}

type Vehicle struct {
	ID           string `json:"id"`
	UserID       string `json:"-"`
	LicensePlate string `json:"license_plate"`
	Nickname     string `json:"nickname,omitempty"`
	Carrier      string `json:"carrier,omitempty"`
	IsDefault    bool   `json:"is_default"`
}

// PersonalizationProfile holds affinity counts per interest category.
type PersonalizationProfile struct {
	UserID    string         `json:"-"`
	Interests map[string]int `json:"interests"`
	Traits    []string       `json:"traits,omitempty"`
}

// Interaction is one finalized assistant decision, recorded for offline analysis.
type Interaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	Query        string    `json:"query"`
	Intent       string    `json:"intent"`
	ResponseText string    `json:"response_text"`
	ActionType   string    `json:"action_type,omitempty"`
	Confidence   float64   `json:"confidence"`
	CreatedAt    time.Time `json:"created_at"`
}
