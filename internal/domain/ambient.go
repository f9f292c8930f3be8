package domain

import "time"

type Location struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

type Weather struct {
	Condition string  `json:"condition"`
	TempC     float64 `json:"temp_c"`
	Raining   bool    `json:"raining"`
}

// AmbientContext is the request-scoped situation of the caller. AppMode is
// recomputed from Location by the pipeline and is not authoritative input.
type AmbientContext struct {
	Location  *Location `json:"location,omitempty"`
	Speed     float64   `json:"speed"`
	Hour      int       `json:"hour"`
	Now       time.Time `json:"now"`
	Weather   *Weather  `json:"weather,omitempty"`
	AppMode   AppMode   `json:"app_mode"`
	UserID    string    `json:"user_id,omitempty"`
	AuthToken string    `json:"-"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
