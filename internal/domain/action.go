package domain

// ActionType names an entry of the closed action vocabulary consumed by the UI.
type ActionType string

const (
	ActionNavigateEvents      ActionType = "navigate_to_events"
	ActionNavigateParking     ActionType = "navigate_to_parking"
	ActionNavigateAttractions ActionType = "navigate_to_attractions"
	ActionNavigateHotels      ActionType = "navigate_to_hotels"
	ActionNavigateLeisure     ActionType = "navigate_to_leisure"
	ActionNavigateInfo        ActionType = "navigate_to_info"
	ActionNavigatePass        ActionType = "navigate_to_pass"
	ActionBuyParkingTicket    ActionType = "buy_parking_ticket"
	ActionSaveVehicle         ActionType = "save_vehicle"
	ActionCallEmergency       ActionType = "call_emergency"
	ActionCallPhone           ActionType = "call_phone"
	ActionAddToWallet         ActionType = "add_to_wallet"
	ActionOpenExternalMap     ActionType = "open_external_map"
)

type ActionRef struct {
	Type   ActionType     `json:"type"`
	Params map[string]any `json:"params"`
}

// AIResponse is the strict reply shape. Text is never empty.
type AIResponse struct {
	Text       string     `json:"text"`
	Action     *ActionRef `json:"action"`
	Confidence float64    `json:"confidence"`
}

// AssistantResult is what the caller-facing entry point returns. Intent is
// attached for analytics and is not part of the strict response schema.
type AssistantResult struct {
	AIResponse
	Intent string `json:"intent"`
}

// Decision is the router's optional override for an ambiguous intent.
type Decision struct {
	Action    *ActionRef `json:"action"`
	Intent    Intent     `json:"intent"`
	FetchMenu bool       `json:"fetch_menu"`
}
