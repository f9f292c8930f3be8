package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrUnknownAction indicates a type outside the closed vocabulary.
	ErrUnknownAction = errors.New("action type not in vocabulary")

	// ErrForbiddenAction indicates a type touching an unlaunched feature.
	ErrForbiddenAction = errors.New("action type forbidden")

	// ErrInvalidParams indicates params that fail the action's schema.
	ErrInvalidParams = errors.New("action params invalid")
)

// forbiddenSubstrings block unlaunched features (in-app food ordering,
// games, event tickets) however the model spells the action type.
var forbiddenSubstrings = []string{"food", "game", "ticket"}

// substringExempt lists vocabulary entries that legitimately contain a
// forbidden substring. Parking tickets are a launched feature.
var substringExempt = map[domain.ActionType]bool{
	domain.ActionBuyParkingTicket: true,
}

const navigateSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "string"},
		"category": {"type": "string"},
		"filter": {"type": "string"}
	}
}`

var actionSchemas = map[domain.ActionType]string{
	domain.ActionNavigateEvents:      navigateSchema,
	domain.ActionNavigateParking:     navigateSchema,
	domain.ActionNavigateAttractions: navigateSchema,
	domain.ActionNavigateHotels:      navigateSchema,
	domain.ActionNavigateLeisure:     navigateSchema,
	domain.ActionNavigateInfo:        navigateSchema,
	domain.ActionNavigatePass:        navigateSchema,
	domain.ActionBuyParkingTicket: `{
		"type": "object",
		"required": ["zone", "licensePlate"],
		"properties": {
			"zone": {"type": "string", "minLength": 1},
			"licensePlate": {"type": "string", "minLength": 1},
			"carrier": {"type": "string"},
			"useGPS": {"type": "boolean"}
		}
	}`,
	domain.ActionSaveVehicle: `{
		"type": "object",
		"required": ["licensePlate"],
		"properties": {
			"licensePlate": {"type": "string", "minLength": 1},
			"nickname": {"type": "string"},
			"carrier": {"type": "string"},
			"isDefault": {"type": "boolean"}
		}
	}`,
	domain.ActionCallEmergency: `{
		"type": "object",
		"required": ["service"],
		"properties": {
			"service": {"enum": ["general", "ambulance", "police", "fire"]}
		}
	}`,
	domain.ActionCallPhone: `{
		"type": "object",
		"required": ["number"],
		"properties": {
			"number": {"type": "string", "pattern": "^\\+?[0-9 ()/-]{3,20}$"}
		}
	}`,
	domain.ActionAddToWallet: `{
		"type": "object",
		"required": ["eventId"],
		"properties": {
			"eventId": {"type": "string", "minLength": 1}
		}
	}`,
	domain.ActionOpenExternalMap: `{
		"type": "object",
		"required": ["lat", "lng"],
		"properties": {
			"lat": {"type": "number", "minimum": -90, "maximum": 90},
			"lng": {"type": "number", "minimum": -180, "maximum": 180},
			"name": {"type": "string"}
		}
	}`,
}

// ActionFirewall validates actions against the closed vocabulary.
type ActionFirewall struct {
	schemas map[domain.ActionType]*jsonschema.Schema
}

// NewActionFirewall compiles the schema of every vocabulary entry.
func NewActionFirewall() (*ActionFirewall, error) {
	f := &ActionFirewall{schemas: make(map[domain.ActionType]*jsonschema.Schema, len(actionSchemas))}
	for name, schema := range actionSchemas {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		url := fmt.Sprintf("https://cityguide.local/actions/%s.schema.json", name)
		if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
			return nil, fmt.Errorf("loading schema for %s: %w", name, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compiling schema for %s: %w", name, err)
		}
		f.schemas[name] = compiled
	}
	return f, nil
}

// IsForbiddenType reports whether t contains a forbidden substring and is
// not explicitly exempt.
func IsForbiddenType(t domain.ActionType) bool {
	if substringExempt[t] {
		return false
	}
	lower := strings.ToLower(string(t))
	for _, s := range forbiddenSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Check returns nil when a may leave the core. A nil action is always allowed.
func (f *ActionFirewall) Check(a *domain.ActionRef) error {
	if a == nil {
		return nil
	}
	if IsForbiddenType(a.Type) {
		return fmt.Errorf("%w: %q", ErrForbiddenAction, a.Type)
	}
	schema, ok := f.schemas[a.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}

	// Round-trip through JSON so Go-typed params validate like decoded ones.
	params := a.Params
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParams, a.Type, err)
	}
	return nil
}

// Sanitize returns a when it passes Check, otherwise nil and the reason.
func (f *ActionFirewall) Sanitize(a *domain.ActionRef) (*domain.ActionRef, error) {
	if err := f.Check(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Vocabulary lists every allowed action type.
func Vocabulary() []domain.ActionType {
	out := make([]domain.ActionType, 0, len(actionSchemas))
	for t := range actionSchemas {
		out = append(out, t)
	}
	return out
}

var defaultFirewall = mustNewActionFirewall()

func mustNewActionFirewall() *ActionFirewall {
	f, err := NewActionFirewall()
	if err != nil {
		panic(err)
	}
	return f
}

// SanitizeAction runs a through the package firewall.
func SanitizeAction(a *domain.ActionRef) (*domain.ActionRef, error) {
	return defaultFirewall.Sanitize(a)
}

// ActionParameters returns the JSON Schema of t's params as a decoded
// object, for declaring actions as model functions.
func ActionParameters(t domain.ActionType) map[string]any {
	schema, ok := actionSchemas[t]
	if !ok {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(schema), &out); err != nil {
		return nil
	}
	return out
}
