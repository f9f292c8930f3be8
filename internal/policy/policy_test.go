package policy

import (
	"testing"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/textnorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictedTopic(t *testing.T) {
	tests := []struct {
		query string
		topic string
	}{
		{"Hol vehetek jegyet a koncertre?", "event_tickets"},
		{"Szeretnék jegyet venni a fesztiválra", "event_tickets"},
		{"Van valami nyereményjáték?", "games"},
		{"Rendeld meg nekem a pizzát", "food_ordering"},
		{"Hol van kaszinó a közelben?", "gambling"},
		{"Mit gondolsz a választásokról?", "politics"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			topic, ok := RestrictedTopic(textnorm.Fold(tt.query))
			require.True(t, ok)
			assert.Equal(t, tt.topic, topic)
		})
	}
}

func TestRestrictedTopic_AllowsCityQuestions(t *testing.T) {
	queries := []string{
		"Hol parkolhatok?",
		"Hol vehetek parkolójegyet?",
		"Milyen programok vannak ma este?",
		"Hol lehet jól vacsorázni?",
		"Mikor nyit a vár?",
	}
	for _, q := range queries {
		_, ok := RestrictedTopic(textnorm.Fold(q))
		assert.False(t, ok, q)
	}
}

func TestIsForbiddenType(t *testing.T) {
	assert.True(t, IsForbiddenType("food_order_now"))
	assert.True(t, IsForbiddenType("play_game"))
	assert.True(t, IsForbiddenType("buy_event_TICKET"))
	assert.False(t, IsForbiddenType(domain.ActionBuyParkingTicket))
	assert.False(t, IsForbiddenType(domain.ActionNavigateLeisure))
}

func TestActionFirewall_Check(t *testing.T) {
	fw, err := NewActionFirewall()
	require.NoError(t, err)

	tests := []struct {
		name    string
		action  *domain.ActionRef
		wantErr error
	}{
		{"nil action", nil, nil},
		{"navigate without params", &domain.ActionRef{Type: domain.ActionNavigateEvents}, nil},
		{"navigate with category", &domain.ActionRef{Type: domain.ActionNavigateLeisure, Params: map[string]any{"category": "restaurants"}}, nil},
		{"parking ticket", &domain.ActionRef{Type: domain.ActionBuyParkingTicket, Params: map[string]any{"zone": "K1", "licensePlate": "ABC-123", "useGPS": true}}, nil},
		{"parking ticket missing plate", &domain.ActionRef{Type: domain.ActionBuyParkingTicket, Params: map[string]any{"zone": "K1"}}, ErrInvalidParams},
		{"emergency", &domain.ActionRef{Type: domain.ActionCallEmergency, Params: map[string]any{"service": "ambulance"}}, nil},
		{"emergency bad service", &domain.ActionRef{Type: domain.ActionCallEmergency, Params: map[string]any{"service": "taxi"}}, ErrInvalidParams},
		{"phone", &domain.ActionRef{Type: domain.ActionCallPhone, Params: map[string]any{"number": "+36 94 360 113"}}, nil},
		{"map with int coordinates", &domain.ActionRef{Type: domain.ActionOpenExternalMap, Params: map[string]any{"lat": 47, "lng": 16}}, nil},
		{"map out of range", &domain.ActionRef{Type: domain.ActionOpenExternalMap, Params: map[string]any{"lat": 147.0, "lng": 16.5}}, ErrInvalidParams},
		{"unknown type", &domain.ActionRef{Type: "navigate_to_moon"}, ErrUnknownAction},
		{"forbidden type", &domain.ActionRef{Type: "food_order_now"}, ErrForbiddenAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fw.Check(tt.action)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestActionFirewall_Sanitize(t *testing.T) {
	fw, err := NewActionFirewall()
	require.NoError(t, err)

	kept, err := fw.Sanitize(&domain.ActionRef{Type: domain.ActionNavigateParking})
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, domain.ActionNavigateParking, kept.Type)

	dropped, err := fw.Sanitize(&domain.ActionRef{Type: "food_order_now"})
	assert.Error(t, err)
	assert.Nil(t, dropped)
}

func TestVocabulary_EveryTypeHasSchema(t *testing.T) {
	fw, err := NewActionFirewall()
	require.NoError(t, err)
	assert.Len(t, Vocabulary(), 13)
	for _, v := range Vocabulary() {
		_, ok := fw.schemas[v]
		assert.True(t, ok, v)
		assert.False(t, IsForbiddenType(v), v)
	}
}

func TestActionParameters(t *testing.T) {
	params := ActionParameters(domain.ActionCallEmergency)
	require.NotNil(t, params)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"service"}, params["required"])
	assert.Nil(t, ActionParameters("navigate_to_moon"))
}
