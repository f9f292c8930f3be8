package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOfCandidate(t *testing.T) {
	tests := []struct {
		id   string
		want TriggerCategory
		ok   bool
	}{
		{"dinner-20260502", TriggerDinner, true},
		{"event-3f2a-11", TriggerEvent, true},
		{"rain", TriggerRain, true},
		{"planning-x", TriggerPlanning, true},
		{"lunch-20260502", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := CategoryOfCandidate(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBehaviorProfile_CloneIsDeep(t *testing.T) {
	p := BehaviorProfile{
		Ignored:  map[TriggerCategory]bool{TriggerRain: true},
		Accepted: map[TriggerCategory]int{TriggerDinner: 2},
	}
	c := p.Clone()
	c.Ignored[TriggerEvent] = true
	c.Accepted[TriggerDinner] = 5

	assert.Len(t, p.Ignored, 1)
	assert.Equal(t, 2, p.Accepted[TriggerDinner])
}
