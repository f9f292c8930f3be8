package trigger

import (
	"math"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// Weights combine the four sub-scores. They sum to 1.
type Weights struct {
	Time     float64
	Movement float64
	Interest float64
	Context  float64
}

func DefaultWeights() Weights {
	return Weights{Time: 0.35, Movement: 0.20, Interest: 0.30, Context: 0.15}
}

// Snapshot is the ambient state one evaluation sees. Evaluation is a pure
// function of it.
type Snapshot struct {
	Now            time.Time
	AppMode        domain.AppMode
	Movement       domain.MovementMode
	Weather        *domain.Weather
	UpcomingEvents []domain.Event
	Interests      map[string]int
	Behavior       domain.BehaviorProfile
}

// interestCap is the affinity count treated as full interest.
const interestCap = 10

// SubScores are the normalized [0,1] inputs of a candidate's priority.
type SubScores struct {
	Time     float64
	Movement float64
	Interest float64
	Context  float64
}

// Combine scales the weighted sub-scores to 0..100.
func (s SubScores) Combine(w Weights) int {
	v := w.Time*s.Time + w.Movement*s.Movement + w.Interest*s.Interest + w.Context*s.Context
	return int(math.Round(100 * v))
}

// timeFit decays linearly from 1 at peak to 0 at width hours away.
func timeFit(distanceHours, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(distanceHours)/width)
}

// clockDistance is the distance in hours between now and a peak hour of
// day, wrapping around midnight.
func clockDistance(now time.Time, peakHour float64) float64 {
	h := float64(now.Hour()) + float64(now.Minute())/60
	d := math.Abs(h - peakHour)
	return math.Min(d, 24-d)
}

func movementFit(m domain.MovementMode) float64 {
	switch m {
	case domain.MovementStationary:
		return 1
	case domain.MovementWalking:
		return 0.9
	case domain.MovementBike:
		return 0.6
	case domain.MovementCar:
		return 0.3
	default:
		return 0
	}
}

func interestFit(s Snapshot, key string, cat domain.TriggerCategory) float64 {
	n := s.Interests[key] + s.Behavior.Accepted[cat]
	if n <= 0 {
		return 0
	}
	return math.Min(float64(n)/interestCap, 1)
}
