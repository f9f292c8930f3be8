// Package movement derives coarse situational state from raw location and
// speed samples.
package movement

import (
	"math"

	"github.com/alexanderramin/cityguide/internal/domain"
)

const earthRadiusKm = 6371.0

// CityGeometry describes the city the assistant serves.
type CityGeometry struct {
	Center           domain.Location
	CityRadiusKm     float64
	ApproachRadiusKm float64
}

// Speed thresholds in km/h, upper bounds exclusive.
const (
	stationaryMaxKmh = 2.0
	walkingMaxKmh    = 8.0
	bikeMaxKmh       = 25.0
	carMaxKmh        = 130.0
)

// ClassifyAppMode maps a location onto city / approaching / remote. A nil
// location yields ModeUnknown.
func ClassifyAppMode(loc *domain.Location, geo CityGeometry) domain.AppMode {
	if loc == nil {
		return domain.ModeUnknown
	}
	d := DistanceKm(*loc, geo.Center)
	switch {
	case d <= geo.CityRadiusKm:
		return domain.ModeCity
	case d <= geo.ApproachRadiusKm:
		return domain.ModeApproaching
	default:
		return domain.ModeRemote
	}
}

// ClassifyMovement buckets a speed in meters per second.
func ClassifyMovement(speedMps float64) domain.MovementMode {
	if math.IsNaN(speedMps) || speedMps < 0 {
		return domain.MovementStationary
	}
	kmh := speedMps * 3.6
	switch {
	case kmh < stationaryMaxKmh:
		return domain.MovementStationary
	case kmh < walkingMaxKmh:
		return domain.MovementWalking
	case kmh < bikeMaxKmh:
		return domain.MovementBike
	case kmh < carMaxKmh:
		return domain.MovementCar
	default:
		return domain.MovementFast
	}
}

// DistanceKm is the haversine great-circle distance between a and b.
func DistanceKm(a, b domain.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
