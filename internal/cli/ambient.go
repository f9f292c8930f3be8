package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/spf13/cobra"
)

// ambientFlags describe the caller's situation on the command line.
type ambientFlags struct {
	lat, lng float64
	speed    float64
	raining  bool
	user     string
	at       string
}

func (f *ambientFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude of the caller")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "longitude of the caller")
	cmd.Flags().Float64Var(&f.speed, "speed", 0, "speed in m/s")
	cmd.Flags().BoolVar(&f.raining, "raining", false, "it is raining")
	cmd.Flags().StringVar(&f.user, "user", "", "user id for personalization")
	cmd.Flags().StringVar(&f.at, "at", "", "evaluate at this RFC3339 time instead of now")
}

// ambient builds the context. Location is only set when both --lat and
// --lng were given.
func (f *ambientFlags) ambient(cmd *cobra.Command) (domain.AmbientContext, error) {
	amb := domain.AmbientContext{Speed: f.speed, UserID: f.user}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
		amb.Location = &domain.Location{Lat: f.lat, Lng: f.lng}
	}
	if f.raining {
		amb.Weather = &domain.Weather{Condition: "rain", Raining: true}
	}
	if f.at != "" {
		t, err := time.Parse(time.RFC3339, f.at)
		if err != nil {
			return amb, fmt.Errorf("invalid --at %q: %w", f.at, err)
		}
		amb.Now = t
	}
	return amb, nil
}
