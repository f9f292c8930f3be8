package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedFile is the top-level structure of a backend seed file. Records are
// addressed by ref inside the file; database ids are derived from refs so
// re-importing the same file updates rows in place.
type SeedFile struct {
	Events      []EventSeed      `json:"events" yaml:"events"`
	Restaurants []RestaurantSeed `json:"restaurants" yaml:"restaurants"`
	Users       []UserSeed       `json:"users" yaml:"users"`
}

// EventSeed times accept RFC 3339 or "YYYY-MM-DD HH:MM" in city time.
type EventSeed struct {
	Ref         string  `json:"ref" yaml:"ref"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Venue       string  `json:"venue,omitempty" yaml:"venue"`
	Category    string  `json:"category,omitempty" yaml:"category"`
	StartsAt    string  `json:"starts_at" yaml:"starts_at"`
	EndsAt      *string `json:"ends_at,omitempty" yaml:"ends_at"`
	AllDay      bool    `json:"all_day,omitempty" yaml:"all_day"`
}

type RestaurantSeed struct {
	Ref      string     `json:"ref" yaml:"ref"`
	Name     string     `json:"name" yaml:"name"`
	Cuisine  string     `json:"cuisine,omitempty" yaml:"cuisine"`
	Address  string     `json:"address,omitempty" yaml:"address"`
	Phone    string     `json:"phone,omitempty" yaml:"phone"`
	Tier     string     `json:"tier,omitempty" yaml:"tier"`
	Promoted bool       `json:"promoted,omitempty" yaml:"promoted"`
	Delivery bool       `json:"delivery,omitempty" yaml:"delivery"`
	Lat      float64    `json:"lat,omitempty" yaml:"lat"`
	Lng      float64    `json:"lng,omitempty" yaml:"lng"`
	Menu     []MenuSeed `json:"menu,omitempty" yaml:"menu"`
}

// MenuSeed items are available unless Available is explicitly false.
type MenuSeed struct {
	Name      string `json:"name" yaml:"name"`
	PriceHUF  int    `json:"price_huf" yaml:"price_huf"`
	Available *bool  `json:"available,omitempty" yaml:"available"`
}

type UserSeed struct {
	Ref         string         `json:"ref" yaml:"ref"`
	DisplayName string         `json:"display_name" yaml:"display_name"`
	Language    string         `json:"language,omitempty" yaml:"language"`
	HomeCity    string         `json:"home_city,omitempty" yaml:"home_city"`
	Vehicles    []VehicleSeed  `json:"vehicles,omitempty" yaml:"vehicles"`
	Interests   map[string]int `json:"interests,omitempty" yaml:"interests"`
	Traits      []string       `json:"traits,omitempty" yaml:"traits"`
}

type VehicleSeed struct {
	LicensePlate string `json:"license_plate" yaml:"license_plate"`
	Nickname     string `json:"nickname,omitempty" yaml:"nickname"`
	Carrier      string `json:"carrier,omitempty" yaml:"carrier"`
	IsDefault    bool   `json:"is_default,omitempty" yaml:"is_default"`
}

// LoadSeedFile reads a seed file, choosing YAML or JSON by extension.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data, filepath.Ext(path))
}

// ParseSeed decodes data. ext selects the format; anything other than
// .yaml or .yml is treated as JSON.
func ParseSeed(data []byte, ext string) (*SeedFile, error) {
	var seed SeedFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("parsing seed yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("parsing seed json: %w", err)
		}
	}
	return &seed, nil
}
