// Package config loads cityguide settings from defaults, an optional YAML
// file and CITYGUIDE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // city timezone must resolve on hosts without zoneinfo

	"github.com/alexanderramin/cityguide/internal/assembler"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/interactionlog"
	"github.com/alexanderramin/cityguide/internal/llm"
	"github.com/alexanderramin/cityguide/internal/movement"
	"github.com/alexanderramin/cityguide/internal/trigger"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "CITYGUIDE"
	DefaultFile    = "cityguide"
	ConfigPathEnv  = "CITYGUIDE_CONFIG"
	BehaviorMemory = "memory"
	BehaviorSQL    = "sql"
	BehaviorRedis  = "redis"
)

type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`
}

type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Prefix   string `mapstructure:"prefix"`
}

type GCSConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// ContentConfig picks where curated datasets are read from.
type ContentConfig struct {
	Source string    `mapstructure:"source"` // dir, s3 or gcs
	Dir    string    `mapstructure:"dir"`
	S3     S3Config  `mapstructure:"s3"`
	GCS    GCSConfig `mapstructure:"gcs"`
}

type CityConfig struct {
	Name             string  `mapstructure:"name"`
	CenterLat        float64 `mapstructure:"center_lat"`
	CenterLng        float64 `mapstructure:"center_lng"`
	CityRadiusKm     float64 `mapstructure:"city_radius_km"`
	ApproachRadiusKm float64 `mapstructure:"approach_radius_km"`
	Timezone         string  `mapstructure:"timezone"`
}

type TriggerConfig struct {
	Threshold      int           `mapstructure:"threshold"`
	Cooldown       time.Duration `mapstructure:"cooldown"`
	EventLookahead time.Duration `mapstructure:"event_lookahead"`
	Interval       time.Duration `mapstructure:"interval"`
}

type BehaviorConfig struct {
	Store         string        `mapstructure:"store"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	RatePerSec   float64       `mapstructure:"rate_per_sec"`
	RateBurst    int           `mapstructure:"rate_burst"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type AssemblerConfig struct {
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	RestaurantCap int           `mapstructure:"restaurant_cap"`
	EventCap      int           `mapstructure:"event_cap"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	MenuLimit     int           `mapstructure:"menu_limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
	Queue  int    `mapstructure:"queue"`
}

// Config is the fully resolved application configuration.
type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Content   ContentConfig   `mapstructure:"content"`
	City      CityConfig      `mapstructure:"city"`
	Trigger   TriggerConfig   `mapstructure:"trigger"`
	Behavior  BehaviorConfig  `mapstructure:"behavior"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Assembler AssemblerConfig `mapstructure:"assembler"`
	Log       LogConfig       `mapstructure:"log"`
	LLM       llm.LLMConfig   `mapstructure:"llm"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "cityguide.db")

	v.SetDefault("content.source", "dir")
	v.SetDefault("content.dir", "content")
	v.SetDefault("content.s3.bucket", "")
	v.SetDefault("content.s3.region", "eu-central-1")
	v.SetDefault("content.s3.endpoint", "")
	v.SetDefault("content.s3.prefix", "")
	v.SetDefault("content.gcs.bucket", "")
	v.SetDefault("content.gcs.prefix", "")

	v.SetDefault("city.name", "Kőszeg")
	v.SetDefault("city.center_lat", 47.3895)
	v.SetDefault("city.center_lng", 16.5410)
	v.SetDefault("city.city_radius_km", 3.0)
	v.SetDefault("city.approach_radius_km", 25.0)
	v.SetDefault("city.timezone", "Europe/Budapest")

	tc := trigger.DefaultConfig()
	v.SetDefault("trigger.threshold", tc.Threshold)
	v.SetDefault("trigger.cooldown", tc.Cooldown)
	v.SetDefault("trigger.event_lookahead", tc.EventLookahead)
	v.SetDefault("trigger.interval", 5*time.Minute)

	v.SetDefault("behavior.store", BehaviorSQL)
	v.SetDefault("behavior.redis_addr", "localhost:6379")
	v.SetDefault("behavior.redis_password", "")
	v.SetDefault("behavior.redis_db", 0)
	v.SetDefault("behavior.redis_prefix", "cityguide:behavior:")
	v.SetDefault("behavior.ttl", 30*24*time.Hour)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.rate_per_sec", 2.0)
	v.SetDefault("http.rate_burst", 5)
	v.SetDefault("http.jwt_secret", "")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)

	ao := assembler.DefaultOptions()
	v.SetDefault("assembler.fetch_timeout", ao.FetchTimeout)
	v.SetDefault("assembler.restaurant_cap", ao.RestaurantCap)
	v.SetDefault("assembler.event_cap", ao.EventCap)
	v.SetDefault("assembler.history_limit", ao.HistoryLimit)
	v.SetDefault("assembler.menu_limit", ao.MenuLimit)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.queue", interactionlog.DefaultOptions().QueueSize)

	lc := llm.DefaultConfig()
	v.SetDefault("llm.enabled", lc.Enabled)
	v.SetDefault("llm.log_calls", lc.LogCalls)
	v.SetDefault("llm.provider", string(lc.Provider))
	v.SetDefault("llm.endpoint", lc.Endpoint)
	v.SetDefault("llm.model", lc.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout_ms", lc.TimeoutMs)
	v.SetDefault("llm.max_retries", lc.MaxRetries)
	for task, t := range lc.Tasks {
		prefix := "llm.tasks." + string(task) + "."
		v.SetDefault(prefix+"temperature", t.Temperature)
		v.SetDefault(prefix+"max_tokens", t.MaxTokens)
		v.SetDefault(prefix+"timeout_ms", t.TimeoutMs)
	}
}

// Load resolves the configuration. path may be empty, in which case
// CITYGUIDE_CONFIG or ./cityguide.yaml is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown db driver %q", c.DB.Driver)
	}
	switch c.Content.Source {
	case "dir", "s3", "gcs":
	default:
		return fmt.Errorf("config: unknown content source %q", c.Content.Source)
	}
	switch c.Behavior.Store {
	case BehaviorMemory, BehaviorSQL, BehaviorRedis:
	default:
		return fmt.Errorf("config: unknown behavior store %q", c.Behavior.Store)
	}
	if c.City.CityRadiusKm <= 0 || c.City.ApproachRadiusKm <= c.City.CityRadiusKm {
		return fmt.Errorf("config: approach radius must exceed a positive city radius")
	}
	if _, err := time.LoadLocation(c.City.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.City.Timezone, err)
	}
	return c.LLM.Validate()
}

func (c *Config) Geometry() movement.CityGeometry {
	return movement.CityGeometry{
		Center:           domain.Location{Lat: c.City.CenterLat, Lng: c.City.CenterLng},
		CityRadiusKm:     c.City.CityRadiusKm,
		ApproachRadiusKm: c.City.ApproachRadiusKm,
	}
}

// Location returns the city's time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.City.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) TriggerEngine() trigger.Config {
	tc := trigger.DefaultConfig()
	tc.Threshold = c.Trigger.Threshold
	tc.Cooldown = c.Trigger.Cooldown
	tc.EventLookahead = c.Trigger.EventLookahead
	return tc
}

func (c *Config) AssemblerOptions() assembler.Options {
	o := assembler.DefaultOptions()
	o.FetchTimeout = c.Assembler.FetchTimeout
	o.RestaurantCap = c.Assembler.RestaurantCap
	o.EventCap = c.Assembler.EventCap
	o.HistoryLimit = c.Assembler.HistoryLimit
	o.MenuLimit = c.Assembler.MenuLimit
	o.Location = c.Location()
	return o
}
