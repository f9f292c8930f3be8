// Package app wires configuration into a running set of services.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/assembler"
	"github.com/alexanderramin/cityguide/internal/config"
	"github.com/alexanderramin/cityguide/internal/content"
	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/httpapi"
	"github.com/alexanderramin/cityguide/internal/importer"
	"github.com/alexanderramin/cityguide/internal/intelligence"
	"github.com/alexanderramin/cityguide/internal/intent"
	"github.com/alexanderramin/cityguide/internal/interactionlog"
	"github.com/alexanderramin/cityguide/internal/llm"
	"github.com/alexanderramin/cityguide/internal/policy"
	"github.com/alexanderramin/cityguide/internal/repository"
	"github.com/alexanderramin/cityguide/internal/service"
	"github.com/alexanderramin/cityguide/internal/trigger"
)

// App is the fully wired runtime. Close releases it in reverse order.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Assistant service.AssistantService
	Triggers  *service.TriggerService
	Events    service.EventSource
	Importer  *importer.Importer
	LLM       llm.LLMClient

	closers []func(context.Context) error
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Build opens every backend named by cfg and wires the services.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	if logger == nil {
		logger = NewLogger(cfg.Log, os.Stderr)
	}
	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	database, dialect, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.onClose(func(context.Context) error { return database.Close() })

	src, err := a.contentSource(ctx)
	if err != nil {
		return nil, err
	}

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	client, err := llm.NewClient(ctx, cfg.LLM, observer)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	a.LLM = client

	firewall, err := policy.NewActionFirewall()
	if err != nil {
		return nil, fmt.Errorf("compiling action schemas: %w", err)
	}

	users := repository.NewUserRepo(database, dialect)
	live := repository.NewLiveRepo(database, dialect)

	publisher := interactionlog.NewPublisher(
		repository.NewInteractionRepo(database, dialect),
		interactionlog.Options{QueueSize: cfg.Log.Queue},
		logger,
	)
	// Registered after the database so it drains before the pool closes.
	a.onClose(publisher.Close)

	loc := cfg.Location()
	observers := []service.UseCaseObserver{service.NewLogUseCaseObserver(logger)}

	a.Assistant = service.NewAssistantService(
		intent.NewMatcher(),
		assembler.New(users, live, content.NewStore(src, logger), cfg.AssemblerOptions(), logger),
		intelligence.NewResponseService(client, firewall, loc, logger),
		publisher,
		service.AssistantConfig{Geometry: cfg.Geometry(), Location: loc},
		logger,
		observers...,
	)

	store, err := a.behaviorStore(database, dialect)
	if err != nil {
		return nil, err
	}
	a.Events = live
	a.Triggers = service.NewTriggerService(
		trigger.NewEngine(cfg.TriggerEngine()),
		store, live, users, cfg.Geometry(), loc, logger, observers...,
	)

	a.Importer = importer.New(db.NewUnitOfWork(database), dialect, loc, logger)
	return a, nil
}

func (a *App) contentSource(ctx context.Context) (content.Source, error) {
	c := a.Config.Content
	switch c.Source {
	case "s3":
		src, err := content.NewS3Source(ctx, content.S3Config{
			Bucket: c.S3.Bucket, Region: c.S3.Region, Endpoint: c.S3.Endpoint, Prefix: c.S3.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("opening s3 content: %w", err)
		}
		return src, nil
	case "gcs":
		src, err := content.NewGCSSource(ctx, c.GCS.Bucket, c.GCS.Prefix)
		if err != nil {
			return nil, fmt.Errorf("opening gcs content: %w", err)
		}
		a.onClose(func(context.Context) error { return src.Close() })
		return src, nil
	default:
		return content.DirSource{Root: c.Dir}, nil
	}
}

func (a *App) behaviorStore(database *sql.DB, dialect db.Dialect) (trigger.BehaviorStore, error) {
	b := a.Config.Behavior
	switch b.Store {
	case config.BehaviorMemory:
		return trigger.NewMemoryBehaviorStore(), nil
	case config.BehaviorRedis:
		client := repository.NewRedisClient(b.RedisAddr, b.RedisPassword, b.RedisDB)
		a.onClose(func(context.Context) error { return client.Close() })
		return repository.NewRedisBehaviorStore(client, b.RedisPrefix, b.TTL), nil
	default:
		return repository.NewSQLBehaviorStore(database, dialect), nil
	}
}

// HTTPServer builds the HTTP surface over the wired services.
func (a *App) HTTPServer() *httpapi.Server {
	h := a.Config.HTTP
	srv := httpapi.NewServer(a.Assistant, a.Triggers, a.LLM, httpapi.Options{
		RatePerSec: h.RatePerSec,
		RateBurst:  h.RateBurst,
		JWTSecret:  h.JWTSecret,
	}, a.Logger)
	a.onClose(func(context.Context) error { srv.Close(); return nil })
	return srv
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close runs the registered closers, most recent first.
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
