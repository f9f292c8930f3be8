package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/decision"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/intelligence"
	"github.com/alexanderramin/cityguide/internal/intent"
	"github.com/alexanderramin/cityguide/internal/movement"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("cityguide/service")

// AssistantRequest is one user query with its situation.
type AssistantRequest struct {
	Query    string
	History  []domain.Turn
	Frontend domain.AmbientContext
}

// AssistantService answers queries. Run always returns a well-formed result.
type AssistantService interface {
	Run(ctx context.Context, req AssistantRequest) domain.AssistantResult
}

type AssistantConfig struct {
	Geometry movement.CityGeometry
	Location *time.Location
	// Now is used when the request carries no timestamp.
	Now func() time.Time
}

type assistantService struct {
	matcher   *intent.Matcher
	loader    ContextLoader
	generator intelligence.ResponseService
	publisher InteractionPublisher
	cfg       AssistantConfig
	logger    *slog.Logger
	observer  UseCaseObserver
}

func NewAssistantService(
	matcher *intent.Matcher,
	loader ContextLoader,
	generator intelligence.ResponseService,
	publisher InteractionPublisher,
	cfg AssistantConfig,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) AssistantService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &assistantService{
		matcher:   matcher,
		loader:    loader,
		generator: generator,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *assistantService) Run(ctx context.Context, req AssistantRequest) (result domain.AssistantResult) {
	startedAt := time.Now().UTC()
	ctx, span := tracer.Start(ctx, "assistant.Run")
	defer span.End()

	query := strings.TrimSpace(req.Query)
	fields := map[string]any{}
	var runErr error
	intentTag := domain.IntentUnknown

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("assistant pipeline panicked: %v", r)
			s.logger.ErrorContext(ctx, "assistant pipeline panicked", "panic", r)
			result = domain.AssistantResult{AIResponse: intelligence.Fallback(query), Intent: string(intentTag)}
			fields["fallback"] = true
			s.publish(ctx, req.Frontend.UserID, query, result)
		}
		fields["intent"] = result.Intent
		fields["confidence"] = result.Confidence
		span.SetAttributes(attribute.String("intent", result.Intent), attribute.Float64("confidence", result.Confidence))
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "run-assistant",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   runErr == nil,
			Err:       runErr,
			Fields:    fields,
		})
	}()

	amb := s.situate(req.Frontend)
	fields["app_mode"] = string(amb.AppMode)

	intents := s.matcher.Detect(query)
	intentTag = intents.Primary()

	if intentTag == domain.IntentRestricted {
		result = domain.AssistantResult{AIResponse: intelligence.RestrictedReply(), Intent: string(intentTag)}
		s.publish(ctx, amb.UserID, query, result)
		return result
	}

	var dec *domain.Decision
	if intents.Has(domain.IntentFoodGeneral) {
		d := decision.DecideFood(query, amb.AppMode, amb.Hour)
		intents = intents.Replace(domain.IntentFoodGeneral, d.Intent)
		intentTag = intents.Primary()
		dec = &d
		fields["decision"] = string(d.Intent)
	}

	bc := s.loader.Load(ctx, intents, query, amb)
	var menu []domain.MenuItem
	if dec != nil && dec.FetchMenu {
		menu = s.loader.LoadMenu(ctx, query)
		bc.Menu = menu
	}

	genReq := intelligence.ResponseRequest{
		Intent:   intentTag,
		Intents:  intents,
		Query:    query,
		History:  req.History,
		Ambient:  amb,
		Movement: movement.ClassifyMovement(amb.Speed),
		Context:  bc,
		Decision: dec,
		Menu:     menu,
	}
	if amb.Location != nil {
		d := movement.DistanceKm(*amb.Location, s.cfg.Geometry.Center)
		genReq.DistanceKm = &d
	}

	resp, err := s.generator.Generate(ctx, genReq)
	if err != nil {
		runErr = err
		fields["fallback"] = true
		s.logger.WarnContext(ctx, "response generation failed, using fallback", "intent", intentTag, "error", err)
		resp = intelligence.Fallback(query)
	} else {
		resp = applyDecision(resp, dec)
	}

	result = domain.AssistantResult{AIResponse: resp, Intent: string(intentTag)}
	s.publish(ctx, amb.UserID, query, result)
	return result
}

// situate fills the server-derived parts of the ambient context. AppMode is
// always recomputed from the location.
func (s *assistantService) situate(in domain.AmbientContext) domain.AmbientContext {
	amb := in
	if amb.Now.IsZero() {
		amb.Now = s.cfg.Now()
	}
	amb.Hour = amb.Now.In(s.cfg.Location).Hour()
	amb.AppMode = movement.ClassifyAppMode(amb.Location, s.cfg.Geometry)
	return amb
}

// applyDecision lets the router's pre-selected action stand in for a
// missing model action. Planning replies never carry an action.
func applyDecision(resp domain.AIResponse, dec *domain.Decision) domain.AIResponse {
	if dec == nil {
		return resp
	}
	if dec.Intent == domain.IntentFoodPlanning {
		resp.Action = nil
		return resp
	}
	if resp.Action == nil && dec.Action != nil {
		resp.Action = cloneAction(dec.Action)
	}
	return resp
}

func cloneAction(a *domain.ActionRef) *domain.ActionRef {
	params := make(map[string]any, len(a.Params))
	for k, v := range a.Params {
		params[k] = v
	}
	return &domain.ActionRef{Type: a.Type, Params: params}
}

func (s *assistantService) publish(ctx context.Context, userID, query string, r domain.AssistantResult) {
	if s.publisher == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			s.logger.ErrorContext(ctx, "interaction publish panicked", "panic", p)
		}
	}()
	in := domain.Interaction{
		UserID:       userID,
		Query:        query,
		Intent:       r.Intent,
		ResponseText: r.Text,
		Confidence:   r.Confidence,
	}
	if r.Action != nil {
		in.ActionType = string(r.Action.Type)
	}
	s.publisher.Publish(in)
}
