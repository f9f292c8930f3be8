package intelligence

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/llm"
	"github.com/alexanderramin/cityguide/internal/policy"
)

// ResponseRequest is everything the generator may put into the prompt.
type ResponseRequest struct {
	Intent     domain.Intent
	Intents    domain.IntentSet
	Query      string
	History    []domain.Turn
	Ambient    domain.AmbientContext
	Movement   domain.MovementMode
	DistanceKm *float64
	Context    *domain.BackendContext
	Decision   *domain.Decision
	Menu       []domain.MenuItem
}

// ResponseService produces the assistant's reply for one request.
type ResponseService interface {
	// Generate always returns a well-formed response. A non-nil error means
	// the model failed or its output could not be parsed; the response is
	// then the low-confidence Apology.
	Generate(ctx context.Context, req ResponseRequest) (domain.AIResponse, error)
}

type responseService struct {
	client   llm.LLMClient
	firewall *policy.ActionFirewall
	location *time.Location
	logger   *slog.Logger
}

// NewResponseService creates a ResponseService backed by an LLM client.
// loc localizes the time shown to the model.
func NewResponseService(client llm.LLMClient, firewall *policy.ActionFirewall, loc *time.Location, logger *slog.Logger) ResponseService {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &responseService{client: client, firewall: firewall, location: loc, logger: logger}
}

func (s *responseService) Generate(ctx context.Context, req ResponseRequest) (resp domain.AIResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "response generation panicked", "panic", r)
			resp, err = Apology(), fmt.Errorf("response generation panicked: %v", r)
		}
	}()

	prompt, err := buildPrompt(req, s.location)
	if err != nil {
		return Apology(), err
	}

	genReq := llm.GenerateRequest{
		Task:              llm.TaskRespond,
		SystemInstruction: respondSystemInstruction,
		Prompt:            prompt,
		History:           toMessages(req.History),
		EnableSearch:      req.Context == nil || !req.Context.HasDataFor(req.Intent),
		Functions:         actionFunctions(),
	}
	if req.Intent == domain.IntentSmalltalk {
		genReq.Task = llm.TaskSmalltalk
		genReq.SystemInstruction = smalltalkSystemInstruction
		genReq.EnableSearch = false
		genReq.Functions = nil
	}

	out, err := s.client.Generate(ctx, genReq)
	if err != nil {
		return Apology(), fmt.Errorf("generating response: %w", err)
	}

	parsed, err := parseReply(out)
	if err != nil {
		s.logger.WarnContext(ctx, "model output unparseable", "intent", req.Intent, "error", err)
		return Apology(), err
	}
	return s.finalize(ctx, parsed), nil
}

// finalize applies defaults and the action firewall.
func (s *responseService) finalize(ctx context.Context, r domain.AIResponse) domain.AIResponse {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		r.Text = genericSuccessText
	}
	if r.Action != nil {
		action, err := s.firewall.Sanitize(r.Action)
		if err != nil {
			s.logger.WarnContext(ctx, "action blocked", "type", r.Action.Type, "reason", err)
		}
		r.Action = action
	}
	return r
}

func toMessages(turns []domain.Turn) []llm.Message {
	if len(turns) == 0 {
		return nil
	}
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		role := "user"
		if t.Role == domain.RoleAssistant {
			role = "assistant"
		}
		out = append(out, llm.Message{Role: role, Content: t.Content})
	}
	return out
}

var actionDescriptions = map[domain.ActionType]string{
	domain.ActionNavigateEvents:      "Open the events listing.",
	domain.ActionNavigateParking:     "Open the parking map and zones.",
	domain.ActionNavigateAttractions: "Open the attractions listing.",
	domain.ActionNavigateHotels:      "Open the accommodation listing.",
	domain.ActionNavigateLeisure:     "Open leisure places, optionally filtered by category.",
	domain.ActionNavigateInfo:        "Open practical city information.",
	domain.ActionNavigatePass:        "Open the city pass.",
	domain.ActionBuyParkingTicket:    "Start a parking ticket purchase for a zone and plate.",
	domain.ActionSaveVehicle:         "Save a vehicle to the user's profile.",
	domain.ActionCallEmergency:       "Call an emergency service.",
	domain.ActionCallPhone:           "Call a phone number from the context.",
	domain.ActionAddToWallet:         "Add an event pass to the wallet.",
	domain.ActionOpenExternalMap:     "Open a location in the external map app.",
}

// actionFunctions declares the action vocabulary as callable functions.
// Each accepts an extra "text" argument carrying the reply.
func actionFunctions() []llm.FunctionDecl {
	vocab := policy.Vocabulary()
	out := make([]llm.FunctionDecl, 0, len(vocab))
	for _, t := range vocab {
		params := policy.ActionParameters(t)
		if params == nil {
			continue
		}
		props, _ := params["properties"].(map[string]any)
		if props == nil {
			props = map[string]any{}
			params["properties"] = props
		}
		props["text"] = map[string]any{"type": "string", "description": "Reply shown to the user."}
		out = append(out, llm.FunctionDecl{Name: string(t), Description: actionDescriptions[t], Parameters: params})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
