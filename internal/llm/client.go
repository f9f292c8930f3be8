package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Message is one prior conversation turn.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// FunctionDecl describes a function the model may call instead of
// answering in text. Parameters is a JSON Schema object.
type FunctionDecl struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// FunctionCall is a native structured call returned by the model.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task              TaskType
	SystemInstruction string
	Prompt            string
	History           []Message
	EnableSearch      bool           // allow the provider's web search tool
	Functions         []FunctionDecl // ignored when EnableSearch is set
	Temperature       *float64       // nil uses task default
	MaxTokens         *int           // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call. Either Text
// or FunctionCall (or both) may be set.
type GenerateResponse struct {
	Text         string
	FunctionCall *FunctionCall
	Model        string
	LatencyMs    int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw model output.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model service is reachable.
	Available(ctx context.Context) bool
}

// NewClient builds the client for cfg.Provider. A disabled config yields a
// client that always fails with ErrDisabled.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if !cfg.Enabled {
		return disabledClient{}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	}
	return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
}

type disabledClient struct{}

func (disabledClient) Generate(context.Context, GenerateRequest) (*GenerateResponse, error) {
	return nil, ErrDisabled
}

func (disabledClient) Available(context.Context) bool { return false }

// taskParams resolves temperature and token limits for req.
func taskParams(cfg LLMConfig, req GenerateRequest) (float64, int) {
	taskCfg := cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

// callWithRetry runs call up to 1+MaxRetries times under the task timeout,
// reports the outcome to observer and maps failures to package errors.
func callWithRetry(ctx context.Context, cfg LLMConfig, observer Observer, req GenerateRequest,
	call func(context.Context) (*GenerateResponse, error)) (*GenerateResponse, error) {
	start := time.Now()

	timeoutMs := cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	event := LLMCallEvent{
		Task:     req.Task,
		Provider: cfg.Provider,
		Model:    cfg.Model,
		Search:   req.EnableSearch,
	}

	var lastErr error
	attempts := 1 + cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		event.Attempts = i + 1
		resp, err := call(ctx)
		if err == nil {
			resp.LatencyMs = time.Since(start).Milliseconds()
			if resp.Model == "" {
				resp.Model = cfg.Model
			}
			event.LatencyMs = resp.LatencyMs
			event.Success = true
			observer.OnCallComplete(event)
			return resp, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
	}

	var err error
	switch {
	case ctx.Err() != nil:
		err = ErrTimeout
	case isConnectionError(lastErr):
		err = ErrUnavailable
	default:
		err = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}

	event.LatencyMs = time.Since(start).Milliseconds()
	event.ErrorCode = errorCode(err)
	observer.OnCallComplete(event)
	return nil, err
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
