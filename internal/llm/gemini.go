package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient on the Gemini API. It is the only
// provider with a native web search tool.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by the Gemini API. Endpoint,
// when set, overrides the API base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if observer == nil {
		observer = NoopObserver{}
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := taskParams(c.cfg, req)

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temp)),
		MaxOutputTokens: int32(maxTok),
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	switch {
	case req.EnableSearch:
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	case len(req.Functions) > 0:
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Functions))
		for _, f := range req.Functions {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:                 f.Name,
				Description:          f.Description,
				ParametersJsonSchema: f.Parameters,
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return callWithRetry(ctx, c.cfg, c.observer, req, func(ctx context.Context) (*GenerateResponse, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, config)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, fmt.Errorf("%w: no response candidates", ErrInvalidOutput)
		}

		out := &GenerateResponse{Model: resp.ModelVersion}
		var text strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
			if part.FunctionCall != nil && out.FunctionCall == nil {
				out.FunctionCall = &FunctionCall{Name: part.FunctionCall.Name, Args: part.FunctionCall.Args}
			}
		}
		out.Text = text.String()
		return out, nil
	})
}

func (c *geminiClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := c.client.Models.Get(ctx, c.cfg.Model, nil)
	if err == nil {
		return true
	}
	// A 4xx other than auth still proves the service answered.
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code != http.StatusUnauthorized && apiErr.Code != http.StatusForbidden && apiErr.Code < 500
	}
	return false
}
