package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiTestClient(t *testing.T, handler http.HandlerFunc) LLMClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Provider = ProviderGemini
	cfg.APIKey = "test-key"
	cfg.Endpoint = srv.URL
	cfg.MaxRetries = 0

	client, err := NewClient(context.Background(), cfg, nil)
	require.NoError(t, err)
	return client
}

func TestGeminiClient_Generate_Text(t *testing.T) {
	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		contents, ok := body["contents"].([]any)
		require.True(t, ok)
		assert.Len(t, contents, 3)
		assert.Contains(t, body, "systemInstruction")

		tools, ok := body["tools"].([]any)
		require.True(t, ok)
		require.Len(t, tools, 1)
		assert.Contains(t, tools[0], "googleSearch")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"text\":"},{"text":"\"hi\"}"}]}}],"modelVersion":"gemini-2.5-flash"}`))
	})

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:              TaskRespond,
		SystemInstruction: "answer as JSON",
		Prompt:            "hol parkolhatok",
		History: []Message{
			{Role: "user", Content: "szia"},
			{Role: "assistant", Content: "szia!"},
		},
		EnableSearch: true,
		Functions:    []FunctionDecl{{Name: "navigate_to_parking"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"hi"}`, resp.Text)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.Nil(t, resp.FunctionCall)
}

func TestGeminiClient_Generate_FunctionCall(t *testing.T) {
	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		tools := body["tools"].([]any)
		assert.Contains(t, tools[0], "functionDeclarations")

		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"functionCall":{"name":"navigate_to_parking","args":{"id":"K1"}}}]}}]}`))
	})

	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:      TaskRespond,
		Prompt:    "parkolas",
		Functions: []FunctionDecl{{Name: "navigate_to_parking", Parameters: map[string]any{"type": "object"}}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.FunctionCall)
	assert.Equal(t, "navigate_to_parking", resp.FunctionCall.Name)
	assert.Equal(t, "K1", resp.FunctionCall.Args["id"])
}

func TestGeminiClient_Generate_ServerError(t *testing.T) {
	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
	})

	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskRespond, Prompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
}

func TestGeminiClient_Generate_NoCandidates(t *testing.T) {
	client := geminiTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskRespond, Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response candidates")
}
