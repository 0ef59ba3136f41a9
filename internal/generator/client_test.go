package generator

import (
	"alcyxob/studyplan-app/internal/config"
	"alcyxob/studyplan-app/internal/logger"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responsesBody(text string) string {
	body := map[string]any{
		"output": []map[string]any{
			{
				"type": "message",
				"role": "assistant",
				"content": []map[string]any{
					{"type": "output_text", "text": text},
				},
			},
		},
	}
	raw, _ := json.Marshal(body)
	return string(raw)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient(config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, logger.NewNop())
	require.NoError(t, err)
	return client
}

func TestInvoke_ReturnsOutputText(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/responses", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responsesBody("hello from the model")))
	})

	text, err := client.Invoke(context.Background(), "make a plan", false)
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq["model"])
	_, hasTools := gotReq["tools"]
	assert.False(t, hasTools, "tools must be omitted without live search")

	input, ok := gotReq["input"].([]any)
	require.True(t, ok)
	require.Len(t, input, 1)
	msg := input[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "make a plan", msg["content"])
}

func TestInvoke_LiveSearchEnablesWebSearchTool(t *testing.T) {
	var gotReq map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(responsesBody("ok")))
	})

	_, err := client.Invoke(context.Background(), "find materials", true)
	require.NoError(t, err)

	tools, ok := gotReq["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]any)
	assert.Equal(t, "web_search", tool["type"])
}

func TestInvoke_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := client.Invoke(context.Background(), "make a plan", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestInvoke_EmptyOutputIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[]}`))
	})

	_, err := client.Invoke(context.Background(), "make a plan", false)
	require.Error(t, err)
}

func TestInvoke_RefusalIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[],"refusal":"cannot help with that"}`))
	})

	_, err := client.Invoke(context.Background(), "make a plan", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot help with that")
}

func TestInvoke_ConcatenatesAssistantSegments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":[
			{"type":"web_search_call"},
			{"type":"message","role":"assistant","content":[
				{"type":"output_text","text":"part one "},
				{"type":"output_text","text":"part two"}
			]}
		]}`))
	})

	text, err := client.Invoke(context.Background(), "make a plan", false)
	require.NoError(t, err)
	assert.Equal(t, "part one part two", text)
}

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(config.OpenAIConfig{}, logger.NewNop())
	require.Error(t, err)
}
