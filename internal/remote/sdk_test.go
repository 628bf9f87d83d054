package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflectd/pkg/types"
)

func turns() []types.ConversationTurn {
	return []types.ConversationTurn{
		{Role: types.RoleSystem, Content: "Be brief."},
		{Role: types.RoleUser, Content: "Hi"},
		{Role: types.RoleAssistant, Content: "Hello"},
		{Role: types.RoleUser, Content: "How are you?"},
	}
}

func TestOpenAIChat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Doing well."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	temp := 0.2
	resp, err := NewOpenAI("sk-test", srv.URL+"/").Chat(context.Background(), ChatRequest{
		Model: "gpt-4o-mini", Messages: turns(), MaxTokens: 64, Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "Doing well.", resp.Content)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])
	assert.Equal(t, 0.2, body["temperature"])
}

func TestOpenAIErrorsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI("sk-test", srv.URL+"/").Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini", Messages: turns()})
	require.Error(t, err)
	assert.True(t, IsRemoteInferenceError(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()
	_, err := NewOpenAI("k", srv.URL+"/").Chat(context.Background(), ChatRequest{Model: "m", Messages: turns()})
	assert.ErrorIs(t, err, errEmptyContent)
}

func TestAnthropicChat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",
			"content":[{"type":"text","text":"Quite well, "},{"type":"text","text":"thanks."}],
			"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	resp, err := NewAnthropic("sk-ant", anthropicBaseURL(srv.URL)).Chat(context.Background(), ChatRequest{
		Model: "claude-3-5-haiku-latest", Messages: turns(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Quite well, thanks.", resp.Content)

	system := body["system"].([]any)
	require.Len(t, system, 1)
	assert.Equal(t, "Be brief.", system[0].(map[string]any)["text"])
	assert.Len(t, body["messages"].([]any), 3, "system turn is lifted out of messages")
	assert.Equal(t, float64(defaultAnthropicMaxTokens), body["max_tokens"])
}

func TestAnthropicErrorsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropic("k", anthropicBaseURL(srv.URL)).Chat(context.Background(), ChatRequest{Model: "m", Messages: turns()})
	assert.True(t, IsRemoteInferenceError(err))
	assert.Equal(t, int32(1), hits.Load())
}
