package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflectd/pkg/types"
)

func TestOllamaChatWireFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"mistral:latest","message":{"role":"assistant","content":"Sounds like a full day."},"done":true}`))
	}))
	defer srv.Close()

	temp := 0.7
	c := NewOllama(srv.URL+"/", 0, 0)
	resp, err := c.Chat(context.Background(), ChatRequest{
		Model: "mistral:latest",
		Messages: []types.ConversationTurn{
			{Role: types.RoleSystem, Content: "Be kind."},
			{Role: types.RoleUser, Content: "I worked a lot."},
		},
		MaxTokens:   500,
		Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sounds like a full day.", resp.Content)

	assert.Equal(t, "mistral:latest", got["model"])
	assert.Equal(t, false, got["stream"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "Be kind."}, msgs[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "I worked a lot."}, msgs[1])
	opts := got["options"].(map[string]any)
	assert.Equal(t, 0.7, opts["temperature"])
	assert.Equal(t, float64(500), opts["num_predict"])
}

func TestOllamaOmitsOptionsWhenUnset(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"}}`))
	}))
	defer srv.Close()

	_, err := NewOllama(srv.URL, 0, 0).Chat(context.Background(), ChatRequest{Model: "m", Messages: []types.ConversationTurn{{Role: types.RoleUser, Content: "x"}}})
	require.NoError(t, err)
	_, has := raw["options"]
	assert.False(t, has)
}

func TestOllamaFailuresAreRemoteInferenceErrors(t *testing.T) {
	var hits atomic.Int32
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":`))
		},
		"missing message": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"done":true}`))
		},
		"error field": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"out of memory"}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			hits.Store(0)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				h(w, r)
			}))
			defer srv.Close()
			_, err := NewOllama(srv.URL, 0, 0).Chat(context.Background(), ChatRequest{Model: "m"})
			require.Error(t, err)
			assert.True(t, IsRemoteInferenceError(err))
			var re *RemoteInferenceError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, types.ProviderOllama, re.Provider)
			assert.Equal(t, "m", re.Model)
			assert.Equal(t, int32(1), hits.Load(), "no retry")
		})
	}
}

func TestOllamaStatusErrorCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err := NewOllama(srv.URL, 0, 0).Chat(context.Background(), ChatRequest{Model: "m"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestOllamaConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := NewOllama(url, 0, 0).Chat(context.Background(), ChatRequest{Model: "m"})
	assert.True(t, IsRemoteInferenceError(err))
}

func TestOllamaRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewOllama(srv.URL, 50*time.Millisecond, 0).Chat(context.Background(), ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientsRouting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"routed"}}`))
	}))
	defer srv.Close()

	cs := Clients{types.ProviderOllama: NewOllama(srv.URL, 0, 0)}
	resp, err := cs.Chat(context.Background(), types.ProviderOllama, ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "routed", resp.Content)

	_, err = cs.Chat(context.Background(), types.ProviderOpenAI, ChatRequest{Model: "gpt"})
	assert.True(t, IsRemoteInferenceError(err))
	assert.ErrorIs(t, err, errUnknownProvider)
	assert.Equal(t, []string{types.ProviderOllama}, cs.Providers())
}
