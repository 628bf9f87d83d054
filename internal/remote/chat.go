// Package remote holds the chat-completion clients used for remote-chat
// models. Every failure is reported as a *RemoteInferenceError; clients
// never retry.
package remote

import (
	"context"
	"sort"

	"reflectd/pkg/types"
)

// ChatClient sends one chat completion request.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// ChatRequest is a provider-neutral chat completion request.
type ChatRequest struct {
	Model       string
	Messages    []types.ConversationTurn
	MaxTokens   int      // 0 means provider default
	Temperature *float64 // nil means provider default
}

// ChatResponse holds the assistant message content.
type ChatResponse struct {
	Content string
}

// Clients maps provider names to clients.
type Clients map[string]ChatClient

// Chat routes req to the named provider.
func (c Clients) Chat(ctx context.Context, provider string, req ChatRequest) (ChatResponse, error) {
	cl, ok := c[provider]
	if !ok || cl == nil {
		return ChatResponse{}, &RemoteInferenceError{Provider: provider, Model: req.Model, Err: errUnknownProvider}
	}
	return cl.Chat(ctx, req)
}

// Providers returns the configured provider names, sorted.
func (c Clients) Providers() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
