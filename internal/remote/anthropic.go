package remote

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"reflectd/pkg/types"
)

// defaultAnthropicMaxTokens is used when a model sets no limit; the
// messages API requires one.
const defaultAnthropicMaxTokens = 1024

// Anthropic calls the Anthropic messages API.
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic returns an Anthropic client with SDK retries disabled.
func NewAnthropic(apiKey string, extra ...option.RequestOption) *Anthropic {
	opts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, extra...)
	return &Anthropic{client: anthropic.NewClient(opts...)}
}

// Chat implements ChatClient. System turns become the top-level system
// block.
func (p *Anthropic) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var system []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case types.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case types.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if len(system) > 0 {
		params.System = system
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return ChatResponse{}, &RemoteInferenceError{Provider: types.ProviderAnthropic, Model: req.Model, Err: err}
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return ChatResponse{}, &RemoteInferenceError{Provider: types.ProviderAnthropic, Model: req.Model, Err: errEmptyContent}
	}
	return ChatResponse{Content: sb.String()}, nil
}
