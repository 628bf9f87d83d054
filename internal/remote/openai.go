package remote

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"reflectd/pkg/types"
)

// OpenAI calls the chat completions API of OpenAI or any compatible server.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI returns an OpenAI client. baseURL is optional. SDK retries are
// disabled; callers own retry policy.
func NewOpenAI(apiKey, baseURL string, extra ...option.RequestOption) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &OpenAI{client: openai.NewClient(opts...)}
}

// Chat implements ChatClient.
func (p *OpenAI) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case types.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case types.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ChatResponse{}, &RemoteInferenceError{Provider: types.ProviderOpenAI, Model: req.Model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, &RemoteInferenceError{Provider: types.ProviderOpenAI, Model: req.Model, Err: errEmptyContent}
	}
	return ChatResponse{Content: resp.Choices[0].Message.Content}, nil
}
