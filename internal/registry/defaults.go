package registry

import "reflectd/pkg/types"

const journalAssistantPrompt = "You are a helpful, empathetic journal assistant. Help the user reflect on their thoughts and feelings."

func temp(v float64) *float64 { return &v }

// DefaultModels is the built-in model catalogue.
func DefaultModels() []types.ModelConfig {
	return []types.ModelConfig{
		{
			ID:      "sentiment-local",
			Name:    "Sentiment Analysis Model",
			Task:    types.TaskSentiment,
			Backend: types.BackendOnDevice,
			Path:    "onnx-community/distilbert-base-uncased-finetuned-sst-2-english",
		},
		{
			ID:      "whisper-local",
			Name:    "Whisper Speech Recognition",
			Task:    types.TaskSpeechRecognition,
			Backend: types.BackendOnDevice,
			Path:    "ggml-tiny.en.bin",
		},
		{
			ID:          "text-gen-local",
			Name:        "Text Generation Model",
			Task:        types.TaskTextGeneration,
			Backend:     types.BackendOnDevice,
			Path:        "gpt2.gguf",
			MaxTokens:   100,
			Temperature: temp(0.7),
		},
		{
			ID:      "embeddings-local",
			Name:    "Text Embeddings Model",
			Task:    types.TaskFeatureExtraction,
			Backend: types.BackendOnDevice,
			Path:    "mixedbread-ai/mxbai-embed-xsmall-v1",
		},
		{
			ID:           "ollama-mistral",
			Name:         "Mistral",
			Task:         types.TaskTextGeneration,
			Backend:      types.BackendRemoteChat,
			Provider:     types.ProviderOllama,
			Path:         "mistral:latest",
			MaxTokens:    200,
			Temperature:  temp(0.7),
			SystemPrompt: journalAssistantPrompt,
		},
		{
			ID:           "ollama-llama2",
			Name:         "Llama 2",
			Task:         types.TaskTextGeneration,
			Backend:      types.BackendRemoteChat,
			Provider:     types.ProviderOllama,
			Path:         "llama2:latest",
			MaxTokens:    250,
			Temperature:  temp(0.6),
			SystemPrompt: journalAssistantPrompt,
		},
		{
			ID:           "ollama-chat",
			Name:         "Chat Assistant",
			Task:         types.TaskChat,
			Backend:      types.BackendRemoteChat,
			Provider:     types.ProviderOllama,
			Path:         "mistral:latest",
			MaxTokens:    500,
			Temperature:  temp(0.7),
			SystemPrompt: "You are a supportive journal assistant that helps users explore their thoughts and feelings. Be empathetic, insightful, and provide thoughtful responses.",
		},
		{
			ID:           "ollama-summarize",
			Name:         "Text Summarizer",
			Task:         types.TaskSummarization,
			Backend:      types.BackendRemoteChat,
			Provider:     types.ProviderOllama,
			Path:         "mistral:latest",
			MaxTokens:    150,
			Temperature:  temp(0.3),
			SystemPrompt: "Summarize the following journal entry concisely, focusing on key emotions and events. Be brief but insightful.",
		},
	}
}

// DefaultPrompts is the built-in prompt template set.
func DefaultPrompts() []types.PromptTemplate {
	return []types.PromptTemplate{
		{
			ID:      "journal-summary",
			Name:    "Journal Summary",
			Content: "Summarize this journal entry concisely, focusing on key emotions and events.",
			Usage:   types.UsageSummary,
		},
		{
			ID:      "journal-reflection",
			Name:    "Journal Reflection",
			Content: "Provide a thoughtful, empathetic reflection on this journal entry, considering the author's emotional state.",
			Usage:   types.UsageReflection,
		},
		{
			ID:      "mood-analysis",
			Name:    "Mood Analysis",
			Content: "Analyze the emotional tone of this text and identify the primary mood.",
			Usage:   types.UsageAnalysis,
		},
		{
			ID:      "chat-assistant",
			Name:    "Chat Assistant",
			Content: "You are a supportive journal assistant. Help users express their thoughts and feelings clearly.",
			Usage:   types.UsageChat,
		},
	}
}

// Default builds a Registry from the built-in catalogue.
func Default() *Registry {
	r, err := New(DefaultModels(), DefaultPrompts())
	if err != nil {
		// built-in data is static; a failure here is a programming error
		panic(err)
	}
	return r
}
