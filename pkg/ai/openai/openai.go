package openai

import (
	"sync"

	"github.com/econograph/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient implements the ai.Client interface against any
// OpenAI-compatible chat completion endpoint.
//
// An OpenAIClient should be created using NewOpenAIClient.
type OpenAIClient struct {
	chatModel string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewOpenAIClientParams defines the configuration for creating a new
// OpenAIClient. ChatURL may be empty to use the default OpenAI endpoint.
type NewOpenAIClientParams struct {
	ChatModel string

	ChatURL string
	ChatKey string
}

// NewOpenAIClient creates a client configured with the provided
// parameters.
//
// Example:
//
//	params := openai.NewOpenAIClientParams{
//		ChatModel: "gpt-4o-mini",
//		ChatKey:   os.Getenv("OPENAI_API_KEY"),
//	}
//	client := openai.NewOpenAIClient(params)
func NewOpenAIClient(
	params NewOpenAIClientParams,
) *OpenAIClient {
	return &OpenAIClient{
		chatModel: params.ChatModel,

		chatURL: params.ChatURL,
		chatKey: params.ChatKey,

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		ChatClient: newOpenaiClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
