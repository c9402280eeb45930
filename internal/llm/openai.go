package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/zxfpro/primalstep/internal/config"
)

// systemPrompt pins the model into decomposition mode; the JSON response
// format option enforces a syntactically valid object but the content is
// still validated downstream.
const systemPrompt = "You are a task decomposition assistant. Respond with a single JSON object exactly as the user specifies, with no surrounding prose."

// OpenAIClient generates responses through the OpenAI chat completions API
// (or any OpenAI-compatible endpoint via base_url).
type OpenAIClient struct {
	model llms.Model
}

// NewOpenAIClient creates a client for the configured model. The API key is
// taken from cfg, falling back to the OPENAI_API_KEY environment variable;
// missing both is an error.
func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key not provided (set llm.api_key or OPENAI_API_KEY)")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(cfg.Model),
		openai.WithResponseFormat(openai.ResponseFormatJSON),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}

	return &OpenAIClient{model: model}, nil
}

// Generate sends the prompt as a chat completion and returns the first
// choice's content.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := c.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Content, nil
}
