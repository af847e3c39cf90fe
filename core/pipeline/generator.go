package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/siherrmann/combiner/helper"
)

// GeneratorConfig configures the OpenAI compatible generative service
type GeneratorConfig struct {
	APIKey  string `json:"-" env:"COMBINER_LLM_API_KEY"`
	BaseURL string `json:"base_url" env:"COMBINER_LLM_BASE_URL"`
	Model   string `json:"model" env:"COMBINER_LLM_MODEL"`
}

const defaultGeneratorModel = "gpt-4o-mini"

// LoadGeneratorConfig reads the generator configuration from the environment.
// A .env file in the working directory is loaded first if present.
func LoadGeneratorConfig() (GeneratorConfig, error) {
	_ = godotenv.Load()

	config := GeneratorConfig{Model: defaultGeneratorModel}
	err := helper.ParseEnv(&config)
	if err != nil {
		return config, err
	}
	if config.APIKey == "" {
		return config, helper.NewError("generator config validation", fmt.Errorf("COMBINER_LLM_API_KEY is not set"))
	}
	return config, nil
}

// DefaultGenerator creates a generator backed by the chat completions API.
// Retries are disabled, a failed call falls through to the next step instead.
func DefaultGenerator(config GeneratorConfig) (GenerateFunc, error) {
	if config.APIKey == "" {
		return nil, helper.NewError("generator config validation", fmt.Errorf("api key is empty"))
	}
	if config.Model == "" {
		config.Model = defaultGeneratorModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	client := openai.NewClient(opts...)

	return func(ctx context.Context, req GenerateRequest) (string, error) {
		params := openai.ChatCompletionNewParams{
			Model: openai.ChatModel(config.Model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(req.System),
				openai.UserMessage(req.Prompt),
			},
			Temperature: openai.Float(req.Temperature),
		}
		if req.MaxTokens > 0 {
			params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
		}

		completion, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", helper.NewError("chat completion", err)
		}
		if len(completion.Choices) == 0 {
			return "", helper.NewError("chat completion", fmt.Errorf("response has no choices"))
		}

		return strings.TrimSpace(completion.Choices[0].Message.Content), nil
	}, nil
}
