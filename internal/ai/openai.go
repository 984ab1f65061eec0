package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// OpenAIGenerator calls an OpenAI chat model via langchaingo.
type OpenAIGenerator struct {
	llm    llms.Model
	params Params
	logger *slog.Logger
}

func NewOpenAIGenerator(apiKey string, params Params, logger *slog.Logger) (*OpenAIGenerator, error) {
	params = params.withDefaults()
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(params.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIGenerator{llm: llm, params: params, logger: logger}, nil
}

func (g *OpenAIGenerator) GenerateEmail(ctx context.Context, job JobDetails, resumeText, template string) (string, error) {
	g.logger.Info("generating email", "role", job.Title, "company", job.Company)

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, g.params.SystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, buildPrompt(job, resumeText, template, g.params.IncludeResumeSummary)),
	}

	resp, err := g.llm.GenerateContent(ctx, content,
		llms.WithTemperature(g.params.Temperature),
		llms.WithMaxTokens(g.params.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		// Empty output is a failure, never a usable email.
		return "", errors.New("model returned empty completion")
	}
	return text, nil
}
