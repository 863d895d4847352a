package report

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// Generator produces free-form analyst report text for a ticker. Unlike the
// price and news fetchers there is no degraded fallback here: a generation
// failure surfaces as an error.
type Generator struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewGenerator(tracer trace.Tracer, llm LLMClient, model string) *Generator {
	return &Generator{tracer: tracer, llm: llm, model: model}
}

func (g *Generator) Generate(ctx context.Context, ticker string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "report.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.String("llm.model", g.model),
	)

	completion, err := g.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model:    g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(BuildPrompt(ticker))},
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("generate stock report: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	text := completion.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("llm.reply_length", len(text)))
	return text, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
