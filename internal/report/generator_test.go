package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeLLM struct {
	reply      string
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (f *fakeLLM) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func TestGenerateReturnsLLMText(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{reply: "1. Company Overview..."}
	g := NewGenerator(testTracer, llm, "gpt-4o-mini")

	text, err := g.Generate(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "1. Company Overview..." {
		t.Fatalf("unexpected text %q", text)
	}
	if llm.lastParams.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model %q", llm.lastParams.Model)
	}
}

func TestGenerateWrapsError(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{err: errors.New("rate limited")}
	g := NewGenerator(testTracer, llm, "gpt-4o-mini")

	_, err := g.Generate(context.Background(), "AAPL")
	if err == nil || !strings.Contains(err.Error(), "generate stock report") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	t.Parallel()

	g := NewGenerator(testTracer, emptyLLM{}, "gpt-4o-mini")
	if _, err := g.Generate(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

type emptyLLM struct{}

func (emptyLLM) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return &openai.ChatCompletion{}, nil
}

func TestBuildPromptMentionsTickerAndSections(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt("BIRLACORP.NS")
	if !strings.Contains(prompt, "BIRLACORP.NS") {
		t.Fatal("prompt must mention the ticker")
	}
	for _, section := range []string{
		"Company Overview",
		"Financial Performance Analysis",
		"Market Position and Competitive Analysis",
		"Risk Assessment",
		"Investment Recommendation",
	} {
		if !strings.Contains(prompt, section) {
			t.Fatalf("prompt missing section %q", section)
		}
	}
}
