// Package recommend turns profile context and an emotional score into
// generated sales text. Generation failures never escape as errors; they
// come back as text starting with FailurePrefix.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/llm"
	"github.com/rs/zerolog"
)

// FailurePrefix marks generated text that is really a provider error.
const FailurePrefix = "⚠️ API Error: "

// IsFailure reports whether text is an inline generation failure.
func IsFailure(text string) bool {
	return strings.HasPrefix(text, FailurePrefix)
}

type Engine struct {
	generator llm.Generator
	logger    zerolog.Logger
}

func NewEngine(generator llm.Generator, logger zerolog.Logger) *Engine {
	return &Engine{
		generator: generator,
		logger:    logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend asks for three product suggestions tailored to the interests,
// past purchases and state of mind of a customer.
func (e *Engine) Recommend(ctx context.Context, interests, purchases []string, score int) string {
	prompt := fmt.Sprintf(recommendPrompt, strings.Join(interests, ", "), score)
	if len(purchases) > 0 {
		prompt += fmt.Sprintf(purchasesPrompt, strings.Join(purchases, ", "))
	}
	return e.generate(ctx, "recommend", prompt)
}

// RespondToObjection drafts a professional reply to a customer objection.
func (e *Engine) RespondToObjection(ctx context.Context, objection string) string {
	return e.generate(ctx, "objection", fmt.Sprintf(objectionPrompt, objection))
}

// SummarizeCall drafts a call summary from what the customer said.
func (e *Engine) SummarizeCall(ctx context.Context, customer, transcript string, score int) string {
	return e.generate(ctx, "summary", fmt.Sprintf(summaryPrompt, customer, transcript, score))
}

func (e *Engine) generate(ctx context.Context, kind, prompt string) string {
	text, err := e.generator.Generate(ctx, prompt)
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = llm.ErrEmptyResponse
		}
	}
	if err != nil {
		e.logger.Error().Err(err).Str("kind", kind).Msg("generation failed")
		return FailurePrefix + err.Error()
	}
	return text
}
