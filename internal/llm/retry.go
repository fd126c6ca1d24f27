package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// RetryGenerator retries a failed generation a bounded number of times
// with a constant delay. Context cancellation stops it immediately.
type RetryGenerator struct {
	next    Generator
	retries uint64
	delay   time.Duration
	logger  zerolog.Logger
}

func NewRetryGenerator(next Generator, retries uint64, delay time.Duration, logger zerolog.Logger) *RetryGenerator {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &RetryGenerator{
		next:    next,
		retries: retries,
		delay:   delay,
		logger:  logger.With().Str("component", "generator").Logger(),
	}
}

func (r *RetryGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	backoff := retry.WithMaxRetries(r.retries, retry.NewConstant(r.delay))

	attempt := 0
	return retry.DoValue(ctx, backoff, func(ctx context.Context) (string, error) {
		attempt++
		text, err := r.next.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		r.logger.Warn().Err(err).Int("attempt", attempt).Msg("generation attempt failed")
		if ctx.Err() != nil {
			return "", err
		}
		return "", retry.RetryableError(err)
	})
}
