// Package pipeline runs one customer interaction end to end: resolve the
// profile, score the utterance, generate suggestions and assemble the
// result. Only the store mutations surface errors; everything downstream
// of the store degrades to text.
package pipeline

import (
	"context"
	"time"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/events"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/recommend"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/sentiment"
	"github.com/rs/zerolog"
)

// Profiles is the slice of the profile store the pipeline reads and, when
// recording suggestions, appends to.
type Profiles interface {
	Get(ctx context.Context, name string) (models.CustomerProfile, bool, error)
	AppendRecommendation(ctx context.Context, name, suggestion string) error
}

type Options struct {
	// GenerationTimeout bounds every generation call. Zero means no limit
	// beyond the caller's context.
	GenerationTimeout time.Duration
	// RecordSuggestions appends successful suggestions to the profile's
	// recommendation history.
	RecordSuggestions bool
	// PublishTimeout bounds each event publication. Zero means
	// DefaultPublishTimeout.
	PublishTimeout time.Duration
}

const DefaultPublishTimeout = 500 * time.Millisecond

type Pipeline struct {
	profiles  Profiles
	scorer    *sentiment.Scorer
	engine    *recommend.Engine
	publisher events.Publisher
	opts      Options
	logger    zerolog.Logger
}

func New(profiles Profiles, scorer *sentiment.Scorer, engine *recommend.Engine, publisher events.Publisher, opts Options, logger zerolog.Logger) *Pipeline {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	return &Pipeline{
		profiles:  profiles,
		scorer:    scorer,
		engine:    engine,
		publisher: publisher,
		opts:      opts,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// Handle runs the interaction pipeline for what a customer said.
func (p *Pipeline) Handle(ctx context.Context, name, text string) models.InteractionResult {
	log := p.logger.With().Str("customer", name).Logger()
	log.Info().Msg("handling interaction")

	profile, known := p.resolve(ctx, name)
	score, emotion := p.scorer.Assess(text)
	log.Debug().Int("state_of_mind", score).Str("emotion", string(emotion)).Msg("scored utterance")

	genCtx, cancel := p.generationContext(ctx)
	suggestions := p.engine.Recommend(genCtx, profile.Interests, profile.PastPurchases, score)
	cancel()

	result := models.InteractionResult{
		Customer:    name,
		StateOfMind: score,
		Emotion:     emotion,
		Suggestions: suggestions,
		QuickReply:  QuickReply(text),
	}

	if p.opts.RecordSuggestions && known && !recommend.IsFailure(suggestions) {
		if err := p.profiles.AppendRecommendation(ctx, name, suggestions); err != nil {
			log.Error().Err(err).Msg("failed to record suggestions")
		}
	}

	event := events.NewEvent(events.KindInteraction, name, text, suggestions)
	event.StateOfMind = score
	event.Emotion = emotion
	p.publish(ctx, event)

	return result
}

// HandleObjection drafts a reply to a customer objection.
func (p *Pipeline) HandleObjection(ctx context.Context, name, objection string) string {
	p.logger.Info().Str("customer", name).Msg("handling objection")

	genCtx, cancel := p.generationContext(ctx)
	response := p.engine.RespondToObjection(genCtx, objection)
	cancel()

	p.publish(ctx, events.NewEvent(events.KindObjection, name, objection, response))
	return response
}

// SummarizeCall scores the transcript and drafts a call summary.
func (p *Pipeline) SummarizeCall(ctx context.Context, name, transcript string) models.CallSummary {
	p.logger.Info().Str("customer", name).Msg("summarizing call")

	score, emotion := p.scorer.Assess(transcript)

	genCtx, cancel := p.generationContext(ctx)
	summary := p.engine.SummarizeCall(genCtx, name, transcript, score)
	cancel()

	event := events.NewEvent(events.KindSummary, name, transcript, summary)
	event.StateOfMind = score
	event.Emotion = emotion
	p.publish(ctx, event)

	return models.CallSummary{
		Customer:    name,
		StateOfMind: score,
		Emotion:     emotion,
		Summary:     summary,
	}
}

// resolve looks the customer up. Unknown customers and unreadable stores
// both yield an empty profile.
func (p *Pipeline) resolve(ctx context.Context, name string) (models.CustomerProfile, bool) {
	profile, ok, err := p.profiles.Get(ctx, name)
	if err != nil {
		p.logger.Warn().Err(err).Str("customer", name).Msg("profile store unavailable, continuing without profile")
		return models.CustomerProfile{Name: name}.Clone(), false
	}
	if !ok {
		p.logger.Info().Str("customer", name).Msg("unknown customer, continuing without profile")
	}
	return profile, ok
}

func (p *Pipeline) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opts.GenerationTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.opts.GenerationTimeout)
}

// publish outlives a canceled request but never holds it up for more than
// PublishTimeout.
func (p *Pipeline) publish(ctx context.Context, event events.InteractionEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.PublishTimeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish interaction event")
	}
}
