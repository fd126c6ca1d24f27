package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
)

var (
	// ErrUnintelligible means audio was captured but no speech was recognized.
	ErrUnintelligible = errors.New("speech was not intelligible")
	// ErrTranscriptionUnavailable means the recognition service failed.
	ErrTranscriptionUnavailable = errors.New("speech recognition service unavailable")
	// ErrEmptyTranscript means the transcriber returned no text.
	ErrEmptyTranscript = errors.New("empty transcript")
)

// Transcriber captures one utterance and returns its text. Failures other
// than the sentinels above are treated as capture-device errors.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}

// VoiceResult is the outcome of a voice interaction. Exactly one of Notice
// and Result is set.
type VoiceResult struct {
	Transcript string                    `json:"transcript,omitempty"`
	Notice     string                    `json:"notice,omitempty"`
	Result     *models.InteractionResult `json:"result,omitempty"`
}

// Listen captures a trimmed transcript.
func Listen(ctx context.Context, t Transcriber) (string, error) {
	text, err := t.Transcribe(ctx)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

// Notice turns a transcription failure into text fit to show the
// salesperson.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrEmptyTranscript):
		return "Please speak loudly."
	case errors.Is(err, ErrUnintelligible):
		return "Sorry, I could not understand the audio."
	case errors.Is(err, ErrTranscriptionUnavailable):
		return "Sorry, there was an issue with the speech recognition service."
	default:
		return fmt.Sprintf("Error accessing the microphone: %v", err)
	}
}

// HandleVoice transcribes one utterance and runs it through Handle.
// Transcription failures become a notice instead of an interaction.
func (p *Pipeline) HandleVoice(ctx context.Context, name string, t Transcriber) VoiceResult {
	text, err := Listen(ctx, t)
	if err != nil {
		p.logger.Warn().Err(err).Str("customer", name).Msg("transcription failed")
		return VoiceResult{Notice: Notice(err)}
	}

	result := p.Handle(ctx, name, text)
	return VoiceResult{Transcript: text, Result: &result}
}
