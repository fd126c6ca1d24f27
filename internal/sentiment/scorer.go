// Package sentiment turns an utterance into a 1-10 state-of-mind score and
// an emotion category.
package sentiment

import (
	"math"
	"strings"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/jonreiter/govader"
)

// Polarizer produces a compound polarity in [-1, 1].
type Polarizer interface {
	Polarity(text string) float64
}

// VaderPolarizer uses the VADER lexicon compound score.
type VaderPolarizer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderPolarizer() *VaderPolarizer {
	return &VaderPolarizer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderPolarizer) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

// Scorer maps text onto the state-of-mind scale.
type Scorer struct {
	polarizer Polarizer
}

func NewScorer(p Polarizer) *Scorer {
	return &Scorer{polarizer: p}
}

// Score returns the state of mind for text. Blank text is neutral.
func (s *Scorer) Score(text string) int {
	if strings.TrimSpace(text) == "" {
		return FromPolarity(0)
	}
	return FromPolarity(s.polarizer.Polarity(text))
}

// Assess scores text and classifies the result.
func (s *Scorer) Assess(text string) (int, models.Emotion) {
	score := s.Score(text)
	return score, Classify(score)
}

// FromPolarity maps [-1, 1] onto [1, 10] as (p+1)*4.5+1, truncated so that
// a polarity of 0 lands on the neutral 5.
func FromPolarity(p float64) int {
	if math.IsNaN(p) {
		p = 0
	}
	p = math.Max(-1, math.Min(1, p))
	score := int((p+1)*4.5 + 1)
	return max(models.MinStateOfMind, min(models.MaxStateOfMind, score))
}

// Classify buckets a score: above 5 is happy, 5 is neutral, below is
// disappointed.
func Classify(score int) models.Emotion {
	switch {
	case score > 5:
		return models.EmotionHappy
	case score == 5:
		return models.EmotionNeutral
	default:
		return models.EmotionDisappointed
	}
}
