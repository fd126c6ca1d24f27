package sentiment

import (
	"math"
	"testing"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/stretchr/testify/assert"
)

// stubPolarizer returns a fixed polarity and counts calls.
type stubPolarizer struct {
	polarity float64
	calls    int
}

func (s *stubPolarizer) Polarity(string) float64 {
	s.calls++
	return s.polarity
}

func TestFromPolarity(t *testing.T) {
	tests := []struct {
		polarity float64
		want     int
	}{
		{-1, 1},
		{-0.5, 3},
		{0, 5},
		{0.2, 6},
		{0.8, 9},
		{1, 10},
		{-3, 1},
		{7, 10},
		{math.NaN(), 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromPolarity(tt.polarity), "polarity %v", tt.polarity)
	}
}

func TestFromPolarityIsMonotonicAndBounded(t *testing.T) {
	prev := FromPolarity(-1.5)
	for p := -1.5; p <= 1.5; p += 0.01 {
		score := FromPolarity(p)
		assert.GreaterOrEqual(t, score, prev, "polarity %v", p)
		assert.GreaterOrEqual(t, score, models.MinStateOfMind)
		assert.LessOrEqual(t, score, models.MaxStateOfMind)
		prev = score
	}
}

func TestClassifyBoundaries(t *testing.T) {
	assert.Equal(t, models.EmotionNeutral, Classify(5))
	assert.Equal(t, models.EmotionHappy, Classify(6))
	assert.Equal(t, models.EmotionDisappointed, Classify(4))
	assert.Equal(t, models.EmotionHappy, Classify(10))
	assert.Equal(t, models.EmotionDisappointed, Classify(1))
}

func TestScoreBlankTextIsNeutral(t *testing.T) {
	stub := &stubPolarizer{polarity: 0.9}
	scorer := NewScorer(stub)

	for _, text := range []string{"", "   ", "\n\t"} {
		score, emotion := scorer.Assess(text)
		assert.Equal(t, 5, score)
		assert.Equal(t, models.EmotionNeutral, emotion)
	}
	assert.Zero(t, stub.calls)
}

func TestScoreUsesPolarizer(t *testing.T) {
	scorer := NewScorer(&stubPolarizer{polarity: -0.9})

	score, emotion := scorer.Assess("this is terrible")

	assert.Equal(t, 1, score)
	assert.Equal(t, models.EmotionDisappointed, emotion)
}

func TestVaderPolarizer(t *testing.T) {
	scorer := NewScorer(NewVaderPolarizer())

	happy, emotion := scorer.Assess("I love this, thank you!")
	assert.Greater(t, happy, 5)
	assert.Equal(t, models.EmotionHappy, emotion)

	angry, emotion := scorer.Assess("This is awful and I hate it. Terrible service!")
	assert.Less(t, angry, 5)
	assert.Equal(t, models.EmotionDisappointed, emotion)
}
