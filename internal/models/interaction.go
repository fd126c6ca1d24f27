package models

// Emotion is the discrete category derived from a state-of-mind score.
type Emotion string

const (
	EmotionHappy        Emotion = "happy"
	EmotionNeutral      Emotion = "neutral"
	EmotionDisappointed Emotion = "disappointed"
)

// Score bounds for the state of mind.
const (
	MinStateOfMind = 1
	MaxStateOfMind = 10
)

// InteractionResult is the transient outcome of one pipeline run.
type InteractionResult struct {
	Customer    string  `json:"customer"`
	StateOfMind int     `json:"state_of_mind"`
	Emotion     Emotion `json:"emotion"`
	Suggestions string  `json:"suggestions"`
	QuickReply  string  `json:"quick_reply,omitempty"`
}

// CallSummary is the outcome of the call-summary entry point.
type CallSummary struct {
	Customer    string  `json:"customer"`
	StateOfMind int     `json:"state_of_mind"`
	Emotion     Emotion `json:"emotion"`
	Summary     string  `json:"summary"`
}
