package a2a

type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	URL                string       `json:"url"`
	Version            string       `json:"version"`
	Capabilities       Capabilities `json:"capabilities"`
	DefaultInputModes  []string     `json:"defaultInputModes"`
	DefaultOutputModes []string     `json:"defaultOutputModes"`
	Skills             []Skill      `json:"skills"`
}

type Capabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples"`
}

// NewAgentCard describes the assistant served at baseURL.
func NewAgentCard(baseURL string) AgentCard {
	return AgentCard{
		Name:        "Sales Call Assistant",
		Description: "Scores a customer's state of mind during a sales call and drafts product suggestions, objection responses and call summaries.",
		URL:         baseURL + AssistantPath,
		Version:     "1.0.0",
		Capabilities:       Capabilities{},
		DefaultInputModes:  []string{"text/plain", "application/json"},
		DefaultOutputModes: []string{"text/markdown"},
		Skills: []Skill{
			{
				ID:          "sales-suggestions",
				Name:        "Sales suggestions",
				Description: "Given what a known customer said, returns their state of mind and three personalized product suggestions.",
				Tags:        []string{"sales", "sentiment", "recommendations"},
				Examples:    []string{`I love the new robot kit, what else do you have? {"customer": "Alice"}`},
			},
			{
				ID:          "objection-response",
				Name:        "Objection response",
				Description: "Drafts a professional reply to a customer objection.",
				Tags:        []string{"sales", "objections"},
				Examples:    []string{`It is too expensive for us. {"mode": "objection"}`},
			},
			{
				ID:          "call-summary",
				Name:        "Call summary",
				Description: "Summarizes a call transcript, highlighting concerns and a persuasive response.",
				Tags:        []string{"sales", "summary"},
				Examples:    []string{`I need a demo before we decide. {"customer": "Bob", "mode": "summary"}`},
			},
		},
	}
}
