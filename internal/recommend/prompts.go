package recommend

const (
	recommendPrompt = "Suggest 3 personalized products for someone interested in %s. " +
		"The customer has an emotional satisfaction score of %d/10."
	purchasesPrompt = " They have previously purchased: %s."
	objectionPrompt = "A customer has an objection: %s. How should a salesperson respond professionally?"
	summaryPrompt   = "A customer named %s said: '%s'. The customer's emotional satisfaction score is %d/10. " +
		"Generate a professional sales call summary, highlighting concerns and providing a persuasive response."
)
