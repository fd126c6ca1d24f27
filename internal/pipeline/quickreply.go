package pipeline

import "strings"

const defaultQuickReply = "I'm sorry, I didn't understand your query. How can I assist you further?"

// quickReplies is checked in order; the first keyword found wins.
var quickReplies = []struct {
	keyword string
	reply   string
}{
	{"demo", "Sure! Let me schedule a product demo for you. Please provide your availability."},
	{"pricing", "Here are our customized pricing plans: Basic ($50/month), Pro ($100/month), Enterprise ($200/month)."},
	{"support", "Please contact our technical support team at support@example.com or call +1-800-123-4567."},
	{"interest", "Based on your interests, I recommend checking out our latest AI tools and solutions."},
	{"purchase", "Thank you for your purchase! Let me know if you need assistance with setup or usage."},
	{"hello", "Hello! How can I assist you today?"},
	{"bye", "Goodbye! Have a great day!"},
}

// QuickReply returns a canned reply for the first keyword contained in
// text, ignoring case.
func QuickReply(text string) string {
	lower := strings.ToLower(text)
	for _, qr := range quickReplies {
		if strings.Contains(lower, qr.keyword) {
			return qr.reply
		}
	}
	return defaultQuickReply
}
