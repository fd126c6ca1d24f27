package a2a

import (
	"fmt"
	"strings"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
)

func formatInteraction(result models.InteractionResult) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("# Sales Assist for: %s\n\n", result.Customer))
	builder.WriteString(fmt.Sprintf("**State of Mind:** %d/10 (%s)\n\n", result.StateOfMind, result.Emotion))
	if result.QuickReply != "" {
		builder.WriteString(fmt.Sprintf("**Quick Reply:** %s\n\n", result.QuickReply))
	}
	builder.WriteString("**Suggestions:**\n")
	builder.WriteString(strings.TrimSpace(result.Suggestions))
	builder.WriteString("\n")
	return builder.String()
}

func formatObjection(customer, objection, response string) string {
	var builder strings.Builder
	builder.WriteString("# Objection Response")
	if customer != "" {
		builder.WriteString(fmt.Sprintf(" for: %s", customer))
	}
	builder.WriteString("\n\n")
	builder.WriteString(fmt.Sprintf("**Objection:** %s\n\n", objection))
	builder.WriteString("**Suggested Response:**\n")
	builder.WriteString(strings.TrimSpace(response))
	builder.WriteString("\n")
	return builder.String()
}

func formatSummary(summary models.CallSummary) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("# Call Summary for: %s\n\n", summary.Customer))
	builder.WriteString(fmt.Sprintf("**State of Mind:** %d/10 (%s)\n\n", summary.StateOfMind, summary.Emotion))
	builder.WriteString(strings.TrimSpace(summary.Summary))
	builder.WriteString("\n")
	return builder.String()
}
