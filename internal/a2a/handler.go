package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssistantPath is where the JSON-RPC endpoint is mounted.
const AssistantPath = "/a2a/assistant"

// Assistant runs the interaction pipeline.
type Assistant interface {
	Handle(ctx context.Context, name, text string) models.InteractionResult
	HandleObjection(ctx context.Context, name, objection string) string
	SummarizeCall(ctx context.Context, name, transcript string) models.CallSummary
}

type A2AHandler struct {
	assistant Assistant
	logger    zerolog.Logger
}

func NewA2AHandler(assistant Assistant, logger zerolog.Logger) *A2AHandler {
	return &A2AHandler{
		assistant: assistant,
		logger:    logger.With().Str("component", "a2a").Logger(),
	}
}

// RegisterRoutes mounts the agent card and the JSON-RPC endpoint.
func (h *A2AHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/.well-known/agent.json", h.ServeAgentCard)
	router.POST(AssistantPath, h.HandleAssistant)
}

// request is what the assistant needs out of an A2A message.
type request struct {
	Text     string
	Customer string
	Mode     string
}

// HandleAssistant processes A2A messages
func (h *A2AHandler) HandleAssistant(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read request body")
		h.sendErrorResponse(c, "", "Failed to read request body", CodeParseError)
		return
	}
	h.logger.Debug().Bytes("body", bodyBytes).Msg("raw request body")

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var rpcReq JSONRPCRequest
	if err := c.ShouldBindJSON(&rpcReq); err != nil || rpcReq.Method == "" {
		h.logger.Warn().Err(err).Msg("not a JSON-RPC request, trying direct message")
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	h.logger.Info().Str("id", rpcReq.ID).Str("method", rpcReq.Method).Msg("rpc request")

	if rpcReq.JSONRPC != "2.0" {
		h.logger.Warn().Str("jsonrpc", rpcReq.JSONRPC).Msg("invalid JSON-RPC version")
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.logger.Warn().Str("method", rpcReq.Method).Msg("unknown method")
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

// handleDirectMessage handles a bare MessageParams body without the
// JSON-RPC envelope.
func (h *A2AHandler) handleDirectMessage(c *gin.Context, bodyBytes []byte) {
	var msgParams MessageParams
	if err := json.Unmarshal(bodyBytes, &msgParams); err != nil || len(msgParams.Message.Parts) == 0 {
		h.logger.Warn().Err(err).Msg("failed to parse as direct message")
		h.sendErrorResponse(c, "", "Invalid request format", CodeParseError)
		return
	}

	const taskID = "direct-message"
	h.sendSuccessResponse(c, taskID, h.run(c.Request.Context(), taskID, msgParams.Message))
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	paramsJSON, err := json.Marshal(rpcReq.Params)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal params")
		h.sendErrorResponse(c, rpcReq.ID, "Failed to parse parameters", CodeInvalidParams)
		return
	}

	var msgParams MessageParams
	if err := json.Unmarshal(paramsJSON, &msgParams); err != nil {
		h.logger.Warn().Err(err).Msg("failed to unmarshal params")
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	h.sendSuccessResponse(c, rpcReq.ID, h.run(c.Request.Context(), rpcReq.ID, msgParams.Message))
}

// run dispatches one message to the pipeline entry point its mode names.
func (h *A2AHandler) run(ctx context.Context, taskID string, msg A2AMessage) TaskResult {
	req := h.extractRequest(msg)
	log := h.logger.With().Str("task_id", taskID).Str("customer", req.Customer).Str("mode", req.Mode).Logger()

	if req.Text == "" {
		log.Warn().Msg("no text found in message")
		return h.createErrorTaskResult(taskID, "Please provide what the customer said.")
	}

	switch req.Mode {
	case ModeObjection:
		response := h.assistant.HandleObjection(ctx, req.Customer, req.Text)
		return h.createSuccessTaskResult(taskID, "Objection Response", formatObjection(req.Customer, req.Text, response))
	case ModeSummary:
		if req.Customer == "" {
			return h.createErrorTaskResult(taskID, customerGuidance)
		}
		summary := h.assistant.SummarizeCall(ctx, req.Customer, req.Text)
		return h.createSuccessTaskResult(taskID, "Call Summary", formatSummary(summary))
	case ModeQuery:
		if req.Customer == "" {
			return h.createErrorTaskResult(taskID, customerGuidance)
		}
		result := h.assistant.Handle(ctx, req.Customer, req.Text)
		log.Info().Int("state_of_mind", result.StateOfMind).Msg("interaction handled")
		return h.createSuccessTaskResult(taskID, "Sales Suggestions", formatInteraction(result))
	default:
		return h.createErrorTaskResult(taskID,
			fmt.Sprintf("Unknown mode %q. Use %q, %q or %q.", req.Mode, ModeQuery, ModeObjection, ModeSummary))
	}
}

const customerGuidance = `Please name the customer in a data part, for example {"customer": "Alice"}.`

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	c.JSON(http.StatusOK, NewAgentCard(scheme+"://"+c.Request.Host))
}

// extractRequest collects text parts into the utterance and reads the
// customer and mode from data parts. A data part holding a message
// history contributes its most recent text entry.
func (h *A2AHandler) extractRequest(msg A2AMessage) request {
	req := request{Mode: ModeQuery}
	var texts []string

	for _, part := range msg.Parts {
		switch part.Kind {
		case "text":
			if text := cleanText(part.Text); text != "" {
				texts = append(texts, text)
			}
		case "data":
			switch data := part.Data.(type) {
			case map[string]interface{}:
				if customer, ok := data["customer"].(string); ok {
					req.Customer = strings.TrimSpace(customer)
				}
				if mode, ok := data["mode"].(string); ok && strings.TrimSpace(mode) != "" {
					req.Mode = strings.ToLower(strings.TrimSpace(mode))
				}
			case []interface{}:
				if text := lastHistoryText(data); text != "" {
					texts = append(texts, text)
				}
			default:
				h.logger.Warn().Type("data", part.Data).Msg("ignoring unsupported data part")
			}
		}
	}

	req.Text = strings.TrimSpace(strings.Join(texts, " "))
	return req
}

func lastHistoryText(history []interface{}) string {
	for i := len(history) - 1; i >= 0; i-- {
		item, ok := history[i].(map[string]interface{})
		if !ok {
			continue
		}
		if kind, _ := item["kind"].(string); kind != "text" {
			continue
		}
		text, _ := item["text"].(string)
		if text = cleanText(text); text != "" {
			return text
		}
	}
	return ""
}

// cleanText strips the paragraph tags some clients wrap messages in.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "<p>", "")
	text = strings.ReplaceAll(text, "</p>", "")
	return strings.TrimSpace(text)
}

func (h *A2AHandler) createSuccessTaskResult(taskID, artifactName, responseText string) TaskResult {
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(responseText)},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.New().String(),
				Name:       artifactName,
				Parts:      []MessagePart{TextPart(responseText)},
			},
		},
	}
}

func (h *A2AHandler) createErrorTaskResult(taskID string, errorMsg string) TaskResult {
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(errorMsg)},
			},
		},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id string, result TaskResult) {
	h.logger.Debug().Str("id", id).Str("state", result.Status.State).Msg("sending response")
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (h *A2AHandler) sendErrorResponse(c *gin.Context, id string, message string, code int) {
	h.logger.Debug().Str("id", id).Int("code", code).Str("message", message).Msg("sending rpc error")
	// JSON-RPC errors are sent with 200 OK
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}
