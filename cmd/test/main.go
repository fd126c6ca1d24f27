package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the assistant")
	testType := flag.String("test", "all", "Test type: all, health, agent-card, customer, interaction, a2a, custom")
	customer := flag.String("customer", "Smoke Test Customer", "Customer name used by the tests")
	text := flag.String("text", "", "What the customer said (for custom test)")
	flag.Parse()

	client := NewTestClient(*baseURL)

	printHeader("Sales Call Assistant - Smoke Tests")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	ok := true
	switch *testType {
	case "all":
		client.runAllTests(*customer)
	case "health":
		ok = client.testHealthCheck()
	case "agent-card":
		ok = client.testAgentCard()
	case "customer":
		ok = client.testAddCustomer(*customer)
	case "interaction":
		ok = client.testInteraction(*customer, "I love this, thank you! Can I see a demo?")
	case "a2a":
		ok = client.testA2A(*customer, "What is the pricing for the pro plan?")
	case "custom":
		if *text == "" {
			printError("Text is required for custom test. Use -text flag")
			os.Exit(1)
		}
		ok = client.testInteraction(*customer, *text)
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, agent-card, customer, interaction, a2a, custom")
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests(customer string) {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"Add Customer", func() bool { return tc.testAddCustomer(customer) }},
		{"Interaction", func() bool { return tc.testInteraction(customer, "I love this, thank you! Can I see a demo?") }},
		{"A2A Message", func() bool { return tc.testA2A(customer, "What is the pricing for the pro plan?") }},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	status, body, err := tc.do(http.MethodGet, "/health", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	status, body, err := tc.do(http.MethodGet, "/.well-known/agent.json", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var agentCard map[string]interface{}
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	for _, field := range []string{"name", "description", "url", "version", "capabilities", "skills"} {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (tc *TestClient) testAddCustomer(customer string) bool {
	printTestHeader("Testing Customer Admin Endpoints")

	status, body, err := tc.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name":           customer,
		"past_purchases": []string{"Starter Kit"},
		"interests":      []string{"AI", "Robotics"},
	})
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusCreated && status != http.StatusConflict {
		printError(fmt.Sprintf("Expected status 201 or 409, got %d", status))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}
	printJSON(body)

	path := "/api/customers/" + url.PathEscape(customer)
	status, _, err = tc.do(http.MethodPost, path+"/interests", map[string]string{"interest": "Drones"})
	if err != nil || status != http.StatusOK {
		printError(fmt.Sprintf("Append interest failed: status=%d err=%v", status, err))
		return false
	}

	status, body, err = tc.do(http.MethodGet, path, nil)
	if err != nil || status != http.StatusOK {
		printError(fmt.Sprintf("Fetch customer failed: status=%d err=%v", status, err))
		return false
	}

	printSuccess("Customer stored and updated")
	printJSON(body)
	return true
}

func (tc *TestClient) testInteraction(customer, text string) bool {
	printTestHeader("Testing Interaction Pipeline")
	fmt.Printf("%sCustomer:%s %s\n%sText:%s %s\n\n", colorCyan, colorReset, customer, colorCyan, colorReset, text)

	status, body, err := tc.do(http.MethodPost, "/api/interactions", map[string]string{
		"customer": customer,
		"text":     text,
	})
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var result struct {
		StateOfMind int    `json:"state_of_mind"`
		Emotion     string `json:"emotion"`
		Suggestions string `json:"suggestions"`
		QuickReply  string `json:"quick_reply"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if result.StateOfMind < 1 || result.StateOfMind > 10 {
		printError(fmt.Sprintf("State of mind out of range: %d", result.StateOfMind))
		return false
	}

	printSuccess("Interaction completed")
	fmt.Printf("\n%sState of Mind:%s %d/10 (%s)\n", colorGreen, colorReset, result.StateOfMind, result.Emotion)
	fmt.Printf("%sQuick Reply:%s %s\n", colorGreen, colorReset, result.QuickReply)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println(result.Suggestions)
	fmt.Println(strings.Repeat("=", 80))

	if strings.HasPrefix(result.Suggestions, "⚠️ API Error: ") {
		fmt.Printf("%sGeneration failed upstream; pipeline degraded as expected.%s\n", colorYellow, colorReset)
	}
	return true
}

func (tc *TestClient) testA2A(customer, text string) bool {
	printTestHeader("Testing A2A message/send")

	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("test-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]interface{}{
			"message": map[string]interface{}{
				"kind": "message",
				"role": "user",
				"parts": []map[string]interface{}{
					{"kind": "text", "text": text},
					{"kind": "data", "data": map[string]string{"customer": customer}},
				},
			},
			"configuration": map[string]interface{}{
				"blocking":            true,
				"acceptedOutputModes": []string{"text"},
			},
		},
	}

	status, body, err := tc.do(http.MethodPost, "/a2a/assistant", request)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}

	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if errObj, ok := response["error"]; ok {
		printError("Request returned an error")
		errJSON, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Println(string(errJSON))
		return false
	}

	result, ok := response["result"].(map[string]interface{})
	if !ok {
		printError("Invalid result format")
		return false
	}
	statusObj, _ := result["status"].(map[string]interface{})
	if state, _ := statusObj["state"].(string); state != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", state))
		return false
	}

	printSuccess("A2A task completed")
	if artifacts, ok := result["artifacts"].([]interface{}); ok && len(artifacts) > 0 {
		fmt.Printf("\n%sArtifacts:%s\n", colorPurple, colorReset)
		artifactsJSON, _ := json.MarshalIndent(artifacts, "", "  ")
		fmt.Println(string(artifactsJSON))
	}
	return true
}

func (tc *TestClient) do(method, path string, payload interface{}) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tc.baseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	fmt.Printf("%s %s\n", method, req.URL)

	resp, err := tc.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
