package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"tripcraft/planner"
)

// ─── OpenAI Client ────────────────────────────────────────────────────────────

// AIClient talks to the OpenAI chat completions API. It implements
// planner.Upstream; deadlines and retries live in the planner, this client
// makes exactly one attempt per call.
type AIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var aiClient *AIClient

func InitAI() {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	aiClient = &AIClient{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			// Outer safety net; the planner enforces the real per-attempt deadlines.
			Timeout: 60 * time.Second,
		},
	}

	if aiClient.apiKey != "" {
		log.Println("✅ AI (OpenAI) initialized with model:", model)
	} else {
		log.Println("⚠️  OPENAI_API_KEY not set — AI plans will use fallback content")
	}
}

func GetAIClient() *AIClient {
	return aiClient
}

// Ready reports the pre-flight credential check the planner runs before
// spending any attempt window.
func (c *AIClient) Ready() error {
	if c.apiKey == "" {
		return planner.ErrNoCredentials
	}
	return nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion request. The response is free-form
// text; extracting and validating JSON out of it is the planner's job.
func (c *AIClient) Complete(ctx context.Context, req planner.Request) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a travel planning assistant. When asked for JSON, respond with a single JSON object and no other text."},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("openai rate limit exceeded (429): %s", string(respBody))
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("openai rejected the api key (401)")
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("openai error (%d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse openai response: %v", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from openai")
	}

	return chatResp.Choices[0].Message.Content, nil
}
