package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"evalai/internal/config"
)

// ErrorKind classifies an LLM transport failure
type ErrorKind string

const (
	ErrRateLimited ErrorKind = "rate_limited"
	ErrAuthFailed  ErrorKind = "auth_failed"
	ErrTransient   ErrorKind = "transient"
)

// APIError is a classified LLM service error
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm %s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

// ChatClient issues a single-prompt completion request. Implementations own
// retry behavior; callers see only the final outcome.
type ChatClient interface {
	Complete(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error)
}

// GroqClient calls the Groq OpenAI-compatible chat-completions API
type GroqClient struct {
	cfg        *config.AIConfig
	httpClient *http.Client
	maxRetries int
	sleep      func(time.Duration) // replaced in tests
}

// NewGroqClient creates an LLM client from config
func NewGroqClient(cfg *config.AIConfig) *GroqClient {
	if !cfg.IsEnabled() {
		log.Println("Warning: GROQ_API_KEY not set")
	}
	return &GroqClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		maxRetries: cfg.MaxRetries,
		sleep:      time.Sleep,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
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
}

// Complete issues the prompt with retry. Rate limits back off 2s, 4s, 8s;
// other transient failures back off 1s, 2s, 4s; auth failures never retry.
func (c *GroqClient) Complete(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		content, err := c.doOnce(ctx, reqBody)
		if err == nil {
			return content, nil
		}

		apiErr, ok := err.(*APIError)
		if ok && apiErr.Kind == ErrAuthFailed {
			log.Printf("[LLM Client] Authentication error: %s", apiErr.Message)
			return "", err
		}
		lastErr = err

		if attempt == c.maxRetries-1 {
			break
		}

		var backoff time.Duration
		if ok && apiErr.Kind == ErrRateLimited {
			backoff = time.Duration(math.Pow(2, float64(attempt))*2) * time.Second
			log.Printf("[LLM Client] Rate limit hit, waiting %v before retry %d/%d", backoff, attempt+1, c.maxRetries)
		} else {
			backoff = time.Duration(math.Pow(2, float64(attempt))) * time.Second
			log.Printf("[LLM Client] API error: %v, retrying in %v", err, backoff)
		}
		c.sleep(backoff)
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *GroqClient) doOnce(ctx context.Context, reqBody []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", &APIError{Kind: ErrTransient, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Kind: ErrTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{Kind: ErrTransient, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &APIError{Kind: ErrRateLimited, StatusCode: resp.StatusCode, Message: string(body)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &APIError{Kind: ErrAuthFailed, StatusCode: resp.StatusCode, Message: string(body)}
	case resp.StatusCode >= 400:
		return "", &APIError{Kind: ErrTransient, StatusCode: resp.StatusCode, Message: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &APIError{Kind: ErrTransient, StatusCode: resp.StatusCode, Message: "failed to parse response: " + err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return "", &APIError{Kind: ErrTransient, StatusCode: resp.StatusCode, Message: "empty response"}
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
