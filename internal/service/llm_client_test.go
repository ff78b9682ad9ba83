package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evalai/internal/config"
)

func testClient(baseURL string) (*GroqClient, *[]time.Duration) {
	var sleeps []time.Duration
	c := &GroqClient{
		cfg: &config.AIConfig{
			APIKey:  "test-key",
			BaseURL: baseURL,
			Models:  config.LLMModels{Generator: "test-model"},
		},
		httpClient: &http.Client{Timeout: 5 * time.Second},
		maxRetries: 3,
		sleep:      func(d time.Duration) { sleeps = append(sleeps, d) },
	}
	return c, &sleeps
}

const okBody = `{"choices":[{"message":{"content":"Q1. A question?\nAnswer: Yes."}}]}`

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(okBody))
	}))
	defer srv.Close()

	c, sleeps := testClient(srv.URL)
	got, err := c.Complete(context.Background(), "test-model", "prompt", 0.3, 2000)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.HasPrefix(got, "Q1.") {
		t.Errorf("content = %q", got)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v on success", *sleeps)
	}
}

func TestCompleteRateLimitRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(okBody))
	}))
	defer srv.Close()

	c, sleeps := testClient(srv.URL)
	if _, err := c.Complete(context.Background(), "test-model", "prompt", 0.3, 2000); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*sleeps) != len(want) || (*sleeps)[0] != want[0] || (*sleeps)[1] != want[1] {
		t.Errorf("backoffs = %v, want %v", *sleeps, want)
	}
}

func TestCompleteAuthFailureNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, sleeps := testClient(srv.URL)
	_, err := c.Complete(context.Background(), "test-model", "prompt", 0.3, 2000)
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Kind != ErrAuthFailed {
		t.Errorf("err = %v, want auth_failed APIError", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", calls)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v on auth failure", *sleeps)
	}
}

func TestCompleteTransientExhaustsRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, sleeps := testClient(srv.URL)
	_, err := c.Complete(context.Background(), "test-model", "prompt", 0.3, 2000)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "max retries exceeded") {
		t.Errorf("err = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*sleeps) != len(want) || (*sleeps)[0] != want[0] || (*sleeps)[1] != want[1] {
		t.Errorf("backoffs = %v, want %v", *sleeps, want)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, _ := testClient(srv.URL)
	if _, err := c.Complete(context.Background(), "test-model", "prompt", 0.3, 2000); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
