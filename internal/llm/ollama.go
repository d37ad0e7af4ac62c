package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// retryDelay is the pause before the first retry; it doubles per attempt.
var retryDelay = 200 * time.Millisecond

type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates an LLMClient for a local Ollama server. Requests
// go to /api/chat with the system prompt as its own message.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
	}
	return &ollamaClient{
		cfg:      cfg,
		http:     &http.Client{Transport: transport},
		observer: observer,
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
}

// statusError is a non-200 reply. Only 5xx and 429 are retried.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("ollama returned status %d: %s", e.code, e.body)
}

func (e *statusError) transient() bool {
	return e.code >= 500 || e.code == http.StatusTooManyRequests
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TaskTimeout(req.Task))*time.Millisecond)
	defer cancel()

	temperature, maxTokens := c.cfg.sampling(req)
	body := ollamaChatRequest{
		Model:   c.cfg.Model,
		Options: ollamaOptions{Temperature: temperature, NumPredict: maxTokens},
	}
	if req.SystemPrompt != "" {
		body.Messages = append(body.Messages, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	}
	body.Messages = append(body.Messages, ollamaMessage{Role: "user", Content: req.UserPrompt})
	if req.JSON {
		body.Format = "json"
	}

	resp, err := c.withRetry(ctx, body)
	event := LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	}
	c.observer.OnCallComplete(event)
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Text: resp.Message.Content, Model: resp.Model, LatencyMs: event.LatencyMs}, nil
}

// withRetry runs the request up to 1+MaxRetries times and maps the final
// failure onto the package sentinels.
func (c *ollamaClient) withRetry(ctx context.Context, body ollamaChatRequest) (*ollamaChatResponse, error) {
	var lastErr error
	delay := retryDelay
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ErrTimeout
			case <-time.After(delay):
			}
			delay *= 2
		}

		resp, err := c.post(ctx, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var se *statusError
		if ctx.Err() != nil || (errors.As(err, &se) && !se.transient()) {
			break
		}
	}

	switch {
	case ctx.Err() != nil:
		return nil, ErrTimeout
	case isConnectionError(lastErr):
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	default:
		return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}
}

func (c *ollamaClient) post(ctx context.Context, body ollamaChatRequest) (*ollamaChatResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(raw))}
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}

// Available probes /api/tags with a short deadline.
func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
