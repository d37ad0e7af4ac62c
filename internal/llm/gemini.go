package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient with the Google Gen AI SDK.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates an LLMClient backed by the Gemini API. The
// endpoint, when set, replaces the public base URL.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{},
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	temp, maxTok := c.cfg.sampling(req)

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temp)),
	}
	if maxTok > 0 {
		config.MaxOutputTokens = int32(maxTok)
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), config)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		finalErr := c.classify(ctx, err)
		c.observer.OnCallComplete(LLMCallEvent{
			Task:      req.Task,
			Model:     c.cfg.Model,
			LatencyMs: latency,
			Success:   false,
			ErrorCode: errorCode(finalErr),
		})
		return nil, finalErr
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		c.observer.OnCallComplete(LLMCallEvent{
			Task:      req.Task,
			Model:     c.cfg.Model,
			LatencyMs: latency,
			Success:   false,
			ErrorCode: errorCode(ErrInvalidOutput),
		})
		return nil, fmt.Errorf("%w: empty response", ErrInvalidOutput)
	}

	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   true,
	})
	model := resp.ModelVersion
	if model == "" {
		model = c.cfg.Model
	}
	return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
}

func (c *geminiClient) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrTimeout
	}
	if isConnectionError(err) {
		return ErrUnavailable
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Message)
	}
	return fmt.Errorf("gemini generate: %w", err)
}

// Available reports whether a key is configured. The Gemini API has no
// cheap unauthenticated health probe.
func (c *geminiClient) Available(context.Context) bool {
	return c.cfg.APIKey != ""
}

// NewClient builds the LLMClient selected by cfg.Provider.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, cfg, observer)
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
