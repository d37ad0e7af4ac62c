package llm

import (
	"context"
	"errors"
	"net"
)

// GenerateRequest is one prompt sent to a model backend.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	// Temperature and MaxTokens override the task defaults when set.
	Temperature *float64
	MaxTokens   *int
	// JSON asks the backend to constrain its reply to a JSON object.
	JSON bool
}

type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient is the model backend the interpreter talks to.
type LLMClient interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	// Available reports whether the backend looks usable right now.
	Available(ctx context.Context) bool
}

func (c LLMConfig) sampling(req GenerateRequest) (temperature float64, maxTokens int) {
	task := c.Tasks[req.Task]
	temperature, maxTokens = task.Temperature, task.MaxTokens
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	return temperature, maxTokens
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// errorCode maps a sentinel to the label reported on call events.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
