package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/llm"
)

// PatchInterpreter turns one utterance into a patch over the current
// project record. It never mutates the record it is given.
type PatchInterpreter interface {
	Interpret(ctx context.Context, utterance string, project domain.Record, lastQuestion string) (domain.Patch, error)
}

type patchInterpreter struct {
	client llm.LLMClient
	now    func() time.Time
}

// NewPatchInterpreter creates a PatchInterpreter backed by an LLM client.
// now supplies the date injected into the prompt; nil uses time.Now.
func NewPatchInterpreter(client llm.LLMClient, now func() time.Time) PatchInterpreter {
	if now == nil {
		now = time.Now
	}
	return &patchInterpreter{client: client, now: now}
}

func (s *patchInterpreter) Interpret(ctx context.Context, utterance string, project domain.Record, lastQuestion string) (domain.Patch, error) {
	prompt, err := s.buildPrompt(utterance, project, lastQuestion)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPatch,
		SystemPrompt: patchSystemPrompt,
		UserPrompt:   prompt,
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm patch failed: %w", err)
	}

	patch, err := llm.ExtractJSON[domain.Patch](resp.Text, validatePatch)
	if err != nil {
		return nil, fmt.Errorf("failed to extract patch: %w", err)
	}
	if patch == nil {
		patch = domain.Patch{}
	}
	return patch, nil
}

func (s *patchInterpreter) buildPrompt(utterance string, project domain.Record, lastQuestion string) (string, error) {
	state, err := marshalRecord(project)
	if err != nil {
		return "", fmt.Errorf("encoding record for prompt: %w", err)
	}
	hint := ""
	if lastQuestion != "" {
		hint = fmt.Sprintf(lastQuestionHintTemplate, lastQuestion)
	}
	return fmt.Sprintf(patchUserPromptTemplate,
		s.now().Format(domain.DateLayout), state, hint, utterance), nil
}

// marshalRecord renders the record without HTML escaping so Turkish text
// and symbols reach the model unchanged.
func marshalRecord(project domain.Record) (string, error) {
	if project == nil {
		project = domain.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(project); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func validatePatch(p domain.Patch) error {
	for _, key := range domain.ReservedKeys {
		v, ok := p[key]
		if !ok || v == nil {
			continue
		}
		if _, isString := v.(string); !isString {
			return fmt.Errorf("%s must be a string, got %T", key, v)
		}
	}
	if _, ok := p["op"]; ok {
		if _, hasPath := p["path"]; hasPath {
			return fmt.Errorf("operation-style patches are not accepted")
		}
	}
	return nil
}
