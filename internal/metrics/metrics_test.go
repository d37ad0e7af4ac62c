package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/intake/internal/geo"
	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/llm"
)

func TestMetrics_Turns(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.ObserveTurn(ctx, intake.TurnEvent{Kind: intake.KindQuestion, Duration: 300 * time.Millisecond, Mutated: true})
	m.ObserveTurn(ctx, intake.TurnEvent{Kind: intake.KindQuestion, Duration: time.Second})
	m.ObserveTurn(ctx, intake.TurnEvent{Kind: intake.KindNotUnderstood, Err: errors.New("timeout")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("question")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues("not_understood")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnErrors))
	assert.Equal(t, 1, testutil.CollectAndCount(m.turnDuration))
}

func TestMetrics_LLMCalls(t *testing.T) {
	m := New()
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPatch, LatencyMs: 800, Success: true})
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPatch, LatencyMs: 20000, ErrorCode: "TIMEOUT"})
	m.OnCallComplete(llm.LLMCallEvent{Task: llm.TaskPatch})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("patch", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("patch", "TIMEOUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmCalls.WithLabelValues("patch", "error")))
}

func TestMetrics_GeocodeAndSessions(t *testing.T) {
	m := New()
	m.OnLookup(geo.LookupEvent{Result: geo.ResultHit})
	m.OnLookup(geo.LookupEvent{Result: geo.ResultCached})
	m.OnLookup(geo.LookupEvent{Result: geo.ResultCached})
	m.SetSessions(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.geocodes.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.geocodes.WithLabelValues("cached")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessions))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetSessions(1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "intake_sessions_active 1")
	assert.Contains(t, string(body), "go_goroutines")
}
