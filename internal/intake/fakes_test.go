package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/store"
)

// scriptedInterpreter returns canned patches keyed by utterance.
type scriptedInterpreter struct {
	patches       map[string]domain.Patch
	err           error
	calls         int
	lastQuestions []string
}

func (s *scriptedInterpreter) Interpret(_ context.Context, utterance string, _ domain.Record, lastQuestion string) (domain.Patch, error) {
	s.calls++
	s.lastQuestions = append(s.lastQuestions, lastQuestion)
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.patches[utterance]
	if !ok {
		return nil, errors.New("no scripted patch for " + utterance)
	}
	// Hand out a copy so merges never alias the script.
	return domain.Patch(domain.CloneObject(p)), nil
}

// fakeLocator resolves by street when given, otherwise by district.
type fakeLocator struct {
	mu      sync.Mutex
	coords  map[string]string
	queries []string
}

func (f *fakeLocator) Resolve(_ context.Context, district, street string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := district
	if street != "" {
		key = district + "/" + street
	}
	f.queries = append(f.queries, key)
	c, ok := f.coords[key]
	return c, ok
}

// failingStore fails every save.
type failingStore struct {
	*store.MemoryStore
	saves int
}

func (f *failingStore) Save(context.Context, string, *domain.State) error {
	f.saves++
	return errors.New("disk full")
}

// unreadableStore fails every load with a backend error.
type unreadableStore struct {
	failingStore
}

func (u *unreadableStore) Load(context.Context, string) (*domain.State, error) {
	return nil, errors.New("connection reset by peer")
}

type recordingObserver struct {
	events []TurnEvent
}

func (r *recordingObserver) ObserveTurn(_ context.Context, e TurnEvent) {
	r.events = append(r.events, e)
}

var testNow = time.Date(2025, 4, 14, 10, 0, 0, 0, time.UTC)

func newTestReconciler(t *testing.T, interp Interpreter, loc Locator, st Store) *Reconciler {
	t.Helper()
	r, err := NewReconciler(context.Background(), "sess01", Deps{
		Interpreter: interp,
		Locator:     loc,
		Store:       st,
		Clock:       func() time.Time { return testNow },
		NewID:       func() string { return "PRJ-TEST01" },
	})
	if err != nil {
		t.Fatalf("NewReconciler: %v", err)
	}
	return r
}
