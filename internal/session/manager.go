// Package session keeps the live intake conversations of a process. Each
// session has its own lock, so a slow turn in one session never blocks
// lookups or turns in another.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/intake"
	"github.com/alexanderramin/intake/internal/store"
)

// ErrSessionNotFound is returned for ids the manager does not hold.
var ErrSessionNotFound = errors.New("session not found")

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID    string
	Document     *domain.State
	Project      domain.Record
	NextQuestion string
	Done         bool
}

// Config wires a Manager. Store and Interpreter are required.
type Config struct {
	Store        store.Store
	Interpreter  intake.Interpreter
	Locator      intake.Locator
	Logger       *slog.Logger
	Observer     intake.Observer
	PaymentLinks map[domain.PaymentCategory]string
	Clock        func() time.Time
	// NewSessionID defaults to the first eight hex digits of a UUID.
	NewSessionID func() string
	// OnCountChange is called with the number of live sessions after every
	// create or delete.
	OnCountChange func(n int)
}

type entry struct {
	mu  sync.Mutex
	rec *intake.Reconciler
	// deleted is set under mu once the session is removed. A turn that
	// looked the entry up before the delete sees it and stops.
	deleted bool
}

// Manager owns the session registry.
type Manager struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session: store is required")
	}
	if cfg.Interpreter == nil {
		return nil, errors.New("session: interpreter is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NewSessionID == nil {
		cfg.NewSessionID = NewSessionID
	}
	return &Manager{cfg: cfg, sessions: make(map[string]*entry)}, nil
}

// NewSessionID returns eight lower-case hex digits.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Create starts a fresh session. Any document stored under the new id is
// discarded first.
func (m *Manager) Create(ctx context.Context) (Snapshot, error) {
	id := m.cfg.NewSessionID()
	if err := m.cfg.Store.Delete(ctx, id); err != nil {
		return Snapshot{}, fmt.Errorf("clearing session %s: %w", id, err)
	}
	return m.Open(ctx, id)
}

// Open registers a session under id, resuming its stored document when
// there is one. Opening a live session returns it unchanged.
func (m *Manager) Open(ctx context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return e.snapshot(), nil
	}

	rec, err := intake.NewReconciler(ctx, id, intake.Deps{
		Interpreter:  m.cfg.Interpreter,
		Locator:      m.cfg.Locator,
		Store:        m.cfg.Store,
		Logger:       m.cfg.Logger.With("session_id", id),
		Observer:     m.cfg.Observer,
		Clock:        m.cfg.Clock,
		PaymentLinks: m.cfg.PaymentLinks,
	})
	if err != nil {
		return Snapshot{}, err
	}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return existing.snapshot(), nil
	}
	e = &entry{rec: rec}
	m.sessions[id] = e
	n := len(m.sessions)
	m.mu.Unlock()

	m.countChanged(n)
	m.cfg.Logger.Info("session opened", "session_id", id)
	return e.snapshot(), nil
}

// Chat runs one turn in the session.
func (m *Manager) Chat(ctx context.Context, id, message string) (intake.Reply, error) {
	e, err := m.lookup(id)
	if err != nil {
		return intake.Reply{}, err
	}
	return e.turn(ctx, message)
}

// Get returns the session's record and outstanding question.
func (m *Manager) Get(_ context.Context, id string) (Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return e.snapshot(), nil
}

// Delete forgets the session and removes its stored document.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	// Wait for an in-flight turn; later turns on this entry are refused.
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deleted = true

	m.countChanged(n)
	if err := m.cfg.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	m.cfg.Logger.Info("session deleted", "session_id", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

func (m *Manager) countChanged(n int) {
	if m.cfg.OnCountChange != nil {
		m.cfg.OnCountChange(n)
	}
}

func (e *entry) turn(ctx context.Context, message string) (intake.Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return intake.Reply{}, ErrSessionNotFound
	}
	return e.rec.Turn(ctx, message), nil
}

func (e *entry) snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.rec.Question()
	doc := e.rec.State()
	return Snapshot{
		SessionID:    e.rec.SessionID(),
		Document:     doc,
		Project:      doc.Project(),
		NextQuestion: q.Text,
		Done:         q.Done(),
	}
}
