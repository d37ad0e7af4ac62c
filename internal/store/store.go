// Package store persists one intake document per session. Backends share
// the JSON document layout {"status", "projects": [record]}.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/alexanderramin/intake/internal/domain"
)

var (
	// ErrNotFound is returned by Load when no document exists for a session.
	ErrNotFound = errors.New("session document not found")
	// ErrInvalidSessionID rejects identifiers that cannot be used as keys.
	ErrInvalidSessionID = errors.New("invalid session id")
)

// Store loads, saves and deletes session documents.
type Store interface {
	Load(ctx context.Context, sessionID string) (*domain.State, error)
	Save(ctx context.Context, sessionID string, state *domain.State) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// Versioned is implemented by backends that keep every saved revision.
type Versioned interface {
	History(ctx context.Context, sessionID string) ([]Version, error)
}

// ProjectIndex is implemented by backends that can find a session by the
// project id stored in its record.
type ProjectIndex interface {
	FindByProjectID(ctx context.Context, projectID string) (string, error)
}

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

func checkID(sessionID string) error {
	if !sessionIDPattern.MatchString(sessionID) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, sessionID)
	}
	return nil
}

// documentName is the object and file name a session is stored under.
func documentName(sessionID string) string {
	return "session_" + sessionID + ".json"
}

// Encode renders a document the way every backend stores it: indented,
// with non-ASCII text left as is.
func Encode(state *domain.State) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(state); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a stored document.
func Decode(data []byte) (*domain.State, error) {
	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &state, nil
}
