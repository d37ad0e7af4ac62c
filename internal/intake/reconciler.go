// Package intake runs the conversational intake of one project record: it
// applies interpreted patches, keeps an undo history, derives computed
// fields and decides which question to ask next.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/report"
	"github.com/alexanderramin/intake/internal/store"
)

// Interpreter turns an utterance into a patch over the current project.
type Interpreter interface {
	Interpret(ctx context.Context, utterance string, project domain.Record, lastQuestion string) (domain.Patch, error)
}

// Locator resolves a district and optional street into "lat, lon".
type Locator interface {
	Resolve(ctx context.Context, district, street string) (string, bool)
}

// Store persists the session document.
type Store interface {
	Load(ctx context.Context, sessionID string) (*domain.State, error)
	Save(ctx context.Context, sessionID string, state *domain.State) error
}

// ReplyKind classifies the outcome of a turn.
type ReplyKind string

const (
	KindQuestion        ReplyKind = "question"
	KindUndo            ReplyKind = "undo"
	KindNothingToUndo   ReplyKind = "nothing_to_undo"
	KindNotUnderstood   ReplyKind = "not_understood"
	KindPaymentRedirect ReplyKind = "payment_redirect"
	KindIrrelevant      ReplyKind = "irrelevant"
	KindCancelled       ReplyKind = "cancelled"
	KindAnswer          ReplyKind = "answer"
	KindSummary         ReplyKind = "summary"
	KindReset           ReplyKind = "reset"
	KindCompleted       ReplyKind = "completed"
)

// Reply is the result of one turn. Text is what the user sees; Question is
// the outstanding question it carries, if any.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Question string
	Mutated  bool
}

// Completed reports whether the record was confirmed.
func (r Reply) Completed() bool { return r.Kind == KindCompleted }

// Ended reports whether the conversation is over.
func (r Reply) Ended() bool { return r.Kind == KindCompleted || r.Kind == KindCancelled }

// Deps wires a Reconciler to its collaborators. Interpreter and Store are
// required; the rest have defaults.
type Deps struct {
	Interpreter  Interpreter
	Locator      Locator
	Store        Store
	Logger       *slog.Logger
	Observer     Observer
	Clock        func() time.Time
	NewID        func() string
	PaymentLinks map[domain.PaymentCategory]string
}

// Reconciler owns one session's record. It is not safe for concurrent use;
// callers serialize turns per session.
type Reconciler struct {
	sessionID string
	interp    Interpreter
	locator   Locator
	store     Store
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time
	newID     func() string
	links     map[domain.PaymentCategory]string

	state    *domain.State
	history  history
	question Question
}

// NewReconciler loads the session document, falling back to a blank record
// when nothing valid is stored, and computes the opening question.
func NewReconciler(ctx context.Context, sessionID string, deps Deps) (*Reconciler, error) {
	if deps.Interpreter == nil {
		return nil, errors.New("intake: interpreter is required")
	}
	if deps.Store == nil {
		return nil, errors.New("intake: store is required")
	}
	r := &Reconciler{
		sessionID: sessionID,
		interp:    deps.Interpreter,
		locator:   deps.Locator,
		store:     deps.Store,
		logger:    deps.Logger,
		observer:  deps.Observer,
		now:       deps.Clock,
		newID:     deps.NewID,
		links:     deps.PaymentLinks,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.observer == nil {
		r.observer = NoopObserver{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = NewProjectID
	}
	if r.links == nil {
		r.links = domain.DefaultPaymentLinks
	}

	r.state = r.load(ctx)
	r.question = NextQuestion(r.state.Project())
	return r, nil
}

// load returns the stored document, or a blank one when nothing usable is
// stored. The blank is persisted only when no document exists, so an
// unreadable one stays in the backend until a turn replaces it.
func (r *Reconciler) load(ctx context.Context) *domain.State {
	state, err := r.store.Load(ctx, r.sessionID)
	switch {
	case err == nil && state.Valid():
		return state
	case err == nil:
		r.logger.Warn("stored document has no project, starting blank", "session_id", r.sessionID)
		return domain.NewBlankState()
	case !errors.Is(err, store.ErrNotFound):
		r.logger.Error("loading stored document failed, starting blank", "session_id", r.sessionID, "error", err)
		return domain.NewBlankState()
	}

	r.logger.Debug("no stored document, starting blank", "session_id", r.sessionID)
	blank := domain.NewBlankState()
	if err := r.store.Save(ctx, r.sessionID, blank); err != nil {
		r.logger.Error("saving blank document failed", "session_id", r.sessionID, "error", err)
	}
	return blank
}

// SessionID returns the identifier the reconciler persists under.
func (r *Reconciler) SessionID() string { return r.sessionID }

// Question returns the outstanding question.
func (r *Reconciler) Question() Question { return r.question }

// Project returns a copy of the current project record.
func (r *Reconciler) Project() domain.Record { return r.state.Project().Clone() }

// State returns a copy of the whole persisted document.
func (r *Reconciler) State() *domain.State { return r.state.Clone() }

// UndoDepth returns the number of snapshots available to undo.
func (r *Reconciler) UndoDepth() int { return r.history.depth() }

// Turn processes one user utterance.
func (r *Reconciler) Turn(ctx context.Context, utterance string) Reply {
	start := r.now()
	reply, err := r.turn(ctx, utterance)
	r.observer.ObserveTurn(ctx, TurnEvent{
		SessionID: r.sessionID,
		Kind:      reply.Kind,
		Duration:  r.now().Sub(start),
		Mutated:   reply.Mutated,
		Err:       err,
	})
	return reply
}

func (r *Reconciler) turn(ctx context.Context, utterance string) (Reply, error) {
	if undoWords[strings.ToLower(strings.TrimSpace(utterance))] {
		return r.undo(ctx)
	}

	patch, err := r.interp.Interpret(ctx, utterance, r.state.Project().Clone(), r.question.Text)
	if err != nil || len(patch) == 0 {
		if err == nil {
			err = errors.New("interpreter returned an empty patch")
		}
		return Reply{Kind: KindNotUnderstood, Text: msgNotUnderstood}, err
	}

	q := r.question.Text
	directive, _ := patch.Directive()
	switch directive {
	case domain.DirectivePaymentRedirect:
		category := patch.PaymentCategory()
		if category == "" {
			category = domain.PaymentGeneral
		}
		link, ok := r.links[category]
		if !ok {
			link = r.links[domain.PaymentGeneral]
		}
		return Reply{Kind: KindPaymentRedirect, Text: paymentMessage(category, link, q), Question: q}, nil

	case domain.DirectiveIrrelevant:
		return Reply{Kind: KindIrrelevant, Text: withQuestion(msgIrrelevant, q), Question: q}, nil

	case domain.DirectiveCancelled:
		return Reply{Kind: KindCancelled, Text: SessionCancelled}, nil

	case domain.DirectiveAnswer:
		return Reply{Kind: KindAnswer, Text: withQuestion("ℹ️ "+patch.Message(), q), Question: q}, nil

	case domain.DirectiveShowSummary:
		summary := report.Build(r.state.Project(), r.now()).Text()
		return Reply{Kind: KindSummary, Text: withQuestion(summary, q), Question: q}, nil

	case domain.DirectiveResetAll:
		r.history.push(r.state, true)
		r.state = domain.NewBlankState()
		r.question = NextQuestion(r.state.Project())
		return Reply{Kind: KindReset, Text: msgReset, Mutated: true}, r.persist(ctx)

	case domain.DirectiveFinished:
		r.apply(ctx, patch)
		r.question = NextQuestion(r.state.Project())
		return Reply{Kind: KindCompleted, Text: SessionCompleted, Mutated: true}, r.persist(ctx)
	}

	r.history.push(r.state, false)
	r.apply(ctx, patch)
	r.question = NextQuestion(r.state.Project())
	return Reply{Kind: KindQuestion, Text: r.question.Text, Question: r.question.Text, Mutated: true}, r.persist(ctx)
}

func (r *Reconciler) apply(ctx context.Context, patch domain.Patch) {
	project := r.state.Project()
	DeepMerge(project, patch.Fields())
	r.autoFill(ctx, project)
}

func (r *Reconciler) undo(ctx context.Context) (Reply, error) {
	prev, ok := r.history.pop()
	if !ok {
		return Reply{Kind: KindNothingToUndo, Text: msgNothingToUndo}, nil
	}
	r.state = prev
	r.question = NextQuestion(r.state.Project())
	return Reply{
		Kind:     KindUndo,
		Text:     withQuestion(msgUndone, r.question.Text),
		Question: r.question.Text,
		Mutated:  true,
	}, r.persist(ctx)
}

// persist saves the document. Failures are logged and returned for the
// turn event but never abort the turn.
func (r *Reconciler) persist(ctx context.Context) error {
	if err := r.store.Save(ctx, r.sessionID, r.state); err != nil {
		r.logger.Error("saving document failed", "session_id", r.sessionID, "error", err)
		return fmt.Errorf("save session %s: %w", r.sessionID, err)
	}
	return nil
}
