package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/metrics"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/sse"
)

// ErrBusy is returned by Submit when the conversation already has an
// active session. Submissions are refused, not queued; the store is left
// untouched.
var ErrBusy = errors.New("a query is already in flight for this conversation")

// ErrEmptyMessage is returned for blank submissions.
var ErrEmptyMessage = errors.New("message is empty")

// errStreamEnded stops the chunk read loop once a terminal event has
// been applied. Never escapes Submit.
var errStreamEnded = errors.New("stream ended")

// statsTimeout bounds the fire-and-forget stats refresh after a
// reconciliation.
const statsTimeout = 10 * time.Second

// Backend is the slice of the API client the controller needs.
type Backend interface {
	StreamChat(ctx context.Context, conversationID, message string, onChunk func([]byte) error) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	VectorStats(ctx context.Context) (map[string]int, error)
}

// Controller drives chat sessions: it issues the query, decodes and
// applies streamed events, and reconciles or rolls back on terminal
// events. One controller serves all conversations; each conversation
// has at most one active session, while different conversations may
// stream concurrently with fully independent accumulators.
type Controller struct {
	backend Backend
	store   *Store
	metrics *metrics.Collector
	logger  *slog.Logger

	// notify is invoked after every observable state change with a
	// read-only snapshot, outside the controller lock. May be nil.
	notify func(Snapshot)

	mu       sync.Mutex
	sessions map[string]*session
	tempSeq  atomic.Int64

	statsMu sync.RWMutex
	stats   map[string]int
}

// NewController creates a controller. notify may be nil.
func NewController(backend Backend, store *Store, collector *metrics.Collector, logger *slog.Logger, notify func(Snapshot)) *Controller {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		backend:  backend,
		store:    store,
		metrics:  collector,
		logger:   logger,
		notify:   notify,
		sessions: make(map[string]*session),
	}
}

// Session returns a snapshot of the active session for a conversation.
func (c *Controller) Session(conversationID string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[conversationID]
	if !ok {
		return Snapshot{}, false
	}
	return s.snapshot(), true
}

// VectorStats returns the last stats fetched after a reconciliation.
func (c *Controller) VectorStats() map[string]int {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	out := make(map[string]int, len(c.stats))
	for k, v := range c.stats {
		out[k] = v
	}
	return out
}

// Metrics returns the controller's statistics collector.
func (c *Controller) Metrics() *metrics.Collector {
	return c.metrics
}

func (c *Controller) nextTempID() string {
	return fmt.Sprintf("%s%d", models.TempIDPrefix, c.tempSeq.Add(1))
}

// mutate applies fn to the session under the lock, then notifies
// observers with the resulting snapshot. State mutation is atomic from
// the observer's perspective; no partial update is ever visible.
func (c *Controller) mutate(s *session, fn func()) {
	c.mu.Lock()
	fn()
	snap := s.snapshot()
	c.mu.Unlock()

	if c.notify != nil {
		c.notify(snap)
	}
}

// Submit runs one complete query/response cycle for the conversation
// and blocks until the session reaches done or failed. The conversation
// id is captured here; continuations never consult the store's current
// selection. Returns ErrBusy without touching any state when a session
// is already active for this conversation.
func (c *Controller) Submit(ctx context.Context, conversationID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if existing, ok := c.sessions[conversationID]; ok && existing.active() {
		c.mu.Unlock()
		return ErrBusy
	}
	s := &session{
		id:             uuid.NewString(),
		conversationID: conversationID,
		phase:          PhaseSending,
		startedAt:      time.Now(),
	}
	c.sessions[conversationID] = s
	c.mu.Unlock()

	c.logger.Debug("chat session started",
		"session_id", s.id,
		"conversation_id", conversationID,
	)

	// Optimistic update: the user's message appears before any network
	// activity.
	c.store.AppendMessage(models.Message{
		ID:             c.nextTempID(),
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        text,
		Timestamp:      models.Now(),
	})
	c.mutate(s, func() {})

	dec := sse.NewDecoder()
	streamErr := c.backend.StreamChat(ctx, conversationID, text, func(chunk []byte) error {
		if s.phase == PhaseSending {
			c.mutate(s, func() { s.phase = PhaseStreaming })
		}
		for _, frame := range dec.Feed(chunk) {
			if terminal := c.apply(s, frame); terminal {
				return errStreamEnded
			}
		}
		return nil
	})

	switch {
	case errors.Is(streamErr, errStreamEnded):
		// Terminal event already applied.
	case streamErr != nil:
		// Transport failure, non-success status, or context
		// cancellation: one synthetic assistant message, no partial
		// state retained.
		c.fail(s, streamErr.Error())
	default:
		// The body ended without done or error. The dangling partial
		// cannot be trusted; treat it like a mid-stream failure.
		c.fail(s, "the response stream ended unexpectedly")
	}

	if s.phase == PhaseReconciling {
		c.reconcile(ctx, s)
	}

	c.finish(s)
	return nil
}

// apply folds one decoded frame into the session, in strict arrival
// order. Returns true when the event is terminal for the stream.
func (c *Controller) apply(s *session, frame string) bool {
	ev, malformed := sse.Classify(frame)
	c.metrics.RecordFrame(malformed)
	if ev == nil {
		// Malformed or non-data frame: dropped, never aborts the
		// session, never touches an accumulator. Only true decode
		// failures count as malformed; keep-alives are just ignored.
		return false
	}

	switch ev.Type {
	case sse.TypeTrace:
		c.metrics.RecordTraceEvent()
		c.mutate(s, func() { s.trace = append(s.trace, *ev.Trace) })

	case sse.TypeStreamToken:
		if s.firstTokenAt.IsZero() {
			s.firstTokenAt = time.Now()
			c.metrics.RecordFirstToken(s.firstTokenAt.Sub(s.startedAt))
		}
		c.metrics.RecordToken()
		c.mutate(s, func() { s.tokens = append(s.tokens, ev.Message...) })

	case sse.TypeFullResponse:
		// The one non-append-only mutation: the server supersedes all
		// partial output.
		c.mutate(s, func() { s.tokens = []byte(ev.Message) })

	case sse.TypeError:
		c.fail(s, ev.Message)
		return true

	case sse.TypeDone:
		c.mutate(s, func() { s.phase = PhaseReconciling })
		return true
	}
	return false
}

// fail rolls the session back: accumulators are cleared, the optimistic
// user message stays, and exactly one synthetic assistant message
// records the error text in place of the answer.
func (c *Controller) fail(s *session, errText string) {
	c.store.AppendMessage(models.Message{
		ID:             c.nextTempID(),
		ConversationID: s.conversationID,
		Role:           models.RoleAssistant,
		Content:        errText,
		Timestamp:      models.Now(),
	})
	c.logger.Warn("chat session failed",
		"session_id", s.id,
		"conversation_id", s.conversationID,
		"error", errText,
	)
	c.mutate(s, func() {
		s.phase = PhaseFailed
		s.trace = nil
		s.tokens = nil
	})
}

// reconcile discards local accumulators and reloads the authoritative
// message list; the server may have enriched the persisted assistant
// message (final trace, computed sources), so the client never
// reconstructs it from its own buffers.
func (c *Controller) reconcile(ctx context.Context, s *session) {
	c.mutate(s, func() {
		s.trace = nil
		s.tokens = nil
	})

	start := time.Now()
	msgs, err := c.backend.ListMessages(ctx, s.conversationID)
	c.metrics.RecordReconcile(time.Since(start))
	if err != nil {
		// The session still completes; the UI is left without the new
		// message until the next reload.
		c.logger.Error("reconciliation reload failed",
			"session_id", s.id,
			"conversation_id", s.conversationID,
			"error", err,
		)
	} else if !c.store.SetMessages(s.conversationID, msgs) {
		c.logger.Debug("reconciliation for deleted conversation dropped",
			"conversation_id", s.conversationID,
		)
	}

	// Best-effort status refresh; failures are swallowed.
	go c.refreshStats()

	c.mutate(s, func() { s.phase = PhaseDone })
}

func (c *Controller) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	stats, err := c.backend.VectorStats(ctx)
	if err != nil {
		c.logger.Debug("stats refresh failed", "error", err)
		return
	}
	c.statsMu.Lock()
	c.stats = stats
	c.statsMu.Unlock()
}

// finish records metrics and discards the session; the conversation is
// idle again and a new Submit may start fresh.
func (c *Controller) finish(s *session) {
	c.metrics.RecordSession(time.Since(s.startedAt), s.phase == PhaseFailed)

	c.mu.Lock()
	if c.sessions[s.conversationID] == s {
		delete(c.sessions, s.conversationID)
	}
	c.mu.Unlock()
}
