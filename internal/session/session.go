package session

import (
	"time"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

// Phase is the lifecycle state of one query/response cycle.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseSending     Phase = "sending"
	PhaseStreaming   Phase = "streaming"
	PhaseReconciling Phase = "reconciling"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// session is the ephemeral state of one outstanding query. It is owned
// exclusively by the controller; observers see it through Snapshot.
type session struct {
	id             string // correlation id for log lines
	conversationID string
	phase          Phase
	tokens         []byte // accumulated text, append-only except full_response
	trace          []models.TraceEvent
	startedAt      time.Time
	firstTokenAt   time.Time
}

// Snapshot is a read-only projection of a live session for observers.
type Snapshot struct {
	ConversationID string
	Phase          Phase
	// Tokens is the live answer text: the verbatim concatenation of
	// received fragments, or the last full_response replacement.
	Tokens string
	// Trace includes transport-internal tags; display layers filter.
	Trace []models.TraceEvent
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		ConversationID: s.conversationID,
		Phase:          s.phase,
		Tokens:         string(s.tokens),
		Trace:          append([]models.TraceEvent(nil), s.trace...),
	}
}

func (s *session) active() bool {
	switch s.phase {
	case PhaseSending, PhaseStreaming, PhaseReconciling:
		return true
	}
	return false
}
