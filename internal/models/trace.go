package models

// Trace event types emitted by the backend agents. The set is open: the
// server may introduce new tags and they still flow through as trace
// entries.
const (
	EventAgentStart    = "agent_start"
	EventAgentProgress = "agent_progress"
	EventAgentResult   = "agent_result"
	EventAgentError    = "agent_error"
	EventPlanStep      = "plan_step"

	// Transport-internal tags. They pass through the decoder and land in
	// the session trace log; display layers filter them out.
	EventStreamToken = "stream_token"
	EventStreamEnd   = "stream_end"
)

// TraceEvent is one step of the agent's execution as observed by the
// client. Within a session events keep their frame arrival order; the
// client never reorders or deduplicates them.
type TraceEvent struct {
	EventType string         `json:"event_type"`
	AgentName string         `json:"agent_name"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp float64        `json:"timestamp"`
}

// Internal reports whether the event is a transport-internal tag that
// display layers should hide.
func (e TraceEvent) Internal() bool {
	return e.EventType == EventStreamToken || e.EventType == EventStreamEnd
}
