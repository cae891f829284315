package sse

import (
	"encoding/json"
	"strings"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

// dataPrefix starts every meaningful line of a frame. Frames without it
// are comments or keep-alives and are ignored.
const dataPrefix = "data: "

// Control event types carried in the payload's "type" discriminator.
// Every other value is treated as an agent trace event.
const (
	TypeDone         = "done"
	TypeError        = "error"
	TypeFullResponse = "full_response"
	TypeStreamToken  = "stream_token"
	TypeTrace        = "trace"
)

// Event is the classified result of parsing one frame.
type Event struct {
	// Type is one of TypeDone, TypeError, TypeFullResponse,
	// TypeStreamToken or TypeTrace.
	Type string

	// Message holds the error text, the full replacement text, or the
	// token fragment, depending on Type.
	Message string

	// Trace is set when Type is TypeTrace.
	Trace *models.TraceEvent
}

// payload is the wire shape of a frame's JSON body.
type payload struct {
	Type      string         `json:"type"`
	Agent     string         `json:"agent"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Timestamp float64        `json:"timestamp"`
}

// Classify parses one frame into an event. The event is nil for frames
// that carry none; malformed reports whether that was a data frame with
// an undecodable payload, as opposed to a comment or keep-alive that is
// ignored by design. This is a best-effort transport; a corrupt frame
// must never abort the session, so decode failures are dropped rather
// than surfaced.
func Classify(frame string) (ev *Event, malformed bool) {
	line, ok := dataLine(frame)
	if !ok {
		return nil, false
	}

	var p payload
	if err := json.Unmarshal([]byte(line), &p); err != nil {
		return nil, true
	}

	switch p.Type {
	case TypeDone:
		return &Event{Type: TypeDone}, false
	case TypeError:
		return &Event{Type: TypeError, Message: p.Message}, false
	case TypeFullResponse:
		return &Event{Type: TypeFullResponse, Message: p.Message}, false
	case TypeStreamToken:
		return &Event{Type: TypeStreamToken, Message: p.Message}, false
	default:
		// Open set: unknown tags are forwarded as trace entries rather
		// than rejected, so new server-side event types keep working.
		return &Event{
			Type: TypeTrace,
			Trace: &models.TraceEvent{
				EventType: p.Type,
				AgentName: p.Agent,
				Message:   p.Message,
				Data:      p.Data,
				Timestamp: p.Timestamp,
			},
		}, false
	}
}

// dataLine extracts the payload of the first data line in a frame,
// tolerating stray whitespace around the prefix.
func dataLine(frame string) (string, bool) {
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, dataPrefix); ok {
			return rest, true
		}
	}
	return "", false
}
