package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyControlEvents(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		want    string
		message string
	}{
		{"done", `data: {"type":"done"}`, TypeDone, ""},
		{"error", `data: {"type":"error","message":"model unavailable"}`, TypeError, "model unavailable"},
		{"full response", `data: {"type":"full_response","message":"Quantum computing is..."}`, TypeFullResponse, "Quantum computing is..."},
		{"stream token", `data: {"type":"stream_token","message":"Quan"}`, TypeStreamToken, "Quan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, malformed := Classify(tt.frame)
			require.NotNil(t, ev)
			assert.False(t, malformed)
			assert.Equal(t, tt.want, ev.Type)
			assert.Equal(t, tt.message, ev.Message)
			assert.Nil(t, ev.Trace)
		})
	}
}

func TestClassifyTraceEvent(t *testing.T) {
	frame := `data: {"type":"agent_start","agent":"orchestrator","message":"Analyzing query","data":{"query":"what?"},"timestamp":1717171717.25}`

	ev, _ := Classify(frame)
	require.NotNil(t, ev)
	require.Equal(t, TypeTrace, ev.Type)
	require.NotNil(t, ev.Trace)
	assert.Equal(t, "agent_start", ev.Trace.EventType)
	assert.Equal(t, "orchestrator", ev.Trace.AgentName)
	assert.Equal(t, "Analyzing query", ev.Trace.Message)
	assert.Equal(t, "what?", ev.Trace.Data["query"])
	assert.InDelta(t, 1717171717.25, ev.Trace.Timestamp, 1e-6)
}

// Unknown tags are forwarded as trace entries, not rejected.
func TestClassifyUnknownTypeIsTrace(t *testing.T) {
	ev, _ := Classify(`data: {"type":"tool_invocation","agent":"web_search","message":"GET example.com"}`)
	require.NotNil(t, ev)
	assert.Equal(t, TypeTrace, ev.Type)
	assert.Equal(t, "tool_invocation", ev.Trace.EventType)
}

func TestClassifyMissingTypeIsTrace(t *testing.T) {
	ev, _ := Classify(`data: {"agent":"retrieval","message":"no discriminator"}`)
	require.NotNil(t, ev)
	assert.Equal(t, TypeTrace, ev.Type)
	assert.Empty(t, ev.Trace.EventType)
}

func TestClassifyDropped(t *testing.T) {
	tests := []struct {
		name      string
		frame     string
		malformed bool
	}{
		{"empty frame", "", false},
		{"comment", ": keep-alive", false},
		{"no data prefix", `event: message`, false},
		{"bare text", "hello", false},
		{"malformed json", `data: {"type":"done"`, true},
		{"non-object payload", `data: 42`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, malformed := Classify(tt.frame)
			assert.Nil(t, ev)
			assert.Equal(t, tt.malformed, malformed, "ignored frames are not decode failures")
		})
	}
}

func TestClassifyToleratesWhitespace(t *testing.T) {
	ev, _ := Classify("  \ndata: {\"type\":\"done\"}")
	require.NotNil(t, ev)
	assert.Equal(t, TypeDone, ev.Type)
}

func TestClassifyMultilineFrameUsesDataLine(t *testing.T) {
	ev, _ := Classify("event: message\ndata: {\"type\":\"stream_token\",\"message\":\"x\"}")
	require.NotNil(t, ev)
	assert.Equal(t, TypeStreamToken, ev.Type)
	assert.Equal(t, "x", ev.Message)
}
