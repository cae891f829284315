package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

func TestRenderTranscript(t *testing.T) {
	conv := &models.Conversation{ID: "conv-1", Title: "Quantum computing"}
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "What is a qubit?"},
		{
			Role:    models.RoleAssistant,
			Content: "A qubit is the basic unit of quantum information.",
			Sources: []string{"nielsen-chuang.pdf"},
		},
	}

	doc := renderTranscript(conv, msgs, false)

	assert.Contains(t, doc, "# Quantum computing")
	assert.Contains(t, doc, "## You\n\nWhat is a qubit?")
	assert.Contains(t, doc, "## Assistant\n\nA qubit is the basic unit of quantum information.")
	assert.Contains(t, doc, "- nielsen-chuang.pdf")
	assert.NotContains(t, doc, "Agent activity")
}

func TestRenderTranscriptWithTrace(t *testing.T) {
	conv := &models.Conversation{ID: "conv-1", Title: "Quantum computing"}
	msgs := []models.Message{
		{
			Role:    models.RoleAssistant,
			Content: "Answer.",
			AgentTrace: []models.TraceEvent{
				{EventType: models.EventAgentStart, AgentName: "researcher", Message: "planning"},
				{EventType: models.EventStreamToken, Message: "Answer"},
			},
		},
	}

	doc := renderTranscript(conv, msgs, true)

	assert.Contains(t, doc, "Agent activity")
	assert.Contains(t, doc, "**researcher**: planning")
	// Transport-internal events stay out of the transcript.
	assert.NotContains(t, doc, "stream_token")
}
