package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

func TestVisibleTraceFiltersTransportEvents(t *testing.T) {
	events := []models.TraceEvent{
		{EventType: models.EventAgentStart, AgentName: "researcher", Message: "starting"},
		{EventType: models.EventStreamToken, Message: "Quantum"},
		{EventType: models.EventAgentProgress, AgentName: "researcher", Message: "searching"},
		{EventType: models.EventStreamEnd},
		{EventType: "verification_pass", AgentName: "verifier", Message: "checked"},
	}

	visible := visibleTrace(events)

	assert.Len(t, visible, 3)
	assert.Equal(t, models.EventAgentStart, visible[0].EventType)
	assert.Equal(t, models.EventAgentProgress, visible[1].EventType)
	assert.Equal(t, "verification_pass", visible[2].EventType)
}

func TestVisibleTraceEmpty(t *testing.T) {
	assert.Empty(t, visibleTrace(nil))
	assert.Empty(t, visibleTrace([]models.TraceEvent{{EventType: models.EventStreamToken}}))
}
