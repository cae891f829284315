// Package models defines the wire types shared between the API client and
// the session engine. Field names and timestamp encoding match the backend's
// JSON exactly: timestamps are fractional seconds since the epoch.
package models

import "time"

// Conversation is one persistent chat thread.
type Conversation struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	CreatedAt float64 `json:"created_at"`
	UpdatedAt float64 `json:"updated_at"`
}

// Message is a single chat message within a conversation.
//
// Optimistic client-side messages carry a TempIDPrefix id until the
// authoritative reload replaces them with server-assigned ids. Apart from
// the id they are indistinguishable from persisted messages.
type Message struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	Role           string       `json:"role"`
	Content        string       `json:"content"`
	Sources        []string     `json:"sources"`
	AgentTrace     []TraceEvent `json:"agent_trace"`
	Timestamp      float64      `json:"timestamp"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// TempIDPrefix marks client-generated message ids that have not been
// confirmed by the server.
const TempIDPrefix = "temp-"

// Upload records a document ingested into the backend's vector store.
type Upload struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id"`
	Filename       string  `json:"filename"`
	FileType       string  `json:"file_type"`
	CollectionName string  `json:"collection_name"`
	DocCount       int     `json:"doc_count"`
	Timestamp      float64 `json:"timestamp"`
}

// Epoch converts a fractional-seconds timestamp to time.Time.
func Epoch(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// Now returns the current time as a fractional-seconds timestamp.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
