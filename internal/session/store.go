// Package session owns the streaming chat engine: the conversation state
// store, the per-query session state and the controller that drives one
// request/response cycle from submission to reconciliation.
package session

import (
	"sort"
	"sync"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

// Store caches conversations and their message lists. It is the only
// mutable state shared across sessions; every mutation is key-addressed
// by conversation id, so sessions for different conversations never race
// on the same record. Observers get copies, never internal slices.
type Store struct {
	mu            sync.RWMutex
	conversations []models.Conversation // sorted by UpdatedAt descending
	messages      map[string][]models.Message
	selected      string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{messages: make(map[string][]models.Message)}
}

// sortLocked keeps the list ordered most-recently-updated first.
// Caller must hold the write lock.
func (s *Store) sortLocked() {
	sort.SliceStable(s.conversations, func(i, j int) bool {
		return s.conversations[i].UpdatedAt > s.conversations[j].UpdatedAt
	})
}

// SetConversations replaces the cached conversation list. The most
// recent conversation becomes the selection when the previous selection
// is gone (or nothing was selected yet).
func (s *Store) SetConversations(convs []models.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = append([]models.Conversation(nil), convs...)
	s.sortLocked()

	for id := range s.messages {
		if !s.hasLocked(id) {
			delete(s.messages, id)
		}
	}

	if !s.hasLocked(s.selected) {
		s.selected = ""
		if len(s.conversations) > 0 {
			s.selected = s.conversations[0].ID
		}
	}
}

func (s *Store) hasLocked(id string) bool {
	for _, c := range s.conversations {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Conversations returns a copy of the cached list, most recent first.
func (s *Store) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Conversation(nil), s.conversations...)
}

// Get returns a conversation by id.
func (s *Store) Get(id string) (models.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return models.Conversation{}, false
}

// Add inserts a conversation and selects it.
func (s *Store) Add(conv models.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append(s.conversations, conv)
	s.sortLocked()
	s.selected = conv.ID
}

// Rename updates a conversation title. Returns false if the id is not
// cached.
func (s *Store) Rename(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			s.conversations[i].Title = title
			s.conversations[i].UpdatedAt = models.Now()
			s.sortLocked()
			return true
		}
	}
	return false
}

// Remove deletes a conversation and its messages. When the removed
// conversation was selected, selection falls back to the most recent
// remaining one. In-flight sessions for the removed id are unaffected;
// their eventual reconciliation becomes a silent no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.conversations[:0]
	for _, c := range s.conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.conversations = kept
	delete(s.messages, id)

	if s.selected == id {
		s.selected = ""
		if len(s.conversations) > 0 {
			s.selected = s.conversations[0].ID
		}
	}
}

// Select makes id the active conversation. Returns false (selection
// unchanged) for an unknown id. Selecting never disturbs a streaming
// session for another conversation.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLocked(id) {
		return false
	}
	s.selected = id
	return true
}

// Selected returns the active conversation id, empty when none.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Messages returns a copy of a conversation's cached message list.
func (s *Store) Messages(id string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages[id]...)
}

// SetMessages replaces a conversation's message list with the
// authoritative server state. Addressed by id, not by selection: a
// reconciliation for a background conversation still lands, and one for
// a deleted conversation is a silent no-op (returns false) rather than
// resurrecting it.
func (s *Store) SetMessages(id string, msgs []models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLocked(id) {
		return false
	}
	s.messages[id] = append([]models.Message(nil), msgs...)
	return true
}

// AppendMessage appends one message to its conversation and bumps the
// conversation's updated_at, mirroring what the server does on persist.
// A message for an unknown conversation is dropped silently.
func (s *Store) AppendMessage(msg models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLocked(msg.ConversationID) {
		return false
	}
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], msg)
	for i := range s.conversations {
		if s.conversations[i].ID == msg.ConversationID {
			s.conversations[i].UpdatedAt = msg.Timestamp
			break
		}
	}
	s.sortLocked()
	return true
}
