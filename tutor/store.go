package tutor

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rauleduardorivassanz/ai-tutor/annotation"
)

// contextWindow is how many prior turns are forwarded to the model.
const contextWindow = 10

// titleLimit caps the conversation title derived from the first message.
const titleLimit = 50

// Store keeps active conversations in memory, keyed by id.
type Store struct {
	mu    sync.Mutex
	convs map[string]*Conversation
}

func NewStore() *Store {
	return &Store{convs: make(map[string]*Conversation)}
}

// FindOrCreate returns the conversation with existingID when it belongs to
// the same user and document, otherwise starts a fresh one titled after
// the first message.
func (s *Store) FindOrCreate(documentID, user, existingID, firstMessage string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existingID != "" {
		if c, ok := s.convs[existingID]; ok && c.User == user && c.DocumentID == documentID {
			return c
		}
	}
	c := &Conversation{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		User:        user,
		Title:       titleFrom(firstMessage),
		annotations: annotation.NewStore(),
	}
	s.convs[c.ID] = c
	return c
}

// Get returns the user's conversation by id.
func (s *Store) Get(id, user string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok || c.User != user {
		return nil, false
	}
	return c, true
}

// AppendTurn records a turn at the end of a conversation.
func (s *Store) AppendTurn(conversationID string, t Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[conversationID]
	if !ok {
		return fmt.Errorf("conversation %q not found", conversationID)
	}
	c.Turns = append(c.Turns, t)
	return nil
}

// RecentTurns returns up to n of the conversation's latest turns, oldest
// first.
func (s *Store) RecentTurns(conversationID string, n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[conversationID]
	if !ok {
		return nil
	}
	turns := c.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

func titleFrom(message string) string {
	if len(message) > titleLimit {
		return message[:titleLimit] + "..."
	}
	return message
}
