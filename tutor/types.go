package tutor

import (
	"time"

	"github.com/rauleduardorivassanz/ai-tutor/annotation"
)

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one recorded conversation turn. Assistant turns carry the
// directive-stripped content plus any navigation and annotation effects
// the reply produced.
type Turn struct {
	ID          string
	Role        Role
	Content     string
	Page        int // 0 = no page reference
	Annotations []annotation.Annotation
	CreatedAt   time.Time
}

// Conversation holds one tutoring exchange over one document, including
// the annotation collection for the session. The annotation store is the
// only piece shared with concurrent readers; everything else is mutated
// through the conversation Store.
type Conversation struct {
	ID         string
	DocumentID string
	User       string
	Title      string
	Turns      []Turn

	annotations *annotation.Store
}

// Annotations is the session's annotation collection. Both producers (the
// directive pipeline and user drawing) funnel through it.
func (c *Conversation) Annotations() *annotation.Store {
	return c.annotations
}
