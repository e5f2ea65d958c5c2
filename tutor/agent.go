package tutor

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rauleduardorivassanz/ai-tutor/annotation"
	"github.com/rauleduardorivassanz/ai-tutor/directive"
	"github.com/rauleduardorivassanz/ai-tutor/document"
	"github.com/rauleduardorivassanz/ai-tutor/speech"
)

// fallbackReply is recorded as the assistant turn when the completion
// capability fails; the user's own message stays recorded either way, so
// the turn is never half-applied.
const fallbackReply = "Sorry, I couldn't come up with an answer just now. Please try asking again."

// Agent drives one conversation turn end to end: record the user message,
// ask the model, extract directives, apply page and annotation effects.
type Agent struct {
	llm    LLMClient
	docs   *document.Library
	convs  *Store
	parser *directive.Parser
	voice  speech.Engine
	logger *log.Logger
}

func NewAgent(llm LLMClient, docs *document.Library, convs *Store, logger *log.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if docs == nil {
		return nil, errors.New("document library is required")
	}
	if convs == nil {
		convs = NewStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Agent{
		llm:    llm,
		docs:   docs,
		convs:  convs,
		parser: directive.NewParser(logger),
		logger: logger,
	}, nil
}

// UseVoice injects a speech engine; replies are spoken as they are
// returned. Without one, replies stay text-only.
func (a *Agent) UseVoice(engine speech.Engine) {
	a.voice = engine
}

// Conversations exposes the conversation store, for hosts that serve
// annotation state over their own transport.
func (a *Agent) Conversations() *Store {
	return a.convs
}

// Request is one submitted user message.
type Request struct {
	DocumentID     string
	User           string
	Message        string
	ConversationID string // empty starts a new conversation
}

// Reply is the assistant's turn: cleaned text plus the effects extracted
// from it. Page 0 means no navigation; Annotations is nil when no
// directive decoded.
type Reply struct {
	TurnID         string
	ConversationID string
	Content        string
	Page           int
	Annotations    []annotation.Annotation
}

// Respond runs one conversation turn. The user's message is recorded
// before the completion call is issued; the reply's parsed effects are
// applied only once the full response is received. Navigation happens at
// most once per reply (first page reference wins) and the decoded
// annotation batch is committed in a single store operation, so the
// session never observes a partially applied reply.
func (a *Agent) Respond(ctx context.Context, req Request) (Reply, error) {
	doc, err := a.docs.Get(req.DocumentID, req.User)
	if err != nil {
		return Reply{}, err
	}

	conv := a.convs.FindOrCreate(req.DocumentID, req.User, req.ConversationID, req.Message)
	history := a.convs.RecentTurns(conv.ID, contextWindow)

	if err := a.convs.AppendTurn(conv.ID, Turn{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	}); err != nil {
		return Reply{}, err
	}

	hits, err := a.docs.Search(doc.ID, req.User, req.Message)
	if err != nil {
		hits = nil
	}
	prompt := BuildTutorPrompt(doc, hits, history, req.Message)

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Printf("[chat] completion failed for conversation %s: %v", conv.ID, err)
		return a.fallback(conv.ID)
	}

	parsed := a.parser.Parse(raw)
	turnID := uuid.NewString()

	var anns []annotation.Annotation
	for i, rawAnn := range parsed.RawAnnotations {
		anns = append(anns, directive.Normalize(rawAnn, directive.Context{
			ReplyID:      turnID,
			Index:        i,
			Page:         parsed.Page,
			FallbackText: parsed.CleanedText,
		}))
	}
	if len(anns) > 0 {
		if err := conv.Annotations().Add(anns...); err != nil {
			// ids are unique by construction; a collision means a caller bug
			a.logger.Printf("[chat] annotation batch rejected: %v", err)
			anns = nil
		}
	}

	turn := Turn{
		ID:          turnID,
		Role:        RoleAssistant,
		Content:     parsed.CleanedText,
		Page:        parsed.Page,
		Annotations: anns,
		CreatedAt:   time.Now(),
	}
	if err := a.convs.AppendTurn(conv.ID, turn); err != nil {
		return Reply{}, err
	}

	if a.voice != nil {
		a.voice.Speak(parsed.CleanedText, nil)
	}

	return Reply{
		TurnID:         turnID,
		ConversationID: conv.ID,
		Content:        parsed.CleanedText,
		Page:           parsed.Page,
		Annotations:    anns,
	}, nil
}

func (a *Agent) fallback(conversationID string) (Reply, error) {
	turnID := uuid.NewString()
	if err := a.convs.AppendTurn(conversationID, Turn{
		ID:        turnID,
		Role:      RoleAssistant,
		Content:   fallbackReply,
		CreatedAt: time.Now(),
	}); err != nil {
		return Reply{}, err
	}
	return Reply{
		TurnID:         turnID,
		ConversationID: conversationID,
		Content:        fallbackReply,
	}, nil
}
