package tutor

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rauleduardorivassanz/ai-tutor/annotation"
	"github.com/rauleduardorivassanz/ai-tutor/document"
)

// llmFunc adapts a function to LLMClient.
type llmFunc func(ctx context.Context, prompt Prompt) (string, error)

func (f llmFunc) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}

func scripted(reply string) llmFunc {
	return func(context.Context, Prompt) (string, error) { return reply, nil }
}

type stubExtractor struct{ content document.Content }

func (s stubExtractor) Extract(string) (document.Content, error) { return s.content, nil }

func testDocs(t *testing.T) *document.Library {
	t.Helper()
	lib := document.NewLibrary(stubExtractor{content: document.Content{
		Title:      "Intro to Physics",
		TotalPages: 10,
		Pages: []document.Page{
			{PageNumber: 1, Text: "forces and motion"},
			{PageNumber: 2, Text: "energy and work"},
		},
	}}, log.New(io.Discard, "", 0))
	require.NoError(t, lib.Register(document.Document{ID: "physics", Path: "physics.pdf"}))
	require.NoError(t, lib.Register(document.Document{ID: "diary", Path: "diary.pdf", Owner: "alice"}))
	return lib
}

func testAgent(t *testing.T, llm LLMClient) *Agent {
	t.Helper()
	agent, err := NewAgent(llm, testDocs(t), NewStore(), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return agent
}

func TestRespondAppliesDirectives(t *testing.T) {
	reply := "The key definitions live on page 7.\n" +
		"PAGE_REFERENCE: 7\n" +
		"ANNOTATION: {type: 'highlight', x: 20, y: 30, width: 60, height: 8, color: '#fbbf24'}\n" +
		"ANNOTATION: {type: 'circle', x: 40, y: 50, width: 20, height: 20}\n" +
		"ANNOTATION: {broken: }\n" +
		"Look at the circled formula."
	agent := testAgent(t, scripted(reply))

	got, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "where are the definitions?"})
	require.NoError(t, err)

	assert.Equal(t, 7, got.Page)
	require.Len(t, got.Annotations, 2)
	assert.Equal(t, annotation.TypeHighlight, got.Annotations[0].Type)
	assert.Equal(t, annotation.TypeCircle, got.Annotations[1].Type)
	assert.Equal(t, 7, got.Annotations[0].Page)
	assert.NotContains(t, got.Content, "ANNOTATION:")
	assert.NotContains(t, got.Content, "PAGE_REFERENCE")
	assert.Contains(t, got.Content, "Look at the circled formula.")

	conv, ok := agent.Conversations().Get(got.ConversationID, "bob")
	require.True(t, ok)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, RoleUser, conv.Turns[0].Role)
	assert.Equal(t, RoleAssistant, conv.Turns[1].Role)
	// the whole decoded batch landed in the session store in one add
	assert.Equal(t, 2, conv.Annotations().Len())
	assert.Len(t, conv.Annotations().FilterForPage(7), 2)
}

func TestRespondNoDirectives(t *testing.T) {
	agent := testAgent(t, scripted("Plain explanation, nothing to draw."))

	got, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "hi"})
	require.NoError(t, err)

	assert.Equal(t, 0, got.Page)
	assert.Nil(t, got.Annotations)
}

func TestRespondCompletionFailure(t *testing.T) {
	agent := testAgent(t, llmFunc(func(context.Context, Prompt) (string, error) {
		return "", errors.New("model is down")
	}))

	got, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "hello?"})
	require.NoError(t, err)

	assert.Equal(t, fallbackReply, got.Content)
	assert.Equal(t, 0, got.Page)
	assert.Nil(t, got.Annotations)

	// the user's message is still recorded, with the fallback after it
	conv, ok := agent.Conversations().Get(got.ConversationID, "bob")
	require.True(t, ok)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, "hello?", conv.Turns[0].Content)
	assert.Equal(t, fallbackReply, conv.Turns[1].Content)
}

func TestRespondUnknownDocument(t *testing.T) {
	agent := testAgent(t, scripted("x"))

	_, err := agent.Respond(context.Background(), Request{DocumentID: "missing", User: "bob", Message: "hi"})
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestRespondForeignDocument(t *testing.T) {
	agent := testAgent(t, scripted("x"))

	_, err := agent.Respond(context.Background(), Request{DocumentID: "diary", User: "bob", Message: "hi"})
	assert.ErrorIs(t, err, document.ErrUnauthorized)
}

func TestRespondReusesConversation(t *testing.T) {
	agent := testAgent(t, scripted("ok"))

	first, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "one"})
	require.NoError(t, err)
	second, err := agent.Respond(context.Background(), Request{
		DocumentID: "physics", User: "bob", Message: "two", ConversationID: first.ConversationID,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	conv, ok := agent.Conversations().Get(first.ConversationID, "bob")
	require.True(t, ok)
	assert.Len(t, conv.Turns, 4)
}

func TestRespondRecordsUserMessageBeforeCompletion(t *testing.T) {
	var agent *Agent
	var turnsAtCompletion int
	llm := llmFunc(func(_ context.Context, _ Prompt) (string, error) {
		for _, c := range agent.Conversations().convs {
			turnsAtCompletion = len(c.Turns)
		}
		return "ok", nil
	})
	agent = testAgent(t, llm)

	_, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 1, turnsAtCompletion)
}

func TestRespondForwardsHistoryAndContext(t *testing.T) {
	var seen Prompt
	llm := llmFunc(func(_ context.Context, p Prompt) (string, error) {
		seen = p
		return "ok", nil
	})
	agent := testAgent(t, llm)

	first, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "tell me about energy"})
	require.NoError(t, err)
	_, err = agent.Respond(context.Background(), Request{
		DocumentID: "physics", User: "bob", Message: "go on", ConversationID: first.ConversationID,
	})
	require.NoError(t, err)

	assert.Contains(t, seen.System, "Intro to Physics")
	assert.Contains(t, seen.System, "ANNOTATION INSTRUCTIONS")
	require.Len(t, seen.History, 2)
	assert.Equal(t, "tell me about energy", seen.History[0].Content)
	assert.Equal(t, "ok", seen.History[1].Content)
	assert.Equal(t, "go on", seen.User)
}

func TestRespondGroundsPromptWithMatchingPages(t *testing.T) {
	var seen Prompt
	agent := testAgent(t, llmFunc(func(_ context.Context, p Prompt) (string, error) {
		seen = p
		return "ok", nil
	}))

	_, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "energy"})
	require.NoError(t, err)
	assert.Contains(t, seen.System, "[Page 2]")
	assert.Contains(t, seen.System, "energy and work")
}

// recordingEngine captures spoken text.
type recordingEngine struct {
	spoken []string
}

func (r *recordingEngine) Speak(text string, done func()) {
	r.spoken = append(r.spoken, text)
	if done != nil {
		done()
	}
}
func (r *recordingEngine) StopSpeaking()  {}
func (r *recordingEngine) Speaking() bool { return false }
func (r *recordingEngine) StartListening(func(string), func(error), func()) error {
	return nil
}
func (r *recordingEngine) StopListening() {}

func TestRespondSpeaksReplyWhenVoiceConfigured(t *testing.T) {
	agent := testAgent(t, scripted("Spoken answer. PAGE_REFERENCE: 2"))
	engine := &recordingEngine{}
	agent.UseVoice(engine)

	_, err := agent.Respond(context.Background(), Request{DocumentID: "physics", User: "bob", Message: "hi"})
	require.NoError(t, err)
	require.Len(t, engine.spoken, 1)
	// the spoken text is the cleaned reply, directives stripped
	assert.Equal(t, "Spoken answer.", engine.spoken[0])
}
