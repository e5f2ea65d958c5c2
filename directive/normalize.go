package directive

import (
	"fmt"
	"time"

	"github.com/rauleduardorivassanz/ai-tutor/annotation"
)

// Defaults for absent or mistyped fields. Width and height are deliberately
// small but visible, so a degenerate directive still renders something
// inspectable instead of nothing.
const (
	defaultWidth      = 10
	defaultHeight     = 5
	fallbackTextLimit = 100
)

// Context carries what the normalizer needs to know about the reply a
// directive came from.
type Context struct {
	// ReplyID identifies the assistant turn; combined with Index it makes
	// annotation ids unique within the reply and stable across re-renders.
	ReplyID string
	// Index is the directive's position in the reply, in source order.
	Index int
	// Page is the reply's page reference, 0 if the reply had none. Page-less
	// replies produce global annotations.
	Page int
	// FallbackText captions annotations whose directive carried no text,
	// truncated to the first fallbackTextLimit characters.
	FallbackText string
}

// Normalize turns a decoded directive payload into a well-formed
// Annotation. Every field is optional: absent or mistyped values fall back
// to defaults rather than rejecting the directive, and geometry is clamped
// to the page bounds. Only a structurally undecodable literal is ever
// rejected, and that happens upstream in the parser.
func Normalize(raw RawAnnotation, ctx Context) annotation.Annotation {
	a := annotation.Annotation{
		ID:        annotationID(ctx),
		Type:      annotation.TypeHighlight,
		Width:     defaultWidth,
		Height:    defaultHeight,
		Color:     annotation.AIDefaultColor,
		Text:      truncate(ctx.FallbackText, fallbackTextLimit),
		CreatedBy: annotation.OriginAI,
		Page:      ctx.Page,
		Timestamp: time.Now(),
	}

	if t, ok := stringField(raw, "type"); ok && annotation.ValidType(annotation.Type(t)) {
		a.Type = annotation.Type(t)
	}
	if v, ok := numberField(raw, "x"); ok {
		a.X = v
	}
	if v, ok := numberField(raw, "y"); ok {
		a.Y = v
	}
	if v, ok := numberField(raw, "width"); ok {
		a.Width = v
	}
	if v, ok := numberField(raw, "height"); ok {
		a.Height = v
	}
	if c, ok := stringField(raw, "color"); ok && c != "" {
		a.Color = c
	}
	if t, ok := stringField(raw, "text"); ok && t != "" {
		a.Text = t
	}

	return a.Clamped()
}

func annotationID(ctx Context) string {
	suffix := fmt.Sprintf("%s-%d", ctx.ReplyID, ctx.Index)
	if ctx.Page > 0 {
		return annotation.PageID(ctx.Page, suffix)
	}
	return suffix
}

func stringField(raw RawAnnotation, key string) (string, bool) {
	s, ok := raw[key].(string)
	return s, ok
}

func numberField(raw RawAnnotation, key string) (float64, bool) {
	f, ok := raw[key].(float64)
	return f, ok
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
