package directive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rauleduardorivassanz/ai-tutor/annotation"
)

func TestNormalizeDefaults(t *testing.T) {
	got := Normalize(RawAnnotation{"x": 20.0, "y": 30.0}, Context{ReplyID: "r1", FallbackText: "the reply"})

	assert.Equal(t, annotation.TypeHighlight, got.Type)
	assert.Equal(t, 20.0, got.X)
	assert.Equal(t, 30.0, got.Y)
	assert.Equal(t, 10.0, got.Width)
	assert.Equal(t, 5.0, got.Height)
	assert.NotEmpty(t, got.Color)
	assert.Equal(t, annotation.AIDefaultColor, got.Color)
	assert.Equal(t, annotation.OriginAI, got.CreatedBy)
}

func TestNormalizeAllFields(t *testing.T) {
	raw := RawAnnotation{
		"type": "circle", "x": 40.0, "y": 50.0,
		"width": 20.0, "height": 20.0,
		"color": "#dc2626", "text": "the important figure",
	}
	got := Normalize(raw, Context{ReplyID: "r1", Index: 1, Page: 4, FallbackText: "fallback"})

	assert.Equal(t, annotation.TypeCircle, got.Type)
	assert.Equal(t, "#dc2626", got.Color)
	assert.Equal(t, "the important figure", got.Text)
	assert.Equal(t, 4, got.Page)
	assert.Equal(t, "page-4-r1-1", got.ID)
}

func TestNormalizeWrongTypesFallBack(t *testing.T) {
	raw := RawAnnotation{"type": 7.0, "x": "twenty", "width": true}
	got := Normalize(raw, Context{ReplyID: "r1"})

	assert.Equal(t, annotation.TypeHighlight, got.Type)
	assert.Equal(t, 0.0, got.X)
	assert.Equal(t, 10.0, got.Width)
}

func TestNormalizeUnknownTypeFallsBack(t *testing.T) {
	got := Normalize(RawAnnotation{"type": "squiggle"}, Context{ReplyID: "r1"})
	assert.Equal(t, annotation.TypeHighlight, got.Type)
}

func TestNormalizeFallbackCaption(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := Normalize(RawAnnotation{}, Context{ReplyID: "r1", FallbackText: long})

	assert.Len(t, got.Text, 100)
}

func TestNormalizeGlobalWithoutPage(t *testing.T) {
	got := Normalize(RawAnnotation{}, Context{ReplyID: "r1", Index: 2})

	assert.Equal(t, 0, got.Page)
	assert.Equal(t, "r1-2", got.ID)
	assert.Equal(t, 0, got.EffectivePage())
}

func TestNormalizeClampsGeometry(t *testing.T) {
	got := Normalize(RawAnnotation{"x": 95.0, "width": 20.0}, Context{ReplyID: "r1"})

	assert.Equal(t, 95.0, got.X)
	assert.Equal(t, 5.0, got.Width)

	got = Normalize(RawAnnotation{"y": 120.0, "height": -4.0}, Context{ReplyID: "r1"})
	assert.Equal(t, 100.0, got.Y)
	assert.Equal(t, 0.0, got.Height)
}

func TestNormalizeIDsStableAndUnique(t *testing.T) {
	ctx := Context{ReplyID: "r9", Index: 0}
	a := Normalize(RawAnnotation{}, ctx)
	b := Normalize(RawAnnotation{}, ctx)
	assert.Equal(t, a.ID, b.ID) // stable across re-renders

	c := Normalize(RawAnnotation{}, Context{ReplyID: "r9", Index: 1})
	assert.NotEqual(t, a.ID, c.ID)
}
