package annotation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawCommitNormalizesDirection(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)
	d.SetTool(ToolRectangle)

	// drag up and to the left
	d.PointerDown(50, 50)
	d.PointerMove(10, 10)
	got, committed := d.PointerUp()
	require.True(t, committed)

	assert.Equal(t, 10.0, got.X)
	assert.Equal(t, 10.0, got.Y)
	assert.Equal(t, 40.0, got.Width)
	assert.Equal(t, 40.0, got.Height)
	assert.Equal(t, OriginUser, got.CreatedBy)
	assert.Equal(t, 1, s.Len())
}

func TestDrawSubThresholdDiscarded(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)
	d.SetTool(ToolHighlight)

	d.PointerDown(20, 20)
	d.PointerMove(20.5, 20.5)
	_, committed := d.PointerUp()

	assert.False(t, committed)
	assert.Equal(t, 0, s.Len())
	assert.False(t, d.Drawing())
}

func TestDrawSelectToolNeverDraws(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)

	d.PointerDown(10, 10)
	assert.False(t, d.Drawing())
	d.PointerMove(40, 40)
	_, committed := d.PointerUp()
	assert.False(t, committed)
	assert.Equal(t, 0, s.Len())
}

func TestDrawToolChangeCancelsDraw(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)
	d.SetTool(ToolCircle)

	d.PointerDown(10, 10)
	d.PointerMove(40, 40)
	d.SetTool(ToolHighlight)

	assert.False(t, d.Drawing())
	_, committed := d.PointerUp()
	assert.False(t, committed)
	assert.Equal(t, 0, s.Len())
}

func TestDrawPageChangeCancelsDraw(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)
	d.SetTool(ToolRectangle)

	d.PointerDown(10, 10)
	d.SetPage(2)
	assert.False(t, d.Drawing())
}

func TestDrawColorsAndTypesByTool(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)

	d.SetTool(ToolHighlight)
	d.PointerDown(0, 0)
	cand, ok := d.Candidate()
	require.True(t, ok)
	assert.Equal(t, TypeHighlight, cand.Type)
	assert.Equal(t, UserHighlightColor, cand.Color)
	d.PointerUp()

	d.SetTool(ToolCircle)
	d.PointerDown(0, 0)
	cand, ok = d.Candidate()
	require.True(t, ok)
	assert.Equal(t, TypeCircle, cand.Type)
	assert.Equal(t, UserShapeColor, cand.Color)
}

func TestDrawCommittedIDEncodesPage(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)
	d.SetPage(3)
	d.SetTool(ToolRectangle)

	d.PointerDown(10, 10)
	d.PointerMove(30, 30)
	got, committed := d.PointerUp()
	require.True(t, committed)

	assert.True(t, strings.HasPrefix(got.ID, "page-3-"))
	assert.Equal(t, 3, got.Page)
	page, ok := PageFromID(got.ID)
	require.True(t, ok)
	assert.Equal(t, 3, page)
}

func TestDrawCommitClampsToPage(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)
	d.SetTool(ToolRectangle)

	// drag running past the right edge
	d.PointerDown(90, 10)
	d.PointerMove(110, 30)
	got, committed := d.PointerUp()
	require.True(t, committed)
	assert.Equal(t, 10.0, got.Width)
}

func TestDrawDistinctIDsAcrossCommits(t *testing.T) {
	s := NewStore()
	d := NewDrawer(s)
	d.SetTool(ToolRectangle)

	for i := 0; i < 3; i++ {
		d.PointerDown(10, 10)
		d.PointerMove(30, 30)
		_, committed := d.PointerUp()
		require.True(t, committed)
	}
	assert.Equal(t, 3, s.Len())
}
