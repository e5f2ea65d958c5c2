package annotation

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Tool is the interactive drawing tool the user has selected.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolHighlight Tool = "highlight"
	ToolCircle    Tool = "circle"
	ToolRectangle Tool = "rectangle"
)

// MinCommitSize is the width/height threshold (in percent) below which a
// released drag is treated as an accidental click and discarded.
const MinCommitSize = 1.0

// Drawer turns pointer gestures into annotations on a Store. It is a two
// state machine: Idle until a pointer goes down with a drawing tool
// selected, Drawing until the pointer is released. Pointer coordinates are
// page-relative percentages, translated by the caller.
type Drawer struct {
	store *Store
	tool  Tool
	page  int

	drawing   bool
	anchorX   float64
	anchorY   float64
	candidate Annotation

	now func() time.Time
}

// NewDrawer creates an idle Drawer committing to store, with the select
// tool active and page 1 current.
func NewDrawer(store *Store) *Drawer {
	return &Drawer{store: store, tool: ToolSelect, page: 1, now: time.Now}
}

// Tool returns the active tool.
func (d *Drawer) Tool() Tool { return d.tool }

// SetTool switches the active tool. Switching mid-drag cancels the draw in
// progress: the candidate keeps the color and type of the tool that started
// it, so carrying it across a tool change would commit a stale shape.
func (d *Drawer) SetTool(t Tool) {
	if d.drawing {
		d.cancel()
	}
	d.tool = t
}

// Page returns the page new annotations are drawn onto.
func (d *Drawer) Page() int { return d.page }

// SetPage moves the drawer to another page, cancelling any draw in
// progress.
func (d *Drawer) SetPage(page int) {
	if d.drawing {
		d.cancel()
	}
	d.page = page
}

// PointerDown starts a draw at the anchor corner (x, y), unless the select
// tool is active, in which case it is a no-op.
func (d *Drawer) PointerDown(x, y float64) {
	if d.tool == ToolSelect || d.drawing {
		return
	}
	d.drawing = true
	d.anchorX = x
	d.anchorY = y
	d.candidate = Annotation{
		ID:        PageID(d.page, uuid.NewString()),
		Type:      toolType(d.tool),
		X:         x,
		Y:         y,
		Width:     0,
		Height:    0,
		Color:     toolColor(d.tool),
		CreatedBy: OriginUser,
		Page:      d.page,
		Timestamp: d.now(),
	}
}

// PointerMove updates the candidate rectangle. The anchor and the current
// position are reduced to min corner plus absolute extent, so drags in any
// of the four directions yield a well-formed non-negative rectangle.
func (d *Drawer) PointerMove(x, y float64) {
	if !d.drawing {
		return
	}
	d.candidate.X = math.Min(x, d.anchorX)
	d.candidate.Y = math.Min(y, d.anchorY)
	d.candidate.Width = math.Abs(x - d.anchorX)
	d.candidate.Height = math.Abs(y - d.anchorY)
}

// PointerUp ends the draw. The candidate is committed to the store only if
// both extents exceed MinCommitSize; anything smaller is an accidental
// click and is discarded silently. The committed annotation (clamped to
// page bounds) is returned along with whether a commit happened.
func (d *Drawer) PointerUp() (Annotation, bool) {
	if !d.drawing {
		return Annotation{}, false
	}
	cand := d.candidate
	d.cancel()
	if cand.Width <= MinCommitSize || cand.Height <= MinCommitSize {
		return Annotation{}, false
	}
	committed := cand.Clamped()
	if err := d.store.Add(committed); err != nil {
		return Annotation{}, false
	}
	return committed, true
}

// Drawing reports whether a drag is in progress.
func (d *Drawer) Drawing() bool { return d.drawing }

// Candidate returns the in-progress annotation, if any, for overlay
// rendering.
func (d *Drawer) Candidate() (Annotation, bool) {
	if !d.drawing {
		return Annotation{}, false
	}
	return d.candidate, true
}

func (d *Drawer) cancel() {
	d.drawing = false
	d.candidate = Annotation{}
}

func toolType(t Tool) Type {
	switch t {
	case ToolCircle:
		return TypeCircle
	case ToolRectangle:
		return TypeRectangle
	default:
		return TypeHighlight
	}
}

func toolColor(t Tool) string {
	if t == ToolHighlight {
		return UserHighlightColor
	}
	return UserShapeColor
}
