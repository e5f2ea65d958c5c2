// Package annotation holds the shared annotation model: the geometry records
// produced by both the AI directive pipeline and the interactive drawing
// engine, the ordered per-session store, and the overlay style mapping.
package annotation

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Type is the visual kind of an annotation.
type Type string

const (
	TypeHighlight Type = "highlight"
	TypeCircle    Type = "circle"
	TypeRectangle Type = "rectangle"
	TypeArrow     Type = "arrow"
)

// ValidType reports whether t is one of the known annotation kinds.
func ValidType(t Type) bool {
	switch t {
	case TypeHighlight, TypeCircle, TypeRectangle, TypeArrow:
		return true
	}
	return false
}

// Origin identifies who created an annotation.
type Origin string

const (
	OriginUser Origin = "user"
	OriginAI   Origin = "ai"
)

// Default colors. AI marks get their own alert color so they stay
// distinguishable from user marks even before CreatedBy is consulted.
const (
	UserHighlightColor = "#fbbf24"
	UserShapeColor     = "#dc2626"
	AIDefaultColor     = "#f97316"
)

// Annotation is one visual mark over a document page. Geometry is expressed
// in percentages (0-100) of the page's rendered bounds, so it survives zoom
// and resize. Page 0 means the mark is visible on every page.
type Annotation struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Color     string    `json:"color"`
	Text      string    `json:"text,omitempty"`
	CreatedBy Origin    `json:"createdBy"`
	Page      int       `json:"page,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Clamped returns a copy with geometry forced back inside the page bounds.
// A drag may legitimately run past an edge mid-gesture; commit-time callers
// clamp rather than reject.
func (a Annotation) Clamped() Annotation {
	a.X = clamp(a.X, 0, 100)
	a.Y = clamp(a.Y, 0, 100)
	if a.Width < 0 {
		a.Width = 0
	}
	if a.Height < 0 {
		a.Height = 0
	}
	if a.X+a.Width > 100 {
		a.Width = 100 - a.X
	}
	if a.Y+a.Height > 100 {
		a.Height = 100 - a.Y
	}
	return a
}

// EffectivePage resolves the page an annotation belongs to: the Page field
// when set, otherwise whatever its id encodes. 0 means global.
func (a Annotation) EffectivePage() int {
	if a.Page > 0 {
		return a.Page
	}
	if p, ok := PageFromID(a.ID); ok {
		return p
	}
	return 0
}

var pageIDRe = regexp.MustCompile(`^page-(\d+)-`)

// PageFromID decodes the page number from a `page-<N>-<suffix>` id. Ids
// without the prefix belong to no particular page.
func PageFromID(id string) (int, bool) {
	m := pageIDRe.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PageID builds a page-scoped annotation id.
func PageID(page int, suffix string) string {
	return fmt.Sprintf("page-%d-%s", page, suffix)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
