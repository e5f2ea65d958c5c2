package annotation

// Style is the presentation geometry and decoration for one annotation,
// ready for a client to translate into its own drawing primitives. All
// box values are percentages of the page bounds.
type Style struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Fill         string `json:"fill,omitempty"` // background color with alpha, empty = transparent
	Border       string `json:"border"`
	BorderWidth  int    `json:"border_width"`
	CornerRadius int    `json:"corner_radius"`
	Rounded      bool   `json:"rounded"` // fully rounded, for circles
	Dashed       bool   `json:"dashed"`  // in-progress candidate
	AIMarker     bool   `json:"ai_marker"`
}

// StyleFor maps a committed annotation to its overlay style. It is pure:
// same annotation in, same style out.
func StyleFor(a Annotation) Style {
	s := Style{
		Left:     a.X,
		Top:      a.Y,
		Width:    a.Width,
		Height:   a.Height,
		Border:   a.Color,
		AIMarker: a.CreatedBy == OriginAI,
	}
	switch a.Type {
	case TypeCircle:
		s.BorderWidth = 3
		s.Rounded = true
	case TypeRectangle:
		s.BorderWidth = 3
	default:
		// highlight: translucent fill under a solid border
		s.Fill = a.Color + "40"
		s.BorderWidth = 2
		s.CornerRadius = 4
	}
	return s
}

// CandidateStyle is StyleFor with the dashed in-progress treatment.
func CandidateStyle(a Annotation) Style {
	s := StyleFor(a)
	s.Dashed = true
	return s
}
