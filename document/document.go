// Package document is the document-content collaborator: a per-user
// registry of PDFs with page counts, per-page text, and a small relevance
// search used to ground the tutor prompt.
package document

import "errors"

// Sentinel errors for the fatal request taxonomy. Callers branch on these:
// an unknown id is not the same failure as touching someone else's
// document.
var (
	ErrNotFound     = errors.New("document not found")
	ErrUnauthorized = errors.New("document access denied")
)

// Document is the registered metadata for one PDF.
type Document struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Path       string `json:"-"`
	Owner      string `json:"-"` // empty = shared with every user
	TotalPages int    `json:"total_pages"`
}

// Page is the extracted content of one page. Width and height are the
// page's media box in PDF points, kept so clients can compute aspect
// ratios for the percentage coordinate space.
type Page struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Content is a document's full extracted text.
type Content struct {
	Title      string `json:"title"`
	TotalPages int    `json:"total_pages"`
	Pages      []Page `json:"pages"`
}

// SearchHit is one page matching a search query.
type SearchHit struct {
	PageNumber int
	Text       string
	Score      int
}
