package document

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns a PDF file into Content. It is an interface so tests can
// stub page text instead of shipping binary fixtures.
type Extractor interface {
	Extract(path string) (Content, error)
}

// US Letter, used when a page carries no usable media box.
const (
	defaultPageWidth  = 612
	defaultPageHeight = 792
)

// PDFExtractor extracts text with ledongthuc/pdf (pure Go, no CGO).
type PDFExtractor struct {
	logger *log.Logger
}

func NewPDFExtractor(logger *log.Logger) *PDFExtractor {
	if logger == nil {
		logger = log.Default()
	}
	return &PDFExtractor{logger: logger}
}

// Extract reads every page's plain text. Pages whose text extraction fails
// (image-only pages, odd encodings) are kept with empty text rather than
// failing the document.
func (e *PDFExtractor) Extract(path string) (Content, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Content{}, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]Page, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		page := Page{PageNumber: i, Width: defaultPageWidth, Height: defaultPageHeight}
		if !p.V.IsNull() {
			if w, h, ok := mediaBoxSize(p); ok {
				page.Width, page.Height = w, h
			}
			text, err := p.GetPlainText(nil)
			if err != nil {
				e.logger.Printf("[document] page %d of %s: text extraction failed: %v", i, path, err)
			} else {
				page.Text = strings.TrimSpace(text)
			}
		}
		pages = append(pages, page)
	}

	return Content{
		Title:      titleFromPath(path),
		TotalPages: total,
		Pages:      pages,
	}, nil
}

func mediaBoxSize(p pdf.Page) (float64, float64, bool) {
	box := p.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return 0, 0, false
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
