// Package directive implements the extraction protocol for commands the
// model embeds in its replies: PAGE_REFERENCE markers for navigation and
// ANNOTATION object literals for visual marks. Extraction is tolerant by
// construction; a malformed directive is stripped and skipped, never fatal.
package directive

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

var (
	pageRefRe    = regexp.MustCompile(`(?i)PAGE_REFERENCE:\s*(\d+)`)
	annotationRe = regexp.MustCompile(`(?i)ANNOTATION:\s*(\{[^}]*\})`)
)

// RawAnnotation is one decoded but not yet validated directive payload.
type RawAnnotation map[string]any

// Result is everything Parse pulled out of one reply.
type Result struct {
	// CleanedText is the reply with every directive stripped, including
	// malformed ones the user should never see.
	CleanedText string
	// Page is the first page reference found, 0 if none.
	Page int
	// RawAnnotations holds the decoded annotation payloads in the order
	// they appeared.
	RawAnnotations []RawAnnotation
}

// Parser extracts directives from model output.
type Parser struct {
	logger *log.Logger
}

func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{logger: logger}
}

// Parse scans raw for directives. The first page reference wins but every
// occurrence of the marker is stripped so none leak into the displayed
// text. Each ANNOTATION literal runs to the first closing brace; nested
// objects therefore truncate and fail to decode, which is the documented
// trade-off for never scanning past a malformed directive. Decode failures
// are logged and skipped without touching the rest of the batch.
func (p *Parser) Parse(raw string) Result {
	res := Result{}
	cleaned := raw

	if m := pageRefRe.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			res.Page = n
		}
	}
	cleaned = pageRefRe.ReplaceAllString(cleaned, "")

	for _, m := range annotationRe.FindAllStringSubmatch(raw, -1) {
		cleaned = strings.Replace(cleaned, m[0], "", 1)
		fields, err := decodeLiteral(m[1])
		if err != nil {
			p.logger.Printf("[directive] skipping malformed annotation: %v", err)
			continue
		}
		res.RawAnnotations = append(res.RawAnnotations, fields)
	}

	res.CleanedText = strings.TrimSpace(cleaned)
	return res
}
