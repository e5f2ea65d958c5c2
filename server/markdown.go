package server

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// markdownToHTML renders an assistant reply for clients that display rich
// text. The reply is already directive-stripped by the time it gets here.
func markdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
