package directive

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// The annotation grammar the tutor prompt documents is an object literal,
// not strict JSON: keys are unquoted and string values use single quotes
// ("{type: 'highlight', x: 20}"). A strict decoder would drop every
// directive that follows the documented format, so the literal is first
// rewritten into strict JSON and only then decoded.
var (
	singleQuotedRe = regexp.MustCompile(`'([^']*)'`)
	bareKeyRe      = regexp.MustCompile(`([{,]\s*)"?([A-Za-z_][A-Za-z0-9_]*)"?\s*:`)
)

func decodeLiteral(literal string) (RawAnnotation, error) {
	strict := singleQuotedRe.ReplaceAllString(literal, `"$1"`)
	strict = bareKeyRe.ReplaceAllString(strict, `$1"$2":`)

	var fields RawAnnotation
	if err := json.Unmarshal([]byte(strict), &fields); err != nil {
		return nil, fmt.Errorf("decode %q: %w", literal, err)
	}
	return fields, nil
}
