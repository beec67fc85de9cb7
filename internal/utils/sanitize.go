package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Submitted terms, definitions and comments are plain text; anything that
// looks like markup is stripped rather than escaped.
var strict = bluemonday.StrictPolicy()

func SanitizeText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
