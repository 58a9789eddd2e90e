package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var contentPolicy = bluemonday.StrictPolicy()

// SanitizeText removes any markup from user-generated text and trims it. Plain characters such as '<' or '&'
// survive, since clients render the text escaped.
func SanitizeText(text string) string {
	return strings.TrimSpace(html.UnescapeString(contentPolicy.Sanitize(text)))
}
