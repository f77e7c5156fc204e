package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// DisplayName collapses whitespace and title-cases a person name for
// greetings. An empty or all-whitespace input yields an empty string.
func DisplayName(name string) string {
	joined := strings.Join(strings.Fields(name), " ")
	if joined == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(joined))
}
