// Package templates normalizes help text for command descriptions.
package templates

import (
	"strings"

	"github.com/MakeNowJust/heredoc"
)

// LongDesc dedents and trims a command's long description so it can be
// written as an indented raw string literal next to the command definition.
func LongDesc(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(heredoc.Doc(s))
}
