package domain

import "strings"

// Normalize canonicalizes raw command text: trimmed, lower-cased, internal
// whitespace collapsed to single spaces. Derived on demand, never stored.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(text))), " ")
}

// Hint carries weak clues extracted from a command, used only to narrow the
// target search. Either field may be empty.
type Hint struct {
	Type  ShapeType
	Color string
}

// Empty reports whether the hint carries no information.
func (h Hint) Empty() bool {
	return h.Type == "" && h.Color == ""
}

// Target is the shape a command has been resolved to act upon. It lives for
// the duration of one interpretation and is never persisted.
type Target struct {
	ID    string
	Shape Shape
}
