package diag

import (
	"fmt"
	"regexp"
	"strconv"
)

// Location represents the position of a document node in the original
// build file. It enables precise error reporting with file, line, and
// column information.
type Location struct {
	File   string // Path to the build file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns a human-readable representation of the location.
// Format: "file:line:column"
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has valid file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Annotate prefixes a message with the line and column of the location.
// Messages without a known position are returned unchanged.
func (l Location) Annotate(message string) string {
	if l.Line <= 0 {
		return message
	}
	return fmt.Sprintf("%d:%d: %s", l.Line, l.Column, message)
}

var annotationPrefix = regexp.MustCompile(`^(\d+):(\d+): `)

// SplitAnnotation recovers the line and column from an annotated
// message, returning the position and the bare message. Messages
// without an annotation are returned unchanged with a zero position.
func SplitAnnotation(message string) (line, column int, bare string) {
	m := annotationPrefix.FindStringSubmatch(message)
	if m == nil {
		return 0, 0, message
	}
	line, _ = strconv.Atoi(m[1])
	column, _ = strconv.Atoi(m[2])
	return line, column, message[len(m[0]):]
}
