package zakupki

import "strings"

const (
	// NoteHeader opens every non-empty missing-field note.
	NoteHeader    = "Не удалось найти:"
	noteSeparator = "\n"
)

// Note accumulates the human readable lines describing the fields a single
// record failed to populate. A Note belongs to exactly one record, create a
// new one with NewNote for every listing.
type Note struct {
	body  strings.Builder
	lines int
}

func NewNote() *Note {
	return &Note{}
}

// Write appends a line to the note. Only lines after the first one are
// preceded by the separator.
func (n *Note) Write(line string) {
	if line == "" {
		return
	}
	if n.lines > 0 {
		n.body.WriteString(noteSeparator)
	}
	n.body.WriteString(line)
	n.lines++
}

// Len returns the amount of lines written so far.
func (n *Note) Len() int {
	return n.lines
}

// Body returns the written lines without the header.
func (n *Note) Body() string {
	return n.body.String()
}

// String renders the note as it is stored on a record, it is "" when nothing
// was written.
func (n *Note) String() string {
	if n.lines == 0 {
		return ""
	}
	return NoteHeader + noteSeparator + n.body.String()
}
