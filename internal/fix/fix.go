// Package fix turns an accepted call site into a suggested edit.
//
// The edit removes the trailing duplication call: given the source text of
// the whole call expression, everything from the last `.` separator to the
// end of the span is deleted, so ownership transfers instead:
//
//	path.join("c").buf_to_owned()
//	              ^^^^^^^^^^^^^^^ removed
//
// The edit is machine-applicable only when the removed text is a bare
// no-argument operation name; anything else needs human review.
package fix

import (
	"strings"

	"github.com/mirlint/redundantclone/ir"
)

// Edit is a suggested deletion within a call expression.
type Edit struct {
	// Span is the byte range to delete (last separator to end of call).
	Span ir.Span
	// NoteSpan covers the receiver part before the separator.
	NoteSpan ir.Span
	// Machine is true when the deletion is safe to apply unattended.
	Machine bool
}

// Locate computes the edit for a call expression whose source text is
// snippet and whose span is span. It fails when the snippet contains no
// `.` separator; the caller then reports without a suggestion.
func Locate(snippet string, span ir.Span) (Edit, bool) {
	dot := strings.LastIndexByte(snippet, '.')
	if dot < 0 {
		return Edit{}, false
	}

	edit := Edit{
		Span:     ir.Span{Start: span.Start + uint32(dot), End: span.End},
		NoteSpan: ir.Span{Start: span.Start, End: span.Start + uint32(dot)},
	}

	call := snippet[dot+1:]
	if strings.HasSuffix(call, "()") {
		name := strings.TrimSpace(call[:len(call)-2])
		edit.Machine = isBareName(name)
	}
	return edit, true
}

// isBareName reports whether s consists only of alphabetic and underscore
// characters.
func isBareName(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '_' && (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			return false
		}
	}
	return true
}
