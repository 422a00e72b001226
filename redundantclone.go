// Package redundantclone detects redundant duplication calls in a
// procedure lowered to the mid-level IR of package ir.
//
// A duplication is redundant when it clones an owned value immediately
// before the value, or the clone, is dropped without further use; the
// call could instead transfer ownership, or be omitted entirely.
// For every such call the analysis reports a diagnostic with a suggested
// edit that removes the duplication.
//
// The analysis is conservative: it may miss redundant duplications
// (loops, multiple predecessors, aliasing it cannot model), but it never
// claims a necessary duplication is redundant. Type facts and callee
// recognition are delegated to the caller's TypeOracle; diagnostics and
// source text flow through the caller's DiagnosticSink.
package redundantclone

import (
	"go.uber.org/zap"

	"github.com/mirlint/redundantclone/internal/borrow"
	"github.com/mirlint/redundantclone/internal/dataflow"
	"github.com/mirlint/redundantclone/internal/debug"
	"github.com/mirlint/redundantclone/internal/fix"
	"github.com/mirlint/redundantclone/internal/scan"
	"github.com/mirlint/redundantclone/ir"
)

// TypeOracle supplies the type and callee facts the analysis must not
// re-derive itself. The front-end that produced the IR owns them.
type TypeOracle interface {
	// IsTriviallyDuplicable reports whether copying t is a cheap bitwise
	// operation with no destructor implications.
	IsTriviallyDuplicable(t ir.Type) bool
	// HasDestructor reports whether t runs a destructor at scope end.
	HasDestructor(t ir.Type) bool
	// CanCarryReference reports whether values of t may embed a
	// reference into another local.
	CanCarryReference(t ir.Type) bool
	// ClassifyCallee resolves callee against the fixed table of
	// recognized duplication and conversion operations. argType is the
	// pointee of the call's single reference argument.
	ClassifyCallee(callee ir.Callee, argType ir.Type) ir.CalleeClass
	// IsOwnedBuffer reports whether t is the owned half of a recognized
	// borrowed/owned buffer type pair.
	IsOwnedBuffer(t ir.Type) bool
}

// DiagnosticSink receives the analysis results and provides source text
// for building suggestions.
type DiagnosticSink interface {
	// Snippet returns the source text covered by span, if available.
	Snippet(span ir.Span) (string, bool)
	// Report delivers one diagnostic.
	Report(d Diagnostic)
}

// Applicability states how safely a suggested edit can be applied.
type Applicability int

const (
	// NeedsReview marks an edit requiring human confirmation.
	NeedsReview Applicability = iota
	// Automatic marks an edit safe to apply unattended.
	Automatic
)

// String implements fmt.Stringer.
func (a Applicability) String() string {
	if a == Automatic {
		return "automatic"
	}
	return "needs-review"
}

// SuggestedEdit is a replacement proposal attached to a diagnostic.
type SuggestedEdit struct {
	Span          ir.Span
	NewText       string
	Message       string
	Applicability Applicability
}

// Note is a secondary explanation attached to a diagnostic.
type Note struct {
	Span    ir.Span
	Message string
}

// Diagnostic is one reported redundant duplication.
type Diagnostic struct {
	Span    ir.Span
	Message string
	Fix     *SuggestedEdit // nil when no edit could be built
	Note    *Note          // nil when no edit could be built
}

// Option configures Analyze.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger routes analysis debug traces to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// Analyze runs the redundant-duplication analysis over one procedure and
// reports every accepted call site to sink. All derived facts are
// procedure-local; nothing persists between calls and proc is never
// mutated.
func Analyze(proc *ir.Procedure, oracle TypeOracle, sink DiagnosticSink, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	trace := debug.NewCollector(o.log)
	trace.Procedure(proc)

	live := dataflow.Solve(proc, dataflow.NewStorageLive(proc))
	borrows := borrow.Collect(proc, oracle, live.Cursor())
	findings := scan.New(proc, oracle, borrows, trace).Run()

	for _, f := range findings {
		d := Diagnostic{Span: f.Span, Message: "redundant clone"}
		if snippet, ok := sink.Snippet(f.Span); ok {
			if edit, ok := fix.Locate(snippet, f.Span); ok {
				app := NeedsReview
				if edit.Machine {
					app = Automatic
				}
				d.Span = edit.Span
				d.Fix = &SuggestedEdit{
					Span:          edit.Span,
					NewText:       "",
					Message:       "remove this",
					Applicability: app,
				}
				d.Note = &Note{
					Span:    edit.NoteSpan,
					Message: "this value is dropped without further use",
				}
			}
		}
		sink.Report(d)
	}
}
