// Package ir defines the mid-level intermediate representation consumed by
// the redundant-clone analysis.
//
// A front-end lowers each procedure into a control-flow graph of basic
// blocks. Every block holds an ordered list of statements followed by
// exactly one terminator. Storage lifetimes are explicit (StorageStart /
// StorageEnd), operands distinguish ownership transfer (Move) from cheap
// duplication (Copy), and destructor runs appear as Drop terminators.
//
// By convention local 0 is the return slot and locals 1..ArgCount are the
// procedure arguments. The analysis never mutates a Procedure; it only
// derives per-run facts from it.
package ir

// Local identifies a local storage slot by index.
type Local int

// BlockID identifies a basic block by index.
type BlockID int

// Callee identifies a called operation. Front-ends use stable,
// fully-qualified names; the analysis only compares them through the
// type oracle's callee table.
type Callee string

// CalleeClass is the classification of a callee against the type oracle's
// table of recognized duplication and conversion operations.
type CalleeClass int

// Recognized callee classes. Everything else is CalleeUnknown.
const (
	// CalleeUnknown is any operation outside the table.
	CalleeUnknown CalleeClass = iota
	// CalleeClone is an explicit value duplication.
	CalleeClone
	// CalleeToOwned converts a borrowed value into an owned one.
	CalleeToOwned
	// CalleeStringify renders a borrowed string-like value into a fresh
	// owned string. Only classified as such when the argument's pointee is
	// the oracle's string type.
	CalleeStringify
	// CalleeToOwnedBuffer converts a borrowed buffer-like view into its
	// owned counterpart (one of the oracle's borrowed/owned buffer pairs).
	CalleeToOwnedBuffer
	// CalleeDeref converts a reference to an owned buffer into a reference
	// to its borrowed view.
	CalleeDeref
)

// Span is a byte range in the original source. Synthesized spans belong to
// compiler-generated code with no literal counterpart in the input.
type Span struct {
	Start, End  uint32
	Synthesized bool
}

// Location addresses a single program point: statement Statement of block
// Block. Statement == len(stmts) addresses the block's terminator.
type Location struct {
	Block     BlockID
	Statement int
}

// LocalSlot declares one local storage slot.
type LocalSlot struct {
	Type Type
}

// Procedure is a single lowered procedure. Blocks[Entry] is the entry block.
type Procedure struct {
	Locals   []LocalSlot
	ArgCount int
	Blocks   []*BasicBlock
	Entry    BlockID

	preds [][]BlockID // lazily built predecessor lists
}

// Block returns the basic block with the given id.
func (p *Procedure) Block(id BlockID) *BasicBlock { return p.Blocks[id] }

// LocalType returns the declared type of the given slot.
func (p *Procedure) LocalType(l Local) Type { return p.Locals[l].Type }

// BasicBlock is an ordered statement list with exactly one terminator.
type BasicBlock struct {
	Stmts []Statement
	Term  Terminator
}

// =============================================================================
// Statements
// =============================================================================

// Statement is one non-terminating instruction inside a basic block.
type Statement interface {
	Span() Span
	stmt()
}

// Assign stores the value of Rvalue into Place.
type Assign struct {
	Place  Place
	Rvalue Rvalue
	Source Span
}

// StorageStart marks the beginning of a slot's storage lifetime.
type StorageStart struct {
	Local  Local
	Source Span
}

// StorageEnd marks the end of a slot's storage lifetime. Any value still
// held is destructed here if its type has a destructor.
type StorageEnd struct {
	Local  Local
	Source Span
}

func (s *Assign) Span() Span       { return s.Source }
func (s *StorageStart) Span() Span { return s.Source }
func (s *StorageEnd) Span() Span   { return s.Source }

func (*Assign) stmt()       {}
func (*StorageStart) stmt() {}
func (*StorageEnd) stmt()   {}

// =============================================================================
// Places and operands
// =============================================================================

// Place is a base local plus a projection chain into it.
type Place struct {
	Local      Local
	Projection []Projection
}

// PlaceOf is shorthand for a projection-free place.
func PlaceOf(l Local) Place { return Place{Local: l} }

// Projection is one step of a place's projection chain.
type Projection interface{ proj() }

// Deref follows a reference.
type Deref struct{}

// Field selects field Index of an aggregate.
type Field struct{ Index int }

// Index selects an element of an array.
type Index struct{}

func (Deref) proj() {}
func (Field) proj() {}
func (Index) proj() {}

// Operand is a read of a place or a constant.
type Operand interface{ operand() }

// Copy reads a place without invalidating it. Only legal for trivially
// duplicable types.
type Copy struct{ Place Place }

// Move reads a place and invalidates it; well-formed input never reads the
// place again afterwards.
type Move struct{ Place Place }

// Const is a literal operand. It reads no local.
type Const struct{ Type Type }

func (*Copy) operand()  {}
func (*Move) operand()  {}
func (*Const) operand() {}

// OperandPlace returns the place read by op, if any.
func OperandPlace(op Operand) (Place, bool) {
	switch op := op.(type) {
	case *Copy:
		return op.Place, true
	case *Move:
		return op.Place, true
	default:
		return Place{}, false
	}
}

// =============================================================================
// Rvalues
// =============================================================================

// Rvalue is the right-hand side of an assignment.
type Rvalue interface{ rvalue() }

// Use yields the operand's value unchanged.
type Use struct{ X Operand }

// Ref creates a non-owning reference to Place. Ownership never transfers.
type Ref struct{ Place Place }

// Aggregate builds a composite value from operands.
type Aggregate struct{ Ops []Operand }

// BinaryOp combines two operands.
type BinaryOp struct{ LHS, RHS Operand }

// UnaryOp transforms one operand.
type UnaryOp struct{ X Operand }

// Cast converts an operand to To.
type Cast struct {
	X  Operand
	To Type
}

// Repeat builds an array by repeating the operand.
type Repeat struct {
	X     Operand
	Count int
}

func (*Use) rvalue()       {}
func (*Ref) rvalue()       {}
func (*Aggregate) rvalue() {}
func (*BinaryOp) rvalue()  {}
func (*UnaryOp) rvalue()   {}
func (*Cast) rvalue()      {}
func (*Repeat) rvalue()    {}

// RvalueOperands calls visit for every operand read by rv. Ref reads its
// place directly and is not reported here; callers that care about borrows
// handle *Ref before calling this.
func RvalueOperands(rv Rvalue, visit func(Operand)) {
	switch rv := rv.(type) {
	case *Use:
		visit(rv.X)
	case *Aggregate:
		for _, op := range rv.Ops {
			visit(op)
		}
	case *BinaryOp:
		visit(rv.LHS)
		visit(rv.RHS)
	case *UnaryOp:
		visit(rv.X)
	case *Cast:
		visit(rv.X)
	case *Repeat:
		visit(rv.X)
	}
}

// =============================================================================
// Terminators
// =============================================================================

// Terminator ends a basic block and names its successors.
type Terminator interface {
	Span() Span
	Successors() []BlockID
	term()
}

// Goto jumps unconditionally to Target.
type Goto struct {
	Target BlockID
	Source Span
}

// Branch transfers control to one of Targets depending on Cond.
type Branch struct {
	Cond    Operand
	Targets []BlockID
	Source  Span
}

// Call invokes Callee with Args, stores the result into Dest if non-nil,
// then continues at Next.
type Call struct {
	Callee Callee
	Args   []Operand
	Dest   *Place
	Next   BlockID
	Source Span
}

// Drop runs the destructor of Place and continues at Next. It is not a
// value read in the ordinary sense.
type Drop struct {
	Place  Place
	Next   BlockID
	Source Span
}

// Return leaves the procedure, optionally reading Value.
type Return struct {
	Value  Operand // may be nil
	Source Span
}

func (t *Goto) Span() Span   { return t.Source }
func (t *Branch) Span() Span { return t.Source }
func (t *Call) Span() Span   { return t.Source }
func (t *Drop) Span() Span   { return t.Source }
func (t *Return) Span() Span { return t.Source }

func (t *Goto) Successors() []BlockID   { return []BlockID{t.Target} }
func (t *Branch) Successors() []BlockID { return t.Targets }
func (t *Call) Successors() []BlockID   { return []BlockID{t.Next} }
func (t *Drop) Successors() []BlockID   { return []BlockID{t.Next} }
func (t *Return) Successors() []BlockID { return nil }

func (*Goto) term()   {}
func (*Branch) term() {}
func (*Call) term()   {}
func (*Drop) term()   {}
func (*Return) term() {}
