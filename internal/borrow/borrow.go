// Package borrow computes the possible-borrower relation: a conservative,
// transitively closed over-approximation of which locals may hold a
// reference into another local.
//
// Edges come from one forward pass over all blocks in arbitrary order.
// Because a block later in the layout may borrow a local assigned earlier,
// the transitive closure is taken only after the full pass, never
// incrementally in program order. Reference-reassignment cycles are
// harmless: the closure is computed over an explicit edge set, not by
// chasing pointers.
package borrow

import (
	"golang.org/x/tools/container/intsets"

	"github.com/mirlint/redundantclone/ir"
	"github.com/mirlint/redundantclone/internal/dataflow"
)

// Oracle is the slice of the type oracle this pass needs.
type Oracle interface {
	// CanCarryReference reports whether values of t may embed a reference
	// into another local.
	CanCarryReference(t ir.Type) bool
	// IsTriviallyDuplicable reports whether t copies implicitly. Such
	// locals are never borrowed from in any way this analysis cares about.
	IsTriviallyDuplicable(t ir.Type) bool
}

// Relation answers borrower-set queries against storage liveness.
type Relation struct {
	// rows maps each tracked local to the closed set of its possible
	// borrowers.
	rows map[ir.Local]*intsets.Sparse

	live *dataflow.Cursor

	// query scratch, reused across calls
	got, want intsets.Sparse
	buf       []int
}

// Collect runs the edge pass over proc, closes the relation and binds it
// to the given storage-liveness cursor.
func Collect(proc *ir.Procedure, oracle Oracle, live *dataflow.Cursor) *Relation {
	c := collector{
		proc:   proc,
		oracle: oracle,
		edges:  make(map[ir.Local]*intsets.Sparse),
	}
	for _, blk := range proc.Blocks {
		for _, s := range blk.Stmts {
			if a, ok := s.(*ir.Assign); ok {
				c.assign(a)
			}
		}
		if call, ok := blk.Term.(*ir.Call); ok {
			c.call(call)
		}
	}
	return c.close(live)
}

// collector gathers direct borrow edges, keyed by the borrowed local.
type collector struct {
	proc   *ir.Procedure
	oracle Oracle
	edges  map[ir.Local]*intsets.Sparse
}

func (c *collector) add(borrowed, borrower ir.Local) {
	set := c.edges[borrowed]
	if set == nil {
		set = new(intsets.Sparse)
		c.edges[borrowed] = set
	}
	set.Insert(int(borrower))
}

// assign emits edges for one assignment.
//
//	b = &a          a -> b
//	b = rvalue      r -> b for every local r the rvalue reads, but only
//	                when b's type can carry a reference
func (c *collector) assign(a *ir.Assign) {
	lhs := a.Place.Local
	if ref, ok := a.Rvalue.(*ir.Ref); ok {
		c.add(ref.Place.Local, lhs)
		return
	}
	if !c.oracle.CanCarryReference(a.Place.Type(c.proc)) {
		return
	}
	ir.RvalueOperands(a.Rvalue, func(op ir.Operand) {
		if p, ok := ir.OperandPlace(op); ok && p.Local != lhs {
			c.add(p.Local, lhs)
		}
	})
}

// call conservatively treats a reference-carrying call result as borrowing
// every argument: for dest = callee(args...), each local read among args
// gains dest as a possible borrower.
func (c *collector) call(call *ir.Call) {
	if call.Dest == nil {
		return
	}
	dest := call.Dest.Local
	if !c.oracle.CanCarryReference(c.proc.LocalType(dest)) {
		return
	}
	for _, op := range call.Args {
		if p, ok := ir.OperandPlace(op); ok {
			c.add(p.Local, dest)
		}
	}
}

// close computes the transitive closure of the edge set, one row per
// non-trivially-duplicable local that has at least one borrower. The
// return slot (local 0) never appears as a borrower.
func (c *collector) close(live *dataflow.Cursor) *Relation {
	r := &Relation{
		rows: make(map[ir.Local]*intsets.Sparse),
		live: live,
	}

	var stack, buf []int
	for l := 1; l < len(c.proc.Locals); l++ {
		local := ir.Local(l)
		if c.oracle.IsTriviallyDuplicable(c.proc.LocalType(local)) {
			continue
		}
		if c.edges[local] == nil {
			continue
		}

		row := new(intsets.Sparse)
		stack = append(stack[:0], c.edges[local].AppendTo(buf[:0])...)
		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if b == 0 || !row.Insert(b) {
				continue
			}
			if next := c.edges[ir.Local(b)]; next != nil {
				stack = append(stack, next.AppendTo(buf[:0])...)
			}
		}

		if !row.IsEmpty() {
			r.rows[local] = row
		}
	}
	return r
}

// OnlyBorrowers reports whether the borrowers of borrowed whose storage is
// live at location at are exactly the candidates. This answers "is this
// call site the last remaining reference path into borrowed?"
//
// A local with no recorded borrowers yields false: the candidates
// themselves are expected to be among them.
func (r *Relation) OnlyBorrowers(candidates []ir.Local, borrowed ir.Local, at ir.Location) bool {
	row, ok := r.rows[borrowed]
	if !ok {
		return false
	}

	r.live.SeekTo(at)

	r.got.Clear()
	r.buf = row.AppendTo(r.buf[:0])
	for _, b := range r.buf {
		if r.live.Has(ir.Local(b)) {
			r.got.Insert(b)
		}
	}

	r.want.Clear()
	for _, c := range candidates {
		r.want.Insert(int(c))
	}

	return r.got.Equals(&r.want)
}

// Borrowers returns the closed borrower set for borrowed, or nil if none
// was recorded. The returned set must not be mutated.
func (r *Relation) Borrowers(borrowed ir.Local) *intsets.Sparse {
	return r.rows[borrowed]
}
