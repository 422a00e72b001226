// Package dataflow implements a forward gen/kill dataflow solver over
// sparse bitsets, plus a random-access cursor over its results.
//
// The lattice is a set of local indices with union as join and the empty
// set as bottom. Transfer functions only ever insert or remove single
// elements, so every transfer is monotone and the worklist iteration
// terminates.
package dataflow

import (
	"golang.org/x/tools/container/intsets"

	"github.com/mirlint/redundantclone/ir"
)

// Problem describes one forward gen/kill analysis.
type Problem interface {
	// EntryFacts seeds the fact set at the procedure's entry point.
	EntryFacts(set *intsets.Sparse)
	// StatementEffect applies the statement's transfer function to set.
	StatementEffect(s ir.Statement, set *intsets.Sparse)
	// TerminatorEffect applies the terminator's transfer function to set.
	TerminatorEffect(t ir.Terminator, set *intsets.Sparse)
}

// Result holds the solved per-block entry facts.
type Result struct {
	proc    *ir.Procedure
	problem Problem
	onEntry []intsets.Sparse
}

// Solve runs worklist fixpoint iteration until no block's entry set
// changes. Blocks are seeded in reverse postorder so most facts settle in
// the first sweep; back-edges re-queue their targets.
func Solve(proc *ir.Procedure, p Problem) *Result {
	r := &Result{
		proc:    proc,
		problem: p,
		onEntry: make([]intsets.Sparse, len(proc.Blocks)),
	}
	p.EntryFacts(&r.onEntry[proc.Entry])

	order := ir.ReversePostorder(proc, proc.Entry)
	queued := make([]bool, len(proc.Blocks))
	queue := make([]ir.BlockID, len(order))
	copy(queue, order)
	for _, b := range order {
		queued[b] = true
	}

	var exit intsets.Sparse
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		queued[b] = false

		blk := proc.Block(b)
		exit.Copy(&r.onEntry[b])
		for _, s := range blk.Stmts {
			p.StatementEffect(s, &exit)
		}
		p.TerminatorEffect(blk.Term, &exit)

		for _, succ := range blk.Term.Successors() {
			// UnionWith reports growth, which doubles as the
			// convergence check.
			if r.onEntry[succ].UnionWith(&exit) && !queued[succ] {
				queued[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	return r
}

// EntrySet returns the solved fact set at the entry of block b. The
// returned set is owned by the Result and must not be mutated.
func (r *Result) EntrySet(b ir.BlockID) *intsets.Sparse {
	return &r.onEntry[b]
}

// Cursor replays statement effects from block entries to answer fact
// queries at arbitrary locations, in any order.
//
// Call sites are scanned in block order but liveness is needed at
// specific, possibly out-of-order points, so a plain forward sweep is not
// enough. Seeking forward within the current block is incremental;
// seeking backwards or to a different block restarts from that block's
// entry set.
type Cursor struct {
	res   *Result
	state intsets.Sparse
	block ir.BlockID
	index int
	valid bool
}

// Cursor returns a fresh cursor over the solved results.
func (r *Result) Cursor() *Cursor {
	return &Cursor{res: r}
}

// SeekTo positions the cursor just before the effect at loc: the facts
// reflect every statement of loc.Block preceding loc.Statement.
func (c *Cursor) SeekTo(loc ir.Location) {
	if !c.valid || c.block != loc.Block || loc.Statement < c.index {
		c.state.Copy(c.res.EntrySet(loc.Block))
		c.block = loc.Block
		c.index = 0
		c.valid = true
	}
	stmts := c.res.proc.Block(loc.Block).Stmts
	for ; c.index < loc.Statement; c.index++ {
		c.res.problem.StatementEffect(stmts[c.index], &c.state)
	}
}

// Has reports whether local l is in the fact set at the seeked location.
func (c *Cursor) Has(l ir.Local) bool {
	return c.state.Has(int(l))
}
