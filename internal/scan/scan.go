// Package scan walks every call terminator of a procedure and decides,
// per call site, whether it is a provably redundant duplication.
//
// A call site is accepted only when all of the following hold:
//
//  1. it matches a duplication-call shape (direct, or dereference-mediated
//     one block back),
//  2. the duplicated place can be moved out of,
//  3. the call's argument chain is the last live reference path into the
//     duplicated local, and
//  4. the local is never read again on any path after the call.
//
// Every check that cannot decide resolves to skipping the site. The scan
// under-reports, it never over-reports.
package scan

import (
	"github.com/mirlint/redundantclone/ir"
	"github.com/mirlint/redundantclone/internal/borrow"
	"github.com/mirlint/redundantclone/internal/debug"
)

// Oracle is the slice of the type oracle the scan needs.
type Oracle interface {
	// IsTriviallyDuplicable reports whether t copies implicitly.
	// Duplicating such a value is cheap and never reported.
	IsTriviallyDuplicable(t ir.Type) bool
	// HasDestructor reports whether t runs a destructor at scope end.
	HasDestructor(t ir.Type) bool
	// ClassifyCallee resolves a callee against the table of recognized
	// duplication/conversion operations. argType is the pointee of the
	// call's single reference argument.
	ClassifyCallee(callee ir.Callee, argType ir.Type) ir.CalleeClass
	// IsOwnedBuffer reports whether t is the owned half of one of the
	// recognized borrowed/owned buffer type pairs.
	IsOwnedBuffer(t ir.Type) bool
}

// Finding is one accepted call site.
type Finding struct {
	Block  ir.BlockID
	Span   ir.Span  // span of the whole call expression
	Cloned ir.Local // the local that could be moved instead
}

// Scanner holds the per-procedure state shared by all call-site checks.
type Scanner struct {
	proc    *ir.Procedure
	oracle  Oracle
	borrows *borrow.Relation
	trace   *debug.Collector
}

// New creates a Scanner over proc with precomputed borrower facts.
func New(proc *ir.Procedure, oracle Oracle, borrows *borrow.Relation, trace *debug.Collector) *Scanner {
	return &Scanner{proc: proc, oracle: oracle, borrows: borrows, trace: trace}
}

// Run scans all blocks in order and returns the accepted call sites.
func (s *Scanner) Run() []Finding {
	var findings []Finding

	for id := range s.proc.Blocks {
		bb := ir.BlockID(id)
		blk := s.proc.Block(bb)

		call, ok := blk.Term.(*ir.Call)
		if !ok {
			continue
		}

		if call.Source.Synthesized {
			continue
		}
		// Give up on self-loops.
		if selfLoop(call, bb) {
			continue
		}

		arg, argPointee, ok := s.callWithRefArg(call)
		if !ok {
			continue
		}

		class := s.oracle.ClassifyCallee(call.Callee, argPointee)
		fromBorrow := class == ir.CalleeClone || class == ir.CalleeToOwned || class == ir.CalleeStringify
		fromDeref := !fromBorrow && class == ir.CalleeToOwnedBuffer
		if !fromBorrow && !fromDeref {
			continue
		}

		// {cloned = &src; clone(move cloned)} or, for the deref-mediated
		// shape, {cloned = copy ref} with the reference produced one
		// block back.
		cloned, cannotMoveOut, ok := s.findAssignTo(bb, arg, fromBorrow)
		if !ok {
			s.trace.Skip(bb, "argument not produced by the expected assignment")
			continue
		}

		// The terminator's own program point.
		loc := ir.Location{Block: bb, Statement: len(blk.Stmts)}

		var local ir.Local
		if fromBorrow {
			// res = clone(arg) can become res = move cloned, provided
			// arg is the only live borrow of cloned at this point.
			s.trace.Shape(bb, "direct", cloned)

			if cannotMoveOut {
				s.trace.Skip(bb, "cannot move out of source place")
				continue
			}
			if !s.borrows.OnlyBorrowers([]ir.Local{arg}, cloned, loc) {
				s.trace.Skip(bb, "other live borrowers remain")
				continue
			}
			local = cloned
		} else {
			// arg is a reference produced by a deref call in the unique
			// predecessor block. Walk one block back to find the true
			// source of the conversion.
			src, ok := s.derefSource(bb, cloned, loc, arg)
			if !ok {
				continue
			}
			local = src
		}

		if s.usedLater(local, bb) {
			s.trace.Skip(bb, "value used later")
			continue
		}

		s.trace.Accept(bb, local, call.Source)
		findings = append(findings, Finding{Block: bb, Span: call.Source, Cloned: local})
	}

	return findings
}

// derefSource resolves the dereference-mediated shape:
//
//	bbPred:  predArg = &local
//	         cloned = deref(move predArg)     cloned: &BufView
//	bb:      arg = copy cloned
//	         res = buf_to_owned(move arg)
//
// The call can become res = move local when arg and cloned are the only
// live borrowers of local at the call. The shape deliberately requires a
// unique predecessor; generalizing to several predecessors is out of
// scope.
func (s *Scanner) derefSource(bb ir.BlockID, cloned ir.Local, loc ir.Location, arg ir.Local) (ir.Local, bool) {
	preds := s.proc.Predecessors(bb)
	if len(preds) != 1 {
		s.trace.Skip(bb, "deref shape needs a unique predecessor")
		return 0, false
	}
	pred := preds[0]

	predCall, ok := s.proc.Block(pred).Term.(*ir.Call)
	if !ok {
		return 0, false
	}
	predArg, predPointee, ok := s.callWithRefArg(predCall)
	if !ok {
		return 0, false
	}
	if predCall.Dest == nil || predCall.Dest.Local != cloned {
		return 0, false
	}
	if s.oracle.ClassifyCallee(predCall.Callee, predPointee) != ir.CalleeDeref {
		return 0, false
	}
	if !s.oracle.IsOwnedBuffer(predPointee) {
		return 0, false
	}

	local, cannotMoveOut, ok := s.findAssignTo(pred, predArg, true)
	if !ok {
		s.trace.Skip(bb, "deref receiver not produced by a borrow")
		return 0, false
	}
	s.trace.Shape(bb, "deref-mediated", local)

	if cannotMoveOut {
		s.trace.Skip(bb, "cannot move out of source place")
		return 0, false
	}
	// Both the intermediate reference and the call argument must be the
	// only borrowers left:
	//
	//	predArg = &local;
	//	cloned = deref(move predArg);
	//	arg = copy cloned;
	//	storage_end(predArg);
	//	res = buf_to_owned(move arg);
	if !s.borrows.OnlyBorrowers([]ir.Local{arg, cloned}, local, loc) {
		s.trace.Skip(bb, "other live borrowers remain")
		return 0, false
	}
	return local, true
}

func selfLoop(t ir.Terminator, bb ir.BlockID) bool {
	for _, succ := range t.Successors() {
		if succ == bb {
			return true
		}
	}
	return false
}
