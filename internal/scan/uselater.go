package scan

import "github.com/mirlint/redundantclone/ir"

// usedLater reports whether local is read again, other than being
// destructed, on any path after the call terminating block from.
//
// The walk is a reverse-postorder traversal starting at from, skipping
// from itself (the call already accounts for it). Any block with an edge
// back to from means a loop the analysis does not model precisely, so it
// conservatively counts as a later use.
func (s *Scanner) usedLater(local ir.Local, from ir.BlockID) bool {
	order := ir.ReversePostorder(s.proc, from)
	for _, tb := range order[1:] {
		blk := s.proc.Block(tb)

		for _, succ := range blk.Term.Successors() {
			if succ == from {
				return true
			}
		}
		if blockReads(blk, local) {
			return true
		}
	}
	return false
}

// blockReads reports whether any statement or the terminator of blk
// touches local outside of destructor runs and storage bookkeeping.
// Overwriting the local (or a projection of it) counts: the slot is still
// in play.
func blockReads(blk *ir.BasicBlock, local ir.Local) bool {
	for _, stmt := range blk.Stmts {
		a, ok := stmt.(*ir.Assign)
		if !ok {
			// StorageStart/StorageEnd are bookkeeping, not uses.
			continue
		}
		if a.Place.Local == local {
			return true
		}
		if ref, ok := a.Rvalue.(*ir.Ref); ok {
			if ref.Place.Local == local {
				return true
			}
			continue
		}
		if rvalueReads(a.Rvalue, local) {
			return true
		}
	}

	switch t := blk.Term.(type) {
	case *ir.Branch:
		return operandReads(t.Cond, local)
	case *ir.Call:
		for _, op := range t.Args {
			if operandReads(op, local) {
				return true
			}
		}
		if t.Dest != nil && t.Dest.Local == local {
			return true
		}
	case *ir.Return:
		if t.Value != nil {
			return operandReads(t.Value, local)
		}
	case *ir.Drop:
		// A destructor run is not a use.
	}
	return false
}

func rvalueReads(rv ir.Rvalue, local ir.Local) bool {
	found := false
	ir.RvalueOperands(rv, func(op ir.Operand) {
		if operandReads(op, local) {
			found = true
		}
	})
	return found
}

func operandReads(op ir.Operand, local ir.Local) bool {
	p, ok := ir.OperandPlace(op)
	return ok && p.Local == local
}
