package scan

import "github.com/mirlint/redundantclone/ir"

// callWithRefArg matches y = f(move x) where x is a reference to a
// non-trivially-duplicable value, and returns x's base local and pointee
// type. Calls with any other arity or argument shape do not match.
func (s *Scanner) callWithRefArg(call *ir.Call) (arg ir.Local, pointee ir.Type, ok bool) {
	if len(call.Args) != 1 {
		return 0, nil, false
	}
	mv, isMove := call.Args[0].(*ir.Move)
	if !isMove {
		return 0, nil, false
	}
	inner, depth := ir.Pointee(mv.Place.Type(s.proc))
	if depth != 1 {
		return 0, nil, false
	}
	if s.oracle.IsTriviallyDuplicable(inner) {
		return 0, nil, false
	}
	return mv.Place.Local, inner, true
}

// findAssignTo searches bb's statements backwards for the first assignment
// to the local `to` and matches its right-hand side:
//
//	byRef:  to = &place
//	!byRef: to = copy place
//
// On a match it returns place's base local together with the movability
// verdict for place. The first assignment to `to` decides; a different
// right-hand-side shape there fails the match.
func (s *Scanner) findAssignTo(bb ir.BlockID, to ir.Local, byRef bool) (ir.Local, bool, bool) {
	stmts := s.proc.Block(bb).Stmts
	for i := len(stmts) - 1; i >= 0; i-- {
		a, isAssign := stmts[i].(*ir.Assign)
		if !isAssign || a.Place.Local != to {
			continue
		}

		if byRef {
			if ref, isRef := a.Rvalue.(*ir.Ref); isRef {
				base, cannotMove := s.baseAndMovability(ref.Place)
				return base, cannotMove, true
			}
		} else if use, isUse := a.Rvalue.(*ir.Use); isUse {
			if cp, isCopy := use.X.(*ir.Copy); isCopy {
				base, cannotMove := s.baseAndMovability(cp.Place)
				return base, cannotMove, true
			}
		}
		return 0, false, false
	}
	return 0, false, false
}

// baseAndMovability returns the undermost base local of place and whether
// the place cannot be moved out of.
//
// Moving is denied when any projection step dereferences (the value is
// only reachable through a borrow) or accesses a field of an aggregate
// with a destructor (a partial move would leave the destructor with a
// half-taken value).
func (s *Scanner) baseAndMovability(place ir.Place) (ir.Local, bool) {
	deref := false
	field := false

	for i := len(place.Projection) - 1; i >= 0; i-- {
		switch place.Projection[i].(type) {
		case ir.Deref:
			deref = true
		case ir.Field:
			if s.oracle.HasDestructor(place.PrefixType(s.proc, i)) {
				field = true
			}
		}
	}
	return place.Local, deref || field
}
