package scan

import (
	"testing"

	"github.com/mirlint/redundantclone/ir"
)

func TestUsedLater_ReadInSuccessor(t *testing.T) {
	b := ir.NewBuilder(unit)
	x := b.NewLocal(owned)
	a := b.NewLocal(ir.Reference{Elem: owned})
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	b.Terminate(bb0, &ir.Goto{Target: bb1})
	b.Assign(bb1, ir.PlaceOf(a), &ir.Ref{Place: ir.PlaceOf(x)}, ir.Span{})
	b.Terminate(bb1, &ir.Return{})
	proc := b.Finish()
	s := scannerFor(proc)

	if !s.usedLater(x, bb0) {
		t.Error("borrow of x in a successor block is a later use")
	}
	if !s.usedLater(a, bb0) {
		t.Error("overwriting a local keeps the slot in play")
	}
}

func TestUsedLater_OwnBlockSkipped(t *testing.T) {
	// Reads inside the starting block itself are already accounted for.
	b := ir.NewBuilder(unit)
	x := b.NewLocal(owned)
	a := b.NewLocal(ir.Reference{Elem: owned})
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	b.Assign(bb0, ir.PlaceOf(a), &ir.Ref{Place: ir.PlaceOf(x)}, ir.Span{})
	b.Terminate(bb0, &ir.Goto{Target: bb1})
	b.Terminate(bb1, &ir.Return{})
	proc := b.Finish()
	s := scannerFor(proc)

	if s.usedLater(x, bb0) {
		t.Error("the starting block must be skipped")
	}
}

func TestUsedLater_DropAndStorageAreNotUses(t *testing.T) {
	b := ir.NewBuilder(unit)
	x := b.NewLocal(owned)
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	bb2 := b.NewBlock()
	b.Terminate(bb0, &ir.Goto{Target: bb1})
	b.Terminate(bb1, &ir.Drop{Place: ir.PlaceOf(x), Next: bb2})
	b.EndStorage(bb2, x)
	b.Terminate(bb2, &ir.Return{})
	proc := b.Finish()
	s := scannerFor(proc)

	if s.usedLater(x, bb0) {
		t.Error("destructor runs and storage bookkeeping are not uses")
	}
}

func TestUsedLater_TerminatorReads(t *testing.T) {
	cond := ir.Named{Name: "bool"}

	b := ir.NewBuilder(owned)
	x := b.NewLocal(owned)
	c := b.NewLocal(cond)
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	bb2 := b.NewBlock()
	bb3 := b.NewBlock()
	b.Terminate(bb0, &ir.Goto{Target: bb1})
	b.Terminate(bb1, &ir.Branch{Cond: &ir.Copy{Place: ir.PlaceOf(c)}, Targets: []ir.BlockID{bb2, bb3}})
	b.Terminate(bb2, &ir.Return{Value: &ir.Move{Place: ir.PlaceOf(x)}})
	b.Terminate(bb3, &ir.Return{})
	proc := b.Finish()
	s := scannerFor(proc)

	if !s.usedLater(x, bb0) {
		t.Error("a Return operand reading x is a later use")
	}
	if !s.usedLater(c, bb0) {
		t.Error("a Branch condition reading c is a later use")
	}
}

func TestUsedLater_CallArgumentAndDest(t *testing.T) {
	b := ir.NewBuilder(unit)
	x := b.NewLocal(owned)
	y := b.NewLocal(owned)
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	bb2 := b.NewBlock()
	yPlace := ir.PlaceOf(y)
	b.Terminate(bb0, &ir.Goto{Target: bb1})
	b.Terminate(bb1, &ir.Call{
		Callee: "consume",
		Args:   []ir.Operand{&ir.Move{Place: ir.PlaceOf(x)}},
		Dest:   &yPlace,
		Next:   bb2,
	})
	b.Terminate(bb2, &ir.Return{})
	proc := b.Finish()
	s := scannerFor(proc)

	if !s.usedLater(x, bb0) {
		t.Error("a call argument reading x is a later use")
	}
	if !s.usedLater(y, bb0) {
		t.Error("a call overwriting y keeps the slot in play")
	}
}

func TestUsedLater_LoopBackIsConservative(t *testing.T) {
	// bb2 branches back to bb1; any path that can re-enter the starting
	// block counts as a later use without further inspection.
	b := ir.NewBuilder(unit)
	x := b.NewLocal(owned)
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	bb2 := b.NewBlock()
	bb3 := b.NewBlock()
	b.Terminate(bb0, &ir.Goto{Target: bb1})
	b.Terminate(bb1, &ir.Goto{Target: bb2})
	b.Terminate(bb2, &ir.Branch{Cond: &ir.Const{Type: unit}, Targets: []ir.BlockID{bb1, bb3}})
	b.Terminate(bb3, &ir.Return{})
	proc := b.Finish()
	s := scannerFor(proc)

	if !s.usedLater(x, bb1) {
		t.Error("a block that can jump back to the start must count as a use")
	}
}
