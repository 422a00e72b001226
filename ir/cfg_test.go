package ir

import "testing"

var unit = Named{Name: "unit"}

// chain builds bb0 -> bb1 -> bb2 -> return.
func chain(t *testing.T) *Procedure {
	t.Helper()
	b := NewBuilder(unit)
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	bb2 := b.NewBlock()
	b.Terminate(bb0, &Goto{Target: bb1})
	b.Terminate(bb1, &Goto{Target: bb2})
	b.Terminate(bb2, &Return{})
	return b.Finish()
}

// diamond builds bb0 -> {bb1, bb2} -> bb3 -> return.
func diamond(t *testing.T) *Procedure {
	t.Helper()
	b := NewBuilder(unit)
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	bb2 := b.NewBlock()
	bb3 := b.NewBlock()
	b.Terminate(bb0, &Branch{Cond: &Const{Type: unit}, Targets: []BlockID{bb1, bb2}})
	b.Terminate(bb1, &Goto{Target: bb3})
	b.Terminate(bb2, &Goto{Target: bb3})
	b.Terminate(bb3, &Return{})
	return b.Finish()
}

// loop builds bb0 -> bb1 -> {bb2, bb3}, bb2 -> bb1 (back-edge), bb3 -> return.
func loop(t *testing.T) *Procedure {
	t.Helper()
	b := NewBuilder(unit)
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	bb2 := b.NewBlock()
	bb3 := b.NewBlock()
	b.Terminate(bb0, &Goto{Target: bb1})
	b.Terminate(bb1, &Branch{Cond: &Const{Type: unit}, Targets: []BlockID{bb2, bb3}})
	b.Terminate(bb2, &Goto{Target: bb1})
	b.Terminate(bb3, &Return{})
	return b.Finish()
}

func TestCanReach_Chain(t *testing.T) {
	p := chain(t)

	if !p.CanReach(0, 2) {
		t.Error("bb0 should reach bb2")
	}
	if p.CanReach(2, 0) {
		t.Error("bb2 should not reach bb0")
	}
	if !p.CanReach(1, 1) {
		t.Error("a block should reach itself")
	}
}

func TestCanReach_Loop(t *testing.T) {
	p := loop(t)

	if !p.CanReach(2, 1) {
		t.Error("back-edge should make bb1 reachable from bb2")
	}
	if p.CanReach(3, 1) {
		t.Error("exit block should not reach the loop head")
	}
}

func TestPredecessors(t *testing.T) {
	p := diamond(t)

	preds := p.Predecessors(3)
	if len(preds) != 2 {
		t.Fatalf("expected 2 predecessors of bb3, got %v", preds)
	}
	if preds[0] != 1 || preds[1] != 2 {
		t.Errorf("expected [bb1 bb2], got %v", preds)
	}

	if got := p.Predecessors(0); len(got) != 0 {
		t.Errorf("entry block should have no predecessors, got %v", got)
	}
}

func TestReversePostorder_StartsAtOrigin(t *testing.T) {
	p := diamond(t)

	order := ReversePostorder(p, 0)
	if len(order) != 4 {
		t.Fatalf("expected 4 blocks, got %v", order)
	}
	if order[0] != 0 {
		t.Errorf("reverse postorder must start at the origin, got %v", order)
	}
	if order[3] != 3 {
		t.Errorf("join block must come last, got %v", order)
	}
}

func TestReversePostorder_OnlyReachable(t *testing.T) {
	p := diamond(t)

	// Starting mid-graph must not include the entry block.
	order := ReversePostorder(p, 1)
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("expected [bb1 bb3], got %v", order)
	}
}

func TestReversePostorder_Loop(t *testing.T) {
	p := loop(t)

	order := ReversePostorder(p, 0)
	if len(order) != 4 {
		t.Fatalf("expected all 4 blocks, got %v", order)
	}
	if order[0] != 0 {
		t.Errorf("expected bb0 first, got %v", order)
	}
}
