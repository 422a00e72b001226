package ir

// =============================================================================
// CFG queries
//
// Successor edges are derived from terminators. Predecessor lists and
// traversal orders are computed on demand; the Procedure itself stays
// immutable apart from the cached predecessor table.
// =============================================================================

// Predecessors returns the blocks with an edge into id. The table is built
// once per procedure and cached.
func (p *Procedure) Predecessors(id BlockID) []BlockID {
	if p.preds == nil {
		p.preds = make([][]BlockID, len(p.Blocks))
		for from, bb := range p.Blocks {
			for _, to := range bb.Term.Successors() {
				p.preds[to] = append(p.preds[to], BlockID(from))
			}
		}
	}
	return p.preds[id]
}

// ReversePostorder returns the blocks reachable from start in reverse
// postorder of a depth-first walk over successor edges. The first element
// is always start itself.
//
// Reverse postorder visits a block before any of its successors except
// along back-edges, which makes it the natural order both for forward
// dataflow iteration and for "is this value touched on any path after
// this point" scans.
func ReversePostorder(p *Procedure, start BlockID) []BlockID {
	seen := make([]bool, len(p.Blocks))
	post := make([]BlockID, 0, len(p.Blocks))

	var walk func(BlockID)
	walk = func(b BlockID) {
		seen[b] = true
		for _, succ := range p.Blocks[b].Term.Successors() {
			if !seen[succ] {
				walk(succ)
			}
		}
		post = append(post, b)
	}
	walk(start)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// CanReach reports whether dst is reachable from src by following
// successor edges. A block always reaches itself.
func (p *Procedure) CanReach(src, dst BlockID) bool {
	if src == dst {
		return true
	}

	visited := make([]bool, len(p.Blocks))
	queue := []BlockID{src}
	visited[src] = true

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]

		for _, succ := range p.Blocks[b].Term.Successors() {
			if succ == dst {
				return true
			}
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	return false
}
