package ir

import "fmt"

// Builder assembles a Procedure incrementally. Front-ends (and tests)
// declare locals, create blocks, append statements and finally seal each
// block with a terminator.
type Builder struct {
	proc *Procedure
}

// NewBuilder starts a procedure with the given return type (slot 0) and
// argument types (slots 1..len(args)).
func NewBuilder(ret Type, args ...Type) *Builder {
	locals := make([]LocalSlot, 0, len(args)+1)
	locals = append(locals, LocalSlot{Type: ret})
	for _, t := range args {
		locals = append(locals, LocalSlot{Type: t})
	}
	return &Builder{proc: &Procedure{
		Locals:   locals,
		ArgCount: len(args),
	}}
}

// NewLocal declares a fresh local slot of type t.
func (b *Builder) NewLocal(t Type) Local {
	b.proc.Locals = append(b.proc.Locals, LocalSlot{Type: t})
	return Local(len(b.proc.Locals) - 1)
}

// NewBlock appends an empty block and returns its id. The first block
// created is the entry block.
func (b *Builder) NewBlock() BlockID {
	b.proc.Blocks = append(b.proc.Blocks, &BasicBlock{})
	return BlockID(len(b.proc.Blocks) - 1)
}

// Assign appends place = rv to block bb.
func (b *Builder) Assign(bb BlockID, place Place, rv Rvalue, sp Span) {
	b.append(bb, &Assign{Place: place, Rvalue: rv, Source: sp})
}

// StartStorage appends a StorageStart for l to block bb.
func (b *Builder) StartStorage(bb BlockID, l Local) {
	b.append(bb, &StorageStart{Local: l})
}

// EndStorage appends a StorageEnd for l to block bb.
func (b *Builder) EndStorage(bb BlockID, l Local) {
	b.append(bb, &StorageEnd{Local: l})
}

// Terminate seals block bb with t. Each block is sealed exactly once.
func (b *Builder) Terminate(bb BlockID, t Terminator) {
	blk := b.proc.Blocks[bb]
	if blk.Term != nil {
		panic("ir: block already terminated")
	}
	blk.Term = t
}

// Finish returns the built procedure. All blocks must be sealed.
func (b *Builder) Finish() *Procedure {
	for i, blk := range b.proc.Blocks {
		if blk.Term == nil {
			panic(fmt.Sprintf("ir: unterminated block %d", i))
		}
	}
	return b.proc
}

func (b *Builder) append(bb BlockID, s Statement) {
	blk := b.proc.Blocks[bb]
	if blk.Term != nil {
		panic("ir: append to terminated block")
	}
	blk.Stmts = append(blk.Stmts, s)
}
