package dataflow

import (
	"golang.org/x/tools/container/intsets"

	"github.com/mirlint/redundantclone/ir"
)

// StorageLive tracks which local slots have live backing storage, purely
// from StorageStart/StorageEnd markers. Whether the slot currently holds a
// meaningful value is a separate question this analysis never asks.
type StorageLive struct {
	proc *ir.Procedure
}

// NewStorageLive creates the storage-liveness problem for proc.
func NewStorageLive(proc *ir.Procedure) *StorageLive {
	return &StorageLive{proc: proc}
}

// EntryFacts marks all argument slots live on entry.
func (sl *StorageLive) EntryFacts(set *intsets.Sparse) {
	for i := 1; i <= sl.proc.ArgCount; i++ {
		set.Insert(i)
	}
}

// StatementEffect gens on StorageStart and kills on StorageEnd.
func (sl *StorageLive) StatementEffect(s ir.Statement, set *intsets.Sparse) {
	switch s := s.(type) {
	case *ir.StorageStart:
		set.Insert(int(s.Local))
	case *ir.StorageEnd:
		set.Remove(int(s.Local))
	}
}

// TerminatorEffect is a no-op: a call returning successfully does not by
// itself change storage liveness. The surrounding block's own storage
// markers account for the destination slot.
func (sl *StorageLive) TerminatorEffect(t ir.Terminator, set *intsets.Sparse) {}
