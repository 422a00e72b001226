// Package debug collects per-call-site traces of the analysis.
// Keeping it behind its own package isolates debug logic from the
// decision code; with the default nop logger every call is free.
package debug

import (
	"go.uber.org/zap"

	"github.com/mirlint/redundantclone/ir"
)

// Collector records why each call site was skipped or accepted.
type Collector struct {
	log *zap.Logger
}

// NewCollector creates a Collector writing to log. A nil log is replaced
// with a nop logger.
func NewCollector(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{log: log}
}

// Procedure traces the procedure about to be analyzed.
func (c *Collector) Procedure(proc *ir.Procedure) {
	if c.log.Core().Enabled(zap.DebugLevel) {
		c.log.Debug("analyzing procedure",
			zap.Int("blocks", len(proc.Blocks)),
			zap.Int("locals", len(proc.Locals)),
			zap.String("ir", ir.Format(proc)))
	}
}

// Skip traces a call site the scan gave up on.
func (c *Collector) Skip(bb ir.BlockID, reason string) {
	c.log.Debug("call site skipped",
		zap.Int("block", int(bb)),
		zap.String("reason", reason))
}

// Shape traces a recognized duplication-call shape.
func (c *Collector) Shape(bb ir.BlockID, shape string, cloned ir.Local) {
	c.log.Debug("duplication shape matched",
		zap.Int("block", int(bb)),
		zap.String("shape", shape),
		zap.Int("cloned", int(cloned)))
}

// Accept traces an accepted call site.
func (c *Collector) Accept(bb ir.BlockID, cloned ir.Local, span ir.Span) {
	c.log.Debug("redundant clone accepted",
		zap.Int("block", int(bb)),
		zap.Int("cloned", int(cloned)),
		zap.Uint32("start", span.Start),
		zap.Uint32("end", span.End))
}
