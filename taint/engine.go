package taint

import "github.com/mokita-j/tainted-storage/ir"

// analyzeFunction runs the three-phase taint pass spec §4 describes over
// fn and returns its tainted state-variable writes. It is called both by
// the Driver (C9) for each top-level analyzable function and recursively
// by the Call Summariser (C5) for callees — callers pass the same shared
// caches so memoisation holds across the whole compilation unit.
func analyzeFunction(fn *ir.Function, cs *caches) []stateWrite {
	ctx := newContext(fn)

	// Phase 1: forward data-flow taint, node by node, in CFG order.
	for _, node := range fn.Nodes {
		processNodeDataFlow(node, ctx, cs)
	}

	// Phase 2: control-flow taint (branches with tainted conditions).
	propagateControlFlowTaint(fn, ctx)

	// Phase 3: drop findings overwritten by a later clean write.
	removeOverwrittenFindings(fn, ctx)

	return ctx.writes
}
