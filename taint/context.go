// Package taint is the core of the tainted-storage detector: an
// interprocedural, flow- and control-sensitive taint engine that tracks
// data derived from gasleft(), the gas-related tx/block globals, CREATE2
// deployments, and msg.sender.balance into contract storage writes.
//
// The engine is written against package ir only; it never parses source
// text, never evaluates arithmetic, and never performs symbolic execution
// (see spec.md Non-goals). Its shape mirrors gosec's taint.Analyzer: a
// small struct of memoization maps walked recursively with explicit
// recursion guards, rather than a generic dataflow-framework fixpoint
// solver — appropriate here because a function's CFG is walked once, not
// iterated to a fixpoint.
package taint

import "github.com/mokita-j/tainted-storage/ir"

// stateWrite is one tainted state-variable write discovered during a
// function analysis pass: the variable, the node that wrote it, and the
// (function-scoped, memoised) reason string. This is the engine-internal
// form of spec §3's "findings" list; the driver (C9) turns it into the
// externally visible issue.Finding.
type stateWrite struct {
	Variable *ir.StateVariable
	Node     *ir.Node
	Reason   string
}

// seenKey is the dedup key spec §3 invariant 5 and §4.4/§4.6 both use:
// (state variable canonical name, node identity).
type seenKey struct {
	canonicalName string
	nodeID        int
}

// Context is the per-function mutable state spec §3 "Taint Context"
// describes. A Context is created per function analysis and discarded at
// function end (spec §3 Lifecycle); it never outlives the call to
// analyzeFunction that owns it.
type Context struct {
	function *ir.Function

	tainted map[string]bool // VarKey -> tainted

	// msgSenderAliases tracks locals proven equal to msg.sender, keyed by
	// the local's VarKey (object identity, per spec §3).
	msgSenderAliases map[string]bool

	writes []stateWrite
	seen   map[seenKey]bool

	cachedReason *string
}

// newContext creates a fresh, empty context for one function pass.
func newContext(fn *ir.Function) *Context {
	return &Context{
		function:         fn,
		tainted:          make(map[string]bool),
		msgSenderAliases: make(map[string]bool),
		seen:             make(map[seenKey]bool),
	}
}

// IsTainted reports whether v is currently believed tainted.
func (c *Context) IsTainted(v ir.Variable) bool {
	if v == nil {
		return false
	}
	return c.tainted[ir.VarKey(v)]
}

// Mark records v as tainted. tainted only ever grows within one pass
// (spec §3 invariant 1).
func (c *Context) Mark(v ir.Variable) {
	if v == nil {
		return
	}
	c.tainted[ir.VarKey(v)] = true
}

// MarkIfAnyTainted taints lvalue iff any non-nil variable in reads is
// currently tainted (spec §4.2 mark_if_any).
func (c *Context) MarkIfAnyTainted(lvalue ir.Variable, reads []ir.Variable) {
	if lvalue == nil {
		return
	}
	for _, r := range reads {
		if r != nil && c.IsTainted(r) {
			c.Mark(lvalue)
			return
		}
	}
}

// IsMsgSender reports whether v is the msg.sender builtin itself or a
// local proven (by an earlier Assignment) to alias it (spec §4.2).
func (c *Context) IsMsgSender(v ir.Variable) bool {
	if v == nil {
		return false
	}
	if ir.IsMsgSenderComposed(v) {
		return true
	}
	return c.msgSenderAliases[ir.VarKey(v)]
}

// MarkMsgSenderAlias records that v is now known to alias msg.sender.
// Sender-alias status, once set, persists (spec §3 invariant 3).
func (c *Context) MarkMsgSenderAlias(v ir.Variable) {
	if v == nil {
		return
	}
	c.msgSenderAliases[ir.VarKey(v)] = true
}
