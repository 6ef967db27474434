package taint

import "github.com/mokita-j/tainted-storage/ir"

// processNodeDataFlow propagates taint across every IR operation within a
// single CFG node, in listed order, per spec §4.4. It is the intra-node
// data-flow propagator (C4).
func processNodeDataFlow(node *ir.Node, ctx *Context, cs *caches) {
	for _, op := range node.Irs {
		// Step 1: sender-alias tracking (only Assignment introduces a new
		// alias; spec §4.4 step 1).
		if asg, ok := op.(*ir.Assignment); ok {
			if ir.IsMsgSenderComposed(asg.RValue) || ctx.IsMsgSender(asg.RValue) {
				ctx.MarkMsgSenderAlias(asg.LV)
			}
		}

		// Step 2: gas-global seeding, before kind-dispatch (idempotent).
		if g := gasComposedSourceRead(op.Reads()); g != nil {
			ctx.Mark(g)
		}

		// Step 3: kind dispatch.
		if handled := dispatchOp(op, node, ctx, cs); handled {
			continue
		}

		// Step 4: fallback — any other lvalue op propagates from
		// non-constant reads.
		if lv, ok := op.(ir.LValueOperation); ok && lv.LValue() != nil {
			reads := ir.NonConstantReads(op.Reads())
			ctx.MarkIfAnyTainted(lv.LValue(), reads)
		}
	}

	// Step 5: post-pass write recording — rescan for any lvalue op that
	// resolves to a tainted state variable.
	for _, op := range node.Irs {
		if lv, ok := op.(ir.LValueOperation); ok && lv.LValue() != nil {
			maybeRecordStateWrite(lv.LValue(), node, ctx)
		}
	}
}

// dispatchOp handles the per-kind rules of spec §4.4 step 3. It returns
// true when the operation kind was recognised (whether or not it ended up
// tainting anything; for a SolidityCall, only when a source or
// hash/encode rule applied), so the caller skips the generic fallback — ordering
// that matters because source rules (gasleft/balance/hash) must run
// before the fallback would otherwise taint the same lvalue for the wrong
// reason.
func dispatchOp(op ir.Operation, node *ir.Node, ctx *Context, cs *caches) bool {
	switch v := op.(type) {
	case *ir.SolidityCall:
		return applySourceRules(ctx, v)

	case *ir.NewContract:
		if v.CallSalt != nil && v.LV != nil {
			ctx.Mark(v.LV)
		}
		return true

	case *ir.Assignment:
		if ctx.IsTainted(v.RValue) {
			ctx.Mark(v.LV)
			maybeRecordStateWrite(v.LV, node, ctx)
		}
		return true

	case *ir.Binary:
		ctx.MarkIfAnyTainted(v.LV, []ir.Variable{v.Left, v.Right})
		return true

	case *ir.Unary:
		if ctx.IsTainted(v.RValue) && v.LV != nil {
			ctx.Mark(v.LV)
		}
		return true

	case *ir.TypeConversion:
		if ctx.IsTainted(v.Variable) && v.LV != nil {
			ctx.Mark(v.LV)
		}
		if ctx.IsMsgSender(v.Variable) && v.LV != nil {
			ctx.MarkMsgSenderAlias(v.LV)
		}
		return true

	case *ir.Index:
		if (ctx.IsTainted(v.Right) || ctx.IsTainted(v.Left)) && v.LV != nil {
			ctx.Mark(v.LV)
		}
		return true

	case *ir.Unpack:
		if ctx.IsTainted(v.Tuple) && v.LV != nil {
			ctx.Mark(v.LV)
		}
		return true

	case *ir.InternalCall:
		handleInternalCall(v, node, ctx, cs)
		return true
	}
	return false
}

// maybeRecordStateWrite records a finding if lvalue resolves to a tainted
// state variable, deduped by (canonical name, node id) per spec §3
// invariant 5 / §4.4 step 5.
func maybeRecordStateWrite(lvalue ir.Variable, node *ir.Node, ctx *Context) {
	if lvalue == nil {
		return
	}
	target := ir.Resolve(lvalue)
	sv, ok := target.(*ir.StateVariable)
	if !ok || !ctx.IsTainted(lvalue) {
		return
	}
	key := seenKey{canonicalName: sv.CanonicalName(), nodeID: node.ID}
	if ctx.seen[key] {
		return
	}
	ctx.seen[key] = true
	ctx.writes = append(ctx.writes, stateWrite{Variable: sv, Node: node, Reason: inferReason(ctx)})
}
