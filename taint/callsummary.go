package taint

import "github.com/mokita-j/tainted-storage/ir"

// handleInternalCall propagates taint through an InternalCall, per spec
// §4.5 (C5, the Interprocedural Call Summariser).
func handleInternalCall(call *ir.InternalCall, node *ir.Node, ctx *Context, cs *caches) {
	callee := call.Function
	if callee == nil || callee.Nodes == nil {
		return
	}

	anyArgTainted := false
	for _, a := range ir.NonConstantReads(call.Arguments) {
		if ctx.IsTainted(a) {
			anyArgTainted = true
			break
		}
	}

	calleeHasTaint := calleeIntroducesTaintCached(callee, cs)

	if (anyArgTainted || calleeHasTaint) && call.LV != nil {
		ctx.Mark(call.LV)
	}

	for _, sv := range calleeTaintedStateVars(callee, cs) {
		ctx.Mark(sv)
	}

	propagateCallerTaintThroughCallee(callee, ctx)
}

// calleeIntroducesTaintCached memoises calleeIntroducesTaint by the
// callee's canonical name.
func calleeIntroducesTaintCached(fn *ir.Function, cs *caches) bool {
	key := fn.CanonicalName
	if v, ok := cs.callTaint[key]; ok {
		return v
	}
	v := calleeIntroducesTaint(fn)
	cs.callTaint[key] = v
	return v
}

// calleeIntroducesTaint reports whether fn's body directly contains a
// taint source per spec §4.3 (gasleft, sender-balance, CREATE2, gas
// globals) — it does not recurse into callees of fn.
func calleeIntroducesTaint(fn *ir.Function) bool {
	for _, node := range fn.Nodes {
		for _, op := range node.Irs {
			switch v := op.(type) {
			case *ir.SolidityCall:
				if isGasleftCall(v) {
					return true
				}
				if isBalanceCall(v) && len(v.Arguments) > 0 {
					if c, ok := v.Arguments[0].(*ir.SolidityVariableComposed); ok && c.Equal(ir.MsgSender) {
						return true
					}
				}
			case *ir.NewContract:
				if v.CallSalt != nil {
					return true
				}
			}
			if gasComposedSourceRead(op.Reads()) != nil {
				return true
			}
		}
	}
	return false
}

// calleeTaintedStateVars returns the state variables fn taints, running a
// full per-function analysis on fn and caching the result by canonical
// name. The cache entry is pre-seeded with an empty slice before recursing
// so that cyclic/self-recursive calls terminate (spec §4.5 step 4, §9).
func calleeTaintedStateVars(fn *ir.Function, cs *caches) []*ir.StateVariable {
	key := fn.CanonicalName
	if cs.calleeStateSeeded[key] {
		return cs.calleeState[key]
	}

	cs.calleeStateSeeded[key] = true
	cs.calleeState[key] = nil

	if fn.ContractDeclarer == nil {
		return nil
	}

	writes := analyzeFunction(fn, cs)
	seen := map[string]bool{}
	var result []*ir.StateVariable
	for _, w := range writes {
		if seen[w.Variable.CanonicalName()] {
			continue
		}
		seen[w.Variable.CanonicalName()] = true
		result = append(result, w.Variable)
	}
	cs.calleeState[key] = result
	return result
}

// propagateCallerTaintThroughCallee scans callee's body once with a local
// taint set that starts empty: for every
// lvalue-writing op whose non-constant reads are tainted (in the caller's
// context, or in this local pass), the lvalue joins the local set, and if
// it resolves to a state variable, it is marked tainted in the caller.
// This is spec §4.5 step 5, capturing "helper A writes storage S; later
// helper B reads S and writes storage T".
func propagateCallerTaintThroughCallee(callee *ir.Function, ctx *Context) {
	local := map[string]bool{}
	for _, node := range callee.Nodes {
		for _, op := range node.Irs {
			lv, ok := op.(ir.LValueOperation)
			if !ok || lv.LValue() == nil {
				continue
			}
			reads := ir.NonConstantReads(op.Reads())
			tainted := false
			for _, r := range reads {
				if ctx.IsTainted(r) || local[ir.VarKey(r)] {
					tainted = true
					break
				}
			}
			if !tainted {
				continue
			}
			local[ir.VarKey(lv.LValue())] = true
			target := ir.Resolve(lv.LValue())
			if sv, ok := target.(*ir.StateVariable); ok {
				ctx.Mark(sv)
			}
		}
	}
}
