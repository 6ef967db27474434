package taint

import "github.com/mokita-j/tainted-storage/ir"

// propagateControlFlowTaint implements spec §4.6 (C6): if an IF/IFLOOP
// node's condition is tainted, every state variable written anywhere in
// its branch body becomes a finding. require(...)-style guards lower to
// calls rather than IF/IFLOOP nodes, so they never trigger this rule —
// that is by design (spec §4.6), not an oversight.
func propagateControlFlowTaint(fn *ir.Function, ctx *Context) {
	for _, node := range fn.Nodes {
		if node.Type != ir.If && node.Type != ir.IfLoop {
			continue
		}

		condTainted := false
		for _, op := range node.Irs {
			if cond, ok := op.(*ir.Condition); ok && ctx.IsTainted(cond.Value) {
				condTainted = true
			}
			if lv, ok := op.(ir.LValueOperation); ok {
				reads := ir.NonConstantReads(op.Reads())
				for _, r := range reads {
					if ctx.IsTainted(r) {
						if lv.LValue() != nil {
							ctx.Mark(lv.LValue())
						}
						break
					}
				}
			}
		}

		if !condTainted {
			continue
		}

		for _, bn := range collectBranchBody(node) {
			for _, sv := range bn.StateVariablesWritten() {
				key := seenKey{canonicalName: sv.CanonicalName(), nodeID: bn.ID}
				if ctx.seen[key] {
					continue
				}
				ctx.seen[key] = true
				ctx.writes = append(ctx.writes, stateWrite{Variable: sv, Node: bn, Reason: inferReason(ctx)})
			}
		}
	}
}

// collectBranchBody walks from ifNode's successors until it hits an ENDIF
// merge node (exclusive), per spec §4.6.
func collectBranchBody(ifNode *ir.Node) []*ir.Node {
	var result []*ir.Node
	visited := map[*ir.Node]bool{ifNode: true}
	worklist := append([]*ir.Node(nil), ifNode.Sons...)

	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		if n.Type == ir.EndIf {
			continue
		}
		result = append(result, n)
		for _, son := range n.Sons {
			if !visited[son] {
				worklist = append(worklist, son)
			}
		}
	}
	return result
}
