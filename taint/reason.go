package taint

import (
	"sort"
	"strings"

	"github.com/mokita-j/tainted-storage/ir"
)

// inferReason implements spec §4.8 (C8): compute, once per function
// (memoised on ctx), the ordered, deduplicated, comma-joined set of
// source labels reachable from the function's own body and every
// function it directly or transitively calls. Every finding produced by
// this function pass shares the same reason string (spec §3 invariant 4,
// §4.8, §9 "Reason inference is function-scoped").
func inferReason(ctx *Context) string {
	if ctx.cachedReason != nil {
		return *ctx.cachedReason
	}

	reasons := map[string]bool{}
	collectReasons(ctx.function, reasons, map[string]bool{})

	var ordered []string
	for r := range reasons {
		ordered = append(ordered, r)
	}
	sort.Strings(ordered)

	result := "tainted source"
	if len(ordered) > 0 {
		result = strings.Join(ordered, ", ")
	}
	ctx.cachedReason = &result
	return result
}

// collectReasons recursively walks fn and its internal callees (DFS,
// visited by canonical name) collecting source labels, per spec §4.8 /
// original_source's _collect_reasons.
func collectReasons(fn *ir.Function, reasons map[string]bool, visited map[string]bool) {
	key := fn.CanonicalName
	if visited[key] {
		return
	}
	visited[key] = true

	hasMsgSenderRef := false
	hasNonSenderBalance := false
	var callees []*ir.Function

	for _, node := range fn.Nodes {
		for _, op := range node.Irs {
			if asg, ok := op.(*ir.Assignment); ok {
				if ir.IsMsgSenderComposed(asg.RValue) {
					hasMsgSenderRef = true
				}
			}

			if g := gasComposedSourceRead(op.Reads()); g != nil {
				reasons[ir.GasComposedSources[g.Name]] = true
			}

			switch v := op.(type) {
			case *ir.SolidityCall:
				if isGasleftCall(v) {
					reasons["gasleft()"] = true
				}
				if isBalanceCall(v) && len(v.Arguments) > 0 {
					if c, ok := v.Arguments[0].(*ir.SolidityVariableComposed); ok && c.Equal(ir.MsgSender) {
						reasons["msg.sender.balance"] = true
					} else {
						hasNonSenderBalance = true
					}
				}
			case *ir.NewContract:
				if v.CallSalt != nil {
					reasons["CREATE2"] = true
				}
			case *ir.InternalCall:
				if v.Function != nil && v.Function.Nodes != nil {
					callees = append(callees, v.Function)
				}
			}
		}
	}

	if hasNonSenderBalance {
		if hasMsgSenderRef {
			reasons["msg.sender.balance"] = true
		} else {
			reasons["address.balance"] = true
		}
	}

	for _, callee := range callees {
		collectReasons(callee, reasons, visited)
	}
}
