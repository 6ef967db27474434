package taint

import "github.com/mokita-j/tainted-storage/ir"

// writeRecord is one unconditional (depth-0) Assignment to a state
// variable, used only by removeOverwrittenFindings.
type writeRecord struct {
	nodeIndex int
	tainted   bool
}

// removeOverwrittenFindings implements spec §4.7 (C7): drop every finding
// for a state variable whose last unconditional (depth-0) write in the
// function is clean. Writes through a reference variable (map[k] = ...)
// are excluded, since overwriting map[k1] does not clean map[k2].
func removeOverwrittenFindings(fn *ir.Function, ctx *Context) {
	if len(ctx.writes) == 0 {
		return
	}

	depth := map[int]int{}
	d := 0
	for _, node := range fn.Nodes {
		switch node.Type {
		case ir.If, ir.IfLoop:
			depth[node.ID] = d
			d++
		case ir.EndIf:
			if d > 0 {
				d--
			}
			depth[node.ID] = d
		default:
			depth[node.ID] = d
		}
	}

	writesByVar := map[string][]writeRecord{}
	for _, node := range fn.Nodes {
		if depth[node.ID] != 0 {
			continue
		}
		for _, op := range node.Irs {
			asg, ok := op.(*ir.Assignment)
			if !ok || asg.LV == nil {
				continue
			}
			if _, isRef := asg.LV.(*ir.ReferenceVariable); isRef {
				continue
			}
			target := ir.Resolve(asg.LV)
			sv, ok := target.(*ir.StateVariable)
			if !ok {
				continue
			}
			cname := sv.CanonicalName()
			writesByVar[cname] = append(writesByVar[cname], writeRecord{
				nodeIndex: node.ID,
				tainted:   ctx.IsTainted(asg.RValue),
			})
		}
	}

	toRemove := map[string]bool{}
	for cname, ws := range writesByVar {
		if len(ws) == 0 {
			continue
		}
		last := ws[0]
		for _, w := range ws[1:] {
			if w.nodeIndex >= last.nodeIndex {
				last = w
			}
		}
		if !last.tainted {
			toRemove[cname] = true
		}
	}

	if len(toRemove) == 0 {
		return
	}

	kept := ctx.writes[:0:0]
	for _, w := range ctx.writes {
		if !toRemove[w.Variable.CanonicalName()] {
			kept = append(kept, w)
		}
	}
	ctx.writes = kept

	ctx.seen = map[seenKey]bool{}
	for _, w := range ctx.writes {
		ctx.seen[seenKey{canonicalName: w.Variable.CanonicalName(), nodeID: w.Node.ID}] = true
	}
}
