package ir

// NodeType classifies a CFG node. Only a handful of values matter to the
// taint engine (IF/IFLOOP for control-flow taint and overwrite-elimination
// branch depth, ENDIF as the merge-node sentinel); the rest exist so a
// real frontend's full node-type vocabulary has somewhere to live.
type NodeType int

const (
	Begin NodeType = iota
	Expression
	If
	IfLoop
	EndIf
	StartLoop
	EndLoop
	Return
	Throw
	Placeholder // the `_;` modifier placeholder
	Other
)

func (t NodeType) String() string {
	switch t {
	case Begin:
		return "BEGIN"
	case Expression:
		return "EXPRESSION"
	case If:
		return "IF"
	case IfLoop:
		return "IFLOOP"
	case EndIf:
		return "ENDIF"
	case StartLoop:
		return "STARTLOOP"
	case EndLoop:
		return "ENDLOOP"
	case Return:
		return "RETURN"
	case Throw:
		return "THROW"
	case Placeholder:
		return "_"
	default:
		return "OTHER"
	}
}

// Node is a basic-block-like unit of a function's control-flow graph. It
// carries an ordered list of IR operations (Irs) and its successors
// (Sons), per spec §3 "CFG node".
type Node struct {
	ID   int
	Type NodeType
	Irs  []Operation
	Sons []*Node

	// fn is the owning function, set by Function.AddNode; nothing in the
	// module reads it.
	fn *Function
}

// StateVariablesWritten returns every state variable this node writes to,
// resolving reference-variable lvalues to their origin. This mirrors
// Slither's Node.state_variables_written, which the control-flow
// propagator (spec §4.6) consumes directly.
func (n *Node) StateVariablesWritten() []*StateVariable {
	var out []*StateVariable
	seen := map[string]bool{}
	for _, op := range n.Irs {
		lv, ok := op.(LValueOperation)
		if !ok || lv.LValue() == nil {
			continue
		}
		target := Resolve(lv.LValue())
		sv, ok := target.(*StateVariable)
		if !ok {
			continue
		}
		if seen[sv.CanonicalName()] {
			continue
		}
		seen[sv.CanonicalName()] = true
		out = append(out, sv)
	}
	return out
}

// String renders the node the way a pretty-printer would embed it in a
// finding's element sequence (spec §6): one line per IR operation.
func (n *Node) String() string {
	s := ""
	for i, op := range n.Irs {
		if i > 0 {
			s += "\n"
		}
		s += operationString(op)
	}
	return s
}

func operationString(op Operation) string {
	switch v := op.(type) {
	case *Assignment:
		return v.LV.VarName() + " = " + v.RValue.VarName()
	case *Binary:
		return v.LV.VarName() + " = " + v.Left.VarName() + " " + v.Op + " " + v.Right.VarName()
	case *Unary:
		return v.LV.VarName() + " = " + v.Op + v.RValue.VarName()
	case *TypeConversion:
		return v.LV.VarName() + " = convert(" + v.Variable.VarName() + ")"
	case *Index:
		return v.LV.VarName() + " = " + v.Left.VarName() + "[" + v.Right.VarName() + "]"
	case *Unpack:
		return v.LV.VarName() + " = unpack(tuple)"
	case *SolidityCall:
		name := ""
		if v.Function != nil {
			name = v.Function.Name
		}
		lv := ""
		if v.LV != nil {
			lv = v.LV.VarName() + " = "
		}
		return lv + name + "(...)"
	case *NewContract:
		lv := ""
		if v.LV != nil {
			lv = v.LV.VarName() + " = "
		}
		if v.CallSalt != nil {
			return lv + "new(...){salt: " + v.CallSalt.VarName() + "}"
		}
		return lv + "new(...)"
	case *InternalCall:
		name := ""
		if v.Function != nil {
			name = v.Function.CanonicalName
		}
		lv := ""
		if v.LV != nil {
			lv = v.LV.VarName() + " = "
		}
		return lv + name + "(...)"
	case *Condition:
		return "CONDITION " + v.Value.VarName()
	default:
		return "<ir>"
	}
}
