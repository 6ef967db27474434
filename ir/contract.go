package ir

// Function is an ordered list of CFG nodes plus the identity fields spec
// §3/§6 require. Both regular functions and modifiers are represented by
// this type, matching Slither where a modifier is just a Function whose
// body happens to contain a Placeholder node.
type Function struct {
	CanonicalName    string
	Name             string
	Nodes            []*Node
	IsImplemented    bool
	ContractDeclarer *Contract
}

// NewFunction builds an (initially empty) function and wires each node's
// owning-function back-pointer as nodes are appended.
func NewFunction(canonicalName string, declarer *Contract) *Function {
	return &Function{CanonicalName: canonicalName, Name: canonicalName, ContractDeclarer: declarer, IsImplemented: true}
}

// AddNode appends a node to the function body, assigning it the next
// sequential ID (node order is load-bearing: spec §4.7 computes branch
// depth by a linear scan in this order).
func (f *Function) AddNode(n *Node) *Node {
	n.ID = len(f.Nodes)
	n.fn = f
	f.Nodes = append(f.Nodes, n)
	return n
}

// Contract groups declared functions, modifiers and state variables.
type Contract struct {
	Name               string
	FunctionsDeclared  []*Function
	ModifiersDeclared  []*Function
	// Modifiers includes both locally declared and inherited modifiers
	// (spec §4.9: "locally declared modifiers, and inherited modifiers").
	Modifiers          []*Function
	StateVariables     []*StateVariable
}

// AnalyzableFunctions returns the de-duplicated list of declared functions,
// declared modifiers, and inherited modifiers the driver analyzes, in that
// order, matching spec §4.9's "ordered de-duplicated analysis list".
func (c *Contract) AnalyzableFunctions() []*Function {
	seen := map[*Function]bool{}
	var out []*Function
	add := func(f *Function) {
		if f == nil || seen[f] {
			return
		}
		seen[f] = true
		out = append(out, f)
	}
	for _, f := range c.FunctionsDeclared {
		add(f)
	}
	for _, f := range c.ModifiersDeclared {
		add(f)
	}
	for _, f := range c.Modifiers {
		add(f)
	}
	return out
}

// CompilationUnit is the root the driver (C9) iterates: every derived
// (i.e. concrete, non-abstract-only) contract in the unit.
type CompilationUnit struct {
	ContractsDerived []*Contract
}
