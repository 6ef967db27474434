package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// This file implements the on-disk compilation-unit snapshot the CLI
// reads (spec's ambient "no source-text parsing" constraint means the
// detector never sees Solidity source; a real deployment would sit
// downstream of an actual frontend the way Slither's detectors sit
// downstream of slithir — here the snapshot plays that frontend's role).
//
// The schema is intentionally small: contracts, their state variables,
// and their functions' CFG nodes and operations, with variables named by
// a short tagged-string scheme (see resolveVar) rather than a full
// object graph, so a snapshot file stays hand-writable.

type snapshotUnit struct {
	Contracts []snapshotContract `json:"contracts"`
}

type snapshotContract struct {
	Name              string                `json:"name"`
	StateVariables    []snapshotStateVar    `json:"state_variables"`
	FunctionsDeclared []snapshotFunction    `json:"functions"`
	ModifiersDeclared []snapshotFunction    `json:"modifiers_declared"`
	InheritedModifiers []string             `json:"inherited_modifiers"` // "Contract.name()" refs
}

type snapshotStateVar struct {
	Name           string `json:"name"`
	TypeName       string `json:"type"`
	SizeBytes      int    `json:"size_bytes"`
	IsMapping      bool   `json:"is_mapping"`
	IsDynamicArray bool   `json:"is_dynamic_array"`
}

type snapshotFunction struct {
	Name          string         `json:"name"`
	CanonicalName string         `json:"canonical_name"`
	IsImplemented bool           `json:"is_implemented"`
	Nodes         []snapshotNode `json:"nodes"`
}

type snapshotNode struct {
	Type string           `json:"type"`
	Ops  []snapshotOp     `json:"ops"`
	Sons []int            `json:"sons"`
}

type snapshotOp struct {
	Kind      string   `json:"kind"`
	LV        string   `json:"lv,omitempty"`
	RValue    string   `json:"rvalue,omitempty"`
	Left      string   `json:"left,omitempty"`
	Right     string   `json:"right,omitempty"`
	Op        string   `json:"op,omitempty"`
	Variable  string   `json:"variable,omitempty"`
	Tuple     string   `json:"tuple,omitempty"`
	Index     int      `json:"index,omitempty"`
	Function  string   `json:"function,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	CallSalt  string   `json:"call_salt,omitempty"`
	Value     string   `json:"value,omitempty"`
}

// varEnv resolves the tagged-string variable scheme within one function's
// scope: locals and temporaries are memoized by name so repeated
// references to "tmp" within the same function return the same object.
type varEnv struct {
	unit      *CompilationUnit
	contract  *Contract
	locals    map[string]*LocalVariable
	constants map[string]*Constant
	refs      map[string]*ReferenceVariable
}

func newVarEnv(unit *CompilationUnit, contract *Contract) *varEnv {
	return &varEnv{
		unit:      unit,
		contract:  contract,
		locals:    map[string]*LocalVariable{},
		constants: map[string]*Constant{},
		refs:      map[string]*ReferenceVariable{},
	}
}

// resolveVar interprets a tagged string per the schema:
//
//	"state:Name"        -> state variable declared on the current contract
//	"local:Name"        -> function-local, memoized per env
//	"const:Literal"      -> a Constant with that literal value
//	"msg.sender"          -> the msg.sender flyweight
//	"this"                -> the bare "this" builtin
//	"gas:tx.gasprice"     -> a gas-composed global (any name; auto-registered)
//	"ref:Name->Origin"    -> a ReferenceVariable named Name pointing at the
//	                         variable Origin resolves to (Origin is itself a
//	                         tagged reference, e.g. "ref:balances[to]->state:balances");
//	                         this is how a mapping cell, array element, or
//	                         struct field write is expressed (spec §3/§4.1/§4.7)
//	"" (empty)            -> nil (no variable)
func (e *varEnv) resolveVar(ref string) (Variable, error) {
	switch {
	case ref == "":
		return nil, nil
	case ref == "msg.sender":
		return MsgSender, nil
	case ref == "this":
		return &SolidityVariable{Name: "this"}, nil
	case hasPrefix(ref, "state:"):
		name := ref[len("state:"):]
		for _, sv := range e.contract.StateVariables {
			if sv.Name == name {
				return sv, nil
			}
		}
		return nil, fmt.Errorf("ir: snapshot: unknown state variable %q on contract %s", name, e.contract.Name)
	case hasPrefix(ref, "local:"):
		name := ref[len("local:"):]
		if lv, ok := e.locals[name]; ok {
			return lv, nil
		}
		lv := &LocalVariable{Name: name}
		e.locals[name] = lv
		return lv, nil
	case hasPrefix(ref, "const:"):
		lit := ref[len("const:"):]
		if c, ok := e.constants[lit]; ok {
			return c, nil
		}
		c := &Constant{Value: lit}
		e.constants[lit] = c
		return c, nil
	case hasPrefix(ref, "gas:"):
		name := ref[len("gas:"):]
		if _, ok := GasComposedSources[name]; !ok {
			GasComposedSources[name] = name
		}
		return &SolidityVariableComposed{Name: name}, nil
	case hasPrefix(ref, "ref:"):
		rest := ref[len("ref:"):]
		parts := strings.SplitN(rest, "->", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("ir: snapshot: malformed reference variable %q (want \"ref:<name>-><origin>\")", ref)
		}
		if rv, ok := e.refs[ref]; ok {
			return rv, nil
		}
		origin, err := e.resolveVar(parts[1])
		if err != nil {
			return nil, err
		}
		rv := &ReferenceVariable{Name: parts[0], PointsToOrigin: origin}
		e.refs[ref] = rv
		return rv, nil
	default:
		return nil, fmt.Errorf("ir: snapshot: unrecognized variable reference %q", ref)
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

var nodeTypeByName = map[string]NodeType{
	"BEGIN":      Begin,
	"EXPRESSION": Expression,
	"IF":         If,
	"IFLOOP":     IfLoop,
	"ENDIF":      EndIf,
	"STARTLOOP":  StartLoop,
	"ENDLOOP":    EndLoop,
	"RETURN":     Return,
	"THROW":      Throw,
	"PLACEHOLDER": Placeholder,
	"OTHER":      Other,
}

// solidityFunctionFor returns the flyweight for well-known builtins, or a
// fresh *SolidityFunction for any other name so a snapshot can reference
// hash/encode functions not otherwise named in package ir.
func solidityFunctionFor(name string) *SolidityFunction {
	switch name {
	case Gasleft.Name:
		return Gasleft
	case Balance.Name:
		return Balance
	default:
		return &SolidityFunction{Name: name}
	}
}

// DecodeCompilationUnit reads a JSON compilation-unit snapshot from r and
// builds the corresponding ir.CompilationUnit. It resolves internal-call
// and inherited-modifier references across the whole unit, so functions
// may be declared in any order.
func DecodeCompilationUnit(r io.Reader) (*CompilationUnit, error) {
	var raw snapshotUnit
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("ir: snapshot: decode: %w", err)
	}

	unit := &CompilationUnit{}
	functionsByCanonical := map[string]*Function{}

	// Pass 1: build contracts, state variables, and empty function shells
	// (so internal calls can resolve forward references in pass 2).
	for _, sc := range raw.Contracts {
		contract := &Contract{Name: sc.Name}
		for i, sv := range sc.StateVariables {
			contract.StateVariables = append(contract.StateVariables, &StateVariable{
				Name:         sv.Name,
				ContractName: sc.Name,
				Type: Type{
					Name:           sv.TypeName,
					SizeBytes:      sv.SizeBytes,
					IsMapping:      sv.IsMapping,
					IsDynamicArray: sv.IsDynamicArray,
				},
				DeclarationIndex: i,
			})
		}
		unit.ContractsDerived = append(unit.ContractsDerived, contract)

		for _, sf := range sc.FunctionsDeclared {
			fn := NewFunction(sf.CanonicalName, contract)
			fn.Name = sf.Name
			fn.IsImplemented = sf.IsImplemented
			contract.FunctionsDeclared = append(contract.FunctionsDeclared, fn)
			functionsByCanonical[sf.CanonicalName] = fn
		}
		for _, sf := range sc.ModifiersDeclared {
			fn := NewFunction(sf.CanonicalName, contract)
			fn.Name = sf.Name
			fn.IsImplemented = sf.IsImplemented
			contract.ModifiersDeclared = append(contract.ModifiersDeclared, fn)
			functionsByCanonical[sf.CanonicalName] = fn
		}
	}

	// Pass 2: wire inherited modifiers and fill in each function's body.
	for ci, sc := range raw.Contracts {
		contract := unit.ContractsDerived[ci]
		for _, ref := range sc.InheritedModifiers {
			if fn, ok := functionsByCanonical[ref]; ok {
				contract.Modifiers = append(contract.Modifiers, fn)
			} else {
				return nil, fmt.Errorf("ir: snapshot: unknown inherited modifier %q", ref)
			}
		}

		all := append(append([]snapshotFunction{}, sc.FunctionsDeclared...), sc.ModifiersDeclared...)
		for _, sf := range all {
			fn := functionsByCanonical[sf.CanonicalName]
			if err := buildFunctionBody(fn, sf, contract, functionsByCanonical); err != nil {
				return nil, err
			}
		}
	}

	return unit, nil
}

func buildFunctionBody(fn *Function, sf snapshotFunction, contract *Contract, byCanonical map[string]*Function) error {
	env := newVarEnv(nil, contract)

	nodes := make([]*Node, len(sf.Nodes))
	for i, sn := range sf.Nodes {
		nt, ok := nodeTypeByName[sn.Type]
		if !ok {
			return fmt.Errorf("ir: snapshot: unknown node type %q in %s", sn.Type, sf.CanonicalName)
		}
		node := &Node{Type: nt}
		nodes[i] = node
		fn.AddNode(node)
	}
	for i, sn := range sf.Nodes {
		for _, s := range sn.Sons {
			if s < 0 || s >= len(nodes) {
				return fmt.Errorf("ir: snapshot: node %d in %s references out-of-range son %d", i, sf.CanonicalName, s)
			}
			nodes[i].Sons = append(nodes[i].Sons, nodes[s])
		}
		for _, so := range sn.Ops {
			op, err := buildOp(so, env, byCanonical, sf.CanonicalName)
			if err != nil {
				return err
			}
			nodes[i].Irs = append(nodes[i].Irs, op)
		}
	}
	return nil
}

func buildOp(so snapshotOp, env *varEnv, byCanonical map[string]*Function, owner string) (Operation, error) {
	v := func(ref string) (Variable, error) { return env.resolveVar(ref) }

	switch so.Kind {
	case "assign":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		rv, err := v(so.RValue)
		if err != nil {
			return nil, err
		}
		return &Assignment{LV: lv, RValue: rv}, nil
	case "binary":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		l, err := v(so.Left)
		if err != nil {
			return nil, err
		}
		r, err := v(so.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{LV: lv, Left: l, Right: r, Op: so.Op}, nil
	case "unary":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		rv, err := v(so.RValue)
		if err != nil {
			return nil, err
		}
		return &Unary{LV: lv, RValue: rv, Op: so.Op}, nil
	case "convert":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		rv, err := v(so.Variable)
		if err != nil {
			return nil, err
		}
		return &TypeConversion{LV: lv, Variable: rv}, nil
	case "index":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		l, err := v(so.Left)
		if err != nil {
			return nil, err
		}
		r, err := v(so.Right)
		if err != nil {
			return nil, err
		}
		return &Index{LV: lv, Left: l, Right: r}, nil
	case "unpack":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		tup, err := v(so.Tuple)
		if err != nil {
			return nil, err
		}
		return &Unpack{LV: lv, Tuple: tup, Index: so.Index}, nil
	case "solidity_call":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		args, err := resolveAll(env, so.Arguments)
		if err != nil {
			return nil, err
		}
		return &SolidityCall{LV: lv, Function: solidityFunctionFor(so.Function), Arguments: args}, nil
	case "new_contract":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		salt, err := v(so.CallSalt)
		if err != nil {
			return nil, err
		}
		return &NewContract{LV: lv, CallSalt: salt}, nil
	case "internal_call":
		lv, err := v(so.LV)
		if err != nil {
			return nil, err
		}
		args, err := resolveAll(env, so.Arguments)
		if err != nil {
			return nil, err
		}
		callee, ok := byCanonical[so.Function]
		if !ok {
			return nil, fmt.Errorf("ir: snapshot: %s: unknown internal call target %q", owner, so.Function)
		}
		return &InternalCall{LV: lv, Function: callee, Arguments: args}, nil
	case "condition":
		val, err := v(so.Value)
		if err != nil {
			return nil, err
		}
		return &Condition{Value: val}, nil
	default:
		return nil, fmt.Errorf("ir: snapshot: %s: unknown op kind %q", owner, so.Kind)
	}
}

func resolveAll(env *varEnv, refs []string) ([]Variable, error) {
	out := make([]Variable, 0, len(refs))
	for _, ref := range refs {
		v, err := env.resolveVar(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
