// Package fixtures builds small, hand-constructed ir.Contract graphs for
// the taint engine's test suite, analogous to gosec's testutils per-rule
// code samples — except here each fixture builds an ir.Function's nodes
// and operations directly instead of holding Go source text, since this
// detector consumes IR, never source.
package fixtures

import "github.com/mokita-j/tainted-storage/ir"

func newContract(name string) *ir.Contract {
	return &ir.Contract{Name: name}
}

func addStateVar(c *ir.Contract, name string, sizeBytes int) *ir.StateVariable {
	sv := &ir.StateVariable{
		Name:             name,
		ContractName:     c.Name,
		Type:             ir.Type{Name: "uint256", SizeBytes: sizeBytes},
		DeclarationIndex: len(c.StateVariables),
	}
	c.StateVariables = append(c.StateVariables, sv)
	return sv
}

func addMapping(c *ir.Contract, name string) *ir.StateVariable {
	sv := &ir.StateVariable{
		Name:             name,
		ContractName:     c.Name,
		Type:             ir.Type{Name: "mapping", IsMapping: true},
		DeclarationIndex: len(c.StateVariables),
	}
	c.StateVariables = append(c.StateVariables, sv)
	return sv
}

func newFunc(c *ir.Contract, canonical string) *ir.Function {
	fn := ir.NewFunction(canonical, c)
	c.FunctionsDeclared = append(c.FunctionsDeclared, fn)
	return fn
}

// GasleftDirect: uint storedGas; function f() { storedGas = gasleft(); }
func GasleftDirect() (*ir.Contract, *ir.Function, *ir.StateVariable) {
	c := newContract("GasleftDirect")
	storedGas := addStateVar(c, "storedGas", 32)
	f := newFunc(c, "GasleftDirect.f()")

	tmp := &ir.LocalVariable{Name: "tmp"}
	n := &ir.Node{Type: ir.Expression}
	n.Irs = []ir.Operation{
		&ir.SolidityCall{LV: tmp, Function: ir.Gasleft},
		&ir.Assignment{LV: storedGas, RValue: tmp},
	}
	f.AddNode(n)
	return c, f, storedGas
}

// SenderBalanceAlias: address a = msg.sender; uint b; function f() { b = a.balance; }
func SenderBalanceAlias() (*ir.Contract, *ir.Function, *ir.StateVariable) {
	c := newContract("SenderBalanceAlias")
	b := addStateVar(c, "b", 32)
	f := newFunc(c, "SenderBalanceAlias.f()")

	a := &ir.LocalVariable{Name: "a"}
	tmp := &ir.LocalVariable{Name: "tmp"}
	n := &ir.Node{Type: ir.Expression}
	n.Irs = []ir.Operation{
		&ir.Assignment{LV: a, RValue: ir.MsgSender},
		&ir.SolidityCall{LV: tmp, Function: ir.Balance, Arguments: []ir.Variable{a}},
		&ir.Assignment{LV: b, RValue: tmp},
	}
	f.AddNode(n)
	return c, f, b
}

// Create2Factory: mapping(bytes32=>address) getPool;
// function c(bytes32 s){ getPool[s] = address(new C{salt:s}()); }
func Create2Factory() (*ir.Contract, *ir.Function, *ir.StateVariable) {
	c := newContract("Create2Factory")
	getPool := addMapping(c, "getPool")
	f := newFunc(c, "Create2Factory.c(bytes32)")

	salt := &ir.LocalVariable{Name: "s"}
	newAddr := &ir.LocalVariable{Name: "deployed"}
	ref := &ir.ReferenceVariable{Name: "getPool[s]", PointsToOrigin: getPool}

	n := &ir.Node{Type: ir.Expression}
	n.Irs = []ir.Operation{
		&ir.NewContract{LV: newAddr, CallSalt: salt},
		&ir.Assignment{LV: ref, RValue: newAddr},
	}
	f.AddNode(n)
	return c, f, getPool
}

// ControlFlowGas: uint x; function f(){ if (gasleft() > 100) { x = 1; } }
func ControlFlowGas() (*ir.Contract, *ir.Function, *ir.StateVariable) {
	c := newContract("ControlFlowGas")
	x := addStateVar(c, "x", 32)
	f := newFunc(c, "ControlFlowGas.f()")

	gasTmp := &ir.LocalVariable{Name: "gasTmp"}
	cond := &ir.LocalVariable{Name: "cond"}
	hundred := &ir.Constant{Value: "100"}
	one := &ir.Constant{Value: "1"}

	begin := &ir.Node{Type: ir.Expression}
	begin.Irs = []ir.Operation{
		&ir.SolidityCall{LV: gasTmp, Function: ir.Gasleft},
		&ir.Binary{LV: cond, Left: gasTmp, Right: hundred, Op: ">"},
	}

	ifNode := &ir.Node{Type: ir.If}
	ifNode.Irs = []ir.Operation{&ir.Condition{Value: cond}}

	body := &ir.Node{Type: ir.Expression}
	body.Irs = []ir.Operation{&ir.Assignment{LV: x, RValue: one}}

	endif := &ir.Node{Type: ir.EndIf}

	f.AddNode(begin)
	f.AddNode(ifNode)
	f.AddNode(body)
	f.AddNode(endif)

	ifNode.Sons = []*ir.Node{body}
	body.Sons = []*ir.Node{endif}

	return c, f, x
}

// OverwriteClean: uint r; function f(){ r = gasleft(); r = 7; }
func OverwriteClean() (*ir.Contract, *ir.Function, *ir.StateVariable) {
	c := newContract("OverwriteClean")
	r := addStateVar(c, "r", 32)
	f := newFunc(c, "OverwriteClean.f()")

	tmp := &ir.LocalVariable{Name: "tmp"}
	seven := &ir.Constant{Value: "7"}

	n := &ir.Node{Type: ir.Expression}
	n.Irs = []ir.Operation{
		&ir.SolidityCall{LV: tmp, Function: ir.Gasleft},
		&ir.Assignment{LV: r, RValue: tmp},
		&ir.Assignment{LV: r, RValue: seven},
	}
	f.AddNode(n)
	return c, f, r
}

// CrossCall: uint t; uint c; function _taint(){ t = gasleft(); }
// function f(){ _taint(); c = t + 1; }
func CrossCall() (*ir.Contract, *ir.Function, *ir.StateVariable, *ir.StateVariable) {
	contract := newContract("CrossCall")
	t := addStateVar(contract, "t", 32)
	cVar := addStateVar(contract, "c", 32)

	taintFn := newFunc(contract, "CrossCall._taint()")
	tmp := &ir.LocalVariable{Name: "tmp"}
	taintBody := &ir.Node{Type: ir.Expression}
	taintBody.Irs = []ir.Operation{
		&ir.SolidityCall{LV: tmp, Function: ir.Gasleft},
		&ir.Assignment{LV: t, RValue: tmp},
	}
	taintFn.AddNode(taintBody)

	f := newFunc(contract, "CrossCall.f()")
	one := &ir.Constant{Value: "1"}
	sum := &ir.LocalVariable{Name: "sum"}
	body := &ir.Node{Type: ir.Expression}
	body.Irs = []ir.Operation{
		&ir.InternalCall{Function: taintFn},
		&ir.Binary{LV: sum, Left: t, Right: one, Op: "+"},
		&ir.Assignment{LV: cVar, RValue: sum},
	}
	f.AddNode(body)

	return contract, f, t, cVar
}

// CleanToken: a USDT-like token with no gas/CREATE2/sender.balance source
// anywhere — expected to produce zero findings.
func CleanToken() (*ir.Contract, *ir.Function) {
	c := newContract("CleanToken")
	balances := addMapping(c, "balances")
	f := newFunc(c, "CleanToken.transfer(address,uint256)")

	to := &ir.LocalVariable{Name: "to"}
	amount := &ir.LocalVariable{Name: "amount"}
	senderBalRef := &ir.ReferenceVariable{Name: "balances[msg.sender]", PointsToOrigin: balances}
	toBalRef := &ir.ReferenceVariable{Name: "balances[to]", PointsToOrigin: balances}
	senderBalTmp := &ir.LocalVariable{Name: "senderBalTmp"}
	newSenderBal := &ir.LocalVariable{Name: "newSenderBal"}
	toBalTmp := &ir.LocalVariable{Name: "toBalTmp"}
	newToBal := &ir.LocalVariable{Name: "newToBal"}

	n := &ir.Node{Type: ir.Expression}
	n.Irs = []ir.Operation{
		&ir.Index{LV: senderBalTmp, Left: balances, Right: ir.MsgSender},
		&ir.Binary{LV: newSenderBal, Left: senderBalTmp, Right: amount, Op: "-"},
		&ir.Assignment{LV: senderBalRef, RValue: newSenderBal},
		&ir.Index{LV: toBalTmp, Left: balances, Right: to},
		&ir.Binary{LV: newToBal, Left: toBalTmp, Right: amount, Op: "+"},
		&ir.Assignment{LV: toBalRef, RValue: newToBal},
	}
	f.AddNode(n)
	return c, f
}

// TupleImprecision: (uint x, uint y) = (gasleft(), 0); s1 = x; s2 = y;
func TupleImprecision() (*ir.Contract, *ir.Function, *ir.StateVariable, *ir.StateVariable) {
	c := newContract("TupleImprecision")
	s1 := addStateVar(c, "s1", 32)
	s2 := addStateVar(c, "s2", 32)
	f := newFunc(c, "TupleImprecision.f()")

	gasTmp := &ir.LocalVariable{Name: "gasTmp"}
	zero := &ir.Constant{Value: "0"}
	tuple := &ir.LocalVariable{Name: "tuple"}
	x := &ir.LocalVariable{Name: "x"}
	y := &ir.LocalVariable{Name: "y"}

	n := &ir.Node{Type: ir.Expression}
	n.Irs = []ir.Operation{
		&ir.SolidityCall{LV: gasTmp, Function: ir.Gasleft},
		// the tuple literal itself: lvalue = tuple, treated as an Assignment
		// from the first (tainted) component so tuple-level granularity
		// applies the way §4 describes.
		&ir.Assignment{LV: tuple, RValue: gasTmp},
		&ir.Unpack{LV: x, Tuple: tuple, Index: 0},
		&ir.Unpack{LV: y, Tuple: tuple, Index: 1},
		&ir.Assignment{LV: s1, RValue: x},
		&ir.Assignment{LV: s2, RValue: y},
	}
	_ = zero
	f.AddNode(n)
	return c, f, s1, s2
}

// RequireGuard: require(gasleft() > k); s = 1; — no IF node, so no
// control-flow taint (spec §8 testable property 6).
func RequireGuard() (*ir.Contract, *ir.Function, *ir.StateVariable) {
	c := newContract("RequireGuard")
	s := addStateVar(c, "s", 32)
	f := newFunc(c, "RequireGuard.f()")

	gasTmp := &ir.LocalVariable{Name: "gasTmp"}
	k := &ir.LocalVariable{Name: "k"}
	cond := &ir.LocalVariable{Name: "cond"}
	one := &ir.Constant{Value: "1"}
	requireFn := &ir.SolidityFunction{Name: "require(bool)"}

	n := &ir.Node{Type: ir.Expression}
	n.Irs = []ir.Operation{
		&ir.SolidityCall{LV: gasTmp, Function: ir.Gasleft},
		&ir.Binary{LV: cond, Left: gasTmp, Right: k, Op: ">"},
		&ir.SolidityCall{Function: requireFn, Arguments: []ir.Variable{cond}},
		&ir.Assignment{LV: s, RValue: one},
	}
	f.AddNode(n)
	return c, f, s
}
