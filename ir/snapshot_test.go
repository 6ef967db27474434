package ir_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokita-j/tainted-storage/ir"
)

const gasleftSnapshot = `
{
  "contracts": [
    {
      "name": "Example",
      "state_variables": [
        {"name": "gasSnapshot", "type": "uint256", "size_bytes": 32}
      ],
      "functions": [
        {
          "name": "save",
          "canonical_name": "Example.save()",
          "is_implemented": true,
          "nodes": [
            {
              "type": "EXPRESSION",
              "sons": [],
              "ops": [
                {"kind": "solidity_call", "lv": "local:tmp", "function": "gasleft()", "arguments": []},
                {"kind": "assign", "lv": "state:gasSnapshot", "rvalue": "local:tmp"}
              ]
            }
          ]
        }
      ]
    }
  ]
}
`

func TestDecodeCompilationUnitBuildsContractsAndFunctions(t *testing.T) {
	unit, err := ir.DecodeCompilationUnit(strings.NewReader(gasleftSnapshot))
	require.NoError(t, err)
	require.Len(t, unit.ContractsDerived, 1)

	c := unit.ContractsDerived[0]
	assert.Equal(t, "Example", c.Name)
	require.Len(t, c.StateVariables, 1)
	assert.Equal(t, "gasSnapshot", c.StateVariables[0].Name)

	require.Len(t, c.FunctionsDeclared, 1)
	fn := c.FunctionsDeclared[0]
	assert.Equal(t, "Example.save()", fn.CanonicalName)
	require.Len(t, fn.Nodes, 1)
	require.Len(t, fn.Nodes[0].Irs, 2)
}

func TestDecodeCompilationUnitRejectsUnknownStateVariable(t *testing.T) {
	const bad = `{"contracts":[{"name":"C","state_variables":[],"functions":[
		{"name":"f","canonical_name":"C.f()","is_implemented":true,"nodes":[
			{"type":"EXPRESSION","ops":[{"kind":"assign","lv":"state:missing","rvalue":"const:1"}]}
		]}
	]}]}`
	_, err := ir.DecodeCompilationUnit(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestDecodeCompilationUnitResolvesReferenceVariables(t *testing.T) {
	const snap = `{"contracts":[{"name":"C","state_variables":[{"name":"balances","type":"mapping(address => uint256)","is_mapping":true}],"functions":[
		{"name":"credit","canonical_name":"C.credit()","is_implemented":true,"nodes":[
			{"type":"EXPRESSION","ops":[{"kind":"assign","lv":"ref:balances[to]->state:balances","rvalue":"local:amount"}]}
		]}
	]}]}`
	unit, err := ir.DecodeCompilationUnit(strings.NewReader(snap))
	require.NoError(t, err)

	fn := unit.ContractsDerived[0].FunctionsDeclared[0]
	assign, ok := fn.Nodes[0].Irs[0].(*ir.Assignment)
	require.True(t, ok)

	ref, ok := assign.LV.(*ir.ReferenceVariable)
	require.True(t, ok)
	assert.Equal(t, "balances[to]", ref.Name)

	origin, ok := ref.PointsToOrigin.(*ir.StateVariable)
	require.True(t, ok)
	assert.Equal(t, "balances", origin.Name)
}

func TestDecodeCompilationUnitRejectsMalformedReferenceVariable(t *testing.T) {
	const bad = `{"contracts":[{"name":"C","state_variables":[],"functions":[
		{"name":"f","canonical_name":"C.f()","is_implemented":true,"nodes":[
			{"type":"EXPRESSION","ops":[{"kind":"assign","lv":"ref:noarrow","rvalue":"const:1"}]}
		]}
	]}]}`
	_, err := ir.DecodeCompilationUnit(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestDecodeCompilationUnitResolvesForwardInternalCallReferences(t *testing.T) {
	const snap = `{"contracts":[{"name":"C","state_variables":[{"name":"t","type":"uint256","size_bytes":32}],"functions":[
		{"name":"f","canonical_name":"C.f()","is_implemented":true,"nodes":[
			{"type":"EXPRESSION","ops":[{"kind":"internal_call","function":"C.g()","arguments":[]}]}
		]},
		{"name":"g","canonical_name":"C.g()","is_implemented":true,"nodes":[
			{"type":"EXPRESSION","ops":[{"kind":"assign","lv":"state:t","rvalue":"const:1"}]}
		]}
	]}]}`
	unit, err := ir.DecodeCompilationUnit(strings.NewReader(snap))
	require.NoError(t, err)
	require.Len(t, unit.ContractsDerived, 1)

	fFunc := unit.ContractsDerived[0].FunctionsDeclared[0]
	call, ok := fFunc.Nodes[0].Irs[0].(*ir.InternalCall)
	require.True(t, ok)
	assert.Equal(t, "C.g()", call.Function.CanonicalName)
}
