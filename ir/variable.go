// Package ir models the host compiler-frontend surface the tainted-storage
// detector consumes: contracts, functions, CFG nodes and the IR operations
// within them. It plays the role a real Solidity frontend (solc + an
// IR-building pass, e.g. Slither's slithir) would play in production; the
// taint engine in package taint is written against these types only.
package ir

import "fmt"

// Type describes the Solidity type of a variable, just precisely enough
// for the storage package to compute layout. It is not a general type
// system: no arithmetic or conversion rules live here.
type Type struct {
	// Name is the Solidity type spelling, e.g. "uint256", "address", "bool".
	Name string
	// SizeBytes is the type's packed storage size, 1-32 for value types.
	SizeBytes int
	// IsMapping marks a mapping(...) type: mappings always occupy their
	// own slot and never pack with a neighbour.
	IsMapping bool
	// IsDynamicArray marks a dynamically sized array: also always takes
	// its own slot, with elements stored starting at keccak256(slot).
	IsDynamicArray bool
}

// Variable is any value the taint engine can read or write: a state
// variable (the sink), a builtin composed variable such as msg.sender, or
// a local/temporary value. See spec §3 "Variable".
type Variable interface {
	// Key returns the canonical hashable identity defined in spec §3.
	Key() string
	// VarName returns a short display name (not necessarily unique).
	VarName() string
}

// StateVariable is a contract storage slot — the only kind of sink the
// detector reports on.
type StateVariable struct {
	Name           string
	ContractName   string
	Type           Type
	// DeclarationIndex is this variable's position among all state
	// variables declared in the contract (including inherited ones, in
	// C3-linearization order). The storage package does not read it: it
	// lays variables out in Contract.StateVariables slice order.
	DeclarationIndex int
}

// CanonicalName is the "Contract.name" form spec §3 requires.
func (s *StateVariable) CanonicalName() string { return s.ContractName + "." + s.Name }

func (s *StateVariable) Key() string     { return "state:" + s.CanonicalName() }
func (s *StateVariable) VarName() string { return s.Name }

// SolidityVariable is a non-composed builtin, e.g. a bare "this".
type SolidityVariable struct {
	Name string
}

func (s *SolidityVariable) Key() string     { return "solidity:" + s.Name }
func (s *SolidityVariable) VarName() string { return s.Name }

// SolidityVariableComposed is a dotted builtin such as "msg.sender",
// "tx.gasprice", "block.basefee". Two composed variables with the same
// Name compare equal for taint purposes (they are value objects, not
// identity objects) — this mirrors Slither's SolidityVariableComposed,
// which is also a flyweight keyed by name.
type SolidityVariableComposed struct {
	Name string
}

func (s *SolidityVariableComposed) Key() string     { return "solidity:" + s.Name }
func (s *SolidityVariableComposed) VarName() string { return s.Name }

// Equal reports whether two composed variables denote the same builtin.
func (s *SolidityVariableComposed) Equal(other *SolidityVariableComposed) bool {
	return s != nil && other != nil && s.Name == other.Name
}

var (
	// MsgSender is the flyweight for "msg.sender".
	MsgSender = &SolidityVariableComposed{Name: "msg.sender"}
	// Gasleft is the flyweight for the gasleft() function identity, used
	// as a SolidityCall.Function value.
	Gasleft = &SolidityFunction{Name: "gasleft()"}
	// Balance is the flyweight for the balance(address) function identity.
	Balance = &SolidityFunction{Name: "balance(address)"}
)

// GasComposedSources are the gas-related globals spec §1 names as sources,
// mapped to their canonical label string (itself just the variable name).
var GasComposedSources = map[string]string{
	"tx.gasprice":       "tx.gasprice",
	"block.basefee":      "block.basefee",
	"block.blobbasefee":  "block.blobbasefee",
	"block.gaslimit":     "block.gaslimit",
}

// HashAndEncodeFunctions is the set of Solidity builtins whose result is
// tainted iff any argument is tainted (spec §4.4, supplemented from
// original_source's _HASH_AND_ENCODE).
var HashAndEncodeFunctions = map[string]bool{
	"keccak256()":               true,
	"keccak256(bytes)":          true,
	"sha3()":                    true,
	"sha256()":                  true,
	"sha256(bytes)":             true,
	"ripemd160()":               true,
	"ripemd160(bytes)":          true,
	"abi.encode()":              true,
	"abi.encodePacked()":        true,
	"abi.encodeWithSelector()":  true,
	"abi.encodeWithSignature()": true,
	"abi.encodeCall()":          true,
}

// SolidityFunction identifies a builtin Solidity function by its
// canonical signature string, e.g. "gasleft()", "keccak256(bytes)".
type SolidityFunction struct {
	Name string
}

func (f *SolidityFunction) String() string { return f.Name }

// Equal reports whether two SolidityFunction values name the same builtin.
func (f *SolidityFunction) Equal(other *SolidityFunction) bool {
	return f != nil && other != nil && f.Name == other.Name
}

// LocalVariable is a local or temporary value. Identity is by object
// (pointer) as spec §3 allows, since IR objects live for the analysis
// duration.
type LocalVariable struct {
	Name string
}

func (l *LocalVariable) Key() string     { return fmt.Sprintf("obj:%p", l) }
func (l *LocalVariable) VarName() string { return l.Name }

// Constant is a compile-time constant value; constants are never tainted
// and are excluded from read sets wherever spec §4 says "non-constant".
type Constant struct {
	Value string
}

func (c *Constant) Key() string     { return fmt.Sprintf("const:%p", c) }
func (c *Constant) VarName() string { return c.Value }

// ReferenceVariable is a virtual alias for a location inside a compound
// value (mapping cell, array element, struct field). PointsToOrigin is the
// variable it resolves to one step closer to the real storage location;
// following the chain terminates at a non-reference variable.
type ReferenceVariable struct {
	Name           string
	PointsToOrigin Variable
}

func (r *ReferenceVariable) Key() string     { return fmt.Sprintf("obj:%p", r) }
func (r *ReferenceVariable) VarName() string { return r.Name }

// Resolve walks a ReferenceVariable chain to its origin, guarding against
// cycles by object identity (spec §4.1).
func Resolve(v Variable) Variable {
	seen := map[Variable]bool{}
	for {
		ref, ok := v.(*ReferenceVariable)
		if !ok {
			return v
		}
		if seen[ref] {
			return v
		}
		seen[ref] = true
		if ref.PointsToOrigin == nil {
			return v
		}
		v = ref.PointsToOrigin
	}
}

// IsMsgSenderComposed reports whether v is the msg.sender builtin itself
// (as opposed to a local alias, which taint.Context tracks separately).
func IsMsgSenderComposed(v Variable) bool {
	c, ok := v.(*SolidityVariableComposed)
	return ok && c.Equal(MsgSender)
}

// VarKey returns the canonical hashable key for any variable, per spec §3.
// A nil variable has the empty key, which never matches anything.
func VarKey(v Variable) string {
	if v == nil {
		return ""
	}
	return v.Key()
}
