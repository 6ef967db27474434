package taint

import "github.com/mokita-j/tainted-storage/ir"

// caches holds the shared, driver-scoped memoisation tables spec §3
// "Caches (shared across a driver run)" describes. They are exclusively
// owned by one analysis invocation (spec §5) — a fresh caches is created
// per Driver.Run call, never reused across compilation units.
type caches struct {
	// callTaint caches "does callee body contain >=1 source" per callee
	// canonical name (spec §4.5 step 2).
	callTaint map[string]bool

	// calleeState caches the set of state variables a callee taints, per
	// callee canonical name, pre-seeded with nil (not "absent") on entry
	// to break recursion (spec §4.5 step 4, §9 "Recursion via cache
	// pre-seed").
	calleeState map[string][]*ir.StateVariable
	// calleeStateSeeded tracks which keys have been pre-seeded, since Go
	// maps can't distinguish "absent" from "present with a nil/empty
	// slice" as cleanly as Python's `in` check on a dict.
	calleeStateSeeded map[string]bool
}

func newCaches() *caches {
	return &caches{
		callTaint:         make(map[string]bool),
		calleeState:       make(map[string][]*ir.StateVariable),
		calleeStateSeeded: make(map[string]bool),
	}
}
