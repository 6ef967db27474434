package taint

import (
	"fmt"
	"sort"

	"github.com/mokita-j/tainted-storage/ir"
	"github.com/mokita-j/tainted-storage/issue"
)

// Driver ties the engine to a compilation unit (spec §4.9, C9): it walks
// every derived contract's analyzable functions, runs the engine over
// each, deduplicates across the whole unit, resolves storage slots via a
// StorageLayoutOracle, and returns the externally visible findings.
//
// Each Run call builds its own caches, so a Driver can be reused across
// units one after another. Concurrent Run calls are safe only if the
// oracle is (storage.Oracle caches layouts in an unsynchronized map).
type Driver struct {
	oracle ir.StorageLayoutOracle
	strict bool
}

// NewDriver builds a Driver that resolves storage slots via oracle. A
// storage-layout lookup miss is swallowed into a (-1, -1) finding (§7
// default).
func NewDriver(oracle ir.StorageLayoutOracle) *Driver {
	return &Driver{oracle: oracle}
}

// NewStrictDriver builds a Driver like NewDriver, except a storage-layout
// lookup miss aborts Run with a wrapped ir.ErrLayoutNotFound instead of
// being swallowed into a (-1, -1) finding.
func NewStrictDriver(oracle ir.StorageLayoutOracle) *Driver {
	return &Driver{oracle: oracle, strict: true}
}

// Run analyzes every derived contract in unit and returns its findings,
// sorted by (contract, function, variable) for deterministic output. In
// strict mode, the first storage-layout lookup miss aborts the run and
// returns a non-nil error instead of a finding.
func (d *Driver) Run(unit *ir.CompilationUnit) ([]issue.Finding, error) {
	cs := newCaches()

	type dedupKey struct {
		stateCanonical string
		fnCanonical    string
	}
	seen := map[dedupKey]bool{}

	var findings []issue.Finding

	for _, contract := range unit.ContractsDerived {
		for _, fn := range contract.AnalyzableFunctions() {
			if !fn.IsImplemented {
				continue
			}

			for _, w := range analyzeFunction(fn, cs) {
				key := dedupKey{stateCanonical: w.Variable.CanonicalName(), fnCanonical: fn.CanonicalName}
				if seen[key] {
					continue
				}
				seen[key] = true

				finding, err := d.buildFinding(contract, fn, w)
				if err != nil {
					return nil, err
				}
				findings = append(findings, finding)
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Contract != b.Contract {
			return a.Contract < b.Contract
		}
		if a.Function != b.Function {
			return a.Function < b.Function
		}
		return a.Variable < b.Variable
	})

	return findings, nil
}

// buildFinding resolves w's storage slot. A layout miss collapses to
// (-1, -1) per spec §7's default, unless d.strict is set, in which case
// it returns a wrapped ir.ErrLayoutNotFound instead.
func (d *Driver) buildFinding(contract *ir.Contract, fn *ir.Function, w stateWrite) (issue.Finding, error) {
	slot, offset := -1, -1
	switch {
	case d.oracle != nil:
		s, o, err := d.oracle.StorageLayoutOf(contract, w.Variable)
		switch {
		case err == nil:
			slot, offset = s, o
		case d.strict:
			return issue.Finding{}, fmt.Errorf("taint: %s.%s: %w", contract.Name, w.Variable.CanonicalName(), err)
		}
	case d.strict:
		return issue.Finding{}, fmt.Errorf("taint: %s.%s: %w", contract.Name, w.Variable.CanonicalName(), ir.ErrLayoutNotFound)
	}

	slotHex := issue.FormatSlotHex(slot)

	return issue.Finding{
		Variable:    w.Variable.CanonicalName(),
		Contract:    contract.Name,
		Slot:        slot,
		SlotHex:     slotHex,
		Offset:      offset,
		TaintSource: w.Reason,
		Function:    fn.CanonicalName,
		Impact:      issue.Medium,
		Confidence:  issue.Medium,
		Elements: issue.BuildElements(
			w.Variable.CanonicalName(),
			w.Reason,
			fn.CanonicalName,
			w.Node.String(),
			slot,
			offset,
		),
	}, nil
}
