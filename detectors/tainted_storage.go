package detectors

import (
	"github.com/mokita-j/tainted-storage/ir"
	"github.com/mokita-j/tainted-storage/issue"
	"github.com/mokita-j/tainted-storage/taint"
)

// ID is the detector's registration argument, matching original_source's
// TaintedStorage.ARGUMENT.
const ID = "tainted-storage"

const help = "State variables tainted by gasleft, gas-related globals, CREATE2, or sender balance"

const (
	wiki       = "https://github.com/crytic/slither/wiki/tainted-storage"
	wikiTitle  = "Storage tainted by gas-dependent or CREATE2 values"
	wikiDescription = "Detects state variables whose stored value depends on " +
		"`gasleft()`, `tx.gasprice`, `block.basefee`, `block.blobbasefee`, " +
		"`block.gaslimit`, the address returned by CREATE2, or " +
		"`msg.sender.balance`. These values are non-deterministic or " +
		"manipulable and storing them can lead to unexpected contract " +
		"behavior."
	wikiExploitScenario = "```solidity\n" +
		"contract Example {\n" +
		"    uint256 public gasSnapshot;\n" +
		"    function save() external {\n" +
		"        gasSnapshot = gasleft();\n" +
		"    }\n" +
		"}\n" +
		"```\n" +
		"`gasSnapshot` depends on remaining gas, which varies per call and " +
		"can be manipulated by callers to influence contract state."
	wikiRecommendation = "Avoid storing values derived from `gasleft()`, " +
		"`tx.gasprice`, `block.basefee`, `block.blobbasefee`, " +
		"`block.gaslimit`, CREATE2 deployment addresses, or " +
		"`msg.sender.balance` in contract storage. If needed, document " +
		"the non-determinism clearly and add validation logic."
)

// Definition describes the tainted-storage detector the way gosec's
// rules.RuleDefinition describes a rule: an ID, a one-line Help string,
// and the wiki-style documentation a host scanner surfaces alongside a
// finding (spec §1, §6).
type Definition struct {
	ID         string
	Help       string
	Impact     issue.Level
	Confidence issue.Level

	Wiki                string
	WikiTitle           string
	WikiDescription     string
	WikiExploitScenario string
	WikiRecommendation  string
}

// TaintedStorage is the Definition every Register() call returns.
var TaintedStorage = Definition{
	ID:         ID,
	Help:       help,
	Impact:     issue.Medium,
	Confidence: issue.Medium,

	Wiki:                wiki,
	WikiTitle:           wikiTitle,
	WikiDescription:     wikiDescription,
	WikiExploitScenario: wikiExploitScenario,
	WikiRecommendation:  wikiRecommendation,
}

// Detector runs the tainted-storage check over one compilation unit using
// a given storage-layout oracle, applying cfg.
type Detector struct {
	Definition Definition
	cfg        Config
	oracle     ir.StorageLayoutOracle
}

// Register builds the tainted-storage Detector, mirroring gosec's
// make_plugin()-style host-registration entry point (originally
// Slither's make_plugin, spec §1 "Registration"). A host scanner wires
// the returned Detector into its own rule list the way gosec's analyzer
// wires in rules.Generate()'s builders.
func Register(oracle ir.StorageLayoutOracle, cfg Config) *Detector {
	for _, g := range cfg.ExtraGasGlobals {
		if _, ok := ir.GasComposedSources[g]; !ok {
			ir.GasComposedSources[g] = g
		}
	}
	return &Detector{Definition: TaintedStorage, cfg: cfg, oracle: oracle}
}

// Detect runs the detector over unit and returns every finding, impact-
// and confidence-tagged per Definition. When d.cfg.Strict is set, a
// storage-layout lookup miss aborts the run and returns a non-nil error
// instead of a finding with an unresolved slot.
func (d *Detector) Detect(unit *ir.CompilationUnit) ([]issue.Finding, error) {
	var driver *taint.Driver
	if d.cfg.Strict {
		driver = taint.NewStrictDriver(d.oracle)
	} else {
		driver = taint.NewDriver(d.oracle)
	}

	findings, err := driver.Run(unit)
	if err != nil {
		return nil, err
	}

	for i := range findings {
		findings[i].Impact = d.Definition.Impact
		findings[i].Confidence = d.Definition.Confidence
	}
	return findings, nil
}
