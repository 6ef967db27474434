// Package issue defines the result schema the tainted-storage detector
// emits (spec §6 "Result schema"), mirroring gosec's issue.Score /
// issue.Issue split: a small severity-like enum plus a struct carrying
// the fields a report renderer needs.
package issue

import (
	"encoding/json"
	"fmt"
)

// Level is the Impact/Confidence classification spec §6 requires
// ("impact = medium, confidence = medium"). Modeled as a type (rather
// than inlining the string "medium" in the detector) so a binary hosting
// more than one detector in the future is not special-cased here.
type Level int

const (
	Low Level = iota
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "Low"
	case High:
		return "High"
	default:
		return "Medium"
	}
}

// MarshalJSON renders a Level as its string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// MarshalYAML renders a Level as its string form.
func (l Level) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// Finding is the externally visible result for one tainted state-variable
// write, matching spec §6's Result schema field-for-field.
type Finding struct {
	Variable    string `json:"variable" yaml:"variable"`
	Contract    string `json:"contract" yaml:"contract"`
	Slot        int    `json:"slot" yaml:"slot"`
	SlotHex     string `json:"slot_hex" yaml:"slot_hex"`
	Offset      int    `json:"offset" yaml:"offset"`
	TaintSource string `json:"taint_source" yaml:"taint_source"`
	Function    string `json:"function" yaml:"function"`

	Impact     Level `json:"impact" yaml:"impact"`
	Confidence Level `json:"confidence" yaml:"confidence"`

	// Elements is the pretty-printed sequence spec §6 describes: the
	// variable, a description clause, the reason, the containing
	// function, and the offending node, suitable for a host pretty-
	// printer (or our own report/text renderer) to join and display.
	Elements []string `json:"-"`
}

// slotHexWidth is 64 hex digits: a 256-bit, zero-padded storage slot
// (spec §6 "slot_hex").
const slotHexWidth = 64

// FormatSlotHex renders slot as "0x" + 64 lowercase hex digits. A failed
// lookup (slot == -1, spec §7 "Layout miss") is rendered as the 256-bit
// two's-complement form (all-f), the only representation under which
// slot_hex stays a fixed-width unsigned hex string for every slot value
// this detector can ever produce — this resolves spec §9's open question
// of how slot_hex behaves on failure.
func FormatSlotHex(slot int) string {
	if slot < 0 {
		neg := uint64(-slot)
		// Two's complement of -neg over 256 bits: all 1s except the low
		// bits, which hold (2^256 - neg) truncated to 64 bits — for the
		// only negative value the driver ever produces (-1) this is all-f.
		mask := ^(neg - 1)
		return "0x" + repeat("f", slotHexWidth-16) + fmt.Sprintf("%016x", mask)
	}
	return fmt.Sprintf("0x%0*x", slotHexWidth, slot)
}

func repeat(s string, n int) string {
	b := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		b = append(b, s...)
	}
	return string(b)
}

// BuildElements constructs the human-readable element sequence spec §6
// names: "<variable> (slot: N, offset: M) is tainted by <reason> in
// <function>\n\t<node>\n".
func BuildElements(variable, reason, function, node string, slot, offset int) []string {
	return []string{
		variable,
		fmt.Sprintf(" (slot: %d, offset: %d) is tainted by ", slot, offset),
		reason,
		" in ",
		function,
		"\n\t",
		node,
		"\n",
	}
}
