// Package storage computes EVM storage-slot layout for contract state
// variables, playing the role of the "storage-layout oracle" spec §6
// requires the taint engine's host to supply. It is new domain logic this
// repo adds — the teacher (a Go source scanner) has no analogue for
// 256-bit packed storage slots — grounded on the well-known Solidity
// storage-layout algorithm: https://docs.soliditylang.org/en/latest/internals/layout_in_storage.html
package storage

import (
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/mokita-j/tainted-storage/ir"
)

// SlotBytes is the width of a single EVM storage slot.
const SlotBytes = 32

// Layout is a computed, cached storage layout for one contract: the
// (slot, offset) of every state variable it declares, in declaration
// order, following solc's left-to-right packing rule (a variable starts a
// fresh slot if it would not fit in the bytes remaining in the current
// one; mappings and dynamic arrays always start — and alone occupy — a
// fresh slot).
type Layout struct {
	slots map[string]position // keyed by StateVariable.CanonicalName()
}

type position struct {
	slot   int
	offset int
}

// Compute lays out every state variable declared on contract c, in
// c.StateVariables order (spec assumes the host contract already presents
// variables in C3-linearized declaration order, inherited-first).
func Compute(c *ir.Contract) *Layout {
	l := &Layout{slots: make(map[string]position)}

	slot := 0
	offset := 0
	for _, v := range c.StateVariables {
		size := v.Type.SizeBytes
		if size <= 0 || size > SlotBytes {
			size = SlotBytes
		}

		if v.Type.IsMapping || v.Type.IsDynamicArray {
			// Always starts (and alone occupies) a fresh slot.
			if offset != 0 {
				slot++
				offset = 0
			}
			l.slots[v.CanonicalName()] = position{slot: slot, offset: 0}
			slot++
			offset = 0
			continue
		}

		if offset+size > SlotBytes {
			slot++
			offset = 0
		}

		l.slots[v.CanonicalName()] = position{slot: slot, offset: offset}
		offset += size
		if offset == SlotBytes {
			slot++
			offset = 0
		}
	}

	return l
}

// StorageLayoutOf implements ir.StorageLayoutOracle.
func (l *Layout) StorageLayoutOf(c *ir.Contract, v *ir.StateVariable) (int, int, error) {
	if l == nil {
		return 0, 0, ir.ErrLayoutNotFound
	}
	p, ok := l.slots[v.CanonicalName()]
	if !ok {
		return 0, 0, ir.ErrLayoutNotFound
	}
	return p.slot, p.offset, nil
}

// Oracle computes layouts for every contract in a compilation unit and
// answers StorageLayoutOf lazily, caching per-contract layouts the way a
// real compiler's storage-layout pass would be computed once and reused
// across detectors.
type Oracle struct {
	byContract map[*ir.Contract]*Layout
}

// NewOracle returns an oracle with an empty cache.
func NewOracle() *Oracle {
	return &Oracle{byContract: make(map[*ir.Contract]*Layout)}
}

// StorageLayoutOf implements ir.StorageLayoutOracle, computing (and
// caching) the contract's layout on first use.
func (o *Oracle) StorageLayoutOf(c *ir.Contract, v *ir.StateVariable) (int, int, error) {
	l, ok := o.byContract[c]
	if !ok {
		l = Compute(c)
		o.byContract[c] = l
	}
	return l.StorageLayoutOf(c, v)
}

// DynamicArrayBaseSlot returns the slot at which a dynamic array's
// elements begin, i.e. keccak256(slot), the same derivation solc performs
// for `array.push()` / indexed reads into a dynamic array's data region.
// Exercises golang.org/x/crypto/sha3 on a real call path rather than
// keeping it a go.mod-only dependency.
func DynamicArrayBaseSlot(slot int) *big.Int {
	var buf [SlotBytes]byte
	big.NewInt(int64(slot)).FillBytes(buf[:])

	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])
	sum := h.Sum(nil)

	return new(big.Int).SetBytes(sum)
}
