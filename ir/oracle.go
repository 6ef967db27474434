package ir

import "errors"

// ErrLayoutNotFound is returned by a StorageLayoutOracle when it cannot
// resolve a variable's slot — a Layout miss per spec §7, swallowed into
// (-1, -1) by the default driver and returned wrapped by a strict driver.
var ErrLayoutNotFound = errors.New("ir: storage layout not found")

// StorageLayoutOracle is the external collaborator spec §6 names:
// storage_layout_of(contract, var) -> (slot, offset), may fail.
type StorageLayoutOracle interface {
	StorageLayoutOf(contract *Contract, v *StateVariable) (slot int, offsetBytes int, err error)
}
