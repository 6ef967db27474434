package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokita-j/tainted-storage/ir"
	"github.com/mokita-j/tainted-storage/storage"
)

func TestComputePacksValueTypesLeftToRight(t *testing.T) {
	c := &ir.Contract{Name: "C"}
	a := &ir.StateVariable{Name: "a", ContractName: "C", Type: ir.Type{SizeBytes: 1}}
	b := &ir.StateVariable{Name: "b", ContractName: "C", Type: ir.Type{SizeBytes: 1}}
	big := &ir.StateVariable{Name: "big", ContractName: "C", Type: ir.Type{SizeBytes: 32}}
	c.StateVariables = []*ir.StateVariable{a, b, big}

	layout := storage.Compute(c)

	slotA, offA, err := layout.StorageLayoutOf(c, a)
	require.NoError(t, err)
	assert.Equal(t, 0, slotA)
	assert.Equal(t, 0, offA)

	slotB, offB, err := layout.StorageLayoutOf(c, b)
	require.NoError(t, err)
	assert.Equal(t, 0, slotB)
	assert.Equal(t, 1, offB)

	slotBig, offBig, err := layout.StorageLayoutOf(c, big)
	require.NoError(t, err)
	assert.Equal(t, 1, slotBig, "a 32-byte value does not fit alongside a/b and starts a fresh slot")
	assert.Equal(t, 0, offBig)
}

func TestComputeGivesMappingsAndDynamicArraysTheirOwnSlot(t *testing.T) {
	c := &ir.Contract{Name: "C"}
	small := &ir.StateVariable{Name: "small", ContractName: "C", Type: ir.Type{SizeBytes: 1}}
	m := &ir.StateVariable{Name: "m", ContractName: "C", Type: ir.Type{IsMapping: true}}
	arr := &ir.StateVariable{Name: "arr", ContractName: "C", Type: ir.Type{IsDynamicArray: true}}
	after := &ir.StateVariable{Name: "after", ContractName: "C", Type: ir.Type{SizeBytes: 1}}
	c.StateVariables = []*ir.StateVariable{small, m, arr, after}

	layout := storage.Compute(c)

	slotSmall, _, _ := layout.StorageLayoutOf(c, small)
	slotM, offM, _ := layout.StorageLayoutOf(c, m)
	slotArr, offArr, _ := layout.StorageLayoutOf(c, arr)
	slotAfter, offAfter, _ := layout.StorageLayoutOf(c, after)

	assert.Equal(t, 0, slotSmall)
	assert.Equal(t, 1, slotM)
	assert.Equal(t, 0, offM)
	assert.Equal(t, 2, slotArr)
	assert.Equal(t, 0, offArr)
	assert.Equal(t, 3, slotAfter)
	assert.Equal(t, 0, offAfter)
}

func TestStorageLayoutOfMissReturnsErrLayoutNotFound(t *testing.T) {
	c := &ir.Contract{Name: "C"}
	other := &ir.StateVariable{Name: "ghost", ContractName: "C", Type: ir.Type{SizeBytes: 32}}

	layout := storage.Compute(c)
	_, _, err := layout.StorageLayoutOf(c, other)
	assert.ErrorIs(t, err, ir.ErrLayoutNotFound)
}

func TestOracleCachesPerContract(t *testing.T) {
	c := &ir.Contract{Name: "C"}
	v := &ir.StateVariable{Name: "v", ContractName: "C", Type: ir.Type{SizeBytes: 32}}
	c.StateVariables = []*ir.StateVariable{v}

	o := storage.NewOracle()
	slot1, _, err := o.StorageLayoutOf(c, v)
	require.NoError(t, err)
	slot2, _, err := o.StorageLayoutOf(c, v)
	require.NoError(t, err)
	assert.Equal(t, slot1, slot2)
}

func TestDynamicArrayBaseSlotIsDeterministic(t *testing.T) {
	a := storage.DynamicArrayBaseSlot(3)
	b := storage.DynamicArrayBaseSlot(3)
	c := storage.DynamicArrayBaseSlot(4)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
