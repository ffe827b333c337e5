package hopscotch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsZeroCapacity(t *testing.T) {
	_, err := NewTable(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCapacity))
}

func TestNewTableRejectsNonPowerOfTwo(t *testing.T) {
	_, err := NewTable(100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCapacity))
}

func TestNewTableRejectsCapacityBelowHopRange(t *testing.T) {
	_, err := NewTable(HopRange / 2)
	require.Error(t, err)
}

func TestNewTableSmallestLegalCapacity(t *testing.T) {
	tbl, err := NewTable(HopRange)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), tbl.Len())
	assert.Equal(t, uint64(HopRange-1), tbl.mask)
}

func TestTableZeroResetsOccupancy(t *testing.T) {
	tbl, err := NewTable(64)
	require.NoError(t, err)

	var key [KeySize]byte
	key[0] = 1
	var value [ValueSize]byte
	value[0] = 0xAA

	res := tbl.Insert(func([KeySize]byte) uint32 { return 7 }, key, value)
	require.Equal(t, InsertOk, res)
	require.Equal(t, uint64(1), tbl.Len())

	tbl.Zero()
	assert.Equal(t, uint64(0), tbl.Len())
	_, lookupRes := tbl.Lookup(func([KeySize]byte) uint32 { return 7 }, key)
	assert.Equal(t, LookupMissing, lookupRes)
}
