package random

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	s, err := Hex(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)

	other, err := Hex(16)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestInt(t *testing.T) {
	for i := 0; i < 100; i++ {
		n, err := Int(10, 20)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(10))
		assert.LessOrEqual(t, n, int64(20))
	}

	n, err := Int(7, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = Int(20, 10)
	assert.Error(t, err)
}

func TestNumericCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}

	code, err := NumericCode(1)
	require.NoError(t, err)
	assert.Len(t, code, 1)

	_, err = NumericCode(0)
	assert.Error(t, err)
}
