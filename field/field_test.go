package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHexRoundTrip(t *testing.T) {
	e, err := ParseHex("ff")
	require.NoError(t, err)
	require.Equal(t, "255", e.String())
}

func TestParseDecimal(t *testing.T) {
	e, err := ParseDecimal("217")
	require.NoError(t, err)
	require.True(t, Equal(e, FromUint64(217)))
}

func TestInverseOfZeroIsZero(t *testing.T) {
	require.True(t, IsZero(Inverse(Zero())))
}

func TestInverse(t *testing.T) {
	seven := FromUint64(7)
	m := Inverse(seven)
	require.True(t, Equal(Mul(seven, m), One()))
}

func TestBitLittleEndian(t *testing.T) {
	x := FromUint64(13) // 0b1101
	want := []uint64{1, 0, 1, 1}
	for i, w := range want {
		require.Equalf(t, w, Bit(x, i), "bit %d", i)
	}
}

func TestNegConstMul(t *testing.T) {
	c, err := ParseHex("ff")
	require.NoError(t, err)
	neg := Neg(c)
	got := Mul(neg, FromUint64(2))
	require.True(t, Equal(got, Neg(FromUint64(510))))
}
