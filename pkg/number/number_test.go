package number

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRationalLowestTerms(t *testing.T) {
	r, err := NewRational(10, -4)
	require.NoError(t, err)
	assert.Equal(t, "-5/2", r.String())
	assert.Equal(t, int64(2), r.Denom().Int64())
	assert.Equal(t, "-5/2", r.Canonical())

	_, err = NewRational(1, 0)
	assert.ErrorIs(t, err, ErrZeroDenominator)
}

func TestRationalArithmetic(t *testing.T) {
	half := MustRational(1, 2)
	third := MustRational(1, 3)

	assert.Equal(t, "5/6", half.Add(third).String())
	assert.Equal(t, "1/6", half.Sub(third).String())
	assert.Equal(t, "1/6", half.Mul(third).String())

	q, err := half.Quo(third)
	require.NoError(t, err)
	assert.Equal(t, "3/2", q.String())

	_, err = half.Quo(Rational{})
	assert.ErrorIs(t, err, ErrZeroDenominator)

	assert.True(t, NewInt(4).IsInt())
	assert.False(t, half.IsInt())
	assert.True(t, Rational{}.IsZero())
	assert.Equal(t, "0", Rational{}.String())
}

func TestCanonicalIgnoresRepresentation(t *testing.T) {
	a := NewInt(5)
	b := MustRational(10, 2)
	d, err := ParseDecimal("5.000")
	require.NoError(t, err)

	assert.Equal(t, a.Canonical(), b.Canonical())
	assert.Equal(t, a.Canonical(), d.Rational().Canonical())
	assert.Equal(t, "+5/1", a.Canonical())
	assert.Equal(t, "-3/4", MustRational(-3, 4).Canonical())
}

func TestToDecimal(t *testing.T) {
	cases := []struct {
		p, q int64
		want string
	}{
		{1, 8, "0.125"},
		{5000, 1, "5000"},
		{-7, 20, "-0.35"},
		{3, 1000, "0.003"},
	}
	for _, c := range cases {
		d, err := ToDecimal(MustRational(c.p, c.q))
		require.NoError(t, err)
		assert.Equal(t, c.want, d.String())
	}

	_, err := ToDecimal(MustRational(1, 3))
	assert.ErrorIs(t, err, ErrNotTerminating)
}

func TestDecimalRoundTrip(t *testing.T) {
	inputs := []string{"0.125", "-12.034", "5000", "0.000001", "123456789.987654321"}
	for _, in := range inputs {
		d, err := ParseDecimal(in)
		require.NoError(t, err)
		back, err := ParseDecimal(d.String())
		require.NoError(t, err)
		assert.True(t, d.Rational().Equal(back.Rational()), "round trip of %s", in)

		again, err := ToDecimal(d.Rational())
		require.NoError(t, err)
		assert.Equal(t, d.String(), again.String())
	}

	_, err := ParseDecimal("not-a-number")
	assert.Error(t, err)
}

func TestPlaces(t *testing.T) {
	cases := map[string]int{
		"1.50":   1,
		"0.125":  3,
		"5000":   0,
		"12.000": 0,
		"-0.07":  2,
	}
	for in, want := range cases {
		d, err := ParseDecimal(in)
		require.NoError(t, err)
		assert.Equal(t, want, d.Places(), in)
	}
}

func TestNonDecimalFactor(t *testing.T) {
	assert.Equal(t, int64(1), NonDecimalFactor(big.NewInt(1000)).Int64())
	assert.Equal(t, int64(3), NonDecimalFactor(big.NewInt(60)).Int64())
	assert.Equal(t, int64(27), NonDecimalFactor(big.NewInt(86400)).Int64())
	assert.Equal(t, int64(189), NonDecimalFactor(big.NewInt(604800)).Int64())
	assert.Equal(t, int64(3), NonDecimalFactor(big.NewInt(12)).Int64())
	assert.Equal(t, int64(1), NonDecimalFactor(big.NewInt(0)).Int64())
}
