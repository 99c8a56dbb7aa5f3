package number

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrNotTerminating is returned when a rational has no finite decimal expansion
var ErrNotTerminating = errors.New("number: value is not a terminating decimal")

// Decimal is a rational value that has a finite decimal expansion.
// Arithmetic stays exact; the shopspring representation is only used for rendering.
type Decimal struct {
	decimal.Decimal
}

var (
	bigTwo  = big.NewInt(2)
	bigFive = big.NewInt(5)
	bigTen  = big.NewInt(10)
)

// ToDecimal converts a rational to a Decimal, failing when the denominator has
// a prime factor other than 2 or 5
func ToDecimal(x Rational) (Decimal, error) {
	denom := x.Denom()
	twos := stripFactor(denom, bigTwo)
	fives := stripFactor(denom, bigFive)
	if denom.Cmp(big.NewInt(1)) != 0 {
		return Decimal{}, fmt.Errorf("%w: %s", ErrNotTerminating, x)
	}
	places := twos
	if fives > places {
		places = fives
	}
	// x = num / (2^twos 5^fives); scale numerator up to num * 10^places / denom
	scaled := x.Num()
	scaled.Mul(scaled, new(big.Int).Exp(bigTen, big.NewInt(int64(places)), nil))
	scaled.Quo(scaled, x.Denom())
	return Decimal{decimal.NewFromBigInt(scaled, -int32(places))}, nil
}

// ParseDecimal parses a plain decimal string such as "-12.034"
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("number: parse decimal %q: %w", s, err)
	}
	return Decimal{d}, nil
}

// Rational returns the exact rational value
func (d Decimal) Rational() Rational {
	return Rational{d.Decimal.Rat()}
}

// Places returns the number of fractional digits the value carries, ignoring trailing zeros
func (d Decimal) Places() int {
	exp := d.Decimal.Exponent()
	if exp >= 0 {
		return 0
	}
	coeff := new(big.Int).Abs(d.Decimal.Coefficient())
	places := int(-exp)
	rem := new(big.Int)
	for places > 0 && coeff.Sign() != 0 {
		q, m := new(big.Int).QuoRem(coeff, bigTen, rem)
		if m.Sign() != 0 {
			break
		}
		coeff = q
		places--
	}
	if coeff.Sign() == 0 {
		return 0
	}
	return places
}

// Equal checks if d equals other exactly
func (d Decimal) Equal(other Decimal) bool {
	return d.Decimal.Equal(other.Decimal)
}

// String renders the shortest exact plain decimal form, e.g. "0.05" or "5000"
func (d Decimal) String() string {
	return d.Decimal.String()
}

// stripFactor divides n by f while it divides evenly and returns the count
func stripFactor(n, f *big.Int) int {
	count := 0
	q, m := new(big.Int), new(big.Int)
	for n.Sign() != 0 {
		q.QuoRem(n, f, m)
		if m.Sign() != 0 {
			break
		}
		n.Set(q)
		count++
	}
	return count
}

// NonDecimalFactor returns the largest divisor of n that is coprime to 10.
// Multiplying a decimal by it before dividing by n keeps the result terminating.
func NonDecimalFactor(n *big.Int) *big.Int {
	rest := new(big.Int).Abs(n)
	if rest.Sign() == 0 {
		return big.NewInt(1)
	}
	stripFactor(rest, bigTwo)
	stripFactor(rest, bigFive)
	return rest
}
