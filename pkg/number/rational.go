package number

import (
	"errors"
	"math/big"
)

// ErrZeroDenominator is returned when a rational is built with a zero denominator
var ErrZeroDenominator = errors.New("number: zero denominator")

// Rational is an exact rational number kept in lowest terms with a positive denominator.
// The zero value is 0.
type Rational struct {
	r *big.Rat
}

// NewInt creates a Rational from an integer
func NewInt(n int64) Rational {
	return Rational{new(big.Rat).SetInt64(n)}
}

// NewBigInt creates a Rational from a big integer
func NewBigInt(n *big.Int) Rational {
	return Rational{new(big.Rat).SetInt(n)}
}

// NewRational creates p/q reduced to lowest terms
func NewRational(p, q int64) (Rational, error) {
	if q == 0 {
		return Rational{}, ErrZeroDenominator
	}
	return Rational{big.NewRat(p, q)}, nil
}

// MustRational is NewRational for constant tables; it panics on a zero denominator
func MustRational(p, q int64) Rational {
	r, err := NewRational(p, q)
	if err != nil {
		panic(err)
	}
	return r
}

// FromRat copies a big.Rat into a Rational
func FromRat(r *big.Rat) Rational {
	if r == nil {
		return Rational{}
	}
	return Rational{new(big.Rat).Set(r)}
}

func (x Rational) rat() *big.Rat {
	if x.r == nil {
		return new(big.Rat)
	}
	return x.r
}

// Rat returns a copy of the underlying big.Rat
func (x Rational) Rat() *big.Rat {
	return new(big.Rat).Set(x.rat())
}

// Num returns a copy of the numerator (carries the sign)
func (x Rational) Num() *big.Int {
	return new(big.Int).Set(x.rat().Num())
}

// Denom returns a copy of the denominator (always positive)
func (x Rational) Denom() *big.Int {
	return new(big.Int).Set(x.rat().Denom())
}

// IsInt reports whether the denominator is 1
func (x Rational) IsInt() bool {
	return x.rat().IsInt()
}

// IsZero reports whether the value is zero
func (x Rational) IsZero() bool {
	return x.rat().Sign() == 0
}

// Sign returns -1, 0 or +1
func (x Rational) Sign() int {
	return x.rat().Sign()
}

// Add returns x + y
func (x Rational) Add(y Rational) Rational {
	return Rational{new(big.Rat).Add(x.rat(), y.rat())}
}

// Sub returns x - y
func (x Rational) Sub(y Rational) Rational {
	return Rational{new(big.Rat).Sub(x.rat(), y.rat())}
}

// Mul returns x * y
func (x Rational) Mul(y Rational) Rational {
	return Rational{new(big.Rat).Mul(x.rat(), y.rat())}
}

// Quo returns x / y; dividing by zero returns ErrZeroDenominator
func (x Rational) Quo(y Rational) (Rational, error) {
	if y.IsZero() {
		return Rational{}, ErrZeroDenominator
	}
	return Rational{new(big.Rat).Quo(x.rat(), y.rat())}, nil
}

// Abs returns |x|
func (x Rational) Abs() Rational {
	return Rational{new(big.Rat).Abs(x.rat())}
}

// Neg returns -x
func (x Rational) Neg() Rational {
	return Rational{new(big.Rat).Neg(x.rat())}
}

// Cmp compares x and y
func (x Rational) Cmp(y Rational) int {
	return x.rat().Cmp(y.rat())
}

// Equal checks if x equals y
func (x Rational) Equal(y Rational) bool {
	return x.Cmp(y) == 0
}

// String renders "n" for integers and "p/q" otherwise
func (x Rational) String() string {
	return x.rat().RatString()
}

// Canonical returns the exact representation used for hashing: sign, numerator
// magnitude and denominator. Equal values always share a canonical form.
func (x Rational) Canonical() string {
	r := x.rat()
	sign := "+"
	if r.Sign() < 0 {
		sign = "-"
	}
	num := new(big.Int).Abs(r.Num())
	return sign + num.String() + "/" + r.Denom().String()
}
