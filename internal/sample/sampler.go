package sample

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"strings"

	"github.com/rpgo/mathgen/pkg/number"
)

// DefaultMaxAttempts bounds every rejection loop in this package
const DefaultMaxAttempts = 1000

// MaxEntropy is the largest budget the sampler accepts, in bits
const MaxEntropy = 1000

var (
	// ErrSamplingExhausted is returned when a rejection loop hits its attempt cap
	ErrSamplingExhausted = errors.New("sample: sampling exhausted")
	// ErrInvalidEntropy is returned for negative, NaN or oversized budgets
	ErrInvalidEntropy = errors.New("sample: invalid entropy")
)

// Kind selects the shape of a sampled value
type Kind int

const (
	KindInteger Kind = iota
	KindNonIntegerDecimal
	KindNonIntegerRational
)

var kindNames = map[Kind]string{
	KindInteger:            "integer",
	KindNonIntegerDecimal:  "non_integer_decimal",
	KindNonIntegerRational: "non_integer_rational",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind name such as "integer" or "non_integer_decimal"
func ParseKind(name string) (Kind, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for k, v := range kindNames {
		if v == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("sample: unknown kind %q", name)
}

// IntOptions constrains integer sampling
type IntOptions struct {
	Signed    bool
	MinAbs    int64
	CoprimeTo *big.Int // nil or |CoprimeTo| <= 1 means no constraint
}

// Sampler draws values whose encoding consumes roughly a given number of bits.
// It holds no state besides the random source it was handed, so one Sampler
// must not be shared between goroutines.
type Sampler struct {
	rng         *rand.Rand
	maxAttempts int
}

// Option configures a Sampler
type Option func(*Sampler)

// WithMaxAttempts overrides DefaultMaxAttempts; values < 1 are ignored
func WithMaxAttempts(n int) Option {
	return func(s *Sampler) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

// New creates a sampler over the supplied random source
func New(rng *rand.Rand, opts ...Option) *Sampler {
	s := &Sampler{rng: rng, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rand exposes the random source for callers making non-numeric choices
func (s *Sampler) Rand() *rand.Rand { return s.rng }

// MaxAttempts returns the retry cap used by this sampler
func (s *Sampler) MaxAttempts() int { return s.maxAttempts }

// Sample dispatches on kind
func (s *Sampler) Sample(entropy float64, signed bool, kind Kind) (number.Rational, error) {
	switch kind {
	case KindInteger:
		return s.Integer(entropy, signed)
	case KindNonIntegerDecimal:
		d, err := s.NonIntegerDecimal(entropy, signed)
		if err != nil {
			return number.Rational{}, err
		}
		return d.Rational(), nil
	case KindNonIntegerRational:
		return s.NonIntegerRational(entropy, signed)
	default:
		return number.Rational{}, fmt.Errorf("sample: unsupported kind %s", kind)
	}
}

// Integer draws from a range of width round(2^entropy): [0, width-1] when
// unsigned, [-ceil(width/2), ceil(width/2)] when signed
func (s *Sampler) Integer(entropy float64, signed bool) (number.Rational, error) {
	n, err := s.IntegerWith(entropy, IntOptions{Signed: signed})
	if err != nil {
		return number.Rational{}, err
	}
	return number.NewBigInt(n), nil
}

// IntegerWith draws an integer honouring MinAbs and CoprimeTo by rejection.
// Unsigned values come from [MinAbs, MinAbs+width-1].
func (s *Sampler) IntegerWith(entropy float64, opts IntOptions) (*big.Int, error) {
	width, err := rangeWidth(entropy)
	if err != nil {
		return nil, err
	}
	if opts.MinAbs < 0 {
		return nil, fmt.Errorf("sample: negative min abs %d", opts.MinAbs)
	}
	minAbs := big.NewInt(opts.MinAbs)
	width.Add(width, minAbs)

	coprime := new(big.Int)
	if opts.CoprimeTo != nil {
		coprime.Abs(opts.CoprimeTo)
	}
	if coprime.Cmp(big.NewInt(2)) >= 0 {
		// widen so that roughly the same number of admissible values remains
		f, _ := new(big.Float).SetInt(width).Float64()
		f = f/coprimeDensity(coprime) + 1
		if !math.IsInf(f, 0) {
			width, _ = big.NewFloat(math.Ceil(f)).Int(nil)
		}
	}

	var lo, hi *big.Int
	if opts.Signed {
		half := new(big.Int).Add(width, big.NewInt(1))
		half.Rsh(half, 1)
		lo, hi = new(big.Int).Neg(half), half
	} else {
		lo, hi = new(big.Int).Set(minAbs), new(big.Int).Sub(width, big.NewInt(1))
	}
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))

	gcd := new(big.Int)
	abs := new(big.Int)
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		v := new(big.Int).Rand(s.rng, span)
		v.Add(v, lo)
		abs.Abs(v)
		if abs.Cmp(minAbs) < 0 {
			continue
		}
		if coprime.Cmp(big.NewInt(2)) >= 0 && gcd.GCD(nil, nil, abs, coprime).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: integer entropy=%.2f min_abs=%d after %d attempts",
		ErrSamplingExhausted, entropy, opts.MinAbs, s.maxAttempts)
}

// NonIntegerDecimal draws a decimal with a non-zero fractional part. The digit
// count d satisfies d*log2(10) ≈ entropy; at most d digits follow the point.
func (s *Sampler) NonIntegerDecimal(entropy float64, signed bool) (number.Decimal, error) {
	digits := int(math.Round(entropy / math.Log2(10)))
	if digits < 1 {
		digits = 1
	}
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		base, err := s.IntegerWith(entropy, IntOptions{Signed: signed})
		if err != nil {
			return number.Decimal{}, err
		}
		shift := 1 + s.rng.Intn(digits)
		divider := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(shift)), nil)
		if new(big.Int).Rem(base, divider).Sign() == 0 {
			continue
		}
		value := number.FromRat(new(big.Rat).SetFrac(base, divider))
		return number.ToDecimal(value)
	}
	return number.Decimal{}, fmt.Errorf("%w: non-integer decimal entropy=%.2f after %d attempts",
		ErrSamplingExhausted, entropy, s.maxAttempts)
}

// NonIntegerRational draws p/q in lowest terms with q >= 2. The budget is split
// uniformly between numerator and denominator, so the two ranges together
// hold about 2^entropy pairs.
func (s *Sampler) NonIntegerRational(entropy float64, signed bool) (number.Rational, error) {
	if _, err := rangeWidth(entropy); err != nil {
		return number.Rational{}, err
	}
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		numerEntropy := s.rng.Float64() * entropy
		denomEntropy := entropy - numerEntropy
		numer, err := s.IntegerWith(numerEntropy, IntOptions{Signed: signed, MinAbs: 1})
		if err != nil {
			return number.Rational{}, err
		}
		denom, err := s.IntegerWith(denomEntropy, IntOptions{MinAbs: 2, CoprimeTo: numer})
		if err != nil {
			return number.Rational{}, err
		}
		r := number.FromRat(new(big.Rat).SetFrac(numer, denom))
		if r.IsInt() {
			continue
		}
		return r, nil
	}
	return number.Rational{}, fmt.Errorf("%w: non-integer rational entropy=%.2f after %d attempts",
		ErrSamplingExhausted, entropy, s.maxAttempts)
}

// Uniform returns an int in [lo, hi]
func (s *Sampler) Uniform(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Chance returns true with probability p
func (s *Sampler) Chance(p float64) bool {
	return s.rng.Float64() < p
}

func rangeWidth(entropy float64) (*big.Int, error) {
	if math.IsNaN(entropy) || entropy < 0 || entropy > MaxEntropy {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntropy, entropy)
	}
	w, _ := big.NewFloat(math.Round(math.Pow(2, entropy))).Int(nil)
	if w.Sign() == 0 {
		w.SetInt64(1)
	}
	return w, nil
}

// coprimeDensity approximates the fraction of integers coprime to n from its
// small prime factors (trial division stops at 10^4)
func coprimeDensity(n *big.Int) float64 {
	density := 1.0
	rest := new(big.Int).Set(n)
	q, m := new(big.Int), new(big.Int)
	for p := int64(2); p <= 10000 && rest.Cmp(big.NewInt(1)) > 0; p++ {
		bp := big.NewInt(p)
		divided := false
		for {
			q.QuoRem(rest, bp, m)
			if m.Sign() != 0 {
				break
			}
			rest.Set(q)
			divided = true
		}
		if divided {
			density *= 1 - 1/float64(p)
		}
	}
	return density
}
