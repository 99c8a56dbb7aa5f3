// Package split assigns every exact numeric value to the train or test side of
// the dataset. The assignment is a pure function of the value, so no table of
// previously used values is needed to keep the two sides disjoint.
package split

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/big"
	"sort"
	"strings"

	"github.com/rpgo/mathgen/internal/sample"
	"github.com/rpgo/mathgen/pkg/number"
)

// ErrSamplingExhausted is returned by Filter when no candidate matched the side
var ErrSamplingExhausted = sample.ErrSamplingExhausted

// Side is the half of the partition a value belongs to
type Side int

const (
	Train Side = iota
	Test
)

func (s Side) String() string {
	if s == Train {
		return "train"
	}
	return "test"
}

// Regime is the intended evaluation role of generated data
type Regime string

const (
	RegimeTrain       Regime = "train"
	RegimeTest        Regime = "test"
	RegimeInterpolate Regime = "interpolate"
	RegimeExtrapolate Regime = "extrapolate"
)

// Regimes lists every regime in a stable order
func Regimes() []Regime {
	return []Regime{RegimeTrain, RegimeTest, RegimeInterpolate, RegimeExtrapolate}
}

// ParseRegime resolves a regime tag
func ParseRegime(s string) (Regime, error) {
	r := Regime(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RegimeTrain, RegimeTest, RegimeInterpolate, RegimeExtrapolate:
		return r, nil
	}
	return "", fmt.Errorf("split: unknown regime %q", s)
}

// Side returns the partition side values for this regime must fall on.
// Everything but training is drawn from the test side.
func (r Regime) Side() Side {
	if r == RegimeTrain {
		return Train
	}
	return Test
}

// IsExtrapolation reports whether the regime expects out-of-distribution magnitudes
func (r Regime) IsExtrapolation() bool {
	return r == RegimeExtrapolate
}

// HashFunc maps a canonical byte representation to a 64 bit hash
type HashFunc func([]byte) uint64

// SHA256 uses the first eight bytes of a SHA-256 digest
func SHA256(b []byte) uint64 {
	sum := sha256.Sum256(b)
	return binary.BigEndian.Uint64(sum[:8])
}

// FNV64a is the 64 bit FNV-1a hash
func FNV64a(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// DefaultHash names the rule used when none is configured
const DefaultHash = "sha256"

var hashFuncs = map[string]HashFunc{
	DefaultHash: SHA256,
	"fnv64a": FNV64a,
}

// HashByName returns a registered boundary rule
func HashByName(name string) (HashFunc, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = DefaultHash
	}
	if f, ok := hashFuncs[n]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("split: unknown hash %q (available: %s)", name, strings.Join(HashNames(), ", "))
}

// HashNames lists the registered boundary rules
func HashNames() []string {
	names := make([]string, 0, len(hashFuncs))
	for n := range hashFuncs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Partitioner decides the side of a value from a hash of its canonical form
type Partitioner struct {
	hash HashFunc
}

// New creates a partitioner; a nil hash selects SHA256
func New(hash HashFunc) *Partitioner {
	if hash == nil {
		hash = SHA256
	}
	return &Partitioner{hash: hash}
}

// SideOf returns the side of v. Values with equal exact value (5, 5.0, 10/2)
// always share a side.
func (p *Partitioner) SideOf(v any) (Side, error) {
	r, err := toRational(v)
	if err != nil {
		return Train, err
	}
	if p.hash([]byte(r.Canonical()))%2 == 0 {
		return Train, nil
	}
	return Test, nil
}

// Accept reports whether v lies on the side the regime draws from
func (p *Partitioner) Accept(v any, regime Regime) (bool, error) {
	side, err := p.SideOf(v)
	if err != nil {
		return false, err
	}
	return side == regime.Side(), nil
}

// Filter calls draw until it yields a value whose side matches the regime, at
// most attempts times. The key function picks the value that is partitioned.
func Filter[V any](p *Partitioner, attempts int, regime Regime, draw func() (V, error), key func(V) any) (V, error) {
	var zero V
	if attempts < 1 {
		attempts = sample.DefaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		v, err := draw()
		if err != nil {
			return zero, err
		}
		ok, err := p.Accept(key(v), regime)
		if err != nil {
			return zero, err
		}
		if ok {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w: no %s-side value after %d attempts", ErrSamplingExhausted, regime.Side(), attempts)
}

func toRational(v any) (number.Rational, error) {
	switch x := v.(type) {
	case number.Rational:
		return x, nil
	case number.Decimal:
		return x.Rational(), nil
	case int:
		return number.NewInt(int64(x)), nil
	case int64:
		return number.NewInt(x), nil
	case *big.Int:
		return number.NewBigInt(x), nil
	case *big.Rat:
		return number.FromRat(x), nil
	default:
		return number.Rational{}, fmt.Errorf("split: cannot partition value of type %T", v)
	}
}
