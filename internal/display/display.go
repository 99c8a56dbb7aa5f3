// Package display renders exact numbers as text for question templates.
// Rendering never changes the underlying value.
package display

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/rpgo/mathgen/pkg/number"
)

var (
	// ErrNotRepresentable is returned when a value cannot be written in the requested style
	ErrNotRepresentable = errors.New("display: value not representable in style")
	// ErrUnknownStyle is returned for unregistered style names
	ErrUnknownStyle = errors.New("display: unknown style")
)

// Style renders an exact rational in one textual form
type Style interface {
	Format(v number.Rational) (string, error)
	// Name returns the registry identifier
	Name() string
}

// PlainDecimal renders terminating values as digits, e.g. "0.125"
type PlainDecimal struct{}

func (PlainDecimal) Name() string { return "plain-decimal" }

func (PlainDecimal) Format(v number.Rational) (string, error) {
	d, err := number.ToDecimal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotRepresentable, err)
	}
	return d.String(), nil
}

// Fraction renders "p/q", or just the integer when q is 1
type Fraction struct{}

func (Fraction) Name() string { return "fraction" }

func (Fraction) Format(v number.Rational) (string, error) {
	return v.String(), nil
}

// SpelledOut renders English words, e.g. "minus three quarters"
type SpelledOut struct{}

func (SpelledOut) Name() string { return "words" }

func (SpelledOut) Format(v number.Rational) (string, error) {
	return rationalWords(v), nil
}

var builtInStyles = []Style{
	PlainDecimal{},
	Fraction{},
	SpelledOut{},
}

var aliasMap = map[string]string{
	"decimal":     "plain-decimal",
	"plain":       "plain-decimal",
	"frac":        "fraction",
	"spelled":     "words",
	"spelled-out": "words",
}

// NormalizeStyleName lowers and resolves aliases
func NormalizeStyleName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// StyleByName fetches a registered style
func StyleByName(name string) (Style, error) {
	n := NormalizeStyleName(name)
	for _, s := range builtInStyles {
		if s.Name() == n {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownStyle, name, strings.Join(AvailableStyles(), ", "))
}

// AvailableStyles returns canonical style names
func AvailableStyles() []string {
	names := make([]string, 0, len(builtInStyles))
	for _, s := range builtInStyles {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

// Format renders v in the named style
func Format(v number.Rational, style string) (string, error) {
	s, err := StyleByName(style)
	if err != nil {
		return "", err
	}
	return s.Format(v)
}

// ParseDecimal reads back a plain-decimal rendering
func ParseDecimal(s string) (number.Rational, error) {
	d, err := number.ParseDecimal(s)
	if err != nil {
		return number.Rational{}, err
	}
	return d.Rational(), nil
}

// Words marks a value that templates should spell out
type Words struct {
	Value number.Rational
}

func (w Words) String() string { return rationalWords(w.Value) }

// Render is the default rendering of template arguments
func Render(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", fmt.Errorf("%w: nil", ErrNotRepresentable)
	case string:
		return x, nil
	case number.Decimal:
		return x.String(), nil
	case number.Rational:
		return Fraction{}.Format(x)
	case Words:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case *big.Int:
		return x.String(), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrNotRepresentable, v)
	}
}
