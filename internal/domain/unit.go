package domain

import (
	"errors"
	"fmt"

	"github.com/rpgo/mathgen/pkg/number"
)

var (
	// ErrInvalidDimension is returned for dimensions with fewer than two units or non-positive scales
	ErrInvalidDimension = errors.New("domain: invalid dimension")
	// ErrInvalidUnitPair is returned when a unit is missing from a dimension or both units are equal
	ErrInvalidUnitPair = errors.New("domain: invalid unit pair")
)

// Unit is a named unit with an optional symbol. Plural is used in question text.
type Unit struct {
	Name   string `yaml:"name" json:"name"`
	Plural string `yaml:"plural,omitempty" json:"plural,omitempty"`
	Symbol string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
}

// PluralName returns the plural form, falling back to the name
func (u Unit) PluralName() string {
	if u.Plural != "" {
		return u.Plural
	}
	return u.Name
}

// HasSymbol reports whether the unit can be written with a symbol
func (u Unit) HasSymbol() bool {
	return u.Symbol != ""
}

// UnitScale pairs a unit with its size relative to the dimension's canonical unit
type UnitScale struct {
	Unit  Unit
	Scale number.Rational
}

// Dimension is an immutable family of mutually convertible units
type Dimension struct {
	name   string
	units  []Unit
	scales map[string]number.Rational
}

// NewDimension validates and builds a dimension; unit order is preserved
func NewDimension(name string, entries []UnitScale) (*Dimension, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: %s needs at least two units, got %d", ErrInvalidDimension, name, len(entries))
	}
	d := &Dimension{name: name, scales: make(map[string]number.Rational, len(entries))}
	for _, e := range entries {
		if e.Unit.Name == "" {
			return nil, fmt.Errorf("%w: %s has an unnamed unit", ErrInvalidDimension, name)
		}
		if _, dup := d.scales[e.Unit.Name]; dup {
			return nil, fmt.Errorf("%w: %s lists %s twice", ErrInvalidDimension, name, e.Unit.Name)
		}
		if e.Scale.Sign() <= 0 {
			return nil, fmt.Errorf("%w: %s scale of %s must be positive, got %s", ErrInvalidDimension, name, e.Unit.Name, e.Scale)
		}
		d.units = append(d.units, e.Unit)
		d.scales[e.Unit.Name] = e.Scale
	}
	return d, nil
}

// Name returns the dimension name
func (d *Dimension) Name() string { return d.name }

// Units returns a copy of the units in declaration order
func (d *Dimension) Units() []Unit {
	return append([]Unit(nil), d.units...)
}

// Unit looks up a unit by name
func (d *Dimension) Unit(name string) (Unit, bool) {
	for _, u := range d.units {
		if u.Name == name {
			return u, true
		}
	}
	return Unit{}, false
}

// Scale returns the factor of a unit relative to the canonical unit
func (d *Dimension) Scale(u Unit) (number.Rational, bool) {
	s, ok := d.scales[u.Name]
	return s, ok
}

// Ratio returns scale(from)/scale(to): a value in from multiplied by the ratio is the value in to
func (d *Dimension) Ratio(from, to Unit) (number.Rational, error) {
	if from.Name == to.Name {
		return number.Rational{}, fmt.Errorf("%w: %s to itself", ErrInvalidUnitPair, from.Name)
	}
	fs, ok := d.scales[from.Name]
	if !ok {
		return number.Rational{}, fmt.Errorf("%w: %s is not a %s unit", ErrInvalidUnitPair, from.Name, d.name)
	}
	ts, ok := d.scales[to.Name]
	if !ok {
		return number.Rational{}, fmt.Errorf("%w: %s is not a %s unit", ErrInvalidUnitPair, to.Name, d.name)
	}
	return fs.Quo(ts)
}
