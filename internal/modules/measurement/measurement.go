// Package measurement generates unit conversion and time-of-day questions,
// e.g. "How many grams are there in 5kg?".
package measurement

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"

	"github.com/rpgo/mathgen/internal/composition"
	"github.com/rpgo/mathgen/internal/display"
	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/sample"
	"github.com/rpgo/mathgen/internal/split"
	"github.com/rpgo/mathgen/pkg/clock"
	"github.com/rpgo/mathgen/pkg/number"
)

// Settings are the knobs a caller binds into the generator
type Settings struct {
	DecimalEntropy       float64
	ExtrapolationEntropy float64
	FractionEntropy      float64
	AllowZeroProbability float64
	MaxFractionAnswer    int64
	MaxAttempts          int
}

// BitsPerDigit converts a budget counted in decimal digits into bits
var BitsPerDigit = math.Log2(10)

// DefaultSettings budgets 7 digits for decimal conversions, 9 when
// extrapolating and 2 for fractions, expressed in bits.
func DefaultSettings() Settings {
	return Settings{
		DecimalEntropy:       7 * BitsPerDigit,
		ExtrapolationEntropy: 9 * BitsPerDigit,
		FractionEntropy:      2 * BitsPerDigit,
		AllowZeroProbability: domain.DefaultAllowZeroProbability,
		MaxFractionAnswer:    100000,
		MaxAttempts:          sample.DefaultMaxAttempts,
	}
}

// Generator produces measurement problems. It is read-only after New and safe
// to share; every call brings its own random source.
type Generator struct {
	settings    Settings
	partitioner *split.Partitioner
	dimensions  []*domain.Dimension
}

// New validates the unit tables and binds settings
func New(settings Settings, partitioner *split.Partitioner) (*Generator, error) {
	if partitioner == nil {
		return nil, fmt.Errorf("measurement: partitioner is required")
	}
	if settings.MaxAttempts < 1 {
		settings.MaxAttempts = sample.DefaultMaxAttempts
	}
	if settings.MaxFractionAnswer <= 0 {
		settings.MaxFractionAnswer = DefaultSettings().MaxFractionAnswer
	}
	dims, err := Dimensions()
	if err != nil {
		return nil, err
	}
	return &Generator{settings: settings, partitioner: partitioner, dimensions: dims}, nil
}

// Settings returns the bound settings
func (g *Generator) Settings() Settings { return g.settings }

// Dimension looks up a built-in dimension
func (g *Generator) Dimension(name string) (*domain.Dimension, error) {
	for _, d := range g.dimensions {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown dimension %q", domain.ErrInvalidDimension, name)
}

// Convert returns value expressed in unit to, validating the pair before any arithmetic
func Convert(dim *domain.Dimension, from, to string, value number.Rational) (number.Rational, error) {
	if dim == nil {
		return number.Rational{}, fmt.Errorf("%w: nil dimension", domain.ErrInvalidDimension)
	}
	fu, ok := dim.Unit(from)
	if !ok {
		return number.Rational{}, fmt.Errorf("%w: %s is not a %s unit", domain.ErrInvalidUnitPair, from, dim.Name())
	}
	tu, ok := dim.Unit(to)
	if !ok {
		return number.Rational{}, fmt.Errorf("%w: %s is not a %s unit", domain.ErrInvalidUnitPair, to, dim.Name())
	}
	ratio, err := dim.Ratio(fu, tu)
	if err != nil {
		return number.Rational{}, err
	}
	return value.Mul(ratio), nil
}

func (g *Generator) sampler(rng *rand.Rand) *sample.Sampler {
	return sample.New(rng, sample.WithMaxAttempts(g.settings.MaxAttempts))
}

func (g *Generator) pickDimension(rng *rand.Rand) *domain.Dimension {
	return g.dimensions[rng.Intn(len(g.dimensions))]
}

func pickUnitPair(rng *rand.Rand, dim *domain.Dimension) (domain.Unit, domain.Unit) {
	units := dim.Units()
	perm := rng.Perm(len(units))
	return units[perm[0]], units[perm[1]]
}

// Conversion asks for a decimal or fractional conversion with equal odds.
// Extrapolation always uses the decimal form at the larger budget.
func (g *Generator) Conversion(rng *rand.Rand, regime split.Regime) (domain.Problem, error) {
	if regime.IsExtrapolation() || rng.Intn(2) == 0 {
		return g.ConversionDecimal(rng, regime)
	}
	return g.ConversionFraction(rng, regime)
}

type decimalConversion struct {
	base   number.Decimal
	from   domain.Unit
	target number.Decimal
	to     domain.Unit
}

func (g *Generator) sampleDecimalConversion(s *sample.Sampler, dim *domain.Dimension, entropy float64) (decimalConversion, error) {
	from, to := pickUnitPair(s.Rand(), dim)
	ratio, err := dim.Ratio(from, to)
	if err != nil {
		return decimalConversion{}, err
	}
	base, err := s.NonIntegerDecimal(entropy, false)
	if err != nil {
		return decimalConversion{}, err
	}
	// scale by the ratio's non-decimal primes so the converted value terminates
	factor := number.NewBigInt(number.NonDecimalFactor(ratio.Denom()))
	baseValue, err := number.ToDecimal(base.Rational().Mul(factor))
	if err != nil {
		return decimalConversion{}, err
	}
	target, err := number.ToDecimal(baseValue.Rational().Mul(ratio))
	if err != nil {
		return decimalConversion{}, err
	}
	return decimalConversion{base: baseValue, from: from, target: target, to: to}, nil
}

var decimalTemplates = []string{
	"How many {target_name} are there in {base_value} {base_name}?",
	"What is {base_value} {base_name} in {target_name}?",
	"Convert {base_value} {base_name} to {target_name}.",
}

var decimalSymbolTemplates = []string{
	"How many {target_name} are there in {base_value}{base_symbol}?",
	"What is {base_value}{base_symbol} in {target_name}?",
	"Convert {base_value}{base_symbol} to {target_name}.",
}

// ConversionDecimal asks e.g. "How many grams are there in 5.3kg?"
func (g *Generator) ConversionDecimal(rng *rand.Rand, regime split.Regime) (domain.Problem, error) {
	s := g.sampler(rng)
	dim := g.pickDimension(rng)
	entropy := g.settings.DecimalEntropy
	if regime.IsExtrapolation() {
		entropy = g.settings.ExtrapolationEntropy
	}

	var conv decimalConversion
	found := false
	for attempt := 0; attempt < g.settings.MaxAttempts; attempt++ {
		c, err := g.sampleDecimalConversion(s, dim, entropy)
		if err != nil {
			return domain.Problem{}, err
		}
		ok, err := g.partitioner.Accept(c.base, regime)
		if err != nil {
			return domain.Problem{}, err
		}
		if ok {
			conv, found = c, true
			break
		}
	}
	if !found {
		return domain.Problem{}, fmt.Errorf("%w: decimal conversion in %s for %s after %d attempts",
			sample.ErrSamplingExhausted, dim.Name(), regime, g.settings.MaxAttempts)
	}

	templates := decimalTemplates
	if conv.from.HasSymbol() {
		templates = append(append([]string(nil), decimalTemplates...), decimalSymbolTemplates...)
	}
	template := templates[rng.Intn(len(templates))]

	ctx := composition.New()
	question, err := ctx.Question(template, map[string]any{
		"base_name":   conv.from.PluralName(),
		"base_symbol": conv.from.Symbol,
		"base_value":  conv.base,
		"target_name": conv.to.PluralName(),
	})
	if err != nil {
		return domain.Problem{}, err
	}
	return domain.Problem{Question: question, Answer: conv.target}, nil
}

var fractionTemplates = []string{
	"How many {target_name} are there in {base_value} of {article} {base_name}?",
	"What is {base_value} of {article} {base_name} in {target_name}?",
}

// ConversionFraction asks e.g. "How many grams are there in three quarters of a kilogram?"
// Only integral answers within MaxFractionAnswer are accepted; zero answers are
// allowed for a AllowZeroProbability share of problems.
func (g *Generator) ConversionFraction(rng *rand.Rand, regime split.Regime) (domain.Problem, error) {
	s := g.sampler(rng)
	dim := g.pickDimension(rng)
	allowZero := s.Chance(g.settings.AllowZeroProbability)
	limit := number.NewInt(g.settings.MaxFractionAnswer)

	var (
		base, answer number.Rational
		from, to     domain.Unit
		found        bool
	)
	for attempt := 0; attempt < g.settings.MaxAttempts; attempt++ {
		from, to = pickUnitPair(rng, dim)
		candidate, err := s.NonIntegerRational(g.settings.FractionEntropy, false)
		if err != nil {
			return domain.Problem{}, err
		}
		ok, err := g.partitioner.Accept(candidate, regime)
		if err != nil {
			return domain.Problem{}, err
		}
		if !ok {
			continue
		}
		ratio, err := dim.Ratio(from, to)
		if err != nil {
			return domain.Problem{}, err
		}
		converted := candidate.Mul(ratio)
		if converted.Abs().Cmp(limit) <= 0 && converted.IsInt() && (allowZero || !converted.IsZero()) {
			base, answer, found = candidate, converted, true
			break
		}
	}
	if !found {
		return domain.Problem{}, fmt.Errorf("%w: integral fraction conversion in %s for %s after %d attempts",
			sample.ErrSamplingExhausted, dim.Name(), regime, g.settings.MaxAttempts)
	}

	var baseValue any = base
	if base.Denom().Cmp(big.NewInt(20)) <= 0 && rng.Intn(2) == 0 {
		baseValue = display.Words{Value: base}
	}

	ctx := composition.New()
	question, err := ctx.Question(fractionTemplates[rng.Intn(len(fractionTemplates))], map[string]any{
		"article":     article(from.Name),
		"base_name":   from.Name,
		"base_value":  baseValue,
		"target_name": to.PluralName(),
	})
	if err != nil {
		return domain.Problem{}, err
	}
	return domain.Problem{Question: question, Answer: answer}, nil
}

// timeParts is one instance of start + duration = end, in minutes
type timeParts struct {
	start, duration, end int
	variant              int
}

const (
	solveStart = iota
	solveEnd
	solveDuration
)

func (g *Generator) sampleTime(rng *rand.Rand, regime split.Regime) (timeParts, error) {
	s := g.sampler(rng)
	start := s.Uniform(1, clock.MinutesPerDay-1)
	duration, err := split.Filter(g.partitioner, g.settings.MaxAttempts, regime,
		func() (int, error) { return s.Uniform(1, clock.MinutesPerDay/2-1), nil },
		func(d int) any { return d })
	if err != nil {
		return timeParts{}, fmt.Errorf("measurement: time duration: %w", err)
	}
	return timeParts{
		start:    start,
		duration: duration,
		end:      start + duration,
		variant:  rng.Intn(3),
	}, nil
}

var timeTemplates = map[int][]string{
	solveStart:    {"What is {duration} minutes before {end}?", "What time was it {duration} minutes before {end}?"},
	solveEnd:      {"What is {duration} minutes after {start}?", "What time is {duration} minutes after {start}?"},
	solveDuration: {"How many minutes are there between {start} and {end}?"},
}

// Time asks for the start, end or length of an interval on a 24 hour clock
func (g *Generator) Time(rng *rand.Rand, regime split.Regime) (domain.Problem, error) {
	parts, err := g.sampleTime(rng, regime)
	if err != nil {
		return domain.Problem{}, err
	}
	start, end := clock.Format(parts.start), clock.Format(parts.end)
	templates := timeTemplates[parts.variant]
	template := templates[rng.Intn(len(templates))]

	ctx := composition.New()
	var (
		args   map[string]any
		answer domain.Answer
	)
	switch parts.variant {
	case solveStart:
		args = map[string]any{"duration": parts.duration, "end": end}
		answer = domain.TextAnswer(start)
	case solveEnd:
		args = map[string]any{"duration": parts.duration, "start": start}
		answer = domain.TextAnswer(end)
	default:
		args = map[string]any{"start": start, "end": end}
		answer = domain.IntAnswer(parts.duration)
	}
	question, err := ctx.Question(template, args)
	if err != nil {
		return domain.Problem{}, err
	}
	return domain.Problem{Question: question, Answer: answer}, nil
}
