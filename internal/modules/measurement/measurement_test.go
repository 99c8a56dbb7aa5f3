package measurement

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/sample"
	"github.com/rpgo/mathgen/internal/split"
	"github.com/rpgo/mathgen/pkg/clock"
	"github.com/rpgo/mathgen/pkg/number"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, mutate ...func(*Settings)) *Generator {
	t.Helper()
	settings := DefaultSettings()
	for _, m := range mutate {
		m(&settings)
	}
	g, err := New(settings, split.New(nil))
	require.NoError(t, err)
	return g
}

func TestDimensionsAreValid(t *testing.T) {
	dims, err := Dimensions()
	require.NoError(t, err)
	require.Len(t, dims, len(DimensionNames))
	for _, d := range dims {
		assert.GreaterOrEqual(t, len(d.Units()), 2, d.Name())
		for _, u := range d.Units() {
			s, ok := d.Scale(u)
			require.True(t, ok)
			assert.Equal(t, 1, s.Sign(), "%s/%s", d.Name(), u.Name)
		}
	}
}

func TestConvertKilometersToMeters(t *testing.T) {
	g := newTestGenerator(t)
	length, err := g.Dimension("length")
	require.NoError(t, err)

	got, err := Convert(length, "kilometer", "meter", number.NewInt(5))
	require.NoError(t, err)
	assert.True(t, got.Equal(number.NewInt(5000)), "got %s", got)

	p := split.New(nil)
	a, err := p.SideOf(number.NewInt(5))
	require.NoError(t, err)
	b, err := split.New(nil).SideOf(5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConvertRejectsBadPairs(t *testing.T) {
	g := newTestGenerator(t)
	length, err := g.Dimension("length")
	require.NoError(t, err)

	_, err = Convert(length, "meter", "meter", number.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidUnitPair)
	_, err = Convert(length, "meter", "gram", number.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidUnitPair)
	_, err = Convert(nil, "meter", "kilometer", number.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidDimension)
	_, err = g.Dimension("temperature")
	assert.ErrorIs(t, err, domain.ErrInvalidDimension)
}

func TestDecimalConversionIsExact(t *testing.T) {
	g := newTestGenerator(t)
	rng := rand.New(rand.NewSource(21))
	s := sample.New(rng)
	for _, dim := range g.dimensions {
		for i := 0; i < 200; i++ {
			c, err := g.sampleDecimalConversion(s, dim, 7)
			require.NoError(t, err)
			ratio, err := dim.Ratio(c.from, c.to)
			require.NoError(t, err)
			want := c.base.Rational().Mul(ratio)
			assert.True(t, want.Equal(c.target.Rational()), "%s %s -> %s", c.base, c.from.Name, c.to.Name)
		}
	}
}

func significantDigits(d number.Decimal) int {
	return len(strings.TrimLeft(strings.Replace(d.String(), ".", "", 1), "0"))
}

func TestExtrapolationSamplesLargerValues(t *testing.T) {
	g := newTestGenerator(t)
	length, err := g.Dimension("length")
	require.NoError(t, err)

	profile := func(entropy float64) (maxBase number.Rational, meanDigits float64) {
		s := sample.New(rand.New(rand.NewSource(81)))
		maxBase = number.NewInt(0)
		const n = 500
		total := 0
		for i := 0; i < n; i++ {
			c, err := g.sampleDecimalConversion(s, length, entropy)
			require.NoError(t, err)
			if c.base.Rational().Cmp(maxBase) > 0 {
				maxBase = c.base.Rational()
			}
			total += significantDigits(c.base)
		}
		return maxBase, float64(total) / n
	}

	trainMax, trainDigits := profile(g.Settings().DecimalEntropy)
	extraMax, extraDigits := profile(g.Settings().ExtrapolationEntropy)
	assert.Equal(t, 1, extraMax.Cmp(trainMax), "extrapolate max %s, train max %s", extraMax, trainMax)
	assert.Greater(t, extraDigits, trainDigits+1)
}

var firstNumber = regexp.MustCompile(`\d+(\.\d+)?`)

func TestConversionDecimalRespectsSplit(t *testing.T) {
	g := newTestGenerator(t)
	p := split.New(nil)
	for _, regime := range []split.Regime{split.RegimeTrain, split.RegimeInterpolate, split.RegimeExtrapolate} {
		rng := rand.New(rand.NewSource(31))
		for i := 0; i < 200; i++ {
			problem, err := g.ConversionDecimal(rng, regime)
			require.NoError(t, err)
			_, isDecimal := problem.Answer.(number.Decimal)
			assert.True(t, isDecimal)

			text := firstNumber.FindString(problem.Question)
			require.NotEmpty(t, text, problem.Question)
			base, err := number.ParseDecimal(text)
			require.NoError(t, err)
			ok, err := p.Accept(base, regime)
			require.NoError(t, err)
			assert.True(t, ok, "%q landed on the wrong side for %s", problem.Question, regime)
		}
	}
}

func TestConversionFractionAnswers(t *testing.T) {
	g := newTestGenerator(t, func(s *Settings) { s.AllowZeroProbability = 0 })
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		problem, err := g.ConversionFraction(rng, split.RegimeTrain)
		require.NoError(t, err, "seed %d", seed)
		answer, ok := problem.Answer.(number.Rational)
		require.True(t, ok)
		assert.True(t, answer.IsInt(), problem.Question)
		assert.False(t, answer.IsZero(), problem.Question)
		assert.LessOrEqual(t, answer.Abs().Cmp(number.NewInt(100000)), 0)
		assert.Regexp(t, `of an? `, problem.Question)
	}
}

func TestExtrapolationAlwaysDecimal(t *testing.T) {
	g := newTestGenerator(t)
	rng := rand.New(rand.NewSource(41))
	for i := 0; i < 100; i++ {
		problem, err := g.Conversion(rng, split.RegimeExtrapolate)
		require.NoError(t, err)
		_, isDecimal := problem.Answer.(number.Decimal)
		assert.True(t, isDecimal)
	}
}

func TestSamplingExhaustionPropagates(t *testing.T) {
	g := newTestGenerator(t, func(s *Settings) {
		s.MaxAttempts = 1
		s.AllowZeroProbability = 0
	})
	failures := 0
	for seed := int64(1); seed <= 100; seed++ {
		_, err := g.ConversionFraction(rand.New(rand.NewSource(seed)), split.RegimeTest)
		if err != nil {
			assert.ErrorIs(t, err, sample.ErrSamplingExhausted)
			failures++
		}
	}
	assert.Greater(t, failures, 0)
}

func TestTimeArithmeticClosure(t *testing.T) {
	g := newTestGenerator(t)
	rng := rand.New(rand.NewSource(51))
	for i := 0; i < 500; i++ {
		parts, err := g.sampleTime(rng, split.RegimeTrain)
		require.NoError(t, err)
		assert.Equal(t, parts.end, parts.start+parts.duration)
		assert.GreaterOrEqual(t, parts.start, 1)
		assert.Less(t, parts.start, clock.MinutesPerDay)
		assert.GreaterOrEqual(t, parts.duration, 1)
		assert.Less(t, parts.duration, clock.MinutesPerDay/2)
		assert.Equal(t, parts.duration, clock.Between(clock.Wrap(parts.start), clock.Wrap(parts.end)))
	}
}

var (
	clockPattern    = regexp.MustCompile(`\d{2}:\d{2}`)
	durationPattern = regexp.MustCompile(`(\d+) minutes (before|after)`)
)

func TestTimeProblemsAreConsistent(t *testing.T) {
	g := newTestGenerator(t)
	rng := rand.New(rand.NewSource(61))
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		problem, err := g.Time(rng, split.RegimeTest)
		require.NoError(t, err)

		if m := durationPattern.FindStringSubmatch(problem.Question); m != nil {
			duration, err := strconv.Atoi(m[1])
			require.NoError(t, err)
			given, err := clock.Parse(clockPattern.FindString(problem.Question))
			require.NoError(t, err)
			answer, err := clock.Parse(problem.AnswerText())
			require.NoError(t, err)
			if m[2] == "after" {
				assert.Equal(t, clock.Format(given+duration), clock.Format(answer))
			} else {
				assert.Equal(t, clock.Format(answer+duration), clock.Format(given))
			}
			seen[m[2]] = true
			continue
		}

		times := clockPattern.FindAllString(problem.Question, -1)
		require.Len(t, times, 2, problem.Question)
		start, err := clock.Parse(times[0])
		require.NoError(t, err)
		end, err := clock.Parse(times[1])
		require.NoError(t, err)
		duration, err := strconv.Atoi(problem.AnswerText())
		require.NoError(t, err)
		assert.Equal(t, duration, clock.Between(start, end))
		seen["between"] = true
	}
	assert.Len(t, seen, 3, "all three question forms should appear")
}

func TestTimeDurationsDisjointAcrossSplit(t *testing.T) {
	g := newTestGenerator(t)
	train := map[int]bool{}
	rng := rand.New(rand.NewSource(71))
	for i := 0; i < 400; i++ {
		parts, err := g.sampleTime(rng, split.RegimeTrain)
		require.NoError(t, err)
		train[parts.duration] = true
	}
	for i := 0; i < 400; i++ {
		parts, err := g.sampleTime(rng, split.RegimeTest)
		require.NoError(t, err)
		assert.False(t, train[parts.duration], "duration %d used by both sides", parts.duration)
	}
}

func TestMidnightWrapScenario(t *testing.T) {
	start, err := clock.Parse("23:50")
	require.NoError(t, err)
	end := start + 20
	assert.Equal(t, "00:10", clock.Format(end))
	endParsed, err := clock.Parse(clock.Format(end))
	require.NoError(t, err)
	assert.Equal(t, 20, clock.Between(start, endParsed))
}

func TestArticle(t *testing.T) {
	assert.Equal(t, "an", article("hour"))
	assert.Equal(t, "an", article("ounce"))
	assert.Equal(t, "a", article("kilogram"))
	assert.Equal(t, "a", article(""))
}

func TestNewRequiresPartitioner(t *testing.T) {
	_, err := New(DefaultSettings(), nil)
	assert.Error(t, err)
}
