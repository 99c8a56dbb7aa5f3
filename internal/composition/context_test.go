package composition

import (
	"testing"

	"github.com/rpgo/mathgen/internal/display"
	"github.com/rpgo/mathgen/pkg/number"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityHandles(t *testing.T) {
	ctx := New()
	a := ctx.NewEntity("", 1, "")
	b := ctx.NewEntity("", 2, "")
	x := ctx.NewEntity("x", 3, "")
	x2 := ctx.NewEntity("x", 4, "")

	assert.Equal(t, "a", a.Handle)
	assert.Equal(t, "b", b.Handle)
	assert.Equal(t, "x", x.Handle)
	assert.Equal(t, "x2", x2.Handle)
	assert.Equal(t, []int{0, 1, 2, 3}, []int{a.Index, b.Index, x.Index, x2.Index})
	assert.Equal(t, 4, ctx.Len())
}

func TestEntitiesAreAppendOnly(t *testing.T) {
	ctx := New()
	first := ctx.NewEntity("d", number.NewInt(5), "")
	snapshot := ctx.Entities()
	snapshot[0].Value = "mutated"

	got, ok := ctx.Entity("d")
	require.True(t, ok)
	assert.Equal(t, first, got)
	assert.Equal(t, number.NewInt(5), got.Value)

	_, err := ctx.Bind("d", 6, "")
	assert.ErrorIs(t, err, ErrDuplicateHandle)
	_, err = ctx.Bind(" ", 6, "")
	assert.Error(t, err)
	assert.Equal(t, 1, ctx.Len())

	_, ok = ctx.Entity("missing")
	assert.False(t, ok)
}

func TestQuestionPlainArguments(t *testing.T) {
	ctx := New()
	d, err := number.ParseDecimal("2.5")
	require.NoError(t, err)
	q, err := ctx.Question("How many {target} are there in {value} {base}?", map[string]any{
		"target": "meters",
		"value":  d,
		"base":   "kilometers",
	})
	require.NoError(t, err)
	assert.Equal(t, "How many meters are there in 2.5 kilometers?", q)
}

func TestQuestionWithEntities(t *testing.T) {
	ctx := New()
	dist := ctx.NewEntity("d", number.NewInt(5000), "Let {self} be the number of meters in 5 kilometers.")
	unused := ctx.NewEntity("u", number.NewInt(1), "Let {self} be 1.")
	_ = unused
	half := ctx.NewEntity("h", number.MustRational(1, 2), "Let {self} be one half.")

	q, err := ctx.Question("What is {h} of {d}?", map[string]any{"d": dist, "h": half})
	require.NoError(t, err)
	assert.Equal(t, "Let d be the number of meters in 5 kilometers. Let h be one half. What is h of d?", q)

	// Repeated reference keeps one consistent rendering and one description.
	q, err = ctx.Question("{d} plus {d}", map[string]any{"d": dist})
	require.NoError(t, err)
	assert.Equal(t, "Let d be the number of meters in 5 kilometers. d plus d", q)
	assert.Equal(t, "d", ctx.TemplateFor(dist))
}

func TestQuestionErrors(t *testing.T) {
	ctx := New()
	_, err := ctx.Question("What is {x}?", map[string]any{})
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = ctx.Question("What is {x?", map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrMalformedTemplate)

	_, err = ctx.Question("What is x}?", nil)
	assert.ErrorIs(t, err, ErrMalformedTemplate)

	_, err = ctx.Question("What is {x}?", map[string]any{"x": nil})
	assert.ErrorIs(t, err, display.ErrNotRepresentable)
}

func TestQuestionRejectsEntityFromAnotherContext(t *testing.T) {
	ctx := New()
	ctx.NewEntity("a", 1, "Let {self} be 1.")
	other := New()
	b := other.NewEntity("b", 2, "Let {self} be 2.")
	assert.Equal(t, 0, b.Index)

	_, err := ctx.Question("What is {b}?", map[string]any{"b": b})
	assert.ErrorIs(t, err, ErrForeignEntity)

	// a zero Entity has no context either
	_, err = ctx.Question("What is {z}?", map[string]any{"z": Entity{Handle: "a"}})
	assert.ErrorIs(t, err, ErrForeignEntity)
}

func TestQuestionEscapes(t *testing.T) {
	q, err := New().Question("Set {{a}} has {n} items", map[string]any{"n": 3})
	require.NoError(t, err)
	assert.Equal(t, "Set {a} has 3 items", q)
}

func TestQuestionWordsArgument(t *testing.T) {
	q, err := New().Question("What is {v} of a kilometer in meters?", map[string]any{
		"v": display.Words{Value: number.MustRational(3, 4)},
	})
	require.NoError(t, err)
	assert.Equal(t, "What is three quarters of a kilometer in meters?", q)
}
