// Package filter compiles CEL predicates that accept or reject generated problems.
//
// Expressions see the string variables module, regime, level, question and
// answer, e.g. `size(question) < 80 && !answer.startsWith("-")`.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// ErrInvalidExpression is returned when an expression does not compile to a bool
var ErrInvalidExpression = errors.New("filter: invalid expression")

const costLimit = 1000000

// Facts are the values a predicate is evaluated against
type Facts struct {
	Module   string
	Regime   string
	Level    string
	Question string
	Answer   string
}

func (f Facts) activation() map[string]any {
	return map[string]any{
		"module":   f.Module,
		"regime":   f.Regime,
		"level":    f.Level,
		"question": f.Question,
		"answer":   f.Answer,
	}
}

// Predicate is a compiled expression. It is safe for concurrent use.
type Predicate struct {
	expression string
	program    cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("module", cel.StringType),
		cel.Variable("regime", cel.StringType),
		cel.Variable("level", cel.StringType),
		cel.Variable("question", cel.StringType),
		cel.Variable("answer", cel.StringType),
	)
}

// Compile parses and type-checks expression. An empty expression yields a nil
// predicate, which accepts everything.
func Compile(expression string) (*Predicate, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("filter: create environment: %w", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q evaluates to %s, want bool", ErrInvalidExpression, expression, ast.OutputType())
	}
	prg, err := env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	return &Predicate{expression: expression, program: prg}, nil
}

// String returns the source expression
func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.expression
}

// Match evaluates the predicate
func (p *Predicate) Match(f Facts) (bool, error) {
	if p == nil {
		return true, nil
	}
	out, _, err := p.program.Eval(f.activation())
	if err != nil {
		return false, fmt.Errorf("filter: evaluate %q: %w", p.expression, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", ErrInvalidExpression, p.expression, out.Value())
	}
	return matched, nil
}
