package generate

import (
	"fmt"
	"math/rand"

	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/modules"
	"github.com/rpgo/mathgen/internal/sample"
)

// Limits bounds what SampleFromModule accepts. A zero length disables that check.
type Limits struct {
	MaxQuestionLength int
	MaxAnswerLength   int
	MaxAttempts       int
}

// LimitsFrom reads the limits out of a configuration
func LimitsFrom(cfg *domain.Configuration) Limits {
	return Limits{
		MaxQuestionLength: cfg.Limits.MaxQuestionLength,
		MaxAnswerLength:   cfg.Limits.MaxAnswerLength,
		MaxAttempts:       cfg.MaxAttempts,
	}
}

// Accept is an extra acceptance test applied after the length checks
type Accept func(domain.Problem) (bool, error)

// SampleFromModule draws from module until a problem fits the limits and passes
// accept. Module errors are returned as is.
func SampleFromModule(module modules.Module, rng *rand.Rand, limits Limits, accept Accept) (domain.Problem, error) {
	attempts := limits.MaxAttempts
	if attempts < 1 {
		attempts = sample.DefaultMaxAttempts
	}
	for attempt := 0; attempt < attempts; attempt++ {
		p, err := module(rng)
		if err != nil {
			return domain.Problem{}, err
		}
		if limits.MaxQuestionLength > 0 && len(p.Question) > limits.MaxQuestionLength {
			continue
		}
		if limits.MaxAnswerLength > 0 && len(p.AnswerText()) > limits.MaxAnswerLength {
			continue
		}
		if accept != nil {
			ok, err := accept(p)
			if err != nil {
				return domain.Problem{}, err
			}
			if !ok {
				continue
			}
		}
		return p, nil
	}
	return domain.Problem{}, fmt.Errorf("%w: no problem within limits after %d attempts", sample.ErrSamplingExhausted, attempts)
}
