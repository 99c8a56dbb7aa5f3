// Package generate runs modules across levels on a bounded worker pool.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/filter"
	"github.com/rpgo/mathgen/internal/modules"
	"github.com/rpgo/mathgen/internal/split"
)

// ErrEmptyPlan is returned when the module filter leaves nothing to generate
var ErrEmptyPlan = errors.New("generate: no modules selected")

// Job is one module run within one level
type Job struct {
	Level  string
	Regime split.Regime
	Module string
	Count  int
	Seed   int64

	module modules.Module
}

// Result is a finished job
type Result struct {
	Job      Job
	Batch    *domain.Batch
	Duration time.Duration
}

// Sink receives results one at a time, in completion order
type Sink func(Result) error

// Runner turns a configuration into batches
type Runner struct {
	config      *domain.Configuration
	partitioner *split.Partitioner
	predicate   *filter.Predicate
	limits      Limits
	logger      Logger
}

// NewRunner binds a validated configuration. A zero seed is replaced with a
// fresh one so the run can still be reproduced from the logged value.
func NewRunner(config *domain.Configuration, logger Logger) (*Runner, error) {
	if config == nil {
		return nil, fmt.Errorf("generate: nil configuration")
	}
	if logger == nil {
		logger = NopLogger{}
	}
	hash, err := split.HashByName(config.Hash)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	predicate, err := filter.Compile(config.Where)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if config.Seed == 0 {
		config.Seed = seedFunc()
		logger.Infof("no seed configured, using %d", config.Seed)
	}
	return &Runner{
		config:      config,
		partitioner: split.New(hash),
		predicate:   predicate,
		limits:      LimitsFrom(config),
		logger:      logger,
	}, nil
}

// Seed returns the base seed of the run
func (r *Runner) Seed() int64 { return r.config.Seed }

// Plan lists the jobs for every level and selected module, in config order
func (r *Runner) Plan() ([]Job, error) {
	var jobs []Job
	for _, level := range r.config.Levels {
		regime, err := split.ParseRegime(level.Regime)
		if err != nil {
			return nil, fmt.Errorf("generate: level %s: %w", level.Name, err)
		}
		registry, err := modules.New(modules.Settings(r.config.Measurement, r.config.MaxAttempts, level.Scale()), r.partitioner)
		if err != nil {
			return nil, fmt.Errorf("generate: level %s: %w", level.Name, err)
		}
		for _, name := range registry.Filter(regime, r.config.Filter) {
			m, _, err := registry.Lookup(regime, name)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, Job{
				Level:  level.Name,
				Regime: regime,
				Module: name,
				Count:  level.Count,
				Seed:   DeriveSeed(r.config.Seed, level.Name, name),
				module: m,
			})
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: filter %q", ErrEmptyPlan, r.config.Filter)
	}
	return jobs, nil
}

// RunJob generates one job's problems on the calling goroutine
func (r *Runner) RunJob(ctx context.Context, job Job) (*domain.Batch, error) {
	if job.module == nil {
		return nil, fmt.Errorf("generate: job %s/%s was not planned", job.Level, job.Module)
	}
	rng := rand.New(rand.NewSource(job.Seed))
	accept := r.acceptFor(job)
	batch := &domain.Batch{
		Source:   r.config.Source,
		Level:    job.Level,
		Regime:   string(job.Regime),
		Module:   job.Module,
		Problems: make([]domain.Problem, 0, job.Count),
	}
	for i := 0; i < job.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := SampleFromModule(job.module, rng, r.limits, accept)
		if err != nil {
			return nil, fmt.Errorf("generate: %s/%s problem %d: %w", job.Level, job.Module, i, err)
		}
		batch.Problems = append(batch.Problems, p)
	}
	return batch, nil
}

func (r *Runner) acceptFor(job Job) Accept {
	if r.predicate == nil {
		return nil
	}
	return func(p domain.Problem) (bool, error) {
		return r.predicate.Match(filter.Facts{
			Module:   job.Module,
			Regime:   string(job.Regime),
			Level:    job.Level,
			Question: p.Question,
			Answer:   p.AnswerText(),
		})
	}
}

// Run executes jobs with at most Workers running at once. The first error
// cancels the remaining jobs and is returned; sink calls never overlap.
func (r *Runner) Run(ctx context.Context, jobs []Job, sink Sink) error {
	workers := r.config.Workers
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	semaphore := make(chan struct{}, workers)
	for _, job := range jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}: // Acquire semaphore
			case <-ctx.Done():
				return
			}
			defer func() { <-semaphore }() // Release semaphore

			start := nowFunc()
			r.logger.Debugf("generating %d for %s/%s", job.Count, job.Level, job.Module)
			batch, err := r.RunJob(ctx, job)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					r.logger.Errorf("%s/%s failed: %v", job.Level, job.Module, err)
				}
				fail(err)
				return
			}
			result := Result{Job: job, Batch: batch, Duration: nowFunc().Sub(start)}

			mu.Lock()
			defer mu.Unlock()
			if firstErr != nil || sink == nil {
				return
			}
			if err := sink(result); err != nil {
				firstErr = fmt.Errorf("generate: write %s/%s: %w", job.Level, job.Module, err)
				cancel()
			}
		}(job)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
