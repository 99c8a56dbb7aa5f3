// Package modules binds problem generators into named producers per regime.
package modules

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/modules/measurement"
	"github.com/rpgo/mathgen/internal/split"
)

// ErrUnknownModule is returned when no module matches a name in a regime
var ErrUnknownModule = errors.New("modules: unknown module")

// Module names, "<group>__<generator>"
const (
	MeasurementConversion = "measurement__conversion"
	MeasurementTime       = "measurement__time"
)

// Module produces one problem. All configuration is bound when the module is
// built; only the caller's random source changes between calls.
type Module func(rng *rand.Rand) (domain.Problem, error)

// Registry maps regime to module name to producer. It is read-only after New.
type Registry struct {
	modules map[split.Regime]map[string]Module
}

// Settings converts configured budgets into measurement settings, scaling the
// entropies by a level's multiplier.
func Settings(cfg domain.MeasurementSettings, maxAttempts int, scale float64) measurement.Settings {
	s := measurement.Settings{
		DecimalEntropy:       cfg.DecimalEntropy * scale,
		ExtrapolationEntropy: cfg.ExtrapolationEntropy * scale,
		FractionEntropy:      cfg.FractionEntropy * scale,
		AllowZeroProbability: cfg.ZeroProbability(),
		MaxFractionAnswer:    cfg.MaxFractionAnswer,
		MaxAttempts:          maxAttempts,
	}
	return s
}

// New builds the registry for every regime
func New(settings measurement.Settings, partitioner *split.Partitioner) (*Registry, error) {
	gen, err := measurement.New(settings, partitioner)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}
	r := &Registry{modules: make(map[split.Regime]map[string]Module)}
	for _, regime := range split.Regimes() {
		regime := regime // per-iteration copy for the closures below (go < 1.22 loop semantics)
		set := map[string]Module{
			MeasurementConversion: func(rng *rand.Rand) (domain.Problem, error) {
				return gen.Conversion(rng, regime)
			},
		}
		// time has no larger-magnitude variant to extrapolate to
		if !regime.IsExtrapolation() {
			set[MeasurementTime] = func(rng *rand.Rand) (domain.Problem, error) {
				return gen.Time(rng, regime)
			}
		}
		r.modules[regime] = set
	}
	return r, nil
}

// Names returns the module names offered for a regime, sorted
func (r *Registry) Names(regime split.Regime) []string {
	set := r.modules[regime]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a module by full name or by the part after "__"
func (r *Registry) Lookup(regime split.Regime, name string) (Module, string, error) {
	set, ok := r.modules[regime]
	if !ok {
		return nil, "", fmt.Errorf("%w: regime %q", ErrUnknownModule, regime)
	}
	if m, ok := set[name]; ok {
		return m, name, nil
	}
	for _, full := range r.Names(regime) {
		if strings.HasSuffix(full, "__"+name) {
			return set[full], full, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %q in %s (available: %s)", ErrUnknownModule, name, regime, strings.Join(r.Names(regime), ", "))
}

// Filter returns the names in regime containing substr; an empty substr matches all
func (r *Registry) Filter(regime split.Regime, substr string) []string {
	var out []string
	for _, name := range r.Names(regime) {
		if strings.Contains(name, substr) {
			out = append(out, name)
		}
	}
	return out
}
