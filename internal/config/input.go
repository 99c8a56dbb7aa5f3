package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/filter"
	"github.com/rpgo/mathgen/internal/modules/measurement"
	"github.com/rpgo/mathgen/internal/output"
	"github.com/rpgo/mathgen/internal/sample"
	"github.com/rpgo/mathgen/internal/split"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfiguration wraps every validation failure
var ErrInvalidConfiguration = errors.New("config: invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. MATHGEN_SEED
const EnvPrefix = "MATHGEN_"

// Defaults applied to unset fields
const (
	DefaultSource            = "mathgen"
	DefaultMaxQuestionLength = 160
	DefaultMaxAnswerLength   = 30
	maxLevelCount            = 10000000
)

var levelName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file, applies MATHGEN_*
// environment overrides and defaults, then validates
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse is LoadFromFile for bytes already in memory
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ApplyEnvironment(&config); err != nil {
		return nil, err
	}
	ip.ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// LoadEnvFiles loads .env files into the process environment. Missing files
// are skipped; variables already set win.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnvironment overrides config fields from MATHGEN_* variables
func (ip *InputParser) ApplyEnvironment(config *domain.Configuration) error {
	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sSEED=%q: %w", ErrInvalidConfiguration, EnvPrefix, v, err)
		}
		config.Seed = seed
	}
	for name, dst := range map[string]*int{"WORKERS": &config.Workers, "MAX_ATTEMPTS": &config.MaxAttempts} {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q: %w", ErrInvalidConfiguration, EnvPrefix, name, v, err)
			}
			*dst = n
		}
	}
	for name, dst := range map[string]*string{
		"HASH":   &config.Hash,
		"SOURCE": &config.Source,
		"FORMAT": &config.Format,
		"FILTER": &config.Filter,
		"WHERE":  &config.Where,
	} {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// ApplyDefaults fills unset fields. Zero means unset for every knob except
// allow_zero_probability, where only an absent key is defaulted.
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	if config.Hash == "" {
		config.Hash = split.DefaultHash
	}
	if config.Workers == 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = sample.DefaultMaxAttempts
	}
	if config.Source == "" {
		config.Source = DefaultSource
	}
	if config.Format == "" {
		config.Format = output.JSONLFormatter{}.Name()
	}
	if config.Limits.MaxQuestionLength == 0 {
		config.Limits.MaxQuestionLength = DefaultMaxQuestionLength
	}
	if config.Limits.MaxAnswerLength == 0 {
		config.Limits.MaxAnswerLength = DefaultMaxAnswerLength
	}

	m, def := &config.Measurement, DefaultMeasurement()
	if m.DecimalEntropy == 0 {
		m.DecimalEntropy = def.DecimalEntropy
	}
	if m.ExtrapolationEntropy == 0 {
		m.ExtrapolationEntropy = def.ExtrapolationEntropy
	}
	if m.FractionEntropy == 0 {
		m.FractionEntropy = def.FractionEntropy
	}
	if m.AllowZeroProbability == nil {
		m.AllowZeroProbability = def.AllowZeroProbability
	}
	if m.MaxFractionAnswer == 0 {
		m.MaxFractionAnswer = def.MaxFractionAnswer
	}
}

// DefaultMeasurement returns the measurement budgets used when none are configured
func DefaultMeasurement() domain.MeasurementSettings {
	s := measurement.DefaultSettings()
	allowZero := s.AllowZeroProbability
	return domain.MeasurementSettings{
		DecimalEntropy:       s.DecimalEntropy,
		ExtrapolationEntropy: s.ExtrapolationEntropy,
		FractionEntropy:      s.FractionEntropy,
		AllowZeroProbability: &allowZero,
		MaxFractionAnswer:    s.MaxFractionAnswer,
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if _, err := split.HashByName(config.Hash); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if config.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrInvalidConfiguration)
	}
	if config.MaxAttempts < 0 {
		return fmt.Errorf("%w: max_attempts cannot be negative", ErrInvalidConfiguration)
	}
	if _, err := output.FormatterByName(config.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if _, err := filter.Compile(config.Where); err != nil {
		return fmt.Errorf("%w: where: %w", ErrInvalidConfiguration, err)
	}
	if config.Limits.MaxQuestionLength < 0 || config.Limits.MaxAnswerLength < 0 {
		return fmt.Errorf("%w: length limits cannot be negative", ErrInvalidConfiguration)
	}

	if err := ip.validateMeasurement(&config.Measurement); err != nil {
		return fmt.Errorf("%w: measurement: %w", ErrInvalidConfiguration, err)
	}

	if len(config.Levels) == 0 {
		return fmt.Errorf("%w: no levels provided", ErrInvalidConfiguration)
	}
	seen := make(map[string]bool, len(config.Levels))
	for i, level := range config.Levels {
		if err := ip.validateLevel(&level); err != nil {
			return fmt.Errorf("%w: level %d: %w", ErrInvalidConfiguration, i, err)
		}
		if seen[level.Name] {
			return fmt.Errorf("%w: level %q listed twice", ErrInvalidConfiguration, level.Name)
		}
		seen[level.Name] = true
	}
	return ip.validateBudgets(config)
}

// validateBudgets checks the scaled entropies each level samples at. Every
// extrapolate level must sample larger decimals than any other level.
func (ip *InputParser) validateBudgets(config *domain.Configuration) error {
	m := config.Measurement
	inDistribution, extrapolation := -1.0, math.Inf(1)
	var ceiling, floor string
	for _, level := range config.Levels {
		scale := level.Scale()
		regime, err := split.ParseRegime(level.Regime)
		if err != nil {
			return fmt.Errorf("%w: level %s: %w", ErrInvalidConfiguration, level.Name, err)
		}
		type budget struct {
			name  string
			value float64
		}
		budgets := []budget{{"decimal_entropy", m.DecimalEntropy}, {"fraction_entropy", m.FractionEntropy}}
		if regime.IsExtrapolation() {
			budgets = []budget{{"extrapolation_entropy", m.ExtrapolationEntropy}}
		}
		for _, b := range budgets {
			if b.value*scale > sample.MaxEntropy {
				return fmt.Errorf("%w: level %s: scaled %s %.2f exceeds %d",
					ErrInvalidConfiguration, level.Name, b.name, b.value*scale, sample.MaxEntropy)
			}
		}
		if regime.IsExtrapolation() {
			if e := m.ExtrapolationEntropy * scale; e < extrapolation {
				extrapolation, floor = e, level.Name
			}
		} else if e := m.DecimalEntropy * scale; e > inDistribution {
			inDistribution, ceiling = e, level.Name
		}
	}
	if floor != "" && ceiling != "" && extrapolation <= inDistribution {
		return fmt.Errorf("%w: level %s extrapolates at %.2f bits, not above the %.2f bits of level %s",
			ErrInvalidConfiguration, floor, extrapolation, inDistribution, ceiling)
	}
	return nil
}

func (ip *InputParser) validateMeasurement(m *domain.MeasurementSettings) error {
	for name, e := range map[string]float64{
		"decimal_entropy":       m.DecimalEntropy,
		"extrapolation_entropy": m.ExtrapolationEntropy,
		"fraction_entropy":      m.FractionEntropy,
	} {
		if e < 0 || e > sample.MaxEntropy {
			return fmt.Errorf("%s must be between 0 and %d", name, sample.MaxEntropy)
		}
	}
	if p := m.ZeroProbability(); p < 0 || p > 1 {
		return fmt.Errorf("allow_zero_probability must be between 0 and 1")
	}
	if m.MaxFractionAnswer < 0 {
		return fmt.Errorf("max_fraction_answer cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateLevel(level *domain.Level) error {
	if !levelName.MatchString(level.Name) {
		return fmt.Errorf("name %q must be a plain file name", level.Name)
	}
	if _, err := split.ParseRegime(level.Regime); err != nil {
		return err
	}
	if level.Count <= 0 || level.Count > maxLevelCount {
		return fmt.Errorf("%s: count must be between 1 and %d", level.Name, maxLevelCount)
	}
	if level.EntropyScale != nil && (*level.EntropyScale <= 0 || *level.EntropyScale > 10) {
		return fmt.Errorf("%s: entropy_scale must be in (0, 10]", level.Name)
	}
	return nil
}

// SaveToFile writes the configuration as YAML
func (ip *InputParser) SaveToFile(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates the default level layout: three training
// difficulties plus interpolation and extrapolation test sets
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	scale := func(f float64) *float64 { return &f }
	return &domain.Configuration{
		Seed:        1,
		Hash:        split.DefaultHash,
		MaxAttempts: sample.DefaultMaxAttempts,
		Source:      DefaultSource,
		Format:      "jsonl",
		Limits: domain.Limits{
			MaxQuestionLength: DefaultMaxQuestionLength,
			MaxAnswerLength:   DefaultMaxAnswerLength,
		},
		Measurement: DefaultMeasurement(),
		Levels: []domain.Level{
			{Name: "train-easy", Regime: "train", Count: 1000, EntropyScale: scale(0.5)},
			{Name: "train-medium", Regime: "train", Count: 1000, EntropyScale: scale(0.75)},
			{Name: "train-hard", Regime: "train", Count: 1000},
			{Name: "interpolate", Regime: "interpolate", Count: 100},
			{Name: "extrapolate", Regime: "extrapolate", Count: 100},
		},
	}
}
