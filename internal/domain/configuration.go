package domain

// Configuration is the top-level generation config loaded from YAML
type Configuration struct {
	Seed        int64               `yaml:"seed" json:"seed"`
	Hash        string              `yaml:"hash,omitempty" json:"hash,omitempty"`
	Workers     int                 `yaml:"workers,omitempty" json:"workers,omitempty"`
	MaxAttempts int                 `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	Source      string              `yaml:"source,omitempty" json:"source,omitempty"`
	Format      string              `yaml:"format,omitempty" json:"format,omitempty"`
	Filter      string              `yaml:"filter,omitempty" json:"filter,omitempty"`
	Where       string              `yaml:"where,omitempty" json:"where,omitempty"`
	Limits      Limits              `yaml:"limits" json:"limits"`
	Measurement MeasurementSettings `yaml:"measurement" json:"measurement"`
	Levels      []Level             `yaml:"levels" json:"levels"`
}

// Limits bounds the rendered size of a problem
type Limits struct {
	MaxQuestionLength int `yaml:"max_question_length" json:"max_question_length"`
	MaxAnswerLength   int `yaml:"max_answer_length" json:"max_answer_length"`
}

// DefaultAllowZeroProbability is the share of fraction conversions that may
// have a zero answer when allow_zero_probability is unset
const DefaultAllowZeroProbability = 0.2

// MeasurementSettings are the entropy budgets of the measurement module, in
// bits. AllowZeroProbability is a pointer so that an explicit 0 survives
// defaulting.
type MeasurementSettings struct {
	DecimalEntropy       float64  `yaml:"decimal_entropy" json:"decimal_entropy"`
	ExtrapolationEntropy float64  `yaml:"extrapolation_entropy" json:"extrapolation_entropy"`
	FractionEntropy      float64  `yaml:"fraction_entropy" json:"fraction_entropy"`
	AllowZeroProbability *float64 `yaml:"allow_zero_probability,omitempty" json:"allow_zero_probability,omitempty"`
	MaxFractionAnswer    int64    `yaml:"max_fraction_answer" json:"max_fraction_answer"`
}

// ZeroProbability returns AllowZeroProbability, or the default when unset
func (m MeasurementSettings) ZeroProbability() float64 {
	if m.AllowZeroProbability == nil {
		return DefaultAllowZeroProbability
	}
	return *m.AllowZeroProbability
}

// Level is a named output group: problems from one regime at one difficulty.
// A nil EntropyScale keeps the module budgets as configured.
type Level struct {
	Name         string   `yaml:"name" json:"name"`
	Regime       string   `yaml:"regime" json:"regime"`
	Count        int      `yaml:"count" json:"count"`
	EntropyScale *float64 `yaml:"entropy_scale,omitempty" json:"entropy_scale,omitempty"`
}

// Scale returns the level's entropy multiplier, 1 when unset
func (l Level) Scale() float64 {
	if l.EntropyScale == nil {
		return 1
	}
	return *l.EntropyScale
}
