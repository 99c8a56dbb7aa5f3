package output

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rpgo/mathgen/internal/domain"
)

// ErrUnsupportedFormat is returned for format names with no registered formatter
var ErrUnsupportedFormat = errors.New("output: unsupported format")

// Formatter renders one batch into the bytes of a single file.
// Implementations are pure: the same batch always yields the same bytes.
type Formatter interface {
	Format(batch *domain.Batch) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
	// Extension is the file extension without the dot.
	Extension() string
}

// builtInFormatters stores available formatters
var builtInFormatters = []Formatter{
	JSONLFormatter{},
	TextFormatter{},
	CSVFormatter{},
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"jsonlines": "jsonl",
	"ndjson":    "jsonl",
	"json":      "jsonl",
	"txt":       "text",
	"plain":     "text",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// FormatterByName fetches a registered formatter; an empty name selects jsonl.
func FormatterByName(name string) (Formatter, error) {
	n := NormalizeFormatName(name)
	if n == "" {
		n = JSONLFormatter{}.Name()
	}
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedFormat, name, strings.Join(AvailableFormatterNames(), ", "))
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
