package integration

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/rpgo/mathgen/internal/config"
	"github.com/rpgo/mathgen/internal/generate"
	"github.com/rpgo/mathgen/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateAll(t *testing.T, dir string) {
	t.Helper()
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)

	writer, err := output.NewDirWriter(dir, output.JSONLFormatter{})
	require.NoError(t, err)
	for _, level := range cfg.Levels {
		_, err := writer.PrepareLevel(level.Name)
		require.NoError(t, err)
	}

	runner, err := generate.NewRunner(cfg, nil)
	require.NoError(t, err)
	jobs, err := runner.Plan()
	require.NoError(t, err)
	require.NoError(t, runner.Run(context.Background(), jobs, func(r generate.Result) error {
		_, err := writer.WriteBatch(r.Batch)
		return err
	}))
}

func readRecords(t *testing.T, path string) []output.Record {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []output.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec output.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

var (
	minutesPhrase = regexp.MustCompile(`(\d+) minutes (?:before|after)`)
	betweenPhrase = regexp.MustCompile(`^How many minutes are there between`)
)

// durationOf pulls the interval length out of a time question
func durationOf(t *testing.T, text string) int {
	t.Helper()
	question, answer, ok := strings.Cut(text, "\n")
	require.True(t, ok, text)
	if m := minutesPhrase.FindStringSubmatch(question); m != nil {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		return n
	}
	require.Regexp(t, betweenPhrase, question)
	n, err := strconv.Atoi(answer)
	require.NoError(t, err)
	return n
}

func TestEndToEndGeneration(t *testing.T) {
	dir := t.TempDir()
	generateAll(t, dir)

	counts := map[string]int{
		"train-easy/measurement__conversion.jsonl":  150,
		"train-easy/measurement__time.jsonl":        150,
		"train-hard/measurement__conversion.jsonl":  150,
		"train-hard/measurement__time.jsonl":        150,
		"interpolate/measurement__conversion.jsonl": 150,
		"interpolate/measurement__time.jsonl":       150,
		"extrapolate/measurement__conversion.jsonl": 50,
	}
	for rel, want := range counts {
		records := readRecords(t, filepath.Join(dir, rel))
		assert.Len(t, records, want, rel)
		for _, rec := range records {
			assert.Equal(t, "mathgen-test", rec.Source)
			assert.Contains(t, rec.Text, "\n")
			assert.NotEmpty(t, rec.ID)
		}
	}
	assert.NoFileExists(t, filepath.Join(dir, "extrapolate", "measurement__time.jsonl"))
}

func TestTrainAndTestDurationsAreDisjoint(t *testing.T) {
	dir := t.TempDir()
	generateAll(t, dir)

	train := map[int]bool{}
	for _, level := range []string{"train-easy", "train-hard"} {
		for _, rec := range readRecords(t, filepath.Join(dir, level, "measurement__time.jsonl")) {
			train[durationOf(t, rec.Text)] = true
		}
	}
	require.NotEmpty(t, train)
	for _, rec := range readRecords(t, filepath.Join(dir, "interpolate", "measurement__time.jsonl")) {
		d := durationOf(t, rec.Text)
		assert.False(t, train[d], "duration %d appears in train and interpolate", d)
	}
}

func TestGenerationIsReproducible(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	generateAll(t, first)
	generateAll(t, second)

	for _, rel := range []string{"train-hard/measurement__conversion.jsonl", "interpolate/measurement__time.jsonl"} {
		a, err := os.ReadFile(filepath.Join(first, rel))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, rel))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), rel)
	}
}
