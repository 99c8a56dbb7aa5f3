package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/mathgen/internal/domain"
)

// CSVFormatter writes one row per problem with a header.
type CSVFormatter struct{}

func (CSVFormatter) Name() string      { return "csv" }
func (CSVFormatter) Extension() string { return "csv" }

func (CSVFormatter) Format(batch *domain.Batch) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"index", "level", "module", "question", "answer"}); err != nil {
		return nil, err
	}
	for i, p := range batch.Problems {
		row := []string{strconv.Itoa(i), batch.Level, batch.Module, p.Question, p.AnswerText()}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
