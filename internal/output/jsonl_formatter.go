package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpgo/mathgen/internal/domain"
)

// recordNamespace scopes record IDs to this generator
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rpgo/mathgen"))

// Record is one line of jsonl output
type Record struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// RecordID derives a stable ID from where the problem sits and what it says,
// so regenerating with the same seed reproduces the same IDs.
func RecordID(batch *domain.Batch, index int, p domain.Problem) uuid.UUID {
	name := fmt.Sprintf("%s/%s/%s/%d:%s", batch.Source, batch.Level, batch.Module, index, p.Text())
	return uuid.NewSHA1(recordNamespace, []byte(name))
}

// JSONLFormatter writes one {"id","source","text"} object per line.
type JSONLFormatter struct{}

func (JSONLFormatter) Name() string      { return "jsonl" }
func (JSONLFormatter) Extension() string { return "jsonl" }

func (JSONLFormatter) Format(batch *domain.Batch) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	for i, p := range batch.Problems {
		rec := Record{
			ID:     RecordID(batch, i, p).String(),
			Source: batch.Source,
			Text:   p.Text(),
		}
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("output: encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
