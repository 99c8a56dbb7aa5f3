package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/mathgen/internal/domain"
)

// TextFormatter writes lines alternating between question and answer.
type TextFormatter struct{}

func (TextFormatter) Name() string      { return "text" }
func (TextFormatter) Extension() string { return "txt" }

func (TextFormatter) Format(batch *domain.Batch) ([]byte, error) {
	buf := &bytes.Buffer{}
	for i, p := range batch.Problems {
		if strings.ContainsAny(p.Question, "\r\n") || strings.ContainsAny(p.AnswerText(), "\r\n") {
			return nil, fmt.Errorf("output: problem %d spans several lines", i)
		}
		buf.WriteString(p.Question)
		buf.WriteByte('\n')
		buf.WriteString(p.AnswerText())
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
