package domain

import (
	"encoding/json"
	"fmt"
)

// Answer is any answer value with a stable textual form
type Answer interface {
	String() string
}

// TextAnswer is an answer that is already text, such as a clock reading
type TextAnswer string

func (t TextAnswer) String() string { return string(t) }

// IntAnswer is a plain integer answer
type IntAnswer int

func (i IntAnswer) String() string { return fmt.Sprintf("%d", int(i)) }

// Problem is one generated question and its answer
type Problem struct {
	Question string `json:"question" yaml:"question"`
	Answer   Answer `json:"answer" yaml:"answer"`
}

// AnswerText returns the serialized answer, or "" when none is set
func (p Problem) AnswerText() string {
	if p.Answer == nil {
		return ""
	}
	return p.Answer.String()
}

// MarshalJSON serializes the answer through its String form
func (p Problem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}{p.Question, p.AnswerText()})
}

// Text returns question and answer on separate lines
func (p Problem) Text() string {
	return p.Question + "\n" + p.AnswerText()
}

// Batch is the output of one module within one level
type Batch struct {
	Source   string    `json:"source"`
	Level    string    `json:"level"`
	Regime   string    `json:"regime"`
	Module   string    `json:"module"`
	Problems []Problem `json:"problems"`
}
