package protocol

import (
	"fmt"
	"strconv"
)

// MessageType is the discriminant carried in a frame header.
type MessageType string

const (
	TypeWelcome  MessageType = "WELCOME"
	TypeQuestion MessageType = "QUESTION"
	TypeFeedback MessageType = "FEEDBACK"
	TypeScore    MessageType = "SCORE"
	TypeHint     MessageType = "HINT"
)

// payloadLines is the number of payload lines that follow each header.
var payloadLines = map[MessageType]int{
	TypeWelcome:  1,
	TypeQuestion: 2,
	TypeFeedback: 1,
	TypeScore:    1,
	TypeHint:     1,
}

// Lines returns how many payload lines t carries, and false for unknown types.
func (t MessageType) Lines() (int, bool) {
	n, ok := payloadLines[t]
	return n, ok
}

// Message is a typed server-to-client unit.
type Message struct {
	Type  MessageType `json:"type"`
	Lines []string    `json:"lines"`
}

const (
	correctText   = "Correct!"
	noHintsText   = "No hints remaining."
	scorePrefix   = "Thank you for your hard work. The quiz is over! Your final score is: "
	incorrectText = "Incorrect! The correct answer was: "
)

func NewWelcome(greeting string) Message {
	return Message{Type: TypeWelcome, Lines: []string{greeting}}
}

func NewQuestion(prompt string, points int) Message {
	return Message{Type: TypeQuestion, Lines: []string{prompt, "(Score: " + strconv.Itoa(points) + ")"}}
}

func NewCorrect() Message {
	return Message{Type: TypeFeedback, Lines: []string{correctText}}
}

func NewIncorrect(canonical string) Message {
	return Message{Type: TypeFeedback, Lines: []string{incorrectText + canonical}}
}

func NewHint(hint string, remaining int) Message {
	return Message{Type: TypeHint, Lines: []string{fmt.Sprintf("HINT: %s (Hints remaining: %d)", hint, remaining)}}
}

func NewNoHints() Message {
	return Message{Type: TypeHint, Lines: []string{noHintsText}}
}

func NewScore(score, total int) Message {
	return Message{Type: TypeScore, Lines: []string{fmt.Sprintf("%s%d/%d", scorePrefix, score, total)}}
}

// IsCorrect reports whether m is positive FEEDBACK.
func (m Message) IsCorrect() bool {
	return m.Type == TypeFeedback && len(m.Lines) == 1 && m.Lines[0] == correctText
}
