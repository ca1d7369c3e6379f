package protocol_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netquiz/internal/domain"
	"netquiz/internal/protocol"
)

func TestEncoder_WireBytes(t *testing.T) {
	tests := map[string]struct {
		msg  protocol.Message
		want string
	}{
		"welcome": {
			msg:  protocol.NewWelcome("Hello"),
			want: "TYPE:WELCOME\nHello\n",
		},
		"question carries the score line": {
			msg:  protocol.NewQuestion("1. What is the square root of 36?", 5),
			want: "TYPE:QUESTION\n1. What is the square root of 36?\n(Score: 5)\n",
		},
		"correct feedback": {
			msg:  protocol.NewCorrect(),
			want: "TYPE:FEEDBACK\nCorrect!\n",
		},
		"incorrect feedback reveals the answer": {
			msg:  protocol.NewIncorrect("Hindi"),
			want: "TYPE:FEEDBACK\nIncorrect! The correct answer was: Hindi\n",
		},
		"hint with counter": {
			msg:  protocol.NewHint("It's an even number.", 4),
			want: "TYPE:HINT\nHINT: It's an even number. (Hints remaining: 4)\n",
		},
		"no hints": {
			msg:  protocol.NewNoHints(),
			want: "TYPE:HINT\nNo hints remaining.\n",
		},
		"score": {
			msg:  protocol.NewScore(10, 100),
			want: "TYPE:SCORE\nThank you for your hard work. The quiz is over! Your final score is: 10/100\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, protocol.NewEncoder(&buf).Encode(tt.msg))
			assert.Equal(t, tt.want, buf.String())

			got, err := protocol.NewDecoder(&buf).Decode()
			require.NoError(t, err)
			assert.Equal(t, tt.msg, got)
		})
	}
}

func TestEncoder_Rejects(t *testing.T) {
	tests := map[string]struct {
		msg  protocol.Message
		want error
	}{
		"unknown type":           {msg: protocol.Message{Type: "BOGUS", Lines: []string{"x"}}, want: domain.ErrUnknownType},
		"wrong line count":       {msg: protocol.Message{Type: protocol.TypeQuestion, Lines: []string{"only one"}}, want: domain.ErrMalformedFrame},
		"newline in payload":     {msg: protocol.NewWelcome("two\nlines"), want: domain.ErrMalformedFrame},
		"payload looks a header": {msg: protocol.NewWelcome("TYPE:SCORE"), want: domain.ErrMalformedFrame},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := protocol.NewEncoder(&buf).Encode(tt.msg)
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, buf.Len(), "nothing should reach the wire")
		})
	}
}

func TestDecoder_Errors(t *testing.T) {
	tests := map[string]struct {
		input string
		want  error
	}{
		"clean close":              {input: "", want: io.EOF},
		"header without prefix":    {input: "HELLO\nworld\n", want: domain.ErrMalformedFrame},
		"unknown discriminant":     {input: "TYPE:GOODBYE\nbye\n", want: domain.ErrUnknownType},
		"eof after header":         {input: "TYPE:WELCOME\n", want: domain.ErrUnexpectedEOF},
		"eof inside question":      {input: "TYPE:QUESTION\nprompt\n", want: domain.ErrUnexpectedEOF},
		"partial header":           {input: "TYPE:WEL", want: domain.ErrUnexpectedEOF},
		"payload starting with it": {input: "TYPE:QUESTION\nprompt\nTYPE:SCORE\n", want: domain.ErrMalformedFrame},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := protocol.NewDecoder(strings.NewReader(tt.input)).Decode()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecoder_Sequence(t *testing.T) {
	var buf bytes.Buffer
	enc := protocol.NewEncoder(&buf)
	sent := []protocol.Message{
		protocol.NewWelcome("hi"),
		protocol.NewQuestion("q", 5),
		protocol.NewNoHints(),
		protocol.NewIncorrect("a"),
		protocol.NewScore(0, 5),
	}
	for _, m := range sent {
		require.NoError(t, enc.Encode(m))
	}

	dec := protocol.NewDecoder(&buf)
	for _, want := range sent {
		got, err := dec.Decode()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := dec.Decode()
	require.ErrorIs(t, err, io.EOF)
}

func TestDecoder_ReadLine(t *testing.T) {
	dec := protocol.NewDecoder(strings.NewReader("hint\n  Ottawa \n\nlast"))

	for _, want := range []string{"hint", "  Ottawa ", "", "last"} {
		got, err := dec.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := dec.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}

func TestEncoder_EncodeLine(t *testing.T) {
	var buf bytes.Buffer
	enc := protocol.NewEncoder(&buf)

	require.NoError(t, enc.EncodeLine("Hydrogen"))
	assert.Equal(t, "Hydrogen\n", buf.String())
	require.ErrorIs(t, enc.EncodeLine("a\nb"), domain.ErrMalformedFrame)
}

func TestMessage_IsCorrect(t *testing.T) {
	assert.True(t, protocol.NewCorrect().IsCorrect())
	assert.False(t, protocol.NewIncorrect("x").IsCorrect())
	assert.False(t, protocol.NewWelcome("Correct!").IsCorrect())
}
