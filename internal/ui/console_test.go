package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleShowAndFatal(t *testing.T) {
	var out strings.Builder
	c := NewConsole(&out)

	c.Show("Welcome!\n\n")
	c.Fatal("Connection Error", "Connection to the server has been lost.")

	assert.Equal(t, "Welcome!\n\nConnection Error: Connection to the server has been lost.\n", out.String())
}

func TestConsoleReadAnswers(t *testing.T) {
	tests := map[string]struct {
		input   string
		disable int
		want    []string
	}{
		"forwards every line": {
			input: "6\nhint\nHindi\n",
			want:  []string{"6", "hint", "Hindi"},
		},
		"keeps going after a failed submit": {
			input: "fail\nAsia",
			want:  []string{"fail", "Asia"},
		},
		"stops once input is disabled": {
			input:   "a\nb\nc\n",
			disable: 2,
			want:    []string{"a", "b"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewConsole(&strings.Builder{})
			var got []string
			c.ReadAnswers(context.Background(), strings.NewReader(tc.input), func(line string) error {
				got = append(got, line)
				if len(got) == tc.disable {
					c.DisableInput()
				}
				if line == "fail" {
					return errors.New("send failed")
				}
				return nil
			})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConsoleReadAnswersStopsOnCancel(t *testing.T) {
	c := NewConsole(&strings.Builder{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	c.ReadAnswers(ctx, strings.NewReader("6\n"), func(string) error {
		called = true
		return nil
	})
	assert.False(t, called)
}
