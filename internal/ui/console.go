package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Console is a line-oriented display for terminals where a full window is
// unwanted (pipes, CI, screen readers).
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	disabled atomic.Bool
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Show(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, text)
}

func (c *Console) DisableInput() {
	c.disabled.Store(true)
}

func (c *Console) Fatal(title, text string) {
	c.Show(fmt.Sprintf("%s: %s\n", title, text))
}

// ReadAnswers feeds each input line to submit until in is exhausted, ctx is
// done or input has been disabled.
func (c *Console) ReadAnswers(ctx context.Context, in io.Reader, submit func(string) error) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if ctx.Err() != nil || c.disabled.Load() {
			return
		}
		// failures are already shown to the participant
		_ = submit(sc.Text())
	}
}
