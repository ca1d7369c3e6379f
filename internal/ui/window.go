package ui

import (
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"
)

// Window is the terminal front end of the quiz client. All widget access
// happens on the tview event loop; other goroutines go through
// QueueUpdateDraw.
type Window struct {
	app      *tview.Application
	pages    *tview.Pages
	output   *tview.TextView
	input    *tview.InputField
	answers  chan string
	disabled atomic.Bool
}

func NewWindow(title string) *Window {
	w := &Window{
		app:     tview.NewApplication(),
		answers: make(chan string, 16),
	}

	w.output = tview.NewTextView().
		SetWrap(true).
		SetWordWrap(true)
	w.output.SetBorder(true).SetTitle(title)

	w.input = tview.NewInputField().
		SetLabel("Answer: ").
		SetFieldBackgroundColor(tcell.ColorDefault)
	w.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || w.disabled.Load() {
			return
		}
		w.submit(w.input.GetText())
		w.input.SetText("")
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(w.output, 0, 1, false).
		AddItem(w.input, 1, 0, true)

	w.pages = tview.NewPages().AddPage("main", layout, true, true)
	return w
}

// submit runs on the event loop, so it never blocks on a slow connection.
func (w *Window) submit(text string) {
	select {
	case w.answers <- text:
	default:
		fmt.Fprint(w.output, "Error sending answer.\n")
		w.output.ScrollToEnd()
	}
}

// Answers yields each line the participant enters.
func (w *Window) Answers() <-chan string {
	return w.answers
}

func (w *Window) Show(text string) {
	w.app.QueueUpdateDraw(func() {
		fmt.Fprint(w.output, text)
		w.output.ScrollToEnd()
	})
}

func (w *Window) DisableInput() {
	if w.disabled.Swap(true) {
		return
	}
	w.app.QueueUpdateDraw(func() {
		w.input.SetLabel("Quiz over. ").
			SetAcceptanceFunc(func(string, rune) bool { return false })
	})
}

// Fatal shows a blocking dialog; dismissing it closes the window.
func (w *Window) Fatal(title, text string) {
	w.app.QueueUpdateDraw(func() {
		modal := tview.NewModal().
			SetText(title + "\n\n" + text).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(int, string) { w.app.Stop() })
		w.pages.AddPage("fatal", modal, false, true)
		w.app.SetFocus(modal)
	})
}

// Run blocks until the window is closed (Ctrl-C or Stop).
func (w *Window) Run() error {
	return w.app.SetRoot(w.pages, true).SetFocus(w.input).Run()
}

func (w *Window) Stop() {
	w.app.Stop()
}
