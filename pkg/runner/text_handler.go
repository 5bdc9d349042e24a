package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/deckhand/internal/presentation/tui"
)

// ContentRenderer transforms assistant content before it is printed.
// This allows Markdown rendering without coupling the loop to a terminal library.
type ContentRenderer func(string) (string, error)

// TextHandler implements the console interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Prompt   string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithPrompt replaces the default "> " prompt.
func WithPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts a single reader goroutine so that Input can honour ctx while a
// read is blocked.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, h.Prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, events ...Event) error {
	for _, ev := range events {
		var out string
		switch ev.Kind {
		case EventMessage:
			out = ev.Text
			if h.Renderer != nil {
				if rendered, err := h.Renderer(ev.Text); err == nil {
					out = rendered
				}
			}
			out = strings.TrimSpace(out)
		case EventPlan:
			out = strings.TrimRight(tui.FormatPlan(ev.Calls), "\n")
		case EventConfirm:
			out = ev.Text + " [y/N]"
		case EventResult:
			if ev.Result == nil {
				continue
			}
			out = strings.TrimRight(tui.FormatResult(*ev.Result), "\n")
		case EventError:
			out = "Error from provider: " + ev.Text
			if len(ev.Raw) > 0 {
				out += "\n" + string(ev.Raw)
			}
		default:
			out = ev.Text
		}
		if _, err := fmt.Fprintln(h.Writer, out); err != nil {
			return err
		}
	}
	return nil
}
