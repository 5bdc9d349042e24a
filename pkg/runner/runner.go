package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/ports"
	"github.com/aretw0/deckhand/pkg/registry"
)

// Runner handles the conversation loop using the provided IO.
// This allows for easy testing and integration with different frontends.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Approver is the plan confirmation policy.
	// If nil, defaults to ConfirmationApprover(Handler).
	Approver Approver

	// Journal records executed actions. If nil, nothing is recorded.
	Journal ports.Journal

	// Catalog is offered to the assistant with every request.
	Catalog []domain.ActionSpec

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Banner is printed once when Run starts.
	Banner string

	assistant Assistant
	executor  Executor
	now       func() time.Time
}

// Turn is the outcome of one request.
type Turn struct {
	Reply domain.Reply
	// Approved is true when a plan was accepted. It is false for non-plan replies.
	Approved bool
	Results  []domain.ActionResult
}

// New creates a Runner around an assistant and an executor.
func New(assistant Assistant, executor Executor, opts ...Option) *Runner {
	r := &Runner{
		Catalog:   registry.Builtins(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		assistant: assistant,
		executor:  executor,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	if r.Approver == nil {
		r.Approver = ConfirmationApprover(r.Handler)
	}
	return r
}

// Run executes the loop until the user types exit/quit, the input is closed, or ctx is
// cancelled. Errors inside a turn are reported to the user and never end the loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.Banner != "" {
		if err := r.Handler.Output(ctx, Event{Kind: EventSystem, Text: r.Banner}); err != nil {
			return err
		}
	}

	for {
		text, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				r.system(ctx, fmt.Sprintf("Error: %v.", err))
				continue
			}
			if isEnd(ctx, err) {
				return r.goodbye()
			}
			return fmt.Errorf("input error: %w", err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if isExitWord(text) {
			return r.goodbye()
		}

		if _, err := r.turn(ctx, text); err != nil {
			if isEnd(ctx, err) {
				return r.goodbye()
			}
			r.Logger.Warn("Turn Failed", "err", err)
			r.system(ctx, fmt.Sprintf("Unexpected error: %v", err))
		}
	}
}

// Once handles a single request and returns its outcome.
// The returned error covers IO failures only; provider and action failures are part of
// the Turn.
func (r *Runner) Once(ctx context.Context, text string) (Turn, error) {
	clean, err := SanitizeInput(strings.TrimSpace(text))
	if err != nil {
		return Turn{}, err
	}
	if clean == "" {
		return Turn{}, errors.New("empty request")
	}
	return r.turn(ctx, clean)
}

func (r *Runner) turn(ctx context.Context, text string) (Turn, error) {
	if err := r.Handler.Output(ctx, Event{Kind: EventStatus, Text: "Thinking..."}); err != nil {
		return Turn{}, err
	}

	reply := r.assistant.Ask(ctx, text, r.Catalog)
	turn := Turn{Reply: reply}
	r.Logger.Debug("Assistant Reply", "type", reply.Kind, "calls", len(reply.Calls))

	switch reply.Kind {
	case domain.ReplyToolCalls:
		if len(reply.Calls) == 0 {
			return turn, r.Handler.Output(ctx, Event{Kind: EventMessage})
		}
		if err := r.Handler.Output(ctx, Event{Kind: EventPlan, Calls: reply.Calls}); err != nil {
			return turn, err
		}

		approved, err := r.Approver(ctx, reply.Calls)
		if err != nil {
			return turn, err
		}
		if !approved {
			return turn, r.Handler.Output(ctx, Event{Kind: EventCancelled, Text: "Action cancelled."})
		}
		turn.Approved = true

		for _, call := range reply.Calls {
			if err := r.Handler.Output(ctx, Event{Kind: EventStatus, Text: fmt.Sprintf("Executing %s...", call.Name)}); err != nil {
				return turn, err
			}
			res := r.executor.Execute(ctx, call)
			turn.Results = append(turn.Results, res)
			r.record(ctx, call, res)
			if err := r.Handler.Output(ctx, Event{Kind: EventResult, Result: &res}); err != nil {
				return turn, err
			}
		}
		return turn, nil

	case domain.ReplyError:
		return turn, r.Handler.Output(ctx, Event{Kind: EventError, Text: reply.Error, Raw: reply.Raw})

	default:
		return turn, r.Handler.Output(ctx, Event{Kind: EventMessage, Text: reply.Content})
	}
}

func (r *Runner) record(ctx context.Context, call domain.ActionRequest, res domain.ActionResult) {
	if r.Journal == nil {
		return
	}
	if err := r.Journal.Append(ctx, domain.NewJournalEntry(call, res, r.now())); err != nil {
		r.Logger.Warn("Journal Append Failed", "action", call.Name, "err", err)
	}
}

func (r *Runner) system(ctx context.Context, msg string) {
	if err := r.Handler.Output(ctx, Event{Kind: EventSystem, Text: msg}); err != nil {
		r.Logger.Debug("Output Failed", "err", err)
	}
}

func (r *Runner) goodbye() error {
	// The loop context may already be cancelled; the farewell still goes out.
	r.system(context.Background(), "Goodbye!")
	return nil
}

func isExitWord(text string) bool {
	switch strings.ToLower(text) {
	case "exit", "quit":
		return true
	}
	return false
}

func isEnd(ctx context.Context, err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || ctx.Err() != nil
}
