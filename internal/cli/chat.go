package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/deckhand/internal/config"
	"github.com/aretw0/deckhand/internal/presentation/tui"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/runner"
)

// ChatOptions contains the configuration for the chat and ask commands.
type ChatOptions struct {
	Config *config.Config
	Debug  bool
	JSON   bool     // JSON Lines IO instead of the console UI
	Yes    bool     // approve plans without asking
	Deny   []string // actions that are never approved

	Stdin  io.Reader
	Stdout io.Writer
}

func (o *ChatOptions) streams() (io.Reader, io.Writer) {
	in, out := o.Stdin, o.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// ErrActionsFailed is returned by Ask when the provider failed or an executed action
// reported an error.
var ErrActionsFailed = errors.New("request did not complete successfully")

// buildRunner prepares the runner with the IO strategy selected by opts.
func buildRunner(opts ChatOptions) (*runner.Runner, func() error, error) {
	cfg := opts.Config
	if err := cfg.RequireCredential(); err != nil {
		return nil, nil, err
	}

	logger := CreateLogger(opts.Debug, cfg.Log.Level)
	assistant := NewAssistant(cfg, logger, nil)

	journal, closeJournal, err := OpenJournal(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}

	in, out := opts.streams()
	var handler runner.IOHandler
	interactive := !opts.JSON && tui.IsTerminal(out)
	if opts.JSON {
		handler = runner.NewJSONHandler(in, out)
	} else {
		renderer := runner.ContentRenderer(tui.PlainRenderer)
		if interactive {
			renderer = tui.NewRenderer()
		}
		handler = runner.NewTextHandler(in, out, runner.WithTextHandlerRenderer(renderer))
	}

	var approver runner.Approver
	if opts.Yes {
		approver = runner.AutoApprove()
	} else {
		approver = runner.ConfirmationApprover(handler)
	}
	if len(opts.Deny) > 0 {
		approver = runner.ChainApprovers(runner.DenyActions(opts.Deny...), approver)
	}

	runnerOpts := []runner.Option{
		runner.WithInputHandler(handler),
		runner.WithApprover(approver),
	}
	if journal != nil {
		runnerOpts = append(runnerOpts, runner.WithJournal(journal))
	}
	if !opts.JSON {
		runnerOpts = append(runnerOpts, runner.WithBanner(tui.Banner(interactive)))
	}

	logger.Debug("Chat Configured", "model", assistant.Client().Model(), "journal", cfg.Journal.Driver, "json", opts.JSON)
	return assistant.Runner(runnerOpts...), closeJournal, nil
}

// Chat runs the interactive loop until exit, EOF or interruption.
func Chat(ctx context.Context, opts ChatOptions) error {
	r, closeJournal, err := buildRunner(opts)
	if err != nil {
		return err
	}
	defer closeJournal()

	return r.Run(ctx)
}

// Ask handles a single request. It returns ErrActionsFailed when the provider reply
// was an error or any executed action failed.
func Ask(ctx context.Context, text string, opts ChatOptions) error {
	r, closeJournal, err := buildRunner(opts)
	if err != nil {
		return err
	}
	defer closeJournal()

	turn, err := r.Once(ctx, text)
	if err != nil {
		return err
	}
	if turn.Reply.Kind == domain.ReplyError {
		return ErrActionsFailed
	}
	for _, res := range turn.Results {
		if res.IsError() {
			return ErrActionsFailed
		}
	}
	return nil
}
