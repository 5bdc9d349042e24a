// Package executor turns provider-issued ActionRequests into executed operations.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/deckhand/pkg/actions"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/registry"
	"github.com/mitchellh/mapstructure"
)

// Recorder observes executed actions. It must not perform blocking I/O.
type Recorder interface {
	ObserveAction(action string, failed bool, elapsed time.Duration)
}

// Executor validates and dispatches ActionRequests against a Catalog.
// It never panics and never returns a Go error: every failure becomes an error ActionResult.
type Executor struct {
	catalog   *registry.Catalog
	shell     *actions.Shell
	collision actions.CollisionPolicy
	recorder  Recorder
	now       func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithShell sets the shell used by run_terminal_command.
func WithShell(sh *actions.Shell) Option {
	return func(e *Executor) {
		e.shell = sh
	}
}

// WithCollisionPolicy sets how move_files and copy_files treat existing destination files.
func WithCollisionPolicy(p actions.CollisionPolicy) Option {
	return func(e *Executor) {
		e.collision = p
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Executor) {
		e.recorder = r
	}
}

// New creates an Executor. A nil catalog selects registry.Default().
func New(catalog *registry.Catalog, opts ...Option) *Executor {
	if catalog == nil {
		catalog = registry.Default()
	}
	e := &Executor{
		catalog:   catalog,
		collision: actions.CollisionOverwrite,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.shell == nil {
		e.shell = actions.NewShell()
	}
	return e
}

// Catalog returns the catalog the executor dispatches against.
func (e *Executor) Catalog() *registry.Catalog {
	return e.catalog
}

// Execute runs a single request.
func (e *Executor) Execute(ctx context.Context, req domain.ActionRequest) (res domain.ActionResult) {
	start := e.now()
	defer func() {
		if r := recover(); r != nil {
			res = domain.Failure(req, fmt.Sprintf("executing %s: %v", req.Name, r))
		}
		if e.recorder != nil {
			e.recorder.ObserveAction(req.Name, res.IsError(), e.now().Sub(start))
		}
	}()

	args, err := parseArguments(req.Arguments)
	if err != nil {
		return domain.Failure(req, fmt.Sprintf("invalid JSON arguments for action %q", req.Name))
	}

	if _, ok := e.catalog.Lookup(req.Name); !ok {
		return domain.Failure(req, fmt.Sprintf("%v %q", domain.ErrUnknownAction, req.Name))
	}

	if schema := e.catalog.Schema(req.Name); schema != nil {
		if err := schema.VisitJSON(args); err != nil {
			return invalid(req, err)
		}
	}

	return e.dispatch(ctx, req, args)
}

// ExecuteBatch runs requests sequentially, in order. A failing request does not stop the rest.
func (e *Executor) ExecuteBatch(ctx context.Context, reqs []domain.ActionRequest) []domain.ActionResult {
	out := make([]domain.ActionResult, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, e.Execute(ctx, req))
	}
	return out
}

func (e *Executor) dispatch(ctx context.Context, req domain.ActionRequest, args map[string]any) domain.ActionResult {
	switch req.Name {
	case domain.ActionFindFiles:
		var p actions.FindParams
		if err := decode(args, &p); err != nil {
			return invalid(req, err)
		}
		paths, err := actions.FindFiles(p.Pattern, p.SearchPath)
		if err != nil {
			return domain.Failure(req, fmt.Sprintf("executing %s: %v", req.Name, err))
		}
		return domain.Success(req, paths)

	case domain.ActionMoveFiles:
		var p actions.TransferParams
		if err := decode(args, &p); err != nil {
			return invalid(req, err)
		}
		return domain.Success(req, actions.MoveFiles(p.SourcePaths, p.DestinationFolder, e.collision))

	case domain.ActionCopyFiles:
		var p actions.TransferParams
		if err := decode(args, &p); err != nil {
			return invalid(req, err)
		}
		return domain.Success(req, actions.CopyFiles(p.SourcePaths, p.DestinationFolder, e.collision))

	case domain.ActionWriteFile:
		var p actions.WriteParams
		if err := decode(args, &p); err != nil {
			return invalid(req, err)
		}
		return domain.Success(req, actions.WriteFile(p.Path, p.Content))

	case domain.ActionRunTerminalCommand:
		var p actions.CommandParams
		if err := decode(args, &p); err != nil {
			return invalid(req, err)
		}
		return domain.Success(req, e.shell.Run(ctx, p.Command))

	default:
		// Registered in the catalog but without a handler.
		return domain.Failure(req, fmt.Sprintf("%v %q", domain.ErrUnknownAction, req.Name))
	}
}

// parseArguments decodes raw arguments into a JSON object. Blank input counts as {}.
func parseArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after arguments")
	}
	if args == nil {
		return nil, fmt.Errorf("arguments must be a JSON object")
	}
	return args, nil
}

func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

func invalid(req domain.ActionRequest, err error) domain.ActionResult {
	return domain.Failure(req, fmt.Sprintf("executing %s: %v: %v", req.Name, domain.ErrInvalidArguments, err))
}
