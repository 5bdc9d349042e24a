package runner

import (
	"context"
	"encoding/json"

	"github.com/aretw0/deckhand/pkg/domain"
)

// EventKind discriminates what an Event carries.
type EventKind string

const (
	// EventSystem is a meta-message such as the banner or "Goodbye!".
	EventSystem EventKind = "system"
	// EventStatus is transient feedback such as "Thinking...".
	EventStatus EventKind = "status"
	// EventMessage is a plain assistant reply (Markdown).
	EventMessage EventKind = "message"
	// EventPlan lists the actions the assistant proposes.
	EventPlan EventKind = "plan"
	// EventConfirm asks the user to approve the plan.
	EventConfirm EventKind = "confirm"
	// EventResult carries the outcome of one executed action.
	EventResult EventKind = "result"
	// EventCancelled reports a refused plan.
	EventCancelled EventKind = "cancelled"
	// EventError reports a provider failure.
	EventError EventKind = "error"
)

// Event is one unit of output produced by the Runner.
type Event struct {
	Kind   EventKind              `json:"type"`
	Text   string                 `json:"text,omitempty"`
	Calls  []domain.ActionRequest `json:"calls,omitempty"`
	Result *domain.ActionResult   `json:"result,omitempty"`
	Raw    json.RawMessage        `json:"raw,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (console) and JSON (structured) modes.
type IOHandler interface {
	// Output presents events to the user, in order.
	Output(ctx context.Context, events ...Event) error

	// Input reads one line from the user. It returns io.EOF when the input is closed
	// and ctx.Err() when the context is cancelled.
	Input(ctx context.Context) (string, error)
}

// Assistant turns a user request into a Reply. provider.Client implements it.
type Assistant interface {
	Ask(ctx context.Context, userText string, catalog []domain.ActionSpec) domain.Reply
}

// Executor runs one action request. executor.Executor implements it.
type Executor interface {
	Execute(ctx context.Context, req domain.ActionRequest) domain.ActionResult
}
