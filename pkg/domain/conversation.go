package domain

import "encoding/json"

// Role identifies the author of a ConversationTurn.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// ConversationTurn is a single message sent to the provider.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ReplyKind discriminates a parsed provider Reply.
type ReplyKind string

const (
	ReplyMessage   ReplyKind = "message"
	ReplyToolCalls ReplyKind = "tool_calls"
	ReplyError     ReplyKind = "error"
)

// Reply is the parsed answer of the provider.
//
//   - ReplyMessage: Content holds the text (possibly empty).
//   - ReplyToolCalls: Calls holds the proposed actions in provider order.
//   - ReplyError: Error describes the failure; Raw keeps the payload for diagnostics.
type Reply struct {
	Kind    ReplyKind       `json:"type"`
	Content string          `json:"content,omitempty"`
	Calls   []ActionRequest `json:"calls,omitempty"`
	Error   string          `json:"error,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}
