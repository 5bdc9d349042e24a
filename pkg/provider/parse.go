package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/google/uuid"
)

type chatResponse struct {
	Choices []struct {
		Message *responseMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type responseMessage struct {
	Content   json.RawMessage `json:"content"`
	ToolCalls []toolCall      `json:"tool_calls"`
}

type toolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// Parse inspects the first choice of a chat-completion body.
//
// A message with tool calls yields a ReplyToolCalls; any other message yields a
// ReplyMessage whose content may be empty. A body without the expected fields yields a
// ReplyError carrying the raw payload.
func Parse(body []byte) domain.Reply {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return formatError(body, fmt.Sprintf("undecodable body: %v", err))
	}
	if len(resp.Choices) == 0 {
		if resp.Error != nil && resp.Error.Message != "" {
			return domain.Reply{Kind: domain.ReplyError, Error: "provider error: " + resp.Error.Message, Raw: rawPayload(body)}
		}
		return formatError(body, "no choices")
	}
	msg := resp.Choices[0].Message
	if msg == nil {
		return formatError(body, "missing message")
	}

	if len(msg.ToolCalls) > 0 {
		calls := make([]domain.ActionRequest, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			id := tc.ID
			if id == "" {
				id = uuid.NewString()
			}
			calls = append(calls, domain.ActionRequest{
				ID:        id,
				Name:      tc.Function.Name,
				Arguments: argumentsText(tc.Function.Arguments),
			})
		}
		return domain.Reply{Kind: domain.ReplyToolCalls, Calls: calls}
	}

	return domain.Reply{Kind: domain.ReplyMessage, Content: contentText(msg.Content)}
}

func formatError(body []byte, detail string) domain.Reply {
	return domain.Reply{
		Kind:  domain.ReplyError,
		Error: "unexpected response format: " + detail,
		Raw:   rawPayload(body),
	}
}

// argumentsText accepts the OpenAI form (a JSON-encoded string) and the inline-object
// form some providers send.
func argumentsText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

// contentText accepts a plain string or a list of {type: "text", text} parts.
func contentText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(trimmed, &parts); err == nil {
		var b strings.Builder
		for _, p := range parts {
			if p.Type == "" || p.Type == "text" {
				b.WriteString(p.Text)
			}
		}
		return b.String()
	}
	return string(trimmed)
}

// rawPayload keeps valid JSON as-is and quotes anything else so the Reply stays encodable.
func rawPayload(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
