package provider

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    domain.ReplyKind
		content string
		calls   int
		errPart string
	}{
		{name: "plain message", body: `{"choices":[{"message":{"content":"Which folder?"}}]}`, kind: domain.ReplyMessage, content: "Which folder?"},
		{name: "null content", body: `{"choices":[{"message":{"content":null}}]}`, kind: domain.ReplyMessage},
		{name: "missing content", body: `{"choices":[{"message":{}}]}`, kind: domain.ReplyMessage},
		{name: "empty tool calls", body: `{"choices":[{"message":{"content":"hi","tool_calls":[]}}]}`, kind: domain.ReplyMessage, content: "hi"},
		{name: "null tool calls", body: `{"choices":[{"message":{"content":"hi","tool_calls":null}}]}`, kind: domain.ReplyMessage, content: "hi"},
		{name: "content parts", body: `{"choices":[{"message":{"content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}}]}`, kind: domain.ReplyMessage, content: "ab"},
		{name: "two calls", body: `{"choices":[{"message":{"tool_calls":[
			{"id":"1","function":{"name":"find_files","arguments":"{}"}},
			{"id":"2","function":{"name":"write_file","arguments":"{}"}}]}}]}`, kind: domain.ReplyToolCalls, calls: 2},
		{name: "no choices", body: `{"choices":[]}`, kind: domain.ReplyError, errPart: "unexpected response format"},
		{name: "missing choices", body: `{"id":"x"}`, kind: domain.ReplyError, errPart: "unexpected response format"},
		{name: "missing message", body: `{"choices":[{"index":0}]}`, kind: domain.ReplyError, errPart: "missing message"},
		{name: "not json", body: `<html>`, kind: domain.ReplyError, errPart: "unexpected response format"},
		{name: "error envelope", body: `{"error":{"message":"quota exceeded"}}`, kind: domain.ReplyError, errPart: "quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := Parse([]byte(tt.body))
			assert.Equal(t, tt.kind, reply.Kind)
			assert.Equal(t, tt.content, reply.Content)
			assert.Len(t, reply.Calls, tt.calls)
			if tt.errPart != "" {
				assert.Contains(t, reply.Error, tt.errPart)
				assert.NotEmpty(t, reply.Raw)
				_, err := json.Marshal(reply)
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse_PreservesCallOrder(t *testing.T) {
	reply := Parse([]byte(`{"choices":[{"message":{"tool_calls":[
		{"id":"a","function":{"name":"move_files","arguments":"{}"}},
		{"id":"b","function":{"name":"copy_files","arguments":"{}"}},
		{"id":"c","function":{"name":"find_files","arguments":"{}"}}]}}]}`))

	require.Len(t, reply.Calls, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{reply.Calls[0].ID, reply.Calls[1].ID, reply.Calls[2].ID})
	assert.Equal(t, domain.ActionMoveFiles, reply.Calls[0].Name)
}

func TestParse_InlineObjectArguments(t *testing.T) {
	reply := Parse([]byte(`{"choices":[{"message":{"tool_calls":[
		{"id":"x","function":{"name":"run_terminal_command","arguments":{"command":"ls"}}}]}}]}`))

	require.Len(t, reply.Calls, 1)
	assert.JSONEq(t, `{"command":"ls"}`, reply.Calls[0].Arguments)
}

func TestParse_MissingIDGetsGenerated(t *testing.T) {
	reply := Parse([]byte(`{"choices":[{"message":{"tool_calls":[
		{"function":{"name":"find_files","arguments":"{}"}},
		{"function":{"name":"find_files","arguments":"{}"}}]}}]}`))

	require.Len(t, reply.Calls, 2)
	assert.NotEmpty(t, reply.Calls[0].ID)
	assert.NotEqual(t, reply.Calls[0].ID, reply.Calls[1].ID)
}

func TestParse_MalformedArgumentsPassThrough(t *testing.T) {
	reply := Parse([]byte(`{"choices":[{"message":{"tool_calls":[
		{"id":"x","function":{"name":"find_files","arguments":"{not json"}}]}}]}`))

	require.Len(t, reply.Calls, 1)
	assert.Equal(t, "{not json", reply.Calls[0].Arguments)
}
