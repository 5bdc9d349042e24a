package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	ok, failed int
}

func (o *countingObserver) ObserveProviderRequest(failed bool) {
	if failed {
		o.failed++
		return
	}
	o.ok++
}

func TestClient_Query_RequestShape(t *testing.T) {
	var captured map[string]any
	var headers http.Header
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi"}}]}`))
	}))
	defer srv.Close()

	obs := &countingObserver{}
	c := New("sk-test", WithBaseURL(srv.URL+"/"), WithModel("test/model"), WithObserver(obs))
	data, err := c.Query(context.Background(), "list files", registry.Builtins())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hi")

	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Equal(t, DefaultReferer, headers.Get("HTTP-Referer"))
	assert.Equal(t, DefaultTitle, headers.Get("X-Title"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))

	assert.Equal(t, "test/model", captured["model"])
	assert.Equal(t, "auto", captured["tool_choice"])
	tools, ok := captured["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, len(registry.Builtins()))

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, SystemPrompt, first["content"])
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "list files", second["content"])

	assert.Equal(t, 1, obs.ok)
	assert.Equal(t, 0, obs.failed)
}

func TestClient_Query_NoToolsWhenCatalogEmpty(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	_, err := c.Query(context.Background(), "hello", nil)
	require.NoError(t, err)

	_, hasTools := captured["tools"]
	_, hasChoice := captured["tool_choice"]
	assert.False(t, hasTools)
	assert.False(t, hasChoice)
}

func TestClient_Ask_HTTPErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	obs := &countingObserver{}
	c := New("k", WithBaseURL(srv.URL), WithObserver(obs))
	reply := c.Ask(context.Background(), "hi", registry.Builtins())

	assert.Equal(t, domain.ReplyError, reply.Kind)
	assert.Contains(t, reply.Error, "401")
	assert.NotContains(t, reply.Error, "Response Body:")
	assert.NotContains(t, reply.Error, "bad key", "body belongs in Raw only")
	assert.JSONEq(t, `{"error":{"message":"bad key"}}`, string(reply.Raw))
	assert.Equal(t, 1, obs.failed)
}

func TestClient_Ask_NonJSONErrorBodyIsQuoted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	reply := New("k", WithBaseURL(srv.URL)).Ask(context.Background(), "hi", nil)
	assert.Equal(t, domain.ReplyError, reply.Kind)
	assert.Equal(t, `"upstream down"`, string(reply.Raw))

	_, err := json.Marshal(reply)
	assert.NoError(t, err)
}

func TestClient_Ask_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	reply := New("k", WithBaseURL(url)).Ask(context.Background(), "hi", nil)
	assert.Equal(t, domain.ReplyError, reply.Kind)
	assert.NotEmpty(t, reply.Error)
	assert.Nil(t, reply.Raw)
}

func TestClient_Ask_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	reply := New("k", WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond)).Ask(context.Background(), "hi", nil)
	assert.Equal(t, domain.ReplyError, reply.Kind)
}

func TestClient_Ask_ToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null,"tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"find_files","arguments":"{\"pattern\":\"*.pdf\",\"search_path\":\".\"}"}}
		]}}]}`))
	}))
	defer srv.Close()

	reply := New("k", WithBaseURL(srv.URL)).Ask(context.Background(), "find pdfs", registry.Builtins())
	require.Equal(t, domain.ReplyToolCalls, reply.Kind)
	require.Len(t, reply.Calls, 1)
	assert.Equal(t, "call_1", reply.Calls[0].ID)
	assert.Equal(t, domain.ActionFindFiles, reply.Calls[0].Name)
	assert.JSONEq(t, `{"pattern":"*.pdf","search_path":"."}`, reply.Calls[0].Arguments)
}

func TestClient_ListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":"google/gemini-pro-1.5","name":"Gemini Pro 1.5","context_length":1000000},
			{"id":"google/gemini-flash-1.5"},
			{"id":"anthropic/some-model"}
		]}`))
	}))
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))

	all, err := c.ListModels(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	gemini, err := c.ListModels(context.Background(), "GEMINI")
	require.NoError(t, err)
	require.Len(t, gemini, 2)
	assert.Equal(t, "Gemini Pro 1.5", gemini[0].Name)
	assert.Equal(t, 1000000, gemini[0].ContextLength)
}

func TestClient_ListModels_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New("k", WithBaseURL(srv.URL)).ListModels(context.Background(), "")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusForbidden, te.Status)
}
