/*
Package deckhand is a natural-language file and shell assistant.

A user states a request in plain language; a remote chat-completion model (OpenRouter by
default) answers either with text or with a plan of tool calls drawn from a fixed catalog
of local actions (find, move, copy, write files and run a shell command). Deckhand shows
the plan, asks for confirmation and executes the approved actions one at a time,
reporting each result.

# Architecture

  - pkg/registry: the action catalog and its argument schemas.
  - pkg/executor: validates and dispatches one ActionRequest. Never panics.
  - pkg/actions: the local operations themselves.
  - pkg/provider: the chat-completion client and reply parser.
  - pkg/runner: the read, ask, confirm, execute loop.
  - pkg/adapters: audit journals (memory, file, redis), HTTP and MCP front-ends.
  - pkg/persistence/middleware: journal redaction and encryption at rest.

# Usage

	a := deckhand.New(os.Getenv("OPENROUTER_API_KEY"))

	r := a.Runner(runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)))
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

# Trust boundary

Actions run with the privileges of the invoking user. run_terminal_command executes
whatever command line the model proposes once the user approves it; there is no
sandbox. Only approve plans you have read.
*/
package deckhand
