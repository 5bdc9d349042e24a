/*
Package runner implements the interactive loop of deckhand.

A Runner reads a request from an IOHandler, asks the Assistant for a reply, and then
either prints the reply or presents the proposed actions as a plan. Approved plans are
executed one action at a time in the order the assistant proposed them. Results are
printed and, when a Journal is configured, recorded.

# Key Components

  - Runner: the read-ask-confirm-execute loop (Run) and its single-shot form (Once).
  - IOHandler: decouples presentation (TextHandler for consoles, JSONHandler for JSON Lines).
  - Approver: the confirmation policy applied to every plan.

# Usage

	r := runner.New(client, exec,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithJournal(journal),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
