package domain

import "time"

// Outcome values recorded in a JournalEntry.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// JournalEntry records one executed action for the audit history.
type JournalEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Time      time.Time `json:"time" yaml:"time"`
	Action    string    `json:"action" yaml:"action"`
	Arguments string    `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Outcome   string    `json:"outcome" yaml:"outcome"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewJournalEntry summarises an executed request and its result.
func NewJournalEntry(req ActionRequest, res ActionResult, at time.Time) JournalEntry {
	entry := JournalEntry{
		ID:        req.ID,
		Time:      at.UTC(),
		Action:    req.Name,
		Arguments: req.Arguments,
		Outcome:   OutcomeOK,
	}
	if res.Err != nil {
		entry.Outcome = OutcomeError
		entry.Error = res.Err.Message
	}
	return entry
}
