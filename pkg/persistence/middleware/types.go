// Package middleware decorates a ports.Journal with redaction and encryption.
package middleware

import "github.com/aretw0/deckhand/pkg/ports"

// Middleware allows wrapping a Journal to add behavior.
type Middleware func(ports.Journal) ports.Journal

// Chain applies middlewares so that the first one listed is the outermost.
func Chain(journal ports.Journal, mws ...Middleware) ports.Journal {
	for i := len(mws) - 1; i >= 0; i-- {
		journal = mws[i](journal)
	}
	return journal
}
