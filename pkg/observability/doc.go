/*
Package observability exposes deckhand's prometheus metrics.

Metrics live on a dedicated registry so embedding programs do not collide with the
global default registry. Serve them with promhttp.HandlerFor(m.Registry(), ...), which
is what the HTTP adapter does under /metrics.
*/
package observability
