/*
Package ports defines the driven ports (interfaces) of deckhand.

These interfaces decouple the conversation loop from external implementations, allowing
the audit history to live in memory, in a file, or in Redis.

# Key Interfaces

  - Journal: records executed actions and lists them back for `deckhand history`.
*/
package ports
