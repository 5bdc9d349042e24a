/*
Package domain contains the core models shared by every deckhand component.

It is kept free of I/O so that the registry, the executor, the provider client and the
front-ends can agree on the same vocabulary without importing each other.

# Key Entities

  - ActionSpec: static declaration of an action (name, description, parameters).
  - ActionRequest: a provider-issued call naming an action with raw JSON arguments.
  - ActionResult: the outcome of one dispatched request, either a payload or an error.
  - ConversationTurn: a single message sent to the provider.
  - Reply: the parsed provider answer (plain message, tool calls, or error).
*/
package domain
