/*
Package actions implements the filesystem and process operations deckhand can dispatch.

Every operation reports its own failures inside its payload (per-file error lists, a
WriteReport error, a CommandReport exit code) so that one bad item never aborts a batch.
Only programming-level problems, such as a malformed glob pattern, are returned as Go errors.

# Trust boundary

Shell.Run executes arbitrary command lines through the host shell with the privileges of
the invoking user. There is no allow-list and no sandbox; the only limit is a wall-clock
timeout. Callers are expected to obtain user confirmation first.
*/
package actions
