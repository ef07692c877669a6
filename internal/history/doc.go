// Package history records parse attempts in a SQLite database so that
// failed and successful expressions can be listed, summarized and pruned
// later. The CLI, the REPL and the WebSocket service share one schema.
package history
