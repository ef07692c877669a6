// Package server exposes the expression engine over WebSocket.
//
// Clients connect to /ws and send JSON requests of the form
//
//	{"type": "parse", "id": "1", "input": "2 * (3 + 4)"}
//
// Each request is answered in order with exactly one response carrying the
// same id: "tree" for a successful parse, "tokens" for a tokenize request,
// "pong" for a ping and "error" otherwise. Error payloads carry the error
// code, the lexer or parser error kind and, when the failure has one, the
// character position in the trimmed input.
//
// /healthz reports the service version and the result of an engine probe
// and, when history recording is enabled, a database ping.
package server
