// Package repl implements the interactive read-parse-display loop.
//
// Every submitted line is trimmed and parsed by the engine. Successful
// parses append the indented tree listing to the transcript; failures
// append a caret under the offending character and the error message with
// its code. Blank lines are ignored, "quit" or "exit" leave the loop.
//
// Keys: Enter parses, Up/Down recall earlier lines, Ctrl+L clears the
// transcript, Esc or Ctrl+C quits.
package repl
