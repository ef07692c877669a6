package history

import (
	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	"github.com/msto63/mathcfg/foundation/mathcfg"
	mdwparser "github.com/msto63/mathcfg/foundation/mathcfg/parser"
)

// Sources of recorded entries
const (
	SourceCLI       = "cli"
	SourceREPL      = "repl"
	SourceWebSocket = "ws"
)

// EntryFromResult builds a history entry from the outcome of Engine.Parse
func EntryFromResult(res *mathcfg.Result, err error, source string) *Entry {
	entry := &Entry{
		Source:  source,
		Success: err == nil,
	}
	if res != nil {
		entry.RequestID = res.RequestID
		entry.Input = res.Input
		entry.TokenCount = len(res.Tokens)
		entry.Duration = res.Duration
		if res.Tree != nil {
			entry.NodeCount = res.Tree.Count()
		}
	}
	if err != nil {
		entry.ErrorCode = mdwerror.GetCode(err).String()
		entry.ErrorKind = mdwparser.KindOf(err)
		entry.Error = err.Error()
	}
	return entry
}
