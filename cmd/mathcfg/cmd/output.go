package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	"github.com/msto63/mathcfg/foundation/mathcfg"
	mdwparser "github.com/msto63/mathcfg/foundation/mathcfg/parser"
	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
	mdwstringx "github.com/msto63/mathcfg/foundation/utils/stringx"
)

const echoPrefix = "  "

// displayOptions holds the resolved output settings of one command
type displayOptions struct {
	format     string
	showTokens bool
	render     mdwtree.RenderOptions
}

func (a *app) displayOptions(format string, showTokens, showDepth, noColor bool) displayOptions {
	d := a.cfg.Display
	opts := displayOptions{
		format:     mdwstringx.FirstNonBlank(format, d.Format),
		showTokens: showTokens || d.ShowTokens,
		render: mdwtree.RenderOptions{
			Indent:    d.Indent,
			ShowDepth: showDepth || d.ShowDepth,
		},
	}
	if !noColor && !d.NoColor {
		opts.render.Styles = mdwtree.DefaultStyles()
	}
	return opts
}

// writeTree prints a successful parse in the selected format
func writeTree(w io.Writer, res *mathcfg.Result, opts displayOptions) error {
	if opts.showTokens {
		fmt.Fprintf(w, "tokens: %s\n", joinTokens(res.Tokens))
	}

	switch opts.format {
	case "compact":
		_, err := fmt.Fprintln(w, res.Tree.String())
		return err
	case "json":
		data, err := mdwtree.ToJSON(res.Tree)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := mdwtree.ToYAML(res.Tree)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "tree":
		return mdwtree.Render(w, res.Tree, opts.render)
	default:
		return mdwerror.Newf("unknown output format %q: use tree, compact, json or yaml", opts.format).
			WithCode(mdwerror.CodeInvalidInput)
	}
}

// writeFailure echoes the input with a caret under the failing character
func writeFailure(w io.Writer, input string, pos int, located bool, err error) {
	fmt.Fprintf(w, "%s%s\n", echoPrefix, input)
	if located {
		fmt.Fprintln(w, mdwstringx.Marker(input, pos, len(echoPrefix)))
	}
	fmt.Fprintf(w, "error: %s [%s]\n", rootMessage(err), mdwerror.GetCode(err))
}

func rootMessage(err error) string {
	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		return mdwErr.RootCause().Error()
	}
	return err.Error()
}

func joinTokens(tokens []mdwparser.Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
