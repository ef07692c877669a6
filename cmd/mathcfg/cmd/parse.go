package cmd

import (
	"bufio"
	"context"
	"strings"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	mdwstringx "github.com/msto63/mathcfg/foundation/utils/stringx"
	"github.com/msto63/mathcfg/internal/history"
)

func newParseCommand(a *app) *cobra.Command {
	var (
		format     string
		showTokens bool
		showDepth  bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "parse [expression]",
		Short: "Parse expressions and print their parse trees",
		Long: `Parse an expression and print its parse tree.

Without an argument every non-blank line of standard input is parsed.
Failures are reported on standard error with a caret under the
offending character; the exit status is 2 if any expression is
malformed.

Examples:
  mathcfg parse "2 + 3 * 4"
  mathcfg parse --format json "(1 + 2) / 3"
  echo "8/4/2" | mathcfg parse --format compact`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.displayOptions(format, showTokens, showDepth, noColor)

			var inputs []string
			if len(args) > 0 {
				inputs = []string{strings.Join(args, " ")}
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if line := scanner.Text(); !mdwstringx.IsBlank(line) {
						inputs = append(inputs, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}

			store, closeStore, err := a.openHistoryIfEnabled()
			if err != nil {
				return err
			}
			defer closeStore()

			var firstErr error
			for _, input := range inputs {
				res, perr := a.engine.Parse(input)
				if store != nil {
					if rerr := store.Record(context.Background(), history.EntryFromResult(res, perr, history.SourceCLI)); rerr != nil {
						a.logger.WarnWithErr("Failed to record parse history", rerr)
					}
				}

				if perr != nil {
					pos, located := res.Locate(perr)
					writeFailure(cmd.ErrOrStderr(), res.Input, pos, located, perr)
					if firstErr == nil {
						firstErr = &reportedError{err: perr}
					}
					continue
				}
				if err := writeTree(cmd.OutOrStdout(), res, opts); err != nil {
					return err
				}
			}

			a.logger.Debug("Parse command finished", mdwlog.Fields{"expressions": len(inputs)})
			return firstErr
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tree, compact, json, yaml (default from config)")
	cmd.Flags().BoolVarP(&showTokens, "tokens", "t", false, "print the tokens before the tree")
	cmd.Flags().BoolVar(&showDepth, "depth", false, "prefix tree lines with the node depth")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
