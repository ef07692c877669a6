package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/mathcfg/internal/tui/repl"
)

func newReplCommand(a *app) *cobra.Command {
	var (
		showTokens bool
		showDepth  bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive read-parse-display loop",
		Long: `Starts the interactive loop. Every submitted line is parsed and its
tree (or error with a caret under the offending character) is appended
to the transcript.

Keys:
  Enter     - Parse the line
  Up/Down   - Recall earlier lines
  Ctrl+L    - Clear the transcript
  Esc       - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.displayOptions("tree", showTokens, showDepth, noColor)

			store, closeStore, err := a.openHistoryIfEnabled()
			if err != nil {
				return err
			}
			defer closeStore()

			return repl.Run(repl.Options{
				Engine:     a.engine,
				History:    store,
				Render:     opts.render,
				ShowTokens: opts.showTokens,
			})
		},
	}

	cmd.Flags().BoolVarP(&showTokens, "tokens", "t", false, "print the tokens above each tree")
	cmd.Flags().BoolVar(&showDepth, "depth", false, "prefix tree lines with the node depth")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored trees")
	return cmd
}
