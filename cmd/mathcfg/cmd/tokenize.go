package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/mathcfg/foundation/mathcfg"
	mdwstringx "github.com/msto63/mathcfg/foundation/utils/stringx"
)

func newTokenizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <expression>",
		Short: "Print the tokens of an expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(strings.Join(args, " "))
			tokens, err := a.engine.Tokenize(input)
			if err != nil {
				pos, located := (&mathcfg.Result{Input: input}).Locate(err)
				writeFailure(cmd.ErrOrStderr(), input, pos, located, err)
				return &reportedError{err: err}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s %s\n",
				mdwstringx.PadRight("POS", 5, ' '),
				mdwstringx.PadRight("TYPE", 12, ' '),
				"LEXEME")
			for _, t := range tokens {
				fmt.Fprintf(w, "%s %s %s\n",
					mdwstringx.PadRight(strconv.Itoa(t.Position), 5, ' '),
					mdwstringx.PadRight(t.Type.String(), 12, ' '),
					t.Lexeme())
			}
			return nil
		},
	}
}
