package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwlog "github.com/msto63/mathcfg/foundation/core/log"
	"github.com/msto63/mathcfg/foundation/mathcfg"
	"github.com/msto63/mathcfg/internal/history"
	"github.com/msto63/mathcfg/pkg/core/config"
	"github.com/msto63/mathcfg/pkg/core/logging"
)

// Exit codes
const (
	ExitFailure = 1
	ExitSyntax  = 2
)

// app carries the state shared by all subcommands
type app struct {
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger *mdwlog.Logger
	engine *mathcfg.Engine
}

// reportedError marks failures that were already printed to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the CLI with os.Args
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// ExitCode maps an error to the process exit status. Malformed
// expressions exit with 2, everything else with 1.
func ExitCode(err error) int {
	if mdwerror.GetCode(err).IsSyntax() {
		return ExitSyntax
	}
	return ExitFailure
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mathcfg",
		Short: "mathcfg - arithmetic expression parser",
		Long: `mathcfg tokenizes and parses arithmetic expressions over unsigned
integers with + - * / and parentheses, and prints the parse tree of
the grammar

  Expr         := MultiDivExpr (('+' | '-') Expr)?
  MultiDivExpr := DivExpr ('*' MultiDivExpr)?
  DivExpr      := Term ('/' DivExpr)?
  Term         := Number | '(' Expr ')'

Commands:
  parse     - Parse expressions and print their trees
  tokenize  - Print the tokens of an expression
  repl      - Interactive read-parse-display loop
  serve     - WebSocket parse service
  history   - Inspect the recorded parse history`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $MATHCFG_CONFIG or ./configs/mathcfg.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: console, text, json")

	root.AddCommand(
		newParseCommand(a),
		newTokenizeCommand(a),
		newReplCommand(a),
		newServeCommand(a),
		newHistoryCommand(a),
		newVersionCommand(),
	)
	return root
}

// setup loads the configuration and builds logger and engine
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.General.LogLevel = a.logLevel
	}
	if a.verbose {
		a.cfg.General.LogLevel = "debug"
	}
	if a.logFormat != "" {
		a.cfg.General.LogFormat = a.logFormat
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	lc := logging.FromConfig("mathcfg", a.cfg)
	lc.Output = cmd.ErrOrStderr()
	a.logger = logging.NewLogger(lc)
	mdwlog.SetDefault(a.logger)

	a.logger.Debug("Configuration loaded", mdwlog.Fields{
		"source":  a.cfg.Source,
		"command": cmd.Name(),
	})

	a.engine, err = mathcfg.NewEngine(mathcfg.Options{
		Logger:          a.logger,
		MaxInputLength:  a.cfg.Parser.MaxInputLength,
		MaxDepth:        a.cfg.Parser.MaxDepth,
		RequireOperator: a.cfg.Parser.RequireOperator,
	})
	return err
}

// openHistory opens the history store
func (a *app) openHistory() (*history.SQLiteStore, error) {
	return history.NewSQLiteStore(history.Config{
		Path:   a.cfg.HistoryPath(),
		Logger: a.logger,
	})
}

// openHistoryIfEnabled returns nil when history recording is off
func (a *app) openHistoryIfEnabled() (history.Store, func(), error) {
	if !a.cfg.History.Enabled {
		return nil, func() {}, nil
	}
	store, err := a.openHistory()
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}
