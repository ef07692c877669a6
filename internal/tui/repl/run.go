package repl

import (
	tea "github.com/charmbracelet/bubbletea"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
)

// Run starts the REPL on the terminal and blocks until the user quits
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return mdwerror.Wrap(err, "repl failed").WithCode(mdwerror.CodeInternal)
	}
	return nil
}
