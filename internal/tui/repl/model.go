package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	"github.com/msto63/mathcfg/foundation/mathcfg"
	mdwtree "github.com/msto63/mathcfg/foundation/mathcfg/tree"
	mdwstringx "github.com/msto63/mathcfg/foundation/utils/stringx"
	"github.com/msto63/mathcfg/internal/history"
)

const (
	prompt        = "> "
	recordTimeout = 5 * time.Second

	// rows used by header, input box and footer
	chromeHeight = 7
)

// Options configures the REPL
type Options struct {
	// Engine parses every submitted line (required)
	Engine *mathcfg.Engine

	// History records every parse attempt when non-nil
	History history.Store

	// Render controls the tree listing
	Render mdwtree.RenderOptions

	// ShowTokens prints the token list above each tree
	ShowTokens bool
}

// Entry is one submitted line and its rendered outcome
type Entry struct {
	Input  string
	Output string
	Failed bool
}

// Model is the REPL model
type Model struct {
	// State
	width    int
	height   int
	ready    bool
	quitting bool

	// Components
	input    textinput.Model
	viewport viewport.Model

	opts    Options
	entries []Entry
	content string

	// Previously submitted lines for up/down recall
	recall    []string
	recallIdx int

	parsed int
	failed int
}

// recordedMsg reports the outcome of a history write
type recordedMsg struct {
	err error
}

// New creates a new REPL model
func New(opts Options) (Model, error) {
	if opts.Engine == nil {
		return Model{}, mdwerror.New("repl requires an engine").WithCode(mdwerror.CodeInvalidConfig)
	}

	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = "2 * (3 + 4)"
	ti.CharLimit = opts.Engine.Options().MaxInputLength
	ti.Width = 76
	ti.Focus()

	return Model{
		input:   ti,
		opts:    opts,
		entries: []Entry{},
	}, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Entries returns the transcript
func (m Model) Entries() []Entry {
	return m.entries
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			if line == "quit" || line == "exit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.recall = append(m.recall, line)
			m.recallIdx = len(m.recall)
			return m, m.submit(line)

		case "ctrl+l":
			m.entries = []Entry{}
			m.updateContent()
			return m, nil

		case "up":
			if m.recallIdx > 0 {
				m.recallIdx--
				m.input.SetValue(m.recall[m.recallIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.recallIdx < len(m.recall)-1 {
				m.recallIdx++
				m.input.SetValue(m.recall[m.recallIdx])
				m.input.CursorEnd()
			} else {
				m.recallIdx = len(m.recall)
				m.input.Reset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := max(1, msg.Height-chromeHeight)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = max(10, msg.Width-8)
		m.updateContent()

	case recordedMsg:
		if msg.err != nil {
			m.entries = append(m.entries, Entry{
				Output: SystemMessageStyle.Render("[history] " + msg.err.Error()),
			})
			m.updateContent()
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit parses line, appends the outcome and returns the history write
func (m *Model) submit(line string) tea.Cmd {
	res, err := m.opts.Engine.Parse(line)

	entry := Entry{Input: res.Input}
	if err != nil {
		m.failed++
		entry.Failed = true
		entry.Output = m.renderError(res, err)
	} else {
		m.parsed++
		entry.Output = m.renderTree(res)
	}
	m.entries = append(m.entries, entry)
	m.updateContent()

	return m.record(res, err)
}

func (m *Model) record(res *mathcfg.Result, err error) tea.Cmd {
	store := m.opts.History
	if store == nil {
		return nil
	}
	e := history.EntryFromResult(res, err, history.SourceREPL)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		return recordedMsg{err: store.Record(ctx, e)}
	}
}

func (m *Model) renderTree(res *mathcfg.Result) string {
	var s strings.Builder
	if m.opts.ShowTokens {
		toks := make([]string, len(res.Tokens))
		for i, t := range res.Tokens {
			toks[i] = t.String()
		}
		s.WriteString(SystemMessageStyle.Render("tokens: " + strings.Join(toks, " ")))
		s.WriteString("\n")
	}
	s.WriteString(strings.TrimSuffix(mdwtree.RenderString(res.Tree, m.opts.Render), "\n"))
	return s.String()
}

// renderError places a caret under the failing character of the echoed input
func (m *Model) renderError(res *mathcfg.Result, err error) string {
	var s strings.Builder
	if pos, ok := res.Locate(err); ok {
		s.WriteString(MarkerStyle.Render(mdwstringx.Marker(res.Input, pos, len(prompt))))
		s.WriteString("\n")
	}

	message := err.Error()
	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		message = mdwErr.RootCause().Error()
	}
	s.WriteString(ErrorMessageStyle.Render(fmt.Sprintf("error: %s [%s]", message, mdwerror.GetCode(err))))
	return s.String()
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(FocusedInputStyle.Render(m.input.View()))
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m *Model) renderHeader() string {
	title := TitleStyle.Render("mathcfg")
	subtitle := SubtitleStyle.Render("arithmetic expression parser")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", subtitle)
}

func (m *Model) renderFooter() string {
	help := "Enter: Parse • ↑/↓: Recall • Ctrl+L: Clear • Esc: Quit"
	counts := StatusOKStyle.Render(fmt.Sprintf("%d ok", m.parsed)) + " " +
		StatusErrorStyle.Render(fmt.Sprintf("%d failed", m.failed))

	gap := max(1, m.width-lipgloss.Width(help)-lipgloss.Width(counts)-2)
	return StatusBarStyle.Width(m.width).Render(help + strings.Repeat(" ", gap) + counts)
}

func (m *Model) updateContent() {
	var content strings.Builder

	for _, e := range m.entries {
		if e.Input != "" {
			content.WriteString(PromptStyle.Render(prompt))
			content.WriteString(e.Input)
			content.WriteString("\n")
		}
		content.WriteString(e.Output)
		content.WriteString("\n\n")
	}

	m.content = content.String()
	m.viewport.SetContent(m.content)
	m.viewport.GotoBottom()
}
