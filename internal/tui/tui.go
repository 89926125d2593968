// Package tui is the interactive terminal front end for a local game.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/pastortable/internal/game"
	"github.com/lox/pastortable/internal/pastor"
)

// Options configures the model
type Options struct {
	DefaultSteps    int  // steps for a bare attack
	ShowProfessions bool // print professions next to names in the log
	TestMode        bool // capture log entries and skip viewport updates
}

// TUIModel represents the Bubble Tea model for a game at the table
type TUIModel struct {
	session   *game.Session
	formatter *game.EventFormatter
	logger    *log.Logger
	opts      Options

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	capturedLog []string // For test assertions
}

// NewTUIModel creates a new TUI model. Subscribe it to the game's event bus
// before the session is created, then hand it the session with SetSession.
func NewTUIModel(logger *log.Logger, opts Options) *TUIModel {
	if opts.DefaultSteps < 1 {
		opts.DefaultSteps = 1
	}

	// Create viewport for game log with minimal initial size
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "attack [n], resurrect, rob, skip, help"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		formatter:   game.NewEventFormatter(game.FormattingOptions{ShowProfessions: opts.ShowProfessions}),
		logger:      logger.WithPrefix("tui"),
		opts:        opts,
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1, // Start with input focused
		capturedLog: []string{},
	}
}

// SetSession attaches the game the model drives
func (m *TUIModel) SetSession(s *game.Session) {
	m.session = s
}

// Session returns the attached game
func (m *TUIModel) Session() *game.Session {
	return m.session
}

// OnEvent renders game events into the log
func (m *TUIModel) OnEvent(event game.GameEvent) {
	line := m.formatter.Format(event)
	if line == "" {
		return
	}
	if rep, ok := event.(game.SeatingRepairEvent); ok && rep.Report.Exhausted() {
		line = WarningStyle.Render(line)
	}
	m.AddLogEntry(line)
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if quit := m.Execute(input); quit {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Always update viewport (for scrolling)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Execute runs one prompt line against the session and reports whether the
// player asked to quit.
func (m *TUIModel) Execute(input string) bool {
	cmd, err := ParseCommand(input, m.opts.DefaultSteps)
	if err != nil {
		m.AddLogEntry(ErrorStyle.Render(err.Error()))
		return false
	}

	switch cmd.Name {
	case CmdQuit:
		return true
	case CmdHelp:
		for _, line := range helpLines {
			m.AddLogEntry(InfoStyle.Render(line))
		}
		return false
	case CmdClear:
		m.ClearLog()
		return false
	}

	if m.session == nil {
		m.AddLogEntry(ErrorStyle.Render("no game in progress"))
		return false
	}

	switch cmd.Name {
	case CmdAttack:
		_, err = m.session.Attack(cmd.Steps)
	case CmdResurrect:
		_, err = m.session.Resurrect()
	case CmdRob:
		_, err = m.session.Rob()
	case CmdSkip:
		_, err = m.session.Advance()
	case CmdDirection:
		if err = m.session.SetDirection(cmd.Direction); err == nil {
			m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("Counting %s from now on", cmd.Direction)))
		}
	}
	if err != nil {
		m.logger.Debug("Command rejected", "command", cmd.Name, "error", err)
		m.AddLogEntry(ErrorStyle.Render(describeError(err)))
	}
	return false
}

func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrPileEmpty):
		return "Nobody is waiting to be resurrected"
	case errors.Is(err, game.ErrGameOver):
		return "The game is over, type quit to leave"
	default:
		return err.Error()
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight-2, 1))
	if m.focusedPane == 0 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#626262"))
	}
	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1) // Account for border x 2 and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane lists the ring from the head and the pile from the top
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder
	if m.session == nil {
		return InfoStyle.Render("No game")
	}

	content.WriteString(HeaderStyle.Render(" Pastor Table "))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Turn %d, counting %s", m.session.Turn(), m.session.Direction())))
	content.WriteString("\n\n")

	acting := m.session.Acting()
	ring := m.session.Roster()
	content.WriteString(InfoStyle.Render(fmt.Sprintf("At the table (%d):", len(ring))))
	content.WriteString("\n")
	for i, a := range ring {
		line := fmt.Sprintf("%2d %-18s $%-4d %3df", i+1, a.Name, a.Wealth, a.Followers)
		if acting != nil && a.ID == acting.ID {
			content.WriteString(ActingStyle.Render("> " + line))
		} else {
			content.WriteString(AgentStyle.Render("  " + line))
		}
		content.WriteString("\n")
		content.WriteString("     " + ProfessionStyle.Render(string(a.Profession)))
		content.WriteString("\n")
	}

	pile := m.session.Pile()
	if len(pile) > 0 {
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render(fmt.Sprintf("Pile (%d), top first:", len(pile))))
		content.WriteString("\n")
		for i := len(pile) - 1; i >= 0; i-- {
			content.WriteString("  " + PileStyle.Render(pile[i].Name))
			content.WriteString("\n")
		}
	}

	return content.String()
}

// renderActionPane renders the acting agent and the prompt
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	switch {
	case m.session == nil:
		content.WriteString(TurnInfoStyle.Render("Waiting..."))
		m.actionInput.Placeholder = "'quit' to exit"
	case m.session.IsGameOver():
		winner, _ := m.session.Winner()
		content.WriteString(SuccessStyle.Render(fmt.Sprintf("%s wins the table", winner.Name)))
		m.actionInput.Placeholder = "'quit' to exit"
	default:
		content.WriteString(m.renderTurnInfo(m.session.Acting()))
		content.WriteString("\n")
		content.WriteString(m.renderAvailableCommands())
		m.actionInput.Placeholder = "attack [n], resurrect, rob, skip, help"
	}
	content.WriteString("\n")

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	return content.String()
}

func (m *TUIModel) renderTurnInfo(a *pastor.Agent) string {
	return TurnInfoStyle.Render(fmt.Sprintf("%s to act: $%d, %d followers, %s",
		a.Name, a.Wealth, a.Followers, a.Profession))
}

// renderAvailableCommands marks the commands the rules currently allow
func (m *TUIModel) renderAvailableCommands() string {
	attack := fmt.Sprintf("[attack %d]", m.opts.DefaultSteps)
	commands := []string{SuccessStyle.Render(attack)}

	if len(m.session.Pile()) > 0 {
		commands = append(commands, SuccessStyle.Render("[resurrect]"))
	} else {
		commands = append(commands, InfoStyle.Render("[resurrect]"))
	}

	poorest, ok := m.session.Poorest()
	if ok && poorest.ID == m.session.Acting().ID {
		commands = append(commands, WarningStyle.Render("[rob]"))
	} else {
		commands = append(commands, InfoStyle.Render("[rob]"))
	}

	commands = append(commands, SuccessStyle.Render("[skip]"))
	return CommandsStyle.Render("Commands: " + strings.Join(commands, " "))
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.opts.TestMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.opts.TestMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.opts.TestMode
}
