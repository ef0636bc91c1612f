package historycmder

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/storage"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

type historyView int

const (
	viewList historyView = iota
	viewStatement
)

type historyModel struct {
	store       storage.Driver
	limit       int
	baseFilter  string
	statements  []*conversation.Statement
	view        historyView
	cursor      int
	width       int
	height      int
	sourceIndex int
	loadErr     error
	keys        historyKeyMap
	help        help.Model
}

var (
	historyTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	historyMutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	historyDividerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	historySectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	historyHighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("82")).Bold(true)
	historyTrainingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	historyLearnedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	historyErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// sourceModes cycles the list between every statement, trained ones, and
// ones learned during chat sessions.
var sourceModes = []string{"", conversation.TrainingConversation, "learned"}

type historyKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Source  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k historyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Enter, k.Back, k.Source, k.Refresh, k.Quit}
}

func (k historyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Down, k.Up, k.Enter, k.Back}, {k.Source, k.Refresh, k.Quit}}
}

func defaultKeyMap() historyKeyMap {
	return historyKeyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "inspect")),
		Back:    key.NewBinding(key.WithKeys("h", "esc"), key.WithHelp("h", "back")),
		Source:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "source")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type statementsLoadedMsg struct {
	statements []*conversation.Statement
	err        error
}

func runHistoryTUI(ctx context.Context, store storage.Driver, limit int, baseFilter string, statements []*conversation.Statement) error {
	model := newHistoryModel(store, limit, baseFilter, statements)

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func newHistoryModel(store storage.Driver, limit int, baseFilter string, statements []*conversation.Statement) historyModel {
	return historyModel{
		store:      store,
		limit:      limit,
		baseFilter: baseFilter,
		statements: statements,
		view:       viewList,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

func (m historyModel) Init() bubbletea.Cmd {
	return nil
}

func (m historyModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case statementsLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.statements = msg.statements
		m.cursor = clamp(m.cursor, len(m.visible())-1)
		return m, nil
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m historyModel) View() string {
	switch m.view {
	case viewList:
		return m.viewList()
	case viewStatement:
		return m.viewStatement()
	}
	return m.viewList()
}

func (m historyModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, bubbletea.Quit
	case "j", "down":
		return m.moveCursor(1)
	case "k", "up":
		return m.moveCursor(-1)
	case "l", "enter":
		if m.view == viewList && len(m.visible()) > 0 {
			m.view = viewStatement
		}
	case "h", "esc":
		if m.view == viewStatement {
			m.view = viewList
		}
	case "f":
		if m.view == viewList {
			return m.cycleSource()
		}
	case "r":
		return m, loadStatementsCmd(m.store, m.limit, m.baseFilter)
	}

	return m, nil
}

func (m historyModel) moveCursor(delta int) (bubbletea.Model, bubbletea.Cmd) {
	visible := m.visible()
	if len(visible) == 0 {
		return m, nil
	}
	m.cursor = clamp(m.cursor+delta, len(visible)-1)
	return m, nil
}

func (m historyModel) cycleSource() (bubbletea.Model, bubbletea.Cmd) {
	m.sourceIndex = (m.sourceIndex + 1) % len(sourceModes)
	m.cursor = 0
	return m, nil
}

// visible applies the current source mode to the loaded statements.
func (m historyModel) visible() []*conversation.Statement {
	mode := sourceModes[m.sourceIndex]
	if mode == "" {
		return m.statements
	}

	visible := make([]*conversation.Statement, 0, len(m.statements))
	for _, st := range m.statements {
		if matchesSource(st, mode) {
			visible = append(visible, st)
		}
	}
	return visible
}

func matchesSource(st *conversation.Statement, mode string) bool {
	switch mode {
	case conversation.TrainingConversation:
		return st.Conversation == conversation.TrainingConversation
	case "learned":
		return st.Conversation != conversation.TrainingConversation
	default:
		return true
	}
}

func (m historyModel) viewList() string {
	visible := m.visible()

	headerLeft := historyTitleStyle.Render("parley history")
	headerRight := historyMutedStyle.Render(m.headerCounts(len(visible)))
	header := renderHeaderLine(m.width, headerLeft, headerRight)
	lines := make([]string, 0, len(visible)+8)
	lines = append(lines, header, renderRule(m.width), "")

	if m.loadErr != nil {
		lines = append(lines, historyErrorStyle.Render("refresh failed: "+m.loadErr.Error()), "")
	}

	if len(visible) == 0 {
		lines = append(lines, historyMutedStyle.Render("no statements"), "", m.viewFooter())
		return strings.Join(lines, "\n")
	}

	lines = append(lines, historyMutedStyle.Render("    id  when              source       statement"))

	start, end := visibleRange(m.cursor, len(visible), m.listHeight())
	for i := start; i < end; i++ {
		st := visible[i]
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		line := fmt.Sprintf("%s %4d  %-16s  %s  %s",
			cursor,
			st.ID,
			st.CreatedAt.Format("2006-01-02 15:04"),
			sourceStyleFor(st).Render(fmt.Sprintf("%-11s", sourceLabel(st))),
			truncateText(st.Text, m.textWidth()),
		)

		if i == m.cursor {
			line = historyHighlightStyle.Render(line)
		}

		lines = append(lines, line)
	}

	lines = append(lines, "", m.viewFooter())

	return strings.Join(lines, "\n")
}

func (m historyModel) viewStatement() string {
	visible := m.visible()
	if len(visible) == 0 || m.cursor >= len(visible) {
		return historyMutedStyle.Render("no statement selected")
	}

	st := visible[m.cursor]
	headerLeft := historyTitleStyle.Render("parley history › statement " + strconv.FormatInt(st.ID, 10))
	headerRight := historyMutedStyle.Render(st.CreatedAt.Format("2006-01-02 15:04:05"))
	header := renderHeaderLine(m.width, headerLeft, headerRight)
	lines := make([]string, 0, 20)
	lines = append(lines, header, renderRule(m.width), "")

	lines = append(lines, historySectionStyle.Render("statement"), renderRule(m.width))
	lines = append(lines, wrapText(st.Text, m.width)...)
	lines = append(lines, "")

	lines = append(lines, historySectionStyle.Render("in response to"), renderRule(m.width))
	if st.InResponseTo == "" {
		lines = append(lines, historyMutedStyle.Render("opens an exchange"))
	} else {
		lines = append(lines, wrapText(st.InResponseTo, m.width)...)
	}
	lines = append(lines, "")

	lines = append(lines, historySectionStyle.Render("details"), renderRule(m.width))
	lines = append(lines, metaLine("source", sourceStyleFor(st).Render(sourceLabel(st))))
	lines = append(lines, metaLine("conversation", st.Conversation))
	lines = append(lines, metaLine("persona", st.Persona))
	lines = append(lines, metaLine("normalized", st.SearchText))

	lines = append(lines, "", m.viewFooter())

	return strings.Join(lines, "\n")
}

func (m historyModel) viewFooter() string {
	return historyMutedStyle.Render(m.help.View(m.keys))
}

func (m historyModel) headerCounts(visibleCount int) string {
	label := sourceModes[m.sourceIndex]
	if label == "" {
		label = "all"
	}
	if visibleCount == len(m.statements) {
		return fmt.Sprintf("%d statements · source: %s", len(m.statements), label)
	}
	return fmt.Sprintf("%d of %d statements · source: %s", visibleCount, len(m.statements), label)
}

// listHeight reports how many statement rows fit under the header chrome.
func (m historyModel) listHeight() int {
	screenHeight := m.height
	if screenHeight <= 0 {
		screenHeight = 40
	}
	return max(screenHeight-8, 5)
}

func (m historyModel) textWidth() int {
	lineWidth := m.width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	return max(lineWidth-40, 20)
}

func loadStatementsCmd(store storage.Driver, limit int, baseFilter string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		statements, err := loadStatements(context.Background(), store, limit, baseFilter)
		return statementsLoadedMsg{statements: statements, err: err}
	}
}

func sourceStyleFor(st *conversation.Statement) lipgloss.Style {
	if st.Conversation == conversation.TrainingConversation {
		return historyTrainingStyle
	}
	return historyLearnedStyle
}

func metaLine(label, value string) string {
	return historyMutedStyle.Render(fmt.Sprintf("%-14s", label)) + value
}

func clamp(value, upper int) int {
	if value < 0 {
		return 0
	}
	if value > upper {
		return upper
	}
	return value
}

// visibleRange windows the list around the cursor so it stays on screen.
func visibleRange(cursor, total, window int) (int, int) {
	if window <= 0 || total <= window {
		return 0, total
	}

	start := cursor - window/2
	if start < 0 {
		start = 0
	}
	if start+window > total {
		start = total - window
	}
	return start, start + window
}

func truncateText(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

// wrapText breaks an utterance into lines that fit the screen width.
func wrapText(text string, width int) []string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > lineWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}

func renderHeaderLine(width int, left, right string) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth+1 >= lineWidth {
		return strings.TrimSpace(left + " " + right)
	}
	spacing := lineWidth - leftWidth - rightWidth
	return left + strings.Repeat(" ", spacing) + right
}

func renderRule(width int) string {
	lineWidth := width
	if lineWidth <= 0 {
		lineWidth = 80
	}
	return historyDividerStyle.Render(strings.Repeat("─", lineWidth))
}
