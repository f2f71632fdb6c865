package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/kojo/internal/leaderboard"
	"github.com/vovakirdan/kojo/internal/registry"
)

const (
	menuFirstItemRow = 5 // title, status line and spacing above the list
	podiumSize       = 3
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuYouStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// MenuItem is a selectable activity.
type MenuItem struct {
	GameID string
	Title  string
}

// MenuModel is the activity picker. Below the activities it shows the top
// of the shared leaderboard and where the player stands.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	player    string
	total     int
	board     leaderboard.Leaderboard
	keyMapper *KeyMapper

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a menu over all registered activities for the
// session's player.
func NewMenuModel(session *Session, width, height int) MenuModel {
	games := registry.List()
	items := make([]MenuItem, len(games))
	for i, g := range games {
		items[i] = MenuItem{GameID: g.ID, Title: g.Title}
	}

	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		player:    session.Player(),
		total:     session.Scores.Total(),
		board:     session.Leaderboard(),
		keyMapper: NewKeyMapper(),
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if i := msg.Y - menuFirstItemRow; isLeftPress(msg) && i >= 0 && i < len(m.items) {
			m.cursor = i
			m.choose()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)
	case MenuActionDown:
		m.cursor = min(m.cursor+1, len(m.items)-1)
	case MenuActionSelect:
		m.choose()
	case MenuActionScoreboard:
		m.openScoreboard = true
	}
	return m, nil
}

func (m *MenuModel) choose() {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return
	}
	item := m.items[m.cursor]
	m.selected = &item
}

// View renders the menu. Activity i is drawn on row menuFirstItemRow+i so
// mouse clicks can select it.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		"",
		menuTitleStyle.Render("  K O J O  "),
		"",
		m.standing(),
		"",
	}

	for i, item := range m.items {
		if i == m.cursor {
			lines = append(lines, menuCursorStyle.Render("> "+item.Title))
		} else {
			lines = append(lines, "  "+item.Title)
		}
	}
	if len(m.items) == 0 {
		lines = append(lines, menuDimStyle.Render("no activities installed"))
	}

	lines = append(lines, "", menuDimStyle.Render("Top players"))
	lines = append(lines, m.podium()...)

	lines = append(lines, "", menuDimStyle.Render("Enter: Play  |  Tab: Leaderboard  |  Q: Quit"))

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

// standing describes the player's total and leaderboard position.
func (m MenuModel) standing() string {
	s := fmt.Sprintf("Playing as %s - total %d", m.player, m.total)
	if rank := m.board.Rank(m.player); rank > 0 {
		best, _ := m.board.Best(m.player)
		s += fmt.Sprintf(" - #%d (best %d)", rank, best)
	}
	return s
}

func (m MenuModel) podium() []string {
	if len(m.board) == 0 {
		return []string{menuDimStyle.Render("nobody yet, be the first")}
	}

	n := min(len(m.board), podiumSize)
	out := make([]string, 0, n)
	for i, e := range m.board[:n] {
		line := fmt.Sprintf("%d. %-16s %6d", i+1, e.Name, e.Score)
		if e.Name == m.player {
			line = menuYouStyle.Render(line)
		}
		out = append(out, line)
	}
	return out
}

// Selected returns the chosen activity, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting reports whether the player left the menu.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard reports whether the leaderboard was requested.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}
