package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kojo/internal/core"
	"github.com/vovakirdan/kojo/internal/registry"
)

// SessionModel manages the full session flow: menu -> activity -> menu,
// with the scoreboard reachable from both.
type SessionModel struct {
	session    *Session
	config     core.RuntimeConfig
	menu       MenuModel
	gameModel  *GameModel
	scoreboard *ScoreboardModel
	quitting   bool
}

// NewSessionModel creates the top-level model for a session.
func NewSessionModel(session *Session, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		session: session,
		config:  cfg,
		menu:    newMenuFor(session, cfg),
	}
}

func newMenuFor(session *Session, cfg core.RuntimeConfig) MenuModel {
	return NewMenuModel(session, cfg.ScreenW, cfg.ScreenH)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.gameModel != nil:
		return m.updateGame(msg)
	case m.scoreboard != nil:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(ScoreboardData{
			Leaderboard: m.session.Leaderboard(),
			Player:      m.session.Player(),
			Total:       m.session.Scores.Total(),
			History:     m.session.History(),
		}, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		game, err := registry.Create(selected.GameID)
		if err != nil {
			// The menu only lists registered activities.
			m.menu = newMenuFor(m.session, m.config)
			return m, nil
		}

		gameModel := NewGameModel(game, m.session, m.config)
		gameModel.embedded = true
		m.gameModel = &gameModel
		return m, m.gameModel.Init()
	}

	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.scoreboard.Update(msg)
	sb := updated.(ScoreboardModel)

	switch {
	case sb.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scoreboard = nil
		m.menu = newMenuFor(m.session, m.config)
		return m, nil
	}

	m.scoreboard = &sb
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		m.menu = newMenuFor(m.session, m.config)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.gameModel != nil:
		return m.gameModel.View()
	case m.scoreboard != nil:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session in the local terminal, then
// finishes the session.
func RunSession(session *Session, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(session, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()
	if finishErr := session.Finish(ctx); err == nil {
		err = finishErr
	}
	return err
}
