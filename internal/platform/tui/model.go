package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/kojo/internal/core"
	"github.com/vovakirdan/kojo/internal/registry"
)

// finishTimeout bounds how long quitting waits for leaderboard writes.
const finishTimeout = 3 * time.Second

// GameModel runs one activity and forwards the points it earns to the
// session. Tab opens the scoreboard on top of the game.
type GameModel struct {
	game       registry.Game
	session    *Session
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	tickLoop   uint64
	scoreboard *ScoreboardModel // non-nil while shown
	embedded   bool             // running under a SessionModel menu
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for game within session.
func NewGameModel(game registry.Game, session *Session, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		session:    session,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		tickLoop:   newTickLoop(),
	}
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.tickLoop)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.scoreboard != nil {
		if _, ok := msg.(TickMsg); !ok {
			return m.updateScoreboard(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.tickLoop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionLeaderboard) {
		m.inputFrame.Clear()
		m.openScoreboard()
		return m, nil
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.backToMenu = true
		if !m.embedded {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

func (m *GameModel) openScoreboard() {
	sb := NewScoreboardModel(ScoreboardData{
		Leaderboard: m.session.Leaderboard(),
		Player:      m.session.Player(),
		Total:       m.session.Scores.Total(),
		History:     m.session.History(),
	}, m.config.ScreenW, m.config.ScreenH)
	m.scoreboard = &sb
}

func (m GameModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		next, _ := m.handleResize(wsm)
		m = next.(GameModel)
	}

	updated, cmd := m.scoreboard.Update(msg)
	sb := updated.(ScoreboardModel)

	switch {
	case sb.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scoreboard = nil
		return m, nil
	}

	m.scoreboard = &sb
	return m, cmd
}

// handleResize follows the terminal size. Activities that cannot resize in
// place are restarted.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.scoreboard == nil {
		result := m.game.Step(m.inputFrame)
		m.gameState = result.State
		m.session.Submit(m.game.ID(), result.Points)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate, m.tickLoop)
}

// View renders the game with the session status on the last row.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	m.game.Render(m.screen)
	m.renderStatus()
	return RenderScreen(m.screen)
}

// renderStatus draws the player, running total and rank.
func (m GameModel) renderStatus() {
	player := m.session.Player()
	status := fmt.Sprintf(" %s  total %d", player, m.session.Scores.Total())
	if rank := m.session.Leaderboard().Rank(player); rank > 0 {
		status += fmt.Sprintf("  #%d", rank)
	}
	m.screen.DrawTextColored(0, m.screen.Height()-1, status, core.ColorCyan)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single activity in the local terminal, then finishes the session.
func Run(game registry.Game, session *Session, cfg core.RuntimeConfig) error {
	model := NewGameModel(game, session, cfg)

	p := tea.NewProgram(
		model,
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
