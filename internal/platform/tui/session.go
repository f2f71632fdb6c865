package tui

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/kojo/internal/leaderboard"
	"github.com/vovakirdan/kojo/internal/scoring"
	"github.com/vovakirdan/kojo/internal/storage"
)

// historyLimit is how many past sessions the scoreboard shows.
const historyLimit = 20

// History records finished sessions. *storage.Store implements it.
type History interface {
	SaveScore(player string, score int) (int64, error)
	PlayerHistory(player string, limit int) ([]storage.ScoreEntry, error)
}

// Session is one player's visit: a score service and, optionally, the
// history the final total is recorded to.
type Session struct {
	ID      string
	Scores  *scoring.Service
	history History
	logger  *log.Logger

	finishOnce sync.Once
}

// StartSession loads the shared leaderboard into scores and returns the
// session. history and logger may be nil.
func StartSession(ctx context.Context, id string, scores *scoring.Service, history History, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		ID:      id,
		Scores:  scores,
		history: history,
		logger:  logger.With("session", id),
	}
	lb := scores.Load(ctx)
	s.logger.Debug("leaderboard loaded", "entries", len(lb), "player", scores.Player())
	return s
}

// Submit forwards an activity's points to the score service.
func (s *Session) Submit(source string, points int) {
	if points <= 0 {
		return
	}
	if err := s.Scores.Submit(scoring.Event{Source: scoring.Source(source), Points: points}); err != nil {
		s.logger.Warn("score rejected", "source", source, "points", points, "err", err)
	}
}

// Leaderboard returns the session's view of the leaderboard.
func (s *Session) Leaderboard() leaderboard.Leaderboard {
	return s.Scores.Leaderboard()
}

// Player returns the name scores are recorded under.
func (s *Session) Player() string {
	return s.Scores.Player()
}

// History returns the player's recent sessions, or nil without history.
func (s *Session) History() []storage.ScoreEntry {
	if s.history == nil {
		return nil
	}
	entries, err := s.history.PlayerHistory(s.Player(), historyLimit)
	if err != nil {
		s.logger.Warn("could not load history", "err", err)
		return nil
	}
	return entries
}

// Finish records the final total and flushes pending leaderboard writes.
// Only the first call has an effect.
func (s *Session) Finish(ctx context.Context) error {
	var err error
	s.finishOnce.Do(func() {
		total := s.Scores.Total()
		if s.history != nil && total > 0 {
			if _, saveErr := s.history.SaveScore(s.Player(), total); saveErr != nil {
				s.logger.Warn("could not record session", "err", saveErr)
			}
		}
		err = s.Scores.Close(ctx)
		s.logger.Info("session finished", "player", s.Player(), "total", total)
	})
	return err
}
