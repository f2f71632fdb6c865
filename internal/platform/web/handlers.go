package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/kojo/internal/leaderboard"
	"github.com/vovakirdan/kojo/internal/scoring"
)

type handlers struct {
	opts   Options
	logger *log.Logger
}

type rankResponse struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

type scoreResponse struct {
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type awardRequest struct {
	Source     scoring.Source     `json:"source"`
	Attempts   int                `json:"attempts"`
	Difficulty scoring.Difficulty `json:"difficulty"`
}

type awardResponse struct {
	Player string         `json:"player"`
	Source scoring.Source `json:"source"`
	Points int            `json:"points"`
	Score  int            `json:"score"`
	Rank   int            `json:"rank"` // 0 when the score did not make the table
}

type statsResponse struct {
	Player     string    `json:"player"`
	Sessions   int       `json:"sessions"`
	HighScore  int       `json:"high_score"`
	AvgScore   float64   `json:"avg_score"`
	LastPlayed time.Time `json:"last_played"`
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"id", chimid.GetReqID(r.Context()))
	})
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// load reads the leaderboard the same tolerant way a session does.
func (h *handlers) load(r *http.Request) (leaderboard.Leaderboard, error) {
	raw, ok, err := h.opts.Store.Read(r.Context(), h.opts.Key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return leaderboard.Leaderboard{}, nil
	}
	lb, err := leaderboard.Decode(raw, h.opts.Capacity)
	if err != nil {
		h.logger.Warn("stored leaderboard is malformed", "key", h.opts.Key, "err", err)
	}
	return lb, nil
}

func (h *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := h.load(r)
	if err != nil {
		h.logger.Warn("leaderboard read failed", "err", err)
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *handlers) player(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	lb, err := h.load(r)
	if err != nil {
		h.logger.Warn("leaderboard read failed", "err", err)
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	score, ok := lb.Best(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{Name: name, Score: score, Rank: lb.Rank(name)})
}

func (h *handlers) getItem(w http.ResponseWriter, r *http.Request) {
	value, ok, err := h.opts.Store.Read(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.logger.Warn("storage read failed", "err", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, value)
}

func (h *handlers) setItem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxValueBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "value too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	value := string(body)
	// The leaderboard key only ever holds a normalised leaderboard.
	if key == h.opts.Key {
		lb, err := leaderboard.Decode(value, h.opts.Capacity)
		if err != nil {
			http.Error(w, "malformed leaderboard", http.StatusBadRequest)
			return
		}
		if value, err = leaderboard.Encode(lb); err != nil {
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
	}

	if err := h.opts.Store.Write(r.Context(), key, value); err != nil {
		h.logger.Warn("storage write failed", "key", key, "err", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// award records the reward of one finished activity for player. Each request
// is a session of its own, so the player's entry only rises when this reward
// beats their best.
func (h *handlers) award(w http.ResponseWriter, r *http.Request) {
	player := strings.TrimSpace(chi.URLParam(r, "player"))
	if player == "" {
		http.Error(w, "player required", http.StatusBadRequest)
		return
	}

	var req awardRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxValueBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}
	points, err := scoring.Reward(req.Source, req.Attempts, req.Difficulty)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	svc := scoring.NewService(h.opts.Store,
		scoring.WithPlayer(player),
		scoring.WithKey(h.opts.Key),
		scoring.WithCapacity(h.opts.Capacity),
		scoring.WithLogger(h.logger))
	svc.Load(r.Context())
	submitErr := svc.Submit(scoring.Event{Source: req.Source, Points: points})
	if err := svc.Close(r.Context()); err != nil {
		h.logger.Warn("leaderboard write did not finish", "player", player, "err", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	if submitErr != nil {
		http.Error(w, submitErr.Error(), http.StatusBadRequest)
		return
	}

	lb := svc.Leaderboard()
	score, _ := lb.Best(player)
	writeJSON(w, http.StatusOK, awardResponse{
		Player: player,
		Source: req.Source,
		Points: points,
		Score:  score,
		Rank:   lb.Rank(player),
	})
}

func (h *handlers) scores(w http.ResponseWriter, r *http.Request) {
	if h.opts.History == nil {
		http.NotFound(w, r)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			http.Error(w, "limit must be between 1 and 100", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := h.opts.History.TopScores(limit)
	if err != nil {
		h.logger.Warn("history read failed", "err", err)
		http.Error(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}
	out := make([]scoreResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, scoreResponse{Player: e.Player, Score: e.Score, CreatedAt: e.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	if h.opts.History == nil {
		http.NotFound(w, r)
		return
	}
	stats, err := h.opts.History.Stats()
	if err != nil {
		h.logger.Warn("stats read failed", "err", err)
		http.Error(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}
	out := make([]statsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, statsResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
