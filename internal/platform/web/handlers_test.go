package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/kojo/internal/leaderboard"
	"github.com/vovakirdan/kojo/internal/storage"
	"github.com/vovakirdan/kojo/internal/storage/memstore"
)

func newTestServer(t *testing.T) (*memstore.Store, http.Handler) {
	t.Helper()
	store := memstore.New()
	return store, NewServer(Options{Store: store, Capacity: 3})
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rr := do(h, "GET", "/healthz", "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	_, h := newTestServer(t)
	rr := do(h, "GET", "/api/leaderboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestLeaderboardNormalisesStoredValue(t *testing.T) {
	store, h := newTestServer(t)
	raw := `[{"name":"ann","score":5},{"name":"bob","score":90},{"name":"ann","score":70},{"name":"","score":99},{"name":"cy","score":1},{"name":"dee","score":2}]`
	if err := store.Write(context.Background(), "leaderboard", raw); err != nil {
		t.Fatal(err)
	}

	rr := do(h, "GET", "/api/leaderboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var lb leaderboard.Leaderboard
	if err := json.Unmarshal(rr.Body.Bytes(), &lb); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := leaderboard.Leaderboard{{Name: "bob", Score: 90}, {Name: "ann", Score: 70}, {Name: "dee", Score: 2}}
	if len(lb) != len(want) {
		t.Fatalf("got %v, want %v", lb, want)
	}
	for i := range want {
		if lb[i] != want[i] {
			t.Fatalf("entry %d = %v, want %v", i, lb[i], want[i])
		}
	}
}

func TestLeaderboardMalformedIsEmpty(t *testing.T) {
	store, h := newTestServer(t)
	_ = store.Write(context.Background(), "leaderboard", "{not json")

	rr := do(h, "GET", "/api/leaderboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestPlayerRank(t *testing.T) {
	store, h := newTestServer(t)
	_ = store.Write(context.Background(), "leaderboard", `[{"name":"bob","score":90},{"name":"ann","score":70}]`)

	rr := do(h, "GET", "/api/leaderboard/ann", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got rankResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Rank != 2 || got.Score != 70 {
		t.Fatalf("got %+v, want rank 2 score 70", got)
	}

	if rr := do(h, "GET", "/api/leaderboard/zed", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown player, got %d", rr.Code)
	}
}

func TestStorageItemRoundTrip(t *testing.T) {
	_, h := newTestServer(t)

	if rr := do(h, "GET", "/api/storage/theme", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before write, got %d", rr.Code)
	}
	if rr := do(h, "PUT", "/api/storage/theme", "dark"); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	rr := do(h, "GET", "/api/storage/theme", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "dark" {
		t.Fatalf("expected dark, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestSetLeaderboardIsNormalised(t *testing.T) {
	store, h := newTestServer(t)

	rr := do(h, "PUT", "/api/storage/leaderboard", `[{"name":"ann","score":5},{"name":"ann","score":9}]`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	got, _, _ := store.Read(context.Background(), "leaderboard")
	if got != `[{"name":"ann","score":9}]` {
		t.Fatalf("stored %q", got)
	}

	if rr := do(h, "PUT", "/api/storage/leaderboard", "nope"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed leaderboard, got %d", rr.Code)
	}
}

func TestSetItemTooLarge(t *testing.T) {
	_, h := newTestServer(t)
	rr := do(h, "PUT", "/api/storage/blob", strings.Repeat("x", maxValueBytes+1))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestAwardRecordsReward(t *testing.T) {
	store, h := newTestServer(t)
	_ = store.Write(context.Background(), "leaderboard", `[{"name":"bob","score":90}]`)

	rr := do(h, "POST", "/api/scores/ann", `{"source":"color","attempts":3,"difficulty":"hard"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %q", rr.Code, rr.Body.String())
	}
	var got awardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := awardResponse{Player: "ann", Source: "color", Points: 140, Score: 140, Rank: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	stored, _, _ := store.Read(context.Background(), "leaderboard")
	if stored != `[{"name":"ann","score":140},{"name":"bob","score":90}]` {
		t.Fatalf("stored %q", stored)
	}
}

func TestAwardKeepsBestScore(t *testing.T) {
	store, h := newTestServer(t)
	_ = store.Write(context.Background(), "leaderboard", `[{"name":"ann","score":200}]`)

	rr := do(h, "POST", "/api/scores/ann", `{"source":"number","attempts":2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got awardResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Points != 80 || got.Score != 200 || got.Rank != 1 {
		t.Fatalf("got %+v, want 80 points with best 200", got)
	}
}

func TestAwardRejectsBadRequests(t *testing.T) {
	_, h := newTestServer(t)

	for name, body := range map[string]string{
		"malformed":          "{",
		"unknown source":     `{"source":"chess","attempts":1}`,
		"candy":              `{"source":"candy","attempts":1}`,
		"unknown difficulty": `{"source":"color","attempts":1,"difficulty":"extreme"}`,
		"negative attempts":  `{"source":"word","attempts":-2}`,
	} {
		t.Run(name, func(t *testing.T) {
			if rr := do(h, "POST", "/api/scores/ann", body); rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestScoresWithoutHistory(t *testing.T) {
	_, h := newTestServer(t)
	if rr := do(h, "GET", "/api/scores", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestScoresFromHistory(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "kojo.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, s := range []int{30, 120, 60} {
		if _, err := db.SaveScore("ann", s); err != nil {
			t.Fatal(err)
		}
	}
	h := NewServer(Options{Store: db, History: db})

	rr := do(h, "GET", "/api/scores?limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var scores []scoreResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &scores); err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 || scores[0].Score != 120 || scores[1].Score != 60 {
		t.Fatalf("unexpected scores %+v", scores)
	}

	if rr := do(h, "GET", "/api/scores?limit=0", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rr.Code)
	}

	rr = do(h, "GET", "/api/scores/stats", "")
	var stats []statsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].Sessions != 3 || stats[0].HighScore != 120 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
