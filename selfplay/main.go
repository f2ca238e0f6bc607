package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// driver plays AI-vs-AI games on a running backend and keeps a tally.
type driver struct {
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	gameTimeout  time.Duration
	logger       *log.Logger
	games        int
	rule         string

	statusMu sync.RWMutex
	status   driverStatus
}

type statusResponse struct {
	GameID      string            `json:"game_id"`
	Status      string            `json:"status"`
	Winner      int               `json:"winner"`
	History     []json.RawMessage `json:"history"`
	OpeningRule string            `json:"opening_rule"`
	LastMessage string            `json:"last_message"`
}

type driverStatus struct {
	Running      bool    `json:"running"`
	Phase        string  `json:"phase"`
	Message      string  `json:"message"`
	OpeningRule  string  `json:"opening_rule"`
	StartedAt    string  `json:"started_at"`
	UpdatedAt    string  `json:"updated_at"`
	GamesTarget  int     `json:"games_target"`
	GamesPlayed  int     `json:"games_played"`
	BlackWins    int     `json:"black_wins"`
	WhiteWins    int     `json:"white_wins"`
	Draws        int     `json:"draws"`
	Aborted      int     `json:"aborted"`
	TotalMoves   int     `json:"total_moves"`
	AverageMoves float64 `json:"average_moves"`
	LastGameID   string  `json:"last_game_id,omitempty"`
}

func main() {
	logger, closeLog, err := buildLogger(getenv("SELFPLAY_LOG", ""))
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	d := newDriver(
		getenv("BACKEND_URL", "http://localhost:8080"),
		getenvInt("SELFPLAY_GAMES", 10),
		getenv("SELFPLAY_RULE", "Standard"),
		time.Duration(getenvInt("POLL_INTERVAL_MS", 250))*time.Millisecond,
		logger,
	)
	apiAddr := getenv("SELFPLAY_API_ADDR", ":8090")

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	apiServer := &http.Server{Addr: apiAddr, Handler: d.router()}
	go func() {
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logf("status api error: %v", err)
		}
	}()
	d.logf("self-play started. backend=%s games=%d rule=%s api=%s", d.baseURL, d.games, d.rule, apiAddr)

	if err := d.run(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
		d.logf("self-play stopped: %v", err)
	}
	final := d.getStatus()
	d.logf("done: %d games, black %d, white %d, draws %d, aborted %d, %.1f moves on average",
		final.GamesPlayed, final.BlackWins, final.WhiteWins, final.Draws, final.Aborted, final.AverageMoves)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = apiServer.Shutdown(shutdownCtx)
}

func newDriver(baseURL string, games int, rule string, pollInterval time.Duration, logger *log.Logger) *driver {
	now := time.Now().UTC().Format(time.RFC3339)
	return &driver{
		client:       &http.Client{Timeout: 10 * time.Second},
		baseURL:      baseURL,
		pollInterval: pollInterval,
		gameTimeout:  5 * time.Minute,
		logger:       logger,
		games:        games,
		rule:         rule,
		status: driverStatus{
			Phase:       "idle",
			Message:     "service ready",
			OpeningRule: rule,
			GamesTarget: games,
			StartedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func (d *driver) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": d.getStatus().Running})
	})
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.getStatus())
	})
	return r
}

func (d *driver) getStatus() driverStatus {
	d.statusMu.RLock()
	defer d.statusMu.RUnlock()
	return d.status
}

func (d *driver) updateStatus(mutator func(*driverStatus)) {
	d.statusMu.Lock()
	defer d.statusMu.Unlock()
	mutator(&d.status)
	d.status.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

func (d *driver) run(ctx context.Context) error {
	d.updateStatus(func(s *driverStatus) {
		s.Running = true
		s.Phase = "starting"
		s.Message = "waiting for backend"
	})
	defer d.updateStatus(func(s *driverStatus) {
		s.Running = false
		if s.Phase != "error" {
			s.Phase = "idle"
			s.Message = "service ready"
		}
	})

	if err := d.waitBackendReady(ctx); err != nil {
		d.fail(err)
		return err
	}
	d.updateStatus(func(s *driverStatus) {
		s.Phase = "playing"
		s.Message = "self-play running"
	})
	for i := 0; i < d.games; i++ {
		result, err := d.playGame(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				d.fail(err)
			}
			return err
		}
		d.record(result)
		d.logf("game %d/%d %s: %s after %d moves", i+1, d.games, result.GameID, result.Status, len(result.History))
	}
	return nil
}

func (d *driver) playGame(ctx context.Context) (statusResponse, error) {
	var started statusResponse
	payload := map[string]any{
		"settings": map[string]any{
			"mode":         "ai_vs_ai",
			"opening_rule": d.rule,
		},
	}
	if err := d.postJSON("/api/start", payload, &started); err != nil {
		return statusResponse{}, err
	}

	deadline := time.Now().Add(d.gameTimeout)
	for {
		var status statusResponse
		if err := d.getJSON("/api/status", &status); err != nil {
			return statusResponse{}, err
		}
		if status.GameID != started.GameID {
			return statusResponse{}, fmt.Errorf("game %s was replaced by %s", started.GameID, status.GameID)
		}
		if status.Status != "running" {
			return status, nil
		}
		if time.Now().After(deadline) {
			_ = d.postJSON("/api/stop", map[string]any{}, nil)
			return statusResponse{}, fmt.Errorf("game %s still running after %s", started.GameID, d.gameTimeout)
		}
		if !sleepWithContext(ctx, d.pollInterval) {
			return statusResponse{}, ctx.Err()
		}
	}
}

func (d *driver) record(result statusResponse) {
	d.updateStatus(func(s *driverStatus) {
		s.GamesPlayed++
		s.LastGameID = result.GameID
		switch result.Status {
		case "black_won":
			s.BlackWins++
		case "white_won":
			s.WhiteWins++
		case "draw":
			s.Draws++
		default:
			s.Aborted++
		}
		s.TotalMoves += len(result.History)
		s.AverageMoves = float64(s.TotalMoves) / float64(s.GamesPlayed)
	})
}

func (d *driver) fail(err error) {
	d.updateStatus(func(s *driverStatus) {
		s.Phase = "error"
		s.Message = err.Error()
	})
}

func (d *driver) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if err := d.getJSON("/api/ping", &map[string]bool{}); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("backend %s not ready after 60s", d.baseURL)
}

func (d *driver) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (d *driver) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (d *driver) logf(format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	d.logger.Printf("[%s] [selfplay] %s", ts, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// buildLogger writes to stdout, and to path as well when one is given.
func buildLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(os.Stdout, "", 0), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.MultiWriter(os.Stdout, f), "", 0)
	return logger, func() { _ = f.Close() }, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
