package main

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type GameRecord struct {
	ID          string         `json:"id"`
	OpeningRule string         `json:"opening_rule"`
	BlackType   string         `json:"black_type"`
	WhiteType   string         `json:"white_type"`
	Moves       []RecordedMove `json:"moves"`
	Status      string         `json:"status"`
	Winner      int            `json:"winner"`
	WinningLine []Move         `json:"winning_line"`
	Message     string         `json:"message,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
}

type RecordedMove struct {
	Turn   int    `json:"turn"`
	Player int    `json:"player"`
	Coord  string `json:"coord"`
	Move   Move   `json:"move"`
	IsAi   bool   `json:"is_ai"`
}

func (g *Game) Record() GameRecord {
	entries := g.history.All()
	moves := make([]RecordedMove, 0, len(entries))
	for _, entry := range entries {
		moves = append(moves, RecordedMove{
			Turn:   entry.Turn,
			Player: playerToInt(entry.Player),
			Coord:  entry.Move.String(),
			Move:   entry.Move,
			IsAi:   entry.IsAi,
		})
	}
	message := ""
	if g.state.Status == StatusAborted {
		message = g.state.LastMessage
	}
	return GameRecord{
		ID:          g.id,
		OpeningRule: g.rule.Name(),
		BlackType:   g.settings.BlackType.String(),
		WhiteType:   g.settings.WhiteType.String(),
		Moves:       moves,
		Status:      statusToString(g.state.Status),
		Winner:      winnerFromStatus(g.state.Status),
		WinningLine: append([]Move(nil), g.state.WinningLine...),
		Message:     message,
		StartedAt:   g.startedAt,
		FinishedAt:  time.Now(),
	}
}

type archiveSnapshot struct {
	Records []GameRecord
}

// Archive keeps finished games in memory and mirrors them to a gob file when
// a path is configured.
type Archive struct {
	mu      sync.RWMutex
	path    string
	records map[string]GameRecord
}

func NewArchive(path string) *Archive {
	return &Archive{path: path, records: make(map[string]GameRecord)}
}

func (a *Archive) Enabled() bool {
	return a.path != ""
}

func (a *Archive) Add(record GameRecord) {
	a.mu.Lock()
	a.records[record.ID] = record
	a.mu.Unlock()
	if err := a.Save(); err != nil {
		log.Printf("[archive] persist after %s failed: %v", record.ID, err)
	}
}

func (a *Archive) Get(id string) (GameRecord, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	record, ok := a.records[id]
	return record, ok
}

// List returns the records newest first.
func (a *Archive) List() []GameRecord {
	a.mu.RLock()
	records := make([]GameRecord, 0, len(a.records))
	for _, record := range a.records {
		records = append(records, record)
	}
	a.mu.RUnlock()
	sort.Slice(records, func(i, j int) bool {
		return records[i].FinishedAt.After(records[j].FinishedAt)
	})
	return records
}

func (a *Archive) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

func (a *Archive) Load() error {
	if !a.Enabled() {
		log.Printf("[archive] restored 0 games (disabled or no path)")
		return nil
	}
	file, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[archive] restored 0 games (file not found: %s)", a.path)
			return nil
		}
		return fmt.Errorf("open archive %s: %w", a.path, err)
	}
	defer file.Close()

	var snapshot archiveSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return fmt.Errorf("decode archive %s: %w", a.path, err)
	}
	a.mu.Lock()
	for _, record := range snapshot.Records {
		a.records[record.ID] = record
	}
	a.mu.Unlock()
	log.Printf("[archive] restored %d games from %s", len(snapshot.Records), a.path)
	return nil
}

// Save replaces the archive file through a temp file and a rename.
func (a *Archive) Save() error {
	if !a.Enabled() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("ensure archive dir: %w", err)
	}
	snapshot := archiveSnapshot{Records: a.List()}
	tmp, err := os.CreateTemp(filepath.Dir(a.path), ".archive-*.gob")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	if err := gob.NewEncoder(tmp).Encode(snapshot); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, a.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace archive: %w", err)
	}
	return nil
}
