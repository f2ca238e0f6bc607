package main

import "sync"

type GameController struct {
	mu         sync.Mutex
	game       Game
	archive    *Archive
	onAborted  func(error)
	onFinished func(GameRecord)
	finished   []GameRecord
}

func NewGameController(settings GameSettings, archive *Archive) *GameController {
	gc := &GameController{game: NewGame(settings), archive: archive}
	gc.wireGame()
	return gc
}

func (gc *GameController) OnAborted(fn func(error)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.onAborted = fn
}

// OnFinished is called for every finished game after the controller lock
// is released, once the record is in the archive.
func (gc *GameController) OnFinished(fn func(GameRecord)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.onFinished = fn
}

func (gc *GameController) ApplyHumanMove(move Move) (bool, string) {
	gc.mu.Lock()
	applied, msg := gc.applyHumanMove(move)
	finished, onFinished := gc.takeFinished()
	gc.mu.Unlock()
	gc.recordFinished(finished, onFinished)
	return applied, msg
}

func (gc *GameController) applyHumanMove(move Move) (bool, string) {
	if gc.game.State().Status != StatusRunning {
		return false, ErrGameNotRunning.Error()
	}
	if !gc.game.CurrentPlayerIsHuman() {
		return false, ErrNotHumanTurn.Error()
	}
	if err := gc.game.ApplyMove(move); err != nil {
		return false, moveErrorMessage(err, gc.game.Rule())
	}
	return true, ""
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	applied, err := gc.game.Tick()
	onAborted := gc.onAborted
	finished, onFinished := gc.takeFinished()
	gc.mu.Unlock()
	gc.recordFinished(finished, onFinished)
	if err != nil && onAborted != nil {
		onAborted(err)
	}
	return applied
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *GameController) GameID() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.ID()
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	history := gc.game.History()
	if history.Size() == 0 {
		return HistoryEntry{}, false
	}
	entries := history.All()
	return entries[len(entries)-1], true
}

func (gc *GameController) Hint() (Move, moveReason, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Hint()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

// UpdateSettings swaps player types mid-game only when reset is set; a new
// opening rule always needs a fresh game because the AIs carry it.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	current := gc.game.Settings()
	if reset || NewOpeningRule(update.OpeningRule).Name() != current.OpeningRule {
		gc.game.Reset(update)
		return
	}
	gc.game.ChangePlayers(update.BlackType, update.WhiteType)
}

// wireGame queues finished games; the archive write happens after unlock.
func (gc *GameController) wireGame() {
	gc.game.OnFinish(func(record GameRecord) {
		gc.finished = append(gc.finished, record)
	})
}

func (gc *GameController) takeFinished() ([]GameRecord, func(GameRecord)) {
	finished := gc.finished
	gc.finished = nil
	return finished, gc.onFinished
}

func (gc *GameController) recordFinished(records []GameRecord, onFinished func(GameRecord)) {
	for _, record := range records {
		if gc.archive != nil {
			gc.archive.Add(record)
		}
		if onFinished != nil {
			onFinished(record)
		}
	}
}
