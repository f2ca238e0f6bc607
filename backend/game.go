package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

// Game sequences turns: it asks the side to move for a stone, checks it
// against the board and the opening rule, commits it, tells every observing
// player, and decides whether the game is over.
type Game struct {
	id          string
	settings    GameSettings
	rule        OpeningRule
	state       GameState
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	hintPlayers map[PlayerColor]*AIPlayer
	startedAt   time.Time
	turnStart   time.Time
	logger      *log.Logger
	onFinish    func(GameRecord)
}

func NewGame(settings GameSettings) Game {
	g := Game{logger: log.Default()}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	if g.logger == nil {
		g.logger = log.Default()
	}
	g.id = uuid.NewString()
	g.settings = settings
	g.rule = NewOpeningRule(settings.OpeningRule)
	g.settings.OpeningRule = g.rule.Name()
	g.state.Reset()
	g.history.Clear()
	g.createPlayers()
	g.startedAt = time.Time{}
	g.turnStart = time.Now()
	g.logMatchup()
}

// SetPlayers replaces the players built from settings, e.g. with console readers.
func (g *Game) SetPlayers(black, white IPlayer) {
	g.blackPlayer = black
	g.whitePlayer = white
}

func (g *Game) SetLogOutput(w io.Writer) {
	g.logger = log.New(w, "", log.LstdFlags)
}

func (g *Game) OnFinish(fn func(GameRecord)) {
	g.onFinish = fn
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.startedAt = time.Now()
		g.turnStart = g.startedAt
	}
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Rule() OpeningRule {
	return g.rule
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// ApplyMove validates and commits a stone for the side to move. A rejected
// move leaves the turn counter and the board untouched.
func (g *Game) ApplyMove(move Move) error {
	if g.state.Status != StatusRunning {
		return ErrGameNotRunning
	}
	if !move.IsValid(BoardSize) {
		return g.reject(fmt.Errorf("%w: %s", ErrOutOfRange, move.Describe()))
	}
	if err := g.rule.Check(move, g.state.Turn); err != nil {
		return g.reject(err)
	}
	mover := g.state.Board.ToMove()
	if err := g.state.Board.PutStone(move); err != nil {
		return g.reject(err)
	}

	player := g.playerForColor(mover)
	isAiMove := player != nil && !player.IsHuman()
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	g.history.Push(HistoryEntry{Move: move, Player: mover, Turn: g.state.Turn, ElapsedMs: elapsedMs, IsAi: isAiMove})
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.LastMessage = ""
	g.notifyObservers(mover, move)
	g.logMovePlayed(mover, move, elapsedMs, isAiMove)
	g.state.Turn++

	if winner, ok := g.state.Board.CheckWinner(); ok {
		g.state.Status = statusForWinner(winner)
		g.state.WinningLine, _ = g.state.Board.WinningLine()
		g.logResult()
		g.finish()
		return nil
	}
	if g.state.Board.IsFull() {
		g.state.Status = StatusDraw
		g.logResult()
		g.finish()
		return nil
	}
	g.turnStart = time.Now()
	return nil
}

// Tick gives the side to move one chance to play. It reports whether a stone
// was committed. The only error it returns is fatal for the game.
func (g *Game) Tick() (bool, error) {
	if g.state.Status != StatusRunning {
		return false, nil
	}
	player := g.currentPlayer()
	if player == nil {
		return false, nil
	}
	if human, ok := player.(*HumanPlayer); ok && !human.HasPendingMove() {
		return false, nil
	}
	if !player.IsHuman() {
		delay := time.Duration(GetConfig().AiMoveDelayMs) * time.Millisecond
		if delay > 0 && time.Since(g.turnStart) < delay {
			return false, nil
		}
	}
	move, err := player.MakeMove(g.state.Board.Clone(), g.state.Turn)
	if err != nil {
		if errors.Is(err, ErrExhaustedRandomPool) {
			g.Abort(err)
			return false, err
		}
		g.state.LastMessage = err.Error()
		return false, nil
	}
	if err := g.ApplyMove(move); err != nil {
		return false, nil
	}
	return true, nil
}

// Abort ends a running game without a result.
func (g *Game) Abort(reason error) {
	if g.state.Status != StatusRunning {
		return
	}
	g.state.Status = StatusAborted
	g.state.LastMessage = reason.Error()
	g.logger.Printf("[game] %s aborted on turn %d: %v", g.id, g.state.Turn, reason)
	g.finish()
}

func (g *Game) SubmitHumanMove(move Move) bool {
	human, ok := g.currentPlayer().(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) CurrentPlayer() IPlayer {
	return g.currentPlayer()
}

// Hint is the AI's pick for a human side to move, if it sees a tactical cell.
func (g *Game) Hint() (Move, moveReason, bool) {
	if g.state.Status != StatusRunning || !g.CurrentPlayerIsHuman() {
		return Move{}, "", false
	}
	shadow, ok := g.hintPlayers[g.state.Board.ToMove()]
	if !ok {
		return Move{}, "", false
	}
	move, reason, ok := shadow.Suggest(g.state.Board.Clone(), g.state.Turn)
	if !ok || !g.rule.Possible(move, g.state.Turn) {
		return Move{}, "", false
	}
	return move, reason, true
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.Board.ToMove())
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	g.hintPlayers = make(map[PlayerColor]*AIPlayer)
	g.blackPlayer = g.newPlayer(PlayerBlack, g.settings.TypeFor(PlayerBlack))
	g.whitePlayer = g.newPlayer(PlayerWhite, g.settings.TypeFor(PlayerWhite))
}

// ChangePlayers switches player types in the middle of a game. A color whose
// type stays the same keeps its player, proposed cells included; a new player
// is caught up on the stones already played.
func (g *Game) ChangePlayers(black, white PlayerType) {
	previous := g.settings
	g.settings.BlackType = black
	g.settings.WhiteType = white
	for _, color := range []PlayerColor{PlayerBlack, PlayerWhite} {
		kind := g.settings.TypeFor(color)
		if kind == previous.TypeFor(color) {
			continue
		}
		delete(g.hintPlayers, color)
		player := g.newPlayer(color, kind)
		if color == PlayerBlack {
			g.blackPlayer = player
		} else {
			g.whitePlayer = player
		}
		g.replayFor(color)
	}
	g.logMatchup()
}

func (g *Game) newPlayer(color PlayerColor, kind PlayerType) IPlayer {
	if kind == PlayerAI {
		return NewAIPlayer(color, g.rule, nil)
	}
	g.hintPlayers[color] = NewAIPlayer(color, g.rule, nil)
	return NewHumanPlayer()
}

// observerFor is the AI tracking color's anchors: the player itself or the
// hint shadow of a human.
func (g *Game) observerFor(color PlayerColor) (MoveObserver, bool) {
	if observer, ok := g.playerForColor(color).(MoveObserver); ok {
		return observer, true
	}
	if shadow, ok := g.hintPlayers[color]; ok {
		return shadow, true
	}
	return nil, false
}

func (g *Game) notifyObservers(mover PlayerColor, move Move) {
	for _, color := range []PlayerColor{PlayerBlack, PlayerWhite} {
		observer, ok := g.observerFor(color)
		if !ok {
			continue
		}
		if color == mover {
			observer.RecordOwnMove(move)
		} else {
			observer.RecordOpponentMove(move)
		}
	}
}

func (g *Game) replayFor(color PlayerColor) {
	observer, ok := g.observerFor(color)
	if !ok {
		return
	}
	for _, entry := range g.history.All() {
		if entry.Player == color {
			observer.RecordOwnMove(entry.Move)
		} else {
			observer.RecordOpponentMove(entry.Move)
		}
	}
}

func (g *Game) finish() {
	if g.onFinish == nil {
		return
	}
	g.onFinish(g.Record())
}

func (g *Game) logMatchup() {
	g.logger.Printf("[game] %s: Black (%s) vs White (%s), %s opening rule",
		g.id, g.settings.BlackType, g.settings.WhiteType, g.rule.Name())
}

func (g *Game) logMovePlayed(player PlayerColor, move Move, elapsedMs float64, isAiMove bool) {
	kind := "human"
	if isAiMove {
		kind = "ai"
	}
	g.logger.Printf("[game] turn %3d %-5s %-5s %-3s %6.0fms", g.state.Turn, player, kind, move, elapsedMs)
}

func (g *Game) logResult() {
	g.logger.Printf("[game] %s finished after %d moves: %s", g.id, g.history.Size(), statusToString(g.state.Status))
}

// reject records why a move was refused so status payloads can show it.
func (g *Game) reject(err error) error {
	g.state.LastMessage = moveErrorMessage(err, g.rule)
	return err
}

// moveErrorMessage turns a rejected move into the prompt a player sees.
func moveErrorMessage(err error, rule OpeningRule) string {
	switch {
	case errors.Is(err, ErrOutOfRange):
		return "Invalid position. Please enter a position within the board."
	case errors.Is(err, ErrOpeningRuleViolation):
		return rule.Message()
	case errors.Is(err, ErrOccupiedCell):
		return "The position is already occupied. Please choose another position."
	case errors.Is(err, ErrMalformedInput):
		return malformedInputMessage
	default:
		return err.Error()
	}
}
