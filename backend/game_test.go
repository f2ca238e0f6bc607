package main

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func newTestGame(black, white PlayerType, rule string) Game {
	game := NewGame(GameSettings{BlackType: black, WhiteType: white, OpeningRule: rule})
	game.SetLogOutput(io.Discard)
	game.Start()
	return game
}

func mustApply(t *testing.T, game *Game, moves ...Move) {
	t.Helper()
	for _, move := range moves {
		if err := game.ApplyMove(move); err != nil {
			t.Fatalf("ApplyMove(%v): %v", move, err)
		}
	}
}

type exhaustedPlayer struct{}

func (exhaustedPlayer) IsHuman() bool { return false }

func (exhaustedPlayer) MakeMove(Board, int) (Move, error) {
	return Move{}, fmt.Errorf("%w: test", ErrExhaustedRandomPool)
}

func TestApplyMoveBeforeStart(t *testing.T) {
	game := NewGame(GameSettings{BlackType: PlayerHuman, WhiteType: PlayerHuman})
	game.SetLogOutput(io.Discard)
	if err := game.ApplyMove(Move{Row: 7, Col: 7}); !errors.Is(err, ErrGameNotRunning) {
		t.Fatalf("expected ErrGameNotRunning, got %v", err)
	}
}

func TestRuleRejectionKeepsTurn(t *testing.T) {
	game := newTestGame(PlayerHuman, PlayerHuman, RulePro)
	if err := game.ApplyMove(Move{Row: 0, Col: 0}); !errors.Is(err, ErrOpeningRuleViolation) {
		t.Fatalf("expected ErrOpeningRuleViolation, got %v", err)
	}
	state := game.State()
	if state.Turn != 1 || state.ToMove() != PlayerBlack {
		t.Fatalf("rejected move advanced the game: turn %d, %s to move", state.Turn, state.ToMove())
	}
	if state.Board.At(0, 0) != CellEmpty {
		t.Fatalf("rejected move left a stone")
	}
	if state.LastMessage != "Pro opening rule does not allow the position now." {
		t.Fatalf("unexpected message %q", state.LastMessage)
	}

	mustApply(t, &game, Move{Row: 7, Col: 7}, Move{Row: 0, Col: 0})
	if err := game.ApplyMove(Move{Row: 6, Col: 6}); !errors.Is(err, ErrOpeningRuleViolation) {
		t.Fatalf("expected turn 3 rejection, got %v", err)
	}
	if game.State().Turn != 3 {
		t.Fatalf("expected turn to stay at 3, got %d", game.State().Turn)
	}
	mustApply(t, &game, Move{Row: 0, Col: 1})
	if game.State().Turn != 4 || game.History().Size() != 3 {
		t.Fatalf("expected three committed moves")
	}
}

func TestOccupiedAndOutOfRangeRejected(t *testing.T) {
	game := newTestGame(PlayerHuman, PlayerHuman, RuleStandard)
	mustApply(t, &game, Move{Row: 7, Col: 7})
	if err := game.ApplyMove(Move{Row: 7, Col: 7}); !errors.Is(err, ErrOccupiedCell) {
		t.Fatalf("expected ErrOccupiedCell, got %v", err)
	}
	if err := game.ApplyMove(Move{Row: 3, Col: 15}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	state := game.State()
	if state.Turn != 2 || state.ToMove() != PlayerWhite {
		t.Fatalf("rejections changed the turn")
	}
	if state.LastMessage != "Invalid position. Please enter a position within the board." {
		t.Fatalf("unexpected message %q", state.LastMessage)
	}
}

func TestGameDetectsWinner(t *testing.T) {
	game := newTestGame(PlayerHuman, PlayerHuman, RuleStandard)
	var finished []GameRecord
	game.OnFinish(func(record GameRecord) {
		finished = append(finished, record)
	})
	for col := 0; col < 4; col++ {
		mustApply(t, &game, Move{Row: 0, Col: col}, Move{Row: 5, Col: col})
	}
	mustApply(t, &game, Move{Row: 0, Col: 4})

	state := game.State()
	if state.Status != StatusBlackWon {
		t.Fatalf("expected black to win, got %s", statusToString(state.Status))
	}
	if len(state.WinningLine) != 5 || state.WinningLine[0] != (Move{Row: 0, Col: 0}) {
		t.Fatalf("unexpected winning line %v", state.WinningLine)
	}
	if err := game.ApplyMove(Move{Row: 9, Col: 9}); !errors.Is(err, ErrGameNotRunning) {
		t.Fatalf("expected ErrGameNotRunning after the win, got %v", err)
	}
	if len(finished) != 1 {
		t.Fatalf("expected one finish callback, got %d", len(finished))
	}
	record := finished[0]
	if record.Status != "black_won" || record.Winner != 1 || len(record.Moves) != 9 {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.Moves[0].Coord != "a1" {
		t.Fatalf("expected first move a1, got %s", record.Moves[0].Coord)
	}
}

func TestOverlineDoesNotEndGame(t *testing.T) {
	game := newTestGame(PlayerHuman, PlayerHuman, RuleStandard)
	for _, col := range []int{0, 1, 2, 4, 5} {
		mustApply(t, &game, Move{Row: 0, Col: col}, Move{Row: 9, Col: col})
	}
	mustApply(t, &game, Move{Row: 0, Col: 3})
	if game.State().Status != StatusRunning {
		t.Fatalf("six in a row must not win, got %s", statusToString(game.State().Status))
	}
}

func TestAIGameTerminates(t *testing.T) {
	game := newTestGame(PlayerAI, PlayerAI, RuleStandard)
	for i := 0; i < 5000 && !game.State().Finished(); i++ {
		if _, err := game.Tick(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	state := game.State()
	switch state.Status {
	case StatusBlackWon, StatusWhiteWon, StatusDraw:
	default:
		t.Fatalf("AI game did not finish, status %s after %d moves", statusToString(state.Status), game.History().Size())
	}
}

func TestAIAnchorsFollowCommittedMoves(t *testing.T) {
	game := newTestGame(PlayerAI, PlayerHuman, RuleStandard)
	ai, ok := game.CurrentPlayer().(*AIPlayer)
	if !ok {
		t.Fatalf("expected black to be an AI")
	}
	if applied, err := game.Tick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if !applied {
		t.Fatalf("expected the AI to move on an empty board")
	}
	first := game.History().All()[0].Move
	if own, ok := ai.LastOwnMove(); !ok || own != first {
		t.Fatalf("own anchor %v, expected %v", own, first)
	}

	if applied, _ := game.Tick(); applied {
		t.Fatalf("human without a pending move must not play")
	}
	reply := Move{Row: 0, Col: 0}
	if first == reply {
		reply = Move{Row: 14, Col: 14}
	}
	if !game.SubmitHumanMove(reply) {
		t.Fatalf("expected the human to accept a pending move")
	}
	if applied, err := game.Tick(); err != nil || !applied {
		t.Fatalf("expected the pending move to apply: %v", err)
	}
	if opp, ok := ai.LastOpponentMove(); !ok || opp != reply {
		t.Fatalf("opponent anchor %v, expected %v", opp, reply)
	}
}

func TestExhaustedPoolAbortsGame(t *testing.T) {
	game := newTestGame(PlayerAI, PlayerHuman, RuleStandard)
	game.SetPlayers(exhaustedPlayer{}, NewHumanPlayer())
	var finished []GameRecord
	game.OnFinish(func(record GameRecord) {
		finished = append(finished, record)
	})
	applied, err := game.Tick()
	if applied || !errors.Is(err, ErrExhaustedRandomPool) {
		t.Fatalf("expected ErrExhaustedRandomPool, got %v %v", applied, err)
	}
	if game.State().Status != StatusAborted {
		t.Fatalf("expected aborted game, got %s", statusToString(game.State().Status))
	}
	if len(finished) != 1 || finished[0].Status != "aborted" || finished[0].Message == "" {
		t.Fatalf("unexpected finish records %+v", finished)
	}
}

func TestHintBlocksOpenThree(t *testing.T) {
	game := newTestGame(PlayerHuman, PlayerHuman, RuleStandard)
	mustApply(t, &game,
		Move{Row: 7, Col: 5}, Move{Row: 0, Col: 0},
		Move{Row: 7, Col: 6}, Move{Row: 0, Col: 2},
		Move{Row: 7, Col: 7},
	)
	move, reason, ok := game.Hint()
	if !ok {
		t.Fatalf("expected a hint")
	}
	if move != (Move{Row: 7, Col: 8}) || reason != reasonBlockThree {
		t.Fatalf("expected (7,8) block_three, got %v %s", move, reason)
	}
}

func TestHintRespectsOpeningRule(t *testing.T) {
	game := newTestGame(PlayerHuman, PlayerHuman, RulePro)
	move, reason, ok := game.Hint()
	if !ok || move != centerMove || reason != reasonOpening {
		t.Fatalf("expected the Pro opening hint, got %v %s %v", move, reason, ok)
	}
}
