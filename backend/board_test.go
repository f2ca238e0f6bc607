package main

import (
	"errors"
	"testing"
)

func boardWith(black, white []Move) Board {
	board := NewBoard()
	for _, move := range black {
		board.Set(move.Row, move.Col, CellBlack)
	}
	for _, move := range white {
		board.Set(move.Row, move.Col, CellWhite)
	}
	return board
}

func line(row, col int, dir Direction, length int) []Move {
	moves := make([]Move, 0, length)
	for i := 0; i < length; i++ {
		moves = append(moves, Move{Row: row + i*dir.DRow, Col: col + i*dir.DCol})
	}
	return moves
}

func TestCheckWinnerExactFiveInEveryDirection(t *testing.T) {
	tests := []struct {
		name  string
		black []Move
		white []Move
		want  PlayerColor
	}{
		{name: "horizontal at the edge", black: line(0, 0, directions[0], 5), want: PlayerBlack},
		{name: "vertical white", white: line(10, 14, directions[1], 5), want: PlayerWhite},
		{name: "diagonal down right", black: line(3, 3, directions[2], 5), want: PlayerBlack},
		{name: "diagonal down left", black: line(0, 4, directions[3], 5), want: PlayerBlack},
		{
			name:  "five bounded by opponent stones",
			black: line(7, 3, directions[0], 5),
			white: []Move{{Row: 7, Col: 2}, {Row: 7, Col: 8}},
			want:  PlayerBlack,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := boardWith(tt.black, tt.white)
			winner, ok := board.CheckWinner()
			if !ok {
				t.Fatalf("expected a winner")
			}
			if winner != tt.want {
				t.Fatalf("expected %s to win, got %s", tt.want, winner)
			}
		})
	}
}

func TestCheckWinnerIgnoresOverline(t *testing.T) {
	for _, length := range []int{6, 7, 15} {
		board := boardWith(line(3, 0, directions[0], length), nil)
		if winner, ok := board.CheckWinner(); ok {
			t.Fatalf("run of %d should not win, got %s", length, winner)
		}
	}
	board := boardWith(line(0, 0, directions[2], 6), nil)
	if _, ok := board.CheckWinner(); ok {
		t.Fatalf("diagonal overline should not win")
	}
}

func TestCheckWinnerFourIsNotEnough(t *testing.T) {
	board := boardWith(line(5, 5, directions[1], 4), nil)
	if _, ok := board.CheckWinner(); ok {
		t.Fatalf("four in a row should not win")
	}
}

func TestSingleFiveHasSingleOwner(t *testing.T) {
	board := boardWith(line(2, 6, directions[3], 5), []Move{{Row: 0, Col: 0}, {Row: 14, Col: 14}})
	owners := 0
	for r := 0; r < board.Size(); r++ {
		for c := 0; c < board.Size(); c++ {
			for _, dir := range directions {
				if checkGomoku(board, r, c, dir) {
					owners++
				}
			}
		}
	}
	if owners != 1 {
		t.Fatalf("expected exactly one run owner, got %d", owners)
	}
}

func TestWinningLineMatchesRun(t *testing.T) {
	run := line(4, 9, directions[1], 5)
	board := boardWith(nil, run)
	got, ok := board.WinningLine()
	if !ok {
		t.Fatalf("expected a winning line")
	}
	if len(got) != len(run) {
		t.Fatalf("expected %d cells, got %d", len(run), len(got))
	}
	for i := range run {
		if got[i] != run[i] {
			t.Fatalf("cell %d: expected %v, got %v", i, run[i], got[i])
		}
	}
}

func TestPutStoneAlternatesAndRejects(t *testing.T) {
	board := NewBoard()
	if board.ToMove() != PlayerBlack {
		t.Fatalf("black should move first")
	}
	if err := board.PutStone(Move{Row: 7, Col: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.At(7, 7) != CellBlack || board.ToMove() != PlayerWhite {
		t.Fatalf("expected black stone and white to move")
	}
	if err := board.PutStone(Move{Row: 7, Col: 7}); !errors.Is(err, ErrOccupiedCell) {
		t.Fatalf("expected ErrOccupiedCell, got %v", err)
	}
	if board.ToMove() != PlayerWhite {
		t.Fatalf("rejected move must not flip the turn")
	}
	if err := board.PutStone(Move{Row: 15, Col: 0}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if board.TryPutStone(-1, 3) {
		t.Fatalf("negative row must be rejected")
	}
	if !board.TryPutStone(7, 8) {
		t.Fatalf("expected white move to apply")
	}
	if board.At(7, 8) != CellWhite || board.ToMove() != PlayerBlack {
		t.Fatalf("expected white stone and black to move")
	}
}

func TestOpeningScenarioHasNoWinner(t *testing.T) {
	board := NewBoard()
	board.TryPutStone(7, 7)
	board.TryPutStone(7, 8)
	if _, ok := board.CheckWinner(); ok {
		t.Fatalf("expected no winner")
	}
	if board.IsFull() {
		t.Fatalf("board should not be full")
	}
}

func TestBlackFiveWinsWithWhiteToMove(t *testing.T) {
	board := NewBoard()
	for col := 0; col < 5; col++ {
		if !board.TryPutStone(0, col) {
			t.Fatalf("black move %d rejected", col)
		}
		if col < 4 && !board.TryPutStone(5, col) {
			t.Fatalf("white move %d rejected", col)
		}
	}
	if board.ToMove() != PlayerWhite {
		t.Fatalf("expected white to move")
	}
	winner, ok := board.CheckWinner()
	if !ok || winner != PlayerBlack {
		t.Fatalf("expected black to win, got %v %v", winner, ok)
	}
}

func TestIsFull(t *testing.T) {
	board := NewBoard()
	for r := 0; r < board.Size(); r++ {
		for c := 0; c < board.Size(); c++ {
			board.Set(r, c, CellWhite)
		}
	}
	if !board.IsFull() {
		t.Fatalf("expected full board")
	}
	board = NewBoard()
	for r := 0; r < board.Size(); r++ {
		for c := 0; c < board.Size(); c++ {
			if r != 14 || c != 14 {
				board.Set(r, c, CellBlack)
			}
		}
	}
	if board.IsFull() {
		t.Fatalf("one empty cell left, board is not full")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	board := NewBoard()
	board.TryPutStone(3, 3)
	clone := board.Clone()
	board.TryPutStone(4, 4)
	if clone.At(4, 4) != CellEmpty {
		t.Fatalf("clone must not see later stones")
	}
	if clone.ToMove() != PlayerWhite {
		t.Fatalf("clone should keep the turn it was taken on")
	}
}
