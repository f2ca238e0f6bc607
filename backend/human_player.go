package main

import "errors"

var errNoPendingMove = errors.New("no pending human move")

// HumanPlayer holds a move submitted over the API until the game ticks.
type HumanPlayer struct {
	pending     bool
	pendingMove Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) MakeMove(Board, int) (Move, error) {
	if !h.pending {
		return Move{}, errNoPendingMove
	}
	return h.TakePendingMove(), nil
}

func (h *HumanPlayer) SetPendingMove(move Move) {
	h.pendingMove = move
	h.pending = true
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() Move {
	h.pending = false
	return h.pendingMove
}
