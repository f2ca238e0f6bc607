package main

import "errors"

var (
	// ErrOccupiedCell is returned when a stone is put on a non-empty cell.
	ErrOccupiedCell = errors.New("the position is already occupied")
	// ErrOutOfRange is returned for coordinates off the 15x15 grid.
	ErrOutOfRange = errors.New("position is out of the board")
	// ErrOpeningRuleViolation is returned when the opening rule forbids a cell on this turn.
	ErrOpeningRuleViolation = errors.New("opening rule does not allow the position now")
	// ErrMalformedInput is returned when move text is not a column letter followed by a row number.
	ErrMalformedInput = errors.New("malformed move text")
	// ErrExhaustedRandomPool is returned when an AI has proposed every cell already.
	ErrExhaustedRandomPool = errors.New("no unproposed cell left")
	// ErrGameNotRunning is returned when a move arrives outside a running game.
	ErrGameNotRunning = errors.New("game not running")
	// ErrNotHumanTurn is returned when a human move arrives on an AI turn.
	ErrNotHumanTurn = errors.New("not human turn")
)
