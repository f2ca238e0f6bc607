package main

type IPlayer interface {
	IsHuman() bool
	MakeMove(board Board, turn int) (Move, error)
}

// MoveObserver is told about every stone the game commits, so anchor based
// players can follow both their own and the opponent's latest move.
type MoveObserver interface {
	RecordOwnMove(move Move)
	RecordOpponentMove(move Move)
}
