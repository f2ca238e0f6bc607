package main

import "fmt"

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var centerMove = Move{Row: BoardSize / 2, Col: BoardSize / 2}

func (m Move) IsValid(boardSize int) bool {
	return m.Row >= 0 && m.Col >= 0 && m.Row < boardSize && m.Col < boardSize
}

func (m Move) Equals(other Move) bool {
	return m.Row == other.Row && m.Col == other.Col
}

// String renders the move in board notation, column letter then 1-based row.
func (m Move) String() string {
	return string(rune('a'+m.Col)) + fmt.Sprint(m.Row+1)
}

// Describe is String for on-board moves and raw coordinates otherwise.
func (m Move) Describe() string {
	if m.IsValid(BoardSize) {
		return m.String()
	}
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
