package main

import "fmt"

const BoardSize = 15

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// Board is the 15x15 grid plus the color to move. Stones are only ever added
// through PutStone, so a non-empty cell never becomes empty again.
type Board struct {
	size   int
	cells  []Cell
	toMove PlayerColor
}

func NewBoard() Board {
	b := Board{}
	b.Reset()
	return b
}

func (b *Board) Reset() {
	b.size = BoardSize
	b.cells = make([]Cell, BoardSize*BoardSize)
	b.toMove = PlayerBlack
}

func (b *Board) PutStone(move Move) error {
	if !b.InBounds(move.Row, move.Col) {
		return fmt.Errorf("%w: %s", ErrOutOfRange, move.Describe())
	}
	if b.At(move.Row, move.Col) != CellEmpty {
		return fmt.Errorf("%w: %s", ErrOccupiedCell, move)
	}
	b.cells[b.index(move.Row, move.Col)] = CellFromPlayer(b.toMove)
	b.toMove = otherPlayer(b.toMove)
	return nil
}

func (b *Board) TryPutStone(row, col int) bool {
	return b.PutStone(Move{Row: row, Col: col}) == nil
}

func (b Board) CheckWinner() (PlayerColor, bool) {
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			for _, dir := range directions {
				if checkGomoku(b, r, c, dir) {
					player, err := PlayerFromCell(b.At(r, c))
					return player, err == nil
				}
			}
		}
	}
	return PlayerBlack, false
}

// WinningLine returns the cells of the run CheckWinner reports.
func (b Board) WinningLine() ([]Move, bool) {
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			for _, dir := range directions {
				if !checkGomoku(b, r, c, dir) {
					continue
				}
				line := make([]Move, 0, winLength)
				for i := 0; i < winLength; i++ {
					line = append(line, Move{Row: r + i*dir.DRow, Col: c + i*dir.DCol})
				}
				return line, true
			}
		}
	}
	return nil, false
}

func (b Board) IsFull() bool {
	return b.CountEmpty() == 0
}

func (b Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

// Set writes a cell without touching the turn. Only used to build positions.
func (b *Board) Set(row, col int, value Cell) {
	b.cells[b.index(row, col)] = value
}

func (b Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < b.size && col < b.size
}

func (b Board) IsEmpty(row, col int) bool {
	return b.InBounds(row, col) && b.At(row, col) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) ToMove() PlayerColor {
	return b.toMove
}

func (b Board) Size() int {
	return b.size
}

func (b Board) Clone() Board {
	clone := Board{size: b.size, toMove: b.toMove}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) index(row, col int) int {
	return row*b.size + col
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}
