package main

const winLength = 5

type Direction struct {
	DRow int
	DCol int
}

// Canonical axes in tie-break order. Opposite vectors are never scanned on
// their own; runs are walked forward from their owner cell.
var directions = [4]Direction{
	{DRow: 0, DCol: 1},
	{DRow: 1, DCol: 0},
	{DRow: 1, DCol: 1},
	{DRow: 1, DCol: -1},
}

// isRunOwner reports whether (row, col) starts its run along dir: the cell
// behind it is off-board or holds something else.
func isRunOwner(board Board, row, col int, dir Direction) bool {
	prevRow := row - dir.DRow
	prevCol := col - dir.DCol
	return !board.InBounds(prevRow, prevCol) || board.At(prevRow, prevCol) != board.At(row, col)
}

func runLength(board Board, row, col int, dir Direction, cell Cell) int {
	count := 0
	for board.InBounds(row, col) && board.At(row, col) == cell {
		count++
		row += dir.DRow
		col += dir.DCol
	}
	return count
}

// checkGomoku is true when (row, col) owns a run of exactly five along dir.
// Six or more in a row is an overline and does not win.
func checkGomoku(board Board, row, col int, dir Direction) bool {
	cell := board.At(row, col)
	if cell == CellEmpty {
		return false
	}
	if !isRunOwner(board, row, col, dir) {
		return false
	}
	return runLength(board, row, col, dir, cell) == winLength
}

// FindFour looks through the anchor for a cell that would bring cell's line
// to five stones, counting stones on the far side of the gap as well.
func FindFour(board Board, anchor Move, cell Cell) (Move, bool) {
	return findLineCompletion(board, anchor, cell, 4, false)
}

// FindOpenThree looks through the anchor for a three whose both ends are
// empty and returns the end that extends it.
func FindOpenThree(board Board, anchor Move, cell Cell) (Move, bool) {
	return findLineCompletion(board, anchor, cell, 3, true)
}

func findLineCompletion(board Board, anchor Move, cell Cell, target int, needBothOpen bool) (Move, bool) {
	if !anchor.IsValid(board.Size()) {
		return Move{}, false
	}
	for _, dir := range directions {
		forward := dir
		backward := Direction{DRow: -dir.DRow, DCol: -dir.DCol}

		count := runLength(board, anchor.Row, anchor.Col, forward, cell)
		forwardEnd := Move{Row: anchor.Row + count*forward.DRow, Col: anchor.Col + count*forward.DCol}
		hasForward := forwardEnd.IsValid(board.Size())

		behind := runLength(board, anchor.Row+backward.DRow, anchor.Col+backward.DCol, backward, cell)
		count += behind
		backwardEnd := Move{Row: anchor.Row + (behind+1)*backward.DRow, Col: anchor.Col + (behind+1)*backward.DCol}
		hasBackward := backwardEnd.IsValid(board.Size())

		if count > target {
			continue
		}

		forwardOpen := board.IsEmpty(forwardEnd.Row, forwardEnd.Col)
		backwardOpen := board.IsEmpty(backwardEnd.Row, backwardEnd.Col)

		if hasForward {
			extension := runLength(board, forwardEnd.Row+forward.DRow, forwardEnd.Col+forward.DCol, forward, cell)
			if count+extension == target && forwardOpen && (!needBothOpen || backwardOpen) {
				return forwardEnd, true
			}
		}
		if hasBackward {
			extension := runLength(board, backwardEnd.Row+backward.DRow, backwardEnd.Col+backward.DCol, backward, cell)
			if count+extension == target && backwardOpen && (!needBothOpen || forwardOpen) {
				return backwardEnd, true
			}
		}
	}
	return Move{}, false
}
