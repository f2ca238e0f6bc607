package main

import (
	"fmt"
	"io"
)

func cellGlyph(cell Cell) string {
	switch cell {
	case CellBlack:
		return "●"
	case CellWhite:
		return "○"
	default:
		return "+"
	}
}

// RenderBoard prints column letters across the top and 1-based row numbers
// down the side, the same notation ParseMove reads.
func RenderBoard(w io.Writer, board Board) {
	fmt.Fprint(w, "   ")
	for col := 0; col < board.Size(); col++ {
		fmt.Fprintf(w, "%c ", 'a'+col)
	}
	fmt.Fprintln(w)
	for row := 0; row < board.Size(); row++ {
		fmt.Fprintf(w, "%2d ", row+1)
		for col := 0; col < board.Size(); col++ {
			fmt.Fprintf(w, "%s ", cellGlyph(board.At(row, col)))
		}
		fmt.Fprintln(w)
	}
}
