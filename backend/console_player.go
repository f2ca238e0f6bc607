package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const malformedInputMessage = "Invalid input. Please enter a letter and a digit (e.g. 'a1')."

// ConsolePlayer reads moves typed on a terminal. Lines that do not parse are
// answered with a hint and read again; off-board coordinates are handed back
// to the caller as ErrOutOfRange.
type ConsolePlayer struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsolePlayer(in *bufio.Scanner, out io.Writer) *ConsolePlayer {
	return &ConsolePlayer{in: in, out: out}
}

func (p *ConsolePlayer) IsHuman() bool {
	return true
}

func (p *ConsolePlayer) MakeMove(Board, int) (Move, error) {
	for {
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return Move{}, fmt.Errorf("read move: %w", err)
			}
			return Move{}, io.ErrUnexpectedEOF
		}
		move, err := ParseMove(p.in.Text())
		if errors.Is(err, ErrMalformedInput) {
			fmt.Fprintln(p.out, malformedInputMessage)
			continue
		}
		return move, err
	}
}
