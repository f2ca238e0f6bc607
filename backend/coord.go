package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var moveTextPattern = regexp.MustCompile(`^([a-z])([1-9][0-9]?)$`)

// ParseMove decodes board notation such as "h8" into a Move. Text that is not
// a letter followed by a number without leading zeros yields
// ErrMalformedInput; a well-formed coordinate off the grid yields
// ErrOutOfRange.
func ParseMove(text string) (Move, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	match := moveTextPattern.FindStringSubmatch(normalized)
	if match == nil {
		return Move{}, fmt.Errorf("%w: %q", ErrMalformedInput, text)
	}
	number, err := strconv.Atoi(match[2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrMalformedInput, text)
	}
	move := Move{Row: number - 1, Col: int(match[1][0] - 'a')}
	if !move.IsValid(BoardSize) {
		return move, fmt.Errorf("%w: %q", ErrOutOfRange, text)
	}
	return move, nil
}
