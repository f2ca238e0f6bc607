package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"
)

// AIPlayer picks moves from the shapes running through the latest stone of
// each color. It does not search the rest of the board: a second threat that
// does not touch either anchor goes unnoticed.
type AIPlayer struct {
	color           PlayerColor
	rule            OpeningRule
	ownMove         Move
	hasOwnMove      bool
	opponentMove    Move
	hasOpponentMove bool
	proposed        map[Move]struct{}
	turnProposals   map[Move]struct{}
	rng             *rand.Rand
}

type moveReason string

const (
	reasonOpening    moveReason = "opening"
	reasonWin        moveReason = "complete_five"
	reasonBlockFour  moveReason = "block_four"
	reasonOpenThree  moveReason = "extend_three"
	reasonBlockThree moveReason = "block_three"
	reasonRandom     moveReason = "random"
)

func NewAIPlayer(color PlayerColor, rule OpeningRule, rng *rand.Rand) *AIPlayer {
	if rng == nil {
		rng = newAIRand(color)
	}
	return &AIPlayer{
		color:    color,
		rule:     rule,
		proposed:      make(map[Move]struct{}),
		turnProposals: make(map[Move]struct{}),
		rng:           rng,
	}
}

func newAIRand(color PlayerColor) *rand.Rand {
	seed := GetConfig().AiSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed + int64(color)))
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) MakeMove(board Board, turn int) (Move, error) {
	move, reason, ok := a.tacticalMove(board, turn)
	if !ok {
		var err error
		move, err = a.randomMove()
		if err != nil {
			return Move{}, err
		}
		reason = reasonRandom
	}
	a.proposed[move] = struct{}{}
	a.turnProposals[move] = struct{}{}
	if GetConfig().AiLogMoves {
		log.Printf("[ai] %s turn %d plays %s (%s)", a.color, turn, move.Describe(), reason)
	}
	return move, nil
}

// Suggest runs the same priority chain as MakeMove without the random
// fallback and without marking anything as proposed.
func (a *AIPlayer) Suggest(board Board, turn int) (Move, moveReason, bool) {
	return a.tacticalMove(board, turn)
}

// A committed stone from either side starts a new turn, so the cells turned
// down during the last one become eligible tactical answers again.
func (a *AIPlayer) RecordOwnMove(move Move) {
	a.ownMove = move
	a.hasOwnMove = true
	a.proposed[move] = struct{}{}
	clear(a.turnProposals)
}

func (a *AIPlayer) RecordOpponentMove(move Move) {
	a.opponentMove = move
	a.hasOpponentMove = true
	clear(a.turnProposals)
}

func (a *AIPlayer) LastOwnMove() (Move, bool) {
	return a.ownMove, a.hasOwnMove
}

func (a *AIPlayer) LastOpponentMove() (Move, bool) {
	return a.opponentMove, a.hasOpponentMove
}

func (a *AIPlayer) ProposedCount() int {
	return len(a.proposed)
}

func (a *AIPlayer) tacticalMove(board Board, turn int) (Move, moveReason, bool) {
	if a.rule.IsPro() && turn == 1 {
		return centerMove, reasonOpening, true
	}
	if !a.hasOwnMove {
		return Move{}, "", false
	}
	own := CellFromPlayer(a.color)
	opponent := CellFromPlayer(otherPlayer(a.color))
	checks := []struct {
		find   func(Board, Move, Cell) (Move, bool)
		anchor Move
		has    bool
		cell   Cell
		reason moveReason
	}{
		{FindFour, a.ownMove, true, own, reasonWin},
		{FindFour, a.opponentMove, a.hasOpponentMove, opponent, reasonBlockFour},
		{FindOpenThree, a.ownMove, true, own, reasonOpenThree},
		{FindOpenThree, a.opponentMove, a.hasOpponentMove, opponent, reasonBlockThree},
	}
	for _, check := range checks {
		if !check.has {
			continue
		}
		move, ok := check.find(board, check.anchor, check.cell)
		if !ok {
			continue
		}
		// A cell the game turned down this turn is not offered again.
		if _, seen := a.turnProposals[move]; seen {
			continue
		}
		return move, check.reason, true
	}
	return Move{}, "", false
}

// randomMove draws uniformly from the cells this player has never proposed.
// Occupancy is not consulted; the board rejects occupied cells and the game
// asks again.
func (a *AIPlayer) randomMove() (Move, error) {
	free := make([]Move, 0, BoardSize*BoardSize-len(a.proposed))
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			move := Move{Row: row, Col: col}
			if _, seen := a.proposed[move]; !seen {
				free = append(free, move)
			}
		}
	}
	if len(free) == 0 {
		return Move{}, fmt.Errorf("%w: %s AI proposed all %d cells", ErrExhaustedRandomPool, a.color, BoardSize*BoardSize)
	}
	return free[a.rng.Intn(len(free))], nil
}
