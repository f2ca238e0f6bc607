package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

type consoleOptions struct {
	Color     string
	Rule      string
	RuleSet   bool
	Players   string
	TurnDelay time.Duration
}

const (
	consoleHumanVsHuman = "1"
	consoleHumanVsBot   = "2"
	consoleBotVsBot     = "3"
)

// runConsole plays one game on a terminal. Answers missing from opts are
// asked for on in.
func runConsole(ctx context.Context, in io.Reader, out io.Writer, opts consoleOptions) error {
	scanner := bufio.NewScanner(in)

	userColor := opts.Color
	for userColor != "1" && userColor != "2" {
		answer, err := ask(scanner, out, "Choose your color [1(Black)/2(White)]: ")
		if err != nil {
			return err
		}
		userColor = answer
	}
	ruleName := opts.Rule
	if !opts.RuleSet {
		answer, err := ask(scanner, out, "If you want, write an opening rule where you want to gomoku: ")
		if err != nil {
			return err
		}
		ruleName = answer
	}
	mode := opts.Players
	for mode != consoleHumanVsHuman && mode != consoleHumanVsBot && mode != consoleBotVsBot {
		answer, err := ask(scanner, out, "Choose Mode [1(1 vs 1), 2(1 vs Bot), 3(Bot vs Bot)]: ")
		if err != nil {
			return err
		}
		mode = answer
	}

	userIsBlack := userColor == "1"
	settings := consoleSettings(mode, userIsBlack, ruleName)
	game := NewGame(settings)
	game.SetLogOutput(io.Discard)
	game.SetPlayers(
		consolePlayerFor(PlayerBlack, settings.BlackType, game.Rule(), scanner, out),
		consolePlayerFor(PlayerWhite, settings.WhiteType, game.Rule(), scanner, out),
	)
	fmt.Fprintln(out, "Opening rule:", game.Rule().Name())
	game.Start()

	for {
		state := game.State()
		if state.Finished() {
			break
		}
		if err := sleepContext(ctx, opts.TurnDelay); err != nil {
			return err
		}
		fmt.Fprintln(out, "Turn", state.Turn)
		RenderBoard(out, state.Board)
		if state.ToMove() == PlayerBlack {
			fmt.Fprint(out, "Black's turn (e.g. 'a1'): ")
		} else {
			fmt.Fprint(out, "White's turn (e.g. 'b3'): ")
		}

		player := game.CurrentPlayer()
		move, err := player.MakeMove(state.Board, state.Turn)
		if err != nil {
			if errors.Is(err, ErrOutOfRange) {
				fmt.Fprintln(out, moveErrorMessage(err, game.Rule()))
				continue
			}
			if errors.Is(err, ErrExhaustedRandomPool) {
				game.Abort(err)
			}
			return err
		}
		if !player.IsHuman() {
			fmt.Fprintln(out, move)
		}
		if err := game.ApplyMove(move); err != nil {
			fmt.Fprintln(out, moveErrorMessage(err, game.Rule()))
			continue
		}
	}

	final := game.State()
	RenderBoard(out, final.Board)
	switch final.Status {
	case StatusBlackWon:
		fmt.Fprintln(out, "Black wins!")
	case StatusWhiteWon:
		fmt.Fprintln(out, "White wins!")
	case StatusDraw:
		fmt.Fprintln(out, "Draw.")
	}
	fmt.Fprintln(out, "Game over.")
	return nil
}

func consoleSettings(mode string, userIsBlack bool, ruleName string) GameSettings {
	settings := GameSettings{OpeningRule: NewOpeningRule(ruleName).Name()}
	switch mode {
	case consoleHumanVsHuman:
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case consoleBotVsBot:
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
	default:
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
		if userIsBlack {
			settings.BlackType = PlayerHuman
		} else {
			settings.WhiteType = PlayerHuman
		}
	}
	return settings
}

func consolePlayerFor(color PlayerColor, kind PlayerType, rule OpeningRule, scanner *bufio.Scanner, out io.Writer) IPlayer {
	if kind == PlayerAI {
		return NewAIPlayer(color, rule, nil)
	}
	return NewConsolePlayer(scanner, out)
}

func ask(scanner *bufio.Scanner, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
