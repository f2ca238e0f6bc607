package main

import (
	"errors"
	"testing"
)

func humanSettings(rule string) GameSettings {
	return GameSettings{BlackType: PlayerHuman, WhiteType: PlayerHuman, OpeningRule: rule}
}

func TestControllerRejectsMovesBeforeStart(t *testing.T) {
	controller := NewGameController(humanSettings(RuleStandard), NewArchive(""))
	applied, msg := controller.ApplyHumanMove(Move{Row: 7, Col: 7})
	if applied || msg != ErrGameNotRunning.Error() {
		t.Fatalf("expected not-running rejection, got %v %q", applied, msg)
	}
}

func TestControllerRejectsHumanMoveOnAITurn(t *testing.T) {
	controller := NewGameController(GameSettings{BlackType: PlayerAI, WhiteType: PlayerHuman}, NewArchive(""))
	controller.StartGame(GameSettings{BlackType: PlayerAI, WhiteType: PlayerHuman})
	applied, msg := controller.ApplyHumanMove(Move{Row: 7, Col: 7})
	if applied || msg != ErrNotHumanTurn.Error() {
		t.Fatalf("expected not-your-turn rejection, got %v %q", applied, msg)
	}
	if !controller.Tick() {
		t.Fatalf("expected the AI to move")
	}
	if controller.History().Size() != 1 {
		t.Fatalf("expected one move in history")
	}
}

func TestControllerArchivesFinishedGames(t *testing.T) {
	archive := NewArchive("")
	controller := NewGameController(humanSettings(RuleStandard), archive)
	controller.StartGame(humanSettings(RuleStandard))
	for col := 0; col < 4; col++ {
		for _, move := range []Move{{Row: 0, Col: col}, {Row: 1, Col: col}} {
			if applied, msg := controller.ApplyHumanMove(move); !applied {
				t.Fatalf("move %v rejected: %s", move, msg)
			}
		}
	}
	if applied, msg := controller.ApplyHumanMove(Move{Row: 0, Col: 4}); !applied {
		t.Fatalf("winning move rejected: %s", msg)
	}
	if controller.State().Status != StatusBlackWon {
		t.Fatalf("expected black to win")
	}
	record, ok := archive.Get(controller.GameID())
	if !ok {
		t.Fatalf("finished game not archived")
	}
	if record.Winner != 1 || len(record.Moves) != 9 {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestControllerReportsAbort(t *testing.T) {
	controller := NewGameController(GameSettings{BlackType: PlayerAI, WhiteType: PlayerHuman}, NewArchive(""))
	controller.StartGame(GameSettings{BlackType: PlayerAI, WhiteType: PlayerHuman})
	controller.game.SetPlayers(exhaustedPlayer{}, NewHumanPlayer())
	var reported error
	controller.OnAborted(func(err error) {
		reported = err
		// The callback runs without the controller lock held.
		_ = controller.State()
	})
	if controller.Tick() {
		t.Fatalf("no move should apply")
	}
	if !errors.Is(reported, ErrExhaustedRandomPool) {
		t.Fatalf("expected abort callback, got %v", reported)
	}
}

func TestUpdateSettingsKeepsBoardWhenRuleUnchanged(t *testing.T) {
	controller := NewGameController(humanSettings(RuleStandard), NewArchive(""))
	controller.StartGame(humanSettings(RuleStandard))
	if applied, msg := controller.ApplyHumanMove(Move{Row: 7, Col: 7}); !applied {
		t.Fatalf("move rejected: %s", msg)
	}
	gameID := controller.GameID()

	controller.UpdateSettings(GameSettings{BlackType: PlayerHuman, WhiteType: PlayerAI, OpeningRule: RuleStandard}, false)
	if controller.GameID() != gameID || controller.History().Size() != 1 {
		t.Fatalf("player swap should keep the game")
	}
	ai, ok := controller.game.CurrentPlayer().(*AIPlayer)
	if !ok {
		t.Fatalf("expected white to be an AI after the swap")
	}
	if opp, ok := ai.LastOpponentMove(); !ok || opp != (Move{Row: 7, Col: 7}) {
		t.Fatalf("new AI should know the stones already played, got %v %v", opp, ok)
	}

	controller.UpdateSettings(GameSettings{BlackType: PlayerHuman, WhiteType: PlayerAI, OpeningRule: RulePro}, false)
	if controller.GameID() == gameID || controller.History().Size() != 0 {
		t.Fatalf("a rule change should start a fresh game")
	}
	if controller.Settings().OpeningRule != RulePro {
		t.Fatalf("expected Pro rule, got %s", controller.Settings().OpeningRule)
	}
}

func TestControllerArchivesOutsideLock(t *testing.T) {
	archive := NewArchive("")
	controller := NewGameController(humanSettings(RuleStandard), archive)
	controller.StartGame(humanSettings(RuleStandard))
	var archived []GameRecord
	controller.OnFinished(func(record GameRecord) {
		if _, ok := archive.Get(record.ID); !ok {
			t.Errorf("record %s not archived before the callback", record.ID)
		}
		// Blocks forever if the controller lock were still held.
		_ = controller.State()
		archived = append(archived, record)
	})
	for col := 0; col < 4; col++ {
		for _, move := range []Move{{Row: 0, Col: col}, {Row: 1, Col: col}} {
			if applied, msg := controller.ApplyHumanMove(move); !applied {
				t.Fatalf("move %v rejected: %s", move, msg)
			}
		}
	}
	if len(archived) != 0 {
		t.Fatalf("no game finished yet, got %d records", len(archived))
	}
	if applied, msg := controller.ApplyHumanMove(Move{Row: 0, Col: 4}); !applied {
		t.Fatalf("winning move rejected: %s", msg)
	}
	if len(archived) != 1 || archived[0].ID != controller.GameID() || archived[0].Status != "black_won" {
		t.Fatalf("unexpected finished records %+v", archived)
	}
	if archive.Count() != 1 {
		t.Fatalf("expected one archived game, got %d", archive.Count())
	}
}

func TestUpdateSettingsKeepsUnchangedAI(t *testing.T) {
	settings := GameSettings{BlackType: PlayerAI, WhiteType: PlayerHuman, OpeningRule: RuleStandard}
	controller := NewGameController(settings, NewArchive(""))
	controller.StartGame(settings)
	if !controller.Tick() {
		t.Fatalf("expected the AI to move")
	}
	black, ok := controller.game.blackPlayer.(*AIPlayer)
	if !ok {
		t.Fatalf("expected black to be an AI")
	}
	// A proposal the game never committed must survive the settings change.
	if _, err := black.MakeMove(controller.game.State().Board, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proposed := black.ProposedCount()

	controller.UpdateSettings(GameSettings{BlackType: PlayerAI, WhiteType: PlayerAI, OpeningRule: RuleStandard}, false)
	if controller.game.blackPlayer != IPlayer(black) {
		t.Fatalf("black AI was replaced although its type did not change")
	}
	if black.ProposedCount() != proposed {
		t.Fatalf("proposed cells changed from %d to %d", proposed, black.ProposedCount())
	}
	white, ok := controller.game.whitePlayer.(*AIPlayer)
	if !ok {
		t.Fatalf("expected white to become an AI")
	}
	first := controller.History().All()[0].Move
	if opp, ok := white.LastOpponentMove(); !ok || opp != first {
		t.Fatalf("new white AI should see %v, got %v %v", first, opp, ok)
	}
	if _, ok := white.LastOwnMove(); ok {
		t.Fatalf("new white AI has no stones of its own yet")
	}
	if _, ok := controller.game.hintPlayers[PlayerWhite]; ok {
		t.Fatalf("hint shadow should go once white is an AI")
	}
}
