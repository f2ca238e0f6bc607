package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

type GameSettings struct {
	BlackType   PlayerType `json:"-"`
	WhiteType   PlayerType `json:"-"`
	OpeningRule string     `json:"opening_rule"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BlackType:   PlayerHuman,
		WhiteType:   PlayerAI,
		OpeningRule: GetConfig().OpeningRule,
	}
}

func (s GameSettings) TypeFor(color PlayerColor) PlayerType {
	if color == PlayerBlack {
		return s.BlackType
	}
	return s.WhiteType
}

func (t PlayerType) String() string {
	if t == PlayerAI {
		return "AI"
	}
	return "Human"
}
