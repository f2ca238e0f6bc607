package main

import "fmt"

const (
	RuleStandard = "Standard"
	RulePro      = "Pro"
)

// OpeningRule restricts where stones may go on early turns. Turns are 1-based.
type OpeningRule struct {
	name string
}

// NewOpeningRule maps "Pro" to the Pro rule and anything else to Standard.
func NewOpeningRule(name string) OpeningRule {
	if name == RulePro {
		return OpeningRule{name: RulePro}
	}
	return OpeningRule{name: RuleStandard}
}

func (o OpeningRule) Name() string {
	if o.name == "" {
		return RuleStandard
	}
	return o.name
}

func (o OpeningRule) IsPro() bool {
	return o.name == RulePro
}

func (o OpeningRule) Possible(move Move, turn int) bool {
	if !o.IsPro() {
		return true
	}
	if turn == 1 && !move.Equals(centerMove) {
		return false
	}
	if turn == 3 && inCentralBlock(move) {
		return false
	}
	return true
}

func (o OpeningRule) Check(move Move, turn int) error {
	if o.Possible(move, turn) {
		return nil
	}
	return fmt.Errorf("%w: %s rule, turn %d, %s", ErrOpeningRuleViolation, o.Name(), turn, move)
}

// Message is the prompt shown to a player whose move the rule rejected.
func (o OpeningRule) Message() string {
	return fmt.Sprintf("%s opening rule does not allow the position now.", o.Name())
}

func (o OpeningRule) String() string {
	return o.Name()
}

// inCentralBlock covers rows and cols 5..9, the 5x5 square around the center.
func inCentralBlock(move Move) bool {
	return move.Row >= centerMove.Row-2 && move.Row <= centerMove.Row+2 &&
		move.Col >= centerMove.Col-2 && move.Col <= centerMove.Col+2
}
