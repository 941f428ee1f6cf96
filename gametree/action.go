package gametree

import (
	"github.com/pkg/errors"
)

// Action is one of the moves available to a player at a decision node.
//
// The numeric value of an Action is its index in a probability vector:
// Fold is always 0, Call is 1 and Raise is 2.
type Action uint8

const (
	Fold Action = iota
	Call
	Raise
)

// NumActions is the number of distinct Actions.
const NumActions = 3

// Actions lists every Action in evaluation order.
var Actions = [NumActions]Action{Fold, Call, Raise}

var actionStr = [...]string{
	"fold",
	"call",
	"raise",
}

func (a Action) String() string {
	if int(a) >= len(actionStr) {
		return "invalid"
	}

	return actionStr[a]
}

// ParseAction returns the Action with the given name.
func ParseAction(s string) (Action, error) {
	for i, name := range actionStr {
		if name == s {
			return Action(i), nil
		}
	}

	return 0, errors.Errorf("unknown action %q", s)
}
