package pycfr

import (
	"github.com/tengshiquan/pycfr/gametree"
)

// Distribution is a probability distribution over the actions at a
// decision node, indexed by gametree.Action (Fold, Call, Raise).
type Distribution [gametree.NumActions]float64

// Prob returns the probability of taking action a.
func (d Distribution) Prob(a gametree.Action) float64 {
	return d[a]
}

// Policy maps each decision context of one player to the probability
// of taking each action there.
//
// Implementations must return an error wrapping ErrMissingContext for
// contexts they do not know. Policies are read concurrently during
// parallel evaluation and must not be mutated while an evaluation runs.
type Policy interface {
	Probabilities(context string) (Distribution, error)
}
