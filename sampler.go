package pycfr

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/tengshiquan/pycfr/gametree"
)

// SamplePayoffs plays one game from the root, choosing chance outcomes
// uniformly at random and actions according to each player's policy, and
// returns the payoffs of the terminal node reached.
//
// Actions that ExpectedValue prunes are never taken here: if the sampled
// mass falls on an illegal or pruned action the game contributes the zero
// vector. The mean of SamplePayoffs is therefore ExpectedValue.
func (sp *StrategyProfile) SamplePayoffs(rng *rand.Rand) ([]float64, error) {
	node := sp.tree.Root()
	for {
		switch n := node.(type) {
		case *gametree.Terminal:
			payoffs := make([]float64, len(n.Payoffs))
			copy(payoffs, n.Payoffs)
			return payoffs, nil
		case *gametree.Chance:
			node = n.Children[rng.Intn(len(n.Children))]
		case *gametree.Decision:
			probs, err := sp.policies[n.Player].Probabilities(n.Context)
			if err != nil {
				return nil, err
			}

			node = sampleAction(n, probs, rng.Float64())
			if node == nil {
				return make([]float64, sp.tree.NumPlayers()), nil
			}
		default:
			panic(fmt.Errorf("unknown game tree node: %T", node))
		}
	}
}

// sampleAction returns the child selected by x in [0, 1), or nil if x
// falls on an action that is illegal or below the pruning threshold.
func sampleAction(n *gametree.Decision, probs Distribution, x float64) gametree.Node {
	cumulative := 0.0
	for _, a := range gametree.Actions {
		p := probs.Prob(a)
		child := n.Child(a)
		if child == nil || !(p > pruneThreshold) {
			continue
		}

		cumulative += p
		if x < cumulative {
			return child
		}
	}

	return nil
}

// EstimateExpectedValue averages the payoffs of n sampled games.
func (sp *StrategyProfile) EstimateExpectedValue(rng *rand.Rand, n int) ([]float64, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "number of samples must be > 0, got %d", n)
	}

	total := make([]float64, sp.tree.NumPlayers())
	for i := 0; i < n; i++ {
		payoffs, err := sp.SamplePayoffs(rng)
		if err != nil {
			return nil, err
		}

		floats.Add(total, payoffs)
	}

	floats.Scale(1/float64(n), total)
	return total, nil
}
