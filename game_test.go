package pycfr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tengshiquan/pycfr/gametree"
)

var kuhnCards = []string{"J", "Q", "K"}

// newKuhnTree builds the game tree for Kuhn poker: each player antes 1
// and is dealt one of three cards. Checking is a Call, betting 1 is a Raise.
func newKuhnTree(t testing.TB) *gametree.GameTree {
	var deals []gametree.Node
	for i := range kuhnCards {
		for j := range kuhnCards {
			if i != j {
				deals = append(deals, newKuhnDeal(i, j))
			}
		}
	}

	tree, err := gametree.NewGameTree(gametree.NewChance(deals...), 2)
	require.NoError(t, err)
	return tree
}

func newKuhnDeal(p0Card, p1Card int) gametree.Node {
	showdown := func(pot float64) gametree.Node {
		if p0Card > p1Card {
			return gametree.NewTerminal(pot, -pot)
		}
		return gametree.NewTerminal(-pot, pot)
	}

	p0 := kuhnCards[p0Card] + ":"
	p1 := kuhnCards[p1Card] + ":"

	checkBet := gametree.NewDecision(0, p0+"cr").
		WithChild(gametree.Fold, gametree.NewTerminal(-1, 1)).
		WithChild(gametree.Call, showdown(2))
	check := gametree.NewDecision(1, p1+"c").
		WithChild(gametree.Call, showdown(1)).
		WithChild(gametree.Raise, checkBet)
	bet := gametree.NewDecision(1, p1+"r").
		WithChild(gametree.Fold, gametree.NewTerminal(1, -1)).
		WithChild(gametree.Call, showdown(2))
	return gametree.NewDecision(0, p0).
		WithChild(gametree.Call, check).
		WithChild(gametree.Raise, bet)
}

// newSkewedKuhnStrategies returns a non-uniform strategy for each player,
// so that evaluation order matters for floating point rounding.
func newSkewedKuhnStrategies(tree *gametree.GameTree) []*Strategy {
	result := make([]*Strategy, tree.NumPlayers())
	for player := range result {
		s := NewStrategy(player)
		for i, context := range tree.InfoSetKeys() {
			node := tree.InformationSets()[context][0]
			if node.Player != player {
				continue
			}

			var d Distribution
			remaining := 1.0
			for _, a := range gametree.Actions {
				if node.Legal(a) {
					d[a] = remaining / (3.0 + float64(i%4))
					remaining -= d[a]
				}
			}
			// Put the remaining mass on the last legal action.
			for k := len(gametree.Actions) - 1; k >= 0; k-- {
				if a := gametree.Actions[k]; node.Legal(a) {
					d[a] += remaining
					break
				}
			}
			s.Set(context, d)
		}
		result[player] = s
	}

	return result
}

func asPolicies(strategies []*Strategy) []Policy {
	result := make([]Policy, len(strategies))
	for i, s := range strategies {
		result[i] = s
	}
	return result
}

func mustNewTree(t testing.TB, root gametree.Node, numPlayers int) *gametree.GameTree {
	tree, err := gametree.NewGameTree(root, numPlayers)
	require.NoError(t, err)
	return tree
}
