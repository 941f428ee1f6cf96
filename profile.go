package pycfr

import (
	"context"
	"expvar"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/tengshiquan/pycfr/gametree"
)

var (
	nodesVisited         = expvar.NewInt("ev/nodes_visited")
	terminalNodesVisited = expvar.NewInt("ev/nodes_visited/terminal")
	chanceNodesVisited   = expvar.NewInt("ev/nodes_visited/chance")
	decisionNodesVisited = expvar.NewInt("ev/nodes_visited/decision")
	actionsPruned        = expvar.NewInt("ev/actions_pruned")
)

const (
	// Only actions taken with probability above pruneThreshold are
	// explored. The rest, NaN included, contribute nothing.
	pruneThreshold = 1e-10
	// Trees deeper than maxRecursionDepth are evaluated with an explicit
	// stack rather than by recursion.
	maxRecursionDepth = 1 << 14
)

// StrategyProfile pairs a game tree with one policy per player.
type StrategyProfile struct {
	tree     *gametree.GameTree
	policies []Policy
}

// NewStrategyProfile creates a profile in which player i plays policies[i].
// There must be exactly one non-nil policy per player in the game.
func NewStrategyProfile(tree *gametree.GameTree, policies []Policy) (*StrategyProfile, error) {
	if tree == nil {
		return nil, errors.Wrap(ErrInvalidInput, "nil game tree")
	}

	if len(policies) != tree.NumPlayers() {
		return nil, errors.Wrapf(ErrInvalidInput, "game has %d players, got %d policies",
			tree.NumPlayers(), len(policies))
	}

	for i, p := range policies {
		if p == nil {
			return nil, errors.Wrapf(ErrInvalidInput, "policy for player %d is nil", i)
		}
	}

	return &StrategyProfile{tree: tree, policies: policies}, nil
}

// ExpectedValue returns the expected payoff of each player in tree when
// player i plays policies[i].
func ExpectedValue(tree *gametree.GameTree, policies []Policy) ([]float64, error) {
	sp, err := NewStrategyProfile(tree, policies)
	if err != nil {
		return nil, err
	}

	return sp.ExpectedValue()
}

// Tree returns the game tree of the profile.
func (sp *StrategyProfile) Tree() *gametree.GameTree {
	return sp.tree
}

// ExpectedValue returns the expected payoff of each player: the sum over
// all terminal nodes of their payoffs, weighted by the probability of
// reaching that terminal under chance and the players' policies.
//
// Children are visited depth-first in stored order and actions in the
// order Fold, Call, Raise, so repeated calls give bit-identical results.
func (sp *StrategyProfile) ExpectedValue() ([]float64, error) {
	start := time.Now()
	result, err := sp.evaluate(context.Background(), sp.tree.Root(), 1.0)
	if err != nil {
		return nil, err
	}

	glog.V(1).Infof("Evaluated expected value %v (took: %v)", result, time.Since(start))
	return result, nil
}

func (sp *StrategyProfile) evaluate(ctx context.Context, node gametree.Node, pathProb float64) ([]float64, error) {
	if sp.tree.Depth() > maxRecursionDepth {
		return sp.evStack(ctx, node, pathProb)
	}

	return sp.ev(ctx, node, pathProb)
}

// ev returns the payoffs of the subtree rooted at node, weighted by the
// probability pathProb of reaching node. It stops with ctx.Err() at the
// first interior node visited after ctx is done.
func (sp *StrategyProfile) ev(ctx context.Context, node gametree.Node, pathProb float64) ([]float64, error) {
	nodesVisited.Add(1)
	switch n := node.(type) {
	case *gametree.Terminal:
		terminalNodesVisited.Add(1)
		return sp.weightedPayoffs(n, pathProb), nil
	case *gametree.Chance:
		chanceNodesVisited.Add(1)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		payoffs := allocFloatSlice(sp.tree.NumPlayers())
		childProb := pathProb / float64(len(n.Children))
		for _, child := range n.Children {
			subpayoffs, err := sp.ev(ctx, child, childProb)
			if err != nil {
				freeFloatSlice(payoffs)
				return nil, err
			}

			floats.Add(payoffs, subpayoffs)
			freeFloatSlice(subpayoffs)
		}

		return payoffs, nil
	case *gametree.Decision:
		decisionNodesVisited.Add(1)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		probs, err := sp.policies[n.Player].Probabilities(n.Context)
		if err != nil {
			return nil, err
		}

		payoffs := allocFloatSlice(sp.tree.NumPlayers())
		for _, a := range gametree.Actions {
			child := n.Child(a)
			if child == nil {
				continue
			}

			p := probs.Prob(a)
			if !(p > pruneThreshold) {
				actionsPruned.Add(1)
				continue
			}

			subpayoffs, err := sp.ev(ctx, child, pathProb*p)
			if err != nil {
				freeFloatSlice(payoffs)
				return nil, err
			}

			floats.Add(payoffs, subpayoffs)
			freeFloatSlice(subpayoffs)
		}

		return payoffs, nil
	default:
		panic(fmt.Errorf("unknown game tree node: %T", node))
	}
}

func (sp *StrategyProfile) weightedPayoffs(n *gametree.Terminal, pathProb float64) []float64 {
	payoffs := allocFloatSlice(sp.tree.NumPlayers())
	return floats.ScaleTo(payoffs, pathProb, n.Payoffs)
}
