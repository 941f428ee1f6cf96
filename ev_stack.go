package pycfr

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tengshiquan/pycfr/gametree"
)

// evFrame is the state of one node on the explicit evaluation stack.
type evFrame struct {
	node     gametree.Node
	pathProb float64
	// payoffs accumulates the weighted payoffs of the children visited so far.
	payoffs []float64
	// probs is the acting player's policy, for decision nodes.
	probs Distribution
	// next is the index of the next child (chance) or action (decision)
	// to visit.
	next int
}

// evStack computes the same result as ev, visiting and summing nodes in
// the same order, but keeps its state on the heap so that the depth of
// the tree is not limited by the goroutine stack.
func (sp *StrategyProfile) evStack(ctx context.Context, root gametree.Node, pathProb float64) ([]float64, error) {
	frame, err := sp.enter(ctx, root, pathProb)
	if err != nil {
		return nil, err
	}

	stack := []evFrame{frame}
	for {
		child, childProb, ok := stack[len(stack)-1].nextChild()
		if ok {
			frame, err := sp.enter(ctx, child, childProb)
			if err != nil {
				for _, f := range stack {
					freeFloatSlice(f.payoffs)
				}
				return nil, err
			}

			stack = append(stack, frame)
			continue
		}

		done := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return done.payoffs, nil
		}

		floats.Add(stack[len(stack)-1].payoffs, done.payoffs)
		freeFloatSlice(done.payoffs)
	}
}

// enter creates the frame for node, looking up the policy if a player
// acts there. Like ev, it fails with ctx.Err() on interior nodes once ctx
// is done.
func (sp *StrategyProfile) enter(ctx context.Context, node gametree.Node, pathProb float64) (evFrame, error) {
	nodesVisited.Add(1)
	frame := evFrame{node: node, pathProb: pathProb}
	switch n := node.(type) {
	case *gametree.Terminal:
		terminalNodesVisited.Add(1)
		frame.payoffs = sp.weightedPayoffs(n, pathProb)
	case *gametree.Chance:
		chanceNodesVisited.Add(1)
		if err := ctx.Err(); err != nil {
			return evFrame{}, err
		}

		frame.payoffs = allocFloatSlice(sp.tree.NumPlayers())
	case *gametree.Decision:
		decisionNodesVisited.Add(1)
		if err := ctx.Err(); err != nil {
			return evFrame{}, err
		}

		probs, err := sp.policies[n.Player].Probabilities(n.Context)
		if err != nil {
			return evFrame{}, err
		}

		frame.probs = probs
		frame.payoffs = allocFloatSlice(sp.tree.NumPlayers())
	default:
		panic(fmt.Errorf("unknown game tree node: %T", node))
	}

	return frame, nil
}

// nextChild returns the next child to visit and the probability of
// reaching it, or false once all children have been visited.
func (f *evFrame) nextChild() (gametree.Node, float64, bool) {
	switch n := f.node.(type) {
	case *gametree.Chance:
		if f.next >= len(n.Children) {
			return nil, 0, false
		}

		child := n.Children[f.next]
		f.next++
		return child, f.pathProb / float64(len(n.Children)), true
	case *gametree.Decision:
		for f.next < gametree.NumActions {
			a := gametree.Actions[f.next]
			f.next++
			child := n.Child(a)
			if child == nil {
				continue
			}

			p := f.probs.Prob(a)
			if !(p > pruneThreshold) {
				actionsPruned.Add(1)
				continue
			}

			return child, f.pathProb * p, true
		}
	}

	return nil, 0, false
}
