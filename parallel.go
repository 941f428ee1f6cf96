package pycfr

import (
	"context"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/tengshiquan/pycfr/gametree"
)

type subtree struct {
	node     gametree.Node
	pathProb float64
}

// ExpectedValueParallel computes the same result as ExpectedValue, but
// evaluates the subtrees below the root concurrently using at most
// maxWorkers goroutines (unlimited if maxWorkers <= 0).
//
// Subtree results are merged in stored order once all of them are done,
// so the result is bit-identical to ExpectedValue.
//
// Every subtree checks ctx at each chance and decision node it visits, so
// cancelling ctx, or an error in any subtree, stops the work still running
// and ExpectedValueParallel returns the first error.
func (sp *StrategyProfile) ExpectedValueParallel(ctx context.Context, maxWorkers int) ([]float64, error) {
	subtrees, err := sp.rootSubtrees()
	if err != nil {
		return nil, err
	}

	if subtrees == nil { // Root is terminal.
		return sp.ExpectedValue()
	}

	start := time.Now()
	results := make([][]float64, len(subtrees))
	g, ctx := errgroup.WithContext(ctx)
	if maxWorkers > 0 {
		g.SetLimit(maxWorkers)
	}

	for i, st := range subtrees {
		i, st := i, st
		g.Go(func() error {
			result, err := sp.evaluate(ctx, st.node, st.pathProb)
			if err != nil {
				return err
			}

			results[i] = result
			glog.V(2).Infof("Evaluated subtree %d of %d: %v", i+1, len(subtrees), result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	payoffs := make([]float64, sp.tree.NumPlayers())
	for _, result := range results {
		floats.Add(payoffs, result)
		freeFloatSlice(result)
	}

	glog.V(1).Infof("Evaluated expected value %v in %d subtrees (took: %v)",
		payoffs, len(subtrees), time.Since(start))
	return payoffs, nil
}

// rootSubtrees expands the root of the tree exactly as ev would, and
// returns the children to visit along with the probability of reaching
// each one. It returns nil if the root is a terminal node.
func (sp *StrategyProfile) rootSubtrees() ([]subtree, error) {
	root := sp.tree.Root()
	switch n := root.(type) {
	case *gametree.Chance:
		nodesVisited.Add(1)
		chanceNodesVisited.Add(1)
		childProb := 1.0 / float64(len(n.Children))
		result := make([]subtree, len(n.Children))
		for i, child := range n.Children {
			result[i] = subtree{child, childProb}
		}

		return result, nil
	case *gametree.Decision:
		nodesVisited.Add(1)
		decisionNodesVisited.Add(1)
		probs, err := sp.policies[n.Player].Probabilities(n.Context)
		if err != nil {
			return nil, err
		}

		result := make([]subtree, 0, gametree.NumActions)
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

			result = append(result, subtree{child, 1.0 * p})
		}

		return result, nil
	}

	return nil, nil
}
