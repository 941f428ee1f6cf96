package gametree

import (
	"fmt"

	"github.com/timpalpant/go-cfr"
	cfrtree "github.com/timpalpant/go-cfr/tree"
)

// cfrNode implements cfr.GameTreeNode over an already built Node.
// The children of a decision node are its legal actions, in the order
// Fold, Call, Raise.
type cfrNode struct {
	node Node
}

// Verify that we implement the interface.
var _ cfr.GameTreeNode = cfrNode{}

// AsGameTreeNode wraps n so it can be traversed by go-cfr.
func AsGameTreeNode(n Node) cfr.GameTreeNode {
	return cfrNode{node: n}
}

// Type implements cfr.GameTreeNode.
func (cn cfrNode) Type() cfr.NodeType {
	return cn.node.Kind()
}

// BuildChildren implements cfr.GameTreeNode. Children always exist.
func (cn cfrNode) BuildChildren() {}

// FreeChildren implements cfr.GameTreeNode. The tree is immutable, so
// there is nothing to release.
func (cn cfrNode) FreeChildren() {}

// NumChildren implements cfr.GameTreeNode.
func (cn cfrNode) NumChildren() int {
	switch n := cn.node.(type) {
	case *Chance:
		return len(n.Children)
	case *Decision:
		return n.NumLegal()
	}

	return 0
}

// GetChild implements cfr.GameTreeNode.
func (cn cfrNode) GetChild(i int) cfr.GameTreeNode {
	switch n := cn.node.(type) {
	case *Chance:
		return cfrNode{node: n.Children[i]}
	case *Decision:
		for _, a := range Actions {
			if !n.Legal(a) {
				continue
			}

			if i == 0 {
				return cfrNode{node: n.Child(a)}
			}
			i--
		}
	}

	panic(fmt.Errorf("%v has no child %d", cn.node, i))
}

// GetChildProbability implements cfr.GameTreeNode.
func (cn cfrNode) GetChildProbability(i int) float64 {
	n, ok := cn.node.(*Chance)
	if !ok {
		panic("cannot get the probability of a non-chance node")
	}

	return 1.0 / float64(len(n.Children))
}

// Player implements cfr.GameTreeNode.
func (cn cfrNode) Player() int {
	return cn.node.(*Decision).Player
}

// InfoSet implements cfr.GameTreeNode. Decision contexts already
// identify what the acting player can observe.
func (cn cfrNode) InfoSet(player int) string {
	return cn.node.(*Decision).Context
}

// Utility implements cfr.GameTreeNode.
func (cn cfrNode) Utility(player int) float64 {
	n, ok := cn.node.(*Terminal)
	if !ok {
		panic("cannot get the utility of a non-terminal node")
	}

	return n.Payoffs[player]
}

func (cn cfrNode) String() string {
	return cn.node.String()
}

// CountTerminalNodes returns the number of terminal nodes reachable from
// the root, counting a shared subtree once per path that reaches it.
func (gt *GameTree) CountTerminalNodes() int {
	return cfrtree.CountTerminalNodes(AsGameTreeNode(gt.root))
}

// VisitInfoSets calls visitor once for each information set, with the
// player acting there, in depth-first order of first appearance.
func (gt *GameTree) VisitInfoSets(visitor func(player int, context string)) {
	cfrtree.VisitInfoSets(AsGameTreeNode(gt.root), visitor)
}
