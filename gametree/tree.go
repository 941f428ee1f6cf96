package gametree

import (
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrInvalidTree is returned when a tree violates a structural invariant.
var ErrInvalidTree = errors.New("invalid game tree")

// GameTree is an immutable extensive-form game tree together with an index
// of its information sets. It is safe for concurrent use once constructed.
type GameTree struct {
	root       Node
	numPlayers int
	depth      int
	numNodes   int

	// Decision nodes sharing each context, in depth-first order.
	infoSets map[string][]*Decision
}

// NewGameTree indexes the tree rooted at root and checks that:
//   1) Every terminal payoff vector has numPlayers entries,
//   2) Every chance node has at least one child,
//   3) Every decision node has at least one legal action and an
//      acting player in [0, numPlayers),
//   4) No node is nil, including typed nil pointers.
//
// The nodes must not be modified afterwards.
func NewGameTree(root Node, numPlayers int) (*GameTree, error) {
	if numPlayers < 1 {
		return nil, errors.Wrapf(ErrInvalidTree, "need at least one player, got %d", numPlayers)
	}

	gt := &GameTree{
		root:       root,
		numPlayers: numPlayers,
		infoSets:   make(map[string][]*Decision),
	}

	if err := gt.index(); err != nil {
		return nil, err
	}

	glog.V(1).Infof("Indexed game tree: %d nodes, depth %d, %d information sets",
		gt.numNodes, gt.depth, len(gt.infoSets))
	return gt, nil
}

type indexItem struct {
	node  Node
	depth int
}

// index walks the tree with an explicit stack so that very deep trees
// cannot exhaust the goroutine stack.
func (gt *GameTree) index() error {
	seen := make(map[*Decision]struct{})
	stack := []indexItem{{gt.root, 0}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		gt.numNodes++
		if item.depth > gt.depth {
			gt.depth = item.depth
		}

		switch n := item.node.(type) {
		case *Terminal:
			if n == nil {
				return errors.Wrap(ErrInvalidTree, "nil terminal node")
			}

			if len(n.Payoffs) != gt.numPlayers {
				return errors.Wrapf(ErrInvalidTree, "terminal node has %d payoffs for %d players",
					len(n.Payoffs), gt.numPlayers)
			}
		case *Chance:
			if n == nil {
				return errors.Wrap(ErrInvalidTree, "nil chance node")
			}

			if len(n.Children) == 0 {
				return errors.Wrap(ErrInvalidTree, "chance node has no children")
			}

			// Push in reverse so children are visited in stored order.
			for i := len(n.Children) - 1; i >= 0; i-- {
				if n.Children[i] == nil {
					return errors.Wrapf(ErrInvalidTree, "chance node child %d is nil", i)
				}
				stack = append(stack, indexItem{n.Children[i], item.depth + 1})
			}
		case *Decision:
			if n == nil {
				return errors.Wrap(ErrInvalidTree, "nil decision node")
			}

			if n.Player < 0 || n.Player >= gt.numPlayers {
				return errors.Wrapf(ErrInvalidTree, "decision node %q has player %d, game has %d players",
					n.Context, n.Player, gt.numPlayers)
			}

			if n.NumLegal() == 0 {
				return errors.Wrapf(ErrInvalidTree, "decision node %q has no legal actions", n.Context)
			}

			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				gt.infoSets[n.Context] = append(gt.infoSets[n.Context], n)
			}

			for i := NumActions - 1; i >= 0; i-- {
				if child := n.Children[i]; child != nil {
					stack = append(stack, indexItem{child, item.depth + 1})
				}
			}
		case nil:
			return errors.Wrap(ErrInvalidTree, "nil node")
		default:
			return errors.Wrapf(ErrInvalidTree, "unknown node type %T", n)
		}
	}

	return nil
}

// Root returns the root node of the tree.
func (gt *GameTree) Root() Node {
	return gt.root
}

// NumPlayers returns the number of players in the game.
func (gt *GameTree) NumPlayers() int {
	return gt.numPlayers
}

// Depth returns the number of edges on the longest path from the root
// to a leaf.
func (gt *GameTree) Depth() int {
	return gt.depth
}

// NumNodes returns the number of nodes visited when walking the tree.
// A shared subtree is counted once per path that reaches it.
func (gt *GameTree) NumNodes() int {
	return gt.numNodes
}

// InformationSets returns the decision nodes sharing each context.
// The returned map must not be modified.
func (gt *GameTree) InformationSets() map[string][]*Decision {
	return gt.infoSets
}

// InfoSet returns the decision nodes with the given context.
func (gt *GameTree) InfoSet(context string) ([]*Decision, bool) {
	nodes, ok := gt.infoSets[context]
	return nodes, ok
}

// InfoSetKeys returns every decision context in ascending order.
func (gt *GameTree) InfoSetKeys() []string {
	keys := make([]string, 0, len(gt.infoSets))
	for key := range gt.infoSets {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}
