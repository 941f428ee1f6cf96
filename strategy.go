package pycfr

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/tengshiquan/pycfr/gametree"
)

// Strategy is the policy of a single player: for each decision context
// the player can be in, the probability of taking each action.
type Strategy struct {
	player int
	policy map[string]Distribution
}

// Verify that we implement the interface.
var _ Policy = &Strategy{}

// NewStrategy creates an empty strategy for the given player.
func NewStrategy(player int) *Strategy {
	return &Strategy{
		player: player,
		policy: make(map[string]Distribution),
	}
}

// NewDefaultStrategy creates a strategy for player that plays uniformly
// at random over the legal actions of every one of its information sets.
func NewDefaultStrategy(tree *gametree.GameTree, player int) *Strategy {
	s := NewStrategy(player)
	s.BuildDefault(tree)
	return s
}

// Player returns the index of the player this strategy belongs to.
func (s *Strategy) Player() int {
	return s.player
}

// Len returns the number of decision contexts in the strategy.
func (s *Strategy) Len() int {
	return len(s.policy)
}

// Keys returns the decision contexts of the strategy in ascending order.
func (s *Strategy) Keys() []string {
	keys := make([]string, 0, len(s.policy))
	for key := range s.policy {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// Set replaces the distribution used in context.
func (s *Strategy) Set(context string, d Distribution) {
	s.policy[context] = d
}

// Probabilities implements Policy.
func (s *Strategy) Probabilities(context string) (Distribution, error) {
	d, ok := s.policy[context]
	if !ok {
		return Distribution{}, errors.Wrapf(ErrMissingContext,
			"player %d has no policy for %q", s.player, context)
	}

	return d, nil
}

// BuildDefault adds a uniform distribution over the legal actions of
// every information set in tree where this player acts. Illegal actions
// get probability zero. The first node of each information set decides
// which actions are legal.
func (s *Strategy) BuildDefault(tree *gametree.GameTree) {
	tree.VisitInfoSets(func(player int, context string) {
		if player != s.player {
			return
		}

		nodes, _ := tree.InfoSet(context)
		node := nodes[0]
		p := 1.0 / float64(node.NumLegal())
		var d Distribution
		for _, a := range gametree.Actions {
			if node.Legal(a) {
				d[a] = p
			}
		}

		s.policy[context] = d
	})
}

// Validate checks that every distribution has non-negative entries that
// sum to one within tolerance. The evaluator does not require this;
// it is a check for callers loading strategies from untrusted files.
func (s *Strategy) Validate(tolerance float64) error {
	for _, context := range s.Keys() {
		d := s.policy[context]
		total := 0.0
		for _, a := range gametree.Actions {
			p := d.Prob(a)
			if p < 0 || math.IsNaN(p) {
				return errors.Wrapf(ErrInvalidInput, "player %d: %q has %v probability %v",
					s.player, context, a, p)
			}
			total += p
		}

		if math.Abs(total-1) > tolerance {
			return errors.Wrapf(ErrInvalidInput, "player %d: %q probabilities sum to %v",
				s.player, context, total)
		}
	}

	return nil
}
