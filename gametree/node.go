package gametree

import (
	"fmt"

	"github.com/timpalpant/go-cfr"
)

// Node is a node in an extensive-form game tree. The only implementations
// are *Terminal, *Chance and *Decision, so a type switch over those three
// is exhaustive.
type Node interface {
	// Kind reports whether this is a chance, player or terminal node.
	Kind() cfr.NodeType
	fmt.Stringer

	isNode()
}

// Terminal is a leaf of the game tree where the game has ended.
type Terminal struct {
	// Payoffs has one entry per player.
	Payoffs []float64
}

// NewTerminal creates a terminal node with the given per-player payoffs.
func NewTerminal(payoffs ...float64) *Terminal {
	return &Terminal{Payoffs: payoffs}
}

// Kind implements Node.
func (t *Terminal) Kind() cfr.NodeType { return cfr.TerminalNode }

func (t *Terminal) String() string {
	return fmt.Sprintf("Terminal%v", t.Payoffs)
}

func (t *Terminal) isNode() {}

// Chance is a chance event, such as dealing hole cards or a board card.
// Every child is equally likely.
type Chance struct {
	Children []Node
}

// NewChance creates a chance node over the given equiprobable children.
func NewChance(children ...Node) *Chance {
	return &Chance{Children: children}
}

// Kind implements Node.
func (c *Chance) Kind() cfr.NodeType { return cfr.ChanceNode }

func (c *Chance) String() string {
	return fmt.Sprintf("Chance(%d children)", len(c.Children))
}

func (c *Chance) isNode() {}

// Decision is a node where Player must choose one of the legal actions.
type Decision struct {
	Player int
	// Context identifies the player's information set: everything the
	// player can observe at this point in the game.
	Context string
	// Children holds the node reached by each action, indexed by Action.
	// A nil child means the action is not legal here.
	Children [NumActions]Node
}

// NewDecision creates a decision node with no legal actions.
// Use WithChild to attach the children for each legal action.
func NewDecision(player int, context string) *Decision {
	return &Decision{Player: player, Context: context}
}

// WithChild sets the child reached by taking action a and returns d.
func (d *Decision) WithChild(a Action, child Node) *Decision {
	d.Children[a] = child
	return d
}

// Kind implements Node.
func (d *Decision) Kind() cfr.NodeType { return cfr.PlayerNode }

// Child returns the node reached by action a, or nil if a is illegal.
func (d *Decision) Child(a Action) Node {
	return d.Children[a]
}

// Legal returns true if action a may be taken at this node.
func (d *Decision) Legal(a Action) bool {
	return d.Children[a] != nil
}

// NumLegal returns the number of legal actions at this node.
func (d *Decision) NumLegal() int {
	n := 0
	for _, a := range Actions {
		if d.Legal(a) {
			n++
		}
	}

	return n
}

func (d *Decision) String() string {
	legal := make([]Action, 0, NumActions)
	for _, a := range Actions {
		if d.Legal(a) {
			legal = append(legal, a)
		}
	}

	return fmt.Sprintf("Player %d to act in %q. Legal: %v", d.Player, d.Context, legal)
}

func (d *Decision) isNode() {}
