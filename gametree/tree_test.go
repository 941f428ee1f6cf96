package gametree

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/timpalpant/go-cfr"
)

func newTestTree() Node {
	call := NewDecision(1, ":c").
		WithChild(Fold, NewTerminal(1, -1)).
		WithChild(Call, NewTerminal(2, -2))
	high := NewDecision(0, "H:").
		WithChild(Fold, NewTerminal(-1, 1)).
		WithChild(Call, call)
	callLow := NewDecision(1, ":c").
		WithChild(Fold, NewTerminal(1, -1)).
		WithChild(Call, NewTerminal(-2, 2))
	low := NewDecision(0, "L:").
		WithChild(Fold, NewTerminal(-1, 1)).
		WithChild(Call, callLow)
	return NewChance(high, low)
}

func TestNewGameTree(t *testing.T) {
	gt, err := NewGameTree(newTestTree(), 2)
	require.NoError(t, err)

	require.Equal(t, 2, gt.NumPlayers())
	require.Equal(t, 3, gt.Depth())
	require.Equal(t, 11, gt.NumNodes())
	require.Equal(t, []string{":c", "H:", "L:"}, gt.InfoSetKeys())

	nodes, ok := gt.InfoSet(":c")
	require.True(t, ok)
	require.Len(t, nodes, 2)
	require.Equal(t, 1, nodes[0].Player)

	_, ok = gt.InfoSet("missing")
	require.False(t, ok)
}

func TestNodeKinds(t *testing.T) {
	require.Equal(t, cfr.TerminalNode, NewTerminal(0).Kind())
	require.Equal(t, cfr.ChanceNode, NewChance(NewTerminal(0)).Kind())
	require.Equal(t, cfr.PlayerNode, NewDecision(0, "x").Kind())
}

func TestDecisionLegalActions(t *testing.T) {
	d := NewDecision(0, "x").WithChild(Raise, NewTerminal(1))
	require.False(t, d.Legal(Fold))
	require.False(t, d.Legal(Call))
	require.True(t, d.Legal(Raise))
	require.Equal(t, 1, d.NumLegal())
	require.Nil(t, d.Child(Fold))
	require.NotNil(t, d.Child(Raise))
}

func TestNewGameTreeInvalid(t *testing.T) {
	testCases := []struct {
		name       string
		root       Node
		numPlayers int
	}{
		{"no players", NewTerminal(), 0},
		{"payoff length", NewTerminal(1, 2, 3), 2},
		{"empty chance", NewChance(), 1},
		{"nil chance child", NewChance(NewTerminal(1), nil), 1},
		{"no legal actions", NewDecision(0, "x"), 1},
		{"player out of range", NewDecision(2, "x").WithChild(Call, NewTerminal(0, 0)), 2},
		{"negative player", NewDecision(-1, "x").WithChild(Call, NewTerminal(0)), 1},
		{"nil root", nil, 1},
		{"typed nil terminal", NewChance(NewTerminal(1), (*Terminal)(nil)), 1},
		{"typed nil chance", NewChance((*Chance)(nil)), 1},
		{"typed nil decision child", NewDecision(0, "x").WithChild(Call, (*Decision)(nil)), 1},
		{"typed nil root", (*Decision)(nil), 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGameTree(tc.root, tc.numPlayers)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidTree), "got %v", err)
		})
	}
}

func TestSharedSubtree(t *testing.T) {
	shared := NewDecision(0, "s").WithChild(Call, NewTerminal(1))
	gt, err := NewGameTree(NewChance(shared, shared), 1)
	require.NoError(t, err)

	nodes, ok := gt.InfoSet("s")
	require.True(t, ok)
	require.Len(t, nodes, 1)
	require.Equal(t, 5, gt.NumNodes())
}

func TestDeepTree(t *testing.T) {
	var node Node = NewTerminal(1)
	for i := 0; i < 100000; i++ {
		node = NewChance(node)
	}

	gt, err := NewGameTree(node, 1)
	require.NoError(t, err)
	require.Equal(t, 100000, gt.Depth())
}
