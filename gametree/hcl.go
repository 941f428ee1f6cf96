package gametree

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
)

// treeFile is the top-level layout of a game tree description:
//
//	players = 2
//
//	node "chance" {
//	  node "terminal" { payoffs = [1, -1] }
//	  node "decision" {
//	    player  = 0
//	    context = "K:"
//	    node "terminal" {
//	      action  = "fold"
//	      payoffs = [-1, 1]
//	    }
//	  }
//	}
type treeFile struct {
	Players int       `hcl:"players"`
	Root    nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	Kind string `hcl:"kind,label"`
	// Action names the move leading to this node when the parent is a
	// decision node.
	Action   *string     `hcl:"action,optional"`
	Payoffs  []float64   `hcl:"payoffs,optional"`
	Player   *int        `hcl:"player,optional"`
	Context  *string     `hcl:"context,optional"`
	Children []nodeBlock `hcl:"node,block"`
}

const (
	terminalKind = "terminal"
	chanceKind   = "chance"
	decisionKind = "decision"
)

// LoadFile reads the HCL game tree description in filename.
func LoadFile(filename string) (*GameTree, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	return decodeFile(file, diags)
}

// Parse reads an HCL game tree description from src. The filename is only
// used in diagnostics.
func Parse(src []byte, filename string) (*GameTree, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	return decodeFile(file, diags)
}

func decodeFile(file *hcl.File, diags hcl.Diagnostics) (*GameTree, error) {
	if diags.HasErrors() {
		return nil, errors.Wrapf(ErrInvalidTree, "failed to parse HCL: %s", diags.Error())
	}

	var tf treeFile
	if diags := gohcl.DecodeBody(file.Body, nil, &tf); diags.HasErrors() {
		return nil, errors.Wrapf(ErrInvalidTree, "failed to decode HCL: %s", diags.Error())
	}

	root, err := tf.Root.build()
	if err != nil {
		return nil, err
	}

	return NewGameTree(root, tf.Players)
}

func (b *nodeBlock) build() (Node, error) {
	switch b.Kind {
	case terminalKind:
		if len(b.Children) > 0 {
			return nil, errors.Wrap(ErrInvalidTree, "terminal node cannot have children")
		}

		payoffs := make([]float64, len(b.Payoffs))
		copy(payoffs, b.Payoffs)
		return NewTerminal(payoffs...), nil
	case chanceKind:
		children := make([]Node, len(b.Children))
		for i := range b.Children {
			child, err := b.Children[i].build()
			if err != nil {
				return nil, err
			}
			children[i] = child
		}

		return NewChance(children...), nil
	case decisionKind:
		if b.Player == nil || b.Context == nil {
			return nil, errors.Wrap(ErrInvalidTree, "decision node requires player and context")
		}

		d := NewDecision(*b.Player, *b.Context)
		for i := range b.Children {
			child := &b.Children[i]
			if child.Action == nil {
				return nil, errors.Wrapf(ErrInvalidTree,
					"child %d of decision node %q has no action", i, d.Context)
			}

			action, err := ParseAction(*child.Action)
			if err != nil {
				return nil, errors.Wrap(ErrInvalidTree, err.Error())
			}

			if d.Legal(action) {
				return nil, errors.Wrapf(ErrInvalidTree,
					"decision node %q has more than one %v child", d.Context, action)
			}

			node, err := child.build()
			if err != nil {
				return nil, err
			}
			d.WithChild(action, node)
		}

		return d, nil
	default:
		return nil, errors.Wrapf(ErrInvalidTree, "unknown node kind %q", b.Kind)
	}
}
