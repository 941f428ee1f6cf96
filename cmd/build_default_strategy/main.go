// Write the uniform default strategy of each player in a game tree.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"

	"github.com/tengshiquan/pycfr"
	"github.com/tengshiquan/pycfr/gametree"
	"github.com/tengshiquan/pycfr/internal/cmdutil"
)

var cli struct {
	Tree      string `arg:"" type:"existingfile" help:"HCL file describing the game tree"`
	Output    string `short:"o" help:"Output filename pattern, %d is replaced by the player. Use a .gz suffix to compress." default:"strategy_p%d.txt"`
	Verbosity int    `short:"v" help:"glog verbosity level" default:"0"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("build_default_strategy"),
		kong.Description("Write a strategy file per player that plays uniformly over the legal actions."),
		kong.UsageOnError(),
	)

	cmdutil.SetupLogging(cli.Verbosity)

	tree, err := gametree.LoadFile(cli.Tree)
	if err != nil {
		glog.Fatal(err)
	}

	for player := 0; player < tree.NumPlayers(); player++ {
		s := pycfr.NewDefaultStrategy(tree, player)
		filename := fmt.Sprintf(cli.Output, player)
		if err := s.SaveToFile(filename); err != nil {
			glog.Fatal(err)
		}

		glog.Infof("Wrote %d contexts for player %d to %v", s.Len(), player, filename)
	}
}
