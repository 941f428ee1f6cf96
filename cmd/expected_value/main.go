// Compute the expected value of each player's strategy in a game tree.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/tengshiquan/pycfr"
	"github.com/tengshiquan/pycfr/gametree"
	"github.com/tengshiquan/pycfr/internal/cmdutil"
)

const defaultStrategyName = "(uniform)"

var cli struct {
	Tree       string   `arg:"" type:"existingfile" help:"HCL file describing the game tree"`
	Strategies []string `arg:"" optional:"" help:"Strategy file for each player, in player order. Omit to play the uniform default strategy for every player."`

	Parallel  int     `help:"Evaluate subtrees below the root with this many workers (0 evaluates sequentially)" default:"0"`
	Samples   int     `help:"Also estimate the expected value from this many sampled games" default:"0"`
	Seed      int64   `help:"Random seed used when sampling games" default:"123"`
	Validate  bool    `help:"Check that every loaded distribution sums to one"`
	Tolerance float64 `help:"Tolerance used by --validate" default:"1e-6"`
	DebugAddr string  `help:"Serve pprof and expvar counters on this address" placeholder:"HOST:PORT"`
	Verbosity int     `short:"v" help:"glog verbosity level" default:"0"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("expected_value"),
		kong.Description("Compute the expected value of a strategy profile in an extensive-form game."),
		kong.UsageOnError(),
	)

	cmdutil.SetupLogging(cli.Verbosity)
	cmdutil.ServeDebug(cli.DebugAddr)

	glog.Infof("Loading game tree from: %v", cli.Tree)
	tree, err := gametree.LoadFile(cli.Tree)
	if err != nil {
		glog.Fatal(err)
	}
	glog.Infof("Loaded tree with %d nodes (%d terminal) and %d information sets",
		tree.NumNodes(), tree.CountTerminalNodes(), len(tree.InformationSets()))

	strategies, err := loadStrategies(tree, cli.Strategies)
	if err != nil {
		glog.Fatal(err)
	}

	policies := make([]pycfr.Policy, len(strategies))
	for i, s := range strategies {
		policies[i] = s
	}

	profile, err := pycfr.NewStrategyProfile(tree, policies)
	if err != nil {
		glog.Fatal(err)
	}

	var ev []float64
	if cli.Parallel > 0 {
		ev, err = profile.ExpectedValueParallel(context.Background(), cli.Parallel)
	} else {
		ev, err = profile.ExpectedValue()
	}
	if err != nil {
		glog.Fatal(err)
	}

	var estimate []float64
	if cli.Samples > 0 {
		glog.Infof("Sampling %d games", cli.Samples)
		rng := rand.New(rand.NewSource(cli.Seed))
		estimate, err = profile.EstimateExpectedValue(rng, cli.Samples)
		if err != nil {
			glog.Fatal(err)
		}
	}

	if err := printResults(ev, estimate); err != nil {
		glog.Fatal(err)
	}
}

// loadStrategies loads one strategy file per player concurrently, or
// builds the default strategies if no files are given.
func loadStrategies(tree *gametree.GameTree, filenames []string) ([]*pycfr.Strategy, error) {
	strategies := make([]*pycfr.Strategy, tree.NumPlayers())
	if len(filenames) == 0 {
		glog.Info("No strategy files given, using uniform default strategies")
		for player := range strategies {
			strategies[player] = pycfr.NewDefaultStrategy(tree, player)
		}

		return strategies, nil
	}

	if len(filenames) != tree.NumPlayers() {
		return nil, fmt.Errorf("game has %d players, got %d strategy files",
			tree.NumPlayers(), len(filenames))
	}

	var g errgroup.Group
	for player, filename := range filenames {
		player, filename := player, filename
		g.Go(func() error {
			s := pycfr.NewStrategy(player)
			if err := s.LoadFromFile(filename); err != nil {
				return err
			}

			if cli.Validate {
				if err := s.Validate(cli.Tolerance); err != nil {
					return err
				}
			}

			strategies[player] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return strategies, nil
}

// printResults renders a table of expected values, with a column of
// sampled estimates if estimate is non-nil.
func printResults(ev, estimate []float64) error {
	header := []string{"Player", "Strategy", "Expected value"}
	if estimate != nil {
		header = append(header, "Sampled estimate")
	}

	data := pterm.TableData{header}
	for player, v := range ev {
		name := defaultStrategyName
		if player < len(cli.Strategies) {
			name = cli.Strategies[player]
		}

		row := []string{strconv.Itoa(player), name, fmt.Sprintf("%.9f", v)}
		if estimate != nil {
			row = append(row, fmt.Sprintf("%.6f", estimate[player]))
		}
		data = append(data, row)
	}

	total := []string{"total", "", fmt.Sprintf("%.9f", floats.Sum(ev))}
	if estimate != nil {
		total = append(total, fmt.Sprintf("%.6f", floats.Sum(estimate)))
	}
	data = append(data, total)

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
