// Command qlearn trains a tabular Q-learning agent on a wired transition
// map and reports what it learned.
//
//	qlearn train                          # 3x3 demo grid
//	qlearn train --config run.yaml        # custom wiring and parameters
//	qlearn train --chart charts/run.html --xlsx run.xlsx --metrics run.prom
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/qlearning/config"
	"github.com/CodeStranger-Fred/qlearning/mdp"
	"github.com/CodeStranger-Fred/qlearning/report"
)

// summaryWindow is the number of trailing episodes averaged in summaries
// and charts.
const summaryWindow = 100

type trainOptions struct {
	configPath  string
	episodes    int
	seed        uint64
	chartPath   string
	xlsxPath    string
	metricsPath string
	serveAddr   string
	noColor     bool
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "qlearn",
		Short:        "Tabular Q-learning on a deterministic transition map",
		SilenceUsage: true,
	}
	root.AddCommand(newTrainCmd())
	return root
}

func newTrainCmd() *cobra.Command {
	var opts trainOptions

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run training episodes and print the learned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("episodes") {
				cfg.Training.Episodes = opts.episodes
			}
			if cmd.Flags().Changed("seed") {
				cfg.Training.Seed = opts.seed
			}
			if opts.verbose {
				cfg.Log.Level = "debug"
			}
			if opts.serveAddr != "" && opts.chartPath == "" {
				return errors.New("--serve requires --chart")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runTrain(cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML run configuration")
	flags.IntVarP(&opts.episodes, "episodes", "n", 0, "number of training episodes")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 seeds from the clock")
	flags.StringVar(&opts.chartPath, "chart", "", "write a learning-curve HTML chart")
	flags.StringVar(&opts.xlsxPath, "xlsx", "", "write an XLSX training report")
	flags.StringVar(&opts.metricsPath, "metrics", "", "write Prometheus metrics in text format")
	flags.StringVar(&opts.serveAddr, "serve", "", "serve the chart directory on this address after training")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every episode")

	return cmd
}

func runTrain(cfg config.Config, opts trainOptions, out, errOut io.Writer) error {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	envOpts := []mdp.EnvironmentOption{mdp.WithLogger(logger)}
	agentOpts := []mdp.AgentOption{mdp.WithAgentLogger(logger)}
	if seed := cfg.Training.Seed; seed != 0 {
		envOpts = append(envOpts, mdp.WithRand(mdp.NewRand(seed)))
		agentOpts = append(agentOpts, mdp.WithAgentRand(mdp.NewRand(seed+1)))
	}

	env := mdp.NewEnvironment(envOpts...)
	grid, err := wire(env, cfg)
	if err != nil {
		return err
	}

	terminals := make(map[mdp.State]float64, len(cfg.Terminals))
	for s, r := range cfg.TerminalRewards() {
		terminals[mdp.State(s)] = r
	}

	agent := mdp.NewAgent(cfg.Agent.Alpha, cfg.Agent.Gamma, cfg.Agent.Epsilon, env, agentOpts...)
	registry := prometheus.NewRegistry()
	metrics, err := mdp.NewMetrics(registry)
	if err != nil {
		return err
	}
	trainer := mdp.NewTrainer(agent, mdp.Episode{
		Start:      mdp.State(cfg.Training.Start),
		Terminals:  terminals,
		StepBudget: cfg.Training.StepBudget,
	}, mdp.WithTrainerLogger(logger), mdp.WithMetrics(metrics))

	results, err := trainer.Train(cfg.Training.Episodes)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	summary := mdp.Summarize(results, summaryWindow)
	logger.Info("training finished",
		slog.Int("episodes", summary.Episodes),
		slog.Int("terminal", summary.Terminal),
		slog.Int("positive", summary.Positive),
		slog.Int("exhausted", summary.Exhausted),
		slog.Float64("mean_reward", summary.MeanReward),
		slog.Float64("mean_steps", summary.MeanSteps),
		slog.Int("window", summary.Window),
		slog.Int("entries", agent.Len()))

	printer := NewPrinter(out, !opts.noColor)
	printer.PrintQTable(agent.QTable())
	if grid != nil {
		printer.PrintPolicy(*grid, agent, terminals)
	}
	path, err := trainer.GreedyPath(mdp.State(cfg.Training.Start), len(env.States())+1)
	if err != nil {
		logger.Warn("greedy path incomplete", slog.Any("error", err))
	}
	printer.PrintPath(path)

	if opts.chartPath != "" {
		if err := PlotLearningCurve(results, summaryWindow, opts.chartPath); err != nil {
			return err
		}
		logger.Info("chart written", slog.String("path", opts.chartPath))
	}
	if opts.xlsxPath != "" {
		err := report.WriteWorkbook(opts.xlsxPath, report.Report{
			QTable:      agent.QTable(),
			Transitions: agent.Environment().Transitions(),
			Episodes:    results,
			ActionName:  ActionName,
		})
		if err != nil {
			return err
		}
		logger.Info("report written", slog.String("path", opts.xlsxPath))
	}
	if opts.metricsPath != "" {
		if err := prometheus.WriteToTextfile(opts.metricsPath, registry); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Info("metrics written", slog.String("path", opts.metricsPath))
	}
	if opts.serveAddr != "" {
		return ServeCharts(filepath.Dir(opts.chartPath), opts.serveAddr, logger)
	}
	return nil
}

// wire builds the transition relation from the explicit list when there is
// one, otherwise from the grid. The grid is returned for rendering.
func wire(env *mdp.Environment, cfg config.Config) (*GridWorld, error) {
	if len(cfg.Transitions) == 0 {
		grid := &GridWorld{Rows: cfg.Grid.Rows, Cols: cfg.Grid.Cols}
		grid.Wire(env)
		return grid, nil
	}

	for _, t := range cfg.Transitions {
		action, err := config.ParseAction(t.Action)
		if err != nil {
			return nil, err
		}
		env.SetTransition(mdp.State(t.From), mdp.Action(action), mdp.State(t.To))
	}
	return nil, nil
}
