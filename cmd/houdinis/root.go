// Command houdinis is a thin cobra client of qcore/dispatcher — the
// quantum-execution-core subsystem this repository implements (spec.md
// §1). It replaces the out-of-scope interactive console/REPL with a
// handful of subcommands that build a circuit, submit it, and print the
// result; it carries no resource-script engine, module registry, or
// banner (spec.md Non-goals), matching SPEC_FULL.md §2.4.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/firebitsbr/houdinis/internal/config"
	"github.com/firebitsbr/houdinis/internal/logger"
	"github.com/firebitsbr/houdinis/qcore/dispatcher"
	"github.com/firebitsbr/houdinis/qcore/provider"
	"github.com/firebitsbr/houdinis/qcore/simulator"
)

var (
	cfgFile string
	debug   bool
	seed    uint64
)

var rootCmd = &cobra.Command{
	Use:   "houdinis",
	Short: "Quantum execution core CLI: devices, submit, bench, and algorithmic kernels",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an optional YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "deterministic RNG seed (omit for OS entropy)")

	rootCmd.AddCommand(devicesCmd, submitCmd, benchCmd, shorCmd, groverCmd, qftCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// buildDispatcher resolves config, constructs a logger, and registers
// the in-process LocalSimulator as the default provider (SPEC_FULL.md's
// CLI is a thin dispatcher client, not a provider-credential manager;
// remote providers would be registered the same way given real
// credentials via --config).
func buildDispatcher(cmd *cobra.Command) (*dispatcher.Dispatcher, config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}

	log := logger.NewLogger(logger.LoggerOptions{Debug: cfg.Debug}).SpawnForService("houdinis-cli")
	d := dispatcher.New(log, provider.SystemClock{})

	rngf := func() simulator.RNG { return simulator.NewEntropyRNG() }
	if cmd.Flags().Changed("seed") {
		s := seed
		rngf = func() simulator.RNG { return simulator.NewSeededRNG(s) }
	} else if cfg.HasSeed {
		s := cfg.DefaultSeed
		rngf = func() simulator.RNG { return simulator.NewSeededRNG(s) }
	}

	local := provider.NewLocalSimulator("local", cfg.LocalQubits, rngf)
	if err := d.RegisterProvider(context.Background(), local, provider.Credentials{}); err != nil {
		return nil, config.Config{}, fmt.Errorf("register local simulator: %w", err)
	}

	itsu := provider.NewItsuHardware("itsu", cfg.LocalQubits)
	if err := d.RegisterProvider(context.Background(), itsu, provider.Credentials{}); err != nil {
		return nil, config.Config{}, fmt.Errorf("register itsu hardware device: %w", err)
	}
	return d, cfg, nil
}

func awaitAndPrint(ctx context.Context, d *dispatcher.Dispatcher, jobID dispatcher.JobID, timeout time.Duration, title string) error {
	snap, err := d.AwaitResult(ctx, jobID, timeout)
	if err != nil {
		return err
	}
	if snap.Err != nil {
		return snap.Err
	}
	if snap.Result == nil {
		fmt.Println("job finished with no result")
		return nil
	}
	printHistogram(title, snap.Result.Counts, snap.Result.ShotsExecuted)
	return nil
}
