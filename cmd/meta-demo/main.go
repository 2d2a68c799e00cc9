package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/glimte/meta-go/interceptors"
	"github.com/glimte/meta-go/journal"
	"github.com/glimte/meta-go/object"
	"github.com/glimte/meta-go/property"
	"github.com/glimte/meta-go/signals"
)

var (
	// Version information
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		delayed bool
	)

	rootCmd := &cobra.Command{
		Use:   "meta-demo",
		Short: "Demonstrate signal/slot wiring between properties",
		Long: `meta-demo wires two string properties together, assigns a new value
and prints how the change propagates. With --delayed the second property is
bound through a queued connection and only updates when its slot is drained.`,
		Version:      fmt.Sprintf("%s (commit: %s)", version, gitCommit),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			return run(cmd.OutOrStdout(), logger, delayed)
		},
	}

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log connection lifecycle and deliveries")
	rootCmd.Flags().BoolVarP(&delayed, "delayed", "d", false, "Bind the second property with a delayed connection")

	return rootCmd
}

func run(out io.Writer, logger *slog.Logger, delayed bool) error {
	j := journal.NewInMemoryJournal()
	registry := signals.NewRegistry(
		signals.WithLogger(logger),
		signals.WithJournal(j),
		signals.WithInterceptorChain(interceptors.NewChainBuilder(logger).
			WithRecovery().
			WithLogging().
			Build()),
	)

	propA, err := property.New(registry, "Mango", property.WithName("prop_a"))
	if err != nil {
		return fmt.Errorf("failed to create prop_a: %w", err)
	}
	propB, err := property.New(registry, "Banane", property.WithName("prop_b"))
	if err != nil {
		return fmt.Errorf("failed to create prop_b: %w", err)
	}

	obj, err := object.New(registry, object.WithName("example"), object.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if err := object.Register(obj, "prop_a", propA); err != nil {
		return err
	}
	if err := object.Register(obj, "prop_b", propB); err != nil {
		return err
	}

	// prop_a drives itself, which must settle after one assignment
	if _, err := signals.Connect(propA.Changed, propA.Set, signals.Direct); err != nil {
		return fmt.Errorf("failed to connect prop_a to itself: %w", err)
	}

	mode := signals.Direct
	if delayed {
		mode = signals.Delayed
	}
	if _, err := signals.Connect(propA.Changed, propB.Set, mode); err != nil {
		return fmt.Errorf("failed to connect prop_a to prop_b: %w", err)
	}

	fmt.Fprintln(out, propA.Get())
	fmt.Fprintln(out, propB.Get())

	propA.Assign("Keks")

	fmt.Fprintln(out, propA.Get())
	fmt.Fprintln(out, propB.Get())

	if delayed {
		n := propB.Set.DoWork()
		fmt.Fprintf(out, "drained %d queued update(s)\n", n)
		fmt.Fprintln(out, propB.Get())
	}

	fmt.Fprintf(out, "changed: %v\n", obj.Flush())

	obj.Close()
	propA.Close()
	propB.Close()

	stats := registry.Stats()
	logger.Debug("registry stats",
		"emissions", stats.Emissions,
		"dispatches", stats.Dispatches,
		"enqueued", stats.Enqueued,
		"drained", stats.Drained,
		"live", stats.Live,
		"journalEntries", j.Len(),
	)

	return nil
}
