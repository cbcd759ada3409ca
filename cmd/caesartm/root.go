package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/caesartm/internal/cli"
	"github.com/aretw0/caesartm/internal/config"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/observability"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "caesartm",
	Short: "caesartm simulates a Turing machine that applies a Caesar cipher",
	Long: `caesartm runs a deterministic Turing machine over the alphabet A-Z that shifts
every letter by a key K modulo 26, recording a snapshot of the tape after each step.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every transition to stderr")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("store", "", "Run store: none, memory, redis, sqlite")
	rootCmd.PersistentFlags().String("color", "", "Colour output: auto, always, never")
}

// app bundles what every command builds from flags and config.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	debug  bool
}

// loadEnv resolves configuration with flags taking precedence over the file
// and environment.
func loadEnv(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("store") {
		cfg.Store.Driver, _ = flags.GetString("store")
	}
	if flags.Changed("color") {
		cfg.Color, _ = flags.GetString("color")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug, _ := flags.GetBool("debug")
	return &app{
		cfg:    cfg,
		logger: cli.CreateLogger(debug, cfg.LogLevel),
		debug:  debug,
	}, nil
}

// newRunner opens the configured store and builds a runner around it. The
// closer must be called when the command finishes.
func (e *app) newRunner(cmd *cobra.Command, hooks ...domain.LifecycleHooks) (*runner.Runner, io.Closer, error) {
	store, closer, err := cli.OpenStore(cmd.Context(), e.cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	if e.debug {
		hooks = append(hooks, observability.LoggingHooks(e.logger))
	}

	opts := []runner.Option{
		runner.WithLogger(e.logger),
		runner.WithMaxInputSize(e.cfg.MaxInputSize),
		runner.WithHooks(domain.MergeHooks(hooks...)),
	}
	if store != nil {
		opts = append(opts, runner.WithStore(store))
	}
	return runner.NewRunner(opts...), closer, nil
}

// inputText joins positional arguments, falling back to stdin when none are given.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func addKeyFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("key", "k", 3, "Shift key K (any integer)")
}
