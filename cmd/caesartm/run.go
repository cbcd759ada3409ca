package main

import (
	"strings"

	"github.com/aretw0/caesartm"
	"github.com/aretw0/caesartm/internal/cli"
	"github.com/aretw0/caesartm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive menu",
	Long: `Shows a menu that asks for a key and a message, runs and audits the machine,
prints the report and tape evolution, and writes the state diagram, tape grid and
trace to the export directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("export-dir") {
			e.cfg.Export.Dir, _ = flags.GetString("export-dir")
		}
		if flags.Changed("format") {
			e.cfg.Export.Format, _ = flags.GetString("format")
		}

		r, closer, err := e.newRunner(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		out := cmd.OutOrStdout()
		return cli.RunInteractive(sigCtx, cli.SessionOptions{
			In:      cmd.InOrStdin(),
			Out:     out,
			Runner:  r,
			Export:  e.cfg.Export,
			Profile: cli.ColorProfile(e.cfg.Color, out),
			Version: strings.TrimSpace(caesartm.Version),
			Logger:  e.logger,
			Render:  tui.NewRenderer(!cli.IsTerminal(out)),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("export-dir", "", "Directory for generated artefacts")
	runCmd.Flags().String("format", "", "Trace format: csv, json, yaml")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
}
