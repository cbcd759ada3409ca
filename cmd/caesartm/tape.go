package main

import (
	"github.com/aretw0/caesartm"
	"github.com/aretw0/caesartm/internal/cli"
	"github.com/aretw0/caesartm/internal/presentation/tape"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/spf13/cobra"
)

// tapeCmd prints the tape evolution grid without persisting anything.
var tapeCmd = &cobra.Command{
	Use:   "tape [text...]",
	Short: "Show the tape after every step",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		key, _ := cmd.Flags().GetInt("key")
		raw, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		text, err := runner.SanitizeInputLimit(raw, e.cfg.MaxInputSize)
		if err != nil {
			return err
		}

		m := caesartm.New(key, caesartm.WithLogger(e.logger))
		m.Load(text)
		if _, err := m.Run(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if md, _ := cmd.Flags().GetBool("markdown"); md {
			return printMarkdown(out, tape.Markdown(m.History()))
		}
		return tape.Render(out, m.History(), tape.Options{Profile: cli.ColorProfile(e.cfg.Color, out)})
	},
}

func init() {
	rootCmd.AddCommand(tapeCmd)
	addKeyFlag(tapeCmd)
	tapeCmd.Flags().Bool("markdown", false, "Render the grid as a Markdown table")
}
