package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/caesartm/internal/cli"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/export"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [text...]",
	Short: "Write a run's trace to a file",
	Long: `Runs the machine on the given text (or loads a stored run with --run) and writes
its trace. The format is taken from --format or from the output file extension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		path, _ := flags.GetString("out")

		format, err := exportFormat(cmd, path)
		if err != nil {
			return err
		}

		r, closer, err := e.newRunner(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		var run *domain.Run
		if id, _ := flags.GetString("run"); id != "" {
			if r.Store == nil {
				return errors.New("--run needs a run store; set --store")
			}
			if run, err = r.Store.Load(cmd.Context(), id); err != nil {
				return err
			}
		} else {
			key, _ := flags.GetInt("key")
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			res, err := r.Encode(cmd.Context(), key, text)
			if errors.Is(err, runner.ErrPersist) && res != nil {
				e.logger.Warn("Run not persisted", "error", err)
			} else if err != nil {
				return err
			}
			run = res.Run
		}

		if path == "" {
			return export.Write(cmd.OutOrStdout(), format, run.History)
		}
		if err := export.SaveFile(path, format, run.History); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Trace exported to: %s\n", path)
		return nil
	},
}

func exportFormat(cmd *cobra.Command, path string) (export.Format, error) {
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		return export.ParseFormat(f)
	}
	if path != "" {
		return export.FormatFromPath(path)
	}
	return export.FormatCSV, nil
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored run IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		store, closer, err := cli.OpenStore(cmd.Context(), e.cfg.Store)
		if err != nil {
			return err
		}
		defer closer.Close()
		if store == nil {
			return errors.New("run store disabled")
		}

		ids, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runsCmd)
	addKeyFlag(exportCmd)
	exportCmd.Flags().StringP("out", "o", "", "Output file (stdout when empty)")
	exportCmd.Flags().String("format", "", "Trace format: csv, json, yaml")
	exportCmd.Flags().String("run", "", "Export a stored run instead of running the machine")
}
