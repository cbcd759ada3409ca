package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/caesartm/internal/cli"
	"github.com/aretw0/caesartm/internal/presentation/tape"
	"github.com/aretw0/caesartm/internal/presentation/tui"
	"github.com/aretw0/caesartm/pkg/runner"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [text...]",
	Short: "Encrypt text (reads stdin when no text is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOneShot(cmd, args, "encode")
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [text...]",
	Short: "Decrypt text by running the machine with the inverse key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOneShot(cmd, args, "decode")
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit [text...]",
	Short: "Encrypt, decrypt with a second machine, and check the input is recovered",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOneShot(cmd, args, "audit")
	},
}

// errAuditFailed makes the process exit non-zero when a round trip breaks.
var errAuditFailed = errors.New("integrity audit failed")

func runOneShot(cmd *cobra.Command, args []string, op string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	key, _ := cmd.Flags().GetInt("key")
	text, err := inputText(cmd, args)
	if err != nil {
		return err
	}

	r, closer, err := e.newRunner(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	var res *runner.Result
	switch op {
	case "encode":
		res, err = r.Encode(cmd.Context(), key, text)
	case "decode":
		res, err = r.Decode(cmd.Context(), key, text)
	default:
		res, err = r.Audit(cmd.Context(), key, text)
	}
	if errors.Is(err, runner.ErrPersist) && res != nil {
		e.logger.Warn("Run not persisted", "error", err)
	} else if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	report, _ := cmd.Flags().GetBool("report")
	trace, _ := cmd.Flags().GetBool("trace")

	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	case report || op == "audit":
		if err := printMarkdown(out, tui.Report(res, trace)); err != nil {
			return err
		}
	default:
		fmt.Fprintln(out, res.Run.Output)
		if trace {
			if err := tape.Render(out, res.Run.History, tape.Options{Profile: cli.ColorProfile(e.cfg.Color, out)}); err != nil {
				return err
			}
		}
	}

	if res.Audit != nil && !res.Audit.Reversible {
		return errAuditFailed
	}
	return nil
}

func printMarkdown(w io.Writer, md string) error {
	rendered, err := tui.NewRenderer(!cli.IsTerminal(w))(md)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

func init() {
	for _, c := range []*cobra.Command{encodeCmd, decodeCmd, auditCmd} {
		rootCmd.AddCommand(c)
		addKeyFlag(c)
		c.Flags().Bool("json", false, "Print the result (run, history, audit) as JSON")
		c.Flags().Bool("report", false, "Print a Markdown report")
		c.Flags().Bool("trace", false, "Include the tape evolution")
	}
}
