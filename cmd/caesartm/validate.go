package main

import (
	"fmt"

	"github.com/aretw0/caesartm/internal/validator"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the transition table for consistency",
	Long: `Crawls the transition table from the processing state and reports missing rules,
non-bijective letter mappings and an unreachable halted state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetInt("key")
		table := domain.BuildTable(key)
		if err := validator.ValidateTable(table, domain.StateProcessing); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Machine is valid! ✅ (%d rules, shift %d)\n", table.Len(), table.Shift())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addKeyFlag(validateCmd)
}
