package main

import (
	"fmt"
	"os"

	"github.com/aretw0/caesartm/internal/presentation/graph"
	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state diagram",
	Long:  `Outputs a Mermaid diagram (graph LR) of the machine's states and transitions for a key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetInt("key")
		output := graph.GenerateMermaid(domain.BuildTable(key), nil)

		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		}
		if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write diagram: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Diagram written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addKeyFlag(graphCmd)
	graphCmd.Flags().StringP("out", "o", "", "Write the diagram to a file instead of stdout")
}
