package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"db-evolve/internal/schemafile"
	"db-evolve/internal/synth"
)

var (
	planVersion int
	planOutput  string
)

var planCmd = &cobra.Command{
	Use:   "plan <existing.yaml> <target.yaml>",
	Short: "Generate migration source from two schema definitions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, err := schemafile.Load(args[0])
		if err != nil {
			return err
		}
		target, err := schemafile.Load(args[1])
		if err != nil {
			return err
		}

		source, err := synth.Synthesize(existing, target, planVersion)
		if err != nil {
			return err
		}

		if planOutput == "" {
			fmt.Print(source)
			return nil
		}
		if err := os.WriteFile(planOutput, []byte(source), 0644); err != nil {
			return fmt.Errorf("failed to write migration: %w", err)
		}
		fmt.Printf("Wrote migration %d to %s\n", planVersion, planOutput)
		return nil
	},
}

func init() {
	planCmd.Flags().IntVar(&planVersion, "version", 1, "migration version number")
	planCmd.Flags().StringVarP(&planOutput, "out", "o", "", "write generated source to file instead of stdout")
	RootCmd.AddCommand(planCmd)
}
