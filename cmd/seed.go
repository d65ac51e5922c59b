package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"db-evolve/internal/dialect"
	"db-evolve/internal/engine"
	"db-evolve/internal/schemafile"
)

var (
	seedRows   int
	seedDriver string
	seedValue  int64
)

var seedCmd = &cobra.Command{
	Use:   "seed <target.yaml>",
	Short: "Generate sample INSERT statements for a schema definition",
	Long: `Generates fake-but-plausible rows for every table of the
definition, parents before children so foreign keys resolve. The output
is meant to be pasted into the Seed body of a generated migration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := schemafile.Load(args[0])
		if err != nil {
			return err
		}

		ordered, err := target.DependencyOrderedTables()
		if err != nil {
			return err
		}

		engine.SetSeed(seedValue)
		d := dialect.GetDialect(seedDriver)
		for _, t := range ordered {
			for _, stmt := range engine.InsertStatements(d, t, seedRows) {
				fmt.Println(stmt + ";")
			}
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedRows, "rows", 10, "rows to generate per table")
	seedCmd.Flags().StringVar(&seedDriver, "driver", "mysql", "dialect used to render the statements")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 1, "random seed, fixed so output is reproducible")
	RootCmd.AddCommand(seedCmd)
}
