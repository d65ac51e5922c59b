package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"db-evolve/internal/dialect"
	"db-evolve/internal/inspect"
	"db-evolve/internal/schemafile"
)

var pullOutput string

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Dump the live database schema as a definition file",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, driver, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		d := dialect.GetDialect(driver)
		schemaName, err := currentSchemaName(db, driver)
		if err != nil {
			return err
		}

		s, err := inspect.Schema(db, d, schemaName)
		if err != nil {
			return err
		}

		if pullOutput == "" {
			os.Stdout.Write(schemafile.Marshal(s))
			return nil
		}
		if err := schemafile.Save(s, pullOutput); err != nil {
			return err
		}
		fmt.Printf("Wrote %d tables to %s\n", s.Len(), pullOutput)
		return nil
	},
}

func init() {
	pullCmd.Flags().StringVarP(&pullOutput, "out", "o", "", "write the definition to file instead of stdout")
	RootCmd.AddCommand(pullCmd)
}
