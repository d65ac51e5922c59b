package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"db-evolve/internal/dialect"
	"db-evolve/internal/inspect"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table in the connected database",
	Long: `Introspects the live schema and drops all tables in reverse
dependency order, children before parents, so no drop ever trips over a
foreign key that still references the table.`,
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
		if s.Len() == 0 {
			fmt.Println("Nothing to drop")
			return nil
		}

		ordered, err := s.DependencyOrderedTables()
		if err != nil {
			return err
		}

		if !dropForce {
			fmt.Printf("About to drop %d tables from %s. Type 'yes' to continue: ", s.Len(), schemaName)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(answer) != "yes" {
				fmt.Println("Aborted")
				return nil
			}
		}

		for i := len(ordered) - 1; i >= 0; i-- {
			stmt := d.DropTable(ordered[i].Name)
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("statement failed (%s): %w", stmt, err)
			}
			fmt.Printf("Dropped %s\n", ordered[i].Name)
		}
		return nil
	},
}

func init() {
	dropCmd.Flags().BoolVar(&dropForce, "force", false, "skip the confirmation prompt")
	RootCmd.AddCommand(dropCmd)
}
