package cmd

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"db-evolve/internal/builder"
	"db-evolve/internal/dialect"
	"db-evolve/internal/schemafile"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply <target.yaml>",
	Short: "Create the target schema on the configured database",
	Long: `Replays every table of the target definition through the schema
builder, parents before children, and executes the emitted DDL against
the configured database in a single transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := schemafile.Load(args[0])
		if err != nil {
			return err
		}

		db, driver, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		d := dialect.GetDialect(driver)
		b, err := builder.NewFromTarget(target, dialect.NewEmitter(d))
		if err != nil {
			return err
		}
		commands := b.Commands()

		if applyDryRun {
			for _, c := range commands {
				fmt.Println(c + ";")
			}
			return nil
		}

		fmt.Printf("Applying %d statements via %s\n", len(commands), driver)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(commands)).AppendCompleted().PrependElapsed()
		for _, command := range commands {
			if _, err := tx.Exec(command); err != nil {
				uiprogress.Stop()
				tx.Rollback()
				return fmt.Errorf("statement failed (%s): %w", command, err)
			}
			bar.Incr()
		}
		uiprogress.Stop()

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		fmt.Printf("Applied %d tables\n", target.Len())
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "print the DDL without executing it")
	RootCmd.AddCommand(applyCmd)
}
