package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"db-evolve/internal/schema"
	"db-evolve/internal/schemafile"
)

var diffCmd = &cobra.Command{
	Use:   "diff <existing.yaml> <target.yaml>",
	Short: "Show the structural difference between two schema definitions",
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

		diff := existing.DifferenceFrom(target)
		if diff.Empty() {
			fmt.Println("Schemas are identical")
			return nil
		}
		printDifference(diff)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(diffCmd)
}

func printDifference(diff *schema.SchemaDifference) {
	for _, name := range diff.TableNamesToAdd {
		fmt.Printf("+ table %s\n", name)
	}
	for _, name := range diff.TableNamesToDelete {
		fmt.Printf("- table %s\n", name)
	}
	for _, td := range diff.DifferingTables {
		fmt.Printf("~ table %s\n", td.Actual.Name)
		for _, name := range td.ColumnNamesToAdd {
			fmt.Printf("  + column %s\n", name)
		}
		for _, name := range td.ColumnNamesToDelete {
			fmt.Printf("  - column %s\n", name)
		}
		for _, cd := range td.DifferingColumns {
			fmt.Printf("  ~ column %s: %s\n", cd.Actual.Name, describeColumnChange(cd))
		}
	}
}

func describeColumnChange(cd *schema.ColumnDifference) string {
	old, want := cd.Actual, cd.Expected
	var parts []string
	if old.Type != want.Type {
		parts = append(parts, fmt.Sprintf("type %s -> %s", old.Type, want.Type))
	}
	if old.Nullable != want.Nullable {
		parts = append(parts, fmt.Sprintf("nullable %t -> %t", old.Nullable, want.Nullable))
	}
	if old.Indexed != want.Indexed {
		parts = append(parts, fmt.Sprintf("indexed %t -> %t", old.Indexed, want.Indexed))
	}
	if old.Unique != want.Unique {
		parts = append(parts, fmt.Sprintf("unique %t -> %t", old.Unique, want.Unique))
	}
	if old.Default != want.Default {
		parts = append(parts, fmt.Sprintf("default %q -> %q", old.Default, want.Default))
	}
	if old.DeleteRule != want.DeleteRule {
		parts = append(parts, fmt.Sprintf("on-delete %q -> %q", old.DeleteRule, want.DeleteRule))
	}
	if old.AutoInc != want.AutoInc {
		parts = append(parts, fmt.Sprintf("auto-increment %t -> %t", old.AutoInc, want.AutoInc))
	}
	if old.PrimaryKey != want.PrimaryKey {
		parts = append(parts, fmt.Sprintf("primary-key %t -> %t", old.PrimaryKey, want.PrimaryKey))
	}
	if old.RefTable != want.RefTable || old.RefColumn != want.RefColumn {
		parts = append(parts, fmt.Sprintf("references %s.%s -> %s.%s", old.RefTable, old.RefColumn, want.RefTable, want.RefColumn))
	}
	if len(parts) == 0 {
		return "changed"
	}
	return strings.Join(parts, ", ")
}
