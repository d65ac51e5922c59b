package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"db-evolve/internal/schemafile"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <schema.yaml>",
	Short: "Parse a definition file and print it back normalized",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schemafile.Load(args[0])
		if err != nil {
			return err
		}
		os.Stdout.Write(schemafile.Marshal(s))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dumpCmd)
}
