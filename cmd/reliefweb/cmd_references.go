package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var referencesCmd = &cobra.Command{
	Use:       "references [countries|disaster-types]",
	Short:     "Print a reference list",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"countries", "disaster-types"},
	RunE: func(cmd *cobra.Command, args []string) error {
		refs, err := loadReferences(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch args[0] {
		case "countries":
			for _, name := range refs.Countries.Names() {
				fmt.Fprintln(out, name)
			}
		case "disaster-types":
			for _, name := range refs.DisasterTypes.Names() {
				fmt.Fprintf(out, "%s\t%s\n", refs.DisasterIndex.NameToID[name], name)
			}
		}
		return nil
	},
}
