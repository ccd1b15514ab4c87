package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var gazetteerCmd = &cobra.Command{
	Use:   "gazetteer",
	Short: "List the places the location resolver knows",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := initResolver()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CITY\tLAT\tLNG")
		for _, c := range resolver.Cities() {
			fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", c.Name, c.Lat, c.Lng)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "\nDistricts: %s\n", strings.Join(resolver.Districts(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gazetteerCmd)
}
