package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/store"
)

var (
	runsStatus string
	runsQuery  string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past search runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent search runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(runsStatus),
			Query:  runsQuery,
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stdout, "No runs found")
			return nil
		}

		return formatRunsList(os.Stdout, runs)
	},
}

// formatRunsList renders runs as an aligned table.
func formatRunsList(out io.Writer, runs []model.Run) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQUERY\tLOCATION\tSTATUS\tFOUND\tCREATED")
	for _, r := range runs {
		loc := ""
		if r.Parameters.Location != nil {
			loc = r.Parameters.Location.City
			if loc == "" {
				loc = r.Parameters.Location.District
			}
		}
		found := "-"
		if r.Result != nil {
			found = fmt.Sprintf("%d", r.Result.TotalFound)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(r.ID), r.Parameters.Query, loc, r.Status,
			found, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// truncateID shortens a UUID for table display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	runsListCmd.Flags().StringVar(&runsStatus, "status", "", "filter by status (queued, running, complete, failed)")
	runsListCmd.Flags().StringVar(&runsQuery, "query", "", "filter by query substring")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum rows to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
