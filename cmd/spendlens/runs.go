package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/storage"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted categorization runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}

			store, err := storage.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tDATE\tTOTAL\tRULE\tINFERENCE\tFALLBACK\tBATCHES\tDEGRADED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%v\n",
					run.ID, run.CreatedAt.Format("2006-01-02 15:04"),
					run.Stats.Total, run.Stats.ByRule, run.Stats.ByInference,
					run.Stats.ByFallback, run.Stats.BatchesIssued, run.Stats.Degraded())
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("db", "", "SQLite database path")

	return cmd
}
