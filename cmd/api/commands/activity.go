package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"bookit/internal/database"
	"bookit/internal/models"
	"bookit/internal/repository"

	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:   "activity <entity-id>",
	Short: "Print the recorded event history of a user, theatre or show",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := repository.NewActivityRepository(db).ListByEntity(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printActivity(cmd.OutOrStdout(), args[0], records)
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
}

func printActivity(w io.Writer, entityID string, records []models.ActivityRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintf(w, "No activity recorded for %s\n", entityID)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBJECT\tOCCURRED\tRECORDED")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			rec.ID,
			rec.Subject,
			rec.OccurredAt.UTC().Format(time.RFC3339),
			rec.RecordedAt.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
