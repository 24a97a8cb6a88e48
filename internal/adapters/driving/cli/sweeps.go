package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

var sweepsCmd = &cobra.Command{
	Use:   "sweeps",
	Short: "Show recent periodic sweeps",
	Long:  `Show the most recent runs of the periodic draft sweep, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runSweeps,
}

var sweepsLimit int

func init() {
	sweepsCmd.Flags().IntVarP(&sweepsLimit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(sweepsCmd)
}

func runSweeps(cmd *cobra.Command, _ []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}
	if d.Schedules == nil {
		return errors.New("sweep history not available")
	}
	if sweepsLimit < 1 {
		return fmt.Errorf("limit must be positive: %w", domain.ErrInvalidInput)
	}

	history, err := d.Schedules.History(context.Background(), domain.TaskIDDraftSweep, sweepsLimit)
	if err != nil {
		return fmt.Errorf("failed to load sweep history: %w", err)
	}
	if len(history) == 0 {
		cmd.Println("No sweeps recorded.")
		return nil
	}

	rows := make([][]string, 0, len(history))
	for _, r := range history {
		status := "ok"
		if !r.Success {
			status = r.Error
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.EndedAt.Sub(r.StartedAt).Round(1e6).String(),
			fmt.Sprintf("%d", r.ItemsProcessed),
			status,
		})
	}

	cmd.Println(renderTable([]string{"Started", "Took", "Queued", "Status"}, rows, 2))
	return nil
}
