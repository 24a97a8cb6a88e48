package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/draftpost/internal/core/ports/driving"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [site-id]",
	Short: "Queue local drafts for upload",
	Long: `Queues every local draft that is not already queued or uploading.
If a site ID is provided, only that site's drafts are queued.
Otherwise, all sites are swept. The command waits for the queued
uploads to finish before exiting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

// uploadTimeout bounds how long upload waits for the queue to drain.
var uploadTimeout time.Duration

func init() {
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 5*time.Minute, "How long to wait for uploads to finish")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	d.Queue.Start(ctx)

	var results []driving.SiteResult
	var enqueueErr error

	if len(args) > 0 {
		site, err := d.Sites.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("site %s: %w", args[0], err)
		}
		cmd.Printf("Queueing drafts for %s...\n", site.DisplayName())

		result, err := d.Uploader.QueueUploadFromSite(ctx, *site).Wait(ctx)
		results = append(results, result)
		enqueueErr = err
	} else {
		cmd.Println("Queueing drafts for all sites...")

		result, err := d.Uploader.SweepAll(ctx).Wait(ctx)
		results = result.Sites
		enqueueErr = err
	}

	printSiteResults(cmd, results)

	queued := d.Queue.Len()
	if queued > 0 {
		cmd.Printf("Waiting for %d uploads...\n", queued)
	}
	drainErr := d.Queue.Drain(ctx)
	if errors.Is(drainErr, context.DeadlineExceeded) {
		drainErr = fmt.Errorf("uploads still pending after %s", uploadTimeout)
	}

	if err := errors.Join(enqueueErr, drainErr); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Println(styled(cmd.OutOrStdout(), successStyle, "Uploads finished."))
	return nil
}

func printSiteResults(cmd *cobra.Command, results []driving.SiteResult) {
	if len(results) == 0 {
		cmd.Println("No sites configured.")
		return
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.SiteID,
			fmt.Sprintf("%d", r.Candidates),
			fmt.Sprintf("%d", r.Submitted),
			fmt.Sprintf("%d", r.Skipped),
			fmt.Sprintf("%d", r.Failed),
		})
	}
	cmd.Println(renderTable([]string{"Site", "Local drafts", "Queued", "Skipped", "Failed"}, rows, 1, 2, 3, 4))
}
