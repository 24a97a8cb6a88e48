package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Manage drafts",
	Long:  `Add, list, and mark drafts as synced.`,
}

var draftAddCmd = &cobra.Command{
	Use:   "add [site-id] [title]",
	Short: "Save a local draft",
	Args:  cobra.ExactArgs(2),
	RunE:  runDraftAdd,
}

var draftListCmd = &cobra.Command{
	Use:   "list [site-id]",
	Short: "List drafts for a site",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftList,
}

var draftMarkSyncedCmd = &cobra.Command{
	Use:   "mark-synced [doc-id] [remote-id]",
	Short: "Mark a draft as synced",
	Long:  `Clears the local-changes flag so the draft is no longer uploaded automatically.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDraftMarkSynced,
}

// Flags for the draft commands.
var (
	draftContent   string
	draftStatus    string
	draftLocalOnly bool
)

func init() {
	draftAddCmd.Flags().StringVarP(&draftContent, "content", "c", "", "Draft body")
	draftAddCmd.Flags().StringVar(&draftStatus, "status", string(domain.StatusDraft), "Remote status: draft, pending or publish")
	draftListCmd.Flags().BoolVar(&draftLocalOnly, "local", false, "Only list drafts with unsynced changes")

	draftCmd.AddCommand(draftAddCmd)
	draftCmd.AddCommand(draftListCmd)
	draftCmd.AddCommand(draftMarkSyncedCmd)
	rootCmd.AddCommand(draftCmd)
}

func parseStatus(s string) (domain.DocumentStatus, error) {
	switch status := domain.DocumentStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case domain.StatusDraft, domain.StatusPending, domain.StatusPublished:
		return status, nil
	default:
		return "", fmt.Errorf("%w: status %q", domain.ErrInvalidInput, s)
	}
}

func runDraftAdd(cmd *cobra.Command, args []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	status, err := parseStatus(draftStatus)
	if err != nil {
		return err
	}

	ctx := context.Background()
	site, err := d.Sites.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("site %s: %w", args[0], err)
	}

	doc := &domain.Document{
		SiteID:       site.ID,
		Title:        args[1],
		Content:      draftContent,
		Status:       status,
		LocalChanges: true,
		ModifiedAt:   time.Now(),
	}
	if err := d.Drafts.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	cmd.Println(styled(cmd.OutOrStdout(), successStyle, "Draft saved: "+doc.ID))
	return nil
}

func runDraftList(cmd *cobra.Command, args []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	siteID := args[0]
	ctx := context.Background()

	var docs []domain.Document
	if draftLocalOnly {
		docs, err = d.Drafts.LocalDrafts(ctx, domain.Site{ID: siteID})
	} else {
		docs, err = d.Drafts.ListDocuments(ctx, siteID)
	}
	if err != nil {
		return fmt.Errorf("failed to list drafts: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No drafts found for site: %s\n", siteID)
		return nil
	}

	rows := make([][]string, 0, len(docs))
	for i := range docs {
		state := "synced"
		if docs[i].IsLocalDraft() {
			state = "local"
		}
		rows = append(rows, []string{
			docs[i].ID,
			docs[i].Title,
			string(docs[i].Status),
			state,
			docs[i].ModifiedAt.Local().Format(time.DateTime),
		})
	}

	cmd.Println(renderTable([]string{"ID", "Title", "Status", "State", "Modified"}, rows))
	cmd.Println(styled(cmd.OutOrStdout(), mutedStyle, fmt.Sprintf("Total: %d drafts", len(docs))))
	return nil
}

func runDraftMarkSynced(cmd *cobra.Command, args []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	remoteID := ""
	if len(args) > 1 {
		remoteID = args[1]
	}

	if err := d.Drafts.MarkSynced(context.Background(), args[0], remoteID, 0); err != nil {
		return fmt.Errorf("failed to mark draft synced: %w", err)
	}

	cmd.Printf("Draft %s marked as synced.\n", args[0])
	return nil
}
