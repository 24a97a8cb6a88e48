package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage sites",
	Long:  `Add and list the sites drafts are uploaded to.`,
}

var siteAddCmd = &cobra.Command{
	Use:   "add [name] [url]",
	Short: "Add a site",
	Args:  cobra.ExactArgs(2),
	RunE:  runSiteAdd,
}

var siteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sites",
	Args:  cobra.NoArgs,
	RunE:  runSiteList,
}

// siteID is a flag for the add command.
var siteID string

func init() {
	siteAddCmd.Flags().StringVar(&siteID, "id", "", "Site ID (generated if empty)")

	siteCmd.AddCommand(siteAddCmd)
	siteCmd.AddCommand(siteListCmd)
	rootCmd.AddCommand(siteCmd)
}

func runSiteAdd(cmd *cobra.Command, args []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	ctx := context.Background()
	site := domain.Site{ID: siteID, Name: args[0], URL: args[1]}
	if site.ID != "" {
		if _, err := d.Sites.Get(ctx, site.ID); err == nil {
			return fmt.Errorf("site %s: %w", site.ID, domain.ErrAlreadyExists)
		}
	}

	if err := d.Sites.Save(ctx, site); err != nil {
		return fmt.Errorf("failed to add site: %w", err)
	}

	cmd.Println(styled(cmd.OutOrStdout(), successStyle, "Site added: "+site.DisplayName()))
	return nil
}

func runSiteList(cmd *cobra.Command, _ []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	ctx := context.Background()
	sites, err := d.Sites.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		cmd.Println("No sites configured.")
		return nil
	}

	rows := make([][]string, 0, len(sites))
	for i := range sites {
		local, err := d.Drafts.LocalDrafts(ctx, sites[i])
		if err != nil {
			return fmt.Errorf("failed to load drafts for %s: %w", sites[i].ID, err)
		}
		rows = append(rows, []string{
			sites[i].ID,
			sites[i].Name,
			sites[i].URL,
			fmt.Sprintf("%d", len(local)),
		})
	}

	cmd.Println(renderTable([]string{"ID", "Name", "URL", "Local drafts"}, rows, 3))
	return nil
}
