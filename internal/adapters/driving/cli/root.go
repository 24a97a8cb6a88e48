// Package cli provides the draftpost command tree.
//
// Commands run against package-level dependencies. Execute builds them
// through a Bootstrap func once the global flags are parsed; tests assign
// them directly.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/core/ports/driven"
	"github.com/custodia-labs/draftpost/internal/core/ports/driving"
	"github.com/custodia-labs/draftpost/internal/logger"
)

// version is set at build time.
var version = "dev"

// Options are the global flags handed to Bootstrap.
type Options struct {
	// Verbose enables debug and info logging.
	Verbose bool

	// Memory keeps sites and drafts in memory for the life of the process.
	Memory bool

	// DataDir overrides ~/.draftpost.
	DataDir string
}

// SettingsManager reads and validates dispatcher settings.
type SettingsManager interface {
	Get() domain.DispatcherConfig
	Set(key, value string) error
}

// UploadQueue is the gateway as the CLI drives it.
type UploadQueue interface {
	Start(ctx context.Context)
	Drain(ctx context.Context) error
	Len() int
}

// ConnectivityRunner is a connectivity source that must be run to update.
type ConnectivityRunner interface {
	driven.ConnectivitySource
	Run(ctx context.Context) error
}

// Dependencies are the services commands run against.
type Dependencies struct {
	Sites        driven.SiteStore
	Drafts       driven.DraftStore
	Config       driven.ConfigStore
	Settings     SettingsManager
	Uploader     driving.AutoUploader
	Queue        UploadQueue
	Connectivity ConnectivityRunner    // optional
	Scheduler    driving.Scheduler     // optional
	Schedules    driven.SchedulerStore // optional
	LockPath     string
}

// Bootstrap builds the dependencies from the global flags. The returned
// func releases them.
type Bootstrap func(opts Options) (*Dependencies, func() error, error)

var (
	opts      Options
	deps      *Dependencies
	bootstrap Bootstrap
	closeDeps func() error
)

var rootCmd = &cobra.Command{
	Use:   "draftpost",
	Short: "Upload local drafts when the network allows",
	Long: `draftpost keeps local drafts for your sites and uploads them
automatically when the network comes back or the daemon is brought to the
foreground. Run 'draftpost daemon' to start the dispatcher.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&opts.Memory, "memory", false, "Keep sites and drafts in memory only")
	rootCmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "Data directory (default ~/.draftpost)")
}

// Execute runs the command tree.
func Execute(v string, b Bootstrap) error {
	if v != "" {
		version = v
	}
	bootstrap = b

	err := rootCmd.Execute()
	if closeDeps != nil {
		err = errors.Join(err, closeDeps())
		closeDeps = nil
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if deps != nil || bootstrap == nil || !needsDeps(cmd) {
		return nil
	}
	d, closer, err := bootstrap(opts)
	if err != nil {
		return err
	}
	deps, closeDeps = d, closer
	return nil
}

// needsDeps reports whether cmd touches storage or services.
func needsDeps(cmd *cobra.Command) bool {
	return cmd != versionCmd && cmd != rootCmd
}

// requireDeps returns the dependencies or an error if they are not set up.
func requireDeps() (*Dependencies, error) {
	if deps == nil {
		return nil, errors.New("services not configured")
	}
	return deps, nil
}
