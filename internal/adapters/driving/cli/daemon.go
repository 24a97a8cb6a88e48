package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/draftpost/internal/adapters/driven/lifecycle"
	"github.com/custodia-labs/draftpost/internal/core/domain"
	"github.com/custodia-labs/draftpost/internal/logger"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the auto-upload dispatcher",
	Long: `Runs in the foreground, uploading local drafts whenever the network
becomes available, when the daemon enters the foreground (SIGUSR1), and on
the periodic sweep. SIGUSR2 moves it to the background. Stop it with
Ctrl-C or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

// drainTimeout bounds how long the daemon waits for queued uploads on exit.
var drainTimeout time.Duration

func init() {
	daemonCmd.Flags().DurationVar(&drainTimeout, "drain-timeout", 30*time.Second, "How long to wait for uploads on shutdown")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return runDispatcher(signalCtx, cmd)
}

// runDispatcher runs the daemon until ctx is done.
//
//nolint:funlen // Sequential start-up and shutdown of the daemon's parts
func runDispatcher(ctx context.Context, cmd *cobra.Command) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	unlock, err := acquireLock(d.LockPath)
	if err != nil {
		return err
	}
	defer unlock()

	// The worker outlives ctx; Drain stops it once queued uploads finish.
	d.Queue.Start(context.WithoutCancel(ctx))

	if d.Connectivity != nil {
		go func() {
			if err := d.Connectivity.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("connectivity: %v", err)
			}
		}()
	}

	owner := lifecycle.NewOwner(ctx)
	stopSignals := lifecycle.NotifySignals(owner)
	defer stopSignals()

	d.Uploader.Activate(owner)

	schedulerDone := make(chan struct{})
	if d.Scheduler != nil {
		go func() {
			defer close(schedulerDone)
			if err := d.Scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler: %v", err)
			}
		}()
	} else {
		close(schedulerDone)
	}

	cmd.Println(styled(cmd.OutOrStdout(), successStyle, "Dispatcher running.") + " Press Ctrl-C to stop.")
	owner.Emit(domain.LifecycleStarted)

	<-ctx.Done()
	cmd.Println("Shutting down...")

	owner.Destroy()
	if d.Scheduler != nil {
		_ = d.Scheduler.Stop()
	}
	<-schedulerDone

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()
	if err := d.Queue.Drain(drainCtx); err != nil {
		cmd.Println(styled(cmd.OutOrStdout(), warnStyle,
			fmt.Sprintf("%d uploads abandoned; they stay local drafts.", d.Queue.Len())))
	}

	return nil
}

// acquireLock takes the single-instance lock at path. The returned func
// releases it.
func acquireLock(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrLockHeld)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("daemon: release lock: %v", err)
		}
	}, nil
}
