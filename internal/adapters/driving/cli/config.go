package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/draftpost/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `Shows the effective dispatcher settings, or reads and writes a single key.

Keys:
  ` + domain.KeyMaxConcurrentSites + `    sites enqueued at once (0 = unbounded)
  ` + domain.KeySweepIntervalMinutes + `  periodic sweep interval (0 = off)
  ` + domain.KeyProbeAddress + `         host:port dialled to detect the network
  ` + domain.KeyProbeIntervalSeconds + ` seconds between probes
  ` + domain.KeyStatusFile + `           status file to watch instead of probing
  ` + domain.KeyUploadRate + `          uploads started per second`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a stored setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	cfg := d.Settings.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Auto-upload]")
	if cfg.MaxConcurrentSites == 0 {
		cmd.Println("  Concurrent sites: unbounded")
	} else {
		cmd.Printf("  Concurrent sites: %d\n", cfg.MaxConcurrentSites)
	}
	if cfg.SweepInterval == 0 {
		cmd.Println("  Periodic sweep: off")
	} else {
		cmd.Printf("  Periodic sweep: every %s\n", cfg.SweepInterval)
	}
	cmd.Println()

	cmd.Println("[Connectivity]")
	if cfg.StatusFile != "" {
		cmd.Printf("  Status file: %s\n", cfg.StatusFile)
	} else {
		cmd.Printf("  Probe: %s every %s\n", cfg.ProbeAddress, cfg.ProbeInterval)
	}
	cmd.Println()

	cmd.Println("[Upload]")
	cmd.Printf("  Rate: %d per second\n", cfg.UploadRate)

	if d.Config != nil {
		cmd.Println()
		cmd.Println(styled(cmd.OutOrStdout(), mutedStyle, "Config file: "+d.Config.Path()))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}
	if d.Config == nil {
		return fmt.Errorf("%w: no config store", domain.ErrInvalidInput)
	}

	val, ok := d.Config.Get(args[0])
	if !ok {
		return fmt.Errorf("setting %s: %w", args[0], domain.ErrNotFound)
	}
	cmd.Println(fmt.Sprint(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	d, err := requireDeps()
	if err != nil {
		return err
	}

	if err := d.Settings.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}
