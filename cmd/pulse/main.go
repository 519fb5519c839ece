package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"drivepulse/internal/app"
	"drivepulse/internal/config"
	"drivepulse/internal/export"
	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

func main() {
	_ = godotenv.Load() // a .env file is optional

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults derived from
// the base directory when none has been written yet.
func loadConfig() (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if errors.Is(err, fs.ErrNotExist) {
		return config.NewConfig("local", defaults["base_dir"]), defaults, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults, nil
}

// newApp reads the config and creates a PulseApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Scan", "Delete").
func newApp(operation string) (*app.PulseApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewPulseApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func passwordsFor(cmd *cobra.Command, a *app.PulseApp) *snapshotPasswords {
	return newSnapshotPasswords(a.List, cmd.ErrOrStderr())
}

var rootCmd = &cobra.Command{
	Use:          "pulse",
	Short:        "Drive snapshot and change tracking tool",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID:   %s\n", hostID)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		fmt.Printf("Store Dir: %s\n", cfg.Store.SnapshotDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:     %s\n", cfg.HostID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Log Level:   %s\n", cfg.LogLevel)
		fmt.Printf("Store:       %s %s\n", cfg.Store.Type, cfg.Store.SnapshotDir)
		fmt.Printf("Encryption:  %s\n", cfg.Encryption.Type)
		fmt.Printf("Database:    %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Symlinks:    follow=%v\n", cfg.Scan.FollowSymlinks)
		fmt.Printf("Ignore:      %v\n", cfg.Scan.Ignore)
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan PATH",
	Short: "Scan a directory tree and store a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		var password string
		if encrypt {
			pw, err := getPassword(cmd.ErrOrStderr(), "Snapshot password: ", true)
			if err != nil {
				return err
			}
			password = pw
		}

		a, err := newApp("Scan")
		if err != nil {
			return err
		}
		defer a.Close()

		progress := make(chan model.Progress, 1)
		done := make(chan struct{})
		go renderProgress(cmd.ErrOrStderr(), progress, done)

		snap, err := a.Scan(cmd.Context(), args[0], encrypt, password, progress)
		<-done
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		fmt.Printf("Snapshot %s saved\n\n", idStyle.Render(snap.ID))
		summary := snap.Summary()
		summary.Encrypted = encrypt
		printSnapshotSummary(os.Stdout, summary)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("List")
		if err != nil {
			return err
		}
		defer a.Close()

		summaries, err := a.List()
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No snapshots stored.")
			return nil
		}
		for i, s := range summaries {
			if i > 0 {
				fmt.Println()
			}
			printSnapshotSummary(os.Stdout, s)
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("Show")
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := passwordsFor(cmd, a).get(args[0])
		if err != nil {
			return err
		}
		snap, err := a.Show(args[0], password)
		if err != nil {
			return err
		}

		summary := snap.Summary()
		summary.Encrypted = password != ""
		printSnapshotSummary(os.Stdout, summary)
		printSnapshotFiles(os.Stdout, snap, limit)
		return nil
	},
}

func compareFromArgs(cmd *cobra.Command, a *app.PulseApp, args []string) (*model.ComparisonResult, error) {
	filesOnly, _ := cmd.Flags().GetBool("files-only")

	passwords := passwordsFor(cmd, a)
	oldPassword, err := passwords.get(args[0])
	if err != nil {
		return nil, err
	}
	newPassword, err := passwords.get(args[1])
	if err != nil {
		return nil, err
	}

	return a.Compare(cmd.Context(), pulse.CompareRequest{
		OldID:       args[0],
		NewID:       args[1],
		OldPassword: oldPassword,
		NewPassword: newPassword,
		Options:     pulse.CompareOptions{SkipDirectories: filesOnly},
	})
}

// compare command
var compareCmd = &cobra.Command{
	Use:   "compare OLD_ID NEW_ID",
	Short: "Compare two snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("Compare")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := compareFromArgs(cmd, a, args)
		if err != nil {
			return err
		}
		printComparison(os.Stdout, result, limit)
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export OLD_ID NEW_ID",
	Short: "Export a comparison as JSON or CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		if output == "" {
			output = "comparison." + string(format)
		}

		a, err := newApp("Export")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := compareFromArgs(cmd, a, args)
		if err != nil {
			return err
		}
		if err := export.WriteFile(output, result, format); err != nil {
			return fmt.Errorf("exporting: %w", err)
		}

		fmt.Printf("Exported %d change(s) to %s\n", len(result.Added)+len(result.Deleted)+len(result.Modified), output)
		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot %s\n", idStyle.Render(args[0]))
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-8s  %s  %-8s  %-10s  %s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format(timeLayout),
				op.Status,
				duration,
				op.SnapshotID,
				op.Parameters,
			)
		}
		return nil
	},
}

// dir command
var dirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the snapshot store directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Println(cfg.Store.SnapshotDir)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolP("encrypt", "e", false, "Encrypt the snapshot with a password")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntP("limit", "n", 50, "Maximum number of entries to show (0 for all)")
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Bool("files-only", false, "Ignore directory entries")
	compareCmd.Flags().IntP("limit", "n", 50, "Maximum number of changes to list (0 for all)")
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Bool("files-only", false, "Ignore directory entries")
	exportCmd.Flags().StringP("format", "f", "json", "Export format: json or csv")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default comparison.<format>)")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(dirCmd)
}
