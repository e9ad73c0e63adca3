package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dupcheck/internal/app"
	"dupcheck/internal/config"
	"dupcheck/internal/digest"
	"dupcheck/internal/dupes"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// loadConfig reads the config file, falling back to defaults when absent.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp creates a DupApp from cfg. The caller must defer a.Close().
func newApp(cfg *config.Config) (*app.DupApp, error) {
	a, err := app.NewDupApp(cfg, os.Stdout, stdoutIsTerminal())
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "dupcheck",
	Short:        "Find and remove duplicate files",
	SilenceUsage: true,
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan [DIR]",
	Short: "Scan a directory tree for duplicate files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verify") {
			cfg.Scan.Verify, _ = cmd.Flags().GetBool("verify")
		}
		if cmd.Flags().Changed("hash") {
			cfg.Scan.HashAlgorithm, _ = cmd.Flags().GetString("hash")
		}
		if cmd.Flags().Changed("hidden") {
			cfg.Scan.IncludeHidden, _ = cmd.Flags().GetBool("hidden")
		}
		deleteMarked, _ := cmd.Flags().GetBool("delete")
		yes, _ := cmd.Flags().GetBool("yes")
		keep, _ := cmd.Flags().GetStringArray("keep")

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		interactive := stdinIsTerminal()
		if interactive {
			a.SetInput(os.Stdin)
			fmt.Fprintln(os.Stderr, "Type p to pause, r to resume, c to cancel, then Enter.")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		state, err := a.Scan(ctx, dir)
		if err != nil {
			return err
		}
		if state != dupes.Finished {
			fmt.Println("Scan canceled.")
			return nil
		}
		a.PrintSummary()

		if err := a.Keep(keep); err != nil {
			return err
		}
		if !deleteMarked {
			return nil
		}

		n := a.MarkedCount()
		if n == 0 {
			fmt.Println("No files marked for deletion.")
			return nil
		}
		if !yes {
			if !interactive {
				return fmt.Errorf("refusing to delete %d files without --yes when stdin is not a terminal", n)
			}
			if !a.Confirm(os.Stdout, fmt.Sprintf("Delete %d files?", n)) {
				fmt.Println("Nothing deleted.")
				return nil
			}
		}

		deleted, err := a.DeleteMarked()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d of %d files.\n", deleted, n)
		return nil
	},
}

// ls command
var lsCmd = &cobra.Command{
	Use:   "ls [DIR]",
	Short: "List a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("hidden") {
			cfg.Scan.IncludeHidden, _ = cmd.Flags().GetBool("hidden")
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", dir, err)
		}
		return a.List(abs)
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No scans recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if !r.FinishedAt.IsZero() {
				duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %s  %-9s  %-8s  %5d groups  %9s  %s\n",
				shortID(r.ID),
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.Status,
				duration,
				r.Summary.Groups,
				humanize.IBytes(uint64(r.Summary.ReclaimableBytes)),
				r.Root,
			)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s (%s)\n", cfg.LogDir, cfg.LogLevel)
		fmt.Printf("Hash:           %s\n", cfg.Scan.HashAlgorithm)
		fmt.Printf("Verify:         %v (%s blocks)\n", cfg.Scan.Verify, humanize.IBytes(uint64(cfg.Scan.BlockSize)))
		fmt.Printf("Include Hidden: %v\n", cfg.Scan.IncludeHidden)
		if len(cfg.Scan.Ignore) > 0 {
			fmt.Printf("Ignore:         %s\n", strings.Join(cfg.Scan.Ignore, ", "))
		}
		fmt.Printf("Journal:        %s %s\n", cfg.Journal.Type, cfg.Journal.DataDir)
		fmt.Printf("Console:        %d lines, color %s\n", cfg.Console.Lines, cfg.Console.Color)
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	scanCmd.Flags().Bool("verify", false, "Compare candidate files byte by byte")
	scanCmd.Flags().String("hash", digest.DefaultName, "Digest algorithm ("+strings.Join(digest.Names(), ", ")+")")
	scanCmd.Flags().Bool("hidden", false, "Include hidden files and directories")
	scanCmd.Flags().Bool("delete", false, "Delete files marked for deletion after the scan")
	scanCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation before deleting")
	scanCmd.Flags().StringArray("keep", nil, "Keep this duplicate instead of deleting it (repeatable)")
	lsCmd.Flags().Bool("hidden", false, "Include hidden entries")
	historyCmd.Flags().IntP("limit", "n", 10, "Maximum number of scans to show")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)

}
