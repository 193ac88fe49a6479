package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/config"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database/settings"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/updates"
)

// CheckUpdatesCommand fetches pending content deltas and applies them to
// a local store
type CheckUpdatesCommand struct {
	DatabasePath string
	ServerURL    string
	ManifestDir  string
	DryRun       bool
}

// NewCheckUpdatesCommand creates a new CheckUpdatesCommand
func NewCheckUpdatesCommand() *CheckUpdatesCommand {
	return &CheckUpdatesCommand{}
}

// ParseFlags parses command line flags
func (cmd *CheckUpdatesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check-updates", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file to update")
	fs.StringVar(&cmd.ServerURL, "server", "", "Base URL of the update server (e.g. https://updates.example.com)")
	fs.StringVar(&cmd.ManifestDir, "manifests", "", "Local manifest directory to apply from instead of a server")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Report pending changes without applying them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check-updates [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check for content updates newer than the store's version marker and\n")
		fmt.Fprintf(os.Stderr, "apply them in a single transaction. The marker only advances after the\n")
		fmt.Fprintf(os.Stderr, "changes have committed, so an interrupted run simply retries.\n\n")
		fmt.Fprintf(os.Stderr, "Exactly one of -server or -manifests must be given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Pull updates from a remote server:\n")
		fmt.Fprintf(os.Stderr, "  %s check-updates -db corpus.db -server https://updates.example.com\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Apply from a local manifest directory:\n")
		fmt.Fprintf(os.Stderr, "  %s check-updates -db corpus.db -manifests ./manifests\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if (cmd.ServerURL == "") == (cmd.ManifestDir == "") {
		fs.Usage()
		return fmt.Errorf("exactly one of -server or -manifests is required")
	}

	return nil
}

// Run executes the update check
func (cmd *CheckUpdatesCommand) Run() error {
	fmt.Println("🔄 Update Check")
	fmt.Println("===============")

	if _, err := os.Stat(cmd.DatabasePath); err != nil {
		return fmt.Errorf("database %s not found, run 'build' first", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var source updates.Source
	if cmd.ServerURL != "" {
		fmt.Printf("🌐 Server: %s\n", cmd.ServerURL)
		source = updates.NewHTTPSource(cmd.ServerURL)
	} else {
		fmt.Printf("📁 Manifests: %s\n", cmd.ManifestDir)
		source = updates.NewStore(cmd.ManifestDir)
	}

	client := updates.NewClient(db.DB, source)

	if cmd.DryRun {
		return cmd.report(db, source)
	}

	result, err := client.CheckAndApply()
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if result.UpToDate {
		fmt.Printf("✅ Already up to date at version %d\n", result.ToVersion)
		return nil
	}

	fmt.Printf("✅ Applied %d changes, version %d -> %d\n",
		result.Applied, result.FromVersion, result.ToVersion)
	return nil
}

// report prints what a real run would apply
func (cmd *CheckUpdatesCommand) report(db *database.Database, source updates.Source) error {
	current, err := settings.NewRepository(db.DB).GetVersion()
	if err != nil {
		return fmt.Errorf("reading version marker: %w", err)
	}

	resp, err := source.Check(current)
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}

	if !resp.HasUpdates {
		fmt.Printf("✅ Already up to date at version %d\n", current)
		return nil
	}

	fmt.Printf("🔍 DRY RUN: %d pending changes, version %d -> %d (%d bytes)\n",
		len(resp.Changes), current, resp.LatestVersion, resp.UpdateSizeBytes)
	if resp.Description != "" {
		fmt.Printf("   %s\n", resp.Description)
	}
	for _, c := range resp.Changes {
		fmt.Printf("   - %s %s\n", c.Operation, c.Table)
	}
	return nil
}
