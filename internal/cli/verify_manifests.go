package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/config"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/updates"
)

// VerifyManifestsCommand validates every manifest in a directory without
// serving or applying anything
type VerifyManifestsCommand struct {
	ManifestDir string
}

// NewVerifyManifestsCommand creates a new VerifyManifestsCommand
func NewVerifyManifestsCommand() *VerifyManifestsCommand {
	return &VerifyManifestsCommand{}
}

// ParseFlags parses command line flags
func (cmd *VerifyManifestsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("verify-manifests", flag.ExitOnError)

	fs.StringVar(&cmd.ManifestDir, "dir", config.DefaultManifestDir, "Manifest directory to verify")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s verify-manifests [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse and validate every manifest in a directory. Useful as a publish\n")
		fmt.Fprintf(os.Stderr, "gate before new manifests go live on the update server.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run validates the manifest directory
func (cmd *VerifyManifestsCommand) Run() error {
	fmt.Println("🔍 Manifest Verification")
	fmt.Println("========================")
	fmt.Printf("📁 Directory: %s\n\n", cmd.ManifestDir)

	store := updates.NewStore(cmd.ManifestDir)
	manifests, err := store.LoadManifests()
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if len(manifests) == 0 {
		fmt.Println("ℹ️  No manifests found")
		return nil
	}

	for _, m := range manifests {
		fmt.Printf("   v%-4d %3d change(s)  %s\n", m.LatestVersion, len(m.Changes), m.Description)
	}
	fmt.Printf("\n✅ %d manifest(s) valid, latest version %d\n",
		len(manifests), manifests[len(manifests)-1].LatestVersion)
	return nil
}
