package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the embedded corpus store
	DefaultDatabasePath = "./corpus.db"

	// DefaultManifestDir is where the update server looks for published manifests
	DefaultManifestDir = "./manifests"
)
