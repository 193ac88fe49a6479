package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Build
		Updates
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	// Build carries every input of the store build pipeline, including the
	// expected row counts used for post-build validation (0 = unchecked).
	Build struct {
		CorpusPath        string
		GreekLexiconPath  string
		HebrewLexiconPath string
		CrossRefsPath     string

		ExpectedVerses         int64
		ExpectedLexiconEntries int64
		ExpectedFTSRows        int64
	}

	Updates struct {
		ManifestDir   string // served by the update server
		ServerURL     string // consumed by the client-side checker
		CheckEnabled  bool
		CheckSchedule string // Cron format: "0 6 * * *" = daily at 06:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8311)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Build pipeline defaults
	v.SetDefault("corpus_path", "")
	v.SetDefault("greek_lexicon_path", "")
	v.SetDefault("hebrew_lexicon_path", "")
	v.SetDefault("cross_refs_path", "")
	v.SetDefault("expected_verses", 0)
	v.SetDefault("expected_lexicon_entries", 0)
	v.SetDefault("expected_fts_rows", 0)

	// Update protocol defaults
	v.SetDefault("manifest_dir", DefaultManifestDir)
	v.SetDefault("update_server_url", "")
	v.SetDefault("update_check_enabled", false)
	v.SetDefault("update_check_schedule", "0 6 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Build: Build{
			CorpusPath:             v.GetString("CORPUS_PATH"),
			GreekLexiconPath:       v.GetString("GREEK_LEXICON_PATH"),
			HebrewLexiconPath:      v.GetString("HEBREW_LEXICON_PATH"),
			CrossRefsPath:          v.GetString("CROSS_REFS_PATH"),
			ExpectedVerses:         v.GetInt64("EXPECTED_VERSES"),
			ExpectedLexiconEntries: v.GetInt64("EXPECTED_LEXICON_ENTRIES"),
			ExpectedFTSRows:        v.GetInt64("EXPECTED_FTS_ROWS"),
		},
		Updates: Updates{
			ManifestDir:   v.GetString("MANIFEST_DIR"),
			ServerURL:     v.GetString("UPDATE_SERVER_URL"),
			CheckEnabled:  v.GetBool("UPDATE_CHECK_ENABLED"),
			CheckSchedule: v.GetString("UPDATE_CHECK_SCHEDULE"),
		},
	}
}
