package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/builder"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/config"
)

// BuildCommand handles compiling the scripture and lexicon sources into
// a distributable store artifact
type BuildCommand struct {
	CorpusPath        string
	GreekLexiconPath  string
	HebrewLexiconPath string
	CrossRefsPath     string
	OutputPath        string

	ExpectedVerses         int64
	ExpectedLexiconEntries int64
	ExpectedFTSRows        int64

	Verbose bool
}

// NewBuildCommand creates a new BuildCommand
func NewBuildCommand() *BuildCommand {
	return &BuildCommand{}
}

// ParseFlags parses command line flags
func (cmd *BuildCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)

	fs.StringVar(&cmd.CorpusPath, "corpus", "", "Path to the scripture corpus JSON file (required)")
	fs.StringVar(&cmd.GreekLexiconPath, "greek", "", "Path to the Greek lexicon source file")
	fs.StringVar(&cmd.HebrewLexiconPath, "hebrew", "", "Path to the Hebrew lexicon source file")
	fs.StringVar(&cmd.CrossRefsPath, "xrefs", "", "Path to the cross-references TSV file")
	fs.StringVar(&cmd.OutputPath, "db", config.DefaultDatabasePath, "Output path for the built database file")
	fs.Int64Var(&cmd.ExpectedVerses, "expected-verses", 0, "Expected verse count for post-build validation (0 = unchecked)")
	fs.Int64Var(&cmd.ExpectedLexiconEntries, "expected-lexicon-entries", 0, "Expected lexicon entry count for post-build validation (0 = unchecked)")
	fs.Int64Var(&cmd.ExpectedFTSRows, "expected-fts-rows", 0, "Expected search index row count for post-build validation (0 = unchecked)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s build [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Compile scripture and lexicon sources into a SQLite store with a\n")
		fmt.Fprintf(os.Stderr, "full-text search index. The output file is always built from scratch;\n")
		fmt.Fprintf(os.Stderr, "an existing file at the output path is removed first.\n\n")
		fmt.Fprintf(os.Stderr, "The search index needs SQLite's FTS5 extension, so this binary must be\n")
		fmt.Fprintf(os.Stderr, "compiled with 'go build -tags sqlite_fts5'.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Build from a corpus plus both lexicons:\n")
		fmt.Fprintf(os.Stderr, "  %s build -corpus kjv.json -greek strongs-greek.js -hebrew strongs-hebrew.js\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Build with cross references and validation counts:\n")
		fmt.Fprintf(os.Stderr, "  %s build -corpus kjv.json -xrefs cross_references.txt -expected-verses 31102\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.CorpusPath == "" {
		fs.Usage()
		return fmt.Errorf("-corpus is required")
	}

	return nil
}

// Run executes the build pipeline
func (cmd *BuildCommand) Run() error {
	fmt.Println("📦 Store Build")
	fmt.Println("==============")
	fmt.Printf("📁 Corpus: %s\n", cmd.CorpusPath)
	if cmd.GreekLexiconPath != "" {
		fmt.Printf("📁 Greek lexicon: %s\n", cmd.GreekLexiconPath)
	}
	if cmd.HebrewLexiconPath != "" {
		fmt.Printf("📁 Hebrew lexicon: %s\n", cmd.HebrewLexiconPath)
	}
	if cmd.CrossRefsPath != "" {
		fmt.Printf("📁 Cross references: %s\n", cmd.CrossRefsPath)
	}
	fmt.Printf("📁 Output: %s\n\n", cmd.OutputPath)

	b := builder.NewBuilder(builder.Config{
		OutputPath:        cmd.OutputPath,
		CorpusPath:        cmd.CorpusPath,
		GreekLexiconPath:  cmd.GreekLexiconPath,
		HebrewLexiconPath: cmd.HebrewLexiconPath,
		CrossRefsPath:     cmd.CrossRefsPath,
		Expected: builder.ExpectedCounts{
			Verses:         cmd.ExpectedVerses,
			LexiconEntries: cmd.ExpectedLexiconEntries,
			FTSRows:        cmd.ExpectedFTSRows,
		},
	})

	report, err := b.Build()
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Println("✅ Build complete")
	fmt.Printf("   Books:           %d\n", report.Books)
	fmt.Printf("   Verses:          %d\n", report.Verses)
	fmt.Printf("   Tagged words:    %d\n", report.Words)
	fmt.Printf("   Lexicon entries: %d\n", report.LexiconEntries)
	if report.CrossRefs > 0 {
		fmt.Printf("   Cross references: %d\n", report.CrossRefs)
	}

	if cmd.Verbose {
		fmt.Printf("   Skipped lexicon entries: %d\n", report.SkippedLexicon)
		fmt.Printf("   Tokenizer warnings:      %d\n", report.TokenizerWarnings)
		fmt.Printf("   Skipped cross refs:      %d\n", report.SkippedCrossRefs)
	}

	if len(report.ValidationWarnings) > 0 {
		fmt.Printf("\n⚠️  %d validation warning(s):\n", len(report.ValidationWarnings))
		for _, w := range report.ValidationWarnings {
			fmt.Printf("   - %s\n", w)
		}
	}

	return nil
}
