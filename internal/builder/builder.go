// Package builder compiles raw corpus and lexicon sources into one
// embedded, searchable store artifact.
//
// The build is a single-threaded batch job with two independent failure
// domains, each its own transaction: the dictionary load and the verse
// load. A corrupt dictionary must not roll back an otherwise valid verse
// import, and vice versa. Any fatal error removes the partially written
// artifact, so a crashed build never leaves a plausible-looking file behind.
package builder

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/corpus"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/lexicon"
)

const insertBatchSize = 500

// ExpectedCounts is the soft contract against corpus drift. Zero means
// "unchecked"; mismatches become report warnings, never build failures.
type ExpectedCounts struct {
	Verses         int64
	LexiconEntries int64
	FTSRows        int64
}

// Config names every input and output of one build. The builder is a
// function from (sources, config) to (artifact, report); nothing here is
// ambient state.
type Config struct {
	OutputPath        string
	CorpusPath        string
	GreekLexiconPath  string
	HebrewLexiconPath string
	CrossRefsPath     string
	Expected          ExpectedCounts
}

// Report summarizes one build: rows written, units skipped, validation
// warnings. Per-item problems are counted, not logged individually.
type Report struct {
	Books          int
	Verses         int
	Words          int
	LexiconEntries int
	CrossRefs      int

	SkippedLexicon    int
	TokenizerWarnings int
	SkippedCrossRefs  int

	ValidationWarnings []string
}

// Builder runs the batch pipeline.
type Builder struct {
	cfg       Config
	tokenizer *corpus.Tokenizer
}

// NewBuilder creates a builder with the default word-tag reference policy.
func NewBuilder(cfg Config) *Builder {
	return NewBuilderWithPolicy(cfg, corpus.LastRef)
}

// NewBuilderWithPolicy creates a builder with a custom tie-break policy
// for word tags carrying multiple Strong's references.
func NewBuilderWithPolicy(cfg Config, policy corpus.RefPolicy) *Builder {
	return &Builder{
		cfg:       cfg,
		tokenizer: corpus.NewTokenizerWithPolicy(policy),
	}
}

// Build compiles the configured sources into a fresh artifact at
// Config.OutputPath and validates the result.
func (b *Builder) Build() (report *Report, err error) {
	if b.cfg.CorpusPath == "" {
		return nil, fmt.Errorf("no corpus source configured")
	}

	// Always build from scratch; a stale artifact at the output path is
	// not an incremental base.
	if err := os.Remove(b.cfg.OutputPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing stale artifact: %w", err)
	}

	db, err := database.NewDatabase(b.cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	defer func() {
		db.Close()
		if err != nil {
			os.Remove(b.cfg.OutputPath)
		}
	}()

	report = &Report{}

	if err = b.loadLexicons(db, report); err != nil {
		return nil, err
	}
	if err = b.loadCorpus(db, report); err != nil {
		return nil, err
	}
	if err = b.loadCrossReferences(db, report); err != nil {
		return nil, err
	}

	if err = db.DB.Exec(
		"INSERT OR REPLACE INTO settings (key, value, created_at, updated_at) VALUES (?, ?, datetime('now'), datetime('now'))",
		entities.SettingKeyBuiltAt, time.Now().Format(time.RFC3339),
	).Error; err != nil {
		return nil, fmt.Errorf("stamping build time: %w", err)
	}

	b.validate(db, report)

	log.Printf("Build complete: %d books, %d verses, %d word annotations, %d lexicon entries, %d cross references",
		report.Books, report.Verses, report.Words, report.LexiconEntries, report.CrossRefs)
	if report.SkippedLexicon > 0 || report.TokenizerWarnings > 0 || report.SkippedCrossRefs > 0 {
		log.Printf("Build skipped: %d lexicon entries, %d malformed word tags, %d cross references",
			report.SkippedLexicon, report.TokenizerWarnings, report.SkippedCrossRefs)
	}
	for _, warning := range report.ValidationWarnings {
		log.Printf("Validation warning: %s", warning)
	}

	return report, nil
}

// loadLexicons imports both dictionaries in one transaction. An
// unparseable dictionary aborts the build; a partial dictionary is worse
// than none.
func (b *Builder) loadLexicons(db *database.Database, report *Report) error {
	sources := []struct {
		path   string
		prefix string
	}{
		{b.cfg.HebrewLexiconPath, lexicon.PrefixHebrew},
		{b.cfg.GreekLexiconPath, lexicon.PrefixGreek},
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		for _, source := range sources {
			if source.path == "" {
				continue
			}
			f, err := os.Open(source.path)
			if err != nil {
				return fmt.Errorf("opening %s dictionary: %w", source.prefix, err)
			}
			result, err := lexicon.Load(f, source.prefix)
			f.Close()
			if err != nil {
				return err
			}
			if len(result.Entries) > 0 {
				if err := tx.CreateInBatches(result.Entries, insertBatchSize).Error; err != nil {
					return fmt.Errorf("inserting %s lexicon: %w", source.prefix, err)
				}
			}
			report.LexiconEntries += len(result.Entries)
			report.SkippedLexicon += result.Skipped
		}
		return nil
	})
}

// loadCorpus imports books, verses and word annotations in one
// transaction. Verse rows cascade into the FTS index through triggers.
func (b *Builder) loadCorpus(db *database.Database, report *Report) error {
	f, err := os.Open(b.cfg.CorpusPath)
	if err != nil {
		return fmt.Errorf("opening corpus source: %w", err)
	}
	src, err := corpus.ParseCorpus(f)
	f.Close()
	if err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		for _, sourceBook := range src.Books {
			book, ok := corpus.BookByName(sourceBook.Name)
			if !ok {
				return fmt.Errorf("book %q is not in the canonical table", sourceBook.Name)
			}
			if err := tx.Create(&entities.Book{
				ID:        book.ID,
				Name:      book.Name,
				Abbrev:    book.Abbrev,
				Testament: book.Testament,
			}).Error; err != nil {
				return fmt.Errorf("inserting book %s: %w", book.Name, err)
			}
			report.Books++

			// Bare Strong's refs in this book's markup take its testament
			// prefix, matching the normalized lexicon keys.
			refPrefix := lexicon.PrefixGreek
			if book.Testament == entities.TestamentOld {
				refPrefix = lexicon.PrefixHebrew
			}

			var verses []entities.Verse
			var words []entities.WordAnnotation
			for _, chapter := range sourceBook.Chapters {
				if chapter.Chapter < 1 {
					return fmt.Errorf("%s has non-positive chapter %d", book.Name, chapter.Chapter)
				}
				for _, verse := range chapter.Verses {
					if verse.Verse < 1 {
						return fmt.Errorf("%s %d has non-positive verse %d", book.Name, chapter.Chapter, verse.Verse)
					}
					tokenized := b.tokenizer.Tokenize(verse.Text)
					report.TokenizerWarnings += tokenized.Warnings

					verses = append(verses, entities.Verse{
						BookID:  book.ID,
						Chapter: chapter.Chapter,
						Verse:   verse.Verse,
						Text:    tokenized.Plain,
					})
					for _, token := range tokenized.Tokens {
						if token.Ref == "" {
							continue
						}
						ref := token.Ref
						if ref[0] >= '0' && ref[0] <= '9' {
							ref = lexicon.Normalize(refPrefix, ref)
						}
						words = append(words, entities.WordAnnotation{
							BookID:    book.ID,
							Chapter:   chapter.Chapter,
							Verse:     verse.Verse,
							Position:  token.Position,
							StrongsID: ref,
						})
					}
				}
			}

			if len(verses) > 0 {
				if err := tx.CreateInBatches(verses, insertBatchSize).Error; err != nil {
					return fmt.Errorf("inserting verses for %s: %w", book.Name, err)
				}
			}
			if len(words) > 0 {
				if err := tx.CreateInBatches(words, insertBatchSize).Error; err != nil {
					return fmt.Errorf("inserting word annotations for %s: %w", book.Name, err)
				}
			}
			report.Verses += len(verses)
			report.Words += len(words)
		}
		return nil
	})
}

// loadCrossReferences imports the optional cross-reference source.
// Unresolvable rows are skipped and counted.
func (b *Builder) loadCrossReferences(db *database.Database, report *Report) error {
	if b.cfg.CrossRefsPath == "" {
		return nil
	}

	f, err := os.Open(b.cfg.CrossRefsPath)
	if err != nil {
		return fmt.Errorf("opening cross-reference source: %w", err)
	}
	rows, skipped, err := corpus.ParseCrossReferences(f)
	f.Close()
	if err != nil {
		return err
	}
	report.SkippedCrossRefs = skipped

	return db.DB.Transaction(func(tx *gorm.DB) error {
		refs := make([]entities.CrossReference, 0, len(rows))
		for _, row := range rows {
			refs = append(refs, entities.CrossReference{
				FromBookID:   row.From.BookID,
				FromChapter:  row.From.Chapter,
				FromVerse:    row.From.Verse,
				ToBookID:     row.To.BookID,
				ToChapter:    row.To.Chapter,
				ToVerseStart: row.To.Verse,
				ToVerseEnd:   row.ToVerseEnd,
				Votes:        row.Votes,
			})
		}
		if len(refs) > 0 {
			if err := tx.CreateInBatches(refs, insertBatchSize).Error; err != nil {
				return fmt.Errorf("inserting cross references: %w", err)
			}
		}
		report.CrossRefs = len(refs)
		return nil
	})
}

// validate compares actual row counts against the expected counts. The
// expectations are a soft contract: mismatches are warnings and the
// artifact stays usable.
func (b *Builder) validate(db *database.Database, report *Report) {
	checks := []struct {
		name     string
		expected int64
		count    func() (int64, error)
	}{
		{"verses", b.cfg.Expected.Verses, func() (int64, error) { return db.CountRows("verses") }},
		{"lexicon entries", b.cfg.Expected.LexiconEntries, func() (int64, error) { return db.CountRows("lexicon_entries") }},
		{"full-text rows", b.cfg.Expected.FTSRows, db.CountFTSRows},
	}

	for _, check := range checks {
		if check.expected == 0 {
			continue
		}
		actual, err := check.count()
		if err != nil {
			report.ValidationWarnings = append(report.ValidationWarnings,
				fmt.Sprintf("could not count %s: %v", check.name, err))
			continue
		}
		if actual != check.expected {
			report.ValidationWarnings = append(report.ValidationWarnings,
				fmt.Sprintf("%s: expected %d rows, found %d", check.name, check.expected, actual))
		}
	}

	// The FTS index must mirror the verse table row for row regardless of
	// what the external expectations say.
	verses, err1 := db.CountRows("verses")
	ftsRows, err2 := db.CountFTSRows()
	if err1 == nil && err2 == nil && verses != ftsRows {
		report.ValidationWarnings = append(report.ValidationWarnings,
			fmt.Sprintf("full-text index out of step: %d verses vs %d shadow rows", verses, ftsRows))
	}
}
