package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (creating if needed) the embedded store, migrates the
// schema and installs the full-text index with its mirror triggers.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Verse{},
		&entities.WordAnnotation{},
		&entities.LexiconEntry{},
		&entities.CrossReference{},
		&entities.Highlight{},
		&entities.Note{},
		&entities.Tag{},
		&entities.Tombstone{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.setupFTS(); err != nil {
		return nil, fmt.Errorf("failed to set up full-text index: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetBooks returns the canonical book rows in canonical order.
func (d *Database) GetBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Order("id ASC").Find(&books).Error
	return books, err
}

// GetVerse retrieves one verse by its composite key.
func (d *Database) GetVerse(bookID uint, chapter, verse int) (*entities.Verse, error) {
	var v entities.Verse
	err := d.DB.Where("book_id = ? AND chapter = ? AND verse = ?", bookID, chapter, verse).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetChapter returns all verses of one chapter in verse order.
func (d *Database) GetChapter(bookID uint, chapter int) ([]entities.Verse, error) {
	var verses []entities.Verse
	err := d.DB.Where("book_id = ? AND chapter = ?", bookID, chapter).
		Order("verse ASC").Find(&verses).Error
	return verses, err
}

// GetWordAnnotations returns the per-word Strong's links for one verse in
// position order.
func (d *Database) GetWordAnnotations(bookID uint, chapter, verse int) ([]entities.WordAnnotation, error) {
	var words []entities.WordAnnotation
	err := d.DB.Where("book_id = ? AND chapter = ? AND verse = ?", bookID, chapter, verse).
		Order("position ASC").Find(&words).Error
	return words, err
}

// GetLexiconEntry retrieves a lexicon entry, normalizing nothing: callers
// pass a fully prefixed identifier (H430, G2316).
func (d *Database) GetLexiconEntry(strongsID string) (*entities.LexiconEntry, error) {
	var entry entities.LexiconEntry
	err := d.DB.Where("strongs_id = ?", strongsID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetCrossReferences returns the references out of one verse, strongest
// vote weight first.
func (d *Database) GetCrossReferences(bookID uint, chapter, verse int) ([]entities.CrossReference, error) {
	var refs []entities.CrossReference
	err := d.DB.Where("from_book_id = ? AND from_chapter = ? AND from_verse = ?", bookID, chapter, verse).
		Order("votes DESC").Find(&refs).Error
	return refs, err
}

// CountRows returns the row count of one table by name. The builder uses
// this for post-build validation.
func (d *Database) CountRows(table string) (int64, error) {
	var count int64
	err := d.DB.Table(table).Count(&count).Error
	return count, err
}
