// Package notes provides database operations for versioned study notes and
// their tag links.
//
// Notes follow the same lifecycle as highlights: version 1 at creation,
// +1 per content change, tombstone on delete once a server id exists.
// Tag links live in the note_tags join table and are cascade-deleted with
// the note; only the note row itself is ever tombstoned.
package notes

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

// ErrAlreadySynced is returned when a server id is assigned a second time
// with a different value.
var ErrAlreadySynced = errors.New("note already has a server id")

// Repository handles all note database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new note at version 1.
func (r *Repository) Create(note *entities.Note) error {
	note.Version = 1
	note.ServerID = nil
	return r.db.Create(note).Error
}

// Update rewrites a note's title and body, bumping the version once.
// Submitting the identical payload is a no-op and leaves the version
// unchanged.
func (r *Repository) Update(id uint, title, body string) error {
	var note entities.Note
	if err := r.db.First(&note, id).Error; err != nil {
		return err
	}
	if note.Title == title && note.Body == body {
		return nil
	}
	return r.db.Model(&note).Updates(map[string]any{
		"title":   title,
		"body":    body,
		"version": gorm.Expr("version + 1"),
	}).Error
}

// MarkSynced records the server-assigned id. Assigned exactly once;
// re-confirming the same id is a no-op.
func (r *Repository) MarkSynced(id uint, serverID int64) error {
	var note entities.Note
	if err := r.db.First(&note, id).Error; err != nil {
		return err
	}
	if note.ServerID != nil {
		if *note.ServerID == serverID {
			return nil
		}
		return ErrAlreadySynced
	}
	return r.db.Model(&note).Update("server_id", serverID).Error
}

// Delete removes a note, its note_tags join rows, and, when the note has
// a server id, one tombstone, all in a single transaction. Join
// rows are never tombstoned; only the top-level note is reconciled
// remotely.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var note entities.Note
		if err := tx.First(&note, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&note).Association("Tags").Clear(); err != nil {
			return err
		}
		if note.ServerID != nil {
			tombstone := entities.Tombstone{
				UserID:    note.UserID,
				Table:     entities.Note{}.TableName(),
				ServerID:  *note.ServerID,
				DeletedAt: time.Now(),
			}
			if err := tx.Create(&tombstone).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entities.Note{}, id).Error
	})
}

// AddTag links a tag to a note.
func (r *Repository) AddTag(noteID, tagID uint) error {
	var note entities.Note
	if err := r.db.First(&note, noteID).Error; err != nil {
		return err
	}
	var tag entities.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		return err
	}
	return r.db.Model(&note).Association("Tags").Append(&tag)
}

// RemoveTag unlinks a tag from a note.
func (r *Repository) RemoveTag(noteID, tagID uint) error {
	var note entities.Note
	if err := r.db.First(&note, noteID).Error; err != nil {
		return err
	}
	var tag entities.Tag
	if err := r.db.First(&tag, tagID).Error; err != nil {
		return err
	}
	return r.db.Model(&note).Association("Tags").Delete(&tag)
}

// GetByID retrieves a note with its tags.
func (r *Repository) GetByID(id uint) (*entities.Note, error) {
	var note entities.Note
	err := r.db.Preload("Tags").First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetForUser retrieves all of a user's notes with tags, newest first.
func (r *Repository) GetForUser(userID uint) ([]entities.Note, error) {
	var notes []entities.Note
	err := r.db.Preload("Tags").Where("user_id = ?", userID).
		Order("updated_at DESC").Find(&notes).Error
	return notes, err
}

// GetForVerse retrieves a user's notes anchored to one verse.
func (r *Repository) GetForVerse(userID, bookID uint, chapter, verse int) ([]entities.Note, error) {
	var notes []entities.Note
	err := r.db.Preload("Tags").
		Where("user_id = ? AND book_id = ? AND chapter = ? AND verse = ?", userID, bookID, chapter, verse).
		Order("created_at ASC").Find(&notes).Error
	return notes, err
}

// Tombstones lists a user's pending note tombstones, oldest first.
func (r *Repository) Tombstones(userID uint) ([]entities.Tombstone, error) {
	var ts []entities.Tombstone
	err := r.db.Where("user_id = ? AND table_name = ?", userID, entities.Note{}.TableName()).
		Order("deleted_at ASC").Find(&ts).Error
	return ts, err
}
