// Package highlights provides database operations for versioned verse
// highlights.
//
// Every content-changing write bumps the row's version counter exactly
// once; idempotent retries of the same payload leave it untouched. Deleting
// a highlight that has been synchronized to the remote store (ServerID set)
// appends a tombstone in the same transaction, so a later sync pass can
// propagate the delete.
//
// # Usage
//
//	repo := highlights.NewRepository(db)
//	err := repo.Create(&entities.Highlight{UserID: 1, BookID: 43, Chapter: 3, Verse: 16, Color: "yellow"})
package highlights

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/utils"
)

// ErrDuplicateHighlight is returned when a user already holds the same
// color on the same verse. The caller rejects the action; this is not an
// upsert.
var ErrDuplicateHighlight = errors.New("highlight with this color already exists on the verse")

// ErrAlreadySynced is returned when a server id is assigned a second time
// with a different value.
var ErrAlreadySynced = errors.New("highlight already has a server id")

// Repository handles all highlight database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new highlights repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new highlight at version 1. The color is normalized
// against the palette first, and the user+verse+color uniqueness
// constraint is enforced here: duplicates are rejected with
// ErrDuplicateHighlight.
func (r *Repository) Create(h *entities.Highlight) error {
	color, err := utils.NormalizeColor(h.Color)
	if err != nil {
		return err
	}
	h.Color = color
	h.Version = 1
	h.ServerID = nil

	var existing entities.Highlight
	err = r.db.Where("user_id = ? AND book_id = ? AND chapter = ? AND verse = ? AND color = ?",
		h.UserID, h.BookID, h.Chapter, h.Verse, h.Color).First(&existing).Error
	if err == nil {
		return ErrDuplicateHighlight
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := r.db.Create(h).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateHighlight
		}
		return fmt.Errorf("creating highlight: %w", err)
	}
	return nil
}

// UpdateColor changes a highlight's color and bumps its version. Writing
// the color the row already has is a no-op and does not touch the version,
// so idempotent client retries are safe.
func (r *Repository) UpdateColor(id uint, color string) error {
	color, normErr := utils.NormalizeColor(color)
	if normErr != nil {
		return normErr
	}

	var h entities.Highlight
	if err := r.db.First(&h, id).Error; err != nil {
		return err
	}
	if h.Color == color {
		return nil
	}

	var clash entities.Highlight
	err := r.db.Where("user_id = ? AND book_id = ? AND chapter = ? AND verse = ? AND color = ? AND id != ?",
		h.UserID, h.BookID, h.Chapter, h.Verse, color, h.ID).First(&clash).Error
	if err == nil {
		return ErrDuplicateHighlight
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	return r.db.Model(&h).Updates(map[string]any{
		"color":   color,
		"version": gorm.Expr("version + 1"),
	}).Error
}

// MarkSynced records the server-assigned id after the row has been
// confirmed remotely. The id is assigned exactly once; re-confirming the
// same id is a no-op.
func (r *Repository) MarkSynced(id uint, serverID int64) error {
	var h entities.Highlight
	if err := r.db.First(&h, id).Error; err != nil {
		return err
	}
	if h.ServerID != nil {
		if *h.ServerID == serverID {
			return nil
		}
		return ErrAlreadySynced
	}
	return r.db.Model(&h).Update("server_id", serverID).Error
}

// Delete removes a highlight. If the row carries a server id, one
// tombstone is appended in the same transaction; both happen or neither
// does. Purely local rows vanish without a trace.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var h entities.Highlight
		if err := tx.First(&h, id).Error; err != nil {
			return err
		}
		if h.ServerID != nil {
			tombstone := entities.Tombstone{
				UserID:    h.UserID,
				Table:     entities.Highlight{}.TableName(),
				ServerID:  *h.ServerID,
				DeletedAt: time.Now(),
			}
			if err := tx.Create(&tombstone).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entities.Highlight{}, id).Error
	})
}

// GetByID retrieves a highlight by ID.
func (r *Repository) GetByID(id uint) (*entities.Highlight, error) {
	var h entities.Highlight
	err := r.db.First(&h, id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetForVerse retrieves a user's highlights on one verse.
func (r *Repository) GetForVerse(userID, bookID uint, chapter, verse int) ([]entities.Highlight, error) {
	var hs []entities.Highlight
	err := r.db.Where("user_id = ? AND book_id = ? AND chapter = ? AND verse = ?",
		userID, bookID, chapter, verse).Order("created_at ASC").Find(&hs).Error
	return hs, err
}

// GetForUser retrieves all of a user's highlights.
func (r *Repository) GetForUser(userID uint) ([]entities.Highlight, error) {
	var hs []entities.Highlight
	err := r.db.Where("user_id = ?", userID).
		Order("book_id ASC, chapter ASC, verse ASC").Find(&hs).Error
	return hs, err
}

// Tombstones lists a user's pending highlight tombstones, oldest first.
func (r *Repository) Tombstones(userID uint) ([]entities.Tombstone, error) {
	var ts []entities.Tombstone
	err := r.db.Where("user_id = ? AND table_name = ?", userID, entities.Highlight{}.TableName()).
		Order("deleted_at ASC").Find(&ts).Error
	return ts, err
}
