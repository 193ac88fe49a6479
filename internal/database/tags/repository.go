// Package tags provides database operations for note tag management.
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.GetOrCreateTag("prayer", userID)
package tags

import (
	"gorm.io/gorm"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTag creates a new tag.
func (r *Repository) CreateTag(name string, userID uint) (*entities.Tag, error) {
	tag := &entities.Tag{
		Name:   name,
		UserID: userID,
	}
	if err := r.db.Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// GetOrCreateTag retrieves or creates a tag (case-insensitive).
func (r *Repository) GetOrCreateTag(name string, userID uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.Where("LOWER(name) = LOWER(?) AND user_id = ?", name, userID).First(&tag).Error
	if err == gorm.ErrRecordNotFound {
		return r.CreateTag(name, userID)
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetTagsForUser retrieves all tags for a user.
func (r *Repository) GetTagsForUser(userID uint) ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetTagByID retrieves a tag by ID.
func (r *Repository) GetTagByID(id uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag deletes a tag and its note links.
func (r *Repository) DeleteTag(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var tag entities.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&tag).Association("Notes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&entities.Tag{}, id).Error
	})
}

// IsTagOrphan checks if a tag has no linked notes.
func (r *Repository) IsTagOrphan(tagID uint) (bool, error) {
	var count int64
	if err := r.db.Table("note_tags").Where("tag_id = ?", tagID).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// DeleteTagIfOrphan deletes a tag if nothing links to it.
func (r *Repository) DeleteTagIfOrphan(tagID uint) error {
	orphan, err := r.IsTagOrphan(tagID)
	if err != nil {
		return err
	}
	if orphan {
		return r.DeleteTag(tagID)
	}
	return nil
}

// DeleteOrphanTags removes all tags with no note links.
func (r *Repository) DeleteOrphanTags() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM note_tags)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
