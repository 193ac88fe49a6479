// Package settings provides database operations for the store's metadata
// key-value table, including the update version marker.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	version, err := repo.GetVersion()
package settings

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	var setting entities.Setting
	result := r.db.Where("key = ?", key).First(&setting)

	if result.Error == gorm.ErrRecordNotFound {
		setting = entities.Setting{
			Key:   key,
			Value: value,
		}
		return r.db.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}

// GetVersion returns the persisted update marker: the highest manifest
// version whose changes have been committed. A store that has never been
// updated reports 0.
func (r *Repository) GetVersion() (int, error) {
	setting, err := r.GetSetting(entities.SettingKeyVersion)
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(setting.Value)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// SetVersion advances the update marker. The marker never moves backwards;
// a lower value than the current one is ignored.
func (r *Repository) SetVersion(version int) error {
	current, err := r.GetVersion()
	if err != nil {
		return err
	}
	if version <= current {
		return nil
	}
	return r.SetSetting(entities.SettingKeyVersion, strconv.Itoa(version))
}
