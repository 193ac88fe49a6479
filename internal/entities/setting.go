package entities

import (
	"time"
)

// Setting is a key-value row in the store's metadata table.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// SettingKeyVersion is the client's update high-water mark: the highest
	// manifest version whose changes have been durably committed. It is
	// written only after the content transaction commits, never before.
	SettingKeyVersion = "version"

	// SettingKeyBuiltAt records when the store artifact was produced.
	SettingKeyBuiltAt = "built_at"

	// SettingKeyLastUpdateCheck records the last successful update check.
	SettingKeyLastUpdateCheck = "last_update_check_at"
)
