package entities

import (
	"time"
)

// Highlight is a user-owned colored marker on one verse. A user may hold
// several colors on the same verse but never the same color twice; the
// composite unique index enforces that at insert time.
//
// Version starts at 1 and is bumped once per content-changing update.
// ServerID is assigned exactly once, when the row has been confirmed on the
// remote store; from then on a local delete must leave a tombstone behind.
type Highlight struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index;uniqueIndex:idx_highlight_key" json:"user_id"`
	BookID  uint   `gorm:"uniqueIndex:idx_highlight_key" json:"book_id"`
	Chapter int    `gorm:"uniqueIndex:idx_highlight_key" json:"chapter"`
	Verse   int    `gorm:"uniqueIndex:idx_highlight_key" json:"verse"`
	Color   string `gorm:"size:10;uniqueIndex:idx_highlight_key" json:"color"`

	Version  int    `gorm:"default:1" json:"version"`
	ServerID *int64 `gorm:"index" json:"server_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a user-authored study note anchored to a verse, taggable through
// the note_tags join table. Join rows are cascade-deleted with the note and
// are never tombstoned themselves.
type Note struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	UserID  uint `gorm:"index" json:"user_id"`
	BookID  uint `gorm:"index" json:"book_id"`
	Chapter int  `json:"chapter"`
	Verse   int  `json:"verse"`

	Title string `gorm:"size:256" json:"title,omitempty"`
	Body  string `gorm:"type:text" json:"body"`

	Version  int    `gorm:"default:1" json:"version"`
	ServerID *int64 `gorm:"index" json:"server_id,omitempty"`

	Tags []Tag `gorm:"many2many:note_tags;" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a per-user label for notes.
type Tag struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex:idx_tag_key" json:"user_id"`
	Name   string `gorm:"uniqueIndex:idx_tag_key;size:100" json:"name"`

	Notes []Note `gorm:"many2many:note_tags;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Tombstone records the local deletion of a row that had already been
// synchronized to the remote store, so a later sync pass can propagate the
// delete. Rows are append-only: written in the same transaction as the
// delete they record, read by sync, never updated.
type Tombstone struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Table     string    `gorm:"column:table_name;index;size:64" json:"table_name"`
	ServerID  int64     `gorm:"index" json:"server_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

func (Highlight) TableName() string {
	return "highlights"
}

func (Note) TableName() string {
	return "notes"
}

func (Tag) TableName() string {
	return "tags"
}

func (Tombstone) TableName() string {
	return "tombstones"
}
