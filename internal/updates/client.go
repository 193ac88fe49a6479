package updates

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database/settings"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

// Source answers "what changed since version N". Implemented by Store for
// in-process use and by HTTPSource against a remote update server.
type Source interface {
	Check(currentVersion int) (*CheckResponse, error)
}

// Directive application errors
var (
	ErrUnknownTable      = errors.New("directive targets a table outside the corpus")
	ErrUnknownOperation  = errors.New("directive has an unknown operation")
	ErrUnscopedDirective = errors.New("directive is missing its locator or payload")
)

// allowedTables is the whitelist of tables a manifest may touch. User
// annotation tables are deliberately absent: the delta protocol carries
// corpus corrections only, never user data.
var allowedTables = map[string]bool{
	"books":            true,
	"verses":           true,
	"word_annotations": true,
	"lexicon_entries":  true,
	"cross_references": true,
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ApplyResult summarizes one update pass.
type ApplyResult struct {
	FromVersion int
	ToVersion   int
	Applied     int
	UpToDate    bool
}

// Client keeps an installed store current. It persists the version marker
// through the settings repository and only ever advances it after the
// content transaction has committed, so an interruption at any point
// leaves a store that will simply retry.
type Client struct {
	db       *gorm.DB
	settings *settings.Repository
	source   Source
}

// NewClient creates an update client over an opened store.
func NewClient(db *gorm.DB, source Source) *Client {
	return &Client{
		db:       db,
		settings: settings.NewRepository(db),
		source:   source,
	}
}

// CheckAndApply fetches changes newer than the persisted marker, applies
// them in one transaction, then advances the marker.
func (c *Client) CheckAndApply() (*ApplyResult, error) {
	current, err := c.settings.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("reading version marker: %w", err)
	}

	resp, err := c.source.Check(current)
	if err != nil {
		return nil, fmt.Errorf("checking for updates: %w", err)
	}

	result := &ApplyResult{FromVersion: current, ToVersion: resp.LatestVersion}

	if !resp.HasUpdates {
		result.UpToDate = true
		result.ToVersion = current
		_ = c.settings.SetSetting(entities.SettingKeyLastUpdateCheck, time.Now().Format(time.RFC3339))
		return result, nil
	}

	if err := c.Apply(resp.Changes); err != nil {
		return nil, err
	}
	result.Applied = len(resp.Changes)

	// Marker moves only after the content transaction is durable. A crash
	// before this line re-fetches and re-applies the same idempotent
	// directives on the next pass.
	if err := c.settings.SetVersion(resp.LatestVersion); err != nil {
		return nil, fmt.Errorf("advancing version marker: %w", err)
	}
	_ = c.settings.SetSetting(entities.SettingKeyLastUpdateCheck, time.Now().Format(time.RFC3339))

	log.Printf("Updates: applied %d changes, version %d -> %d", result.Applied, current, resp.LatestVersion)
	return result, nil
}

// Apply runs every directive in order inside a single transaction. Any
// failure rolls the whole batch back, leaving store and marker untouched.
func (c *Client) Apply(changes []ChangeDirective) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		// REPLACE must fire the FTS delete triggers on verses.
		if err := tx.Exec("PRAGMA recursive_triggers = ON").Error; err != nil {
			return err
		}
		for i, change := range changes {
			if err := applyDirective(tx, change); err != nil {
				return fmt.Errorf("change %d (%s %s): %w", i, change.Operation, change.Table, err)
			}
		}
		return nil
	})
}

func applyDirective(tx *gorm.DB, d ChangeDirective) error {
	if !allowedTables[d.Table] {
		return ErrUnknownTable
	}

	switch d.Operation {
	case OpInsert:
		if len(d.Data) == 0 {
			return ErrUnscopedDirective
		}
		columns, args, err := sortedColumns(d.Data)
		if err != nil {
			return err
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
		sql := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
			d.Table, strings.Join(columns, ", "), placeholders)
		return tx.Exec(sql, args...).Error

	case OpUpdate:
		if len(d.Where) == 0 || len(d.Data) == 0 {
			return ErrUnscopedDirective
		}
		clause, args, err := whereClause(d.Where)
		if err != nil {
			return err
		}
		for column := range d.Data {
			if !identPattern.MatchString(column) {
				return fmt.Errorf("bad column name %q", column)
			}
		}
		return tx.Table(d.Table).Where(clause, args...).Updates(d.Data).Error

	case OpDelete:
		if len(d.Where) == 0 {
			return ErrUnscopedDirective
		}
		clause, args, err := whereClause(d.Where)
		if err != nil {
			return err
		}
		sql := fmt.Sprintf("DELETE FROM %s WHERE %s", d.Table, clause)
		return tx.Exec(sql, args...).Error

	default:
		return ErrUnknownOperation
	}
}

// sortedColumns flattens a payload map into parallel column/value slices in
// deterministic order.
func sortedColumns(data map[string]any) ([]string, []any, error) {
	columns := make([]string, 0, len(data))
	for column := range data {
		if !identPattern.MatchString(column) {
			return nil, nil, fmt.Errorf("bad column name %q", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	args := make([]any, 0, len(columns))
	for _, column := range columns {
		args = append(args, data[column])
	}
	return columns, args, nil
}

func whereClause(where map[string]any) (string, []any, error) {
	columns, args, err := sortedColumns(where)
	if err != nil {
		return "", nil, err
	}
	predicates := make([]string, len(columns))
	for i, column := range columns {
		predicates[i] = column + " = ?"
	}
	return strings.Join(predicates, " AND "), args, nil
}
