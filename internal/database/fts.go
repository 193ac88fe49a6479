package database

// The verses_fts virtual table mirrors verses.text as an external-content
// FTS5 index. The triggers keep the shadow rows in lockstep with every
// insert, update and delete on verses, so no code path can leave the index
// and the live text disagreeing.
var ftsSchema = []string{
	`CREATE VIRTUAL TABLE IF NOT EXISTS verses_fts USING fts5(
		text,
		content='verses',
		content_rowid='id'
	)`,
	`CREATE TRIGGER IF NOT EXISTS verses_fts_ai AFTER INSERT ON verses BEGIN
		INSERT INTO verses_fts(rowid, text) VALUES (new.id, new.text);
	END`,
	`CREATE TRIGGER IF NOT EXISTS verses_fts_ad AFTER DELETE ON verses BEGIN
		INSERT INTO verses_fts(verses_fts, rowid, text) VALUES ('delete', old.id, old.text);
	END`,
	`CREATE TRIGGER IF NOT EXISTS verses_fts_au AFTER UPDATE OF text ON verses BEGIN
		INSERT INTO verses_fts(verses_fts, rowid, text) VALUES ('delete', old.id, old.text);
		INSERT INTO verses_fts(rowid, text) VALUES (new.id, new.text);
	END`,
}

func (d *Database) setupFTS() error {
	for _, stmt := range ftsSchema {
		if err := d.DB.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// SearchResult is one full-text hit: the verse key plus its display text.
type SearchResult struct {
	BookID  uint   `json:"book_id"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// SearchVerses runs an FTS5 match over the verse text and returns hits in
// relevance order. limit <= 0 means no limit.
func (d *Database) SearchVerses(query string, limit int) ([]SearchResult, error) {
	var results []SearchResult
	sql := `SELECT v.book_id, v.chapter, v.verse, v.text
		FROM verses_fts f
		JOIN verses v ON v.id = f.rowid
		WHERE verses_fts MATCH ?
		ORDER BY rank`
	args := []any{query}
	if limit > 0 {
		sql += " LIMIT ?"
		args = append(args, limit)
	}
	err := d.DB.Raw(sql, args...).Scan(&results).Error
	return results, err
}

// CountFTSRows counts the shadow rows; validation compares this against
// the live verse count.
func (d *Database) CountFTSRows() (int64, error) {
	var count int64
	err := d.DB.Raw("SELECT count(*) FROM verses_fts").Scan(&count).Error
	return count, err
}
