package entities

// Testament identifies which half of the canon a book belongs to.
type Testament string

const (
	TestamentOld Testament = "OT"
	TestamentNew Testament = "NT"
)

// Book is one of the 66 canonical books. IDs are assigned in canonical
// order at build time and never change; they are the join key for verses,
// word annotations and cross references.
type Book struct {
	ID        uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64" json:"name"`
	Abbrev    string    `gorm:"uniqueIndex;size:8" json:"abbrev"`
	Testament Testament `gorm:"size:2" json:"testament"`
}

// Verse holds the display text for one (book, chapter, verse) key.
// The FTS shadow row is maintained by triggers installed at schema time,
// keyed by the same rowid.
type Verse struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BookID  uint   `gorm:"uniqueIndex:idx_verse_key" json:"book_id"`
	Chapter int    `gorm:"uniqueIndex:idx_verse_key" json:"chapter"`
	Verse   int    `gorm:"uniqueIndex:idx_verse_key" json:"verse"`
	Text    string `gorm:"type:text" json:"text"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

// WordAnnotation links one tokenized word occurrence to a lexicon entry.
// Position is the zero-based word-tag ordinal within the verse.
type WordAnnotation struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	BookID    uint   `gorm:"uniqueIndex:idx_word_key" json:"book_id"`
	Chapter   int    `gorm:"uniqueIndex:idx_word_key" json:"chapter"`
	Verse     int    `gorm:"uniqueIndex:idx_word_key" json:"verse"`
	Position  int    `gorm:"uniqueIndex:idx_word_key" json:"position"`
	StrongsID string `gorm:"index;size:8" json:"strongs_id"`
}

// LexiconEntry is one normalized Strong's dictionary entry. The key always
// carries its testament prefix exactly once (H430, G2316).
type LexiconEntry struct {
	StrongsID     string `gorm:"primaryKey;size:8" json:"strongs_id"`
	Lemma         string `gorm:"size:128" json:"lemma,omitempty"`
	Translit      string `gorm:"size:128" json:"translit,omitempty"`
	Pronunciation string `gorm:"size:128" json:"pronunciation,omitempty"`
	PartOfSpeech  string `gorm:"size:64" json:"part_of_speech,omitempty"`
	Definition    string `gorm:"type:text" json:"definition"`
	Usage         string `gorm:"type:text" json:"usage,omitempty"`
}

// CrossReference links a verse to a related verse or verse range.
// Votes carries the community weighting from the source data and is used
// for ordering only.
type CrossReference struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	FromBookID   uint `gorm:"index:idx_xref_from" json:"from_book_id"`
	FromChapter  int  `gorm:"index:idx_xref_from" json:"from_chapter"`
	FromVerse    int  `gorm:"index:idx_xref_from" json:"from_verse"`
	ToBookID     uint `json:"to_book_id"`
	ToChapter    int  `json:"to_chapter"`
	ToVerseStart int  `json:"to_verse_start"`
	ToVerseEnd   int  `json:"to_verse_end,omitempty"`
	Votes        int  `json:"votes"`
}

func (Book) TableName() string {
	return "books"
}

func (Verse) TableName() string {
	return "verses"
}

func (WordAnnotation) TableName() string {
	return "word_annotations"
}

func (LexiconEntry) TableName() string {
	return "lexicon_entries"
}

func (CrossReference) TableName() string {
	return "cross_references"
}
