package corpus

import (
	"strings"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

// CanonBook is one row of the fixed 66-book canonical table. IDs follow
// canonical order; abbreviations follow the OSIS convention used by the
// cross-reference source data.
type CanonBook struct {
	ID        uint
	Name      string
	Abbrev    string
	Testament entities.Testament
}

// Canon lists the 66 books in canonical order.
var Canon = []CanonBook{
	{1, "Genesis", "Gen", entities.TestamentOld},
	{2, "Exodus", "Exod", entities.TestamentOld},
	{3, "Leviticus", "Lev", entities.TestamentOld},
	{4, "Numbers", "Num", entities.TestamentOld},
	{5, "Deuteronomy", "Deut", entities.TestamentOld},
	{6, "Joshua", "Josh", entities.TestamentOld},
	{7, "Judges", "Judg", entities.TestamentOld},
	{8, "Ruth", "Ruth", entities.TestamentOld},
	{9, "1 Samuel", "1Sam", entities.TestamentOld},
	{10, "2 Samuel", "2Sam", entities.TestamentOld},
	{11, "1 Kings", "1Kgs", entities.TestamentOld},
	{12, "2 Kings", "2Kgs", entities.TestamentOld},
	{13, "1 Chronicles", "1Chr", entities.TestamentOld},
	{14, "2 Chronicles", "2Chr", entities.TestamentOld},
	{15, "Ezra", "Ezra", entities.TestamentOld},
	{16, "Nehemiah", "Neh", entities.TestamentOld},
	{17, "Esther", "Esth", entities.TestamentOld},
	{18, "Job", "Job", entities.TestamentOld},
	{19, "Psalms", "Ps", entities.TestamentOld},
	{20, "Proverbs", "Prov", entities.TestamentOld},
	{21, "Ecclesiastes", "Eccl", entities.TestamentOld},
	{22, "Song of Solomon", "Song", entities.TestamentOld},
	{23, "Isaiah", "Isa", entities.TestamentOld},
	{24, "Jeremiah", "Jer", entities.TestamentOld},
	{25, "Lamentations", "Lam", entities.TestamentOld},
	{26, "Ezekiel", "Ezek", entities.TestamentOld},
	{27, "Daniel", "Dan", entities.TestamentOld},
	{28, "Hosea", "Hos", entities.TestamentOld},
	{29, "Joel", "Joel", entities.TestamentOld},
	{30, "Amos", "Amos", entities.TestamentOld},
	{31, "Obadiah", "Obad", entities.TestamentOld},
	{32, "Jonah", "Jonah", entities.TestamentOld},
	{33, "Micah", "Mic", entities.TestamentOld},
	{34, "Nahum", "Nah", entities.TestamentOld},
	{35, "Habakkuk", "Hab", entities.TestamentOld},
	{36, "Zephaniah", "Zeph", entities.TestamentOld},
	{37, "Haggai", "Hag", entities.TestamentOld},
	{38, "Zechariah", "Zech", entities.TestamentOld},
	{39, "Malachi", "Mal", entities.TestamentOld},
	{40, "Matthew", "Matt", entities.TestamentNew},
	{41, "Mark", "Mark", entities.TestamentNew},
	{42, "Luke", "Luke", entities.TestamentNew},
	{43, "John", "John", entities.TestamentNew},
	{44, "Acts", "Acts", entities.TestamentNew},
	{45, "Romans", "Rom", entities.TestamentNew},
	{46, "1 Corinthians", "1Cor", entities.TestamentNew},
	{47, "2 Corinthians", "2Cor", entities.TestamentNew},
	{48, "Galatians", "Gal", entities.TestamentNew},
	{49, "Ephesians", "Eph", entities.TestamentNew},
	{50, "Philippians", "Phil", entities.TestamentNew},
	{51, "Colossians", "Col", entities.TestamentNew},
	{52, "1 Thessalonians", "1Thess", entities.TestamentNew},
	{53, "2 Thessalonians", "2Thess", entities.TestamentNew},
	{54, "1 Timothy", "1Tim", entities.TestamentNew},
	{55, "2 Timothy", "2Tim", entities.TestamentNew},
	{56, "Titus", "Titus", entities.TestamentNew},
	{57, "Philemon", "Phlm", entities.TestamentNew},
	{58, "Hebrews", "Heb", entities.TestamentNew},
	{59, "James", "Jas", entities.TestamentNew},
	{60, "1 Peter", "1Pet", entities.TestamentNew},
	{61, "2 Peter", "2Pet", entities.TestamentNew},
	{62, "1 John", "1John", entities.TestamentNew},
	{63, "2 John", "2John", entities.TestamentNew},
	{64, "3 John", "3John", entities.TestamentNew},
	{65, "Jude", "Jude", entities.TestamentNew},
	{66, "Revelation", "Rev", entities.TestamentNew},
}

var (
	booksByName   = make(map[string]CanonBook, len(Canon))
	booksByAbbrev = make(map[string]CanonBook, len(Canon))
)

func init() {
	for _, b := range Canon {
		booksByName[strings.ToLower(b.Name)] = b
		booksByAbbrev[strings.ToLower(b.Abbrev)] = b
	}
}

// BookByName resolves a source book name to its canonical entry.
// Matching is case-insensitive and accepts the abbreviation as a fallback.
func BookByName(name string) (CanonBook, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if b, ok := booksByName[key]; ok {
		return b, true
	}
	b, ok := booksByAbbrev[key]
	return b, ok
}

// BookByAbbrev resolves an OSIS-style abbreviation (case-insensitive).
func BookByAbbrev(abbrev string) (CanonBook, bool) {
	b, ok := booksByAbbrev[strings.ToLower(strings.TrimSpace(abbrev))]
	return b, ok
}
