// Package lexicon loads Strong's dictionary sources into normalized entries.
//
// Sources come in two shapes: a bare JSON map, or a JS-style object literal
// (`var strongs = { ... };`) as shipped by older dictionary dumps. Both map
// a bare or prefixed Strong's number to a record whose field names have
// drifted across dictionary generations; the alias table below resolves
// each attribute to the first historical name present.
package lexicon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

// PrefixGreek and PrefixHebrew are the testament prefixes for normalized
// Strong's identifiers.
const (
	PrefixGreek  = "G"
	PrefixHebrew = "H"
)

// fieldAliases maps each entry attribute to the historical source field
// names for it, in priority order. First present non-empty value wins.
// Adding a newly observed alias is a one-line change here.
var fieldAliases = map[string][]string{
	"lemma":         {"lemma", "word", "original"},
	"translit":      {"translit", "xlit", "transliteration"},
	"pronunciation": {"pron", "pronunciation", "phonetic"},
	"partOfSpeech":  {"pos", "part_of_speech", "morph"},
	"definition":    {"strongs_def", "definition", "def"},
	"usage":         {"kjv_def", "usage", "derivation"},
}

// Result is the outcome of one dictionary load.
type Result struct {
	Entries []entities.LexiconEntry
	// Skipped counts entries rejected for lacking a definition under any
	// known alias. They are logged as one summary line, not per entry.
	Skipped int
}

// Normalize trims an identifier and guarantees the testament prefix is
// present exactly once, uppercased: Normalize("H", "430") and
// Normalize("H", "h430") both yield "H430". Idempotent.
func Normalize(prefix, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if strings.EqualFold(id[:1], prefix) {
		return strings.ToUpper(id[:1]) + id[1:]
	}
	return prefix + id
}

// Load parses a dictionary source and returns the normalized entries,
// keyed and sorted by Strong's identifier. A syntactically unparseable
// source is a fatal error for this language's load; a partial dictionary
// would be worse than none.
func Load(r io.Reader, prefix string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s dictionary: %w", prefix, err)
	}

	var records map[string]map[string]any
	if err := json.Unmarshal(stripAssignment(data), &records); err != nil {
		return nil, fmt.Errorf("parsing %s dictionary: %w", prefix, err)
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &Result{Entries: make([]entities.LexiconEntry, 0, len(records))}
	for _, key := range keys {
		record := records[key]
		definition := pickField(record, "definition")
		if definition == "" {
			result.Skipped++
			continue
		}
		result.Entries = append(result.Entries, entities.LexiconEntry{
			StrongsID:     Normalize(prefix, key),
			Lemma:         pickField(record, "lemma"),
			Translit:      pickField(record, "translit"),
			Pronunciation: pickField(record, "pronunciation"),
			PartOfSpeech:  pickField(record, "partOfSpeech"),
			Definition:    definition,
			Usage:         pickField(record, "usage"),
		})
	}

	if result.Skipped > 0 {
		log.Printf("Lexicon %s: skipped %d entries with no definition", prefix, result.Skipped)
	}

	return result, nil
}

// pickField resolves an attribute through the alias table.
func pickField(record map[string]any, attr string) string {
	for _, alias := range fieldAliases[attr] {
		if v, ok := record[alias]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// stripAssignment unwraps a JS object-literal source ("var strongs = {...};")
// down to the braced body so it can be decoded as JSON. Bare JSON passes
// through untouched.
func stripAssignment(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '{' {
		return trimmed
	}
	start := bytes.IndexByte(trimmed, '{')
	end := bytes.LastIndexByte(trimmed, '}')
	if start == -1 || end == -1 || end < start {
		return trimmed
	}
	return trimmed[start : end+1]
}
