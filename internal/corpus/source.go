package corpus

import (
	"encoding/json"
	"fmt"
	"io"
)

// SourceCorpus is the raw verse-tree source format:
//
//	{ "books": [ { "name", "chapters": [ { "chapter", "verses": [...] } ] } ] }
type SourceCorpus struct {
	Books []SourceBook `json:"books"`
}

type SourceBook struct {
	Name     string          `json:"name"`
	Chapters []SourceChapter `json:"chapters"`
}

type SourceChapter struct {
	Chapter int           `json:"chapter"`
	Verses  []SourceVerse `json:"verses"`
}

type SourceVerse struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// ParseCorpus decodes a corpus source tree. A syntax error is fatal for the
// whole build.
func ParseCorpus(r io.Reader) (*SourceCorpus, error) {
	var src SourceCorpus
	if err := json.NewDecoder(r).Decode(&src); err != nil {
		return nil, fmt.Errorf("parsing corpus source: %w", err)
	}
	return &src, nil
}
