package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Ref addresses a single verse through the canonical book table.
type Ref struct {
	BookID  uint
	Chapter int
	Verse   int
}

// CrossRefRow is one parsed cross-reference: a source verse pointing at a
// target verse or verse range, with its community vote weight.
type CrossRefRow struct {
	From       Ref
	To         Ref
	ToVerseEnd int // 0 when the target is a single verse
	Votes      int
}

// ParseCrossReferences reads the tab-separated cross-reference source
// ("Gen.1.1\tPs.33.6-Ps.33.9\t51"). Rows that do not resolve against the
// canonical table are skipped and counted; only an unreadable source is an
// error.
func ParseCrossReferences(r io.Reader) ([]CrossRefRow, int, error) {
	var rows []CrossRefRow
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "From Verse") || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			skipped++
			continue
		}

		from, err := parseRef(fields[0])
		if err != nil {
			skipped++
			continue
		}

		to, toEnd, err := parseRefRange(fields[1])
		if err != nil {
			skipped++
			continue
		}

		votes := 0
		if len(fields) >= 3 {
			votes, _ = strconv.Atoi(strings.TrimSpace(fields[2]))
		}

		rows = append(rows, CrossRefRow{From: from, To: to, ToVerseEnd: toEnd, Votes: votes})
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("reading cross references: %w", err)
	}

	return rows, skipped, nil
}

// parseRef parses a dotted verse reference like "Gen.1.1".
func parseRef(s string) (Ref, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Ref{}, fmt.Errorf("malformed reference %q", s)
	}
	book, ok := BookByAbbrev(parts[0])
	if !ok {
		return Ref{}, fmt.Errorf("unknown book %q", parts[0])
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil {
		return Ref{}, fmt.Errorf("malformed chapter in %q", s)
	}
	verse, err := strconv.Atoi(parts[2])
	if err != nil {
		return Ref{}, fmt.Errorf("malformed verse in %q", s)
	}
	if chapter < 1 || verse < 1 {
		return Ref{}, fmt.Errorf("non-positive chapter/verse in %q", s)
	}
	return Ref{BookID: book.ID, Chapter: chapter, Verse: verse}, nil
}

// parseRefRange parses "Ps.33.6" or "Ps.33.6-Ps.33.9". Ranges spanning
// books or chapters are rejected; the source data never produces them.
func parseRefRange(s string) (Ref, int, error) {
	start, end, found := strings.Cut(strings.TrimSpace(s), "-")
	from, err := parseRef(start)
	if err != nil {
		return Ref{}, 0, err
	}
	if !found {
		return from, 0, nil
	}
	to, err := parseRef(end)
	if err != nil {
		return Ref{}, 0, err
	}
	if to.BookID != from.BookID || to.Chapter != from.Chapter {
		return Ref{}, 0, fmt.Errorf("range %q crosses chapters", s)
	}
	return from, to.Verse, nil
}
