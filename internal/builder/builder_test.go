package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database"
)

const fixtureCorpus = `{
	"books": [
		{
			"name": "Genesis",
			"chapters": [
				{"chapter": 1, "verses": [
					{"verse": 1, "text": "In the <w lemma=\"strong:H7225\">beginning</w> <w lemma=\"strong:H430\">God</w> created the heaven and the earth."},
					{"verse": 2, "text": "And the earth was without form, and void."}
				]}
			]
		},
		{
			"name": "Psalms",
			"chapters": [
				{"chapter": 23, "verses": [
					{"verse": 1, "text": "The LORD is my shepherd; I shall not want."}
				]}
			]
		},
		{
			"name": "John",
			"chapters": [
				{"chapter": 3, "verses": [
					{"verse": 16, "text": "For <w lemma=\"strong:G3588 strong:G2316\">God</w> so loved the world."},
					{"verse": 17, "text": "For God sent not his Son into the world to condemn the world."}
				]}
			]
		}
	]
}`

const fixtureHebrewLexicon = `{
	"430": {"lemma": "אֱלֹהִים", "xlit": "elohiym", "strongs_def": "gods, God"},
	"7225": {"lemma": "רֵאשִׁית"}
}`

const fixtureGreekLexicon = `var strongs = {
	"G2316": {"lemma": "θεός", "translit": "theos", "strongs_def": "a deity, God"}
};`

func writeFixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func fixtureConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		OutputPath:        filepath.Join(dir, "corpus.db"),
		CorpusPath:        writeFixture(t, dir, "corpus.json", fixtureCorpus),
		HebrewLexiconPath: writeFixture(t, dir, "hebrew.json", fixtureHebrewLexicon),
		GreekLexiconPath:  writeFixture(t, dir, "greek.js", fixtureGreekLexicon),
	}
}

func TestBuilder_Build_EndToEnd(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Expected = ExpectedCounts{Verses: 5, LexiconEntries: 2, FTSRows: 5}

	report, err := NewBuilder(cfg).Build()
	require.NoError(t, err)

	assert.Equal(t, 3, report.Books)
	assert.Equal(t, 5, report.Verses)
	assert.Equal(t, 3, report.Words)
	assert.Equal(t, 2, report.LexiconEntries, "H7225 has no definition and is skipped")
	assert.Equal(t, 1, report.SkippedLexicon)
	assert.Empty(t, report.ValidationWarnings)

	db, err := database.NewDatabase(cfg.OutputPath)
	require.NoError(t, err)
	defer db.Close()

	verses, err := db.CountRows("verses")
	require.NoError(t, err)
	assert.Equal(t, int64(5), verses)

	ftsRows, err := db.CountFTSRows()
	require.NoError(t, err)
	assert.Equal(t, int64(5), ftsRows)

	// Markup is stripped from the stored display text.
	verse, err := db.GetVerse(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "In the beginning God created the heaven and the earth.", verse.Text)

	// Search lands on the verse key.
	hits, err := db.SearchVerses("shepherd", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, uint(19), hits[0].BookID)
	assert.Equal(t, 23, hits[0].Chapter)
	assert.Equal(t, 1, hits[0].Verse)

	// The multi-reference tag resolved to the last-listed reference.
	words, err := db.GetWordAnnotations(43, 3, 16)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "G2316", words[0].StrongsID)
	assert.Equal(t, 0, words[0].Position)

	entry, err := db.GetLexiconEntry("G2316")
	require.NoError(t, err)
	assert.Equal(t, "a deity, God", entry.Definition)
}

func TestBuilder_Build_ValidationMismatchIsWarningOnly(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Expected = ExpectedCounts{Verses: 31102}

	report, err := NewBuilder(cfg).Build()

	require.NoError(t, err, "count drift must not fail the build")
	require.Len(t, report.ValidationWarnings, 1)
	assert.Contains(t, report.ValidationWarnings[0], "expected 31102")
	assert.FileExists(t, cfg.OutputPath)
}

func TestBuilder_Build_FatalErrorRemovesArtifact(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.GreekLexiconPath = writeFixture(t, filepath.Dir(cfg.OutputPath), "bad.js", `var strongs = {"1": nope};`)

	_, err := NewBuilder(cfg).Build()

	require.Error(t, err)
	assert.NoFileExists(t, cfg.OutputPath, "a failed build must not leave a partial artifact")
}

func TestBuilder_Build_UnknownBookIsFatal(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.CorpusPath = writeFixture(t, filepath.Dir(cfg.OutputPath), "bad_corpus.json",
		`{"books": [{"name": "Enoch", "chapters": []}]}`)

	_, err := NewBuilder(cfg).Build()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "canonical")
	assert.NoFileExists(t, cfg.OutputPath)
}

func TestBuilder_Build_CrossReferences(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.CrossRefsPath = writeFixture(t, filepath.Dir(cfg.OutputPath), "xrefs.txt",
		"From Verse\tTo Verse\tVotes\nGen.1.1\tJohn.3.16\t40\nGen.1.1\tPs.23.1-Ps.23.3\t10\n")

	report, err := NewBuilder(cfg).Build()
	require.NoError(t, err)
	assert.Equal(t, 2, report.CrossRefs)

	db, err := database.NewDatabase(cfg.OutputPath)
	require.NoError(t, err)
	defer db.Close()

	refs, err := db.GetCrossReferences(1, 1, 1)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	// Strongest vote weight first.
	assert.Equal(t, uint(43), refs[0].ToBookID)
	assert.Equal(t, 40, refs[0].Votes)
	assert.Equal(t, 3, refs[1].ToVerseEnd)
}

func TestBuilder_Build_RebuildOverwritesStaleArtifact(t *testing.T) {
	cfg := fixtureConfig(t)

	_, err := NewBuilder(cfg).Build()
	require.NoError(t, err)

	report, err := NewBuilder(cfg).Build()
	require.NoError(t, err)
	assert.Equal(t, 5, report.Verses, "second build starts from scratch, not on top of the first")
}

func TestBuilder_Build_BareRefsTakeTestamentPrefix(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		OutputPath: filepath.Join(dir, "corpus.db"),
		CorpusPath: writeFixture(t, dir, "corpus.json", `{
			"books": [
				{
					"name": "Genesis",
					"chapters": [
						{"chapter": 1, "verses": [
							{"verse": 1, "text": "In the <w lemma=\"strong:7225\">beginning</w>."}
						]}
					]
				},
				{
					"name": "John",
					"chapters": [
						{"chapter": 3, "verses": [
							{"verse": 16, "text": "For <w lemma=\"strong:2316\">God</w> so loved."}
						]}
					]
				}
			]
		}`),
	}

	_, err := NewBuilder(cfg).Build()
	require.NoError(t, err)

	db, err := database.NewDatabase(cfg.OutputPath)
	require.NoError(t, err)
	defer db.Close()

	gen, err := db.GetWordAnnotations(1, 1, 1)
	require.NoError(t, err)
	require.Len(t, gen, 1)
	assert.Equal(t, "H7225", gen[0].StrongsID)

	jhn, err := db.GetWordAnnotations(43, 3, 16)
	require.NoError(t, err)
	require.Len(t, jhn, 1)
	assert.Equal(t, "G2316", jhn[0].StrongsID)
}
