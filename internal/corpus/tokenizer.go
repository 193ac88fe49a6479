// Package corpus parses verse source text and its inline per-word markup.
//
// Source verses may embed OSIS-flavoured word tags:
//
//	<w lemma="strong:G2316">God</w>
//
// where the lemma attribute can carry several Strong's references for one
// surface token (article+noun pairs and similar). The tokenizer strips the
// markup for display and records (position, word, references) per tag.
package corpus

import (
	"regexp"
	"strings"
)

// Regex patterns for word-tag markup
var (
	// Matches a well-formed word tag: "<w lemma=...>text</w>"
	wordTagPattern = regexp.MustCompile(`<w\b([^<>]*)>([^<>]*)</w>`)

	// Matches Strong's references inside a tag's attributes, with or
	// without the testament prefix: "strong:G2316", "strong:430"
	strongsRefPattern = regexp.MustCompile(`strong:([GHgh]?\d+)`)

	// Matches any remaining well-formed tag, for display stripping
	anyTagPattern = regexp.MustCompile(`</?[a-zA-Z][^<>]*/?>`)

	// Matches a word-tag fragment left behind by an unbalanced span, open
	// or close, bracketed or not. The \b keeps <wj> and friends out.
	strayWordTagPattern = regexp.MustCompile(`</?w\b`)
)

// Token is one tokenized word occurrence within a verse.
type Token struct {
	// Position is the zero-based tag ordinal in left-to-right encounter
	// order. Contiguous: a verse with N tags yields positions 0..N-1.
	Position int
	// Word is the surface text inside the tag.
	Word string
	// Refs holds every Strong's reference listed on the tag, source order.
	Refs []string
	// Ref is the single reference selected by the tokenizer's policy,
	// empty when the tag carried none.
	Ref string
}

// Result is the outcome of tokenizing one verse.
type Result struct {
	// Plain is the display text with all markup removed.
	Plain string
	// Tokens lists the word tags in encounter order.
	Tokens []Token
	// Warnings counts malformed spans that were kept as plain text.
	Warnings int
}

// RefPolicy selects one Strong's reference when a tag lists several.
// The slice is never empty.
type RefPolicy func(refs []string) string

// LastRef is the default policy: the observed source convention lists head
// words after their modifiers, so the last reference is taken. This is a
// heuristic over the data, not a linguistic rule; supply a different
// RefPolicy for a corpus with another convention.
func LastRef(refs []string) string {
	return refs[len(refs)-1]
}

// Tokenizer splits verse markup into display text and word tokens.
type Tokenizer struct {
	policy RefPolicy
}

// NewTokenizer returns a tokenizer using the LastRef policy.
func NewTokenizer() *Tokenizer {
	return NewTokenizerWithPolicy(LastRef)
}

// NewTokenizerWithPolicy returns a tokenizer with a custom tie-break policy.
func NewTokenizerWithPolicy(policy RefPolicy) *Tokenizer {
	return &Tokenizer{policy: policy}
}

// Tokenize parses one verse's raw text. Malformed tag syntax never fails
// the verse: the offending span stays in the plain text and is counted in
// Result.Warnings.
func (t *Tokenizer) Tokenize(raw string) Result {
	var result Result

	plain := wordTagPattern.ReplaceAllStringFunc(raw, func(match string) string {
		groups := wordTagPattern.FindStringSubmatch(match)
		attrs, word := groups[1], groups[2]

		token := Token{
			Position: len(result.Tokens),
			Word:     word,
		}
		for _, ref := range strongsRefPattern.FindAllStringSubmatch(attrs, -1) {
			token.Refs = append(token.Refs, strings.ToUpper(ref[1]))
		}
		if len(token.Refs) > 0 {
			token.Ref = t.policy(token.Refs)
		}
		result.Tokens = append(result.Tokens, token)

		return word
	})

	// Unbalanced word-tag fragments are counted before display stripping;
	// bracketed ones lose their markup below but their words survive.
	result.Warnings = len(strayWordTagPattern.FindAllString(plain, -1))

	// Anything tag-shaped left over is markup we do not token-ize
	// (milestones, closers) and is dropped from the display text.
	plain = anyTagPattern.ReplaceAllString(plain, "")

	result.Plain = collapseSpaces(plain)
	return result
}

// Strip removes all markup from a verse using the default tokenizer.
func Strip(raw string) string {
	return NewTokenizer().Tokenize(raw).Plain
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
