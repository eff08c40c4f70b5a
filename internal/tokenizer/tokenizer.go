package tokenizer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mioding/catalog-search/services"
)

// Segmenter kinds accepted by New.
const (
	KindDictionary = "dictionary"
	KindBigram     = "bigram"
	KindLexicon    = "lexicon"
)

// New builds the segmenter named by kind. words seeds the lexicon segmenter
// and is ignored by the others; an empty list falls back to DefaultLexicon.
func New(kind string, words []string) (services.Segmenter, error) {
	switch strings.ToLower(kind) {
	case KindDictionary, "":
		return NewDictionary()
	case KindBigram:
		return NewBigram()
	case KindLexicon:
		if len(words) == 0 {
			words = DefaultLexicon
		}
		return NewLexicon(words), nil
	}
	return nil, fmt.Errorf("unknown segmenter %q", kind)
}

// Clean drops empty tokens and tokens made only of whitespace, punctuation or symbols.
// The result is never nil.
func Clean(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || !hasWordRune(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}
