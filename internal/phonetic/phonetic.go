// Package phonetic renders text as pinyin for cross-script substring matching.
package phonetic

import (
	"strings"
	"unicode/utf8"

	"github.com/mozillazg/go-pinyin"
)

// Indexer computes full and initials pinyin forms. Runes without a pinyin
// reading (Latin letters, digits, punctuation) pass through unchanged.
// Output is lower-cased.
type Indexer struct {
	args pinyin.Args
}

// New creates an Indexer using toneless pinyin.
func New() *Indexer {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	args.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}
	return &Indexer{args: args}
}

func (ix *Indexer) syllables(text string) []string {
	if text == "" {
		return nil
	}
	return pinyin.LazyPinyin(text, ix.args)
}

// Full concatenates the syllable of every character.
func (ix *Indexer) Full(text string) string {
	return strings.ToLower(strings.Join(ix.syllables(text), ""))
}

// Initials concatenates the first letter of every syllable.
func (ix *Indexer) Initials(text string) string {
	var b strings.Builder
	for _, s := range ix.syllables(text) {
		r, _ := utf8.DecodeRuneInString(s)
		if r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}
