package tokenizer

import (
	"unicode"
)

// DefaultLexicon is a small building-materials vocabulary.
var DefaultLexicon = []string{
	"不锈钢", "水龙头", "龙头", "配件", "管件", "管材", "排水管", "给水管", "热水管", "冷水管",
	"地暖管", "波纹管", "水管", "弯头", "三通", "直接", "阀门", "球阀", "截止阀", "堵头",
	"电线", "电缆", "开关", "插座", "线管", "胶水", "生料带", "卫浴", "花洒", "地漏",
}

// Lexicon is a deterministic forward-maximum-matching segmenter over a fixed
// word list. Runs of ASCII letters and digits stay whole, a decimal point
// between digits included. CJK runes outside the lexicon become single tokens.
type Lexicon struct {
	words  map[string]struct{}
	maxLen int
}

// NewLexicon builds a segmenter over words.
func NewLexicon(words []string) *Lexicon {
	l := &Lexicon{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w == "" {
			continue
		}
		l.words[w] = struct{}{}
		if n := len([]rune(w)); n > l.maxLen {
			l.maxLen = n
		}
	}
	return l
}

// Segment splits text left to right, always taking the longest lexicon word.
func (l *Lexicon) Segment(text string) []string {
	runes := []rune(text)
	tokens := make([]string, 0)

	for i := 0; i < len(runes); {
		r := runes[i]

		if isASCIIWord(r) {
			j := i + 1
			for j < len(runes) {
				if isASCIIWord(runes[j]) {
					j++
					continue
				}
				if runes[j] == '.' && j+1 < len(runes) && isDigit(runes[j-1]) && isDigit(runes[j+1]) {
					j++
					continue
				}
				break
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
			continue
		}

		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			i++
			continue
		}

		n := l.longestWordAt(runes, i)
		tokens = append(tokens, string(runes[i:i+n]))
		i += n
	}
	return Clean(tokens)
}

func (l *Lexicon) longestWordAt(runes []rune, start int) int {
	limit := l.maxLen
	if rest := len(runes) - start; rest < limit {
		limit = rest
	}
	for n := limit; n > 1; n-- {
		if _, ok := l.words[string(runes[start:start+n])]; ok {
			return n
		}
	}
	return 1
}

func isASCIIWord(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
