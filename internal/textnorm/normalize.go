// Package textnorm canonicalizes product text before any comparison.
//
// Normalization runs a Unicode compatibility fold and then three fixed
// substitution tables in order: aliases, units, homophones. Every pass works
// on the output of the previous one.
package textnorm

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Replacement is one substitution of a table.
type Replacement struct {
	From string
	To   string
}

// aliases are matched case-insensitively and replaced with their canonical casing.
var aliases = []Replacement{
	{"pvc-u", "PVC-U"},
	{"upvc", "UPVC"},
	{"pe-rt", "PE-RT"},
	{"hdpe", "HDPE"},
	{"ppr", "PPR"},
	{"pvc", "PVC"},
	{"dn", "DN"},
}

// units are matched case-sensitively. Longer spellings come before their suffixes.
var units = []Replacement{
	{"毫米", "mm"},
	{"MM", "mm"},
	{"厘米", "cm"},
	{"CM", "cm"},
	{"米", "m"},
	{"兆帕", "MPa"},
	{"MPA", "MPa"},
	{"千瓦", "kW"},
	{"KW", "kW"},
	{"瓦", "W"},
	{"千克", "kg"},
	{"公斤", "kg"},
	{"KG", "kg"},
	{"克", "g"},
	{"度", "°"},
}

var homophones = []Replacement{
	{"联", "连"},
	{"津", "金"},
}

var (
	aliasPattern   *regexp.Regexp
	aliasCanonical map[string]string
	unitReplacer   *strings.Replacer
	homoReplacer   *strings.Replacer
)

func init() {
	ordered := make([]Replacement, len(aliases))
	copy(ordered, aliases)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i].From) > len(ordered[j].From) })

	aliasCanonical = make(map[string]string, len(ordered))
	quoted := make([]string, len(ordered))
	for i, a := range ordered {
		quoted[i] = regexp.QuoteMeta(a.From)
		aliasCanonical[strings.ToLower(a.From)] = a.To
	}
	aliasPattern = regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)

	unitReplacer = strings.NewReplacer(pairs(units)...)
	homoReplacer = strings.NewReplacer(pairs(homophones)...)
}

func pairs(table []Replacement) []string {
	out := make([]string, 0, 2*len(table))
	for _, r := range table {
		out = append(out, r.From, r.To)
	}
	return out
}

// Normalize returns the canonical form of text. It is total and pure.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := norm.NFKC.String(text)
	s = aliasPattern.ReplaceAllStringFunc(s, func(m string) string {
		return aliasCanonical[strings.ToLower(m)]
	})
	s = unitReplacer.Replace(s)
	s = homoReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// Aliases returns a copy of the alias table.
func Aliases() []Replacement { return clone(aliases) }

// Units returns a copy of the unit table.
func Units() []Replacement { return clone(units) }

// Homophones returns a copy of the homophone table.
func Homophones() []Replacement { return clone(homophones) }

func clone(table []Replacement) []Replacement {
	out := make([]Replacement, len(table))
	copy(out, table)
	return out
}
