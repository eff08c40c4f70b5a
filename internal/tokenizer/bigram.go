package tokenizer

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/registry"
)

// Bigram segments with bleve's cjk analyzer: unicode word boundaries, width
// folding, lower-casing and overlapping bigrams over runs of CJK characters.
type Bigram struct {
	analyzer analysis.Analyzer
}

// NewBigram resolves the cjk analyzer from the bleve registry.
func NewBigram() (*Bigram, error) {
	analyzer, err := registry.NewCache().AnalyzerNamed(cjk.AnalyzerName)
	if err != nil {
		return nil, fmt.Errorf("failed to build cjk analyzer: %w", err)
	}
	return &Bigram{analyzer: analyzer}, nil
}

// Segment returns the analyzer's terms in stream order.
func (b *Bigram) Segment(text string) []string {
	if text == "" {
		return []string{}
	}
	stream := b.analyzer.Analyze([]byte(text))
	tokens := make([]string, 0, len(stream))
	for _, tok := range stream {
		tokens = append(tokens, string(tok.Term))
	}
	return Clean(tokens)
}
