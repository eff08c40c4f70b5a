package tokenizer

import (
	"fmt"

	"github.com/go-ego/gse"
)

// catalogTokens appear in gse's stop list but name products or product families
// (管 pipe, 给 supply, 连 the 连塑 brand, 带 tape), so they stay searchable.
var catalogTokens = []string{"管", "给", "连", "带"}

// Dictionary segments with gse and its embedded simplified-Chinese dictionary.
// Loading the dictionary takes a moment, so build one per process.
type Dictionary struct {
	seg gse.Segmenter
}

// NewDictionary loads the embedded dictionary and stop words.
func NewDictionary() (*Dictionary, error) {
	d := &Dictionary{}
	d.seg.SkipLog = true
	if err := d.seg.LoadDictEmbed(); err != nil {
		return nil, fmt.Errorf("failed to load segmentation dictionary: %w", err)
	}
	if err := d.seg.LoadStopEmbed(); err != nil {
		return nil, fmt.Errorf("failed to load stop words: %w", err)
	}
	for _, tok := range catalogTokens {
		d.seg.RemoveStop(tok)
	}
	return d, nil
}

// Segment cuts text into words using the dictionary plus HMM for unknown words.
// Stop words such as 的 and 不 are dropped.
func (d *Dictionary) Segment(text string) []string {
	if text == "" {
		return []string{}
	}
	return Clean(d.seg.CutStop(text, true))
}

// IsStop reports whether word is dropped during segmentation.
func (d *Dictionary) IsStop(word string) bool {
	return d.seg.IsStop(word)
}
