// Package dialog answers short natural-language product requests by extracting
// attribute slots and classifying how many products they select.
package dialog

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mioding/catalog-search/internal/textnorm"
	"github.com/mioding/catalog-search/model"
	"github.com/mioding/catalog-search/services"
)

// Reply types.
const (
	NoMatch         = "NO_MATCH"
	UniqueMatch     = "UNIQUE_MATCH"
	MultipleMatches = "MULTIPLE_MATCHES"
)

// PageSize bounds the products returned with a reply.
const PageSize = 10

var (
	specPattern     = regexp.MustCompile(`(?i)dn\d+`)
	pressurePattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?MPa`)
)

// Slots are the attributes recognised in a request.
type Slots struct {
	Brand         string `json:"brand,omitempty"`
	Specification string `json:"specification,omitempty"`
	Pressure      string `json:"pressure,omitempty"`
}

// Empty reports whether no slot was recognised.
func (s Slots) Empty() bool {
	return s.Brand == "" && s.Specification == "" && s.Pressure == ""
}

// Filters renders the slots as search filters keyed by display label.
func (s Slots) Filters() map[string][]string {
	filters := make(map[string][]string, 3)
	if s.Brand != "" {
		filters[model.LabelBrand] = []string{s.Brand}
	}
	if s.Specification != "" {
		filters[model.LabelSpecification] = []string{s.Specification}
	}
	if s.Pressure != "" {
		filters[model.LabelPressure] = []string{s.Pressure}
	}
	return filters
}

// Reply is the outcome of one dialog turn.
type Reply struct {
	Type              string                   `json:"type"`
	Message           string                   `json:"message,omitempty"`
	Slots             Slots                    `json:"slots"`
	Total             int                      `json:"total"`
	Product           *model.FormattedProduct  `json:"product,omitempty"`
	Products          []model.FormattedProduct `json:"products,omitempty"`
	MissingAttributes []string                 `json:"missing_attributes,omitempty"`
}

// Engine parses requests and runs them through a Searcher.
type Engine struct {
	searcher services.Searcher
	brands   []string
	logger   zerolog.Logger
}

// NewEngine creates an Engine recognising knownBrands. Longer brand names are tried first.
func NewEngine(searcher services.Searcher, knownBrands []string, logger zerolog.Logger) *Engine {
	brands := make([]string, 0, len(knownBrands))
	for _, b := range knownBrands {
		if b = strings.TrimSpace(b); b != "" {
			brands = append(brands, b)
		}
	}
	return &Engine{
		searcher: searcher,
		brands:   brands,
		logger:   logger.With().Str("component", "dialog").Logger(),
	}
}

// ParseSlots extracts brand, specification and pressure from text.
// When several known brands occur, the one appearing first in text wins.
func (e *Engine) ParseSlots(text string) Slots {
	var slots Slots

	first := -1
	for _, b := range e.brands {
		i := strings.Index(text, b)
		if i < 0 {
			continue
		}
		if first < 0 || i < first || (i == first && len(b) > len(slots.Brand)) {
			first = i
			slots.Brand = b
		}
	}

	if m := specPattern.FindString(text); m != "" {
		slots.Specification = strings.ToLower(m)
	}
	if m := pressurePattern.FindString(text); m != "" {
		// MPA folds back to MPa through the unit table.
		slots.Pressure = textnorm.Normalize(strings.ToUpper(m))
	}
	return slots
}

// Respond searches for the products text describes and classifies the result.
func (e *Engine) Respond(ctx context.Context, text string) (Reply, error) {
	slots := e.ParseSlots(text)

	req := model.SearchRequest{Page: 1, PageSize: PageSize}
	if slots.Empty() {
		req.Query = strings.TrimSpace(text)
	} else {
		req.Filters = slots.Filters()
	}

	result, err := e.searcher.Search(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	reply := Reply{Slots: slots, Total: result.Meta.Total}
	switch {
	case result.Meta.Total == 0:
		reply.Type = NoMatch
		reply.Message = "未找到匹配的商品，请检查输入是否正确"
	case result.Meta.Total == 1 && len(result.Items) == 1:
		reply.Type = UniqueMatch
		reply.Product = &result.Items[0]
	default:
		reply.Type = MultipleMatches
		reply.Products = result.Items
		reply.MissingAttributes = MissingAttributes(result.AvailableFilters)
	}

	e.logger.Debug().
		Str("type", reply.Type).
		Int("total", reply.Total).
		Interface("slots", slots).
		Msg("Dialog turn")
	return reply, nil
}

// MissingAttributes lists, in facet order, the labels whose values still differ across the matches.
func MissingAttributes(facets model.Facets) []string {
	missing := make([]string, 0)
	for _, a := range model.FacetAttributes {
		if len(facets[a.Label]) > 1 {
			missing = append(missing, a.Label)
		}
	}
	return missing
}
