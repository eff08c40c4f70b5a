package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mioding/catalog-search/config"
	"github.com/mioding/catalog-search/internal/facets"
	"github.com/mioding/catalog-search/internal/fuzzy"
	"github.com/mioding/catalog-search/internal/phonetic"
	"github.com/mioding/catalog-search/internal/query"
	"github.com/mioding/catalog-search/internal/search"
	"github.com/mioding/catalog-search/internal/tokenizer"
	"github.com/mioding/catalog-search/model"
	"github.com/mioding/catalog-search/services"
	"github.com/mioding/catalog-search/store"
)

var pipes = []model.Product{
	{ID: "a", Name: "PVC给水管", Brand: "联塑", Specification: "DN110", Pressure: "0.6MPa", Color: "白色", Length: "4m"},
	{ID: "b", Name: "PVC给水管", Brand: "联塑", Specification: "DN110", Pressure: "1.0MPa", Color: "灰色", Length: "6m"},
	{ID: "c", Name: "PE给水管", Brand: "伟星", Specification: "DN50", Pressure: "1.6MPa", Color: "蓝色", Length: "6m"},
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	seg := tokenizer.NewLexicon(tokenizer.DefaultLexicon)
	ph := phonetic.New()
	svc, err := search.NewService(
		store.NewMemory(pipes),
		query.NewPlanner(seg, config.DefaultBrandRules()),
		fuzzy.NewMatcher(ph, seg),
		ph,
		facets.NewAggregator(nil, zerolog.Nop()),
		search.Options{},
	)
	require.NoError(t, err)
	return NewEngine(svc, config.DefaultKnownBrands(), zerolog.Nop())
}

func TestParseSlots(t *testing.T) {
	engine := NewEngine(nil, config.DefaultKnownBrands(), zerolog.Nop())

	tests := []struct {
		name string
		text string
		want Slots
	}{
		{"all slots", "联塑 dn110 0.6MPa", Slots{Brand: "联塑", Specification: "dn110", Pressure: "0.6MPa"}},
		{"incomplete input", "联塑 dn110", Slots{Brand: "联塑", Specification: "dn110"}},
		{"upper-case spec is lower-cased", "伟星DN50", Slots{Brand: "伟星", Specification: "dn50"}},
		{"pressure case folds", "1.6mpa 金德", Slots{Brand: "金德", Pressure: "1.6MPa"}},
		{"integer pressure", "2MPa", Slots{Pressure: "2MPa"}},
		{"first brand in text wins", "金德还是联塑", Slots{Brand: "金德"}},
		{"nothing recognised", "不存在的商品", Slots{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ParseSlots(tt.text))
		})
	}
}

func TestParseSlotsCustomBrands(t *testing.T) {
	engine := NewEngine(nil, []string{"日丰", " ", "日丰管"}, zerolog.Nop())
	assert.Equal(t, "日丰管", engine.ParseSlots("日丰管 dn20").Brand)
	assert.Empty(t, engine.ParseSlots("联塑").Brand)
}

func TestSlotsFilters(t *testing.T) {
	assert.Empty(t, Slots{}.Filters())
	assert.True(t, Slots{}.Empty())
	assert.Equal(t, map[string][]string{
		model.LabelBrand:         {"联塑"},
		model.LabelSpecification: {"dn110"},
		model.LabelPressure:      {"0.6MPa"},
	}, Slots{Brand: "联塑", Specification: "dn110", Pressure: "0.6MPa"}.Filters())
}

func TestRespond(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("no match", func(t *testing.T) {
		reply, err := engine.Respond(ctx, "不存在的商品")
		require.NoError(t, err)
		assert.Equal(t, NoMatch, reply.Type)
		assert.NotEmpty(t, reply.Message)
		assert.Zero(t, reply.Total)
	})

	t.Run("unique match", func(t *testing.T) {
		reply, err := engine.Respond(ctx, "联塑 dn110 0.6MPa")
		require.NoError(t, err)
		assert.Equal(t, UniqueMatch, reply.Type)
		require.NotNil(t, reply.Product)
		assert.Equal(t, "a", reply.Product.ID)
	})

	t.Run("multiple matches", func(t *testing.T) {
		reply, err := engine.Respond(ctx, "联塑 dn110")
		require.NoError(t, err)
		assert.Equal(t, MultipleMatches, reply.Type)
		assert.Len(t, reply.Products, 2)
		assert.Equal(t, []string{model.LabelColor, model.LabelLength, model.LabelPressure}, reply.MissingAttributes)
	})

	t.Run("free text fallback", func(t *testing.T) {
		reply, err := engine.Respond(ctx, "PE")
		require.NoError(t, err)
		assert.Equal(t, UniqueMatch, reply.Type)
		assert.Equal(t, "c", reply.Product.ID)
		assert.True(t, reply.Slots.Empty())
	})
}

type failingSearcher struct{ services.Searcher }

func (failingSearcher) Search(context.Context, model.SearchRequest) (model.SearchResult, error) {
	return model.SearchResult{}, errors.New("store down")
}

func TestRespondPropagatesSearchErrors(t *testing.T) {
	engine := NewEngine(failingSearcher{}, config.DefaultKnownBrands(), zerolog.Nop())
	_, err := engine.Respond(context.Background(), "联塑")
	assert.Error(t, err)
}

func TestMissingAttributes(t *testing.T) {
	got := MissingAttributes(model.Facets{
		model.LabelSubType:  {"弯头": 1, "三通": 2},
		model.LabelBrand:    {"联塑": 3},
		model.LabelMaterial: {"PVC": 1, "PE": 2},
	})
	assert.Equal(t, []string{model.LabelMaterial, model.LabelSubType}, got)
	assert.Empty(t, MissingAttributes(nil))
}
