package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mioding/catalog-search/config"
	"github.com/mioding/catalog-search/internal/tokenizer"
	"github.com/mioding/catalog-search/model"
)

var catalog = []model.Product{
	{ID: "1", Name: "PVC-U排水管50mm", Brand: "联塑", Material: "PVC", ProductType: "管材"},
	{ID: "2", Name: "PE给水管63mm", Brand: "伟星", Material: "PE", ProductType: "管材"},
	{ID: "3", Name: "PPR热水管25mm", Brand: "伟星", Material: "PPR", ProductType: "管材"},
	{ID: "4", Name: "90°弯头", Brand: "金德", Material: "PVC", ProductType: "管件"},
	{ID: "5", Name: "球阀", Brand: "联塑", Material: "铜", ProductType: "阀门"},
	{ID: "6", Name: "不锈钢水龙头", Brand: "九牧", Material: "不锈钢", ProductType: "龙头"},
	{ID: "7", Name: "三通", Brand: "连塑", Material: "PVC", ProductType: "管件"},
}

func newTestPlanner() *Planner {
	return NewPlanner(tokenizer.NewLexicon(tokenizer.DefaultLexicon), config.DefaultBrandRules())
}

func matchingIDs(pred model.Predicate) []string {
	ids := make([]string, 0)
	for _, p := range catalog {
		if pred.Eval(p) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func TestPlanFreeText(t *testing.T) {
	planner := newTestPlanner()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query matches everything", "", []string{"1", "2", "3", "4", "5", "6", "7"}},
		{"blank query matches everything", "   ", []string{"1", "2", "3", "4", "5", "6", "7"}},
		{"alias and numeric terms", "pvc 50", []string{"1", "4", "7"}},
		{"segmented chinese terms", "不锈钢龙头", []string{"6"}},
		{"material term", "PPR", []string{"3"}},
		{"unknown word matches nothing", "马桶", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchingIDs(planner.Plan(model.SearchRequest{Query: tt.query})))
		})
	}
}

func TestPlanDropsStopWords(t *testing.T) {
	if testing.Short() {
		t.Skip("loading the embedded dictionary is slow")
	}
	seg, err := tokenizer.NewDictionary()
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	planner := NewPlanner(seg, config.DefaultBrandRules())

	for _, q := range []string{"不的", "不存在的商品"} {
		t.Run(q, func(t *testing.T) {
			assert.Empty(t, matchingIDs(planner.Plan(model.SearchRequest{Query: q})))
		})
	}

	// Only stop words: the raw-query clause is all that is left.
	pred := planner.Plan(model.SearchRequest{Query: "的"})
	assert.Equal(t, model.Or(
		model.Contains(model.FieldName, "的"),
		model.Contains(model.FieldProductName, "的"),
		model.Contains(model.FieldBrand, "的"),
	), pred)
}

func TestPlanEndToEndPVC50(t *testing.T) {
	ids := matchingIDs(newTestPlanner().Plan(model.SearchRequest{Query: "pvc 50"}))
	assert.Contains(t, ids, "1")
	assert.NotContains(t, ids, "2")
}

func TestPlanBrandRule(t *testing.T) {
	products := []model.Product{
		{ID: "a", Name: "PVC排水管", Brand: "联塑"},
		{ID: "b", Name: "球阀", Brand: "联塑"},
		{ID: "c", Name: "胶水", Brand: "联塑"},
		{ID: "d", Name: "三通", Brand: "连塑"},
	}
	ids := func(pred model.Predicate) []string {
		out := make([]string, 0)
		for _, p := range products {
			if pred.Eval(p) {
				out = append(out, p.ID)
			}
		}
		return out
	}
	seg := tokenizer.NewLexicon(append([]string{"联塑", "连塑"}, tokenizer.DefaultLexicon...))

	withRules := NewPlanner(seg, config.DefaultBrandRules())
	bare := NewPlanner(seg, nil)

	// The rule widens 连塑 to 联塑 products, but only for pipe, fitting and valve names.
	assert.Equal(t, []string{"a", "b", "d"}, ids(withRules.Plan(model.SearchRequest{Query: "连塑"})))
	assert.Equal(t, []string{"d"}, ids(bare.Plan(model.SearchRequest{Query: "连塑"})))

	// 联塑 normalizes to 连塑; the raw spelling stays in the plan so every 联塑 product still matches.
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(bare.Plan(model.SearchRequest{Query: "联塑"})))
}

func TestPlanFilters(t *testing.T) {
	planner := newTestPlanner()

	tests := []struct {
		name    string
		filters map[string][]string
		want    []string
	}{
		{
			name:    "values or-combined, labels and-combined",
			filters: map[string][]string{"品牌": {"联塑", "伟星"}, "材质": {"PVC"}},
			want:    []string{"1", "7"},
		},
		{
			name:    "equals is exact",
			filters: map[string][]string{"产品类型": {"管件"}},
			want:    []string{"4", "7"},
		},
		{
			name:    "equals does not match substrings",
			filters: map[string][]string{"产品类型": {"管"}},
			want:    []string{},
		},
		{
			name:    "field names work as labels",
			filters: map[string][]string{"material": {"ppr"}},
			want:    []string{"3"},
		},
		{
			name:    "unknown labels are ignored",
			filters: map[string][]string{"产地": {"广东"}, "材质": {"铜"}},
			want:    []string{"5"},
		},
		{
			name:    "empty values are ignored",
			filters: map[string][]string{"品牌": {"", "  "}},
			want:    []string{"1", "2", "3", "4", "5", "6", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchingIDs(planner.Plan(model.SearchRequest{Filters: tt.filters}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanProductMatchingOnlyBrandIsExcluded(t *testing.T) {
	pred := newTestPlanner().Plan(model.SearchRequest{
		Filters: map[string][]string{"品牌": {"联塑", "伟星"}, "材质": {"PVC"}},
	})
	assert.True(t, pred.Eval(catalog[0]))
	assert.False(t, pred.Eval(catalog[1]), "伟星 PE matches the brand clause only")
	assert.False(t, pred.Eval(catalog[3]), "金德 PVC matches the material clause only")
}

func TestPlanQueryAndFilters(t *testing.T) {
	pred := newTestPlanner().Plan(model.SearchRequest{
		Query:   "管",
		Filters: map[string][]string{"品牌": {"伟星"}},
	})
	assert.Equal(t, []string{"2", "3"}, matchingIDs(pred))
}

func TestPlanIsDeterministic(t *testing.T) {
	planner := newTestPlanner()
	req := model.SearchRequest{
		Query:   "pvc 50",
		Filters: map[string][]string{"品牌": {"联塑"}, "材质": {"PVC"}, "颜色": {"白"}},
	}
	assert.Equal(t, planner.Plan(req).String(), planner.Plan(req).String())
}
