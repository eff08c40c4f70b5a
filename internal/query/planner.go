// Package query turns a search request into a storage-independent predicate.
package query

import (
	"sort"
	"strings"

	"github.com/mioding/catalog-search/config"
	"github.com/mioding/catalog-search/internal/textnorm"
	"github.com/mioding/catalog-search/model"
	"github.com/mioding/catalog-search/services"
)

// Fields the free-text clauses look at.
var (
	queryFields = []model.Field{model.FieldName, model.FieldProductName, model.FieldBrand}
	termFields  = []model.Field{
		model.FieldName, model.FieldProductName, model.FieldBrand,
		model.FieldMaterial, model.FieldSpecification,
	}
)

// Planner builds predicates from requests. It is immutable after construction.
type Planner struct {
	segmenter services.Segmenter
	rules     []config.BrandRule
}

// NewPlanner creates a Planner. rules may be empty.
func NewPlanner(segmenter services.Segmenter, rules []config.BrandRule) *Planner {
	copied := make([]config.BrandRule, len(rules))
	copy(copied, rules)
	return &Planner{segmenter: segmenter, rules: copied}
}

// Plan returns (free-text clause) AND (filter clause). An empty query or no
// usable filters leaves the corresponding side as MatchAll.
func (p *Planner) Plan(req model.SearchRequest) model.Predicate {
	return model.And(p.freeText(req.Query), p.filters(req.Filters))
}

func (p *Planner) freeText(query string) model.Predicate {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return model.MatchAll()
	}
	normalized := textnorm.Normalize(raw)

	var clauses []model.Predicate

	for _, needle := range needles(normalized, raw) {
		for _, f := range queryFields {
			clauses = append(clauses, model.Contains(f, needle))
		}
	}

	for _, rule := range p.rules {
		if !mentionsAny(raw, normalized, rule.Aliases) {
			continue
		}
		keywords := make([]model.Predicate, 0, len(rule.CategoryKeywords))
		for _, kw := range rule.CategoryKeywords {
			keywords = append(keywords, model.Contains(model.FieldName, kw))
		}
		for _, alias := range rule.Aliases {
			clauses = append(clauses, model.And(model.Contains(model.FieldBrand, alias), model.Or(keywords...)))
		}
	}

	if p.segmenter != nil {
		seen := make(map[string]struct{})
		for _, term := range p.segmenter.Segment(normalized) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			for _, f := range termFields {
				clauses = append(clauses, model.Contains(f, term))
			}
		}
	}

	return model.Or(clauses...)
}

func (p *Planner) filters(filters map[string][]string) model.Predicate {
	labels := make([]string, 0, len(filters))
	for label := range filters {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var clauses []model.Predicate
	for _, label := range labels {
		ff, ok := model.FilterFieldForLabel(label)
		if !ok {
			continue
		}
		var values []model.Predicate
		for _, v := range filters[label] {
			raw := strings.TrimSpace(v)
			if raw == "" {
				continue
			}
			for _, needle := range needles(textnorm.Normalize(raw), raw) {
				if ff.Kind == model.MatchEquals {
					values = append(values, model.Equals(ff.Field, needle))
				} else {
					values = append(values, model.Contains(ff.Field, needle))
				}
			}
		}
		if len(values) == 0 {
			continue
		}
		clauses = append(clauses, model.Or(values...))
	}
	return model.And(clauses...)
}

// needles widens a normalized value with its raw spelling when they differ, so a
// homophone rewrite never hides the literal spelling stored in the catalog.
func needles(normalized, raw string) []string {
	if normalized == "" {
		return []string{raw}
	}
	if normalized == raw {
		return []string{normalized}
	}
	return []string{normalized, raw}
}

func mentionsAny(raw, normalized string, aliases []string) bool {
	for _, a := range aliases {
		if a == "" {
			continue
		}
		if strings.Contains(raw, a) || strings.Contains(normalized, a) {
			return true
		}
	}
	return false
}
