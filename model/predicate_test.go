package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateConstructors(t *testing.T) {
	a := Contains(FieldName, "管")
	b := Contains(FieldBrand, "联塑")
	c := Equals(FieldProductType, "管材")

	t.Run("empty and is match all", func(t *testing.T) {
		assert.Equal(t, OpMatchAll, And().Op)
	})

	t.Run("empty or matches nothing", func(t *testing.T) {
		p := Or()
		assert.Equal(t, OpMatchNone, p.Op)
		assert.False(t, p.Eval(Product{Name: "anything"}))
	})

	t.Run("single child collapses", func(t *testing.T) {
		assert.Equal(t, a, And(a))
		assert.Equal(t, a, Or(a))
	})

	t.Run("nested same operator flattens", func(t *testing.T) {
		p := And(a, And(b, c))
		assert.Equal(t, OpAnd, p.Op)
		assert.Len(t, p.Children, 3)

		q := Or(Or(a, b), c)
		assert.Equal(t, OpOr, q.Op)
		assert.Len(t, q.Children, 3)
	})

	t.Run("match all is neutral in and", func(t *testing.T) {
		assert.Equal(t, a, And(MatchAll(), a))
	})

	t.Run("match none is neutral in or", func(t *testing.T) {
		assert.Equal(t, a, Or(MatchNone(), a))
	})
}

func TestPredicateEval(t *testing.T) {
	p := Product{ID: "1", Name: "PVC-U排水管50mm", Brand: "联塑", Material: "PVC", ProductType: "管材"}

	tests := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"contains is case-insensitive", Contains(FieldName, "pvc-u"), true},
		{"contains misses", Contains(FieldName, "PPR"), false},
		{"equals exact", Equals(FieldProductType, "管材"), true},
		{"equals is not substring", Equals(FieldProductType, "管"), false},
		{"and all true", And(Contains(FieldBrand, "联塑"), Contains(FieldMaterial, "pvc")), true},
		{"and one false", And(Contains(FieldBrand, "伟星"), Contains(FieldMaterial, "pvc")), false},
		{"or one true", Or(Contains(FieldBrand, "伟星"), Contains(FieldBrand, "联塑")), true},
		{"empty field never contains non-empty", Contains(FieldColor, "白"), false},
		{"match all", MatchAll(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred.Eval(p))
		})
	}
}

func TestPredicateStringIsOrderIndependent(t *testing.T) {
	a := Contains(FieldName, "管")
	b := Equals(FieldSubType, "弯头")
	assert.Equal(t, And(a, b).String(), And(b, a).String())
	assert.Equal(t, `(name~"管" OR sub_type="弯头")`, Or(a, b).String())
}

func TestPredicateLeaves(t *testing.T) {
	p := And(Or(Contains(FieldName, "a"), Contains(FieldBrand, "b")), Equals(FieldSubType, "c"))
	assert.Len(t, p.Leaves(), 3)
	assert.Empty(t, MatchAll().Leaves())
}
