package model

import (
	"sort"
	"strconv"
	"strings"
)

// Op is the node kind of a Predicate.
type Op int

const (
	OpMatchAll Op = iota
	OpMatchNone
	OpAnd
	OpOr
	OpContains
	OpEquals
)

// Predicate is a storage-independent boolean tree over product fields.
// Leaves compare one field against one value; inner nodes combine children.
type Predicate struct {
	Op       Op
	Field    Field
	Value    string
	Children []Predicate
}

// MatchAll matches every product.
func MatchAll() Predicate { return Predicate{Op: OpMatchAll} }

// MatchNone matches no product.
func MatchNone() Predicate { return Predicate{Op: OpMatchNone} }

// Contains is a case-insensitive substring test on field.
func Contains(field Field, value string) Predicate {
	return Predicate{Op: OpContains, Field: field, Value: value}
}

// Equals is an exact string equality test on field.
func Equals(field Field, value string) Predicate {
	return Predicate{Op: OpEquals, Field: field, Value: value}
}

// And conjoins children. And() is MatchAll.
func And(children ...Predicate) Predicate {
	flat := make([]Predicate, 0, len(children))
	for _, c := range children {
		switch c.Op {
		case OpMatchAll:
			continue
		case OpMatchNone:
			return MatchNone()
		case OpAnd:
			flat = append(flat, c.Children...)
		default:
			flat = append(flat, c)
		}
	}
	switch len(flat) {
	case 0:
		return MatchAll()
	case 1:
		return flat[0]
	}
	return Predicate{Op: OpAnd, Children: flat}
}

// Or disjoins children. Or() matches nothing.
func Or(children ...Predicate) Predicate {
	flat := make([]Predicate, 0, len(children))
	for _, c := range children {
		switch c.Op {
		case OpMatchNone:
			continue
		case OpMatchAll:
			return MatchAll()
		case OpOr:
			flat = append(flat, c.Children...)
		default:
			flat = append(flat, c)
		}
	}
	switch len(flat) {
	case 0:
		return MatchNone()
	case 1:
		return flat[0]
	}
	return Predicate{Op: OpOr, Children: flat}
}

// Eval is the reference semantics every store adapter must agree with.
func (p Predicate) Eval(product Product) bool {
	switch p.Op {
	case OpMatchAll:
		return true
	case OpMatchNone:
		return false
	case OpContains:
		return strings.Contains(strings.ToLower(product.Value(p.Field)), strings.ToLower(p.Value))
	case OpEquals:
		return product.Value(p.Field) == p.Value
	case OpAnd:
		for _, c := range p.Children {
			if !c.Eval(product) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range p.Children {
			if c.Eval(product) {
				return true
			}
		}
		return false
	}
	return false
}

// Leaves returns every Contains/Equals leaf in depth-first order.
func (p Predicate) Leaves() []Predicate {
	switch p.Op {
	case OpContains, OpEquals:
		return []Predicate{p}
	case OpAnd, OpOr:
		var out []Predicate
		for _, c := range p.Children {
			out = append(out, c.Leaves()...)
		}
		return out
	}
	return nil
}

// String renders a stable debug form. Children of And/Or are sorted so that
// logically identical trees built in different orders print the same.
func (p Predicate) String() string {
	switch p.Op {
	case OpMatchAll:
		return "*"
	case OpMatchNone:
		return "!*"
	case OpContains:
		return string(p.Field) + "~" + strconv.Quote(p.Value)
	case OpEquals:
		return string(p.Field) + "=" + strconv.Quote(p.Value)
	case OpAnd, OpOr:
		parts := make([]string, len(p.Children))
		for i, c := range p.Children {
			parts[i] = c.String()
		}
		sort.Strings(parts)
		sep := " AND "
		if p.Op == OpOr {
			sep = " OR "
		}
		return "(" + strings.Join(parts, sep) + ")"
	}
	return "?"
}
