package watch

import "reflect"

// Set is an ordered sequence of dependency values owned by the caller.
// Only the previous set is ever retained by consumers, and only for
// comparison; the values themselves are never mutated or copied.
type Set []any

// Of builds a Set from its arguments.
func Of(vals ...any) Set {
	return Set(vals)
}

// Changed reports whether next differs from prev.
//
// A nil prev means "no previous set" and always reports changed: the first
// observation of any input must fire. Comparison is shallow, same length and
// pairwise Same.
func Changed(prev, next Set) bool {
	if prev == nil {
		return true
	}
	return !prev.Equal(next)
}

// Equal reports whether the two sets have the same length and pairwise
// identical elements. It is a pure predicate with no side effects.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !Same(s[i], other[i]) {
			return false
		}
	}
	return true
}

// Same reports shallow identity of two dependency values.
//
// Comparable values (numbers, strings, pointers, channels, comparable
// structs) compare by ==. Slices, maps and funcs compare by identity of the
// referenced cell, so callers must supply stable references for values they
// intend to compare equal. Everything else never compares equal.
//
// Comparability is judged on the values, not their static types: a struct
// or array type whose interface field holds an incomparable dynamic value
// lands in the never-equal class rather than panicking in ==.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	if av.Comparable() && bv.Comparable() {
		return av.Equal(bv)
	}
	switch av.Kind() {
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	case reflect.Map, reflect.Func:
		return av.Pointer() == bv.Pointer()
	default:
		return false
	}
}
