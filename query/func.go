package query

import "github.com/creachadair/jdoc"

// Exists returns a selection that reports true if its argument satisfies the
// specified query. The arguments have the same constraints as Path.
func Exists(keys ...any) Selection {
	q := Path(keys...)
	return func(v *jdoc.Value) bool {
		_, err := q.eval(v)
		return err == nil
	}
}

// Is returns a selection that reports true if its argument has one of the
// given kinds. Is with no kinds selects numbers of any kind.
func Is(kinds ...jdoc.Kind) Selection {
	return func(v *jdoc.Value) bool { return hasKind(v, kinds) }
}

// IsNot returns a selection that reports true if its argument does not have
// any of the given kinds.
func IsNot(kinds ...jdoc.Kind) Selection {
	return func(v *jdoc.Value) bool { return !hasKind(v, kinds) }
}

func hasKind(v *jdoc.Value, kinds []jdoc.Kind) bool {
	if len(kinds) == 0 {
		return v.Kind().IsNumber()
	}
	for _, k := range kinds {
		if v.Kind() == k {
			return true
		}
	}
	return false
}

// Map constructs a mapping from the given function. The resulting mapping
// returns unmodified any value whose kind is not k.
func Map(k jdoc.Kind, f func(*jdoc.Value) *jdoc.Value) Mapping {
	return func(v *jdoc.Value) *jdoc.Value {
		if v.Kind() == k {
			return f(v)
		}
		return v
	}
}

// Filter constructs a selection from the given function. The resulting
// selection discards any value whose kind is not k.
func Filter(k jdoc.Kind, f func(*jdoc.Value) bool) Selection {
	return func(v *jdoc.Value) bool { return v.Kind() == k && f(v) }
}
