package tys

// Unwrap returns the immediately wrapped schema of a wrapper variant, or s
// itself when s is not a wrapper.
func Unwrap(s Schema) Schema {
	if w, ok := s.(Unwrapper); ok {
		return w.Unwrap()
	}
	return s
}

// DeepUnwrap keeps unwrapping through chains of the same wrapper kind
// (for example Optional of Optional of X), stopping at the first node of a
// different kind.
func DeepUnwrap(s Schema) Schema {
	k := s.Kind()
	for {
		w, ok := s.(Unwrapper)
		if !ok {
			return s
		}
		inner := w.Unwrap()
		if inner.Kind() != k {
			return inner
		}
		s = inner
	}
}

// NullishDeepUnwrap collapses chains of Optional and Nullable wrappers,
// treating the two kinds as interchangeable, and returns the first schema
// that is neither.
func NullishDeepUnwrap(s Schema) Schema {
	for {
		k := s.Kind()
		if k != KindOptional && k != KindNullable {
			return s
		}
		w, ok := s.(Unwrapper)
		if !ok {
			return s
		}
		s = w.Unwrap()
	}
}
