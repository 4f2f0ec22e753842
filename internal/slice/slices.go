package slice

// Map returns a new slice with fn applied to every element of s.
func Map[In, Out any](s []In, fn func(In) Out) []Out {
	out := make([]Out, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which keep returns true, in order.
func Filter[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// NoZero removes zero values from s.
func NoZero[T comparable](s []T) []T {
	var zero T
	return Filter(s, func(v T) bool { return v != zero })
}
