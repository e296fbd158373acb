package fold

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Func combines the value of an outer scope with the value of an inner scope.
type Func[T any] func(outer, inner T) T

// Direction is the fixed concatenation order of a vector-valued property.
type Direction uint8

const (
	OuterFirst Direction = iota // outer ++ inner
	InnerFirst                  // inner ++ outer
)

func (d Direction) String() string {
	if d == InnerFirst {
		return "inner-first"
	}
	return "outer-first"
}

// Override is the fold for plain scalar values: the innermost value always wins.
func Override[T any](_, inner T) T {
	return inner
}

// Concat returns a fold which concatenates two vectors in direction dir.
// The result is always a fresh slice, neither argument is modified.
func Concat[T any](dir Direction) Func[[]T] {
	return func(outer, inner []T) []T {
		r := make([]T, 0, len(outer)+len(inner))
		if dir == InnerFirst {
			r = append(r, inner...)
			return append(r, outer...)
		}
		r = append(r, outer...)
		return append(r, inner...)
	}
}

// Number is a constraint for values which fold by adding them up.
type Number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~float32 | ~float64
}

// Sum is the numeric-combine fold.
func Sum[T Number](outer, inner T) T {
	return outer + inner
}

// FoldL folds values from left to right, starting with zero. Values have to be
// ordered outermost first.
func FoldL[T any](f Func[T], zero T, values ...T) T {
	r := zero
	for _, v := range values {
		r = f(r, v)
	}
	return r
}
