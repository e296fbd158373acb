package fold

import (
	"fmt"
	"strings"
)

// Pair is a key-value pair of a Dict.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// P creates a pair.
func P[K comparable, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: k, Value: v}
}

// Dict is an immutable dictionary which remembers the insertion order of its keys.
// The zero value is an empty dictionary. Every "modification" returns a new
// incarnation; the receiver stays unchanged.
type Dict[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

// DictOf creates a dictionary from pairs. For duplicate keys the later value wins,
// while the key keeps the position of its first occurrence.
func DictOf[K comparable, V any](pairs ...Pair[K, V]) Dict[K, V] {
	d := Dict[K, V]{vals: make(map[K]V, len(pairs))}
	for _, p := range pairs {
		if _, exists := d.vals[p.Key]; !exists {
			d.keys = append(d.keys, p.Key)
		}
		d.vals[p.Key] = p.Value
	}
	return d
}

// Len returns the number of keys.
func (d Dict[K, V]) Len() int {
	return len(d.keys)
}

// Get returns the value for key k.
func (d Dict[K, V]) Get(k K) (V, bool) {
	v, ok := d.vals[k]
	return v, ok
}

// With returns a copy of d with k set to v.
func (d Dict[K, V]) With(k K, v V) Dict[K, V] {
	cow := d.clone(1)
	if _, exists := cow.vals[k]; !exists {
		cow.keys = append(cow.keys, k)
	}
	cow.vals[k] = v
	return cow
}

// Pairs returns the entries of d in key order.
func (d Dict[K, V]) Pairs() []Pair[K, V] {
	r := make([]Pair[K, V], len(d.keys))
	for i, k := range d.keys {
		r[i] = Pair[K, V]{Key: k, Value: d.vals[k]}
	}
	return r
}

// Keys returns the keys of d in insertion order.
func (d Dict[K, V]) Keys() []K {
	r := make([]K, len(d.keys))
	copy(r, d.keys)
	return r
}

func (d Dict[K, V]) String() string {
	var sb strings.Builder
	sb.WriteRune('(')
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%v:%v", k, d.vals[k]))
	}
	sb.WriteRune(')')
	return sb.String()
}

func (d Dict[K, V]) clone(extra int) Dict[K, V] {
	cow := Dict[K, V]{
		keys: make([]K, len(d.keys), len(d.keys)+extra),
		vals: make(map[K]V, len(d.keys)+extra),
	}
	copy(cow.keys, d.keys)
	for k, v := range d.vals {
		cow.vals[k] = v
	}
	return cow
}

// MergeByKey is the fold for map-valued properties. Entries of inner override
// entries of outer with the same key. Keys of outer keep their position, keys
// new in inner are appended in their order.
func MergeByKey[K comparable, V any](outer, inner Dict[K, V]) Dict[K, V] {
	if inner.Len() == 0 {
		return outer
	}
	if outer.Len() == 0 {
		return inner
	}
	merged := outer.clone(inner.Len())
	for _, k := range inner.keys {
		if _, exists := merged.vals[k]; !exists {
			merged.keys = append(merged.keys, k)
		}
		merged.vals[k] = inner.vals[k]
	}
	return merged
}
