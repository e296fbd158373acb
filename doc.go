/*
Package fold provides the generic fold trait used for combining style values of
nested scopes.

A fold combines an outer-scope value with an inner-scope value into one effective
value. Folding is not commutative and in general not associative: the order of
arguments always is (outer, inner). Package style declares, for every style
property, which of the folding functions of this package applies.

	f := fold.Concat[string](fold.OuterFirst)
	f([]string{"a"}, []string{"b"})   // => [a b]

Sub-packages implement optional values (maybe). The style engine itself lives in
packages style, loc, state, doc and layout.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fold
