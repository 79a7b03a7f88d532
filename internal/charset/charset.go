// Package charset implements immutable sets of Unicode scalar values.
//
// Sets are the alphabet tokens of the expression tree and the labels of
// automaton transitions. They are stored as sorted, non-overlapping,
// non-adjacent inclusive rune ranges.
package charset

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Surrogate code points are not scalar values and never belong to Any.
const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// Range is an inclusive range of runes.
type Range struct {
	Lo, Hi rune
}

// Set is an immutable set of runes. The zero value is the empty set.
type Set struct {
	ranges []Range
}

// New builds a set from the given ranges. Empty ranges (Lo > Hi) are
// ignored; overlapping and adjacent ranges are merged.
func New(ranges ...Range) Set {
	rs := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Lo <= r.Hi {
			rs = append(rs, r)
		}
	}
	return Set{ranges: normalize(rs)}
}

// Single returns the set containing only r.
func Single(r rune) Set {
	return Set{ranges: []Range{{r, r}}}
}

// Of returns the set of the given runes.
func Of(runes ...rune) Set {
	rs := make([]Range, len(runes))
	for i, r := range runes {
		rs[i] = Range{r, r}
	}
	return Set{ranges: normalize(rs)}
}

var anySet = Set{ranges: []Range{{0, surrogateMin - 1}, {surrogateMax + 1, utf8.MaxRune}}}

// Any returns the set of all Unicode scalar values.
func Any() Set {
	return anySet
}

func normalize(rs []Range) []Range {
	if len(rs) == 0 {
		return nil
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Lo < rs[j].Lo })
	out := rs[:1]
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		// Adjacent ranges merge too, hence the +1.
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// Ranges returns a copy of the normalized ranges of s.
func (s Set) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// IsEmpty reports whether s contains no rune.
func (s Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Len returns the number of runes in s.
func (s Set) Len() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// Single returns the only rune of s, if s is a singleton.
func (s Set) Single() (rune, bool) {
	if len(s.ranges) == 1 && s.ranges[0].Lo == s.ranges[0].Hi {
		return s.ranges[0].Lo, true
	}
	return 0, false
}

// Contains reports whether r belongs to s.
func (s Set) Contains(r rune) bool {
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].Hi >= r })
	return i < len(s.ranges) && s.ranges[i].Lo <= r
}

// Equal reports whether s and o contain the same runes.
func (s Set) Equal(o Set) bool {
	if len(s.ranges) != len(o.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != o.ranges[i] {
			return false
		}
	}
	return true
}

// Union returns the runes in s or o.
func (s Set) Union(o Set) Set {
	rs := make([]Range, 0, len(s.ranges)+len(o.ranges))
	rs = append(rs, s.ranges...)
	rs = append(rs, o.ranges...)
	return Set{ranges: normalize(rs)}
}

// Intersect returns the runes in both s and o.
func (s Set) Intersect(o Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(s.ranges) && j < len(o.ranges) {
		a, b := s.ranges[i], o.ranges[j]
		lo, hi := max(a.Lo, b.Lo), min(a.Hi, b.Hi)
		if lo <= hi {
			out = append(out, Range{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return Set{ranges: out}
}

// Complement returns the scalar values not in s.
func (s Set) Complement() Set {
	var gaps []Range
	next := rune(0)
	for _, r := range s.ranges {
		if r.Lo > next {
			gaps = append(gaps, Range{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= utf8.MaxRune {
		gaps = append(gaps, Range{next, utf8.MaxRune})
	}
	return Set{ranges: gaps}.Intersect(anySet)
}

// String renders s in character class notation: a single escaped rune, `.`
// for Any, `[...]` or, when shorter, the negated form `[^...]`.
func (s Set) String() string {
	if r, ok := s.Single(); ok {
		return EscapeRune(r)
	}
	if s.Equal(anySet) {
		return "."
	}
	var b strings.Builder
	b.WriteByte('[')
	ranges := s.ranges
	if s.Len() > anySet.Len()/2 {
		b.WriteByte('^')
		ranges = s.Complement().ranges
	}
	for _, r := range ranges {
		b.WriteString(escapeClassRune(r.Lo))
		if r.Hi == r.Lo {
			continue
		}
		if r.Lo+1 < r.Hi {
			b.WriteByte('-')
		}
		b.WriteString(escapeClassRune(r.Hi))
	}
	b.WriteByte(']')
	return b.String()
}
