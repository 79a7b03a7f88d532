// Package ir defines the expression tree the compiler consumes.
//
// An Expression is a root Alternation framed by a prefix and a suffix. The
// root is what a match reports; the affixes only decide where the root may
// begin and end. Capture groups are named by Labels, unique across the
// whole expression.
package ir

import "github.com/KromDaniel/iregex/internal/charset"

// Label names a capture group.
type Label int

// Unbounded is the Max of a Repetition without an upper bound.
const Unbounded = -1

// Atom is one element of a Concatenation: a Token, a Repetition, an
// Alternation or a Capture.
type Atom interface {
	String() string
	atom()
}

// Token matches one rune of Set.
type Token struct {
	Set charset.Set
}

// Repetition matches between Min and Max consecutive matches of Inner.
type Repetition struct {
	Inner Alternation
	Min   int
	Max   int // Unbounded for no limit
}

// Capture records where Inner begins and ends under Label.
type Capture struct {
	Label Label
	Inner Alternation
}

// Concatenation matches its atoms one after the other.
type Concatenation []Atom

// Alternation matches any of its concatenations. An alternation with no
// concatenation matches nothing.
type Alternation []Concatenation

func (Token) atom()       {}
func (Repetition) atom()  {}
func (Capture) atom()     {}
func (Alternation) atom() {}

// Expression is a root framed by a prefix and a suffix.
type Expression struct {
	Root   Alternation
	Prefix Alternation
	Suffix Alternation
}

// Anchor matches only the empty word.
func Anchor() Alternation {
	return Alternation{Concatenation{}}
}

// AnyWord matches every word.
func AnyWord() Alternation {
	return Alternation{Concatenation{Star(Alternation{Concatenation{Token{Set: charset.Any()}}})}}
}

// Anchored returns an expression whose root must span the whole word.
func Anchored(root Alternation) Expression {
	return Expression{Root: root, Prefix: Anchor(), Suffix: Anchor()}
}

// Unanchored returns an expression whose root may match anywhere.
func Unanchored(root Alternation) Expression {
	return Expression{Root: root, Prefix: AnyWord(), Suffix: AnyWord()}
}

// Literal returns the concatenation matching exactly s.
func Literal(s string) Concatenation {
	c := make(Concatenation, 0, len(s))
	for _, r := range s {
		c = append(c, Token{Set: charset.Single(r)})
	}
	return c
}

// Star matches zero or more repetitions of inner.
func Star(inner Alternation) Repetition {
	return Repetition{Inner: inner, Min: 0, Max: Unbounded}
}

// Plus matches one or more repetitions of inner.
func Plus(inner Alternation) Repetition {
	return Repetition{Inner: inner, Min: 1, Max: Unbounded}
}

// Optional matches zero or one repetition of inner.
func Optional(inner Alternation) Repetition {
	return Repetition{Inner: inner, Min: 0, Max: 1}
}
