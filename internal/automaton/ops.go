package automaton

import "github.com/KromDaniel/iregex/internal/charset"

// The operations below return fresh automata with a single accepting state
// and expect the same of their operands. Inputs are copied and never
// aliased, so one automaton may be used in any number of compositions. Each
// operation takes a state ceiling; zero or less means unlimited.

// Unbounded is the max argument of Repeat for an unbounded loop.
const Unbounded = -1

// final returns the single accepting state of a fragment built here.
func final(a *Automaton) int {
	return a.finals[0]
}

// Symbol recognizes the one-rune words of set.
func Symbol(set charset.Set, limit int) (*Automaton, error) {
	b := NewBuilder(limit)
	q0, err := b.NewState()
	if err != nil {
		return nil, err
	}
	q1, err := b.NewState()
	if err != nil {
		return nil, err
	}
	b.Symbol(q0, set, q1)
	return b.Build(q0, q1), nil
}

// Empty recognizes only the empty word.
func Empty(limit int) (*Automaton, error) {
	b := NewBuilder(limit)
	q, err := b.NewState()
	if err != nil {
		return nil, err
	}
	return b.Build(q, q), nil
}

// Never recognizes no word.
func Never(limit int) (*Automaton, error) {
	b := NewBuilder(limit)
	q0, err := b.NewState()
	if err != nil {
		return nil, err
	}
	q1, err := b.NewState()
	if err != nil {
		return nil, err
	}
	return b.Build(q0, q1), nil
}

// Concat recognizes the concatenation of the languages of parts, in order.
// With no parts it recognizes the empty word.
func Concat(limit int, parts ...*Automaton) (*Automaton, error) {
	if len(parts) == 0 {
		return Empty(limit)
	}
	b := NewBuilder(limit)
	start, prev := -1, -1
	for _, p := range parts {
		off, err := b.Embed(p)
		if err != nil {
			return nil, err
		}
		if prev < 0 {
			start = p.start + off
		} else {
			b.Epsilon(prev, p.start+off)
		}
		prev = final(p) + off
	}
	return b.Build(start, prev), nil
}

// Union recognizes the union of the languages of parts. A fresh start state
// leads to every part and every part leads to a fresh accepting state. A
// single part is copied as is; no parts yield the empty language.
func Union(limit int, parts ...*Automaton) (*Automaton, error) {
	if len(parts) == 1 {
		return Concat(limit, parts[0])
	}
	b := NewBuilder(limit)
	start, err := b.NewState()
	if err != nil {
		return nil, err
	}
	accept, err := b.NewState()
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		off, err := b.Embed(p)
		if err != nil {
			return nil, err
		}
		b.Epsilon(start, p.start+off)
		b.Epsilon(final(p)+off, accept)
	}
	return b.Build(start, accept), nil
}

// Repeat recognizes between min and max repetitions of the language of a.
// With max == Unbounded the repetitions are unbounded. The min mandatory
// copies are chained first, followed by either max-min optional copies or
// one loop.
func Repeat(a *Automaton, min, max, limit int) (*Automaton, error) {
	if max == 0 {
		return Empty(limit)
	}
	b := NewBuilder(limit)
	start, cur := -1, -1
	link := func(to int) {
		if cur < 0 {
			start = to
		} else {
			b.Epsilon(cur, to)
		}
	}
	for i := 0; i < min; i++ {
		off, err := b.Embed(a)
		if err != nil {
			return nil, err
		}
		link(a.start + off)
		cur = final(a) + off
	}

	if max == Unbounded {
		loop, err := b.NewState()
		if err != nil {
			return nil, err
		}
		link(loop)
		off, err := b.Embed(a)
		if err != nil {
			return nil, err
		}
		b.Epsilon(loop, a.start+off)
		b.Epsilon(final(a)+off, loop)
		return b.Build(start, loop), nil
	}

	optional := max - min
	if optional == 0 {
		return b.Build(start, cur), nil
	}
	if cur < 0 {
		q, err := b.NewState()
		if err != nil {
			return nil, err
		}
		start, cur = q, q
	}
	exit, err := b.NewState()
	if err != nil {
		return nil, err
	}
	for i := 0; i < optional; i++ {
		off, err := b.Embed(a)
		if err != nil {
			return nil, err
		}
		b.Epsilon(cur, a.start+off)
		b.Epsilon(cur, exit)
		cur = final(a) + off
	}
	b.Epsilon(cur, exit)
	return b.Build(start, exit), nil
}

// Tagged recognizes the language of a, entering it through an epsilon
// transition tagged startTag and leaving it through one tagged endTag.
func Tagged(a *Automaton, startTag, endTag Tag, limit int) (*Automaton, error) {
	b := NewBuilder(limit)
	start, err := b.NewState()
	if err != nil {
		return nil, err
	}
	off, err := b.Embed(a)
	if err != nil {
		return nil, err
	}
	end, err := b.NewState()
	if err != nil {
		return nil, err
	}
	b.TaggedEpsilon(start, a.start+off, startTag)
	for _, q := range a.finals {
		b.TaggedEpsilon(q+off, end, endTag)
	}
	return b.Build(start, end), nil
}
