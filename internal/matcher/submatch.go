package matcher

import (
	"errors"
	"fmt"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/compiler"
	"github.com/KromDaniel/iregex/internal/ir"
)

// ErrInconsistentRootmatch reports a rootmatch that does not split the word
// into an accepted prefix, root and suffix.
var ErrInconsistentRootmatch = errors.New("rootmatch does not fit the word")

// Group is the span [Start, End) of a capture group, in runes from the
// beginning of the word. A group that took no part in the match has
// Matched unset.
type Group struct {
	Matched bool
	Start   int
	End     int
}

func (g Group) String() string {
	if !g.Matched {
		return "unmatched"
	}
	return fmt.Sprintf("[%d, %d)", g.Start, g.End)
}

// Submatches maps every root capture label to its span.
type Submatches map[ir.Label]Group

// unset marks a tag never crossed.
const unset = -1

// Submatch returns the capture groups of word under the split rm. Each tag
// takes the largest offset at which an accepting run of the root over
// word[rm.Start():rm.End()] crosses it; runs that merge into one
// configuration keep the larger offset tag by tag. A rootmatch without
// match yields nil Submatches.
func Submatch(c *compiler.Compiled, word []rune, rm Rootmatch, lim Limits) (Submatches, error) {
	if !rm.Matched {
		return nil, nil
	}
	if rm.Prefix < 0 || rm.Root < 0 || rm.Suffix < 0 || rm.Prefix+rm.Root+rm.Suffix != len(word) {
		return nil, fmt.Errorf("%w: %v over %d runes", ErrInconsistentRootmatch, rm, len(word))
	}

	b := newBudget(automaton.PhaseSubmatch, lim)
	if err := checkAffixes(c, word, rm, b); err != nil {
		return nil, err
	}

	t := newTagSimulator(c.Root, c.NumTags(), b)
	defer t.release()
	vec, ok, err := t.run(word, rm.Start(), rm.End())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: root rejects %d..%d", ErrInconsistentRootmatch, rm.Start(), rm.End())
	}

	out := make(Submatches, len(c.Groups()))
	for _, g := range c.Groups() {
		start, end := vec[g.Start], vec[g.End]
		if start == unset || end == unset {
			out[g.Label] = Group{}
			continue
		}
		out[g.Label] = Group{Matched: true, Start: start, End: end}
	}
	return out, nil
}

// checkAffixes verifies that the prefix accepts word[:p] and the suffix
// accepts word[e:].
func checkAffixes(c *compiler.Compiled, word []rune, rm Rootmatch, b *budget) error {
	accepts := func(a *automaton.Automaton, w []rune) (bool, error) {
		m := newSimulator(a, b)
		defer m.release()
		if err := m.reset(); err != nil {
			return false, err
		}
		for _, r := range w {
			alive, err := m.step(r)
			if err != nil || !alive {
				return false, err
			}
		}
		return m.accepting(), nil
	}

	ok, err := accepts(c.Prefix, word[:rm.Start()])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: prefix rejects %d runes", ErrInconsistentRootmatch, rm.Prefix)
	}
	ok, err = accepts(c.Suffix, word[rm.End():])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: suffix rejects %d runes", ErrInconsistentRootmatch, rm.Suffix)
	}
	return nil
}

// tagSimulator tracks, for every live state, the vector of the largest
// offsets at which its tags were crossed.
type tagSimulator struct {
	a      *automaton.Automaton
	ntags  int
	s      *scratch
	budget *budget
}

func newTagSimulator(a *automaton.Automaton, ntags int, b *budget) *tagSimulator {
	return &tagSimulator{a: a, ntags: ntags, s: getScratch(a.NumStates(), ntags), budget: b}
}

func (t *tagSimulator) release() {
	putScratch(t.s)
	t.s = nil
}

func (t *tagSimulator) vec(buf []int, q int) []int {
	return buf[q*t.ntags : (q+1)*t.ntags]
}

// add merges v into the vector of q in set, pushing q on the stack when it
// is new or one of its tags grew.
func (t *tagSimulator) add(set *sparseSet, buf []int, q int, v []int) {
	dst := t.vec(buf, q)
	if set.insert(q) {
		copy(dst, v)
		t.s.stack = append(t.s.stack, q)
		return
	}
	grew := false
	for i, x := range v {
		if x > dst[i] {
			dst[i] = x
			grew = true
		}
	}
	if grew {
		t.s.stack = append(t.s.stack, q)
	}
}

// closure follows epsilon transitions from the stacked states until no
// vector changes. Crossing a tag at offset pos records pos.
func (t *tagSimulator) closure(set *sparseSet, buf []int, pos int) error {
	steps := 0
	for len(t.s.stack) > 0 {
		q := t.s.stack[len(t.s.stack)-1]
		t.s.stack = t.s.stack[:len(t.s.stack)-1]
		steps++
		for _, e := range t.a.Epsilons(q) {
			copy(t.s.tmp, t.vec(buf, q))
			if e.Tag != automaton.NoTag {
				t.s.tmp[e.Tag] = pos
			}
			t.add(set, buf, e.To, t.s.tmp)
		}
	}
	return t.budget.spend(steps)
}

// run simulates the root over word[from:to], offsets counted from the
// start of word, and returns the merged vector of the accepting states at
// to. It reports false if the root rejects.
func (t *tagSimulator) run(word []rune, from, to int) ([]int, bool, error) {
	cur, next := &t.s.cur, &t.s.next
	curBuf, nextBuf := t.s.vecs[0], t.s.vecs[1]

	init := make([]int, t.ntags)
	for i := range init {
		init[i] = unset
	}
	cur.clear()
	t.s.stack = t.s.stack[:0]
	t.add(cur, curBuf, t.a.Start(), init)
	if err := t.closure(cur, curBuf, from); err != nil {
		return nil, false, err
	}

	for i := from; i < to; i++ {
		next.clear()
		for _, q := range cur.dense {
			for _, tr := range t.a.Transitions(q) {
				if tr.Set.Contains(word[i]) {
					t.add(next, nextBuf, tr.To, t.vec(curBuf, q))
				}
			}
		}
		if err := t.closure(next, nextBuf, i+1); err != nil {
			return nil, false, err
		}
		if next.len() == 0 {
			return nil, false, nil
		}
		cur, next = next, cur
		curBuf, nextBuf = nextBuf, curBuf
	}

	out := make([]int, t.ntags)
	for i := range out {
		out[i] = unset
	}
	accepted := false
	for _, q := range cur.dense {
		if !t.a.IsFinal(q) {
			continue
		}
		accepted = true
		for i, x := range t.vec(curBuf, q) {
			out[i] = max(out[i], x)
		}
	}
	return out, accepted, nil
}
