// Package matcher answers where a compiled expression matches a word and
// where its capture groups begin and end.
//
// Matching is split in two passes over the same automata. FindRoot fixes
// the prefix, root and suffix of the word, earliest root start first and
// longest root second. Submatch then reads the capture groups off the runs
// of the root that fit that split, keeping for every tag its rightmost
// crossing.
package matcher

import (
	"fmt"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/compiler"
)

// Rootmatch splits a word into prefix, root and suffix lengths. The zero
// value reports no match.
type Rootmatch struct {
	Matched bool
	Prefix  int
	Root    int
	Suffix  int
}

// Start returns the offset where the root begins.
func (m Rootmatch) Start() int {
	return m.Prefix
}

// End returns the offset where the root ends.
func (m Rootmatch) End() int {
	return m.Prefix + m.Root
}

func (m Rootmatch) String() string {
	if !m.Matched {
		return "no match"
	}
	return fmt.Sprintf("(%d, %d, %d)", m.Prefix, m.Root, m.Suffix)
}

// FindRoot returns the split of word minimizing the prefix, then the
// suffix. Words outside the language of the expression yield the zero
// Rootmatch.
func FindRoot(c *compiler.Compiled, word []rune, lim Limits) (Rootmatch, error) {
	f, err := newFinder(c, word, lim)
	if err != nil {
		return Rootmatch{}, err
	}
	defer f.release()
	m, _, err := f.find(0)
	return m, err
}

// FindAll returns successive non-overlapping rootmatches of word. After a
// match found at p and ending at e the search resumes with prefixes of at
// least max(e, p+1) runes, so empty roots advance by one. At most n matches
// are returned; n < 0 means all.
func FindAll(c *compiler.Compiled, word []rune, n int, lim Limits) ([]Rootmatch, error) {
	if n == 0 {
		return nil, nil
	}
	f, err := newFinder(c, word, lim)
	if err != nil {
		return nil, err
	}
	defer f.release()

	var out []Rootmatch
	for from := 0; from <= len(word) && (n < 0 || len(out) < n); {
		m, ok, err := f.find(from)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, m)
		from = max(m.End(), m.Start()+1)
	}
	return out, nil
}

// finder holds the affix acceptance tables of one word.
type finder struct {
	word     []rune
	prefixOK []bool // prefixOK[i]: word[:i] is accepted by the prefix
	suffixOK []bool // suffixOK[j]: word[j:] is accepted by the suffix
	root     *simulator
}

func newFinder(c *compiler.Compiled, word []rune, lim Limits) (*finder, error) {
	b := newBudget(automaton.PhaseRootmatch, lim)
	f := &finder{word: word}

	var err error
	if f.prefixOK, err = acceptedPrefixes(c.Prefix, word, b); err != nil {
		return nil, err
	}
	if f.suffixOK, err = acceptedSuffixes(c.ReversedSuffix(), word, b); err != nil {
		return nil, err
	}
	f.root = newSimulator(c.Root, b)
	return f, nil
}

func (f *finder) release() {
	f.root.release()
}

// find returns the rootmatch with the smallest prefix of at least from
// runes.
func (f *finder) find(from int) (Rootmatch, bool, error) {
	n := len(f.word)
	for p := from; p <= n; p++ {
		if !f.prefixOK[p] {
			continue
		}
		e, err := f.longestRoot(p)
		if err != nil {
			return Rootmatch{}, false, err
		}
		if e >= 0 {
			return Rootmatch{Matched: true, Prefix: p, Root: e - p, Suffix: n - e}, true, nil
		}
	}
	return Rootmatch{}, false, nil
}

// longestRoot scans the root forward from p and returns the largest end e
// such that the root accepts word[p:e] and the suffix accepts word[e:], or
// -1.
func (f *finder) longestRoot(p int) (int, error) {
	best := -1
	if err := f.root.reset(); err != nil {
		return -1, err
	}
	if f.root.accepting() && f.suffixOK[p] {
		best = p
	}
	for i := p; i < len(f.word); i++ {
		alive, err := f.root.step(f.word[i])
		if err != nil {
			return -1, err
		}
		if !alive {
			break
		}
		if f.root.accepting() && f.suffixOK[i+1] {
			best = i + 1
		}
	}
	return best, nil
}

// acceptedPrefixes runs a forward over word and records after how many
// runes it accepts.
func acceptedPrefixes(a *automaton.Automaton, word []rune, b *budget) ([]bool, error) {
	ok := make([]bool, len(word)+1)
	m := newSimulator(a, b)
	defer m.release()
	if err := m.reset(); err != nil {
		return nil, err
	}
	ok[0] = m.accepting()
	for i, r := range word {
		alive, err := m.step(r)
		if err != nil {
			return nil, err
		}
		if !alive {
			break
		}
		ok[i+1] = m.accepting()
	}
	return ok, nil
}

// acceptedSuffixes runs the reversed suffix automaton backwards over word
// and records from which offsets the suffix accepts the rest of the word.
func acceptedSuffixes(rev *automaton.Automaton, word []rune, b *budget) ([]bool, error) {
	n := len(word)
	ok := make([]bool, n+1)
	m := newSimulator(rev, b)
	defer m.release()
	if err := m.reset(); err != nil {
		return nil, err
	}
	ok[n] = m.accepting()
	for j := n - 1; j >= 0; j-- {
		alive, err := m.step(word[j])
		if err != nil {
			return nil, err
		}
		if !alive {
			break
		}
		ok[j] = m.accepting()
	}
	return ok, nil
}
