// Package automaton implements the finite automata the compiler builds and
// the matchers simulate.
//
// States are integer handles into a table. Each state owns a list of symbol
// transitions, labelled by rune sets, and a list of epsilon transitions, each
// optionally carrying a tag. An Automaton is built with a Builder and never
// mutated afterwards, so it can be shared freely between goroutines.
package automaton

import (
	"sort"

	"github.com/KromDaniel/iregex/internal/charset"
)

// Tag marks an epsilon transition crossed when a run enters or leaves a
// capture group.
type Tag int

// NoTag is the tag of a plain epsilon transition.
const NoTag Tag = -1

// Transition consumes one rune of Set and moves to To.
type Transition struct {
	Set charset.Set
	To  int
}

// Epsilon moves to To without consuming input.
type Epsilon struct {
	To  int
	Tag Tag
}

type state struct {
	transitions []Transition
	epsilons    []Epsilon
}

// Automaton is an immutable nondeterministic finite automaton with tagged
// epsilon transitions.
type Automaton struct {
	states []state
	start  int
	final  []bool
	finals []int
}

func newAutomaton(states []state, start int, finals []int) *Automaton {
	a := &Automaton{
		states: states,
		start:  start,
		final:  make([]bool, len(states)),
	}
	for _, q := range finals {
		if !a.final[q] {
			a.final[q] = true
			a.finals = append(a.finals, q)
		}
	}
	sort.Ints(a.finals)
	return a
}

// NumStates returns the number of states.
func (a *Automaton) NumStates() int {
	return len(a.states)
}

// Start returns the start state.
func (a *Automaton) Start() int {
	return a.start
}

// IsFinal reports whether q is accepting.
func (a *Automaton) IsFinal(q int) bool {
	return a.final[q]
}

// Finals returns the accepting states in increasing order. The returned
// slice must not be modified.
func (a *Automaton) Finals() []int {
	return a.finals
}

// Transitions returns the symbol transitions leaving q. The returned slice
// must not be modified.
func (a *Automaton) Transitions(q int) []Transition {
	return a.states[q].transitions
}

// Epsilons returns the epsilon transitions leaving q. The returned slice
// must not be modified.
func (a *Automaton) Epsilons(q int) []Epsilon {
	return a.states[q].epsilons
}

// Tags returns the distinct tags carried by the epsilon transitions, in
// increasing order.
func (a *Automaton) Tags() []Tag {
	seen := make(map[Tag]bool)
	var tags []Tag
	for _, s := range a.states {
		for _, e := range s.epsilons {
			if e.Tag != NoTag && !seen[e.Tag] {
				seen[e.Tag] = true
				tags = append(tags, e.Tag)
			}
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Accepts reports whether word belongs to the language of a. Tags are
// ignored.
func (a *Automaton) Accepts(word []rune) bool {
	cur := a.closure([]int{a.start})
	for _, r := range word {
		var next []int
		for _, q := range cur {
			for _, t := range a.states[q].transitions {
				if t.Set.Contains(r) {
					next = append(next, t.To)
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		cur = a.closure(next)
	}
	for _, q := range cur {
		if a.final[q] {
			return true
		}
	}
	return false
}

// closure returns the states reachable from qs through epsilon transitions.
func (a *Automaton) closure(qs []int) []int {
	seen := make([]bool, len(a.states))
	stack := append([]int(nil), qs...)
	var out []int
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		for _, e := range a.states[q].epsilons {
			if !seen[e.To] {
				stack = append(stack, e.To)
			}
		}
	}
	return out
}

// Reverse returns an automaton recognizing the mirror language of a. The
// states of a keep their index; one fresh start state is appended, with an
// epsilon transition to each former accepting state. Tags are preserved.
func (a *Automaton) Reverse() *Automaton {
	n := len(a.states)
	states := make([]state, n+1)
	for q, s := range a.states {
		for _, t := range s.transitions {
			states[t.To].transitions = append(states[t.To].transitions, Transition{Set: t.Set, To: q})
		}
		for _, e := range s.epsilons {
			states[e.To].epsilons = append(states[e.To].epsilons, Epsilon{To: q, Tag: e.Tag})
		}
	}
	for _, q := range a.finals {
		states[n].epsilons = append(states[n].epsilons, Epsilon{To: q, Tag: NoTag})
	}
	return newAutomaton(states, n, []int{a.start})
}
