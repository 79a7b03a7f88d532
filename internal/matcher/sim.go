package matcher

import "github.com/KromDaniel/iregex/internal/automaton"

// Limits bounds the work of one matching call.
type Limits struct {
	// MaxSteps bounds the configurations visited per call. Zero or less
	// means unlimited.
	MaxSteps int
}

type budget struct {
	phase string
	limit int
	used  int
}

func newBudget(phase string, lim Limits) *budget {
	return &budget{phase: phase, limit: lim.MaxSteps}
}

func (b *budget) spend(n int) error {
	b.used += n
	if b.limit > 0 && b.used > b.limit {
		return &automaton.ResourceError{Phase: b.phase, Limit: b.limit, Reached: b.used}
	}
	return nil
}

// simulator tracks the set of states an automaton can be in. Tags are
// ignored.
type simulator struct {
	a      *automaton.Automaton
	s      *scratch
	budget *budget
}

func newSimulator(a *automaton.Automaton, b *budget) *simulator {
	return &simulator{a: a, s: getScratch(a.NumStates(), 0), budget: b}
}

func (m *simulator) release() {
	putScratch(m.s)
	m.s = nil
}

// reset puts the simulator in the closure of the start state.
func (m *simulator) reset() error {
	m.s.cur.clear()
	return m.closure(&m.s.cur, m.a.Start())
}

// closure adds q and every state reachable from it by epsilon transitions.
func (m *simulator) closure(set *sparseSet, q int) error {
	if !set.insert(q) {
		return nil
	}
	stack := append(m.s.stack[:0], q)
	steps := 0
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		steps++
		for _, e := range m.a.Epsilons(q) {
			if set.insert(e.To) {
				stack = append(stack, e.To)
			}
		}
	}
	m.s.stack = stack
	return m.budget.spend(steps)
}

// step consumes r. It reports false once no state is left.
func (m *simulator) step(r rune) (bool, error) {
	m.s.next.clear()
	for _, q := range m.s.cur.dense {
		for _, t := range m.a.Transitions(q) {
			if t.Set.Contains(r) {
				if err := m.closure(&m.s.next, t.To); err != nil {
					return false, err
				}
			}
		}
	}
	m.s.cur, m.s.next = m.s.next, m.s.cur
	return m.s.cur.len() > 0, nil
}

func (m *simulator) accepting() bool {
	for _, q := range m.s.cur.dense {
		if m.a.IsFinal(q) {
			return true
		}
	}
	return false
}
