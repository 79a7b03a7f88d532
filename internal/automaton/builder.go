package automaton

import "github.com/KromDaniel/iregex/internal/charset"

// Builder assembles an automaton state by state. A Builder is not safe for
// concurrent use.
type Builder struct {
	states []state
	limit  int
}

// NewBuilder returns an empty builder that refuses to grow past limit
// states. A limit of zero or less means unlimited.
func NewBuilder(limit int) *Builder {
	return &Builder{limit: limit}
}

// Len returns the number of states added so far.
func (b *Builder) Len() int {
	return len(b.states)
}

func (b *Builder) grow(n int) error {
	if b.limit > 0 && len(b.states)+n > b.limit {
		return &ResourceError{Phase: PhaseConstruction, Limit: b.limit, Reached: len(b.states) + n}
	}
	return nil
}

// NewState adds a state and returns its handle.
func (b *Builder) NewState() (int, error) {
	if err := b.grow(1); err != nil {
		return 0, err
	}
	b.states = append(b.states, state{})
	return len(b.states) - 1, nil
}

// Symbol adds a transition from q to to on every rune of set. A transition
// from q to to that already exists is widened instead, so each state keeps
// at most one transition per target.
func (b *Builder) Symbol(q int, set charset.Set, to int) {
	ts := b.states[q].transitions
	for i := range ts {
		if ts[i].To == to {
			ts[i].Set = ts[i].Set.Union(set)
			return
		}
	}
	b.states[q].transitions = append(ts, Transition{Set: set, To: to})
}

// Epsilon adds an untagged epsilon transition from q to to.
func (b *Builder) Epsilon(q, to int) {
	b.TaggedEpsilon(q, to, NoTag)
}

// TaggedEpsilon adds an epsilon transition from q to to carrying tag.
func (b *Builder) TaggedEpsilon(q, to int, tag Tag) {
	b.states[q].epsilons = append(b.states[q].epsilons, Epsilon{To: to, Tag: tag})
}

// Embed copies every state of a into the builder and returns the offset to
// add to a state handle of a to obtain its handle in the builder.
func (b *Builder) Embed(a *Automaton) (int, error) {
	if err := b.grow(len(a.states)); err != nil {
		return 0, err
	}
	off := len(b.states)
	for _, s := range a.states {
		ns := state{}
		if len(s.transitions) > 0 {
			ns.transitions = make([]Transition, len(s.transitions))
			for i, t := range s.transitions {
				ns.transitions[i] = Transition{Set: t.Set, To: t.To + off}
			}
		}
		if len(s.epsilons) > 0 {
			ns.epsilons = make([]Epsilon, len(s.epsilons))
			for i, e := range s.epsilons {
				ns.epsilons[i] = Epsilon{To: e.To + off, Tag: e.Tag}
			}
		}
		b.states = append(b.states, ns)
	}
	return off, nil
}

// Build freezes the states added so far into an automaton. The builder is
// left empty and may be reused.
func (b *Builder) Build(start int, finals ...int) *Automaton {
	states := b.states
	b.states = nil
	return newAutomaton(states, start, finals)
}
