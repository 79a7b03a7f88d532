package automaton

import (
	"encoding/json"
	"fmt"

	"github.com/KromDaniel/iregex/internal/charset"
)

// Snapshot is the serializable form of an automaton.
type Snapshot struct {
	Start  int             `json:"start"`
	Final  []int           `json:"final"`
	States []StateSnapshot `json:"states"`
}

// StateSnapshot lists the outgoing transitions of one state.
type StateSnapshot struct {
	Transitions []TransitionSnapshot `json:"transitions,omitempty"`
	Epsilons    []int                `json:"epsilons,omitempty"`
	Tagged      []TaggedSnapshot     `json:"tagged,omitempty"`
}

// TransitionSnapshot is a symbol transition; Ranges are inclusive.
type TransitionSnapshot struct {
	Ranges [][2]rune `json:"ranges"`
	To     int       `json:"to"`
}

// TaggedSnapshot is an epsilon transition carrying a tag.
type TaggedSnapshot struct {
	To  int `json:"to"`
	Tag Tag `json:"tag"`
}

// Snapshot returns the serializable form of a.
func (a *Automaton) Snapshot() Snapshot {
	snap := Snapshot{
		Start:  a.start,
		Final:  append([]int{}, a.finals...),
		States: make([]StateSnapshot, len(a.states)),
	}
	for q, s := range a.states {
		ss := &snap.States[q]
		for _, t := range s.transitions {
			rs := t.Set.Ranges()
			ranges := make([][2]rune, len(rs))
			for i, r := range rs {
				ranges[i] = [2]rune{r.Lo, r.Hi}
			}
			ss.Transitions = append(ss.Transitions, TransitionSnapshot{Ranges: ranges, To: t.To})
		}
		for _, e := range s.epsilons {
			if e.Tag == NoTag {
				ss.Epsilons = append(ss.Epsilons, e.To)
			} else {
				ss.Tagged = append(ss.Tagged, TaggedSnapshot{To: e.To, Tag: e.Tag})
			}
		}
	}
	return snap
}

// FromSnapshot rebuilds an automaton, checking that every state handle is
// in range and every tag is non-negative.
func FromSnapshot(snap Snapshot) (*Automaton, error) {
	n := len(snap.States)
	if n == 0 {
		return nil, fmt.Errorf("%w: no states", ErrInvalidSnapshot)
	}
	check := func(q int, what string) error {
		if q < 0 || q >= n {
			return fmt.Errorf("%w: %s state %d out of range [0, %d)", ErrInvalidSnapshot, what, q, n)
		}
		return nil
	}
	if err := check(snap.Start, "start"); err != nil {
		return nil, err
	}
	for _, q := range snap.Final {
		if err := check(q, "final"); err != nil {
			return nil, err
		}
	}

	b := NewBuilder(0)
	for range snap.States {
		if _, err := b.NewState(); err != nil {
			return nil, err
		}
	}
	for q, ss := range snap.States {
		for _, t := range ss.Transitions {
			if err := check(t.To, "transition target"); err != nil {
				return nil, err
			}
			ranges := make([]charset.Range, len(t.Ranges))
			for i, r := range t.Ranges {
				if r[0] > r[1] {
					return nil, fmt.Errorf("%w: state %d: inverted range %d-%d", ErrInvalidSnapshot, q, r[0], r[1])
				}
				ranges[i] = charset.Range{Lo: r[0], Hi: r[1]}
			}
			b.Symbol(q, charset.New(ranges...), t.To)
		}
		for _, to := range ss.Epsilons {
			if err := check(to, "epsilon target"); err != nil {
				return nil, err
			}
			b.Epsilon(q, to)
		}
		for _, e := range ss.Tagged {
			if err := check(e.To, "epsilon target"); err != nil {
				return nil, err
			}
			if e.Tag < 0 {
				return nil, fmt.Errorf("%w: state %d: negative tag %d", ErrInvalidSnapshot, q, e.Tag)
			}
			b.TaggedEpsilon(q, e.To, e.Tag)
		}
	}
	return b.Build(snap.Start, snap.Final...), nil
}

// MarshalJSON encodes a through its snapshot.
func (a *Automaton) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Snapshot())
}

// UnmarshalJSON decodes a snapshot into a.
func (a *Automaton) UnmarshalJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode automaton: %w", err)
	}
	b, err := FromSnapshot(snap)
	if err != nil {
		return err
	}
	*a = *b
	return nil
}
