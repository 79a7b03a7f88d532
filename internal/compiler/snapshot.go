package compiler

import (
	"fmt"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/ir"
)

// Snapshot is the serializable form of a compiled expression.
type Snapshot struct {
	Root   automaton.Snapshot `json:"root"`
	Prefix automaton.Snapshot `json:"prefix"`
	Suffix automaton.Snapshot `json:"suffix"`
	Groups []GroupSnapshot    `json:"groups,omitempty"`
}

// GroupSnapshot is the serializable form of a Group.
type GroupSnapshot struct {
	Label ir.Label      `json:"label"`
	Start automaton.Tag `json:"start"`
	End   automaton.Tag `json:"end"`
}

// Snapshot returns the serializable form of c.
func (c *Compiled) Snapshot() Snapshot {
	snap := Snapshot{
		Root:   c.Root.Snapshot(),
		Prefix: c.Prefix.Snapshot(),
		Suffix: c.Suffix.Snapshot(),
	}
	for _, g := range c.groups {
		snap.Groups = append(snap.Groups, GroupSnapshot{Label: g.Label, Start: g.Start, End: g.End})
	}
	return snap
}

// Load rebuilds a compiled expression from a snapshot. Besides the shape
// of each automaton it checks that group labels are unique, that the k-th
// group owns StartTag(k) and EndTag(k), that every tag of the root belongs
// to a group and that the affixes carry no tags.
func Load(snap Snapshot, config Config) (*Compiled, error) {
	logger := NewLogger(config.Verbose)
	if config.LogOutput != nil {
		logger.SetOutput(config.LogOutput)
	}
	logger.Section("Snapshot Load")

	limit := config.limit()
	load := func(name string, s automaton.Snapshot) (*automaton.Automaton, error) {
		a, err := automaton.FromSnapshot(s)
		if err != nil {
			return nil, fmt.Errorf("%s automaton: %w", name, err)
		}
		if limit > 0 && a.NumStates() > limit {
			return nil, &automaton.ResourceError{Phase: automaton.PhaseConstruction, Limit: limit, Reached: a.NumStates()}
		}
		logger.Automaton(name, a)
		return a, nil
	}
	root, err := load(PartRoot, snap.Root)
	if err != nil {
		return nil, err
	}
	prefix, err := load(PartPrefix, snap.Prefix)
	if err != nil {
		return nil, err
	}
	suffix, err := load(PartSuffix, snap.Suffix)
	if err != nil {
		return nil, err
	}

	for _, a := range []struct {
		name string
		a    *automaton.Automaton
	}{{PartPrefix, prefix}, {PartSuffix, suffix}} {
		if tags := a.a.Tags(); len(tags) > 0 {
			return nil, fmt.Errorf("%w: %s automaton carries tags %v", automaton.ErrInvalidSnapshot, a.name, tags)
		}
	}

	labels := make(map[ir.Label]bool)
	owned := make(map[automaton.Tag]bool)
	groups := make([]Group, 0, len(snap.Groups))
	for k, g := range snap.Groups {
		if labels[g.Label] {
			return nil, fmt.Errorf("%w: duplicate group label %d", automaton.ErrInvalidSnapshot, g.Label)
		}
		labels[g.Label] = true
		// Tag vectors are sized by the largest tag, so only the dense
		// numbering produced by Compile is accepted.
		if g.Start != StartTag(k) || g.End != EndTag(k) {
			return nil, fmt.Errorf("%w: group %d: tags (%d, %d), want (%d, %d)",
				automaton.ErrInvalidSnapshot, g.Label, g.Start, g.End, StartTag(k), EndTag(k))
		}
		for _, t := range []automaton.Tag{g.Start, g.End} {
			owned[t] = true
		}
		groups = append(groups, Group{Label: g.Label, Start: g.Start, End: g.End})
	}
	for _, t := range root.Tags() {
		if !owned[t] {
			return nil, fmt.Errorf("%w: root tag %d belongs to no group", automaton.ErrInvalidSnapshot, t)
		}
	}

	return newCompiled(root, prefix, suffix, groups), nil
}
