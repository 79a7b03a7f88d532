package compiler

import (
	"fmt"
	"io"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/ir"
)

// Group records the tags of one root capture group.
type Group struct {
	Label ir.Label
	Start automaton.Tag
	End   automaton.Tag
}

// Compiled is the compiled form of an expression. It is immutable and safe
// for concurrent use.
type Compiled struct {
	Root   *automaton.Automaton
	Prefix *automaton.Automaton
	Suffix *automaton.Automaton

	groups   []Group
	start    map[ir.Label]automaton.Tag
	end      map[ir.Label]automaton.Tag
	numTags  int
	reversed *automaton.Automaton
}

func newCompiled(root, prefix, suffix *automaton.Automaton, groups []Group) *Compiled {
	c := &Compiled{
		Root:     root,
		Prefix:   prefix,
		Suffix:   suffix,
		groups:   groups,
		start:    make(map[ir.Label]automaton.Tag, len(groups)),
		end:      make(map[ir.Label]automaton.Tag, len(groups)),
		reversed: suffix.Reverse(),
	}
	for _, g := range groups {
		c.start[g.Label] = g.Start
		c.end[g.Label] = g.End
		c.numTags = max(c.numTags, int(g.Start)+1, int(g.End)+1)
	}
	return c
}

// Labels returns the labels of the root capture groups in pre-order.
func (c *Compiled) Labels() []ir.Label {
	out := make([]ir.Label, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Label
	}
	return out
}

// Groups returns the root capture groups with their tags, in pre-order.
func (c *Compiled) Groups() []Group {
	return append([]Group(nil), c.groups...)
}

// StartTag returns the tag crossed when entering the group labelled l.
func (c *Compiled) StartTag(l ir.Label) (automaton.Tag, bool) {
	t, ok := c.start[l]
	return t, ok
}

// EndTag returns the tag crossed when leaving the group labelled l.
func (c *Compiled) EndTag(l ir.Label) (automaton.Tag, bool) {
	t, ok := c.end[l]
	return t, ok
}

// NumTags returns one more than the largest tag in use, the length of a tag
// vector.
func (c *Compiled) NumTags() int {
	return c.numTags
}

// ReversedSuffix returns the suffix automaton reading words backwards.
func (c *Compiled) ReversedSuffix() *automaton.Automaton {
	return c.reversed
}

// WriteDOT writes the three automata as clusters of one Graphviz digraph.
func (c *Compiled) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "digraph compiled {\n    rankdir=LR;\n"); err != nil {
		return err
	}
	for _, g := range c.groups {
		if _, err := fmt.Fprintf(w, "    // group %d: start t%d, end t%d\n", g.Label, g.Start, g.End); err != nil {
			return err
		}
	}
	parts := []struct {
		name, prefix string
		a            *automaton.Automaton
	}{
		{PartPrefix, "p", c.Prefix},
		{PartRoot, "r", c.Root},
		{PartSuffix, "s", c.Suffix},
	}
	for _, p := range parts {
		if err := p.a.WriteDOTCluster(w, p.name, p.prefix); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "}\n")
	return err
}
