// Package compiler turns expression trees into tagged automata.
//
// The root, prefix and suffix of an expression are compiled independently
// by structural induction. Only the root carries tags: every capture group
// of the root is wrapped between a start-tagged and an end-tagged epsilon
// transition. Capture groups of the affixes compile to their plain
// language.
package compiler

import (
	"fmt"
	"io"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/ir"
)

// Config holds the configuration for compilation.
type Config struct {
	MaxStates int       // Max states per automaton (0 = DefaultMaxStates, negative = unlimited)
	Verbose   bool      // Enable verbose logging of compilation steps
	LogOutput io.Writer // Destination of verbose logs (nil = stderr)
}

// limit returns the effective state ceiling, zero meaning none.
func (c Config) limit() int {
	switch {
	case c.MaxStates == 0:
		return DefaultMaxStates
	case c.MaxStates < 0:
		return 0
	}
	return c.MaxStates
}

// Compiler compiles expressions. It keeps no state between calls and may
// be used by several goroutines when verbose logging is off.
type Compiler struct {
	config Config
	logger *Logger
}

// New creates a new compiler instance.
func New(config Config) *Compiler {
	logger := NewLogger(config.Verbose)
	if config.LogOutput != nil {
		logger.SetOutput(config.LogOutput)
	}
	return &Compiler{config: config, logger: logger}
}

// Logger returns the logger used for verbose output.
func (c *Compiler) Logger() *Logger {
	return c.logger
}

// Compile validates expr, checks its size against the state ceiling and
// builds its compiled form.
func (c *Compiler) Compile(expr ir.Expression) (*Compiled, error) {
	c.logger.Section("Expression Analysis")
	c.logger.Log("Expression: %s", expr)

	if err := ir.Validate(expr); err != nil {
		return nil, err
	}

	analysis := Analyze(expr)
	c.logger.Log("Features: %v", analysis.FeatureLabels)
	c.logger.Log("Capture labels: %v", analysis.Labels)
	c.logger.Log("Estimated states: %d", analysis.EstimatedStates)

	limit := c.config.limit()
	parts := []struct {
		name string
		alt  ir.Alternation
		tags bool
	}{
		{PartRoot, expr.Root, true},
		{PartPrefix, expr.Prefix, false},
		{PartSuffix, expr.Suffix, false},
	}
	for _, p := range parts {
		n := estimateAlternation(p.alt, p.tags)
		if limit > 0 && n > limit {
			c.logger.Log("%s exceeds the state limit: %d > %d", p.name, n, limit)
			return nil, &automaton.ResourceError{Phase: automaton.PhaseConstruction, Limit: limit, Reached: n}
		}
	}

	c.logger.Section("Automaton Construction")
	built := make([]*automaton.Automaton, len(parts))
	var groups []Group
	for i, p := range parts {
		ind := &induction{limit: limit, tagged: p.tags}
		a, err := ind.alternation(p.alt)
		if err != nil {
			return nil, err
		}
		c.logger.Automaton(p.name, a)
		built[i] = a
		if p.tags {
			groups = ind.groups
		}
	}
	for _, g := range groups {
		c.logger.Log("group %d: start tag %d, end tag %d", g.Label, g.Start, g.End)
	}

	return newCompiled(built[0], built[1], built[2], groups), nil
}

// induction builds the automaton of one part of an expression, allocating
// tags to capture groups in pre-order when tagged is set.
type induction struct {
	limit  int
	tagged bool
	groups []Group
}

func (ind *induction) alternation(alt ir.Alternation) (*automaton.Automaton, error) {
	if len(alt) == 1 {
		return ind.concatenation(alt[0])
	}
	parts := make([]*automaton.Automaton, len(alt))
	for i, c := range alt {
		a, err := ind.concatenation(c)
		if err != nil {
			return nil, err
		}
		parts[i] = a
	}
	return automaton.Union(ind.limit, parts...)
}

func (ind *induction) concatenation(c ir.Concatenation) (*automaton.Automaton, error) {
	if len(c) == 1 {
		return ind.atom(c[0])
	}
	parts := make([]*automaton.Automaton, len(c))
	for i, a := range c {
		fa, err := ind.atom(a)
		if err != nil {
			return nil, err
		}
		parts[i] = fa
	}
	return automaton.Concat(ind.limit, parts...)
}

func (ind *induction) atom(a ir.Atom) (*automaton.Automaton, error) {
	switch a := a.(type) {
	case ir.Token:
		return automaton.Symbol(a.Set, ind.limit)
	case ir.Alternation:
		return ind.alternation(a)
	case ir.Repetition:
		if a.Max == 0 {
			ind.skip(a.Inner)
			return automaton.Empty(ind.limit)
		}
		inner, err := ind.alternation(a.Inner)
		if err != nil {
			return nil, err
		}
		return automaton.Repeat(inner, a.Min, a.Max, ind.limit)
	case ir.Capture:
		if !ind.tagged {
			return ind.alternation(a.Inner)
		}
		k := len(ind.groups)
		g := Group{Label: a.Label, Start: StartTag(k), End: EndTag(k)}
		ind.groups = append(ind.groups, g)
		inner, err := ind.alternation(a.Inner)
		if err != nil {
			return nil, err
		}
		return automaton.Tagged(inner, g.Start, g.End, ind.limit)
	}
	return nil, fmt.Errorf("%w: unknown atom %T", ir.ErrInvalidExpression, a)
}

// skip allocates the tags of the capture groups of an alternation that is
// never built, keeping the pre-order numbering of the groups after it.
func (ind *induction) skip(alt ir.Alternation) {
	if !ind.tagged {
		return
	}
	for _, l := range ir.Labels(alt) {
		k := len(ind.groups)
		ind.groups = append(ind.groups, Group{Label: l, Start: StartTag(k), End: EndTag(k)})
	}
}
