package ir

import (
	"strconv"
	"strings"
)

// printer renders atoms, counting captures in pre-order. A capture whose
// label equals its position is written "(...)", any other as "(?<N>...)",
// so that parsing the output restores every label.
type printer struct {
	b        strings.Builder
	captures Label
}

func render(fn func(p *printer)) string {
	var p printer
	fn(&p)
	return p.b.String()
}

func (t Token) String() string {
	return t.Set.String()
}

func (c Concatenation) String() string {
	return render(func(p *printer) { p.concatenation(c) })
}

// String joins the alternatives with '|'. The empty language is shown as
// the empty class.
func (alt Alternation) String() string {
	return render(func(p *printer) { p.alternation(alt) })
}

func (c Capture) String() string {
	return render(func(p *printer) { p.atom(c) })
}

func (r Repetition) String() string {
	return render(func(p *printer) { p.atom(r) })
}

func (p *printer) alternation(alt Alternation) {
	if len(alt) == 0 {
		p.b.WriteString("[]")
		return
	}
	for i, c := range alt {
		if i > 0 {
			p.b.WriteByte('|')
		}
		p.concatenation(c)
	}
}

func (p *printer) concatenation(c Concatenation) {
	for _, a := range c {
		if alt, ok := a.(Alternation); ok {
			p.group(alt)
			continue
		}
		p.atom(a)
	}
}

func (p *printer) group(alt Alternation) {
	p.b.WriteString("(?:")
	p.alternation(alt)
	p.b.WriteByte(')')
}

func (p *printer) atom(a Atom) {
	switch a := a.(type) {
	case Token:
		p.b.WriteString(a.String())
	case Alternation:
		p.alternation(a)
	case Capture:
		p.captures++
		if a.Label == p.captures {
			p.b.WriteByte('(')
		} else {
			p.b.WriteString("(?<" + strconv.Itoa(int(a.Label)) + ">")
		}
		p.alternation(a.Inner)
		p.b.WriteByte(')')
	case Repetition:
		p.operand(a)
		p.b.WriteString(a.quantifier())
	}
}

// operand renders the repeated alternation, grouped unless it is a single
// self-delimiting atom.
func (p *printer) operand(r Repetition) {
	if len(r.Inner) == 1 && len(r.Inner[0]) == 1 {
		switch a := r.Inner[0][0].(type) {
		case Token, Capture, Repetition:
			p.atom(a)
			return
		}
	}
	p.group(r.Inner)
}

func (r Repetition) quantifier() string {
	switch {
	case r.Min == 0 && r.Max == Unbounded:
		return "*"
	case r.Min == 1 && r.Max == Unbounded:
		return "+"
	case r.Min == 0 && r.Max == 1:
		return "?"
	case r.Max == Unbounded:
		return "{" + strconv.Itoa(r.Min) + ",}"
	case r.Min == r.Max:
		return "{" + strconv.Itoa(r.Min) + "}"
	}
	return "{" + strconv.Itoa(r.Min) + "," + strconv.Itoa(r.Max) + "}"
}

// String renders the root with anchors for empty-word affixes. Affixes
// matching every word are left implicit; any other affix is shown as a
// lookbehind or lookahead.
func (e Expression) String() string {
	var b strings.Builder
	switch {
	case IsAnchor(e.Prefix):
		b.WriteByte('^')
	case IsAnyWord(e.Prefix):
	default:
		b.WriteString("(?<=" + e.Prefix.String() + ")")
	}
	b.WriteString(e.Root.String())
	switch {
	case IsAnchor(e.Suffix):
		b.WriteByte('$')
	case IsAnyWord(e.Suffix):
	default:
		b.WriteString("(?=" + e.Suffix.String() + ")")
	}
	return b.String()
}

// IsAnchor reports whether alt is written as the empty word.
func IsAnchor(alt Alternation) bool {
	return len(alt) == 1 && len(alt[0]) == 0
}

// IsAnyWord reports whether alt is written as a star over every rune.
func IsAnyWord(alt Alternation) bool {
	return alt.String() == ".*"
}
