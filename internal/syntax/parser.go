// Package syntax reads POSIX ERE style patterns into expression trees.
//
// Supported: literals, '.', bracket classes with ranges and escapes,
// backslash escapes, capturing '(...)', labelled '(?<N>...)' and
// non-capturing '(?:...)' groups, '|', the quantifiers '*', '+', '?', '{m}',
// '{m,}', '{m,n}' and '{,n}'. A leading '^' anchors the prefix and a
// trailing '$' anchors the suffix; without them the root may match anywhere
// in the word. The k-th capture group in the order of opening parentheses
// is labelled k unless it carries an explicit label.
package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/KromDaniel/iregex/internal/charset"
	"github.com/KromDaniel/iregex/internal/ir"
)

var ereLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Class", Pattern: `\[\^?\]?(?:\\(?s:.)|[^\]\\])*\]`},
	{Name: "Escape", Pattern: `\\(?s:.)`},
	{Name: "Repeat", Pattern: `\{[0-9]*(?:,[0-9]*)?\}`},
	{Name: "Label", Pattern: `\(\?<[0-9]+>`},
	{Name: "Punct", Pattern: `[|()*+?.^$]`},
	{Name: "Char", Pattern: `[^\\\[]`},
})

type erePattern struct {
	Start bool       `parser:"@'^'?"`
	Terms []*ereTerm `parser:"@@*"`
	End   bool       `parser:"@'$'?"`
}

type ereTerm struct {
	Bar   bool      `parser:"  @'|'"`
	Piece *erePiece `parser:"| @@"`
}

type erePiece struct {
	Atom        *ereAtom `parser:"@@"`
	Quantifiers []string `parser:"( @'*' | @'+' | @'?' | @Repeat )*"`
}

type ereAtom struct {
	Group  *ereGroup `parser:"  @@"`
	Class  *string   `parser:"| @Class"`
	Escape *string   `parser:"| @Escape"`
	Dot    bool      `parser:"| @'.'"`
	Char   *string   `parser:"| @Char"`
}

type ereGroup struct {
	Open  string     `parser:"@( Label | '(' ( '?' ':' )? )"`
	Terms []*ereTerm `parser:"@@* ')'"`
}

var parser = participle.MustBuild[erePattern](participle.Lexer(ereLexer))

// Parse reads pattern into an expression.
func Parse(pattern string) (ir.Expression, error) {
	tree, err := parser.ParseString("pattern", pattern)
	if err != nil {
		return ir.Expression{}, fmt.Errorf("parse %q: %w", pattern, err)
	}
	c := &converter{}
	root, err := c.terms(tree.Terms)
	if err != nil {
		return ir.Expression{}, fmt.Errorf("parse %q: %w", pattern, err)
	}
	expr := ir.Unanchored(root)
	if tree.Start {
		expr.Prefix = ir.Anchor()
	}
	if tree.End {
		expr.Suffix = ir.Anchor()
	}
	return expr, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string) ir.Expression {
	expr, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return expr
}

// converter turns the grammar tree into ir nodes, numbering groups as it
// meets them.
type converter struct {
	labels ir.Label
}

func (c *converter) terms(ts []*ereTerm) (ir.Alternation, error) {
	alt := ir.Alternation{ir.Concatenation{}}
	for _, t := range ts {
		if t.Bar {
			alt = append(alt, ir.Concatenation{})
			continue
		}
		a, err := c.piece(t.Piece)
		if err != nil {
			return nil, err
		}
		last := len(alt) - 1
		alt[last] = append(alt[last], a)
	}
	return alt, nil
}

func (c *converter) piece(p *erePiece) (ir.Atom, error) {
	a, err := c.atom(p.Atom)
	if err != nil {
		return nil, err
	}
	for _, q := range p.Quantifiers {
		min, max, err := quantifier(q)
		if err != nil {
			return nil, err
		}
		inner := ir.Alternation{ir.Concatenation{a}}
		if alt, ok := a.(ir.Alternation); ok {
			inner = alt
		}
		a = ir.Repetition{Inner: inner, Min: min, Max: max}
	}
	return a, nil
}

func (c *converter) atom(a *ereAtom) (ir.Atom, error) {
	switch {
	case a.Group != nil:
		if a.Group.Open == "(?:" {
			return c.terms(a.Group.Terms)
		}
		c.labels++
		label := c.labels
		if open := a.Group.Open; open != "(" {
			n, err := strconv.Atoi(open[3 : len(open)-1])
			if err != nil {
				return nil, fmt.Errorf("capture label %s: %w", open, err)
			}
			label = ir.Label(n)
		}
		inner, err := c.terms(a.Group.Terms)
		if err != nil {
			return nil, err
		}
		return ir.Capture{Label: label, Inner: inner}, nil
	case a.Class != nil:
		set, err := class(*a.Class)
		if err != nil {
			return nil, err
		}
		return ir.Token{Set: set}, nil
	case a.Escape != nil:
		r, _ := utf8.DecodeRuneInString((*a.Escape)[1:])
		return ir.Token{Set: charset.Single(charset.Unescape(r))}, nil
	case a.Dot:
		return ir.Token{Set: charset.Any()}, nil
	case a.Char != nil:
		r, _ := utf8.DecodeRuneInString(*a.Char)
		return ir.Token{Set: charset.Single(r)}, nil
	}
	return nil, fmt.Errorf("empty atom")
}

// quantifier returns the bounds of '*', '+', '?' or a '{...}' token.
func quantifier(q string) (int, int, error) {
	switch q {
	case "*":
		return 0, ir.Unbounded, nil
	case "+":
		return 1, ir.Unbounded, nil
	case "?":
		return 0, 1, nil
	}
	body := q[1 : len(q)-1]
	if body == "" {
		return 0, 0, fmt.Errorf("empty repetition %s", q)
	}
	lo, hi, hasComma := strings.Cut(body, ",")
	min, err := bound(lo, 0)
	if err != nil {
		return 0, 0, err
	}
	if !hasComma {
		return min, min, nil
	}
	max, err := bound(hi, ir.Unbounded)
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

func bound(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("repetition bound %q: %w", s, err)
	}
	return n, nil
}

// class reads a bracket expression such as "[a-c\n]" or "[^x]".
func class(tok string) (charset.Set, error) {
	body := []rune(tok[1 : len(tok)-1])
	negate := len(body) > 0 && body[0] == '^'
	if negate {
		body = body[1:]
	}

	i := 0
	next := func() rune {
		r := body[i]
		i++
		if r == '\\' && i < len(body) {
			r = charset.Unescape(body[i])
			i++
		}
		return r
	}

	var ranges []charset.Range
	for i < len(body) {
		lo := next()
		hi := lo
		if i+1 < len(body) && body[i] == '-' {
			i++
			hi = next()
			if hi < lo {
				return charset.Set{}, fmt.Errorf("invalid class range %c-%c in %s", lo, hi, tok)
			}
		}
		ranges = append(ranges, charset.Range{Lo: lo, Hi: hi})
	}

	set := charset.New(ranges...)
	if negate {
		set = set.Complement()
	}
	return set, nil
}
