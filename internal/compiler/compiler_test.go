package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/charset"
	"github.com/KromDaniel/iregex/internal/ir"
	"github.com/KromDaniel/iregex/internal/syntax"
)

func tok(r rune) ir.Token {
	return ir.Token{Set: charset.Single(r)}
}

func group(l ir.Label, atoms ...ir.Atom) ir.Capture {
	return ir.Capture{Label: l, Inner: ir.Alternation{ir.Concatenation(atoms)}}
}

func TestCompileLanguages(t *testing.T) {
	tests := []struct {
		pattern string
		accept  []string
		reject  []string
	}{
		{"^abc$", []string{"abc"}, []string{"", "ab", "abcd"}},
		{"^(a|b)*c$", []string{"c", "abac", "bbc"}, []string{"", "ab", "ca"}},
		{"^a{2,3}$", []string{"aa", "aaa"}, []string{"a", "aaaa"}},
		{"^(a){0}b$", []string{"b"}, []string{"ab"}},
		{"^[a-c]+$", []string{"a", "cab"}, []string{"", "d"}},
		{"^(?:ab)?$", []string{"", "ab"}, []string{"a", "abab"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			c, err := New(Config{}).Compile(syntax.MustParse(tt.pattern))
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			for _, w := range tt.accept {
				if !c.Root.Accepts([]rune(w)) {
					t.Errorf("root rejects %q", w)
				}
			}
			for _, w := range tt.reject {
				if c.Root.Accepts([]rune(w)) {
					t.Errorf("root accepts %q", w)
				}
			}
		})
	}
}

func TestCompileTags(t *testing.T) {
	expr := ir.Anchored(ir.Alternation{{
		group(10, tok('a'), group(20, tok('b'))),
		ir.Star(ir.Alternation{{group(30, tok('c'))}}),
	}})

	c, err := New(Config{}).Compile(expr)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []Group{
		{Label: 10, Start: 0, End: 1},
		{Label: 20, Start: 2, End: 3},
		{Label: 30, Start: 4, End: 5},
	}
	if diff := cmp.Diff(want, c.Groups()); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ir.Label{10, 20, 30}, c.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]automaton.Tag{0, 1, 2, 3, 4, 5}, c.Root.Tags()); diff != "" {
		t.Errorf("root tags mismatch (-want +got):\n%s", diff)
	}
	if c.NumTags() != 6 {
		t.Errorf("NumTags() = %d, want 6", c.NumTags())
	}
	if tag, ok := c.StartTag(20); !ok || tag != 2 {
		t.Errorf("StartTag(20) = %d, %v", tag, ok)
	}
	if tag, ok := c.EndTag(30); !ok || tag != 5 {
		t.Errorf("EndTag(30) = %d, %v", tag, ok)
	}
	if _, ok := c.StartTag(99); ok {
		t.Error("StartTag(99) reported a tag")
	}
}

func TestAffixCapturesAreInert(t *testing.T) {
	expr := ir.Expression{
		Root:   ir.Alternation{{group(1, tok('b'))}},
		Prefix: ir.Alternation{{group(2, tok('a'))}},
		Suffix: ir.Alternation{{group(3, tok('c'))}},
	}

	c, err := New(Config{}).Compile(expr)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if diff := cmp.Diff([]ir.Label{1}, c.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
	if tags := c.Prefix.Tags(); len(tags) != 0 {
		t.Errorf("prefix carries tags %v", tags)
	}
	if tags := c.Suffix.Tags(); len(tags) != 0 {
		t.Errorf("suffix carries tags %v", tags)
	}
	if !c.Prefix.Accepts([]rune("a")) || !c.Suffix.Accepts([]rune("c")) {
		t.Error("affix captures lost their language")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		expr   ir.Expression
		target error
	}{
		{
			name:   "duplicate label",
			expr:   ir.Anchored(ir.Alternation{{group(1, tok('a')), group(1, tok('b'))}}),
			target: ir.ErrInvalidExpression,
		},
		{
			name: "duplicate label across prefix",
			expr: ir.Expression{
				Root:   ir.Alternation{{group(1)}},
				Prefix: ir.Alternation{{group(1)}},
				Suffix: ir.Anchor(),
			},
			target: ir.ErrInvalidExpression,
		},
		{
			name:   "inverted bounds",
			expr:   ir.Anchored(ir.Alternation{{ir.Repetition{Inner: ir.Alternation{{tok('a')}}, Min: 2, Max: 1}}}),
			target: ir.ErrInvalidExpression,
		},
		{
			name:   "too many states",
			expr:   syntax.MustParse("^(?:a{1000}){1000}$"),
			target: automaton.ErrResourceExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{}).Compile(tt.expr)
			if !errors.Is(err, tt.target) {
				t.Errorf("Compile() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestStateLimit(t *testing.T) {
	expr := syntax.MustParse("^a{10}$")

	_, err := New(Config{MaxStates: 19}).Compile(expr)
	var re *automaton.ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("Compile() error = %v, want *ResourceError", err)
	}
	if re.Phase != automaton.PhaseConstruction || re.Reached != 20 || re.Limit != 19 {
		t.Errorf("unexpected resource error: %+v", re)
	}

	if _, err := New(Config{MaxStates: 20}).Compile(expr); err != nil {
		t.Errorf("Compile() at the limit: %v", err)
	}
	if _, err := New(Config{MaxStates: -1}).Compile(syntax.MustParse("^(?:a{100}){100}$")); err != nil {
		t.Errorf("Compile() without limit: %v", err)
	}
}

func TestEstimateMatchesConstruction(t *testing.T) {
	patterns := []string{
		"",
		"a",
		"abc",
		"a|b|",
		"(a|b)*c",
		"(?:ab){2,5}",
		"(a){0}b",
		"a{0,3}",
		"a{3,}",
		"((a)*|b+)?c{2}",
		"[]",
		"^x$",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			expr := syntax.MustParse(pattern)
			c, err := New(Config{MaxStates: -1}).Compile(expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			parts := []struct {
				name   string
				alt    ir.Alternation
				tagged bool
				a      *automaton.Automaton
			}{
				{PartRoot, expr.Root, true, c.Root},
				{PartPrefix, expr.Prefix, false, c.Prefix},
				{PartSuffix, expr.Suffix, false, c.Suffix},
			}
			for _, p := range parts {
				if got, want := estimateAlternation(p.alt, p.tagged), p.a.NumStates(); got != want {
					t.Errorf("%s: estimate %d, built %d states", p.name, got, want)
				}
			}
		})
	}
}

func TestSnapshotLoad(t *testing.T) {
	c, err := New(Config{}).Compile(syntax.MustParse("(a)(b|c)*"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	loaded, err := Load(snap, Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(c.Snapshot(), loaded.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.Groups(), loaded.Groups()); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	for _, w := range []string{"", "a", "ab", "abcb", "b", "ad"} {
		if c.Root.Accepts([]rune(w)) != loaded.Root.Accepts([]rune(w)) {
			t.Errorf("root membership of %q differs after load", w)
		}
	}
}

func TestLoadRejectsOrphanTags(t *testing.T) {
	c, err := New(Config{}).Compile(syntax.MustParse("(a)(b)"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"missing group", func(s *Snapshot) { s.Groups = s.Groups[:1] }},
		{"duplicate label", func(s *Snapshot) { s.Groups[1].Label = s.Groups[0].Label }},
		{"shared tag", func(s *Snapshot) { s.Groups[1].Start = s.Groups[0].End }},
		{"sparse tag", func(s *Snapshot) { s.Groups[1].End = 1 << 40 }},
		{"swapped tags", func(s *Snapshot) { s.Groups[0].Start, s.Groups[0].End = s.Groups[0].End, s.Groups[0].Start }},
		{"tagged prefix", func(s *Snapshot) { s.Prefix = s.Root }},
		{"broken automaton", func(s *Snapshot) { s.Suffix.Start = 1000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := c.Snapshot()
			tt.mutate(&snap)
			if _, err := Load(snap, Config{}); !errors.Is(err, automaton.ErrInvalidSnapshot) {
				t.Errorf("Load() error = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestWriteDOT(t *testing.T) {
	c, err := New(Config{}).Compile(syntax.MustParse("(a)"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	var buf bytes.Buffer
	if err := c.WriteDOT(&buf); err != nil {
		t.Fatalf("WriteDOT() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"digraph compiled {",
		"// group 1: start t0, end t1",
		"subgraph cluster_p {",
		"subgraph cluster_r {",
		"subgraph cluster_s {",
		`label="ε/t0"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(Config{Verbose: true, LogOutput: &buf}).Compile(syntax.MustParse("(a)b"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"[iregex] === Expression Analysis ===",
		"[iregex] Expression: (a)b",
		"[iregex] === Automaton Construction ===",
		"[iregex] root: ",
		"[iregex] group 1: start tag 0, end tag 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if _, err := New(Config{LogOutput: &buf}).Compile(syntax.MustParse("a")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("quiet compiler logged:\n%s", buf.String())
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		pattern string
		want    AnalysisResult
	}{
		{
			pattern: "abc",
			want: AnalysisResult{
				FeatureLabels:   []string{"Simple"},
				Labels:          []ir.Label{},
				EstimatedStates: 6 + 3 + 3,
			},
		},
		{
			pattern: "^(a|[xy])+$",
			want: AnalysisResult{
				FeatureLabels:          []string{"Alternation", "Anchored", "Captures", "CharClass", "Quantifiers", "Unbounded"},
				Labels:                 []ir.Label{1},
				HasCaptures:            true,
				HasUnboundedRepetition: true,
				EstimatedStates:        17 + 1 + 1,
			},
		},
		{
			pattern: "^(?:é{2})*$",
			want: AnalysisResult{
				FeatureLabels:          []string{"Anchored", "Multibyte", "NestedRepetition", "Quantifiers", "Unbounded"},
				Labels:                 []ir.Label{},
				HasNestedRepetition:    true,
				HasUnboundedRepetition: true,
				EstimatedStates:        5 + 1 + 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := Analyze(syntax.MustParse(tt.pattern))
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeMultibyte(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"é", true},
		{"[é-ü]", true},
		{"[a-é]", false},
		{".", false},
		{"a", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := Analyze(syntax.MustParse(tt.pattern))
			has := false
			for _, l := range got.FeatureLabels {
				has = has || l == "Multibyte"
			}
			if has != tt.want {
				t.Errorf("Analyze(%q) labels = %v, Multibyte = %v, want %v", tt.pattern, got.FeatureLabels, has, tt.want)
			}
		})
	}
}
