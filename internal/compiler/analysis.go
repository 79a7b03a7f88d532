package compiler

import (
	"sort"

	"github.com/KromDaniel/iregex/internal/charset"
	"github.com/KromDaniel/iregex/internal/ir"
)

// ascii holds the runes encoded on one byte in UTF-8.
var ascii = charset.New(charset.Range{Lo: 0, Hi: 0x7F})

// AnalysisResult describes the structure of an expression without building
// its automata.
type AnalysisResult struct {
	// FeatureLabels are derived from the expression structure (sorted alphabetically)
	FeatureLabels []string `json:"feature_labels"`

	// Labels of the root capture groups in pre-order
	Labels []ir.Label `json:"labels"`

	HasCaptures            bool `json:"has_captures"`
	HasNestedRepetition    bool `json:"has_nested_repetition"`
	HasUnboundedRepetition bool `json:"has_unbounded_repetition"`
	EstimatedStates        int  `json:"estimated_states"`
}

// Analyze inspects expr. Capture groups of the affixes are not reported.
func Analyze(expr ir.Expression) *AnalysisResult {
	labels := ir.Labels(expr.Root)
	if labels == nil {
		labels = []ir.Label{}
	}
	result := &AnalysisResult{
		Labels:      labels,
		HasCaptures: len(labels) > 0,
		EstimatedStates: satAdd(estimateAlternation(expr.Root, true),
			satAdd(estimateAlternation(expr.Prefix, false), estimateAlternation(expr.Suffix, false))),
	}

	var features featureSet
	features.anchored = ir.IsAnchor(expr.Prefix) || ir.IsAnchor(expr.Suffix)
	features.alternation(expr.Root, 0)
	result.HasNestedRepetition = features.nested
	result.HasUnboundedRepetition = features.unbounded
	result.FeatureLabels = features.labels(result.HasCaptures)
	return result
}

type featureSet struct {
	anchored    bool
	alternative bool
	charClass   bool
	multibyte   bool
	quantifiers bool
	nested      bool
	unbounded   bool
}

// alternation records the features of alt, depth counting the enclosing
// repetitions.
func (f *featureSet) alternation(alt ir.Alternation, depth int) {
	if len(alt) > 1 {
		f.alternative = true
	}
	for _, c := range alt {
		for _, a := range c {
			f.atom(a, depth)
		}
	}
}

func (f *featureSet) atom(a ir.Atom, depth int) {
	switch a := a.(type) {
	case ir.Token:
		if _, ok := a.Set.Single(); !ok && !a.Set.Equal(charset.Any()) {
			f.charClass = true
		}
		if !a.Set.IsEmpty() && a.Set.Intersect(ascii).IsEmpty() {
			f.multibyte = true
		}
	case ir.Alternation:
		f.alternation(a, depth)
	case ir.Capture:
		f.alternation(a.Inner, depth)
	case ir.Repetition:
		f.quantifiers = true
		if depth > 0 {
			f.nested = true
		}
		if a.Max == ir.Unbounded {
			f.unbounded = true
		}
		f.alternation(a.Inner, depth+1)
	}
}

func (f *featureSet) labels(captures bool) []string {
	var labels []string
	add := func(on bool, name string) {
		if on {
			labels = append(labels, name)
		}
	}
	add(f.anchored, "Anchored")
	add(f.alternative, "Alternation")
	add(captures, "Captures")
	add(f.charClass, "CharClass")
	add(f.multibyte, "Multibyte")
	add(f.nested, "NestedRepetition")
	add(f.quantifiers, "Quantifiers")
	add(f.unbounded, "Unbounded")

	if len(labels) == 0 {
		labels = append(labels, "Simple")
	}
	sort.Strings(labels)
	return labels
}
