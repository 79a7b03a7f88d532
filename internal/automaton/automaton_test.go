package automaton

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KromDaniel/iregex/internal/charset"
)

func mustSymbol(t *testing.T, r rune) *Automaton {
	t.Helper()
	a, err := Symbol(charset.Single(r), 0)
	if err != nil {
		t.Fatalf("Symbol(%q): %v", r, err)
	}
	return a
}

// mustOp returns a function that unwraps the result of an operation.
func mustOp(t *testing.T) func(*Automaton, error) *Automaton {
	return func(a *Automaton, err error) *Automaton {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return a
	}
}

// words enumerates every word over alphabet up to length n.
func words(alphabet string, n int) []string {
	out := []string{""}
	level := []string{""}
	for i := 0; i < n; i++ {
		var next []string
		for _, w := range level {
			for _, r := range alphabet {
				next = append(next, w+string(r))
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

func checkLanguage(t *testing.T, a *Automaton, in func(string) bool) {
	t.Helper()
	for _, w := range words("ab", 5) {
		if got, want := a.Accepts([]rune(w)), in(w); got != want {
			t.Errorf("Accepts(%q) = %v, want %v", w, got, want)
		}
	}
}

func TestOperations(t *testing.T) {
	a := mustSymbol(t, 'a')
	b := mustSymbol(t, 'b')

	tests := []struct {
		name  string
		build func() (*Automaton, error)
		in    func(string) bool
	}{
		{
			name:  "symbol",
			build: func() (*Automaton, error) { return Concat(0, a) },
			in:    func(w string) bool { return w == "a" },
		},
		{
			name:  "empty",
			build: func() (*Automaton, error) { return Empty(0) },
			in:    func(w string) bool { return w == "" },
		},
		{
			name:  "never",
			build: func() (*Automaton, error) { return Never(0) },
			in:    func(string) bool { return false },
		},
		{
			name:  "union of nothing",
			build: func() (*Automaton, error) { return Union(0) },
			in:    func(string) bool { return false },
		},
		{
			name:  "concat",
			build: func() (*Automaton, error) { return Concat(0, a, b, a) },
			in:    func(w string) bool { return w == "aba" },
		},
		{
			name:  "union",
			build: func() (*Automaton, error) { return Union(0, a, b) },
			in:    func(w string) bool { return w == "a" || w == "b" },
		},
		{
			name:  "star",
			build: func() (*Automaton, error) { return Repeat(a, 0, Unbounded, 0) },
			in:    func(w string) bool { return strings.Trim(w, "a") == "" },
		},
		{
			name:  "plus",
			build: func() (*Automaton, error) { return Repeat(a, 1, Unbounded, 0) },
			in:    func(w string) bool { return w != "" && strings.Trim(w, "a") == "" },
		},
		{
			name:  "optional",
			build: func() (*Automaton, error) { return Repeat(a, 0, 1, 0) },
			in:    func(w string) bool { return w == "" || w == "a" },
		},
		{
			name:  "exact",
			build: func() (*Automaton, error) { return Repeat(a, 3, 3, 0) },
			in:    func(w string) bool { return w == "aaa" },
		},
		{
			name:  "bounded",
			build: func() (*Automaton, error) { return Repeat(a, 1, 3, 0) },
			in: func(w string) bool {
				return len(w) >= 1 && len(w) <= 3 && strings.Trim(w, "a") == ""
			},
		},
		{
			name:  "zero times",
			build: func() (*Automaton, error) { return Repeat(a, 0, 0, 0) },
			in:    func(w string) bool { return w == "" },
		},
		{
			name: "tagged keeps language",
			build: func() (*Automaton, error) {
				u, err := Union(0, a, b)
				if err != nil {
					return nil, err
				}
				return Tagged(u, 0, 1, 0)
			},
			in: func(w string) bool { return w == "a" || w == "b" },
		},
		{
			name: "nested repetition",
			build: func() (*Automaton, error) {
				ab, err := Concat(0, a, b)
				if err != nil {
					return nil, err
				}
				return Repeat(ab, 1, 2, 0)
			},
			in: func(w string) bool { return w == "ab" || w == "abab" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if n := len(got.Finals()); n != 1 {
				t.Errorf("got %d accepting states, want 1", n)
			}
			checkLanguage(t, got, tt.in)
		})
	}
}

func TestOperationsDoNotMutateInputs(t *testing.T) {
	must := mustOp(t)
	a := mustSymbol(t, 'a')
	before := a.Snapshot()

	must(Concat(0, a, a))
	must(Union(0, a, a))
	must(Repeat(a, 2, 4, 0))
	must(Tagged(a, 3, 4, 0))

	if diff := cmp.Diff(before, a.Snapshot()); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestStateLimit(t *testing.T) {
	a := mustSymbol(t, 'a')

	_, err := Repeat(a, 10, 10, 15)
	if err == nil {
		t.Fatal("expected resource error")
	}
	if !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("errors.Is(%v, ErrResourceExhausted) = false", err)
	}
	var re *ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("error %T is not a *ResourceError", err)
	}
	if re.Phase != PhaseConstruction || re.Limit != 15 || re.Reached <= 15 {
		t.Errorf("unexpected resource error: %+v", re)
	}

	if _, err := Repeat(a, 10, 10, 20); err != nil {
		t.Errorf("Repeat within limit: %v", err)
	}
}

func TestTags(t *testing.T) {
	must := mustOp(t)
	a := mustSymbol(t, 'a')
	inner := must(Tagged(a, 2, 3, 0))
	outer := must(Tagged(inner, 0, 1, 0))

	if diff := cmp.Diff([]Tag{0, 1, 2, 3}, outer.Tags()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
	if got := a.Tags(); len(got) != 0 {
		t.Errorf("untagged automaton has tags %v", got)
	}
}

func TestReverse(t *testing.T) {
	must := mustOp(t)
	a := mustSymbol(t, 'a')
	b := mustSymbol(t, 'b')
	ab := must(Concat(0, a, b))
	abStar := must(Repeat(ab, 0, Unbounded, 0))
	fwd := must(Concat(0, abStar, a))

	rev := fwd.Reverse()
	checkLanguage(t, rev, func(w string) bool {
		r := []rune(w)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return fwd.Accepts(r)
	})
	if got, want := rev.NumStates(), fwd.NumStates()+1; got != want {
		t.Errorf("NumStates() = %d, want %d", got, want)
	}
}

func TestBuilderMergesParallelTransitions(t *testing.T) {
	b := NewBuilder(0)
	q0, _ := b.NewState()
	q1, _ := b.NewState()
	q2, _ := b.NewState()
	b.Symbol(q0, charset.Single('a'), q1)
	b.Symbol(q0, charset.Single('z'), q2)
	b.Symbol(q0, charset.New(charset.Range{Lo: 'b', Hi: 'c'}), q1)
	a := b.Build(q0, q1, q2)

	ts := a.Transitions(q0)
	if len(ts) != 2 {
		t.Fatalf("Transitions() = %v, want 2 transitions", ts)
	}
	want := charset.New(charset.Range{Lo: 'a', Hi: 'c'})
	if ts[0].To != q1 || !ts[0].Set.Equal(want) {
		t.Errorf("Transitions()[0] = %v -> %d, want %v -> %d", ts[0].Set, ts[0].To, want, q1)
	}
	for _, w := range []string{"a", "b", "c", "z"} {
		if !a.Accepts([]rune(w)) {
			t.Errorf("Accepts(%q) = false, want true", w)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	must := mustOp(t)
	a := mustSymbol(t, 'a')
	b, err := Symbol(charset.New(charset.Range{Lo: 'b', Hi: 'd'}), 0)
	if err != nil {
		t.Fatal(err)
	}
	u := must(Union(0, a, b))
	tagged := must(Tagged(u, 0, 1, 0))
	orig := must(Repeat(tagged, 1, Unbounded, 0))

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Automaton
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if diff := cmp.Diff(orig.Snapshot(), got.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	for _, w := range words("abce", 4) {
		if orig.Accepts([]rune(w)) != got.Accepts([]rune(w)) {
			t.Errorf("membership of %q differs after round trip", w)
		}
	}
}

func TestFromSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"no states", Snapshot{}},
		{"start out of range", Snapshot{Start: 2, States: make([]StateSnapshot, 1)}},
		{"final out of range", Snapshot{Final: []int{-1}, States: make([]StateSnapshot, 1)}},
		{"target out of range", Snapshot{States: []StateSnapshot{{Epsilons: []int{5}}}}},
		{"negative tag", Snapshot{States: []StateSnapshot{{Tagged: []TaggedSnapshot{{To: 0, Tag: -3}}}}}},
		{"inverted range", Snapshot{States: []StateSnapshot{{Transitions: []TransitionSnapshot{{Ranges: [][2]rune{{'z', 'a'}}, To: 0}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("FromSnapshot() error = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestWriteDOT(t *testing.T) {
	must := mustOp(t)
	a := mustSymbol(t, 'a')
	tagged := must(Tagged(a, 0, 1, 0))

	var buf bytes.Buffer
	if err := tagged.WriteDOT(&buf); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"digraph automaton {",
		"rankdir=LR;",
		"shape=doublecircle",
		`[label="a"]`,
		`[label="ε/t0",style=dashed]`,
		`[label="ε/t1",style=dashed]`,
		"q_start [shape=point]; q_start -> q0;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := a.WriteDOTCluster(&buf, "root", "r"); err != nil {
		t.Fatalf("WriteDOTCluster: %v", err)
	}
	if !strings.Contains(buf.String(), "subgraph cluster_r {") {
		t.Errorf("cluster output missing subgraph:\n%s", buf.String())
	}
}
