// Package iregex compiles regular expressions into tagged automata and
// matches them against words of runes.
//
// A match splits a word into prefix, root and suffix. The prefix is the
// shortest one accepted by the expression's prefix part, the root is the
// longest one accepted by its root part, and the suffix must be accepted by
// its suffix part. Capture groups are reported for the root only, each at
// the rightmost position it can take in the split.
//
// Example:
//
//	re := iregex.MustCompilePattern(`(a+)b`)
//	rm, subs, err := re.FindString("xaab")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rm)      // (1, 3, 0)
//	fmt.Println(subs[1]) // [1, 3)
package iregex

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/codegen"
	"github.com/KromDaniel/iregex/internal/compiler"
	"github.com/KromDaniel/iregex/internal/ir"
	"github.com/KromDaniel/iregex/internal/matcher"
	"github.com/KromDaniel/iregex/internal/syntax"
)

type (
	Expression = ir.Expression
	Label      = ir.Label

	Rootmatch  = matcher.Rootmatch
	Group      = matcher.Group
	Submatches = matcher.Submatches

	Snapshot           = compiler.Snapshot
	GroupSnapshot      = compiler.GroupSnapshot
	AutomatonSnapshot  = automaton.Snapshot
	StateSnapshot      = automaton.StateSnapshot
	TransitionSnapshot = automaton.TransitionSnapshot
	TaggedSnapshot     = automaton.TaggedSnapshot

	ResourceError          = automaton.ResourceError
	DuplicateLabelError    = ir.DuplicateLabelError
	InvalidRepetitionError = ir.InvalidRepetitionError
)

var (
	ErrInvalidExpression     = ir.ErrInvalidExpression
	ErrResourceExhausted     = automaton.ErrResourceExhausted
	ErrInvalidSnapshot       = automaton.ErrInvalidSnapshot
	ErrInconsistentRootmatch = matcher.ErrInconsistentRootmatch
)

// DefaultMaxStates bounds each automaton when Options.MaxStates is zero.
const DefaultMaxStates = compiler.DefaultMaxStates

// Options configures compilation and matching.
type Options struct {
	// MaxStates bounds the states of each automaton. Zero selects
	// DefaultMaxStates, a negative value removes the bound.
	MaxStates int

	// MaxSteps bounds the configurations visited by one matching call.
	// Zero means unlimited.
	MaxSteps int

	// Verbose logs compilation steps.
	Verbose bool

	// LogOutput receives verbose logs (nil = stderr).
	LogOutput io.Writer
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.MaxSteps < 0 {
		return fmt.Errorf("max steps cannot be negative: %d", o.MaxSteps)
	}
	return nil
}

func (o Options) compilerConfig() compiler.Config {
	return compiler.Config{MaxStates: o.MaxStates, Verbose: o.Verbose, LogOutput: o.LogOutput}
}

// Regexp is a compiled expression. It is safe for concurrent use.
type Regexp struct {
	source    string
	compiled  *compiler.Compiled
	limits    matcher.Limits
	maxStates int
}

// Parse parses pattern into an expression without compiling it.
func Parse(pattern string) (Expression, error) {
	return syntax.Parse(pattern)
}

// Compile builds the automata of expr.
func Compile(expr Expression, opts Options) (*Regexp, error) {
	return compile(expr.String(), expr, opts)
}

// CompilePattern parses and compiles pattern.
func CompilePattern(pattern string, opts Options) (*Regexp, error) {
	expr, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	return compile(pattern, expr, opts)
}

// MustCompilePattern is like CompilePattern with default options but panics
// on error.
func MustCompilePattern(pattern string) *Regexp {
	re, err := CompilePattern(pattern, Options{})
	if err != nil {
		panic(fmt.Sprintf("iregex: CompilePattern(%q): %v", pattern, err))
	}
	return re
}

func compile(source string, expr Expression, opts Options) (*Regexp, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	c, err := compiler.New(opts.compilerConfig()).Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regexp{
		source:    source,
		compiled:  c,
		limits:    matcher.Limits{MaxSteps: opts.MaxSteps},
		maxStates: opts.MaxStates,
	}, nil
}

// Load rebuilds a Regexp from a snapshot taken with Regexp.Snapshot.
func Load(snap Snapshot, opts Options) (*Regexp, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	c, err := compiler.Load(snap, opts.compilerConfig())
	if err != nil {
		return nil, err
	}
	return &Regexp{
		compiled:  c,
		limits:    matcher.Limits{MaxSteps: opts.MaxSteps},
		maxStates: opts.MaxStates,
	}, nil
}

// MustLoad is like Load but panics on error. Generated code uses it to
// initialize package variables.
func MustLoad(snap Snapshot, opts Options) *Regexp {
	re, err := Load(snap, opts)
	if err != nil {
		panic(fmt.Sprintf("iregex: Load: %v", err))
	}
	return re
}

// LoadJSON rebuilds a Regexp from the output of Regexp.MarshalJSON.
func LoadJSON(data []byte, opts Options) (*Regexp, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return Load(snap, opts)
}

// String returns the source of re, or "" for a loaded Regexp.
func (re *Regexp) String() string {
	return re.source
}

// Labels returns the capture labels of the root in pre-order.
func (re *Regexp) Labels() []Label {
	return re.compiled.Labels()
}

// Rootmatch splits word into prefix, root and suffix.
func (re *Regexp) Rootmatch(word []rune) (Rootmatch, error) {
	return matcher.FindRoot(re.compiled, word, re.limits)
}

// Submatch returns the capture groups of word under the split rm.
func (re *Regexp) Submatch(word []rune, rm Rootmatch) (Submatches, error) {
	return matcher.Submatch(re.compiled, word, rm, re.limits)
}

// Find returns the rootmatch of word and its capture groups.
func (re *Regexp) Find(word []rune) (Rootmatch, Submatches, error) {
	rm, err := re.Rootmatch(word)
	if err != nil || !rm.Matched {
		return rm, nil, err
	}
	subs, err := re.Submatch(word, rm)
	if err != nil {
		return Rootmatch{}, nil, err
	}
	return rm, subs, nil
}

// FindString is like Find on the runes of s. Offsets count runes.
func (re *Regexp) FindString(s string) (Rootmatch, Submatches, error) {
	return re.Find([]rune(s))
}

// Match reports whether word has a rootmatch.
func (re *Regexp) Match(word []rune) (bool, error) {
	rm, err := re.Rootmatch(word)
	return rm.Matched, err
}

// MatchString reports whether s has a rootmatch.
func (re *Regexp) MatchString(s string) (bool, error) {
	return re.Match([]rune(s))
}

// FindAll returns at most n successive non-overlapping rootmatches of word;
// n < 0 means all.
func (re *Regexp) FindAll(word []rune, n int) ([]Rootmatch, error) {
	return matcher.FindAll(re.compiled, word, n, re.limits)
}

// FindAllString is like FindAll on the runes of s.
func (re *Regexp) FindAllString(s string, n int) ([]Rootmatch, error) {
	return re.FindAll([]rune(s), n)
}

// Snapshot returns the serializable form of the automata.
func (re *Regexp) Snapshot() Snapshot {
	return re.compiled.Snapshot()
}

// MarshalJSON encodes the snapshot of re.
func (re *Regexp) MarshalJSON() ([]byte, error) {
	return json.Marshal(re.Snapshot())
}

// WriteDOT writes the automata of re in Graphviz DOT format.
func (re *Regexp) WriteDOT(w io.Writer) error {
	return re.compiled.WriteDOT(w)
}

// GenerateGo writes a Go source file of package pkg declaring the exported
// variable name, initialized to a copy of re. The copy is loaded with the
// MaxStates and MaxSteps re was built with.
func (re *Regexp) GenerateGo(w io.Writer, pkg, name string) error {
	return codegen.Render(w, re.Snapshot(), codegen.Config{
		Pattern:   re.source,
		Package:   pkg,
		Name:      name,
		MaxStates: re.maxStates,
		MaxSteps:  re.limits.MaxSteps,
	})
}

// Analyze reports the features of pattern without compiling it. It returns
// an error if the pattern does not parse or is invalid.
func Analyze(pattern string) (*AnalysisResult, error) {
	expr, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	if err := ir.Validate(expr); err != nil {
		return nil, err
	}
	return compiler.Analyze(expr), nil
}

// AnalysisResult contains the results of pattern analysis.
type AnalysisResult = compiler.AnalysisResult

// IsResourceError reports whether err was caused by a construction or
// matching limit.
func IsResourceError(err error) bool {
	return errors.Is(err, ErrResourceExhausted)
}
