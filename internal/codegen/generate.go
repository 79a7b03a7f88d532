package codegen

import (
	"errors"
	"fmt"
	"go/token"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/KromDaniel/iregex/internal/automaton"
	"github.com/KromDaniel/iregex/internal/compiler"
)

// Config describes the generated file.
type Config struct {
	// Pattern is quoted in the header comment.
	Pattern string

	// Package is the package clause of the generated file.
	Package string

	// Name is the exported variable holding the loaded expression. Its
	// first letter is upper-cased.
	Name string

	// MaxStates is passed to the loaded expression when non-zero, so that
	// automata compiled past the default ceiling load again.
	MaxStates int

	// MaxSteps is passed to the loaded expression when positive.
	MaxSteps int
}

// Validate checks if the config is valid.
func (c Config) Validate() error {
	if c.Package == "" {
		return errors.New("package cannot be empty")
	}
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("package %q is not an identifier", c.Package)
	}
	if c.Name == "" {
		return errors.New("name cannot be empty")
	}
	if !token.IsIdentifier(c.Name) || !isASCIILetter(c.Name[0]) {
		return fmt.Errorf("name %q must be an identifier starting with a letter", c.Name)
	}
	return nil
}

func isASCIILetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

// File builds the generated source for snap.
func File(snap compiler.Snapshot, cfg Config) (*jen.File, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	name := UpperFirst(cfg.Name)
	snapName := SnapshotName(name)

	f := jen.NewFile(cfg.Package)
	f.HeaderComment(fmt.Sprintf("Code generated by iregex for pattern %q. DO NOT EDIT.", cfg.Pattern))
	f.ImportName(APIPath, APIName)

	f.Var().Id(snapName).Op("=").Add(snapshotLit(snap))
	f.Line()

	options := jen.Dict{}
	if cfg.MaxStates != 0 {
		options[jen.Id("MaxStates")] = jen.Lit(cfg.MaxStates)
	}
	if cfg.MaxSteps > 0 {
		options[jen.Id("MaxSteps")] = jen.Lit(cfg.MaxSteps)
	}
	f.Commentf("%s matches %q.", name, cfg.Pattern)
	f.Var().Id(name).Op("=").Qual(APIPath, MustLoadName).Call(
		jen.Id(snapName),
		jen.Qual(APIPath, OptionsType).Values(options),
	)
	return f, nil
}

// Render writes the formatted source for snap to w.
func Render(w io.Writer, snap compiler.Snapshot, cfg Config) error {
	f, err := File(snap, cfg)
	if err != nil {
		return err
	}
	if err := f.Render(w); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return nil
}

// Save writes the formatted source for snap to path.
func Save(path string, snap compiler.Snapshot, cfg Config) error {
	f, err := File(snap, cfg)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func snapshotLit(snap compiler.Snapshot) *jen.Statement {
	fields := jen.Dict{
		jen.Id("Root"):   automatonLit(snap.Root),
		jen.Id("Prefix"): automatonLit(snap.Prefix),
		jen.Id("Suffix"): automatonLit(snap.Suffix),
	}
	if len(snap.Groups) > 0 {
		groups := make([]jen.Code, len(snap.Groups))
		for i, g := range snap.Groups {
			groups[i] = jen.Values(jen.Dict{
				jen.Id("Label"): jen.Lit(int(g.Label)),
				jen.Id("Start"): jen.Lit(int(g.Start)),
				jen.Id("End"):   jen.Lit(int(g.End)),
			})
		}
		fields[jen.Id("Groups")] = jen.Index().Qual(APIPath, GroupType).Values(groups...)
	}
	return jen.Qual(APIPath, SnapshotType).Values(fields)
}

func automatonLit(a automaton.Snapshot) *jen.Statement {
	states := make([]jen.Code, len(a.States))
	for q, s := range a.States {
		states[q] = stateLit(s)
	}
	return jen.Qual(APIPath, AutomatonType).Values(jen.Dict{
		jen.Id("Start"):  jen.Lit(a.Start),
		jen.Id("Final"):  intsLit(a.Final),
		jen.Id("States"): jen.Index().Qual(APIPath, StateType).Values(states...),
	})
}

func stateLit(s automaton.StateSnapshot) *jen.Statement {
	fields := jen.Dict{}
	if len(s.Transitions) > 0 {
		ts := make([]jen.Code, len(s.Transitions))
		for i, t := range s.Transitions {
			ranges := make([]jen.Code, len(t.Ranges))
			for j, r := range t.Ranges {
				ranges[j] = jen.Values(jen.LitRune(r[0]), jen.LitRune(r[1]))
			}
			ts[i] = jen.Values(jen.Dict{
				jen.Id("Ranges"): jen.Index().Index(jen.Lit(2)).Rune().Values(ranges...),
				jen.Id("To"):     jen.Lit(t.To),
			})
		}
		fields[jen.Id("Transitions")] = jen.Index().Qual(APIPath, TransitionType).Values(ts...)
	}
	if len(s.Epsilons) > 0 {
		fields[jen.Id("Epsilons")] = intsLit(s.Epsilons)
	}
	if len(s.Tagged) > 0 {
		tagged := make([]jen.Code, len(s.Tagged))
		for i, e := range s.Tagged {
			tagged[i] = jen.Values(jen.Dict{
				jen.Id("To"):  jen.Lit(e.To),
				jen.Id("Tag"): jen.Lit(int(e.Tag)),
			})
		}
		fields[jen.Id("Tagged")] = jen.Index().Qual(APIPath, TaggedType).Values(tagged...)
	}
	return jen.Values(fields)
}

func intsLit(xs []int) *jen.Statement {
	vals := make([]jen.Code, len(xs))
	for i, x := range xs {
		vals[i] = jen.Lit(x)
	}
	return jen.Index().Int().Values(vals...)
}
