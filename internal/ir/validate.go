package ir

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is matched by every construction error.
var ErrInvalidExpression = errors.New("invalid expression")

// DuplicateLabelError reports a label used by more than one capture group.
type DuplicateLabelError struct {
	Label Label
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("duplicate capture label %d", e.Label)
}

func (e *DuplicateLabelError) Is(target error) bool {
	return target == ErrInvalidExpression
}

// InvalidRepetitionError reports repetition bounds that describe no count.
type InvalidRepetitionError struct {
	Min, Max int
}

func (e *InvalidRepetitionError) Error() string {
	if e.Max == Unbounded {
		return fmt.Sprintf("invalid repetition bounds {%d,}", e.Min)
	}
	return fmt.Sprintf("invalid repetition bounds {%d,%d}", e.Min, e.Max)
}

func (e *InvalidRepetitionError) Is(target error) bool {
	return target == ErrInvalidExpression
}

// Validate walks the root, then the prefix, then the suffix of expr and
// returns the first construction error found.
func Validate(expr Expression) error {
	v := validator{seen: make(map[Label]bool)}
	for _, alt := range []Alternation{expr.Root, expr.Prefix, expr.Suffix} {
		if err := v.alternation(alt); err != nil {
			return err
		}
	}
	return nil
}

type validator struct {
	seen map[Label]bool
}

func (v *validator) alternation(alt Alternation) error {
	for _, c := range alt {
		for _, a := range c {
			if err := v.atom(a); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *validator) atom(a Atom) error {
	switch a := a.(type) {
	case Token:
		return nil
	case Alternation:
		return v.alternation(a)
	case Repetition:
		if a.Min < 0 || a.Max < Unbounded || (a.Max != Unbounded && a.Max < a.Min) {
			return &InvalidRepetitionError{Min: a.Min, Max: a.Max}
		}
		return v.alternation(a.Inner)
	case Capture:
		if v.seen[a.Label] {
			return &DuplicateLabelError{Label: a.Label}
		}
		v.seen[a.Label] = true
		return v.alternation(a.Inner)
	}
	return fmt.Errorf("%w: unknown atom %T", ErrInvalidExpression, a)
}

// Labels returns the capture labels of alt in pre-order.
func Labels(alt Alternation) []Label {
	var out []Label
	Walk(alt, func(a Atom) {
		if c, ok := a.(Capture); ok {
			out = append(out, c.Label)
		}
	})
	return out
}

// Walk calls fn for every atom of alt in pre-order.
func Walk(alt Alternation, fn func(Atom)) {
	for _, c := range alt {
		for _, a := range c {
			fn(a)
			switch a := a.(type) {
			case Alternation:
				Walk(a, fn)
			case Repetition:
				Walk(a.Inner, fn)
			case Capture:
				Walk(a.Inner, fn)
			}
		}
	}
}
