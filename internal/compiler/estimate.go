package compiler

import "github.com/KromDaniel/iregex/internal/ir"

// The estimates below count exactly the states the induction builds, so the
// state ceiling can be checked before anything is allocated.

func estimateAlternation(alt ir.Alternation, tagged bool) int {
	if len(alt) == 1 {
		return estimateConcatenation(alt[0], tagged)
	}
	n := 2
	for _, c := range alt {
		n = satAdd(n, estimateConcatenation(c, tagged))
	}
	return n
}

func estimateConcatenation(c ir.Concatenation, tagged bool) int {
	if len(c) == 0 {
		return 1
	}
	n := 0
	for _, a := range c {
		n = satAdd(n, estimateAtom(a, tagged))
	}
	return n
}

func estimateAtom(a ir.Atom, tagged bool) int {
	switch a := a.(type) {
	case ir.Token:
		return 2
	case ir.Alternation:
		return estimateAlternation(a, tagged)
	case ir.Capture:
		n := estimateAlternation(a.Inner, tagged)
		if tagged {
			n = satAdd(n, 2)
		}
		return n
	case ir.Repetition:
		return estimateRepetition(estimateAlternation(a.Inner, tagged), a.Min, a.Max)
	}
	return 0
}

// estimateRepetition mirrors automaton.Repeat for an operand of d states.
func estimateRepetition(d, min, max int) int {
	if max == 0 {
		return 1
	}
	n := satMul(min, d)
	if max == ir.Unbounded {
		return satAdd(n, satAdd(1, d))
	}
	optional := max - min
	if optional == 0 {
		return n
	}
	if min == 0 {
		n = satAdd(n, 1)
	}
	return satAdd(n, satAdd(1, satMul(optional, d)))
}

func satAdd(a, b int) int {
	if a+b > estimateCap {
		return estimateCap
	}
	return a + b
}

func satMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > estimateCap/b {
		return estimateCap
	}
	return a * b
}
