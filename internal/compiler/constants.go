package compiler

import "github.com/KromDaniel/iregex/internal/automaton"

// DefaultMaxStates bounds each automaton when Config.MaxStates is unset.
const DefaultMaxStates = 1 << 16

// estimateCap saturates state estimates so that nested counted
// repetitions cannot overflow.
const estimateCap = 1 << 40

// Names of the three parts of an expression, as shown in logs and exports.
const (
	PartRoot   = "root"
	PartPrefix = "prefix"
	PartSuffix = "suffix"
)

// TagsPerGroup is the number of tags allocated to each root capture group.
const TagsPerGroup = 2

// StartTag returns the tag marking the entry of the k-th root capture
// group, counted from zero in pre-order.
func StartTag(k int) automaton.Tag {
	return automaton.Tag(TagsPerGroup * k)
}

// EndTag returns the tag marking the exit of the k-th root capture group.
func EndTag(k int) automaton.Tag {
	return automaton.Tag(TagsPerGroup*k + 1)
}
