// Package codegen renders compiled expressions as Go source files that
// embed the automata and load them at package initialization.
package codegen

// Identifiers referenced by generated code.
const (
	APIPath        = "github.com/KromDaniel/iregex/pkg/iregex"
	APIName        = "iregex"
	SnapshotType   = "Snapshot"
	AutomatonType  = "AutomatonSnapshot"
	StateType      = "StateSnapshot"
	TransitionType = "TransitionSnapshot"
	TaggedType     = "TaggedSnapshot"
	GroupType      = "GroupSnapshot"
	OptionsType    = "Options"
	MustLoadName   = "MustLoad"
)

// SnapshotName returns the name of the unexported variable holding the
// snapshot of the expression exported as name.
func SnapshotName(name string) string {
	return LowerFirst(name) + SnapshotType
}

// LowerFirst converts the first character of a string to lowercase.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]&^0x20) + s[1:]
}
