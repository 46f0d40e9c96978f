package graph

// Arg is a single argument to a Task: either a Literal, passed to the
// function verbatim, or a Ref, resolved to the result of another graph node
// before invocation (spec.md §3). Modeled as a tagged union rather than a
// runtime type check on a heterogeneous container (Design Note: "Tagged
// task representation") so that analysis code never has to ask "is this
// string a key?" at runtime.
type Arg struct {
	ref bool
	key Key
	lit any
}

// Lit builds a literal argument.
func Lit(value any) Arg {
	return Arg{lit: value}
}

// Ref builds a key-reference argument.
func Ref(key Key) Arg {
	return Arg{ref: true, key: key}
}

// IsRef reports whether a refers to another graph node.
func (a Arg) IsRef() bool {
	return a.ref
}

// Key returns the referenced key. Only valid when IsRef() is true.
func (a Arg) Key() Key {
	return a.key
}

// Value returns the literal value. Only valid when IsRef() is false.
func (a Arg) Value() any {
	return a.lit
}
