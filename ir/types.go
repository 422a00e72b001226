package ir

import (
	"fmt"
	"strings"
)

// Type is the structural type of a slot or place. The IR only carries
// enough structure to resolve projection chains: references, aggregates
// and arrays are explicit, everything nominal is a Named type whose
// semantics (destructor, duplicability, reference content) the analysis
// obtains from its type oracle.
type Type interface {
	String() string
	typ()
}

// Named is an opaque nominal type, classified externally.
type Named struct{ Name string }

// Reference is a non-owning reference to Elem.
type Reference struct{ Elem Type }

// Struct is an aggregate with ordered fields.
type Struct struct {
	Name   string
	Fields []Type
}

// Array is a homogeneous sequence of Elem values.
type Array struct{ Elem Type }

func (t Named) String() string     { return t.Name }
func (t Reference) String() string { return "&" + t.Elem.String() }
func (t Array) String() string     { return "[" + t.Elem.String() + "]" }

func (t Struct) String() string {
	if t.Name != "" {
		return t.Name
	}
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (Named) typ()     {}
func (Reference) typ() {}
func (Struct) typ()    {}
func (Array) typ()     {}

// Type resolves the place's type: the base slot's declared type with the
// projection chain applied.
func (p Place) Type(proc *Procedure) Type {
	return p.PrefixType(proc, len(p.Projection))
}

// PrefixType resolves the type of the place truncated to its first n
// projection steps. PrefixType(proc, 0) is the base slot's declared type.
//
// Well-formed input guarantees every step matches the structure of the
// type it projects from; a mismatch panics.
func (p Place) PrefixType(proc *Procedure, n int) Type {
	t := proc.LocalType(p.Local)
	for i := 0; i < n; i++ {
		switch elem := p.Projection[i].(type) {
		case Deref:
			ref, ok := t.(Reference)
			if !ok {
				panic(fmt.Sprintf("ir: deref of non-reference %s", t))
			}
			t = ref.Elem
		case Field:
			st, ok := t.(Struct)
			if !ok {
				panic(fmt.Sprintf("ir: field access into non-aggregate %s", t))
			}
			t = st.Fields[elem.Index]
		case Index:
			arr, ok := t.(Array)
			if !ok {
				panic(fmt.Sprintf("ir: index into non-array %s", t))
			}
			t = arr.Elem
		}
	}
	return t
}

// Pointee unwraps reference nesting and reports its depth: Pointee(&&T)
// is (T, 2), Pointee(T) is (T, 0).
func Pointee(t Type) (Type, int) {
	depth := 0
	for {
		ref, ok := t.(Reference)
		if !ok {
			return t, depth
		}
		t = ref.Elem
		depth++
	}
}
