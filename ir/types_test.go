package ir

import (
	"strings"
	"testing"
)

func TestPlaceType_Projections(t *testing.T) {
	owned := Named{Name: "Owned"}
	wrapper := Struct{Name: "Wrapper", Fields: []Type{owned, Named{Name: "int"}}}

	b := NewBuilder(unit)
	w := b.NewLocal(wrapper)
	r := b.NewLocal(Reference{Elem: wrapper})
	arr := b.NewLocal(Array{Elem: owned})
	bb := b.NewBlock()
	b.Terminate(bb, &Return{})
	proc := b.Finish()

	tests := []struct {
		name  string
		place Place
		want  string
	}{
		{"bare local", PlaceOf(w), "Wrapper"},
		{"field", Place{Local: w, Projection: []Projection{Field{Index: 0}}}, "Owned"},
		{"second field", Place{Local: w, Projection: []Projection{Field{Index: 1}}}, "int"},
		{"deref", Place{Local: r, Projection: []Projection{Deref{}}}, "Wrapper"},
		{"deref then field", Place{Local: r, Projection: []Projection{Deref{}, Field{Index: 0}}}, "Owned"},
		{"index", Place{Local: arr, Projection: []Projection{Index{}}}, "Owned"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.place.Type(proc).String(); got != tt.want {
				t.Errorf("Type() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPrefixType(t *testing.T) {
	owned := Named{Name: "Owned"}
	wrapper := Struct{Name: "Wrapper", Fields: []Type{owned}}

	b := NewBuilder(unit)
	w := b.NewLocal(wrapper)
	bb := b.NewBlock()
	b.Terminate(bb, &Return{})
	proc := b.Finish()

	place := Place{Local: w, Projection: []Projection{Field{Index: 0}}}
	if got := place.PrefixType(proc, 0).String(); got != "Wrapper" {
		t.Errorf("PrefixType(0) = %s, want Wrapper", got)
	}
	if got := place.PrefixType(proc, 1).String(); got != "Owned" {
		t.Errorf("PrefixType(1) = %s, want Owned", got)
	}
}

func TestPointee(t *testing.T) {
	owned := Named{Name: "Owned"}

	inner, depth := Pointee(owned)
	if depth != 0 || inner.String() != "Owned" {
		t.Errorf("Pointee(Owned) = (%s, %d), want (Owned, 0)", inner, depth)
	}

	inner, depth = Pointee(Reference{Elem: Reference{Elem: owned}})
	if depth != 2 || inner.String() != "Owned" {
		t.Errorf("Pointee(&&Owned) = (%s, %d), want (Owned, 2)", inner, depth)
	}
}

func TestFormat_Smoke(t *testing.T) {
	owned := Named{Name: "Owned"}

	b := NewBuilder(unit)
	x := b.NewLocal(owned)
	a := b.NewLocal(Reference{Elem: owned})
	bb0 := b.NewBlock()
	bb1 := b.NewBlock()
	b.StartStorage(bb0, x)
	b.Assign(bb0, PlaceOf(a), &Ref{Place: PlaceOf(x)}, Span{})
	b.Terminate(bb0, &Call{Callee: "clone", Args: []Operand{&Move{Place: PlaceOf(a)}}, Next: bb1})
	b.Terminate(bb1, &Return{})
	proc := b.Finish()

	out := Format(proc)
	for _, want := range []string{"bb0:", "storage_start(_1)", "_2 = &_1", "clone(move _2) -> bb1", "return"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format output missing %q:\n%s", want, out)
		}
	}
}
