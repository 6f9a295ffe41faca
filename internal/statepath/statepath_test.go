package statepath

import (
	"reflect"
	"testing"
)

type inner struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type root struct {
	A inner            `json:"a"`
	B map[string]inner `json:"b"`
	C *inner           `json:"c"`
	N int              `json:"n"`
}

func sample() *root {
	return &root{
		A: inner{Name: "a", Items: []string{"x", "y"}},
		B: map[string]inner{"k": {Name: "bk", Items: []string{"1"}}},
		C: &inner{Name: "c"},
		N: 7,
	}
}

func TestSet_ReplacesLeaf(t *testing.T) {
	r := sample()
	out := Set(r, P("a", "name"), "changed")

	if out.A.Name != "changed" {
		t.Errorf("A.Name = %q, want %q", out.A.Name, "changed")
	}
	if r.A.Name != "a" {
		t.Errorf("input mutated: A.Name = %q", r.A.Name)
	}
}

func TestSet_SharesSiblings(t *testing.T) {
	r := sample()
	out := Set(r, P("a", "name"), "changed")

	if out.C != r.C {
		t.Error("sibling C was copied, want shared reference")
	}
	if &out.A.Items[0] != &r.A.Items[0] {
		t.Error("untouched A.Items backing array was copied")
	}
}

func TestSet_MapValue(t *testing.T) {
	r := sample()
	out := Set(r, P("b", "k", "name"), "new")

	if out.B["k"].Name != "new" {
		t.Errorf("B[k].Name = %q, want %q", out.B["k"].Name, "new")
	}
	if r.B["k"].Name != "bk" {
		t.Errorf("input map mutated: B[k].Name = %q", r.B["k"].Name)
	}
}

func TestSet_SliceIndex(t *testing.T) {
	r := sample()
	out := Set(r, P("a", "items", 1), "z")

	if out.A.Items[1] != "z" {
		t.Errorf("Items[1] = %q, want %q", out.A.Items[1], "z")
	}
	if r.A.Items[1] != "y" {
		t.Errorf("input slice mutated: Items[1] = %q", r.A.Items[1])
	}
}

func TestSet_DottedAndExplicitFormsAgree(t *testing.T) {
	r := sample()
	a := Set(r, Parse("a.name"), "v")
	b := Set(r, P("a", "name"), "v")

	if !reflect.DeepEqual(a, b) {
		t.Error("dotted and explicit paths produced different trees")
	}
}

func TestSet_NilValue(t *testing.T) {
	r := sample()
	out := Set(r, P("c"), nil)

	if out.C != nil {
		t.Errorf("C = %v, want nil", out.C)
	}
}

func TestSet_MissingNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on missing map key")
		}
	}()
	Set(sample(), P("b", "absent", "name"), "v")
}

func TestPush_Appends(t *testing.T) {
	r := sample()
	out := Push(r, P("a", "items"), "z")

	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(out.A.Items, want) {
		t.Errorf("Items = %v, want %v", out.A.Items, want)
	}
	if len(r.A.Items) != 2 {
		t.Errorf("input slice grew: len = %d", len(r.A.Items))
	}
}

func TestRemove_ByIndex(t *testing.T) {
	out := Remove(sample(), P("a", "items"), 0)

	want := []string{"y"}
	if !reflect.DeepEqual(out.A.Items, want) {
		t.Errorf("Items = %v, want %v", out.A.Items, want)
	}
}

func TestRemove_ByValue(t *testing.T) {
	out := Remove(sample(), P("a", "items"), "y")

	want := []string{"x"}
	if !reflect.DeepEqual(out.A.Items, want) {
		t.Errorf("Items = %v, want %v", out.A.Items, want)
	}
}

func TestRemove_AbsentValueIsNoop(t *testing.T) {
	r := sample()
	out := Remove(r, P("a", "items"), "absent")

	if !reflect.DeepEqual(out.A.Items, r.A.Items) {
		t.Errorf("Items = %v, want unchanged %v", out.A.Items, r.A.Items)
	}
}

func TestRemove_IndexOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range index")
		}
	}()
	Remove(sample(), P("a", "items"), 5)
}

func TestInsert_Splices(t *testing.T) {
	out := Insert(sample(), P("a", "items"), 1, "mid")

	want := []string{"x", "mid", "y"}
	if !reflect.DeepEqual(out.A.Items, want) {
		t.Errorf("Items = %v, want %v", out.A.Items, want)
	}
}

func TestGet_ReadsLeaf(t *testing.T) {
	got := Get(sample(), P("b", "k", "items", 0))
	if got != "1" {
		t.Errorf("Get = %v, want %q", got, "1")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"user.pageSlug", P("user", "pageSlug")},
		{"a.items.2", P("a", "items", 2)},
		{"numHints", P("numHints")},
		{"", nil},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
