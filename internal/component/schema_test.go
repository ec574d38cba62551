package component

import "testing"

func TestCoerceByControl(t *testing.T) {
	enumBox := Field{Name: "animation", Kind: KindEnum, Control: ControlCheckbox}
	boolBox := Field{Name: "autoStart", Kind: KindBool, Control: ControlCheckbox}
	rng := Field{Name: "opacity", Kind: KindNumber, Control: ControlRange}
	txt := Field{Name: "text", Kind: KindString, Control: ControlText}

	cases := []struct {
		f    Field
		raw  string
		want any
	}{
		{enumBox, "true", "enabled"},
		{enumBox, "false", "disabled"},
		{enumBox, "disabled", "disabled"},
		{boolBox, "on", true},
		{boolBox, "", false},
		{rng, "0.5", 0.5},
		{rng, " 1 ", 1.0},
		{rng, "half", "half"},
		{txt, "42", "42"},
	}
	for _, tc := range cases {
		if got := tc.f.Coerce(tc.raw); got != tc.want {
			t.Errorf("%s.Coerce(%q) = %#v, want %#v", tc.f.Name, tc.raw, got, tc.want)
		}
	}
}

func TestComposeReplacesInPlace(t *testing.T) {
	base := Schema{{Name: "a", Default: 1.0}, {Name: "b", Default: 2.0}}
	own := Schema{{Name: "c", Default: 3.0}, {Name: "b", Default: 9.0}}
	got := Compose(base, own)
	if len(got) != 3 || got[0].Name != "a" || got[1].Name != "b" || got[1].Default != 9.0 || got[2].Name != "c" {
		t.Fatalf("compose = %+v", got)
	}
}

func TestFieldForUnknownIsText(t *testing.T) {
	f := BaseSchema().FieldFor("mystery")
	if f.Control != ControlText || f.Kind != KindString {
		t.Fatalf("unexpected fallback field: %+v", f)
	}
}

func TestLeadingNumber(t *testing.T) {
	if n, ok := LeadingNumber("20px"); !ok || n != 20 {
		t.Fatalf("LeadingNumber(20px) = %v %v", n, ok)
	}
	if _, ok := LeadingNumber("auto"); ok {
		t.Fatalf("auto should not parse")
	}
	if n, ok := LeadingNumber(0.3); !ok || n != 0.3 {
		t.Fatalf("float passthrough failed")
	}
}
