package domain

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestDocumentJSONRoundTrip(t *testing.T) {
	now := time.Date(2025, 10, 31, 23, 0, 0, 0, time.UTC)
	z := 3
	d := Document{
		ID:       "proj_abc",
		Name:     "Haunted Website",
		Created:  now,
		Modified: now,
		Components: []ComponentSnapshot{{
			ID:         "comp_1",
			Type:       "ghostly-header",
			Position:   Point{X: 100, Y: 120},
			Dimensions: Size{Width: 200},
			Properties: NewProperties("text", "Boo", "fontSize", "32px", "opacity", 1),
			ZIndex:     &z,
		}},
		Settings: DefaultSettings(),
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"backgroundImage":null`) {
		t.Fatalf("backgroundImage should serialize as null: %s", b)
	}
	var got Document
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != d.Name || !got.Modified.Equal(now) {
		t.Fatalf("document mismatch: %+v", got)
	}
	if len(got.Components) != 1 {
		t.Fatalf("components = %d", len(got.Components))
	}
	c := got.Components[0]
	if !c.Properties.Equal(d.Components[0].Properties) {
		t.Fatalf("properties mismatch: %v vs %v", c.Properties.Keys(), d.Components[0].Properties.Keys())
	}
	if c.ZIndex == nil || *c.ZIndex != 3 {
		t.Fatalf("zIndex lost: %v", c.ZIndex)
	}
}

func TestPropertiesKeepInsertionOrder(t *testing.T) {
	p := NewProperties("z", "last", "a", "first", "m", 2)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"z":"last","a":"first","m":2}` {
		t.Fatalf("unexpected encoding: %s", b)
	}
	var back Properties
	if err := json.Unmarshal([]byte(`{"b":true,"a":"x","c":1.5}`), &back); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(back.Keys(), ","); got != "b,a,c" {
		t.Fatalf("order = %s", got)
	}
	if !back.Bool("b") || back.String("c") != "1.5" {
		t.Fatalf("values lost: %v", back)
	}
}

func TestPropertiesSetReportsChange(t *testing.T) {
	var p Properties
	if !p.Set("opacity", 1) {
		t.Fatalf("first set should report change")
	}
	if p.Set("opacity", 1.0) {
		t.Fatalf("int and float64 of same value should be equal after normalisation")
	}
	if !p.Set("opacity", "abc") {
		t.Fatalf("changing type should report change")
	}
	p.Set("text", "x")
	p.Delete("opacity")
	if p.Len() != 1 || p.Keys()[0] != "text" {
		t.Fatalf("delete broke order: %v", p.Keys())
	}
}

func TestPropertiesCloneIsIndependent(t *testing.T) {
	p := NewProperties("text", "a")
	c := p.Clone()
	c.Set("text", "b")
	c.Set("extra", true)
	if p.String("text") != "a" || p.Has("extra") {
		t.Fatalf("clone shares storage with original")
	}
}

func TestPropertiesFloatParsesStrings(t *testing.T) {
	p := NewProperties("n", "2.5", "bad", "2.5px", "f", 3)
	if f, ok := p.Float("n"); !ok || f != 2.5 {
		t.Fatalf("Float(n) = %v %v", f, ok)
	}
	if _, ok := p.Float("bad"); ok {
		t.Fatalf("Float(bad) should fail")
	}
	if f, _ := p.Float("f"); f != 3 {
		t.Fatalf("Float(f) = %v", f)
	}
}

func TestValidate(t *testing.T) {
	if err := (Document{ID: "p", Name: "n"}).Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}
	err := (Document{Name: " "}).Validate()
	if !errors.Is(err, ErrInvalidDocument) || !strings.Contains(err.Error(), "id, name") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewIDShape(t *testing.T) {
	now := time.UnixMilli(1730419200000)
	id := NewID("comp", now)
	if !regexp.MustCompile(`^comp_[0-9a-f]{9}_1730419200000$`).MatchString(id) {
		t.Fatalf("unexpected id %q", id)
	}
	if NewID("comp", now) == id {
		t.Fatalf("ids should differ")
	}
}
