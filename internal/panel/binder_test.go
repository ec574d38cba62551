package panel

import (
	"testing"

	"spookybuilder/internal/canvas"
	"spookybuilder/internal/component"
	"spookybuilder/internal/component/builtin"
	"spookybuilder/internal/domain"
)

func findField(v View, name string) (FieldView, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldView{}, false
}

func TestRenderNilShowsPlaceholder(t *testing.T) {
	v := New(nil).Render(nil)
	if !v.Empty || v.Message != Placeholder || len(v.Fields) != 0 {
		t.Fatalf("unexpected view: %+v", v)
	}
}

func TestRenderBindsCurrentValues(t *testing.T) {
	reg := builtin.NewRegistry()
	in, _ := reg.Create("ghostly-header", component.Config{ID: "comp_h"})
	in.UpdateProperty("animation", "disabled")
	v := New(nil).Render(in)
	if v.Title != "Ghostly Header" || v.ComponentID != "comp_h" {
		t.Fatalf("header = %q %q", v.Title, v.ComponentID)
	}
	text, ok := findField(v, "text")
	if !ok || text.Text != "Haunted Title" || text.Control != component.ControlText {
		t.Fatalf("text field = %+v", text)
	}
	anim, _ := findField(v, "animation")
	if anim.Checked {
		t.Fatalf("animation should be unchecked")
	}
	glow, _ := findField(v, "glowIntensity")
	if glow.Control == component.ControlRange && glow.Number != 20 {
		t.Fatalf("range position = %v", glow.Number)
	}
	if _, ok := findField(v, "fontFamily"); ok {
		t.Fatalf("hidden field rendered")
	}
}

func TestApplyCoercesAndMarksModified(t *testing.T) {
	reg := builtin.NewRegistry()
	in, _ := reg.Create("ghostly-header", component.Config{})
	modified := 0
	b := New(func() { modified++ })

	if !b.Apply(in, "text", "Boo!") {
		t.Fatalf("text edit not applied")
	}
	if !b.ApplyChecked(in, "animation", false) {
		t.Fatalf("checkbox edit not applied")
	}
	if !b.Apply(in, "opacity", "0.4") {
		t.Fatalf("range edit not applied")
	}
	if b.Apply(in, "opacity", "0.4") {
		t.Fatalf("identical edit should be a no-op")
	}
	p := in.Properties()
	if p.String("text") != "Boo!" || p.String("animation") != "disabled" {
		t.Fatalf("props = text:%q animation:%q", p.String("text"), p.String("animation"))
	}
	if v, _ := p.Get("opacity"); v != 0.4 {
		t.Fatalf("opacity = %#v", v)
	}
	if modified != 3 {
		t.Fatalf("modified = %d", modified)
	}
}

func TestApplyBoolCheckbox(t *testing.T) {
	reg := builtin.NewRegistry()
	in, _ := reg.Create(builtin.RetroLandingPage, component.Config{})
	b := New(nil)
	b.ApplyChecked(in, "autoStart", false)
	if v, _ := in.Property("autoStart"); v != false {
		t.Fatalf("autoStart = %#v", v)
	}
}

func TestApplyUnknownPropertyIsStored(t *testing.T) {
	reg := builtin.NewRegistry()
	in, _ := reg.Create("shape", component.Config{})
	if !New(nil).Apply(in, "mood", "eerie") {
		t.Fatalf("unknown property should be stored")
	}
	if v, _ := in.Property("mood"); v != "eerie" {
		t.Fatalf("mood = %#v", v)
	}
}

func TestAttachFollowsSelection(t *testing.T) {
	m := canvas.NewManager(builtin.NewRegistry(), canvas.DefaultOptions())
	var views []View
	b := New(nil)
	b.Attach(m, func(v View) { views = append(views, v) })
	if len(views) != 1 || !views[0].Empty {
		t.Fatalf("initial view = %+v", views)
	}
	in, _ := m.Drop("haunted-button", domain.Point{X: 0, Y: 0})
	last := views[len(views)-1]
	if last.Empty || last.ComponentID != in.ID() {
		t.Fatalf("view after drop = %+v", last)
	}
	m.Remove(in.ID())
	if !views[len(views)-1].Empty {
		t.Fatalf("view after remove should be the placeholder")
	}
	n := len(views)
	b.Detach()
	m.Drop("shape", domain.Point{X: 0, Y: 0})
	if len(views) != n {
		t.Fatalf("detached binder still rendering")
	}
}
