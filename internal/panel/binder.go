/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package panel binds the selected component's schema to editable fields.
package panel

import (
	"log/slog"

	"spookybuilder/internal/canvas"
	"spookybuilder/internal/component"
	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

// Placeholder is shown when nothing is selected.
const Placeholder = "Select a component to edit its properties"

// FieldView is one editable row of the panel.
type FieldView struct {
	Name    string
	Label   string
	Control component.Control
	Kind    component.Kind
	// Text is the value as it appears in a text, color or select control.
	Text string
	// Number is the slider position for range controls.
	Number  float64
	Checked bool
	Options []component.Option
	Min     float64
	Max     float64
	Step    float64
}

// View is the rendered panel state.
type View struct {
	Empty       bool
	Message     string
	Title       string
	ComponentID string
	Type        string
	Fields      []FieldView
}

// Source is the canvas side the binder listens to.
type Source interface {
	Subscribe(fn func(canvas.Event)) func()
	Selected() *component.Instance
}

// Binder renders panel views and applies edits back to instances.
type Binder struct {
	log        *slog.Logger
	onView     func(View)
	onModified func()
	cancel     func()
}

// New returns a binder. onModified runs after every applied edit; either
// callback may be nil.
func New(onModified func()) *Binder {
	return &Binder{log: applog.WithComponent("panel"), onModified: onModified}
}

// Attach re-renders through onView whenever src changes selection or loses
// components. A previous attachment is dropped.
func (b *Binder) Attach(src Source, onView func(View)) {
	b.Detach()
	b.onView = onView
	b.cancel = src.Subscribe(func(e canvas.Event) {
		switch e.Kind {
		case canvas.EventSelected, canvas.EventRemoved, canvas.EventCleared:
			b.emit(b.Render(src.Selected()))
		}
	})
	b.emit(b.Render(src.Selected()))
}

// Detach stops listening.
func (b *Binder) Detach() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *Binder) emit(v View) {
	if b.onView != nil {
		b.onView(v)
	}
}

// Render builds the view for in. A nil instance yields the placeholder.
func (b *Binder) Render(in *component.Instance) View {
	if in == nil {
		return View{Empty: true, Message: Placeholder}
	}
	v := View{
		Title:       in.Variant().Label(),
		ComponentID: in.ID(),
		Type:        in.Type(),
	}
	for _, fv := range in.PanelFields() {
		v.Fields = append(v.Fields, fieldView(fv))
	}
	return v
}

func fieldView(fv component.FieldValue) FieldView {
	out := FieldView{
		Name:    fv.Name,
		Label:   fv.Label,
		Control: fv.Control,
		Kind:    fv.Kind,
		Text:    domain.FormatValue(fv.Value),
		Options: fv.Options,
		Min:     fv.Min,
		Max:     fv.Max,
		Step:    fv.Step,
	}
	if out.Label == "" {
		out.Label = fv.Name
	}
	switch fv.Control {
	case component.ControlRange:
		if n, ok := component.LeadingNumber(fv.Value); ok {
			out.Number = n
		}
	case component.ControlCheckbox:
		switch t := fv.Value.(type) {
		case bool:
			out.Checked = t
		case string:
			out.Checked = t == "enabled" || t == "true"
		}
	}
	return out
}

// Apply coerces raw input for property and writes it to in. It reports
// whether the stored value changed. Properties unknown to the schema are
// stored as text.
func (b *Binder) Apply(in *component.Instance, property, raw string) bool {
	if in == nil || property == "" {
		return false
	}
	f := in.Variant().Schema().FieldFor(property)
	value := f.Coerce(raw)
	if !in.UpdateProperty(property, value) {
		return false
	}
	b.log.Debug("property applied",
		slog.String("component", in.ID()),
		slog.String("property", property),
		slog.String("control", string(f.Control)))
	if b.onModified != nil {
		b.onModified()
	}
	return true
}

// ApplyChecked is Apply for checkbox controls.
func (b *Binder) ApplyChecked(in *component.Instance, property string, on bool) bool {
	raw := "false"
	if on {
		raw = "true"
	}
	return b.Apply(in, property, raw)
}
