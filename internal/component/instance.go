/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package component

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

// DefaultPosition is used when a config carries no position.
var DefaultPosition = domain.Point{X: 100, Y: 100}

// DefaultDimensions is the size of variants that declare none.
var DefaultDimensions = domain.Size{Width: 200, Height: 100}

// Config seeds a new instance. Nil pointers and empty fields take defaults.
type Config struct {
	ID         string
	Position   *domain.Point
	Dimensions *domain.Size
	Properties domain.Properties
	ZIndex     *int
}

// IntentKind enumerates the notifications an instance publishes.
type IntentKind int

const (
	IntentMoved IntentKind = iota + 1
	IntentResized
	IntentPropertyChanged
	IntentDeleted
)

func (k IntentKind) String() string {
	switch k {
	case IntentMoved:
		return "moved"
	case IntentResized:
		return "resized"
	case IntentPropertyChanged:
		return "property-changed"
	case IntentDeleted:
		return "deleted"
	}
	return fmt.Sprintf("intent(%d)", int(k))
}

// Intent is published by an instance to its observers after a change.
type Intent struct {
	Kind        IntentKind
	ComponentID string
	Property    string
	Value       any
}

// Observer receives intents. It is called synchronously.
type Observer func(Intent)

// Instance is a live component on the canvas.
type Instance struct {
	variant   Variant
	id        string
	pos       domain.Point
	dims      domain.Size
	props     domain.Properties
	z         *int
	content   template.HTML
	renderErr error

	selected bool
	dragging bool

	observers map[int]Observer
	nextObs   int
}

// New creates an instance of v. Caller properties win over the schema defaults;
// unknown caller keys are kept after the schema keys.
func New(v Variant, cfg Config) *Instance {
	in := &Instance{variant: v, id: cfg.ID, pos: DefaultPosition, dims: v.DefaultDimensions()}
	if in.id == "" {
		in.id = domain.NewID("comp", time.Now())
	}
	if cfg.Position != nil {
		in.pos = *cfg.Position
	}
	if cfg.Dimensions != nil {
		in.dims = *cfg.Dimensions
	} else if in.dims == (domain.Size{}) {
		in.dims = DefaultDimensions
	}
	if cfg.ZIndex != nil {
		z := *cfg.ZIndex
		in.z = &z
	}
	in.props = v.Schema().Defaults()
	cfg.Properties.Range(func(name string, value any) bool {
		in.props.Set(name, value)
		return true
	})
	in.render()
	return in
}

func (in *Instance) render() {
	in.content, in.renderErr = in.variant.Render(in.props)
	if in.renderErr != nil {
		applog.WithComponent("component").Warn("render failed", "id", in.id, "type", in.variant.Type(), "err", in.renderErr)
	}
}

func (in *Instance) ID() string                    { return in.id }
func (in *Instance) Type() string                  { return in.variant.Type() }
func (in *Instance) Variant() Variant              { return in.variant }
func (in *Instance) Position() domain.Point        { return in.pos }
func (in *Instance) Dimensions() domain.Size       { return in.dims }
func (in *Instance) Content() template.HTML        { return in.content }
func (in *Instance) RenderErr() error              { return in.renderErr }
func (in *Instance) Selected() bool                { return in.selected }
func (in *Instance) Dragging() bool                { return in.dragging }
func (in *Instance) SetSelected(v bool)            { in.selected = v }
func (in *Instance) SetDragging(v bool)            { in.dragging = v }
func (in *Instance) Properties() domain.Properties { return in.props.Clone() }

// Property returns a single property value.
func (in *Instance) Property(name string) (any, bool) { return in.props.Get(name) }

// ZIndex returns the explicit stacking override, if any.
func (in *Instance) ZIndex() (int, bool) {
	if in.z == nil {
		return 0, false
	}
	return *in.z, true
}

// SetZIndex sets or clears (nil) the stacking override.
func (in *Instance) SetZIndex(z *int) {
	if z == nil {
		in.z = nil
		return
	}
	v := *z
	in.z = &v
}

// Observe registers fn and returns a function that removes it.
func (in *Instance) Observe(fn Observer) func() {
	if in.observers == nil {
		in.observers = make(map[int]Observer)
	}
	key := in.nextObs
	in.nextObs++
	in.observers[key] = fn
	return func() { delete(in.observers, key) }
}

func (in *Instance) publish(it Intent) {
	it.ComponentID = in.id
	for i := 0; i < in.nextObs; i++ {
		if fn, ok := in.observers[i]; ok {
			fn(it)
		}
	}
}

// UpdateProperty stores value, re-renders and publishes a property-changed
// intent. Values are accepted as given; setting the current value is a no-op
// and reports false.
func (in *Instance) UpdateProperty(name string, value any) bool {
	if !in.props.Set(name, value) {
		return false
	}
	in.render()
	v, _ := in.props.Get(name)
	in.publish(Intent{Kind: IntentPropertyChanged, Property: name, Value: v})
	return true
}

// MoveTo sets the position and publishes a moved intent.
func (in *Instance) MoveTo(p domain.Point) {
	if p == in.pos {
		return
	}
	in.pos = p
	in.publish(Intent{Kind: IntentMoved, Value: p})
}

// Resize sets the dimensions. Zero on an axis means auto.
func (in *Instance) Resize(s domain.Size) {
	if s.Width < 0 {
		s.Width = 0
	}
	if s.Height < 0 {
		s.Height = 0
	}
	if s == in.dims {
		return
	}
	in.dims = s
	in.publish(Intent{Kind: IntentResized, Value: s})
}

// Destroy publishes a deleted intent and drops all observers.
func (in *Instance) Destroy() {
	in.publish(Intent{Kind: IntentDeleted})
	in.observers = nil
}

// Serialize returns a deep snapshot of the instance.
func (in *Instance) Serialize() domain.ComponentSnapshot {
	s := domain.ComponentSnapshot{
		ID:         in.id,
		Type:       in.variant.Type(),
		Position:   in.pos,
		Dimensions: in.dims,
		Properties: in.props.Clone(),
	}
	if in.z != nil {
		z := *in.z
		s.ZIndex = &z
	}
	return s
}

// FieldValue pairs a schema field with the instance's current value.
type FieldValue struct {
	Field
	Value any
}

// PanelFields lists the visible fields with current values, schema order first,
// then extra properties that have no field.
func (in *Instance) PanelFields() []FieldValue {
	schema := in.variant.Schema()
	out := make([]FieldValue, 0, in.props.Len())
	for _, f := range schema {
		if !f.Visible() {
			continue
		}
		v, ok := in.props.Get(f.Name)
		if !ok {
			v = f.Default
		}
		out = append(out, FieldValue{Field: f, Value: v})
	}
	in.props.Range(func(name string, value any) bool {
		if _, ok := schema.Lookup(name); !ok {
			out = append(out, FieldValue{Field: schema.FieldFor(name), Value: value})
		}
		return true
	})
	return out
}

// Style returns the inline declarations derived from the shared base properties.
func (in *Instance) Style() string {
	p := in.props
	var b strings.Builder
	decl := func(prop, v string) {
		if v = cssSafe(strings.TrimSpace(v)); v == "" {
			return
		}
		b.WriteString(prop)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("; ")
	}
	if bg := p.String("backgroundColor"); bg != "transparent" {
		decl("background-color", bg)
	}
	decl("color", p.String("textColor"))
	decl("font-size", p.String("fontSize"))
	decl("font-family", p.String("fontFamily"))
	decl("padding", p.String("padding"))
	decl("border-radius", p.String("borderRadius"))
	decl("opacity", p.String("opacity"))
	if p.String("animation") == "disabled" {
		decl("animation", "none")
	}
	return strings.TrimSpace(b.String())
}

// Geometry returns the positioning declarations for the instance.
func (in *Instance) Geometry() string {
	var b strings.Builder
	fmt.Fprintf(&b, "left: %spx; top: %spx;", domain.FormatValue(in.pos.X), domain.FormatValue(in.pos.Y))
	if in.dims.Width > 0 {
		fmt.Fprintf(&b, " width: %spx;", domain.FormatValue(in.dims.Width))
	}
	if in.dims.Height > 0 {
		fmt.Fprintf(&b, " height: %spx;", domain.FormatValue(in.dims.Height))
	}
	return b.String()
}

var wrapperTmpl = template.Must(template.New("wrapper").Parse(
	`<div class="{{.Class}}"{{if .Builder}} data-component-id="{{.ID}}" data-component-type="{{.Type}}"{{end}} style="{{.Style}}">{{.Content}}</div>`))

type wrapperData struct {
	Class   string
	Builder bool
	ID      string
	Type    string
	Style   template.CSS
	Content template.HTML
}

// Markup returns the builder element: state classes, data attributes and
// absolute positioning around the rendered content.
func (in *Instance) Markup() template.HTML {
	classes := []string{"canvas-component", in.Type()}
	if in.selected {
		classes = append(classes, "selected")
	}
	if in.dragging {
		classes = append(classes, "dragging")
	}
	z := 10
	if v, ok := in.ZIndex(); ok {
		z = v
	}
	style := fmt.Sprintf("position: absolute; %s z-index: %d; %s", in.Geometry(), z, in.Style())
	return in.wrap(wrapperData{Class: strings.Join(classes, " "), Builder: true, ID: in.id, Type: in.Type(), Style: template.CSS(style)})
}

// ExportMarkup returns the element as it appears in an exported page: builder
// classes and data attributes removed, positioned by the .component-<id> rule.
func (in *Instance) ExportMarkup() template.HTML {
	class := fmt.Sprintf("%s spooky-component component-%s", in.Type(), in.id)
	return in.wrap(wrapperData{Class: class, Style: template.CSS(in.Style())})
}

// Script returns the exported interaction snippet, or "".
func (in *Instance) Script() string { return in.variant.Script(in.id, in.props) }

func (in *Instance) wrap(d wrapperData) template.HTML {
	d.Content = in.content
	var buf bytes.Buffer
	if err := wrapperTmpl.Execute(&buf, d); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
