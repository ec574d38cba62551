/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package component

import (
	"strconv"
	"strings"

	"spookybuilder/internal/domain"
)

// Kind is the value type of a property.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindEnum   Kind = "enum"
	KindBool   Kind = "boolean"
)

// Control is the panel widget used to edit a property. ControlNone hides the
// property from the panel while keeping it in snapshots.
type Control string

const (
	ControlNone     Control = ""
	ControlText     Control = "text"
	ControlTextarea Control = "textarea"
	ControlColor    Control = "color"
	ControlSelect   Control = "select"
	ControlRange    Control = "range"
	ControlCheckbox Control = "checkbox"
)

// Option is one choice of a select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one property of a component type.
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Control Control  `json:"control"`
	Default any      `json:"default"`
	Options []Option `json:"options,omitempty"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
}

// Visible reports whether the field is shown in the properties panel.
func (f Field) Visible() bool { return f.Control != ControlNone }

// Coerce converts raw panel input into a property value according to the
// field's control and kind. It never fails: input that cannot be parsed is
// kept as the raw string.
func (f Field) Coerce(raw string) any {
	switch {
	case f.Control == ControlCheckbox:
		on := isChecked(raw)
		if f.Kind == KindBool {
			return on
		}
		if on {
			return "enabled"
		}
		return "disabled"
	case f.Control == ControlRange, f.Kind == KindNumber:
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return n
		}
		return raw
	case f.Kind == KindBool:
		return isChecked(raw)
	default:
		return raw
	}
}

func isChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes", "checked", "enabled":
		return true
	}
	return false
}

// Schema is an ordered list of fields.
type Schema []Field

// Lookup finds a field by property name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldFor returns the declared field or a plain text field for unknown names.
func (s Schema) FieldFor(name string) Field {
	if f, ok := s.Lookup(name); ok {
		return f
	}
	return Field{Name: name, Label: name, Kind: KindString, Control: ControlText}
}

// Defaults returns the default property values in schema order.
func (s Schema) Defaults() domain.Properties {
	var p domain.Properties
	for _, f := range s {
		p.Set(f.Name, f.Default)
	}
	return p
}

// Compose layers own on top of base. A field in own with a base name replaces
// the base field in place; the remaining own fields follow in their order.
func Compose(base, own Schema) Schema {
	out := make(Schema, 0, len(base)+len(own))
	used := make(map[string]bool, len(own))
	for _, b := range base {
		if o, ok := own.Lookup(b.Name); ok {
			out = append(out, o)
			used[o.Name] = true
			continue
		}
		out = append(out, b)
	}
	for _, o := range own {
		if !used[o.Name] {
			out = append(out, o)
		}
	}
	return out
}

// BaseSchema holds the styling properties shared by every component type.
func BaseSchema() Schema {
	return Schema{
		{Name: "backgroundColor", Label: "Background Color", Kind: KindString, Control: ControlColor, Default: "transparent"},
		{Name: "textColor", Label: "Text Color", Kind: KindString, Control: ControlColor, Default: "#f8fafc"},
		{Name: "fontSize", Label: "Font Size", Kind: KindString, Control: ControlText, Default: "16px"},
		{Name: "fontFamily", Label: "Font Family", Kind: KindString, Default: "inherit"},
		{Name: "padding", Label: "Padding", Kind: KindString, Control: ControlText, Default: "16px"},
		{Name: "borderRadius", Label: "Border Radius", Kind: KindString, Default: "8px"},
		{Name: "opacity", Label: "Opacity", Kind: KindNumber, Control: ControlRange, Default: 1.0, Min: 0, Max: 1, Step: 0.1},
		{Name: "animation", Label: "Enable Spooky Animations", Kind: KindEnum, Control: ControlCheckbox, Default: "enabled",
			Options: []Option{{Value: "enabled", Label: "Enabled"}, {Value: "disabled", Label: "Disabled"}}},
	}
}

// LeadingNumber parses the numeric prefix of values such as "20px".
func LeadingNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		end := 0
		for end < len(s) && (s[end] == '-' || s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
			end++
		}
		n, err := strconv.ParseFloat(s[:end], 64)
		return n, err == nil
	}
	return 0, false
}
