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
	"errors"
	"fmt"
	"html/template"
	"strings"

	"spookybuilder/internal/domain"
)

// Variant is a component type: its schema, default size and renderer.
type Variant interface {
	Type() string
	Label() string
	Category() string
	// Schema returns the effective schema (base fields composed with the type's own).
	Schema() Schema
	DefaultDimensions() domain.Size
	Render(props domain.Properties) (template.HTML, error)
	// Script returns the interaction snippet for exported pages, or "".
	Script(id string, props domain.Properties) string
}

// Spec declares a data-driven variant.
type Spec struct {
	Type       string
	Label      string
	Category   string
	Fields     Schema
	Dimensions domain.Size
	// Template is an html/template body executed with the component properties.
	Template string
	// Script builds the export interaction snippet; nil means none.
	Script func(id string, props domain.Properties) string
}

type templated struct {
	spec   Spec
	schema Schema
	tmpl   *template.Template
}

// NewVariant parses spec.Template and returns the variant.
func NewVariant(spec Spec) (Variant, error) {
	if strings.TrimSpace(spec.Type) == "" {
		return nil, errors.New("component: variant without type")
	}
	t, err := template.New(spec.Type).Funcs(templateFuncs).Parse(spec.Template)
	if err != nil {
		return nil, fmt.Errorf("component %s: parse template: %w", spec.Type, err)
	}
	if spec.Label == "" {
		spec.Label = spec.Type
	}
	return &templated{spec: spec, schema: Compose(BaseSchema(), spec.Fields), tmpl: t}, nil
}

// MustVariant is NewVariant for static catalogs.
func MustVariant(spec Spec) Variant {
	v, err := NewVariant(spec)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *templated) Type() string                   { return v.spec.Type }
func (v *templated) Label() string                  { return v.spec.Label }
func (v *templated) Category() string               { return v.spec.Category }
func (v *templated) Schema() Schema                 { return v.schema }
func (v *templated) DefaultDimensions() domain.Size { return v.spec.Dimensions }

func (v *templated) Render(props domain.Properties) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.tmpl.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("render %s: %w", v.spec.Type, err)
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}

func (v *templated) Script(id string, props domain.Properties) string {
	if v.spec.Script == nil {
		return ""
	}
	return v.spec.Script(id, props)
}

// Templates receive domain.Properties as dot, so {{.String "text"}} reads a
// value. The helpers below cover style and URL contexts.
var templateFuncs = template.FuncMap{
	// css marks a property value as a CSS value; attribute escaping still applies.
	"css": func(v string) template.CSS { return template.CSS(cssSafe(v)) },
	// px appends "px" to bare numbers so range inputs stay valid CSS lengths.
	"px": func(v string) string {
		if n, ok := LeadingNumber(v); ok && strings.TrimSpace(v) == domain.FormatValue(n) {
			return v + "px"
		}
		return v
	},
	"url": func(v string) template.URL {
		lv := strings.ToLower(strings.TrimSpace(v))
		if strings.HasPrefix(lv, "http://") || strings.HasPrefix(lv, "https://") ||
			strings.HasPrefix(lv, "data:image/") || !strings.Contains(lv, ":") {
			return template.URL(v)
		}
		return template.URL("#")
	},
	"title": func(v string) string {
		if v == "" {
			return v
		}
		return strings.ToUpper(v[:1]) + v[1:]
	},
	"list": splitList,
	"inputType": func(field string) string {
		if field == "email" {
			return "email"
		}
		return "text"
	},
}

// cssSafe strips characters that would end a declaration or the attribute.
func cssSafe(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, v)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
