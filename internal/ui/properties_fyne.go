//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"spookybuilder/internal/component"
	"spookybuilder/internal/editor"
	"spookybuilder/internal/panel"
)

// propertiesForm shows one panel.View as a column of labelled controls and
// writes edits back through the editor.
type propertiesForm struct {
	ed  *editor.Editor
	box *fyne.Container
	// views receives panel renders; the editor publishes them while locked,
	// so they are applied later by Sync on the UI goroutine.
	views chan panel.View

	onEdit func(property string)
}

func newPropertiesForm(ed *editor.Editor, onEdit func(property string)) *propertiesForm {
	p := &propertiesForm{ed: ed, box: container.NewVBox(), views: make(chan panel.View, 1), onEdit: onEdit}
	ed.AttachPanel(p.post)
	return p
}

func (p *propertiesForm) post(v panel.View) {
	select {
	case <-p.views:
	default:
	}
	p.views <- v
}

// Sync shows the latest posted view, if any.
func (p *propertiesForm) Sync() {
	select {
	case v := <-p.views:
		p.show(v)
	default:
	}
}

func (p *propertiesForm) show(v panel.View) {
	p.box.RemoveAll()
	if v.Empty {
		p.box.Add(widget.NewLabel(v.Message))
		p.box.Refresh()
		return
	}
	p.box.Add(widget.NewLabelWithStyle(v.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	p.box.Add(widget.NewLabelWithStyle(v.ComponentID, fyne.TextAlignLeading, fyne.TextStyle{Italic: true}))
	for _, f := range v.Fields {
		p.box.Add(widget.NewLabel(f.Label))
		p.box.Add(p.control(f))
	}
	p.box.Refresh()
}

func (p *propertiesForm) edited(property string, changed bool) {
	if changed && p.onEdit != nil {
		p.onEdit(property)
	}
}

// control builds the widget for one field. Values are set before the change
// handler is installed so building the form does not write back.
func (p *propertiesForm) control(f panel.FieldView) fyne.CanvasObject {
	name := f.Name
	switch f.Control {
	case component.ControlCheckbox:
		c := widget.NewCheck("", nil)
		c.SetChecked(f.Checked)
		c.OnChanged = func(on bool) { p.edited(name, p.ed.ApplyChecked(name, on)) }
		return c
	case component.ControlSelect:
		labels := make([]string, 0, len(f.Options))
		values := make(map[string]string, len(f.Options))
		current := ""
		for _, o := range f.Options {
			labels = append(labels, o.Label)
			values[o.Label] = o.Value
			if o.Value == f.Text {
				current = o.Label
			}
		}
		s := widget.NewSelect(labels, nil)
		if current != "" {
			s.SetSelected(current)
		}
		s.OnChanged = func(label string) { p.edited(name, p.ed.ApplyProperty(name, values[label])) }
		return s
	case component.ControlRange:
		s := widget.NewSlider(f.Min, f.Max)
		if f.Step > 0 {
			s.Step = f.Step
		}
		s.SetValue(f.Number)
		s.OnChangeEnded = func(v float64) {
			p.edited(name, p.ed.ApplyProperty(name, strconv.FormatFloat(v, 'f', -1, 64)))
		}
		return s
	case component.ControlTextarea:
		e := widget.NewMultiLineEntry()
		e.Wrapping = fyne.TextWrapWord
		e.SetText(f.Text)
		e.OnChanged = func(s string) { p.edited(name, p.ed.ApplyProperty(name, s)) }
		return e
	default:
		e := widget.NewEntry()
		e.SetText(f.Text)
		if f.Control == component.ControlColor {
			e.SetPlaceHolder("#rrggbb")
		}
		e.OnChanged = func(s string) { p.edited(name, p.ed.ApplyProperty(name, s)) }
		return e
	}
}
