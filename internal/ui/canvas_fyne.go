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
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"spookybuilder/internal/domain"
	"spookybuilder/internal/editor"
	"spookybuilder/internal/export"
)

// canvasPad is the gap between the widget edge and the page, in screen units.
const canvasPad = 16

// Grid lines closer together than this on screen are not drawn.
const minGridStep = 6

// BuilderCanvas draws the editor's canvas and forwards pointer gestures to it.
// Taps select; drags move the component under the pointer; the wheel zooms.
// When a palette type is armed the next tap drops it.
type BuilderCanvas struct {
	widget.BaseWidget
	ed *editor.Editor

	armed    string
	dragging bool

	// OnChange is called with a status message after the canvas changed the editor.
	OnChange func(msg string)
}

// NewBuilderCanvas returns a canvas widget bound to ed.
func NewBuilderCanvas(ed *editor.Editor) *BuilderCanvas {
	bc := &BuilderCanvas{ed: ed}
	ed.SetOrigin(domain.Point{X: canvasPad, Y: canvasPad})
	bc.ExtendBaseWidget(bc)
	return bc
}

// Arm makes the next tap drop a component of typ. "" disarms.
func (b *BuilderCanvas) Arm(typ string) { b.armed = typ }

// Armed returns the armed type or "".
func (b *BuilderCanvas) Armed() string { return b.armed }

// PreferredSize matches the minimum scene size.
func (b *BuilderCanvas) PreferredSize() fyne.Size {
	return fyne.NewSize(export.MinSceneWidth/2+2*canvasPad, export.MinSceneHeight/2+2*canvasPad)
}

func (b *BuilderCanvas) notify(msg string) {
	b.Refresh()
	if b.OnChange != nil {
		b.OnChange(msg)
	}
}

func clientPoint(pos fyne.Position) domain.Point {
	return domain.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

// Tapped drops the armed type or selects the component under the pointer.
func (b *BuilderCanvas) Tapped(e *fyne.PointEvent) {
	if b.armed != "" {
		typ := b.armed
		b.armed = ""
		id, err := b.ed.Drop(typ, clientPoint(e.Position))
		if err != nil {
			b.notify("Drop failed: " + err.Error())
			return
		}
		b.notify(fmt.Sprintf("Added %s (%s)", typ, id))
		return
	}
	id := b.ed.PointerDown(clientPoint(e.Position))
	b.ed.PointerUp()
	if id == "" {
		b.notify("Selection cleared")
		return
	}
	b.notify("Selected " + id)
}

// Dragged moves the component grabbed at the start of the gesture.
func (b *BuilderCanvas) Dragged(e *fyne.DragEvent) {
	if !b.dragging {
		b.dragging = true
		start := fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY)
		b.ed.PointerDown(clientPoint(start))
	}
	if b.ed.PointerMove(clientPoint(e.Position)) {
		b.Refresh()
	}
}

func (b *BuilderCanvas) DragEnd() {
	b.dragging = false
	if b.ed.PointerUp() {
		b.notify("Moved " + b.ed.SelectedID())
	}
}

// Scrolled zooms in or out one step per wheel notch.
func (b *BuilderCanvas) Scrolled(e *fyne.ScrollEvent) {
	switch {
	case e.Scrolled.DY > 0:
		b.ed.ZoomIn()
	case e.Scrolled.DY < 0:
		b.ed.ZoomOut()
	default:
		return
	}
	b.notify(fmt.Sprintf("Zoom %.0f%%", b.ed.Zoom()*100))
}

func (b *BuilderCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 24, G: 20, B: 32, A: 255})
	page := canvas.NewRectangle(color.Black)
	page.StrokeColor = color.RGBA{R: 80, G: 70, B: 110, A: 255}
	page.StrokeWidth = 1

	sel := canvas.NewRectangle(color.Transparent)
	sel.StrokeColor = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	sel.StrokeWidth = 2
	sel.Hide()

	r := &builderCanvasRenderer{bc: b, bg: bg, page: page, sel: sel}
	r.rebuild()
	return r
}

// builderCanvasRenderer keeps pools of drawables and positions them from the
// editor scene on every layout.
type builderCanvasRenderer struct {
	bc       *BuilderCanvas
	objects  []fyne.CanvasObject
	bg, page *canvas.Rectangle
	grid     []*canvas.Line
	boxes    []*canvas.Rectangle
	labels   []*canvas.Text
	sel      *canvas.Rectangle
}

func (r *builderCanvasRenderer) Destroy()                     {}
func (r *builderCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *builderCanvasRenderer) MinSize() fyne.Size           { return r.bc.PreferredSize() }
func (r *builderCanvasRenderer) Refresh()                     { r.Layout(r.bc.Size()); canvas.Refresh(r.bc) }

// rebuild sets the draw order: background, page, grid, boxes with labels, selection.
func (r *builderCanvasRenderer) rebuild() {
	objs := make([]fyne.CanvasObject, 0, 3+len(r.grid)+2*len(r.boxes))
	objs = append(objs, r.bg, r.page)
	for _, l := range r.grid {
		objs = append(objs, l)
	}
	for i := range r.boxes {
		objs = append(objs, r.boxes[i], r.labels[i])
	}
	r.objects = append(objs, r.sel)
}

func (r *builderCanvasRenderer) ensure(lines, boxes int) {
	grown := false
	for len(r.grid) < lines {
		l := canvas.NewLine(color.RGBA{R: 255, G: 255, B: 255, A: 24})
		l.StrokeWidth = 1
		r.grid = append(r.grid, l)
		grown = true
	}
	for len(r.boxes) < boxes {
		r.boxes = append(r.boxes, canvas.NewRectangle(color.Transparent))
		t := canvas.NewText("", color.White)
		t.Alignment = fyne.TextAlignCenter
		r.labels = append(r.labels, t)
		grown = true
	}
	if grown {
		r.rebuild()
	}
}

func (r *builderCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	scene, selected := r.bc.ed.Scene()
	zoom := float32(r.bc.ed.Zoom())
	opts := r.bc.ed.CanvasOptions()

	pageW, pageH := float32(scene.Width)*zoom, float32(scene.Height)*zoom
	r.page.FillColor = scene.BackgroundColor()
	r.page.Resize(fyne.NewSize(float32ToFixed(pageW), float32ToFixed(pageH)))
	r.page.Move(fyne.NewPos(canvasPad, canvasPad))

	var cols, rows int
	step := float32(opts.GridSize) * zoom
	if opts.ShowGrid && step >= minGridStep {
		cols = int(pageW / step)
		rows = int(pageH / step)
	}
	r.ensure(cols+rows, len(scene.Boxes))

	n := 0
	for i := 1; i <= cols; i++ {
		x := canvasPad + float32(i)*step
		r.grid[n].Position1 = fyne.NewPos(x, canvasPad)
		r.grid[n].Position2 = fyne.NewPos(x, canvasPad+pageH)
		r.grid[n].Show()
		n++
	}
	for i := 1; i <= rows; i++ {
		y := canvasPad + float32(i)*step
		r.grid[n].Position1 = fyne.NewPos(canvasPad, y)
		r.grid[n].Position2 = fyne.NewPos(canvasPad+pageW, y)
		r.grid[n].Show()
		n++
	}
	for ; n < len(r.grid); n++ {
		r.grid[n].Hide()
	}

	r.sel.Hide()
	for i, rect := range r.boxes {
		label := r.labels[i]
		if i >= len(scene.Boxes) {
			rect.Hide()
			label.Hide()
			continue
		}
		box := scene.Boxes[i]
		fill, stroke, text := box.Colors()
		x := canvasPad + float32(box.Position.X)*zoom
		y := canvasPad + float32(box.Position.Y)*zoom
		w := float32(box.Dimensions.Width) * zoom
		h := float32(box.Dimensions.Height) * zoom

		rect.FillColor = fill
		rect.StrokeColor = stroke
		rect.StrokeWidth = 1
		rect.CornerRadius = 6 * zoom
		rect.Resize(fyne.NewSize(float32ToFixed(w), float32ToFixed(h)))
		rect.Move(fyne.NewPos(float32ToFixed(x), float32ToFixed(y)))
		rect.Show()

		label.Text = box.Label()
		label.Color = text
		label.TextSize = 14 * zoom
		label.Resize(fyne.NewSize(float32ToFixed(w), float32ToFixed(h)))
		label.Move(fyne.NewPos(float32ToFixed(x), float32ToFixed(y+h/2-label.TextSize)))
		label.Show()

		if box.ID == selected {
			r.sel.Resize(fyne.NewSize(float32ToFixed(w+4), float32ToFixed(h+4)))
			r.sel.Move(fyne.NewPos(float32ToFixed(x-2), float32ToFixed(y-2)))
			r.sel.Show()
		}
	}
}

// float32ToFixed rounds v to a whole screen unit.
func float32ToFixed(v float32) float32 { return float32(math.Round(float64(v))) }
