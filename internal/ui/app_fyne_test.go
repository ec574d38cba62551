//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"context"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"spookybuilder/internal/canvas"
	"spookybuilder/internal/domain"
	"spookybuilder/internal/editor"
	"spookybuilder/internal/storage"
)

func almostEqual(a, b, eps float32) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func newTestEditor(t *testing.T) *editor.Editor {
	t.Helper()
	opts := editor.DefaultOptions()
	opts.AutoSave = false
	opts.Capturer = nil
	opts.Canvas = canvas.Options{GridSize: 20, Snap: true, ShowGrid: true}
	ed, err := editor.New(context.Background(), storage.NewMemoryKV(), opts)
	if err != nil {
		t.Fatalf("editor: %v", err)
	}
	t.Cleanup(func() { _ = ed.Close(context.Background()) })
	return ed
}

func TestBuilderCanvas_Defaults(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	bc := NewBuilderCanvas(newTestEditor(t))
	if bc.Armed() != "" {
		t.Fatalf("expected nothing armed, got %q", bc.Armed())
	}
	sz := bc.PreferredSize()
	if sz.Width != 432 || sz.Height != 332 {
		t.Fatalf("unexpected PreferredSize: %v", sz)
	}
}

func TestBuilderCanvas_TapDropsArmedType(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	ed := newTestEditor(t)
	bc := NewBuilderCanvas(ed)
	var msgs []string
	bc.OnChange = func(m string) { msgs = append(msgs, m) }

	bc.Arm("haunted-button")
	bc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(canvasPad+137, canvasPad+54)})
	if bc.Armed() != "" {
		t.Error("tap should disarm")
	}
	scene, selected := ed.Scene()
	if len(scene.Boxes) != 1 {
		t.Fatalf("boxes = %d", len(scene.Boxes))
	}
	if got := scene.Boxes[0].Position; got != (domain.Point{X: 140, Y: 60}) {
		t.Errorf("position = %+v", got)
	}
	if selected != scene.Boxes[0].ID {
		t.Errorf("dropped component not selected")
	}
	if len(msgs) != 1 {
		t.Errorf("messages = %v", msgs)
	}

	bc.Tapped(&fyne.PointEvent{Position: fyne.NewPos(canvasPad+700, canvasPad+500)})
	if id := ed.SelectedID(); id != "" {
		t.Errorf("tap on empty canvas left %q selected", id)
	}
}

func TestBuilderCanvas_DragMovesComponent(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	ed := newTestEditor(t)
	id, err := ed.AddComponent("haunted-button", domain.Point{X: 100, Y: 100})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	bc := NewBuilderCanvas(ed)
	start := fyne.NewPos(canvasPad+110, canvasPad+110)
	bc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(start.X+50, start.Y+40)}, Dragged: fyne.NewDelta(50, 40)})
	bc.DragEnd()

	scene, _ := ed.Scene()
	if got := scene.Boxes[0].Position; got != (domain.Point{X: 160, Y: 140}) {
		t.Errorf("position after drag = %+v", got)
	}
	if ed.SelectedID() != id {
		t.Errorf("dragged component not selected")
	}
	if !ed.CanUndo() {
		t.Error("drag should be undoable")
	}
}

func TestBuilderCanvas_LayoutGeometry(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	ed := newTestEditor(t)
	if _, err := ed.AddComponent("haunted-button", domain.Point{X: 100, Y: 300}); err != nil {
		t.Fatalf("add: %v", err)
	}
	bc := NewBuilderCanvas(ed)
	r, ok := bc.CreateRenderer().(*builderCanvasRenderer)
	if !ok {
		t.Fatalf("expected builderCanvasRenderer, got %T", bc.CreateRenderer())
	}
	r.Layout(fyne.NewSize(1000, 800))

	if !almostEqual(r.page.Size().Width, 800, 0.2) || !almostEqual(r.page.Size().Height, 600, 0.2) {
		t.Fatalf("unexpected page size: %v", r.page.Size())
	}
	box := r.boxes[0]
	if !almostEqual(box.Position().X, canvasPad+100, 0.2) || !almostEqual(box.Position().Y, canvasPad+300, 0.2) {
		t.Errorf("box position = %v", box.Position())
	}
	if !almostEqual(box.Size().Width, 200, 0.2) || !almostEqual(box.Size().Height, 60, 0.2) {
		t.Errorf("box size = %v", box.Size())
	}
	if !r.sel.Visible() {
		t.Error("selection outline hidden")
	}
	// One line per grid step, the far page edges included.
	visible := 0
	for _, l := range r.grid {
		if l.Visible() {
			visible++
		}
	}
	if visible != 40+30 {
		t.Errorf("grid lines = %d", visible)
	}

	ed.ToggleGrid()
	ed.ZoomIn()
	r.Layout(fyne.NewSize(1000, 800))
	for _, l := range r.grid {
		if l.Visible() {
			t.Fatal("grid drawn while hidden")
		}
	}
	if r.page.Size().Width <= 800 {
		t.Errorf("zoom did not scale page: %v", r.page.Size())
	}
}

func TestPropertiesForm_FollowsSelection(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	ed := newTestEditor(t)
	var edited []string
	p := newPropertiesForm(ed, func(prop string) { edited = append(edited, prop) })
	p.Sync()
	if len(p.box.Objects) != 1 {
		t.Fatalf("empty panel objects = %d", len(p.box.Objects))
	}

	id, err := ed.AddComponent("ghostly-header", domain.Point{X: 0, Y: 0})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	p.Sync()
	if len(p.box.Objects) < 4 {
		t.Fatalf("panel not rendered for %s: %d objects", id, len(p.box.Objects))
	}
	var entry *widget.Entry
	for i, o := range p.box.Objects {
		if l, ok := o.(*widget.Label); ok && l.Text == "Header Text" && i+1 < len(p.box.Objects) {
			entry, _ = p.box.Objects[i+1].(*widget.Entry)
		}
	}
	if entry == nil {
		t.Fatal("text entry not found")
	}
	if len(edited) != 0 {
		t.Fatalf("building the form wrote back: %v", edited)
	}
	test.Type(entry, "!")
	if len(edited) == 0 || edited[len(edited)-1] != "text" {
		t.Errorf("edits = %v", edited)
	}
}

func TestFloat32ToFixedRoundsToWholeUnits(t *testing.T) {
	cases := map[float32]float32{116: 116, 116.4: 116, 116.5: 117, -2.6: -3}
	for in, want := range cases {
		if got := float32ToFixed(in); got != want {
			t.Errorf("float32ToFixed(%v) = %v, want %v", in, got, want)
		}
	}
}
