/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"

	"spookybuilder/internal/canvas"
	"spookybuilder/internal/component"
	"spookybuilder/internal/domain"
	"spookybuilder/internal/panel"
)

// Canvas operations. Each takes the editor lock; callbacks registered with
// AttachPanel run while it is held and must not call back into the editor.

// AddComponent creates typ at the canvas-local position pos, unsnapped, and selects it.
func (e *Editor) AddComponent(typ string, pos domain.Point) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	in, err := e.reg.Create(typ, component.Config{Position: &pos})
	if err != nil {
		return "", err
	}
	if err := e.canvas.Add(in); err != nil {
		return "", err
	}
	e.canvas.Select(in.ID())
	return in.ID(), nil
}

// Drop creates typ at a client-space point, snapped to the grid, and selects it.
func (e *Editor) Drop(typ string, client domain.Point) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	in, err := e.canvas.Drop(typ, client)
	if err != nil {
		return "", err
	}
	return in.ID(), nil
}

// RemoveComponent deletes the component.
func (e *Editor) RemoveComponent(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.canvas.Remove(id) {
		return fmt.Errorf("%w: %s", canvas.ErrNotFound, id)
	}
	return nil
}

// DeleteSelected removes the selected component.
func (e *Editor) DeleteSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Remove(e.canvas.SelectedID())
}

// Select selects id; "" clears the selection.
func (e *Editor) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Select(id)
}

// SelectedID returns the selected component id or "".
func (e *Editor) SelectedID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.SelectedID()
}

// Duplicate copies the component and returns the id of the copy.
func (e *Editor) Duplicate(id string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	in, err := e.canvas.Duplicate(id)
	if err != nil {
		return "", err
	}
	return in.ID(), nil
}

// BringToFront raises the component above all others.
func (e *Editor) BringToFront(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.BringToFront(id)
}

// SendToBack lowers the component below all others.
func (e *Editor) SendToBack(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.SendToBack(id)
}

// SetOrigin sets the client-space position of the canvas corner.
func (e *Editor) SetOrigin(p domain.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canvas.SetOrigin(p)
}

func (e *Editor) PointerDown(client domain.Point) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.PointerDown(client)
}

func (e *Editor) PointerMove(client domain.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.PointerMove(client)
}

func (e *Editor) PointerUp() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.PointerUp()
}

// Key applies a keyboard shortcut to the selection.
func (e *Editor) Key(key string, shift bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Key(key, shift)
}

func (e *Editor) ZoomIn() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.ZoomIn()
}

func (e *Editor) ZoomOut() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.ZoomOut()
}

func (e *Editor) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Zoom()
}

func (e *Editor) ToggleSnap() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.ToggleSnap()
}

func (e *Editor) ToggleGrid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.ToggleGrid()
}

// CanvasOptions returns the current grid settings.
func (e *Editor) CanvasOptions() canvas.Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas.Options()
}

// ---- properties panel ----

// AttachPanel delivers a fresh view to onView now and on every selection change.
func (e *Editor) AttachPanel(onView func(panel.View)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.binder.Attach(e.canvas, onView)
}

// PanelView renders the view of the current selection.
func (e *Editor) PanelView() panel.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.binder.Render(e.canvas.Selected())
}

// ApplyProperty writes raw input to a property of the selected component.
func (e *Editor) ApplyProperty(property, raw string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.binder.Apply(e.canvas.Selected(), property, raw)
}

// ApplyChecked writes a checkbox state to a property of the selected component.
func (e *Editor) ApplyChecked(property string, on bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.binder.ApplyChecked(e.canvas.Selected(), property, on)
}

// SetProperty writes raw input to a property of the component id.
func (e *Editor) SetProperty(id, property, raw string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	in, ok := e.canvas.Get(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", canvas.ErrNotFound, id)
	}
	return e.binder.Apply(in, property, raw), nil
}

// Resize sets the dimensions of the component id.
func (e *Editor) Resize(id string, s domain.Size) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	in, ok := e.canvas.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", canvas.ErrNotFound, id)
	}
	in.Resize(s)
	return nil
}
