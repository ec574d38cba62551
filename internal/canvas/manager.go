/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas owns the live component instances of an editing session:
// insertion and paint order, the single selection, the drag gesture state
// machine, grid snapping and zoom. It is not safe for concurrent use; the
// editor serialises access.
package canvas

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"spookybuilder/internal/component"
	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

// Zoom limits and step factor.
const (
	MinZoom    = 0.3
	MaxZoom    = 3.0
	ZoomFactor = 1.2
)

// Offset applied to duplicated and pasted components.
const DuplicateOffset = 20

var (
	ErrNotFound    = errors.New("component not found")
	ErrDuplicateID = errors.New("component id already on canvas")
)

// Creator builds instances by type tag. *component.Registry implements it.
type Creator interface {
	Create(typ string, cfg component.Config) (*component.Instance, error)
	Restore(s domain.ComponentSnapshot) (*component.Instance, error)
}

// Options configure a manager.
type Options struct {
	GridSize float64
	Snap     bool
	ShowGrid bool
}

// DefaultOptions returns a 20px grid with snapping on.
func DefaultOptions() Options { return Options{GridSize: 20, Snap: true, ShowGrid: true} }

// dragState is the per-gesture state machine: idle or dragging one instance.
type dragState struct {
	active bool
	id     string
	offset domain.Point
	moved  bool
}

// Manager is the canvas and selection manager.
type Manager struct {
	reg  Creator
	opts Options
	log  *slog.Logger

	instances map[string]*component.Instance
	order     []string
	unobserve map[string]func()
	selected  string
	drag      dragState

	zoom   float64
	origin domain.Point

	subs    map[int]func(Event)
	nextSub int
}

// NewManager returns an empty canvas backed by reg.
func NewManager(reg Creator, opts Options) *Manager {
	if opts.GridSize <= 0 {
		opts.GridSize = DefaultOptions().GridSize
	}
	return &Manager{
		reg:       reg,
		opts:      opts,
		log:       applog.WithComponent("canvas"),
		instances: make(map[string]*component.Instance),
		unobserve: make(map[string]func()),
		zoom:      1,
		subs:      make(map[int]func(Event)),
	}
}

// Subscribe registers fn for canvas events and returns a cancel function.
func (m *Manager) Subscribe(fn func(Event)) func() {
	key := m.nextSub
	m.nextSub++
	m.subs[key] = fn
	return func() { delete(m.subs, key) }
}

func (m *Manager) publish(e Event) {
	for i := 0; i < m.nextSub; i++ {
		if fn, ok := m.subs[i]; ok {
			fn(e)
		}
	}
}

// Add places in on the canvas and forwards its intents as events.
func (m *Manager) Add(in *component.Instance) error {
	if in == nil {
		return errors.New("canvas: nil instance")
	}
	if _, ok := m.instances[in.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, in.ID())
	}
	m.instances[in.ID()] = in
	m.order = append(m.order, in.ID())
	m.unobserve[in.ID()] = in.Observe(m.forward)
	m.publish(Event{Kind: EventAdded, ComponentID: in.ID()})
	return nil
}

func (m *Manager) forward(it component.Intent) {
	var kind EventKind
	switch it.Kind {
	case component.IntentMoved:
		kind = EventMoved
	case component.IntentResized:
		kind = EventResized
	case component.IntentPropertyChanged:
		kind = EventPropertyChanged
	default:
		return
	}
	m.publish(Event{Kind: kind, ComponentID: it.ComponentID, Property: it.Property, Value: it.Value})
}

// Get returns the instance with id.
func (m *Manager) Get(id string) (*component.Instance, bool) {
	in, ok := m.instances[id]
	return in, ok
}

// Len returns the number of instances.
func (m *Manager) Len() int { return len(m.order) }

// Instances returns the live instances in insertion order.
func (m *Manager) Instances() []*component.Instance {
	out := make([]*component.Instance, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.instances[id])
	}
	return out
}

// Snapshots serialises every instance in insertion order.
func (m *Manager) Snapshots() []domain.ComponentSnapshot {
	out := make([]domain.ComponentSnapshot, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.instances[id].Serialize())
	}
	return out
}

func effectiveZ(in *component.Instance) int {
	z, _ := in.ZIndex()
	return z
}

// PaintOrder returns instances back to front: explicit z-index first, then
// insertion order among equal z.
func (m *Manager) PaintOrder() []*component.Instance {
	out := m.Instances()
	sort.SliceStable(out, func(i, j int) bool { return effectiveZ(out[i]) < effectiveZ(out[j]) })
	return out
}

// Remove deletes the instance and clears the selection if it was selected.
// Unknown ids report false.
func (m *Manager) Remove(id string) bool {
	in, ok := m.instances[id]
	if !ok {
		return false
	}
	if m.selected == id {
		m.Select("")
	}
	if m.drag.id == id {
		m.drag = dragState{}
	}
	if cancel := m.unobserve[id]; cancel != nil {
		cancel()
	}
	delete(m.unobserve, id)
	in.Destroy()
	delete(m.instances, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.publish(Event{Kind: EventRemoved, ComponentID: id})
	m.log.Debug("removed component", slog.String("id", id))
	return true
}

// Select makes id the only selected instance. An empty or unknown id clears
// the selection. It reports whether an instance is selected afterwards.
func (m *Manager) Select(id string) bool {
	if _, ok := m.instances[id]; !ok {
		id = ""
	}
	if id == m.selected {
		return id != ""
	}
	if prev, ok := m.instances[m.selected]; ok {
		prev.SetSelected(false)
	}
	m.selected = id
	if in, ok := m.instances[id]; ok {
		in.SetSelected(true)
	}
	m.publish(Event{Kind: EventSelected, ComponentID: id})
	return id != ""
}

// Selected returns the selected instance or nil.
func (m *Manager) Selected() *component.Instance {
	return m.instances[m.selected]
}

// SelectedID returns the selected id or "".
func (m *Manager) SelectedID() string { return m.selected }

// Clear removes every instance and the selection.
func (m *Manager) Clear() {
	m.Select("")
	m.drag = dragState{}
	for _, id := range m.order {
		if cancel := m.unobserve[id]; cancel != nil {
			cancel()
		}
		m.instances[id].Destroy()
	}
	m.instances = make(map[string]*component.Instance)
	m.unobserve = make(map[string]func())
	m.order = nil
	m.publish(Event{Kind: EventCleared})
}

// Load clears the canvas and recreates the snapshots in order. Snapshots
// whose type is unknown are skipped; their errors are joined.
func (m *Manager) Load(snaps []domain.ComponentSnapshot) error {
	m.Clear()
	var errs []error
	for _, s := range snaps {
		in, err := m.reg.Restore(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("component %s: %w", s.ID, err))
			continue
		}
		if err := m.Add(in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetOrigin sets the client-space position of the canvas' top-left corner.
func (m *Manager) SetOrigin(p domain.Point) { m.origin = p }

// ClientToCanvas converts a client point into canvas-local space.
func (m *Manager) ClientToCanvas(p domain.Point) domain.Point {
	return domain.Point{X: (p.X - m.origin.X) / m.zoom, Y: (p.Y - m.origin.Y) / m.zoom}
}

// SnapValue rounds v to the nearest grid multiple. Halves round away from
// zero, so -50 snaps to -60 on a 20px grid.
func SnapValue(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

func (m *Manager) snap(p domain.Point) domain.Point {
	if !m.opts.Snap {
		return p
	}
	return domain.Point{X: SnapValue(p.X, m.opts.GridSize), Y: SnapValue(p.Y, m.opts.GridSize)}
}

// Drop creates an instance of typ at the client point, adds and selects it.
func (m *Manager) Drop(typ string, client domain.Point) (*component.Instance, error) {
	pos := m.snap(m.ClientToCanvas(client))
	in, err := m.reg.Create(typ, component.Config{
		ID:       domain.NewID("comp", time.Now()),
		Position: &pos,
	})
	if err != nil {
		return nil, err
	}
	if err := m.Add(in); err != nil {
		return nil, err
	}
	m.Select(in.ID())
	m.log.Info("dropped component", slog.String("type", typ), slog.String("id", in.ID()),
		slog.Float64("x", pos.X), slog.Float64("y", pos.Y))
	return in, nil
}

// HitTest returns the topmost instance containing the canvas-local point.
func (m *Manager) HitTest(p domain.Point) *component.Instance {
	order := m.PaintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		in := order[i]
		pos, dims := in.Position(), in.Dimensions()
		w, h := dims.Width, dims.Height
		if w <= 0 {
			w = component.DefaultDimensions.Width
		}
		if h <= 0 {
			h = component.DefaultDimensions.Height
		}
		if p.X >= pos.X && p.X <= pos.X+w && p.Y >= pos.Y && p.Y <= pos.Y+h {
			return in
		}
	}
	return nil
}

// PointerDown starts a drag on the instance under the pointer and selects it.
// On empty canvas it clears the selection. It returns the hit id or "".
func (m *Manager) PointerDown(client domain.Point) string {
	local := m.ClientToCanvas(client)
	in := m.HitTest(local)
	if in == nil {
		m.drag = dragState{}
		m.Select("")
		return ""
	}
	pos := in.Position()
	m.drag = dragState{active: true, id: in.ID(), offset: domain.Point{X: local.X - pos.X, Y: local.Y - pos.Y}}
	in.SetDragging(true)
	m.Select(in.ID())
	return in.ID()
}

// PointerMove moves the dragged instance so the grab offset is preserved.
func (m *Manager) PointerMove(client domain.Point) bool {
	if !m.drag.active {
		return false
	}
	in, ok := m.instances[m.drag.id]
	if !ok {
		m.drag = dragState{}
		return false
	}
	local := m.ClientToCanvas(client)
	next := m.snap(domain.Point{X: local.X - m.drag.offset.X, Y: local.Y - m.drag.offset.Y})
	if next != in.Position() {
		in.MoveTo(next)
		m.drag.moved = true
	}
	return true
}

// PointerUp ends the gesture. It reports whether the instance moved.
func (m *Manager) PointerUp() bool {
	if !m.drag.active {
		return false
	}
	d := m.drag
	m.drag = dragState{}
	if in, ok := m.instances[d.id]; ok {
		in.SetDragging(false)
	}
	if d.moved {
		m.publish(Event{Kind: EventDragEnd, ComponentID: d.id})
	}
	return d.moved
}

// Dragging reports whether a drag gesture is in progress.
func (m *Manager) Dragging() bool { return m.drag.active }

// Nudge moves the selected instance by (dx, dy), snapped like a drag. A step
// smaller than half a grid cell leaves a snapped instance in place.
func (m *Manager) Nudge(dx, dy float64) bool {
	in := m.Selected()
	if in == nil {
		return false
	}
	cur := in.Position()
	next := m.snap(domain.Point{X: cur.X + dx, Y: cur.Y + dy})
	if next == cur {
		return false
	}
	in.MoveTo(next)
	return true
}

// Key applies a keyboard shortcut to the selection: arrows nudge by 1px (10px
// with shift), Delete/Backspace remove, Escape deselects.
func (m *Manager) Key(key string, shift bool) bool {
	if m.Selected() == nil {
		return false
	}
	step := 1.0
	if shift {
		step = 10
	}
	switch key {
	case "ArrowUp":
		return m.Nudge(0, -step)
	case "ArrowDown":
		return m.Nudge(0, step)
	case "ArrowLeft":
		return m.Nudge(-step, 0)
	case "ArrowRight":
		return m.Nudge(step, 0)
	case "Delete", "Backspace":
		return m.Remove(m.selected)
	case "Escape":
		m.Select("")
		return true
	}
	return false
}

// Duplicate copies the instance with a new id, offset by DuplicateOffset, and selects it.
func (m *Manager) Duplicate(id string) (*component.Instance, error) {
	in, ok := m.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.Paste(in.Serialize())
}

// Paste adds a copy of the snapshot with a fresh id, offset by DuplicateOffset, and selects it.
func (m *Manager) Paste(s domain.ComponentSnapshot) (*component.Instance, error) {
	s = s.Clone()
	s.ID = domain.NewID("comp", time.Now())
	s.Position.X += DuplicateOffset
	s.Position.Y += DuplicateOffset
	in, err := m.reg.Restore(s)
	if err != nil {
		return nil, err
	}
	if err := m.Add(in); err != nil {
		return nil, err
	}
	m.Select(in.ID())
	return in, nil
}

// BringToFront gives the instance a z-index above every other instance.
func (m *Manager) BringToFront(id string) bool {
	return m.restack(id, func(z, lo, hi int) int { return hi + 1 })
}

// SendToBack gives the instance a z-index below every other instance.
func (m *Manager) SendToBack(id string) bool {
	return m.restack(id, func(z, lo, hi int) int { return lo - 1 })
}

func (m *Manager) restack(id string, pick func(z, lo, hi int) int) bool {
	in, ok := m.instances[id]
	if !ok {
		return false
	}
	lo, hi := 0, 0
	for oid, o := range m.instances {
		if oid == id {
			continue
		}
		z := effectiveZ(o)
		lo, hi = min(lo, z), max(hi, z)
	}
	z := pick(effectiveZ(in), lo, hi)
	in.SetZIndex(&z)
	m.publish(Event{Kind: EventRestacked, ComponentID: id, Value: z})
	return true
}

// Zoom returns the current zoom factor.
func (m *Manager) Zoom() float64 { return m.zoom }

// SetZoom sets the zoom factor clamped to [MinZoom, MaxZoom].
func (m *Manager) SetZoom(z float64) float64 {
	m.zoom = math.Min(MaxZoom, math.Max(MinZoom, z))
	m.publish(Event{Kind: EventZoomed, Value: m.zoom})
	return m.zoom
}

// ZoomIn multiplies the zoom by ZoomFactor.
func (m *Manager) ZoomIn() float64 { return m.SetZoom(m.zoom * ZoomFactor) }

// ZoomOut divides the zoom by ZoomFactor.
func (m *Manager) ZoomOut() float64 { return m.SetZoom(m.zoom / ZoomFactor) }

// Options returns the grid settings.
func (m *Manager) Options() Options { return m.opts }

// SetSnap turns grid snapping on or off.
func (m *Manager) SetSnap(on bool) { m.opts.Snap = on }

// ToggleSnap flips snapping and returns the new state.
func (m *Manager) ToggleSnap() bool {
	m.opts.Snap = !m.opts.Snap
	return m.opts.Snap
}

// ToggleGrid flips grid visibility and returns the new state.
func (m *Manager) ToggleGrid() bool {
	m.opts.ShowGrid = !m.opts.ShowGrid
	return m.opts.ShowGrid
}
