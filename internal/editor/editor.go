/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the application root. An Editor owns the component
// registry, the canvas, the properties binder, the project store and the
// auto-saver of one session, and serialises every operation on them.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spookybuilder/internal/canvas"
	"spookybuilder/internal/clipboard"
	"spookybuilder/internal/component"
	"spookybuilder/internal/component/builtin"
	"spookybuilder/internal/domain"
	"spookybuilder/internal/export"
	applog "spookybuilder/internal/log"
	"spookybuilder/internal/panel"
	"spookybuilder/internal/storage"
	"spookybuilder/internal/undo"
)

// ErrNotTemplate is returned by LoadTemplate for non-template types.
var ErrNotTemplate = errors.New("not a template type")

// Options configure an editor.
type Options struct {
	Canvas        canvas.Options
	AutoSave      bool
	AutoSaveDelay time.Duration
	// UndoInterval coalesces edits closer together than the interval into
	// one undo step. Zero uses 500ms.
	UndoInterval time.Duration
	Clipboard    clipboard.System
	Capturer     export.Capturer
	PNGScale     float64
	// Theme names the theme of new projects. Empty uses the default.
	Theme string
	Now   func() time.Time
}

// DefaultOptions returns the options used by the CLI and desktop shell.
func DefaultOptions() Options {
	return Options{
		Canvas:        canvas.DefaultOptions(),
		AutoSave:      true,
		AutoSaveDelay: storage.DefaultAutoSaveDelay,
		Capturer:      export.NewGGCapturer(),
		PNGScale:      export.DefaultPNGScale,
	}
}

// Editor is one editing session.
type Editor struct {
	mu  sync.Mutex
	log *slog.Logger

	kv       storage.KV
	reg      *component.Registry
	canvas   *canvas.Manager
	binder   *panel.Binder
	store    *storage.ProjectStore
	autosave *storage.AutoSaver
	history  *undo.Manager
	clip     *clipboard.Clipboard
	capturer export.Capturer
	pngScale float64
	now      func() time.Time

	// restoring suppresses modification tracking while the canvas is rebuilt.
	restoring bool
	modified  bool
	// committed is the encoded canvas state after the last tracked change.
	committed []byte
	unsub     func()
}

// New opens the project store on kv and starts an empty, unsaved project.
func New(ctx context.Context, kv storage.KV, opts Options) (*Editor, error) {
	if kv == nil {
		return nil, errors.New("editor: nil storage")
	}
	store, err := storage.OpenProjects(ctx, kv)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UndoInterval == 0 {
		opts.UndoInterval = 500 * time.Millisecond
	}
	store.SetClock(opts.Now)
	store.SetTheme(opts.Theme)
	reg := builtin.NewRegistry()
	e := &Editor{
		log:      applog.WithComponent("editor"),
		kv:       kv,
		reg:      reg,
		canvas:   canvas.NewManager(reg, opts.Canvas),
		binder:   panel.New(nil),
		store:    store,
		history:  undo.NewManager(undo.Config{MinInterval: opts.UndoInterval}),
		clip:     clipboard.New(kv, opts.Clipboard),
		capturer: opts.Capturer,
		pngScale: opts.PNGScale,
		now:      opts.Now,
	}
	if opts.AutoSave {
		e.autosave = storage.NewAutoSaver(opts.AutoSaveDelay, e.autoSave)
	}
	e.unsub = e.canvas.Subscribe(e.onCanvasEvent)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.CreateNew("")
	e.resetLocked()
	return e, nil
}

// Close stops auto-save and saves pending modifications.
func (e *Editor) Close(ctx context.Context) error {
	if e.autosave != nil {
		e.autosave.Stop()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.binder.Detach()
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	if !e.modified || e.store.CurrentID() == "" {
		return nil
	}
	_, err := e.saveLocked(ctx)
	return err
}

func (e *Editor) autoSave(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.modified || e.store.CurrentID() == "" {
		return nil
	}
	_, err := e.saveLocked(ctx)
	return err
}

// onCanvasEvent runs synchronously inside canvas operations, so e.mu is
// already held by the caller.
func (e *Editor) onCanvasEvent(ev canvas.Event) {
	if e.restoring || !ev.Kind.Modifies() {
		return
	}
	e.markModifiedLocked(true)
}

func (e *Editor) markModifiedLocked(track bool) {
	if track {
		if key := e.store.CurrentID(); key != "" {
			e.history.Push(undo.Snapshot{Key: key, Blob: e.committed, TS: e.now()})
		}
		e.committed = e.encodeLocked()
	}
	e.modified = true
	if e.autosave != nil {
		e.autosave.Touch()
	}
}

func (e *Editor) encodeLocked() []byte {
	data, err := json.Marshal(e.canvas.Snapshots())
	if err != nil {
		e.log.Error("encode canvas state failed", slog.Any("err", err))
		return nil
	}
	return data
}

// resetLocked records the current canvas as the clean, committed state.
func (e *Editor) resetLocked() {
	e.committed = e.encodeLocked()
	e.modified = false
}

// restoreLocked rebuilds the canvas from snaps without tracking changes.
func (e *Editor) restoreLocked(snaps []domain.ComponentSnapshot) {
	e.restoring = true
	defer func() { e.restoring = false }()
	if err := e.canvas.Load(snaps); err != nil {
		e.log.Warn("some components were skipped", slog.Any("err", err))
	}
}

// Modified reports whether there are unsaved changes.
func (e *Editor) Modified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modified
}

// Current returns the current document with the live components.
func (e *Editor) Current() (domain.Document, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLocked()
}

func (e *Editor) currentLocked() (domain.Document, bool) {
	doc, ok := e.store.Current()
	if !ok {
		return domain.Document{}, false
	}
	doc.Components = e.canvas.Snapshots()
	return doc, true
}

// Types returns the registered component types in palette order.
func (e *Editor) Types() []component.Variant { return e.reg.Variants() }

// ---- projects ----

// NewProject starts an empty unsaved project. An empty name uses the default.
func (e *Editor) NewProject(name string) domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := e.store.CreateNew(name)
	e.restoreLocked(nil)
	e.resetLocked()
	return doc
}

// LoadTemplate starts a project named after the template, holding one
// instance of it at the canvas origin.
func (e *Editor) LoadTemplate(typ string) (domain.Document, error) {
	if !builtin.IsTemplate(typ) {
		return domain.Document{}, fmt.Errorf("%w: %q", ErrNotTemplate, typ)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	in, err := e.reg.Create(typ, component.Config{Position: &domain.Point{}})
	if err != nil {
		return domain.Document{}, err
	}
	doc := e.store.CreateNew(builtin.TemplateProjectName(typ))
	e.restoreLocked(nil)
	e.restoring = true
	err = e.canvas.Add(in)
	e.restoring = false
	if err != nil {
		return domain.Document{}, err
	}
	e.resetLocked()
	e.markModifiedLocked(false)
	e.log.Info("template loaded", slog.String("template", typ), slog.String("project", doc.ID))
	doc.Components = e.canvas.Snapshots()
	return doc, nil
}

// Open makes the project current and rebuilds its components in order.
// Components of unknown type are skipped.
func (e *Editor) Open(id string) (domain.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, err := e.store.Load(id)
	if err != nil {
		return domain.Document{}, err
	}
	e.restoreLocked(doc.Components)
	e.history.Clear(id)
	e.resetLocked()
	e.log.Info("project opened", slog.String("project", id), slog.Int("components", e.canvas.Len()))
	return doc, nil
}

// Save persists the current project with the live components.
func (e *Editor) Save(ctx context.Context) (domain.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(ctx)
}

func (e *Editor) saveLocked(ctx context.Context) (domain.Document, error) {
	ctx = applog.ContextWithProject(ctx, e.store.CurrentID())
	doc, err := e.store.Save(ctx, e.canvas.Snapshots())
	if err != nil {
		return domain.Document{}, fmt.Errorf("save project: %w", err)
	}
	e.modified = false
	return doc, nil
}

// ProjectSummary is one entry of the project list.
type ProjectSummary struct {
	ID string
	export.Preview
}

// Projects lists saved projects, most recently modified first.
func (e *Editor) Projects() []ProjectSummary {
	docs := e.store.List()
	out := make([]ProjectSummary, 0, len(docs))
	for _, d := range docs {
		types := make([]string, 0, len(d.Components))
		for _, c := range d.Components {
			types = append(types, c.Type)
		}
		out = append(out, ProjectSummary{ID: d.ID, Preview: export.PreviewOf(d, types)})
	}
	return out
}

// DeleteProject removes a saved project. Deleting the open project leaves an
// empty new project open.
func (e *Editor) DeleteProject(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.history.Clear(id)
	if e.store.CurrentID() == "" {
		e.store.CreateNew("")
		e.restoreLocked(nil)
		e.resetLocked()
	}
	return nil
}

// DuplicateProject copies a saved project.
func (e *Editor) DuplicateProject(ctx context.Context, id string) (domain.Document, error) {
	return e.store.Duplicate(ctx, id)
}

// RenameProject renames a saved project.
func (e *Editor) RenameProject(ctx context.Context, id, name string) error {
	return e.store.Rename(ctx, id, name)
}

// SetBackground changes the page background of the current project.
func (e *Editor) SetBackground(color string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.store.Current()
	if !ok {
		return storage.ErrNoCurrentProject
	}
	doc.Settings.BackgroundColor = color
	if err := e.store.UpdateSettings(doc.Settings); err != nil {
		return err
	}
	e.markModifiedLocked(false)
	return nil
}

// Preferences returns the stored user preferences.
func (e *Editor) Preferences(ctx context.Context) domain.Preferences {
	return storage.LoadPreferences(ctx, e.kv)
}

// SavePreferences stores the user preferences.
func (e *Editor) SavePreferences(ctx context.Context, p domain.Preferences) error {
	return storage.SavePreferences(ctx, e.kv, p)
}

// ---- undo ----

// Undo reverts the last tracked change of the current project.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, ok := e.history.Undo(e.store.CurrentID(), e.committed)
	if !ok {
		return false
	}
	return e.applyHistoryLocked(snap.Blob)
}

// Redo re-applies the last undone change.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, ok := e.history.Redo(e.store.CurrentID(), e.committed)
	if !ok {
		return false
	}
	return e.applyHistoryLocked(snap.Blob)
}

func (e *Editor) applyHistoryLocked(blob []byte) bool {
	var snaps []domain.ComponentSnapshot
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &snaps); err != nil {
			e.log.Error("decode history state failed", slog.Any("err", err))
			return false
		}
	}
	e.restoreLocked(snaps)
	e.committed = blob
	e.markModifiedLocked(false)
	return true
}

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo(e.store.CurrentID())
}

// CanRedo reports whether Redo would change anything.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo(e.store.CurrentID())
}

// ---- clipboard ----

// Copy puts the selected component on the clipboard.
func (e *Editor) Copy(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	in := e.canvas.Selected()
	if in == nil {
		return canvas.ErrNotFound
	}
	return e.clip.Copy(ctx, in.Serialize())
}

// Paste adds the clipboard component, offset and selected, and returns its id.
func (e *Editor) Paste(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.clip.Paste(ctx)
	if err != nil {
		return "", err
	}
	in, err := e.canvas.Paste(s)
	if err != nil {
		return "", err
	}
	return in.ID(), nil
}

// ---- export ----

func items(ins []*component.Instance) []export.Item {
	out := make([]export.Item, len(ins))
	for i, in := range ins {
		out[i] = in
	}
	return out
}

// Export writes the current project in format to out and returns the path.
func (e *Editor) Export(ctx context.Context, format, out string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.currentLocked()
	if !ok {
		return "", storage.ErrNoCurrentProject
	}
	ctx = applog.ContextWithProject(ctx, doc.ID)
	return export.ToFile(ctx, export.Request{
		Format:   format,
		Out:      out,
		Doc:      doc,
		Items:    items(e.canvas.Instances()),
		Capturer: e.capturer,
		PNGScale: e.pngScale,
		Now:      e.now(),
	})
}

// ExportBook writes the saved projects ids as pages of one PDF at out.
func (e *Editor) ExportBook(ctx context.Context, ids []string, out string) ([]string, error) {
	scenes := make([]export.Scene, 0, len(ids))
	for _, id := range ids {
		doc, ok := e.store.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", storage.ErrProjectNotFound, id)
		}
		var ins []*component.Instance
		for _, s := range doc.Components {
			in, err := e.reg.Restore(s)
			if err != nil {
				continue
			}
			ins = append(ins, in)
		}
		scenes = append(scenes, export.SceneOf(doc, items(ins)))
	}
	return export.Book(ctx, out, scenes, e.capturer)
}

// Scene returns the paint-ordered view of the canvas for drawing.
func (e *Editor) Scene() (export.Scene, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, _ := e.store.Current()
	return export.SceneOf(doc, items(e.canvas.Instances())), e.canvas.SelectedID()
}

// ---- recovery ----

// WriteRecovery stores the current project with its live components under
// the recovery key. It gives up when another operation holds the editor.
func (e *Editor) WriteRecovery(ctx context.Context) error {
	if !e.mu.TryLock() {
		return errors.New("editor busy")
	}
	defer e.mu.Unlock()
	doc, ok := e.currentLocked()
	if !ok {
		return storage.ErrNoCurrentProject
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode recovery: %w", err)
	}
	return e.kv.Set(ctx, storage.KeyRecovery, data)
}

// RestoreRecovery moves a recovery snapshot left by a crash into the project
// list and reports whether there was one.
func (e *Editor) RestoreRecovery(ctx context.Context) (domain.Document, bool, error) {
	data, err := e.kv.Get(ctx, storage.KeyRecovery)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, err
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		e.log.Warn("dropping malformed recovery snapshot", slog.Any("err", err))
		return domain.Document{}, false, e.kv.Delete(ctx, storage.KeyRecovery)
	}
	if err := e.store.Put(ctx, doc); err != nil {
		return domain.Document{}, false, err
	}
	e.log.Info("recovered project", slog.String("project", doc.ID))
	return doc, true, e.kv.Delete(ctx, storage.KeyRecovery)
}
