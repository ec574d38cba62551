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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"spookybuilder/internal/component"
	"spookybuilder/internal/component/builtin"
	"spookybuilder/internal/crash"
	"spookybuilder/internal/editor"
	"spookybuilder/internal/export"
	applog "spookybuilder/internal/log"
	"spookybuilder/internal/version"
)

// arrowKeys maps fyne key names to the editor's key names.
var arrowKeys = map[fyne.KeyName]string{
	fyne.KeyUp:     "ArrowUp",
	fyne.KeyDown:   "ArrowDown",
	fyne.KeyLeft:   "ArrowLeft",
	fyne.KeyRight:  "ArrowRight",
	fyne.KeyEscape: "Escape",
}

// Run starts the Fyne desktop builder on ed and blocks until the window closes.
// Crash reports are written to dataDir.
func Run(ed *editor.Editor, dataDir string) error {
	if ed == nil {
		return errors.New("ui: no editor")
	}
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	defer crash.Recover(ed, dataDir)

	fyneApp := app.NewWithID("spookybuilder")
	w := fyneApp.NewWindow("Spooky Web Builder")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1280)
	winH := prefs.IntWithFallback("window.height", 820)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	bc := NewBuilderCanvas(ed)

	updateTitle := func() {
		doc, ok := ed.Current()
		if !ok {
			w.SetTitle("Spooky Web Builder")
			return
		}
		mark := ""
		if ed.Modified() {
			mark = " *"
		}
		w.SetTitle(fmt.Sprintf("Spooky Web Builder - %s%s", doc.Name, mark))
	}

	var props *propertiesForm
	refresh := func(msg string) {
		if msg != "" {
			status.SetText(msg)
		}
		props.Sync()
		bc.Refresh()
		updateTitle()
	}
	props = newPropertiesForm(ed, func(property string) {
		bc.Refresh()
		updateTitle()
		status.SetText("Updated " + property)
	})
	bc.OnChange = func(msg string) {
		props.Sync()
		updateTitle()
		status.SetText(msg)
	}

	// ---- palette ----
	var paletteTypes []component.Variant
	for _, v := range ed.Types() {
		if !builtin.IsTemplate(v.Type()) {
			paletteTypes = append(paletteTypes, v)
		}
	}
	palette := widget.NewList(
		func() int { return len(paletteTypes) },
		func() fyne.CanvasObject { return widget.NewLabel("component type") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			v := paletteTypes[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  (%s)", v.Label(), v.Category()))
		},
	)
	palette.OnSelected = func(i widget.ListItemID) {
		v := paletteTypes[i]
		bc.Arm(v.Type())
		status.SetText(fmt.Sprintf("Click the canvas to place %s", v.Label()))
		palette.UnselectAll()
	}

	// ---- actions ----
	ctx := context.Background()

	saveProject := func() {
		doc, err := ed.Save(ctx)
		if err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		refresh(fmt.Sprintf("Saved %s at %s", doc.Name, doc.Modified.Format(time.Kitchen)))
	}

	confirmDiscard := func(title string, next func()) {
		if !ed.Modified() {
			next()
			return
		}
		dialog.ShowConfirm(title, "Discard unsaved changes to the current project?", func(ok bool) {
			if ok {
				next()
			}
		}, w)
	}

	newProject := func() {
		confirmDiscard("New Project", func() {
			name := widget.NewEntry()
			name.SetPlaceHolder("Untitled Spooky Site")
			dialog.ShowForm("New Project", "Create", "Cancel", []*widget.FormItem{widget.NewFormItem("Name", name)}, func(ok bool) {
				if !ok {
					return
				}
				doc := ed.NewProject(strings.TrimSpace(name.Text))
				refresh("Created " + doc.Name)
			}, w)
		})
	}

	openProject := func() {
		list := ed.Projects()
		if len(list) == 0 {
			dialog.ShowInformation("Open Project", "No saved projects yet.", w)
			return
		}
		labels := make([]string, len(list))
		ids := make(map[string]string, len(list))
		for i, p := range list {
			labels[i] = fmt.Sprintf("%s  [%d components, %s]", p.Name, p.ComponentCount, p.LastModified.Format("2006-01-02 15:04"))
			ids[labels[i]] = p.ID
		}
		sel := widget.NewSelect(labels, nil)
		sel.SetSelectedIndex(0)
		dialog.ShowCustomConfirm("Open Project", "Open", "Cancel", sel, func(ok bool) {
			if !ok || sel.Selected == "" {
				return
			}
			confirmDiscard("Open Project", func() {
				doc, err := ed.Open(ids[sel.Selected])
				if err != nil {
					dialog.ShowError(err, w)
					return
				}
				refresh("Opened " + doc.Name)
			})
		}, w)
	}

	deleteProject := func() {
		doc, ok := ed.Current()
		if !ok {
			return
		}
		dialog.ShowConfirm("Delete Project", fmt.Sprintf("Delete %q permanently?", doc.Name), func(yes bool) {
			if !yes {
				return
			}
			if err := ed.DeleteProject(ctx, doc.ID); err != nil {
				dialog.ShowError(err, w)
				return
			}
			refresh("Deleted " + doc.Name)
		}, w)
	}

	exportProject := func() {
		doc, ok := ed.Current()
		if !ok {
			return
		}
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			format := strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
			if format == "" {
				format = export.FormatHTML
				outPath += ".html"
			}
			path, err := ed.Export(ctx, format, outPath)
			if err != nil {
				l.Error("export failed", slog.String("format", format), slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			refresh("Exported to " + path)
		}, w)
		save.SetFileName(export.FileName(doc, export.FormatHTML))
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{".html", ".json", ".zip", ".png", ".pdf"}))
		save.Show()
	}

	loadTemplate := func(typ string) {
		confirmDiscard("Load Template", func() {
			doc, err := ed.LoadTemplate(typ)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			refresh("Loaded template " + doc.Name)
		})
	}

	setBackground := func() {
		doc, _ := ed.Current()
		entry := widget.NewEntry()
		entry.SetText(doc.Settings.BackgroundColor)
		dialog.ShowForm("Canvas Background", "Apply", "Cancel", []*widget.FormItem{widget.NewFormItem("Colour", entry)}, func(ok bool) {
			if !ok {
				return
			}
			if err := ed.SetBackground(strings.TrimSpace(entry.Text)); err != nil {
				dialog.ShowError(err, w)
				return
			}
			refresh("Background set")
		}, w)
	}

	undoAction := func() {
		if ed.Undo() {
			refresh("Undo")
		}
	}
	redoAction := func() {
		if ed.Redo() {
			refresh("Redo")
		}
	}
	copyAction := func() {
		if err := ed.Copy(ctx); err != nil {
			status.SetText("Nothing to copy")
			return
		}
		status.SetText("Copied " + ed.SelectedID())
	}
	pasteAction := func() {
		id, err := ed.Paste(ctx)
		if err != nil {
			status.SetText("Clipboard holds no component")
			return
		}
		refresh("Pasted " + id)
	}
	duplicateAction := func() {
		id, err := ed.Duplicate(ed.SelectedID())
		if err != nil {
			return
		}
		refresh("Duplicated as " + id)
	}
	deleteAction := func() {
		if ed.DeleteSelected() {
			refresh("Deleted component")
		}
	}
	zoomIn := func() { refresh(fmt.Sprintf("Zoom %.0f%%", ed.ZoomIn()*100)) }
	zoomOut := func() { refresh(fmt.Sprintf("Zoom %.0f%%", ed.ZoomOut()*100)) }

	opts := ed.CanvasOptions()
	snapCheck := widget.NewCheck("Snap", nil)
	snapCheck.SetChecked(opts.Snap)
	snapCheck.OnChanged = func(on bool) {
		if ed.CanvasOptions().Snap != on {
			ed.ToggleSnap()
		}
		refresh(fmt.Sprintf("Snap to grid: %v", on))
	}
	gridCheck := widget.NewCheck("Grid", nil)
	gridCheck.SetChecked(opts.ShowGrid)
	gridCheck.OnChanged = func(on bool) {
		if ed.CanvasOptions().ShowGrid != on {
			ed.ToggleGrid()
		}
		refresh("")
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), newProject),
		widget.NewToolbarAction(theme.FolderOpenIcon(), openProject),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), saveProject),
		widget.NewToolbarAction(theme.UploadIcon(), exportProject),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), undoAction),
		widget.NewToolbarAction(theme.ContentRedoIcon(), redoAction),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentCopyIcon(), duplicateAction),
		widget.NewToolbarAction(theme.DeleteIcon(), deleteAction),
		widget.NewToolbarAction(theme.MoveUpIcon(), func() {
			if ed.BringToFront(ed.SelectedID()) {
				refresh("Brought to front")
			}
		}),
		widget.NewToolbarAction(theme.MoveDownIcon(), func() {
			if ed.SendToBack(ed.SelectedID()) {
				refresh("Sent to back")
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), zoomOut),
		widget.NewToolbarAction(theme.ZoomInIcon(), zoomIn),
	)

	// ---- layout ----
	left := container.NewBorder(widget.NewLabelWithStyle("Components", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil, palette)
	right := container.NewBorder(widget.NewLabelWithStyle("Properties", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil,
		container.NewVScroll(props.box))
	top := container.NewBorder(nil, nil, nil, container.NewHBox(snapCheck, gridCheck), toolbar)
	center := container.NewScroll(bc)
	split := container.NewHSplit(left, container.NewHSplit(center, right))
	split.Offset = 0.18
	w.SetContent(container.NewBorder(top, status, nil, nil, split))

	// ---- menus ----
	newItem := fyne.NewMenuItem("New Project…", newProject)
	openItem := fyne.NewMenuItem("Open Project…", openProject)
	saveItem := fyne.NewMenuItem("Save", saveProject)
	exportItem := fyne.NewMenuItem("Export…", exportProject)
	deleteProjItem := fyne.NewMenuItem("Delete Project…", deleteProject)
	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierControl}
	openItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	exportItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: fyne.KeyModifierControl}
	fileMenu := fyne.NewMenu("File", newItem, openItem, saveItem, fyne.NewMenuItemSeparator(), exportItem, fyne.NewMenuItemSeparator(), deleteProjItem)

	undoItem := fyne.NewMenuItem("Undo", undoAction)
	redoItem := fyne.NewMenuItem("Redo", redoAction)
	copyItem := fyne.NewMenuItem("Copy Component", copyAction)
	pasteItem := fyne.NewMenuItem("Paste Component", pasteAction)
	dupItem := fyne.NewMenuItem("Duplicate", duplicateAction)
	delItem := fyne.NewMenuItem("Delete Component", deleteAction)
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	dupItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierControl}
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), copyItem, pasteItem, dupItem, delItem)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", zoomIn),
		fyne.NewMenuItem("Zoom Out", zoomOut),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Canvas Background…", setBackground),
	)

	var templateItems []*fyne.MenuItem
	for _, v := range ed.Types() {
		if typ := v.Type(); builtin.IsTemplate(typ) {
			templateItems = append(templateItems, fyne.NewMenuItem(builtin.TemplateProjectName(typ), func() { loadTemplate(typ) }))
		}
	}
	templateMenu := fyne.NewMenu("Templates", templateItems...)

	aboutItem := fyne.NewMenuItem("About Spooky Web Builder", func() {
		exe, _ := os.Executable()
		info := fmt.Sprintf("Spooky Web Builder\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, templateMenu, fyne.NewMenu("About", aboutItem)))

	// Clipboard shortcuts are registered on the canvas so text entries keep theirs.
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}, func(fyne.Shortcut) { copyAction() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyV, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift}, func(fyne.Shortcut) { pasteAction() })
	for key, name := range arrowKeys {
		if name == "Escape" {
			continue
		}
		w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierShift}, func(fyne.Shortcut) {
			if ed.Key(name, true) {
				refresh("")
			}
		})
	}
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			deleteAction()
			return
		}
		if name, ok := arrowKeys[ev.Name]; ok {
			if name == "Escape" && bc.Armed() != "" {
				bc.Arm("")
				status.SetText("Placement cancelled")
				return
			}
			if ed.Key(name, false) {
				refresh("")
			}
		}
	})

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		if err := ed.Close(ctx); err != nil {
			l.Error("close editor", slog.Any("err", err))
		}
		w.Close()
	})

	refresh("")
	w.ShowAndRun()
	return nil
}
