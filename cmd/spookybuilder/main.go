/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"spookybuilder/internal/canvas"
	"spookybuilder/internal/clipboard"
	"spookybuilder/internal/component/builtin"
	"spookybuilder/internal/config"
	"spookybuilder/internal/crash"
	"spookybuilder/internal/domain"
	"spookybuilder/internal/editor"
	applog "spookybuilder/internal/log"
	"spookybuilder/internal/storage"
	"spookybuilder/internal/ui"
	"spookybuilder/internal/version"
)

// errUsage asks main to print the usage text.
var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintln(w, "Spooky Web Builder")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  spookybuilder version|-v|--version                    Show version")
	fmt.Fprintln(w, "  spookybuilder types                                   List component types")
	fmt.Fprintln(w, "  spookybuilder new <name> [template]                   Create and save a project")
	fmt.Fprintln(w, "  spookybuilder list                                    List saved projects")
	fmt.Fprintln(w, "  spookybuilder show <id>                               Print a project's components")
	fmt.Fprintln(w, "  spookybuilder add <id> <type> <x> <y>                 Add a component")
	fmt.Fprintln(w, "  spookybuilder set <id> <component> <property> <value> Set a component property")
	fmt.Fprintln(w, "  spookybuilder rm <id> <component>                     Remove a component")
	fmt.Fprintln(w, "  spookybuilder export <id> <html|json|png|pdf|zip> [out]")
	fmt.Fprintln(w, "                                                        Export a project")
	fmt.Fprintln(w, "  spookybuilder ui                                      Launch desktop UI (build with -tags fyne)")
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, errUsage) {
		usage(os.Stdout)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// need fails with errUsage unless args has at least n entries.
func need(args []string, n int, what string) error {
	if len(args) < n {
		return fmt.Errorf("%s: %w", what, errUsage)
	}
	return nil
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(out, "Spooky Web Builder")
		fmt.Fprintln(out, version.String())
		return nil
	case "help", "-h", "--help":
		usage(out)
		return nil
	}

	cfg, err := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", err))
	}
	dataDir, err := cfg.DataDir()
	if err != nil {
		return err
	}
	kv, err := storage.OpenKV(cfg.Storage.Backend, dataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			l.Error("close storage", slog.Any("err", err))
		}
	}()

	interactive := args[0] == "ui"
	opts := editor.DefaultOptions()
	opts.Canvas = canvas.Options{GridSize: float64(cfg.Canvas.GridSize), Snap: cfg.Canvas.Snap, ShowGrid: cfg.Canvas.ShowGrid}
	opts.AutoSave = interactive && cfg.AutoSave.Enabled
	opts.AutoSaveDelay = cfg.AutoSave.AutoSaveDelay()
	opts.PNGScale = cfg.Export.PNGScale
	opts.Theme = cfg.General.Theme
	if interactive {
		opts.Clipboard = clipboard.OS()
	}

	ctx := context.Background()
	ed, err := editor.New(ctx, kv, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := ed.Close(ctx); err != nil {
			l.Error("close editor", slog.Any("err", err))
		}
	}()
	defer crash.Recover(ed, dataDir)

	if doc, ok, err := ed.RestoreRecovery(ctx); err != nil {
		l.Warn("recovery restore failed", slog.Any("err", err))
	} else if ok {
		fmt.Fprintf(out, "Recovered unsaved project %q (%s) from a previous crash.\n", doc.Name, doc.ID)
	}

	l.Debug("command", slog.String("cmd", args[0]), slog.Int("args", len(args)-1))
	return dispatch(ctx, ed, cfg, dataDir, args, out)
}

func dispatch(ctx context.Context, ed *editor.Editor, cfg config.AppConfig, dataDir string, args []string, out io.Writer) error {
	switch args[0] {
	case "types":
		for _, v := range ed.Types() {
			kind := v.Category()
			if builtin.IsTemplate(v.Type()) {
				kind += ", template"
			}
			fmt.Fprintf(out, "%-22s %-26s %s\n", v.Type(), v.Label(), kind)
		}
		return nil

	case "new":
		if err := need(args, 2, "new requires <name>"); err != nil {
			return err
		}
		name := args[1]
		if len(args) > 2 {
			if _, err := ed.LoadTemplate(args[2]); err != nil {
				return err
			}
		} else {
			ed.NewProject(name)
		}
		doc, err := ed.Save(ctx)
		if err != nil {
			return err
		}
		if doc.Name != name {
			if err := ed.RenameProject(ctx, doc.ID, name); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Created project %q (%s) with %d components\n", name, doc.ID, len(doc.Components))
		return nil

	case "list":
		for _, p := range ed.Projects() {
			fmt.Fprintf(out, "%s  %-28q %3d components  %s  %s\n", p.ID, p.Name, p.ComponentCount,
				p.LastModified.Format("2006-01-02 15:04"), p.Thumbnail)
		}
		return nil

	case "show":
		if err := need(args, 2, "show requires <id>"); err != nil {
			return err
		}
		doc, err := ed.Open(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Project: %s (%s)\n", doc.Name, doc.ID)
		fmt.Fprintf(out, "Modified: %s\n", doc.Modified.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Background: %s\n", doc.Settings.BackgroundColor)
		scene, _ := ed.Scene()
		for _, b := range scene.Boxes {
			fmt.Fprintf(out, "  %s  %-18s at (%g,%g) size %gx%g  %q\n", b.ID, b.Type,
				b.Position.X, b.Position.Y, b.Dimensions.Width, b.Dimensions.Height, b.Label())
		}
		return nil

	case "add":
		if err := need(args, 5, "add requires <id> <type> <x> <y>"); err != nil {
			return err
		}
		x, errX := strconv.ParseFloat(args[3], 64)
		y, errY := strconv.ParseFloat(args[4], 64)
		if err := errors.Join(errX, errY); err != nil {
			return fmt.Errorf("position: %w", err)
		}
		if _, err := ed.Open(args[1]); err != nil {
			return err
		}
		id, err := ed.AddComponent(args[2], domain.Point{X: x, Y: y})
		if err != nil {
			return err
		}
		if _, err := ed.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, id)
		return nil

	case "set":
		if err := need(args, 5, "set requires <id> <component> <property> <value>"); err != nil {
			return err
		}
		if _, err := ed.Open(args[1]); err != nil {
			return err
		}
		changed, err := ed.SetProperty(args[2], args[3], strings.Join(args[4:], " "))
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(out, "unchanged")
			return nil
		}
		if _, err := ed.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s.%s updated\n", args[2], args[3])
		return nil

	case "rm":
		if err := need(args, 3, "rm requires <id> <component>"); err != nil {
			return err
		}
		if _, err := ed.Open(args[1]); err != nil {
			return err
		}
		if err := ed.RemoveComponent(args[2]); err != nil {
			return err
		}
		if _, err := ed.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "removed %s\n", args[2])
		return nil

	case "export":
		if err := need(args, 3, "export requires <id> <format>"); err != nil {
			return err
		}
		if _, err := ed.Open(args[1]); err != nil {
			return err
		}
		dest := cfg.Export.OutDir
		if len(args) > 3 {
			dest = args[3]
		}
		path, err := ed.Export(ctx, args[2], dest)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "Exported to", path)
		return nil

	case "ui":
		return ui.Run(ed, dataDir)
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}
