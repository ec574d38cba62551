/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

// Request describes one export to disk.
//
// Path semantics:
//   - Out naming a directory (or empty) receives <project name>.<format>.
//   - Any other Out is used as the file path; the extension is not enforced.
type Request struct {
	Format   string
	Out      string
	Doc      domain.Document
	Items    []Item
	Capturer Capturer
	PNGScale float64
	Now      time.Time
}

// ToFile renders r to disk and returns the written path. Output is staged in
// memory and replaced atomically, so a failed export leaves no partial file.
func ToFile(ctx context.Context, r Request) (string, error) {
	format := strings.ToLower(strings.TrimSpace(r.Format))
	if r.Now.IsZero() {
		r.Now = time.Now()
	}
	log := applog.WithOperation(applog.WithComponent("export"), "to_file")
	if r.Doc.ID != "" && applog.ProjectFromContext(ctx) == "" {
		ctx = applog.ContextWithProject(ctx, r.Doc.ID)
	}

	var buf bytes.Buffer
	switch format {
	case FormatHTML:
		if err := HTML(&buf, r.Doc, r.Items); err != nil {
			return "", err
		}
	case FormatJSON:
		if err := JSON(&buf, r.Doc, Snapshots(r.Items), r.Now); err != nil {
			return "", err
		}
	case FormatZIP:
		if err := Bundle(ctx, &buf, r.Doc, r.Items, r.Capturer, r.Now); err != nil {
			return "", err
		}
	case FormatPNG:
		if err := Validate(r.Doc); err != nil {
			return "", err
		}
		fallback, err := PNG(ctx, &buf, SceneOf(r.Doc, r.Items), r.Capturer, r.PNGScale)
		if err != nil {
			return "", err
		}
		if fallback {
			log.InfoContext(ctx, "png written with approximate redraw")
		}
	case FormatPDF:
		if err := Validate(r.Doc); err != nil {
			return "", err
		}
		if err := PDF(ctx, &buf, []Scene{SceneOf(r.Doc, r.Items)}, r.Capturer); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, r.Format)
	}

	path := r.Out
	if path == "" {
		path = "."
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, FileName(r.Doc, format))
	}
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	log.InfoContext(ctx, "exported", slog.String("format", format), slog.String("path", path), slog.Int("bytes", buf.Len()))
	return path, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
