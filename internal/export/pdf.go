/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	applog "spookybuilder/internal/log"
)

// A4 page geometry in millimetres.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	pageMarginMM = 10.0
	footerMM     = 12.0
)

// ErrNoPages is returned when a PDF would have no pages.
var ErrNoPages = errors.New("no pages to export")

// PDF writes one A4 portrait page per scene, each bitmap scaled to fit the
// printable area and centred, with a "Page N" footer.
func PDF(ctx context.Context, w io.Writer, scenes []Scene, c Capturer) error {
	if len(scenes) == 0 {
		return ErrNoPages
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAuthor("Spooky Web Builder", false)
	pdf.SetTitle(scenes[0].Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerMM)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	var buf bytes.Buffer
	for i, s := range scenes {
		img, _, err := Render(ctx, s, c, 1)
		if err != nil {
			return err
		}
		buf.Reset()
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		info := pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(buf.Bytes()))
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("register page %d: %w", i+1, err)
		}

		pdf.AddPage()
		availW := pageWidthMM - 2*pageMarginMM
		availH := pageHeightMM - 2*pageMarginMM - footerMM
		iw, ih := info.Width(), info.Height()
		ratio := min(availW/iw, availH/ih)
		dw, dh := iw*ratio, ih*ratio
		x := (pageWidthMM - dw) / 2
		y := pageMarginMM + (availH-dh)/2
		pdf.ImageOptions(name, x, y, dw, dh, false, opt, 0, "")
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Book writes scenes as one PDF at outPath. When the PDF cannot be produced the
// scenes are written as individual PNG files next to it instead, and the
// returned paths name those files.
func Book(ctx context.Context, outPath string, scenes []Scene, c Capturer) ([]string, error) {
	log := applog.WithOperation(applog.WithComponent("export"), "book")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	var buf bytes.Buffer
	err := PDF(ctx, &buf, scenes, c)
	if err == nil {
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("write pdf: %w", err)
		}
		return []string{outPath}, nil
	}
	if errors.Is(err, ErrNoPages) || ctx.Err() != nil {
		return nil, err
	}
	log.Warn("pdf failed, writing png pages", slog.Any("err", err))

	base := outPath[:len(outPath)-len(filepath.Ext(outPath))]
	var out []string
	for i, s := range scenes {
		name := fmt.Sprintf("%s-page-%d.png", base, i+1)
		f, ferr := os.Create(name)
		if ferr != nil {
			return out, fmt.Errorf("create png: %w", ferr)
		}
		if _, perr := PNG(ctx, f, s, c, 1); perr != nil {
			_ = f.Close()
			return out, perr
		}
		if cerr := f.Close(); cerr != nil {
			return out, fmt.Errorf("close png: %w", cerr)
		}
		out = append(out, name)
	}
	return out, nil
}
