/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"spookybuilder/internal/component"
	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

// Minimum scene size in canvas pixels.
const (
	MinSceneWidth  = 800
	MinSceneHeight = 600
)

// Box is one component as drawn in a bitmap.
type Box struct {
	ID         string
	Type       string
	Position   domain.Point
	Dimensions domain.Size
	Properties domain.Properties
}

// Scene is a paint-ordered, immutable view of a canvas.
type Scene struct {
	Title      string
	Background string
	Width      int
	Height     int
	Boxes      []Box
}

// SceneOf builds a scene from doc settings and items. Items are sorted by
// z-index with insertion order kept among equals. The size covers every item
// and is at least MinSceneWidth x MinSceneHeight.
func SceneOf(doc domain.Document, items []Item) Scene {
	type ordered struct {
		z   int
		box Box
	}
	list := make([]ordered, 0, len(items))
	w, h := float64(MinSceneWidth), float64(MinSceneHeight)
	for _, it := range items {
		z, _ := it.ZIndex()
		b := Box{ID: it.ID(), Type: it.Type(), Position: it.Position(), Dimensions: it.Dimensions(), Properties: it.Properties()}
		if b.Dimensions.Width <= 0 {
			b.Dimensions.Width = component.DefaultDimensions.Width
		}
		if b.Dimensions.Height <= 0 {
			b.Dimensions.Height = component.DefaultDimensions.Height
		}
		w = math.Max(w, b.Position.X+b.Dimensions.Width)
		h = math.Max(h, b.Position.Y+b.Dimensions.Height)
		list = append(list, ordered{z: z, box: b})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].z < list[j].z })
	s := Scene{Title: doc.Name, Background: doc.Settings.BackgroundColor, Width: int(math.Ceil(w)), Height: int(math.Ceil(h))}
	for _, o := range list {
		s.Boxes = append(s.Boxes, o.box)
	}
	return s
}

// Capturer renders a scene to a bitmap.
type Capturer interface {
	Capture(ctx context.Context, s Scene, scale float64) (image.Image, error)
}

// Render captures s with c, or with the approximate redraw when c is nil or
// fails. It reports whether the fallback was used.
func Render(ctx context.Context, s Scene, c Capturer, scale float64) (image.Image, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if scale <= 0 {
		scale = 1
	}
	if c != nil {
		img, err := c.Capture(ctx, s, scale)
		if err == nil {
			return img, false, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, false, err
		}
		applog.WithComponent("export").Warn("capture failed, using redraw", slog.Any("err", err))
	}
	return Redraw(s, scale), true, nil
}

// Palette fallbacks.
var (
	defaultBackground = colorful.Color{R: 10.0 / 255, G: 10.0 / 255, B: 10.0 / 255}
	defaultText       = colorful.Color{R: 248.0 / 255, G: 250.0 / 255, B: 252.0 / 255}
	defaultAccent     = colorful.Color{R: 139.0 / 255, G: 92.0 / 255, B: 246.0 / 255}
)

// parseColor reads #rgb and #rrggbb values. Other CSS forms report false.
func parseColor(v string) (colorful.Color, bool) {
	v = strings.TrimSpace(v)
	if len(v) == 4 && v[0] == '#' {
		v = "#" + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2) + strings.Repeat(v[3:4], 2)
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func colorOr(v string, def colorful.Color) colorful.Color {
	if c, ok := parseColor(v); ok {
		return c
	}
	return def
}

// accentOf picks the most characteristic colour property of a box.
func accentOf(p domain.Properties) colorful.Color {
	for _, k := range []string{"buttonColor", "glowColor", "cursedColor", "dripColor", "fillColor", "strokeColor", "borderColor", "focusColor"} {
		if c, ok := parseColor(p.String(k)); ok {
			return c
		}
	}
	return defaultAccent
}

// labelOf returns the text a box shows, if any.
func labelOf(b Box) string {
	for _, k := range []string{"text", "title", "heroTitle", "siteName", "portfolioTitle", "placeholder", "alt"} {
		if s := strings.TrimSpace(b.Properties.String(k)); s != "" {
			return s
		}
	}
	return b.Type
}

// Label is the text drawn inside the box.
func (b Box) Label() string { return labelOf(b) }

// Colors returns the fill, outline and text colours used to draw the box.
func (b Box) Colors() (fill, stroke, text color.NRGBA) {
	alpha := opacityOf(b.Properties)
	accent := accentOf(b.Properties)
	if bg, ok := parseColor(b.Properties.String("backgroundColor")); ok {
		fill = withAlpha(bg, alpha)
	} else {
		fill = withAlpha(accent.BlendLab(defaultBackground, 0.8), alpha)
	}
	return fill, withAlpha(accent, alpha), withAlpha(colorOr(b.Properties.String("textColor"), defaultText), alpha)
}

// BackgroundColor returns the scene background.
func (s Scene) BackgroundColor() color.NRGBA {
	return withAlpha(colorOr(s.Background, defaultBackground), 1)
}

func opacityOf(p domain.Properties) float64 {
	if f, ok := p.Float("opacity"); ok {
		return math.Max(0, math.Min(1, f))
	}
	return 1
}

func withAlpha(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

// GGCapturer draws scenes with a 2D vector context and a monospace face.
type GGCapturer struct {
	once sync.Once
	font *truetype.Font
	err  error
}

// NewGGCapturer returns a capturer using the embedded Go Mono font.
func NewGGCapturer() *GGCapturer { return &GGCapturer{} }

func (g *GGCapturer) face(size float64) (font.Face, error) {
	g.once.Do(func() {
		g.font, g.err = truetype.Parse(gomono.TTF)
	})
	if g.err != nil {
		return nil, fmt.Errorf("load font: %w", g.err)
	}
	return truetype.NewFace(g.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// Capture draws each box as a rounded card with its label.
func (g *GGCapturer) Capture(ctx context.Context, s Scene, scale float64) (image.Image, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("empty scene %dx%d", s.Width, s.Height)
	}
	w, h := int(math.Ceil(float64(s.Width)*scale)), int(math.Ceil(float64(s.Height)*scale))
	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)
	dc.SetColor(s.BackgroundColor())
	dc.Clear()

	for _, b := range s.Boxes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, y := b.Position.X, b.Position.Y
		bw, bh := b.Dimensions.Width, b.Dimensions.Height
		fill, stroke, text := b.Colors()
		radius := 8.0
		if r, ok := component.LeadingNumber(b.Properties.String("borderRadius")); ok {
			radius = r
		}

		dc.SetColor(fill)
		dc.DrawRoundedRectangle(x, y, bw, bh, radius)
		dc.Fill()

		dc.SetColor(stroke)
		dc.SetLineWidth(2)
		dc.DrawRoundedRectangle(x+1, y+1, bw-2, bh-2, radius)
		dc.Stroke()

		size := 16.0
		if fs, ok := component.LeadingNumber(b.Properties.String("fontSize")); ok && fs > 0 {
			size = fs
		}
		face, err := g.face(size * scale)
		if err != nil {
			return nil, err
		}
		dc.Push()
		dc.Scale(1/scale, 1/scale)
		dc.SetFontFace(face)
		dc.SetColor(text)
		pad := 8.0
		dc.DrawStringWrapped(b.Label(), (x+bw/2)*scale, (y+bh/2)*scale, 0.5, 0.5, (bw-2*pad)*scale, 1.3, alignOf(b.Properties))
		dc.Pop()
	}
	return dc.Image(), nil
}

func alignOf(p domain.Properties) gg.Align {
	switch p.String("textAlign") {
	case "left":
		return gg.AlignLeft
	case "right":
		return gg.AlignRight
	}
	return gg.AlignCenter
}
