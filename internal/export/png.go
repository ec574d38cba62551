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
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
)

// DefaultPNGScale is the bitmap scale used when none is configured.
const DefaultPNGScale = 2.0

// PNG renders s with c at scale and encodes it to w. It reports whether the
// redraw fallback produced the image.
func PNG(ctx context.Context, w io.Writer, s Scene, c Capturer, scale float64) (bool, error) {
	if scale <= 0 {
		scale = DefaultPNGScale
	}
	img, fallback, err := Render(ctx, s, c, scale)
	if err != nil {
		return false, err
	}
	if err := png.Encode(w, img); err != nil {
		return fallback, fmt.Errorf("encode png: %w", err)
	}
	return fallback, nil
}

// Redraw paints an approximation of s without fonts: a background, a filled
// card per box and its accent border.
func Redraw(s Scene, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(float64(max(s.Width, 1)) * scale))
	h := int(math.Ceil(float64(max(s.Height, 1)) * scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(colorOr(s.Background, defaultBackground).Clamped().RGB255())}, image.Point{}, draw.Src)

	for _, b := range s.Boxes {
		x0 := int(math.Round(b.Position.X * scale))
		y0 := int(math.Round(b.Position.Y * scale))
		x1 := x0 + int(math.Round(b.Dimensions.Width*scale)) - 1
		y1 := y0 + int(math.Round(b.Dimensions.Height*scale)) - 1
		accent := accentOf(b.Properties)
		fill := accent.BlendLab(defaultBackground, 0.8)
		if bg, ok := parseColor(b.Properties.String("backgroundColor")); ok {
			fill = bg
		}
		fillRect(img, x0, y0, x1, y1, toRGBA(fill.Clamped().RGB255()))
		strokeRect(img, x0, y0, x1, y1, toRGBA(accent.Clamped().RGB255()))
	}
	return img
}

func toRGBA(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
// Pixels outside the image are ignored.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	draw.Draw(img, r, &image.Uniform{C: col}, image.Point{}, draw.Src)
}
