/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export turns a document and its live components into standalone
// artifacts: an HTML page, a JSON document, bitmaps, PDF books and ZIP bundles.
// Exporters only read the components they are given.
package export

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"spookybuilder/internal/domain"
)

// ErrUnknownFormat is returned for unsupported export formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats accepted by ToFile.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatZIP  = "zip"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatHTML, FormatZIP, FormatJSON, FormatPNG, FormatPDF}
}

// Item is a live component as exporters see it. *component.Instance implements it.
type Item interface {
	ID() string
	Type() string
	Position() domain.Point
	Dimensions() domain.Size
	ZIndex() (int, bool)
	Properties() domain.Properties
	ExportMarkup() template.HTML
	Script() string
}

// Validate reports whether doc can be exported.
func Validate(doc domain.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("project missing required fields: %w", err)
	}
	return nil
}

// Preview summarises a project for lists and dialogs.
type Preview struct {
	Name           string    `json:"name"`
	ComponentCount int       `json:"componentCount"`
	LastModified   time.Time `json:"lastModified"`
	Thumbnail      string    `json:"thumbnail"`
}

// PreviewOf builds the summary of doc from the given component types.
func PreviewOf(doc domain.Document, types []string) Preview {
	return Preview{
		Name:           doc.Name,
		ComponentCount: len(types),
		LastModified:   doc.Modified,
		Thumbnail:      Thumbnail(types),
	}
}

// Thumbnail is a text thumbnail: the first three distinct types, with "..."
// appended when there are more.
func Thumbnail(types []string) string {
	seen := make(map[string]bool, len(types))
	var uniq []string
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	if len(uniq) <= 3 {
		return strings.Join(uniq, ", ")
	}
	return strings.Join(uniq[:3], ", ") + "..."
}

// FileName derives a safe file name for doc with ext.
func FileName(doc domain.Document, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(doc.Name))
	if name == "" || name == "." || name == ".." {
		name = "project"
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
