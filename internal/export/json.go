/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"spookybuilder/internal/domain"
	"spookybuilder/internal/version"
)

// Exported is the JSON export envelope: the document with its live
// components plus export metadata.
type Exported struct {
	domain.Document
	ExportedAt time.Time `json:"exportedAt"`
	Version    string    `json:"version"`
}

// JSON writes doc with comps as its components, stamped with now.
func JSON(w io.Writer, doc domain.Document, comps []domain.ComponentSnapshot, now time.Time) error {
	if err := Validate(doc); err != nil {
		return err
	}
	out := Exported{Document: doc.Clone(), ExportedAt: now.UTC(), Version: version.ExportFormatVersion}
	out.Components = make([]domain.ComponentSnapshot, len(comps))
	for i, c := range comps {
		out.Components[i] = c.Clone()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

// ReadJSON parses a JSON export back into a document.
func ReadJSON(r io.Reader) (Exported, error) {
	var e Exported
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Exported{}, fmt.Errorf("decode json export: %w", err)
	}
	if err := Validate(e.Document); err != nil {
		return Exported{}, err
	}
	return e, nil
}

// Snapshots serialises items in order.
func Snapshots(items []Item) []domain.ComponentSnapshot {
	out := make([]domain.ComponentSnapshot, 0, len(items))
	for _, it := range items {
		s := domain.ComponentSnapshot{
			ID:         it.ID(),
			Type:       it.Type(),
			Position:   it.Position(),
			Dimensions: it.Dimensions(),
			Properties: it.Properties(),
		}
		if z, ok := it.ZIndex(); ok {
			s.ZIndex = &z
		}
		out = append(out, s)
	}
	return out
}
