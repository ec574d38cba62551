/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// This file defines the persisted data model of the builder. Documents hold
// snapshots only; the live state of a session is owned by the canvas manager.

// Point is a position in canvas pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size holds component dimensions. Zero on an axis means auto-sized.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComponentSnapshot is the serializable state of one component instance.
type ComponentSnapshot struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Position   Point      `json:"position"`
	Dimensions Size       `json:"dimensions"`
	Properties Properties `json:"properties"`
	ZIndex     *int       `json:"zIndex,omitempty"`
}

// Clone returns a deep copy.
func (c ComponentSnapshot) Clone() ComponentSnapshot {
	out := c
	out.Properties = c.Properties.Clone()
	if c.ZIndex != nil {
		z := *c.ZIndex
		out.ZIndex = &z
	}
	return out
}

// Settings are per-document page settings.
type Settings struct {
	Theme           string  `json:"theme"`
	BackgroundColor string  `json:"backgroundColor"`
	BackgroundImage *string `json:"backgroundImage"`
}

// DefaultSettings returns the settings of a fresh document.
func DefaultSettings() Settings {
	return Settings{Theme: "spooky", BackgroundColor: "#0a0a0a"}
}

// Document is a saved project.
type Document struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Created    time.Time           `json:"created"`
	Modified   time.Time           `json:"modified"`
	Components []ComponentSnapshot `json:"components"`
	Settings   Settings            `json:"settings"`
}

// ErrInvalidDocument is returned by Validate.
var ErrInvalidDocument = errors.New("invalid document")

// Validate checks the fields an export or import cannot do without.
func (d Document) Validate() error {
	var missing []string
	if strings.TrimSpace(d.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDocument, strings.Join(missing, ", "))
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := d
	if d.Components != nil {
		out.Components = make([]ComponentSnapshot, len(d.Components))
		for i, c := range d.Components {
			out.Components[i] = c.Clone()
		}
	}
	if d.Settings.BackgroundImage != nil {
		s := *d.Settings.BackgroundImage
		out.Settings.BackgroundImage = &s
	}
	return out
}

// Preferences are the user-level builder settings kept under the "settings" key.
type Preferences struct {
	AutoSave       bool   `json:"autoSave"`
	SoundEnabled   bool   `json:"soundEnabled"`
	EffectsEnabled bool   `json:"effectsEnabled"`
	Theme          string `json:"theme"`
}

// DefaultPreferences returns the preferences used when none are stored.
func DefaultPreferences() Preferences {
	return Preferences{AutoSave: true, SoundEnabled: true, EffectsEnabled: true, Theme: "spooky"}
}

// NewID returns an opaque id of the form <prefix>_<9 random chars>_<unix millis>.
func NewID(prefix string, now time.Time) string {
	r := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%s_%d", prefix, r, now.UnixMilli())
}
