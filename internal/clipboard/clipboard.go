/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package clipboard copies component snapshots between canvases and sessions.
// The last copied component is kept in the key-value store and mirrored to
// the system clipboard as JSON when one is available.
package clipboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sysclip "github.com/atotto/clipboard"

	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
	"spookybuilder/internal/storage"
)

// Kind tags clipboard payloads written by the builder.
const Kind = "spooky-component"

// ErrEmpty is returned by Paste when nothing was copied.
var ErrEmpty = errors.New("clipboard is empty")

// System is a text clipboard.
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type osClipboard struct{}

func (osClipboard) ReadAll() (string, error)   { return sysclip.ReadAll() }
func (osClipboard) WriteAll(text string) error { return sysclip.WriteAll(text) }

// OS returns the platform clipboard, or nil when the platform has none.
func OS() System {
	if sysclip.Unsupported {
		return nil
	}
	return osClipboard{}
}

type envelope struct {
	Kind      string                   `json:"kind"`
	Component domain.ComponentSnapshot `json:"component"`
}

// Clipboard holds one component snapshot.
type Clipboard struct {
	kv  storage.KV
	sys System
	log *slog.Logger
}

// New returns a clipboard persisting to kv. sys may be nil.
func New(kv storage.KV, sys System) *Clipboard {
	return &Clipboard{kv: kv, sys: sys, log: applog.WithComponent("clipboard")}
}

// Copy stores s. Failing to reach the system clipboard is logged, not returned.
func (c *Clipboard) Copy(ctx context.Context, s domain.ComponentSnapshot) error {
	data, err := json.Marshal(envelope{Kind: Kind, Component: s})
	if err != nil {
		return fmt.Errorf("encode clipboard: %w", err)
	}
	if err := c.kv.Set(ctx, storage.KeyClipboard, data); err != nil {
		return fmt.Errorf("store clipboard: %w", err)
	}
	if c.sys != nil {
		if err := c.sys.WriteAll(string(data)); err != nil {
			c.log.Warn("system clipboard write failed", slog.Any("err", err))
		}
	}
	c.log.Debug("copied component", slog.String("id", s.ID), slog.String("type", s.Type))
	return nil
}

// Paste returns the copied snapshot. Builder JSON on the system clipboard
// wins over the stored copy, so components travel between running sessions.
func (c *Clipboard) Paste(ctx context.Context) (domain.ComponentSnapshot, error) {
	if c.sys != nil {
		if text, err := c.sys.ReadAll(); err == nil {
			if s, ok := decode([]byte(strings.TrimSpace(text))); ok {
				return s, nil
			}
		}
	}
	data, err := c.kv.Get(ctx, storage.KeyClipboard)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ComponentSnapshot{}, ErrEmpty
	}
	if err != nil {
		return domain.ComponentSnapshot{}, fmt.Errorf("read clipboard: %w", err)
	}
	s, ok := decode(data)
	if !ok {
		c.log.Warn("ignoring malformed clipboard payload")
		return domain.ComponentSnapshot{}, ErrEmpty
	}
	return s, nil
}

func decode(data []byte) (domain.ComponentSnapshot, bool) {
	if len(data) == 0 || data[0] != '{' {
		return domain.ComponentSnapshot{}, false
	}
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil || e.Kind != Kind || e.Component.Type == "" {
		return domain.ComponentSnapshot{}, false
	}
	return e.Component, true
}
