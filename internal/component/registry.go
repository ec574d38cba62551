/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package component implements the component model: typed property schemas,
// data-driven variants rendered through html/template, live instances that
// publish change intents, and the registry that creates them by type tag.
package component

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

var (
	// ErrUnknownComponentType is returned by Create for unregistered type tags.
	ErrUnknownComponentType = errors.New("unknown component type")
	// ErrDuplicateType is returned when a type tag is registered twice.
	ErrDuplicateType = errors.New("component type already registered")
	// ErrInvalidID is returned by Restore for ids outside [A-Za-z0-9_-].
	ErrInvalidID = errors.New("invalid component id")
)

// Ids end up in CSS selectors and inline scripts of exported pages.
var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Registry maps type tags to variants. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byType map[string]Variant
	log    *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]Variant), log: applog.WithComponent("registry")}
}

// Register adds v. Registering the same type twice fails.
func (r *Registry) Register(v Variant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byType[v.Type()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, v.Type())
	}
	r.byType[v.Type()] = v
	r.order = append(r.order, v.Type())
	return nil
}

// Lookup returns the variant registered for typ.
func (r *Registry) Lookup(typ string) (Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.byType[typ]
	return v, ok
}

// Create builds a new instance of typ. Unknown types are logged and yield a
// nil instance with ErrUnknownComponentType.
func (r *Registry) Create(typ string, cfg Config) (*Instance, error) {
	v, ok := r.Lookup(typ)
	if !ok {
		r.log.Warn("unknown component type", slog.String("type", typ))
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, typ)
	}
	in := New(v, cfg)
	r.log.Debug("created component", slog.String("type", typ), slog.String("id", in.ID()))
	return in, nil
}

// Restore rebuilds an instance from a snapshot, keeping its id.
func (r *Registry) Restore(s domain.ComponentSnapshot) (*Instance, error) {
	if !validID.MatchString(s.ID) {
		r.log.Warn("rejecting component id", slog.String("id", s.ID), slog.String("type", s.Type))
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, s.ID)
	}
	pos, dims := s.Position, s.Dimensions
	return r.Create(s.Type, Config{
		ID:         s.ID,
		Position:   &pos,
		Dimensions: &dims,
		Properties: s.Properties.Clone(),
		ZIndex:     s.ZIndex,
	})
}

// ListTypes returns the registered type tags in registration order.
func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Variants returns the registered variants in registration order.
func (r *Registry) Variants() []Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Variant, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.byType[t])
	}
	return out
}
