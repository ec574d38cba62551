/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

// DefaultProjectName names projects created without a name.
const DefaultProjectName = "Haunted Website"

var (
	ErrNoCurrentProject = errors.New("no current project")
	ErrProjectNotFound  = errors.New("project not found")
)

//go:embed projects.schema.json
var projectsSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(projectsSchema))
	})
	return compiledSchema, schemaErr
}

// ValidateProjectsPayload checks a stored projects blob against the embedded schema.
func ValidateProjectsPayload(data []byte) error {
	s, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile projects schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate projects: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("projects do not match schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// ProjectStore holds every saved document in memory and persists them as one
// blob under KeyProjects. A document started by CreateNew stays a draft, absent
// from List and from storage, until its first Save. It is safe for concurrent use.
type ProjectStore struct {
	mu      sync.Mutex
	kv      KV
	log     *slog.Logger
	docs    map[string]domain.Document
	drafts  map[string]struct{}
	current string
	theme   string
	now     func() time.Time
}

// OpenProjects loads the saved projects from kv. A missing or malformed
// payload is logged and yields an empty store; only backend read failures are
// returned as errors.
func OpenProjects(ctx context.Context, kv KV) (*ProjectStore, error) {
	s := &ProjectStore{
		kv:     kv,
		log:    applog.WithComponent("storage"),
		docs:   make(map[string]domain.Document),
		drafts: make(map[string]struct{}),
		now:    time.Now,
	}
	l := applog.WithOperation(s.log, "open_projects")
	data, err := kv.Get(ctx, KeyProjects)
	if errors.Is(err, ErrNotFound) {
		return s, nil
	}
	if err != nil {
		l.Error("read projects failed", slog.Any("err", err))
		return nil, fmt.Errorf("read projects: %w", err)
	}
	docs, err := decodeProjects(data)
	if err != nil {
		l.Warn("ignoring malformed projects payload", slog.Any("err", err))
		return s, nil
	}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	l.Info("projects loaded", slog.Int("count", len(docs)))
	return s, nil
}

func decodeProjects(data []byte) ([]domain.Document, error) {
	if err := ValidateProjectsPayload(data); err != nil {
		return nil, err
	}
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse projects: %w", err)
	}
	out := make([]domain.Document, 0, len(pairs))
	for i, p := range pairs {
		var id string
		if err := json.Unmarshal(p[0], &id); err != nil {
			return nil, fmt.Errorf("project %d id: %w", i, err)
		}
		var d domain.Document
		if err := json.Unmarshal(p[1], &d); err != nil {
			return nil, fmt.Errorf("project %s: %w", id, err)
		}
		if d.ID == "" {
			d.ID = id
		}
		out = append(out, d)
	}
	return out, nil
}

func encodeProjects(docs []domain.Document) ([]byte, error) {
	pairs := make([][2]any, 0, len(docs))
	for _, d := range docs {
		pairs = append(pairs, [2]any{d.ID, d})
	}
	return json.Marshal(pairs)
}

// persist writes all saved documents, oldest first. Callers hold s.mu.
func (s *ProjectStore) persist(ctx context.Context) error {
	docs := make([]domain.Document, 0, len(s.docs))
	for id, d := range s.docs {
		if _, draft := s.drafts[id]; draft {
			continue
		}
		docs = append(docs, d)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].Created.Equal(docs[j].Created) {
			return docs[i].Created.Before(docs[j].Created)
		}
		return docs[i].ID < docs[j].ID
	})
	data, err := encodeProjects(docs)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	if err := s.kv.Set(ctx, KeyProjects, data); err != nil {
		return fmt.Errorf("write projects: %w", err)
	}
	return nil
}

// SetClock replaces the time source.
func (s *ProjectStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// dropDraftLocked forgets the current document if it was never saved.
func (s *ProjectStore) dropDraftLocked() {
	if _, draft := s.drafts[s.current]; draft {
		delete(s.docs, s.current)
		delete(s.drafts, s.current)
	}
}

// SetTheme sets the theme of documents created afterwards. Empty keeps the
// default.
func (s *ProjectStore) SetTheme(theme string) {
	s.mu.Lock()
	s.theme = strings.TrimSpace(theme)
	s.mu.Unlock()
}

// CreateNew starts an unsaved draft and makes it current, discarding the
// previous draft. An empty name becomes DefaultProjectName.
func (s *ProjectStore) CreateNew(name string) domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropDraftLocked()
	if strings.TrimSpace(name) == "" {
		name = DefaultProjectName
	}
	now := s.now()
	d := domain.Document{
		ID:         domain.NewID("proj", now),
		Name:       name,
		Created:    now,
		Modified:   now,
		Components: []domain.ComponentSnapshot{},
		Settings:   domain.DefaultSettings(),
	}
	if s.theme != "" {
		d.Settings.Theme = s.theme
	}
	s.docs[d.ID] = d
	s.drafts[d.ID] = struct{}{}
	s.current = d.ID
	s.log.Info("project created", slog.String("project", d.ID), slog.String("name", name))
	return d.Clone()
}

// Current returns the current document.
func (s *ProjectStore) Current() (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[s.current]
	if !ok {
		return domain.Document{}, false
	}
	return d.Clone(), true
}

// CurrentID returns the current document id or "".
func (s *ProjectStore) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save snapshots comps into the current document, stamps it modified and
// persists every saved document. A draft becomes a saved document here.
func (s *ProjectStore) Save(ctx context.Context, comps []domain.ComponentSnapshot) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[s.current]
	if !ok {
		return domain.Document{}, ErrNoCurrentProject
	}
	d.Components = make([]domain.ComponentSnapshot, len(comps))
	for i, c := range comps {
		d.Components[i] = c.Clone()
	}
	d.Modified = s.now()
	s.docs[d.ID] = d
	_, wasDraft := s.drafts[d.ID]
	delete(s.drafts, d.ID)
	if applog.ProjectFromContext(ctx) == "" {
		ctx = applog.ContextWithProject(ctx, d.ID)
	}
	l := applog.WithOperation(s.log, "save")
	if err := s.persist(ctx); err != nil {
		if wasDraft {
			s.drafts[d.ID] = struct{}{}
		}
		l.ErrorContext(ctx, "save failed", slog.Any("err", err))
		return domain.Document{}, err
	}
	l.DebugContext(ctx, "project saved", slog.Int("components", len(comps)))
	return d.Clone(), nil
}

// Put stores doc as given and persists. It does not change the current project.
func (s *ProjectStore) Put(ctx context.Context, doc domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc.Clone()
	delete(s.drafts, doc.ID)
	return s.persist(ctx)
}

// UpdateSettings replaces the page settings of the current document in memory.
func (s *ProjectStore) UpdateSettings(st domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[s.current]
	if !ok {
		return ErrNoCurrentProject
	}
	d.Settings = st
	s.docs[d.ID] = d
	return nil
}

// Get returns a copy of the document with id.
func (s *ProjectStore) Get(id string) (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return domain.Document{}, false
	}
	return d.Clone(), true
}

// Load makes id current and returns its document. An unsaved draft that was
// current is discarded.
func (s *ProjectStore) Load(id string) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if s.current != id {
		s.dropDraftLocked()
	}
	s.current = id
	return d.Clone(), nil
}

// List returns the saved documents, most recently modified first.
func (s *ProjectStore) List() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Document, 0, len(s.docs))
	for id, d := range s.docs {
		if _, draft := s.drafts[id]; draft {
			continue
		}
		out = append(out, d.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Modified.Equal(out[j].Modified) {
			return out[i].Modified.After(out[j].Modified)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes the document and persists. Deleting the current project
// leaves no project current.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	delete(s.docs, id)
	delete(s.drafts, id)
	if s.current == id {
		s.current = ""
	}
	return s.persist(ctx)
}

// Duplicate copies the document under a new id with " (Copy)" appended to
// its name and persists.
func (s *ProjectStore) Duplicate(ctx context.Context, id string) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	now := s.now()
	d := src.Clone()
	d.ID = domain.NewID("proj", now)
	d.Name = src.Name + " (Copy)"
	d.Created, d.Modified = now, now
	s.docs[d.ID] = d
	if err := s.persist(ctx); err != nil {
		delete(s.docs, d.ID)
		return domain.Document{}, err
	}
	return d.Clone(), nil
}

// Rename changes the document name and persists.
func (s *ProjectStore) Rename(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("project name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	d.Name = name
	d.Modified = s.now()
	s.docs[id] = d
	return s.persist(ctx)
}

// LoadPreferences reads the user preferences. Missing or malformed values
// yield the defaults.
func LoadPreferences(ctx context.Context, kv KV) domain.Preferences {
	p := domain.DefaultPreferences()
	data, err := kv.Get(ctx, KeySettings)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			applog.WithComponent("storage").Warn("read preferences failed", slog.Any("err", err))
		}
		return p
	}
	if err := json.Unmarshal(data, &p); err != nil {
		applog.WithComponent("storage").Warn("ignoring malformed preferences", slog.Any("err", err))
		return domain.DefaultPreferences()
	}
	return p
}

// SavePreferences writes the user preferences.
func SavePreferences(ctx context.Context, kv KV, p domain.Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return kv.Set(ctx, KeySettings, data)
}
