package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"spookybuilder/internal/domain"
	applog "spookybuilder/internal/log"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openTestStore(t *testing.T, kv KV) *ProjectStore {
	t.Helper()
	s, err := OpenProjects(context.Background(), kv)
	if err != nil {
		t.Fatalf("OpenProjects: %v", err)
	}
	s.SetClock(fixedClock(time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)))
	return s
}

func TestCreateSaveReopen(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := openTestStore(t, kv)

	d := s.CreateNew("")
	if d.Name != DefaultProjectName || !strings.HasPrefix(d.ID, "proj_") {
		t.Fatalf("new project = %+v", d)
	}
	comps := []domain.ComponentSnapshot{
		{ID: "comp_1", Type: "ghostly-header", Position: domain.Point{X: 20, Y: 40}, Properties: domain.NewProperties("text", "Boo")},
		{ID: "comp_2", Type: "haunted-button"},
	}
	saved, err := s.Save(ctx, comps)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !saved.Modified.After(d.Modified) {
		t.Fatalf("modified not advanced")
	}

	again := openTestStore(t, kv)
	got, err := again.Load(d.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Components) != 2 || got.Components[0].ID != "comp_1" || got.Components[1].ID != "comp_2" {
		t.Fatalf("components = %+v", got.Components)
	}
	if got.Components[0].Properties.String("text") != "Boo" {
		t.Fatalf("properties lost")
	}
	if cur, ok := again.Current(); !ok || cur.ID != d.ID {
		t.Fatalf("Load should make the project current")
	}
}

func TestStoredPayloadIsIDDocumentPairs(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := openTestStore(t, kv)
	d := s.CreateNew("Crypt")
	if _, err := s.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	raw, err := kv.Get(ctx, KeyProjects)
	if err != nil {
		t.Fatal(err)
	}
	var pairs [][]json.RawMessage
	if err := json.Unmarshal(raw, &pairs); err != nil {
		t.Fatalf("payload not an array of pairs: %v", err)
	}
	if len(pairs) != 1 || len(pairs[0]) != 2 || string(pairs[0][0]) != `"`+d.ID+`"` {
		t.Fatalf("payload = %s", raw)
	}
	if err := ValidateProjectsPayload(raw); err != nil {
		t.Fatalf("own payload fails schema: %v", err)
	}
}

func TestMalformedPayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, payload := range []string{`not json`, `{"a":1}`, `[["id"]]`, `[["id", {"name": "x"}]]`} {
		kv := NewMemoryKV()
		if err := kv.Set(ctx, KeyProjects, []byte(payload)); err != nil {
			t.Fatal(err)
		}
		s := openTestStore(t, kv)
		if n := len(s.List()); n != 0 {
			t.Fatalf("payload %q: %d projects loaded", payload, n)
		}
	}
}

func TestListDuplicateRenameDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, NewMemoryKV())
	a := s.CreateNew("Alpha")
	if _, err := s.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	b := s.CreateNew("Beta")
	if _, err := s.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}

	list := s.List()
	if len(list) != 2 || list[0].ID != b.ID {
		t.Fatalf("list should be newest first: %+v", list)
	}

	c, err := s.Duplicate(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Alpha (Copy)" || c.ID == a.ID {
		t.Fatalf("duplicate = %+v", c)
	}
	if err := s.Rename(ctx, a.ID, "Omega"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(a.ID); got.Name != "Omega" {
		t.Fatalf("rename lost: %q", got.Name)
	}
	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if s.CurrentID() != "" {
		t.Fatalf("deleting the current project should clear it")
	}
	if _, err := s.Save(ctx, nil); !errors.Is(err, ErrNoCurrentProject) {
		t.Fatalf("Save without current = %v", err)
	}
	if err := s.Delete(ctx, "proj_missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("Delete missing = %v", err)
	}
}

func TestPreferencesDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if p := LoadPreferences(ctx, kv); p != domain.DefaultPreferences() {
		t.Fatalf("defaults = %+v", p)
	}
	_ = kv.Set(ctx, KeySettings, []byte(`{broken`))
	if p := LoadPreferences(ctx, kv); p != domain.DefaultPreferences() {
		t.Fatalf("malformed should give defaults: %+v", p)
	}
	want := domain.Preferences{AutoSave: false, Theme: "retro"}
	if err := SavePreferences(ctx, kv, want); err != nil {
		t.Fatal(err)
	}
	if p := LoadPreferences(ctx, kv); p != want {
		t.Fatalf("round trip = %+v", p)
	}
}

func TestDraftsStayUnsavedUntilSave(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := openTestStore(t, kv)

	a := s.CreateNew("Alpha")
	if _, err := s.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	draft := s.CreateNew("")
	if n := len(s.List()); n != 1 {
		t.Fatalf("draft listed: %d projects", n)
	}
	if _, err := s.Load(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(draft.ID); ok {
		t.Fatal("draft kept after switching away")
	}
	if _, err := s.Save(ctx, []domain.ComponentSnapshot{{ID: "comp_1", Type: "haunted-button"}}); err != nil {
		t.Fatal(err)
	}

	again := openTestStore(t, kv)
	list := again.List()
	if len(list) != 1 || list[0].ID != a.ID || len(list[0].Components) != 1 {
		t.Fatalf("stored projects = %+v", list)
	}

	s.CreateNew("One")
	b := s.CreateNew("Two")
	if _, err := s.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if list := s.List(); len(list) != 2 || list[0].ID != b.ID {
		t.Fatalf("replaced draft leaked: %+v", list)
	}
}

func TestSetThemeAppliesToNewProjects(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())
	if d := s.CreateNew(""); d.Settings.Theme != "spooky" {
		t.Fatalf("default theme = %q", d.Settings.Theme)
	}
	s.SetTheme(" retro ")
	if d := s.CreateNew(""); d.Settings.Theme != "retro" {
		t.Fatalf("theme = %q", d.Settings.Theme)
	}
}

func TestSaveLogCarriesProject(t *testing.T) {
	var buf bytes.Buffer
	applog.Init(applog.Options{Level: "debug", Format: "json", Writer: &buf})
	t.Cleanup(func() { applog.Init(applog.Options{Level: "error", Writer: &bytes.Buffer{}}) })

	s := openTestStore(t, NewMemoryKV())
	d := s.CreateNew("Crypt")
	if _, err := s.Save(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var m map[string]any
		if json.Unmarshal(sc.Bytes(), &m) != nil || m["msg"] != "project saved" {
			continue
		}
		if m["project"] != d.ID {
			t.Fatalf("project attr = %v, want %s", m["project"], d.ID)
		}
		return
	}
	t.Fatalf("no save record in:\n%s", buf.String())
}
