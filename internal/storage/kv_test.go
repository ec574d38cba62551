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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	fkv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	skv, err := OpenSQLiteKV(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	t.Cleanup(func() { _ = skv.Close() })
	return map[string]KV{BackendFile: fkv, BackendSQLite: skv, BackendMemory: NewMemoryKV()}
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get(ctx, "projects"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty store: %v", err)
			}
			if err := kv.Set(ctx, "projects", []byte(`[1]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := kv.Set(ctx, "projects", []byte(`[2]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := kv.Get(ctx, "projects")
			if err != nil || string(got) != `[2]` {
				t.Fatalf("Get = %q, %v", got, err)
			}
			if err := kv.Delete(ctx, "projects"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := kv.Get(ctx, "projects"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get after delete: %v", err)
			}
			if err := kv.Set(ctx, "../escape", []byte(`1`)); err == nil {
				t.Fatalf("path-like key accepted")
			}
		})
	}
}

func TestFileKVKeepsTimestampedBackups(t *testing.T) {
	ctx := context.Background()
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < MaxBackups+3; i++ {
		if err := kv.Set(ctx, KeyProjects, []byte(fmt.Sprintf(`{"n":%d}`, i))); err != nil {
			t.Fatalf("Set %d: %v", i, err)
		}
	}
	b, err := kv.Backups(KeyProjects)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 || len(b) > MaxBackups {
		t.Fatalf("backups = %d, want 1..%d", len(b), MaxBackups)
	}
}

func TestFileKVFallsBackToLatestBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, KeyProjects, []byte(`["good"]`)); err != nil {
		t.Fatal(err)
	}
	// second write backs up the first
	if err := kv.Set(ctx, KeyProjects, []byte(`["newer"]`)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, KeyProjects+".json"), []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := kv.Get(ctx, KeyProjects)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `["good"]` {
		t.Fatalf("recovered %q", got)
	}
}

func TestFileKVCorruptWithoutBackupFails(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get(context.Background(), KeySettings); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestSQLiteKVMigratesAndKeepsHistory(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLiteKV(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	v, err := kv.SchemaVersion(ctx)
	if err != nil || v != schemaVersion {
		t.Fatalf("schema = %d, %v", v, err)
	}
	for i := 0; i < 3; i++ {
		if err := kv.Set(ctx, KeyClipboard, []byte(fmt.Sprintf(`%d`, i))); err != nil {
			t.Fatal(err)
		}
	}
	h, err := kv.History(ctx, KeyClipboard)
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 2 || string(h[0]) != "1" || string(h[1]) != "0" {
		t.Fatalf("history = %q", h)
	}
}

func TestSQLiteKVRecreatesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(DBPath(dir), []byte("THIS IS NOT SQLITE"), 0o644); err != nil {
		t.Fatal(err)
	}
	kv, err := OpenSQLiteKV(dir)
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	defer kv.Close()
	if err := kv.Set(context.Background(), KeySettings, []byte(`{}`)); err != nil {
		t.Fatalf("Set after recreate: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, BackupsDirName))
	if len(entries) == 0 {
		t.Fatalf("expected a backup of the corrupt file")
	}
}

func TestOpenKVUnknownBackend(t *testing.T) {
	if _, err := OpenKV("floppy", t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}
