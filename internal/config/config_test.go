/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	for _, name := range envByKey {
		t.Setenv(name, "")
	}
	return p
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.GridSize != 20 || !cfg.Canvas.Snap || cfg.Storage.Backend != "file" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if got := cfg.AutoSave.AutoSaveDelay(); got != 2*time.Second {
		t.Fatalf("AutoSaveDelay = %v", got)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Canvas.GridSize = 10
	cfg.Canvas.Snap = false
	cfg.Storage.Backend = "sqlite"
	cfg.AutoSave.DelayMs = 500
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Canvas.GridSize != 10 || got.Canvas.Snap || got.Storage.Backend != "sqlite" || got.AutoSave.DelayMs != 500 {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestMalformedFileKeepsDefaults(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("canvas: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Canvas.GridSize != 20 {
		t.Fatalf("defaults not kept: %#v", cfg.Canvas)
	}
}

func TestEnvOverridesCanvasAndStorage(t *testing.T) {
	isolate(t)
	t.Setenv(EnvGridSize, "25")
	t.Setenv(EnvSnap, "off")
	t.Setenv(EnvStorage, "SQLite")
	t.Setenv(EnvAutoSaveDelay, "nope")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.GridSize != 25 || cfg.Canvas.Snap || cfg.Storage.Backend != "sqlite" {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
	if cfg.AutoSave.DelayMs != 2000 {
		t.Fatalf("invalid delay override should be ignored, got %d", cfg.AutoSave.DelayMs)
	}
	if name, ok := EnvOverrideFor("canvas.grid_size"); !ok || name != EnvGridSize {
		t.Fatalf("EnvOverrideFor grid_size = %q %v", name, ok)
	}
	if _, ok := EnvOverrideFor("export.out_dir"); ok {
		t.Fatalf("export.out_dir should not be overridden")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = " DEBUG "
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/swb.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/swb.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestDataDirPrefersExplicitDir(t *testing.T) {
	cfg := Defaults()
	cfg.Storage.Dir = "/srv/builder"
	d, err := cfg.DataDir()
	if err != nil || d != "/srv/builder" {
		t.Fatalf("DataDir = %q, %v", d, err)
	}
}
