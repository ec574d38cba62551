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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	Theme string `yaml:"theme"` // builder theme name, "spooky" by default
}

type CanvasConfig struct {
	GridSize int  `yaml:"grid_size"`
	Snap     bool `yaml:"snap"`
	ShowGrid bool `yaml:"show_grid"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" | "sqlite"
	Dir     string `yaml:"dir"`     // empty means the per-user data dir
}

type AutoSaveConfig struct {
	Enabled bool `yaml:"enabled"`
	DelayMs int  `yaml:"delay_ms"`
}

type ExportConfig struct {
	OutDir   string  `yaml:"out_dir"`
	PNGScale float64 `yaml:"png_scale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	General       GeneralConfig  `yaml:"general"`
	Canvas        CanvasConfig   `yaml:"canvas"`
	Storage       StorageConfig  `yaml:"storage"`
	AutoSave      AutoSaveConfig `yaml:"autosave"`
	Export        ExportConfig   `yaml:"export"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "spooky"},
		Canvas:        CanvasConfig{GridSize: 20, Snap: true, ShowGrid: true},
		Storage:       StorageConfig{Backend: "file"},
		AutoSave:      AutoSaveConfig{Enabled: true, DelayMs: 2000},
		Export:        ExportConfig{OutDir: ".", PNGScale: 1},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvTheme         = "SWB_THEME"
	EnvGridSize      = "SWB_GRID_SIZE"
	EnvSnap          = "SWB_SNAP"
	EnvStorage       = "SWB_STORAGE"
	EnvDataDir       = "SWB_DATA_DIR"
	EnvAutoSave      = "SWB_AUTOSAVE"
	EnvAutoSaveDelay = "SWB_AUTOSAVE_DELAY_MS"
	EnvExportDir     = "SWB_EXPORT_DIR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SWB_LOG_LEVEL"
	EnvLogFormat = "SWB_LOG_FORMAT"
	EnvLogSource = "SWB_LOG_SOURCE"
	EnvLogFile   = "SWB_LOG_FILE"
)

// EnvConfigPath points Load and Save at an explicit file (used by tests and portable installs).
const EnvConfigPath = "SWB_CONFIG"

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	base, err := userDir(os.Getenv("XDG_CONFIG_HOME"), ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DataDir returns the directory holding the local storage files.
func (c AppConfig) DataDir() (string, error) {
	if d := strings.TrimSpace(c.Storage.Dir); d != "" {
		return d, nil
	}
	return userDir(os.Getenv("XDG_DATA_HOME"), filepath.Join(".local", "share"))
}

func userDir(xdg, homeRel string) (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "SpookyBuilder")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "SpookyBuilder")
	default:
		if xdg != "" {
			base = filepath.Join(xdg, "spookybuilder")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, homeRel, "spookybuilder")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve user directory")
	}
	return base, nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// A malformed file is reported but the defaults plus env overrides are still returned.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var loadErr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			loadErr = err
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, loadErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.General.Theme) != "" {
		dst.General.Theme = strings.TrimSpace(src.General.Theme)
	}
	if src.Canvas.GridSize > 0 {
		dst.Canvas.GridSize = src.Canvas.GridSize
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Canvas.Snap = src.Canvas.Snap
	dst.Canvas.ShowGrid = src.Canvas.ShowGrid
	if b := strings.ToLower(strings.TrimSpace(src.Storage.Backend)); b != "" {
		dst.Storage.Backend = b
	}
	if strings.TrimSpace(src.Storage.Dir) != "" {
		dst.Storage.Dir = strings.TrimSpace(src.Storage.Dir)
	}
	dst.AutoSave.Enabled = src.AutoSave.Enabled
	if src.AutoSave.DelayMs > 0 {
		dst.AutoSave.DelayMs = src.AutoSave.DelayMs
	}
	if strings.TrimSpace(src.Export.OutDir) != "" {
		dst.Export.OutDir = strings.TrimSpace(src.Export.OutDir)
	}
	if src.Export.PNGScale > 0 {
		dst.Export.PNGScale = src.Export.PNGScale
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGridSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.GridSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSnap)); v != "" {
		cfg.Canvas.Snap = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorage)); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutoSave)); v != "" {
		cfg.AutoSave.Enabled = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutoSaveDelay)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AutoSave.DelayMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"general.theme":     EnvTheme,
	"canvas.grid_size":  EnvGridSize,
	"canvas.snap":       EnvSnap,
	"storage.backend":   EnvStorage,
	"storage.dir":       EnvDataDir,
	"autosave.enabled":  EnvAutoSave,
	"autosave.delay_ms": EnvAutoSaveDelay,
	"export.out_dir":    EnvExportDir,
	"logging.level":     EnvLogLevel,
	"logging.format":    EnvLogFormat,
	"logging.source":    EnvLogSource,
	"logging.file":      EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envByKey[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// AutoSaveDelay returns the debounce delay, falling back to the default for non-positive values.
func (a AutoSaveConfig) AutoSaveDelay() time.Duration {
	if a.DelayMs <= 0 {
		return time.Duration(Defaults().AutoSave.DelayMs) * time.Millisecond
	}
	return time.Duration(a.DelayMs) * time.Millisecond
}
