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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	applog "spookybuilder/internal/log"
)

const (
	BackupsDirName = "backups"
	fileExt        = ".json"
	// MaxBackups is the number of backups kept per key.
	MaxBackups = 10
)

// FileKV stores each key as <dir>/<key>.json. Writes go to a temp file that is
// synced and renamed over the target; the previous value is copied into
// backups/ first. Reads of an existing but unreadable or non-JSON value fall
// back to the latest backup.
type FileKV struct {
	dir string
	mu  sync.Mutex
	log *slog.Logger
}

// NewFileKV creates dir and its backups folder if needed.
func NewFileKV(dir string) (*FileKV, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage dir is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, BackupsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileKV{dir: dir, log: applog.WithComponent("storage").With(slog.String("backend", BackendFile))}, nil
}

// Dir returns the storage root.
func (f *FileKV) Dir() string { return f.dir }

func (f *FileKV) path(key string) string { return filepath.Join(f.dir, key+fileExt) }

func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := os.ReadFile(f.path(key))
	if err == nil && json.Valid(b) {
		return b, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	l := applog.WithOperation(f.log, "get").With(slog.String("key", key))
	if err == nil {
		err = errors.New("value is not valid JSON")
	}
	data, berr := f.readLatestBackup(key)
	if berr != nil {
		l.Error("read failed and no usable backup", slog.Any("err", err), slog.Any("backup_err", berr))
		return nil, fmt.Errorf("read %s: %w; backup attempt: %v", key, err, berr)
	}
	l.Warn("recovered value from backup", slog.Any("err", err))
	return data, nil
}

func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	bdir := filepath.Join(f.dir, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(target); statErr == nil {
		stamp := time.Now().Format("20060102-150405.000")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s%s.%s.bak", key, fileExt, stamp))
		if cerr := copyFile(target, bpath); cerr != nil {
			return fmt.Errorf("backup %s: %w", key, cerr)
		}
		f.pruneBackups(key)
	}

	temp := filepath.Join(f.dir, fmt.Sprintf(".%s%s.tmp-%d-%d", key, fileExt, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, value); werr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp %s: %w", key, werr)
	}
	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(target); err == nil {
		_ = os.Remove(target)
	}
	if rerr := os.Rename(temp, target); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace %s: %w", key, rerr)
	}
	return nil
}

// Delete removes the value. Backups are kept.
func (f *FileKV) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Close() error { return nil }

// Backups lists the backup files of key, oldest first.
func (f *FileKV) Backups(key string) ([]string, error) {
	ents, err := os.ReadDir(filepath.Join(f.dir, BackupsDirName))
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := key + fileExt + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(f.dir, BackupsDirName, name))
		}
	}
	// the timestamp in the name sorts lexicographically
	sort.Strings(out)
	return out, nil
}

func (f *FileKV) latestBackup(key string) (string, error) {
	b, err := f.Backups(key)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("no backups found")
	}
	return b[len(b)-1], nil
}

func (f *FileKV) readLatestBackup(key string) ([]byte, error) {
	p, err := f.latestBackup(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	if !json.Valid(b) {
		return nil, errors.New("latest backup is not valid JSON")
	}
	return b, nil
}

func (f *FileKV) pruneBackups(key string) {
	b, err := f.Backups(key)
	if err != nil || len(b) <= MaxBackups {
		return
	}
	for _, p := range b[:len(b)-MaxBackups] {
		_ = os.Remove(p)
	}
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies src to dst, overwriting dst.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
