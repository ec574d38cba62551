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
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"

	applog "spookybuilder/internal/log"
)

// DefaultAutoSaveDelay is the quiet period before an automatic save.
const DefaultAutoSaveDelay = 2 * time.Second

// AutoSaver collapses bursts of modifications into one save that runs after
// the delay has passed without further modifications.
type AutoSaver struct {
	save     func(context.Context) error
	debounce func(func())
	log      *slog.Logger

	saveMu  sync.Mutex
	mu      sync.Mutex
	pending bool
	stopped bool
	saves   int
	lastErr error
}

// NewAutoSaver returns a saver calling save. A non-positive delay uses DefaultAutoSaveDelay.
func NewAutoSaver(delay time.Duration, save func(context.Context) error) *AutoSaver {
	if delay <= 0 {
		delay = DefaultAutoSaveDelay
	}
	return &AutoSaver{
		save:     save,
		debounce: debounce.New(delay),
		log:      applog.WithComponent("autosave"),
	}
}

// Touch records a modification and restarts the timer.
func (a *AutoSaver) Touch() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.pending = true
	a.mu.Unlock()
	a.debounce(a.fire)
}

func (a *AutoSaver) fire() {
	if err := a.Flush(context.Background()); err != nil {
		a.log.Error("autosave failed", slog.Any("err", err))
	}
}

// Flush saves now if a modification is pending.
func (a *AutoSaver) Flush(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return nil
	}
	a.pending = false
	a.mu.Unlock()

	// a.mu is not held here: save may call back into code that calls Touch.
	err := a.save(ctx)

	a.mu.Lock()
	a.lastErr = err
	if err == nil {
		a.saves++
	}
	a.mu.Unlock()
	if err == nil {
		a.log.Debug("autosaved")
	}
	return err
}

// Pending reports whether a save is scheduled.
func (a *AutoSaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Saves returns the number of successful saves.
func (a *AutoSaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// Err returns the error of the last save attempt.
func (a *AutoSaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Stop drops any pending save and ignores later modifications.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	a.pending = false
	a.stopped = true
	a.mu.Unlock()
}
