/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func TestUndoRedoSwapsStates(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024 * 1024, MaxPerKey: 10})
	key := "proj_a"
	t0 := time.Now()
	m.Push(Snapshot{Key: key, Blob: []byte("s0"), TS: t0})
	m.Push(Snapshot{Key: key, Blob: []byte("s1"), TS: t0.Add(time.Second)})

	s, ok := m.Undo(key, []byte("s2"))
	if !ok || string(s.Blob) != "s1" {
		t.Fatalf("undo expected 's1', got ok=%v blob=%q", ok, s.Blob)
	}
	if !m.CanRedo(key) {
		t.Fatalf("redo should be available after undo")
	}
	s, ok = m.Redo(key, []byte("s1"))
	if !ok || string(s.Blob) != "s2" {
		t.Fatalf("redo expected 's2', got ok=%v blob=%q", ok, s.Blob)
	}
	s, _ = m.Undo(key, []byte("s2"))
	if string(s.Blob) != "s1" {
		t.Fatalf("undo after redo expected 's1', got %q", s.Blob)
	}
}

func TestPushDropsRedo(t *testing.T) {
	m := NewManager(Config{})
	m.Push(Snapshot{Key: "k", Blob: []byte("a")})
	m.Undo("k", []byte("b"))
	m.Push(Snapshot{Key: "k", Blob: []byte("c")})
	if m.CanRedo("k") {
		t.Fatalf("new change should drop redo")
	}
	if _, ok := m.Redo("k", nil); ok {
		t.Fatalf("redo after new change")
	}
}

func TestCoalesceKeepsEarliestState(t *testing.T) {
	m := NewManager(Config{MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	m.Push(Snapshot{Key: "k", Blob: []byte("before-drag"), TS: t0})
	m.Push(Snapshot{Key: "k", Blob: []byte("mid-drag"), TS: t0.Add(10 * time.Millisecond)})
	m.Push(Snapshot{Key: "k", Blob: []byte("late-drag"), TS: t0.Add(40 * time.Millisecond)})
	if _, _, total := m.Stats(); total != 1 {
		t.Fatalf("expected one coalesced snapshot, got %d", total)
	}
	s, _ := m.Undo("k", []byte("now"))
	if string(s.Blob) != "before-drag" {
		t.Fatalf("expected earliest state, got %q", s.Blob)
	}
}

func TestDepthCapDefaultsToFifty(t *testing.T) {
	m := NewManager(Config{})
	t0 := time.Now()
	for i := 0; i < 80; i++ {
		m.Push(Snapshot{Key: "k", Blob: []byte{byte(i)}, TS: t0.Add(time.Duration(i) * time.Second)})
	}
	if _, _, total := m.Stats(); total != DefaultMaxPerKey {
		t.Fatalf("depth = %d, want %d", total, DefaultMaxPerKey)
	}
	s, _ := m.Undo("k", nil)
	if s.Blob[0] != 79 {
		t.Fatalf("newest entry lost")
	}
}

func TestClearAndStats(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024})
	m.Push(Snapshot{Key: "k", Blob: []byte("abcdef")})
	m.Undo("k", []byte("xyz"))
	m.Push(Snapshot{Key: "k", Blob: []byte("abcdef")})
	m.Clear("k")
	tb, keys, total := m.Stats()
	if tb != 0 || keys != 0 || total != 0 {
		t.Fatalf("expected cleared stats to be zero, got tb=%d keys=%d total=%d", tb, keys, total)
	}
	if m.CanUndo("k") || m.CanRedo("k") {
		t.Fatalf("history left after clear")
	}
}

func TestGlobalPruneAcrossKeys(t *testing.T) {
	m := NewManager(Config{MaxBytes: 8})
	t0 := time.Now()
	m.Push(Snapshot{Key: "old", Blob: []byte("xxxx"), TS: t0})
	m.Push(Snapshot{Key: "new", Blob: []byte("yyyy"), TS: t0.Add(time.Second)})
	m.Push(Snapshot{Key: "new", Blob: []byte("zzzz"), TS: t0.Add(2 * time.Second)})

	if _, ok := m.Undo("old", nil); ok {
		t.Fatalf("expected the oldest key to have been pruned")
	}
	if _, ok := m.Undo("new", nil); !ok {
		t.Fatalf("expected newer history to remain")
	}
}
