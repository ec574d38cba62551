package storage

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestAutoSaverCollapsesBursts(t *testing.T) {
	var calls atomic.Int32
	a := NewAutoSaver(30*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	for i := 0; i < 10; i++ {
		a.Touch()
		time.Sleep(2 * time.Millisecond)
	}
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("saves = %d, want 1", n)
	}
	if a.Pending() {
		t.Fatalf("nothing should be pending")
	}
}

func TestAutoSaverFlushAndStop(t *testing.T) {
	var calls atomic.Int32
	a := NewAutoSaver(time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	if err := a.Flush(context.Background()); err != nil || calls.Load() != 0 {
		t.Fatalf("flush without changes saved")
	}
	a.Touch()
	if err := a.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 || a.Saves() != 1 {
		t.Fatalf("flush did not save")
	}
	a.Stop()
	a.Touch()
	if a.Pending() {
		t.Fatalf("stopped saver accepted a change")
	}
}

func TestAutoSaverReportsError(t *testing.T) {
	boom := errors.New("disk full")
	a := NewAutoSaver(time.Hour, func(context.Context) error { return boom })
	a.Touch()
	if err := a.Flush(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(a.Err(), boom) || a.Saves() != 0 {
		t.Fatalf("error not recorded")
	}
}
