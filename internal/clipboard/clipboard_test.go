package clipboard

import (
	"context"
	"errors"
	"testing"

	"spookybuilder/internal/domain"
	"spookybuilder/internal/storage"
)

type fakeSystem struct {
	text string
	err  error
}

func (f *fakeSystem) ReadAll() (string, error) { return f.text, f.err }
func (f *fakeSystem) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func snap(id string) domain.ComponentSnapshot {
	return domain.ComponentSnapshot{ID: id, Type: "haunted-button", Position: domain.Point{X: 10, Y: 20},
		Properties: domain.NewProperties("text", "Boo")}
}

func TestPasteEmpty(t *testing.T) {
	c := New(storage.NewMemoryKV(), nil)
	if _, err := c.Paste(context.Background()); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v", err)
	}
}

func TestCopyPasteThroughStore(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	if err := New(kv, nil).Copy(ctx, snap("comp_1")); err != nil {
		t.Fatal(err)
	}
	got, err := New(kv, nil).Paste(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "comp_1" || got.Properties.String("text") != "Boo" {
		t.Fatalf("pasted = %+v", got)
	}
}

func TestSystemClipboardWins(t *testing.T) {
	ctx := context.Background()
	sys := &fakeSystem{}
	a := New(storage.NewMemoryKV(), sys)
	if err := a.Copy(ctx, snap("comp_other_session")); err != nil {
		t.Fatal(err)
	}
	kv := storage.NewMemoryKV()
	b := New(kv, sys)
	_ = kv.Set(ctx, storage.KeyClipboard, []byte(`{"kind":"spooky-component","component":{"id":"comp_local","type":"shape"}}`))
	got, err := b.Paste(ctx)
	if err != nil || got.ID != "comp_other_session" {
		t.Fatalf("pasted = %+v, %v", got, err)
	}

	sys.text = "just some prose"
	got, err = b.Paste(ctx)
	if err != nil || got.ID != "comp_local" {
		t.Fatalf("foreign text should fall back to the store: %+v, %v", got, err)
	}
}

func TestSystemFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemoryKV(), &fakeSystem{err: errors.New("no display")})
	if err := c.Copy(ctx, snap("comp_2")); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if got, err := c.Paste(ctx); err != nil || got.ID != "comp_2" {
		t.Fatalf("Paste = %+v, %v", got, err)
	}
}
