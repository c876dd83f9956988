package archive

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/newthinker/trendkit/internal/core"
)

func TestLocalFS_ImplementsStorage(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
}

func TestLocalFS_WriteRead(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	data := []byte("high,low\n10,8\n")

	if err := fs.Write(ctx, "inputs/AAPL.csv", data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := fs.Read(ctx, "inputs/AAPL.csv")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestLocalFS_ReadMissing(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())

	_, err := fs.Read(context.Background(), "results/psar/AAPL/none.json")
	if !errors.Is(err, core.ErrResultNotFound) {
		t.Errorf("expected ErrResultNotFound, got %v", err)
	}
}

func TestLocalFS_RejectsEscapingKeys(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "../secret", "a/../../secret"} {
		if err := fs.Write(ctx, key, []byte("x")); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("Write(%q): expected ErrInvalidParameter, got %v", key, err)
		}
	}
}

func TestLocalFS_Exists(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	exists, _ := fs.Exists(ctx, "nonexistent.json")
	if exists {
		t.Error("expected false for nonexistent file")
	}

	fs.Write(ctx, "exists.json", []byte("{}"))
	exists, _ = fs.Exists(ctx, "exists.json")
	if !exists {
		t.Error("expected true for existing file")
	}
}

func TestLocalFS_List(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Write(ctx, "results/psar/b.json", []byte("b"))
	fs.Write(ctx, "results/psar/a.json", []byte("a"))
	fs.Write(ctx, "results/atr/c.json", []byte("c"))

	paths, err := fs.List(ctx, "results/psar")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []string{"results/psar/a.json", "results/psar/b.json"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("got %v, want %v", paths, want)
	}

	paths, err = fs.List(ctx, "results/none")
	if err != nil {
		t.Fatalf("List missing prefix: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no paths, got %v", paths)
	}
}

func TestLocalFS_Delete(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Write(ctx, "delete.json", []byte("{}"))
	if err := fs.Delete(ctx, "delete.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	exists, _ := fs.Exists(ctx, "delete.json")
	if exists {
		t.Error("file should be deleted")
	}

	if err := fs.Delete(ctx, "delete.json"); !errors.Is(err, core.ErrResultNotFound) {
		t.Errorf("second Delete: expected ErrResultNotFound, got %v", err)
	}
}
