package fileserver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaseDirectory(t *testing.T) {
	base := t.TempDir()
	fs := New(base)
	if got := fs.BaseDirectory(); got != base {
		t.Errorf("BaseDirectory() = %q, want %q", got, base)
	}
}

func TestWriteExistsDelete(t *testing.T) {
	fs := New(t.TempDir())
	path := filepath.Join("recipes", "7", "image.png")
	data := []byte("not really a png")

	if fs.Exists(path) {
		t.Fatal("Exists() = true before write")
	}

	n, err := fs.Write(path, data)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() n = %d, want %d", n, len(data))
	}
	if !fs.Exists(path) {
		t.Error("Exists() = false after write")
	}

	got, err := os.ReadFile(filepath.Join(fs.BaseDirectory(), path))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("file contents = %q, want %q", got, data)
	}

	if err := fs.Delete(path); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if fs.Exists(path) {
		t.Error("Exists() = true after delete")
	}
}

func TestWrite_Overwrite(t *testing.T) {
	fs := New(t.TempDir())
	path := filepath.Join("recipes", "7", "image.png")

	if _, err := fs.Write(path, []byte("first")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if _, err := fs.Write(path, []byte("second")); err != nil {
		t.Fatalf("Write() overwrite error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(fs.BaseDirectory(), path))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("file contents = %q, want %q", got, "second")
	}
}

func TestDelete_Missing(t *testing.T) {
	fs := New(t.TempDir())
	if err := fs.Delete(filepath.Join("recipes", "404", "image.png")); err != nil {
		t.Errorf("Delete() on missing file: %v", err)
	}
}

func TestNilReceiver(t *testing.T) {
	var fs *FileServer
	if _, err := fs.Write("x", []byte("y")); err != nil {
		t.Errorf("nil Write() error: %v", err)
	}
	if err := fs.Delete("x"); err != nil {
		t.Errorf("nil Delete() error: %v", err)
	}
	if fs.Exists("x") {
		t.Error("nil Exists() = true")
	}
}
