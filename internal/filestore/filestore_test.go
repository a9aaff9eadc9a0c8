package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocal_WriteRecipeImage(t *testing.T) {
	base := t.TempDir()
	store := NewLocal(base, "/media/")

	urlPath, err := store.WriteRecipeImage(context.Background(), 7, ".png", []byte("image bytes"))
	if err != nil {
		t.Fatalf("WriteRecipeImage() error: %v", err)
	}
	if want := "/media/recipes/7/image.png"; urlPath != want {
		t.Errorf("urlPath = %q, want %q", urlPath, want)
	}

	onDisk := filepath.Join(base, "recipes", "7", "image.png")
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("reading stored image: %v", err)
	}
	if string(data) != "image bytes" {
		t.Errorf("stored contents = %q, want %q", data, "image bytes")
	}
}

func TestLocal_Remove(t *testing.T) {
	base := t.TempDir()
	store := NewLocal(base, "/media")

	urlPath, err := store.WriteRecipeImage(context.Background(), 7, ".jpg", []byte("x"))
	if err != nil {
		t.Fatalf("WriteRecipeImage() error: %v", err)
	}
	if err := store.Remove(context.Background(), urlPath); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "recipes", "7", "image.jpg")); !os.IsNotExist(err) {
		t.Errorf("image still on disk after Remove, stat err = %v", err)
	}
}

func TestLocal_RemoveOutsidePrefix(t *testing.T) {
	store := NewLocal(t.TempDir(), "/media")
	if err := store.Remove(context.Background(), "/elsewhere/recipes/7/image.png"); err == nil {
		t.Error("Remove() accepted a path outside the url prefix")
	}
}
