// Package fileserver writes media files under a base directory.
package fileserver

import (
	"fmt"
	"os"
	"path/filepath"
)

const directoryPerms = 0o755

type FileServer struct {
	baseDir string
}

func New(baseDir string) *FileServer {
	return &FileServer{
		baseDir: baseDir,
	}
}

func (f *FileServer) BaseDirectory() string {
	return f.baseDir
}

func (f *FileServer) Write(path string, data []byte) (n int, err error) {
	if f == nil {
		return 0, nil
	}

	fullpath := filepath.Join(f.baseDir, path)
	if err := os.MkdirAll(filepath.Dir(fullpath), directoryPerms); err != nil {
		return 0, fmt.Errorf("creating parent directories: %w", err)
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	n, err = file.Write(data)
	if err != nil {
		return n, fmt.Errorf("writing file: %w", err)
	}

	return n, nil
}

func (f *FileServer) Delete(path string) error {
	if f == nil {
		return nil
	}

	fullpath := filepath.Join(f.baseDir, path)
	if err := os.Remove(fullpath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

func (f *FileServer) Exists(path string) bool {
	if f == nil {
		return false
	}
	_, err := os.Stat(filepath.Join(f.baseDir, path))
	return err == nil
}
