package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/yolo
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists reports whether path exists. Errors other than "not exist"
// (e.g. permission denied) count as existing so the loader can surface them.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// JoinModelPath joins a model directory and file name, expanding a leading
// '~' in dir. A name that is already absolute is returned as is. Trailing
// separators on dir are tolerated.
func JoinModelPath(dir, name string) (string, error) {
	if name == "" {
		return "", errors.New("empty model name")
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	base, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, name), nil
}
