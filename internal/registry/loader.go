package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mlserve/internal/common/fsutil"
)

// ModelExtensions are the file extensions recognised as model artifacts.
var ModelExtensions = []string{".onnx", ".gguf", ".bin", ".pt", ".h5", ".keras"}

// ScanDir lists model files in dir whose extension (case-insensitive) is one
// of exts, or one of ModelExtensions when exts is empty. Paths are absolute.
// Subdirectories are not walked.
func ScanDir(dir string, exts ...string) ([]string, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	if len(exts) == 0 {
		exts = ModelExtensions
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				out = append(out, filepath.Join(abs, e.Name()))
				break
			}
		}
	}
	return out, nil
}
