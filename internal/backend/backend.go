// Package backend binds loader identities to the concrete model runtimes
// compiled into this binary.
package backend

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"mlserve/internal/backend/llama"
	"mlserve/internal/backend/onnx"
	"mlserve/internal/common/fsutil"
	"mlserve/internal/inference"
)

// Options carries the runtime settings loaders need.
type Options struct {
	OnnxLibraryPath string
	LabelsFile      string
	ContextSize     int
	Threads         int
	PromptCachePath string
}

// ForIdentity returns the Loader for a configured identity.
//
//	yolo      -> onnxruntime (YOLOv8 detect/classify export)
//	tf-keras  -> onnxruntime (tf2onnx export)
//	causal-lm -> llama.cpp (GGUF)
func ForIdentity(id inference.LoaderIdentity, opts Options) (inference.Loader, error) {
	switch id {
	case inference.LoaderYOLO, inference.LoaderTFKeras:
		return inference.NewLoader(id, func(path string) (inference.ModelHandle, error) {
			names, err := LoadLabels(opts.LabelsFile)
			if err != nil {
				return nil, err
			}
			return onnx.Load(path, onnx.Options{LibraryPath: opts.OnnxLibraryPath, Names: names})
		}), nil
	case inference.LoaderCausalLM:
		return inference.NewLoader(id, func(path string) (inference.ModelHandle, error) {
			return llama.Load(path, llama.Options{
				ContextSize:     opts.ContextSize,
				Threads:         opts.Threads,
				PromptCachePath: opts.PromptCachePath,
			})
		}), nil
	default:
		return nil, fmt.Errorf("no backend for loader identity %q", id)
	}
}

// Built reports which optional runtimes are linked into this binary.
func Built() map[string]bool {
	return map[string]bool{"onnx": onnx.Built, "llama": llama.Built}
}

// LoadLabels reads a class table with one name per line. Blank lines and
// lines starting with '#' are skipped. An empty path yields no labels.
func LoadLabels(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()
	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return names, nil
}
