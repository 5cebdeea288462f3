package config

import (
	"os"
	"path/filepath"
	"testing"

	"mlserve/internal/inference"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodel_dir: /srv/models\nmodel_name: best.onnx\nloader: yolo\ntask: classifier\nimage_size: 224\ncors_allowed_origins: [\"https://a.example\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelDir != "/srv/models" || cfg.ModelName != "best.onnx" || cfg.Task != "classifier" || cfg.ImageSize != 224 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	// Absent keys keep their defaults.
	if cfg.ConfidenceThreshold != 0.5 || cfg.OverlapThreshold != 0.45 || !cfg.UseCache || !cfg.Preload {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model_name":"model.gguf","loader":"causal-lm","task":"generator","max_new_tokens":64,"use_cache":false}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Loader != "causal-lm" || cfg.MaxNewTokens != 64 || cfg.UseCache {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodel_name=\"keras.onnx\"\nloader=\"tf-keras\"\ntask=\"classifier\"\nconfidence_threshold=0.25\npreload=false\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.Loader != "tf-keras" || cfg.ConfidenceThreshold != 0.25 || cfg.Preload {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestValidate(t *testing.T) {
	good := Defaults()
	good.ModelName = "best.onnx"
	if err := good.Validate(); err != nil {
		t.Fatalf("defaults with model name should validate: %v", err)
	}
	cases := map[string]func(c *Config){
		"loader":     func(c *Config) { c.Loader = "pytorch" },
		"task":       func(c *Config) { c.Task = "segmenter" },
		"model name": func(c *Config) { c.ModelName = " " },
		"image size": func(c *Config) { c.ImageSize = 0 },
		"confidence": func(c *Config) { c.ConfidenceThreshold = 1.5 },
		"overlap":    func(c *Config) { c.OverlapThreshold = -0.1 },
		"log format": func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range cases {
		c := good
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestModelPathAndRunnerConfig(t *testing.T) {
	c := Defaults()
	c.ModelDir = "/srv/models/"
	c.ModelName = "best.onnx"
	p, err := c.ModelPath()
	if err != nil || p != "/srv/models/best.onnx" {
		t.Fatalf("model path = %q %v", p, err)
	}
	rc := c.RunnerConfig()
	if rc.InputSize != 640 || rc.ConfidenceThreshold != 0.5 || rc.OverlapThreshold != 0.45 || rc.MaxNewTokens != 128 || !rc.UseCache {
		t.Fatalf("unexpected runner config %+v", rc)
	}
	id, err := c.LoaderIdentity()
	if err != nil || id != inference.LoaderYOLO {
		t.Fatalf("loader = %v %v", id, err)
	}
	task, err := c.TaskKind()
	if err != nil || task != inference.TaskDetector {
		t.Fatalf("task = %v %v", task, err)
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}
