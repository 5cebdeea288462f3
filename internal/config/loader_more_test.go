package config

import (
	"os"
	"testing"
)

func TestLoad_NonexistentFile(t *testing.T) {
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.yaml", "addr: :8080\n: broken\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected YAML unmarshal error")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.json", `{ "addr": ":8080", "model_dir": }`)
	if _, err := Load(p); err == nil {
		t.Fatalf("expected JSON unmarshal error")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "bad.toml", "addr=:8080\nmodel_dir\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected TOML unmarshal error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MLSERVE_MODEL_NAME":               "best.onnx",
		"MLSERVE_IMAGE_SIZE":               "320",
		"MLSERVE_CONFIDENCE_THRESHOLD":     "0.3",
		"MLSERVE_USE_CACHE":                "false",
		"MLSERVE_CORS_ALLOWED_ORIGINS":     "https://a.example, https://b.example",
		"MLSERVE_MAX_BODY_BYTES":           "2048",
		"MLSERVE_LOG_FILE":                 "",
		"MLSERVE_ALLOW_PRIVATE_IMAGE_URLS": "true",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	cfg := Defaults()
	cfg.LogFile = "keep.log"
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.ModelName != "best.onnx" || cfg.ImageSize != 320 || cfg.ConfidenceThreshold != 0.3 || cfg.UseCache || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogFile != "keep.log" {
		t.Fatalf("empty env value must not override")
	}
	if !cfg.AllowPrivateImageURLs || Defaults().AllowPrivateImageURLs {
		t.Fatalf("allow_private_image_urls must default off and follow env")
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "MLSERVE_THREADS" {
			return "many", true
		}
		return "", false
	}
	cfg := Defaults()
	if err := ApplyEnv(&cfg, lookup); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "test.env", "MLSERVE_TEST_DOTENV_KEY=from-file\n")
	t.Cleanup(func() { os.Unsetenv("MLSERVE_TEST_DOTENV_KEY") })
	if err := LoadDotEnv(p); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("MLSERVE_TEST_DOTENV_KEY"); got != "from-file" {
		t.Fatalf("env = %q", got)
	}
	if err := LoadDotEnv(d + "/missing.env"); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}
