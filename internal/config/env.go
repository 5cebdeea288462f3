package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MLSERVE_"

// LoadDotEnv loads variables from the given .env files (default ".env")
// into the process environment. Existing variables win. A missing default
// file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	return godotenv.Load(paths...)
}

type envField struct {
	name string
	set  func(c *Config, v string) error
}

func str(dst func(c *Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error { *dst(c) = v; return nil }
}

func integer(dst func(c *Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func int64v(dst func(c *Config) *int64) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func float(dst func(c *Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = f
		return nil
	}
}

func boolean(dst func(c *Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func list(dst func(c *Config) *[]string) func(*Config, string) error {
	return func(c *Config, v string) error { *dst(c) = SplitCSV(v); return nil }
}

var envFields = []envField{
	{"ADDR", str(func(c *Config) *string { return &c.Addr })},
	{"MODEL_DIR", str(func(c *Config) *string { return &c.ModelDir })},
	{"MODEL_NAME", str(func(c *Config) *string { return &c.ModelName })},
	{"LABELS_FILE", str(func(c *Config) *string { return &c.LabelsFile })},
	{"LOADER", str(func(c *Config) *string { return &c.Loader })},
	{"TASK", str(func(c *Config) *string { return &c.Task })},
	{"IMAGE_SIZE", integer(func(c *Config) *int { return &c.ImageSize })},
	{"CONFIDENCE_THRESHOLD", float(func(c *Config) *float64 { return &c.ConfidenceThreshold })},
	{"OVERLAP_THRESHOLD", float(func(c *Config) *float64 { return &c.OverlapThreshold })},
	{"MAX_NEW_TOKENS", integer(func(c *Config) *int { return &c.MaxNewTokens })},
	{"USE_CACHE", boolean(func(c *Config) *bool { return &c.UseCache })},
	{"CONTEXT_SIZE", integer(func(c *Config) *int { return &c.ContextSize })},
	{"THREADS", integer(func(c *Config) *int { return &c.Threads })},
	{"PROMPT_CACHE_PATH", str(func(c *Config) *string { return &c.PromptCachePath })},
	{"ONNX_LIBRARY_PATH", str(func(c *Config) *string { return &c.OnnxLibraryPath })},
	{"INPUT_EXAMPLE", str(func(c *Config) *string { return &c.InputExample })},
	{"PRELOAD", boolean(func(c *Config) *bool { return &c.Preload })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.LogLevel })},
	{"LOG_FORMAT", str(func(c *Config) *string { return &c.LogFormat })},
	{"LOG_FILE", str(func(c *Config) *string { return &c.LogFile })},
	{"MAX_BODY_BYTES", int64v(func(c *Config) *int64 { return &c.MaxBodyBytes })},
	{"REQUEST_TIMEOUT_SECONDS", int64v(func(c *Config) *int64 { return &c.RequestTimeoutSeconds })},
	{"ALLOW_PRIVATE_IMAGE_URLS", boolean(func(c *Config) *bool { return &c.AllowPrivateImageURLs })},
	{"CORS_ENABLED", boolean(func(c *Config) *bool { return &c.CORSEnabled })},
	{"CORS_ALLOWED_ORIGINS", list(func(c *Config) *[]string { return &c.CORSAllowedOrigins })},
	{"CORS_ALLOWED_METHODS", list(func(c *Config) *[]string { return &c.CORSAllowedMethods })},
	{"CORS_ALLOWED_HEADERS", list(func(c *Config) *[]string { return &c.CORSAllowedHeaders })},
}

// ApplyEnv overrides fields from MLSERVE_* variables found by lookup
// (os.LookupEnv when nil). Empty values are ignored.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, f := range envFields {
		v, ok := lookup(EnvPrefix + f.name)
		if !ok || v == "" {
			continue
		}
		if err := f.set(cfg, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, f.name, err)
		}
	}
	return nil
}
