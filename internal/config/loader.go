package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mlserve/internal/common/fsutil"
	"mlserve/internal/inference"
)

// Config holds runtime parameters for the service.
// Load starts from Defaults, so keys absent from a file keep their default.
type Config struct {
	Addr       string `json:"addr" yaml:"addr" toml:"addr"`
	ModelDir   string `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	ModelName  string `json:"model_name" yaml:"model_name" toml:"model_name"`
	LabelsFile string `json:"labels_file" yaml:"labels_file" toml:"labels_file"`
	Loader     string `json:"loader" yaml:"loader" toml:"loader"`
	Task       string `json:"task" yaml:"task" toml:"task"`

	ImageSize           int     `json:"image_size" yaml:"image_size" toml:"image_size"`
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold" toml:"confidence_threshold"`
	OverlapThreshold    float64 `json:"overlap_threshold" yaml:"overlap_threshold" toml:"overlap_threshold"`
	MaxNewTokens        int     `json:"max_new_tokens" yaml:"max_new_tokens" toml:"max_new_tokens"`
	UseCache            bool    `json:"use_cache" yaml:"use_cache" toml:"use_cache"`
	ContextSize         int     `json:"context_size" yaml:"context_size" toml:"context_size"`
	Threads             int     `json:"threads" yaml:"threads" toml:"threads"`
	PromptCachePath     string  `json:"prompt_cache_path" yaml:"prompt_cache_path" toml:"prompt_cache_path"`
	OnnxLibraryPath     string  `json:"onnx_library_path" yaml:"onnx_library_path" toml:"onnx_library_path"`

	InputExample string `json:"input_example" yaml:"input_example" toml:"input_example"`
	Preload      bool   `json:"preload" yaml:"preload" toml:"preload"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile   string `json:"log_file" yaml:"log_file" toml:"log_file"`

	MaxBodyBytes          int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeoutSeconds int64 `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	// AllowPrivateImageURLs lets image_url fetch from loopback, private and
	// link-local hosts.
	AllowPrivateImageURLs bool  `json:"allow_private_image_urls" yaml:"allow_private_image_urls" toml:"allow_private_image_urls"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		Addr:                ":8080",
		ModelDir:            "./models",
		Loader:              string(inference.LoaderYOLO),
		Task:                string(inference.TaskDetector),
		ImageSize:           640,
		ConfidenceThreshold: 0.5,
		OverlapThreshold:    0.45,
		MaxNewTokens:        128,
		UseCache:            true,
		ContextSize:         2048,
		Threads:             4,
		Preload:             true,
		LogLevel:            "info",
		LogFormat:           "json",
		MaxBodyBytes:        10 << 20,
	}
}

// Load reads a configuration file based on its extension, on top of
// Defaults. Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoaderIdentity parses the configured loader.
func (c Config) LoaderIdentity() (inference.LoaderIdentity, error) {
	return inference.ParseLoaderIdentity(c.Loader)
}

// TaskKind parses the configured task.
func (c Config) TaskKind() (inference.TaskKind, error) {
	return inference.ParseTaskKind(c.Task)
}

// ModelPath joins ModelDir and ModelName.
func (c Config) ModelPath() (string, error) {
	return fsutil.JoinModelPath(c.ModelDir, c.ModelName)
}

// RunnerConfig projects the runner tunables.
func (c Config) RunnerConfig() inference.RunnerConfig {
	return inference.RunnerConfig{
		InputSize:           c.ImageSize,
		ConfidenceThreshold: float32(c.ConfidenceThreshold),
		OverlapThreshold:    float32(c.OverlapThreshold),
		MaxNewTokens:        c.MaxNewTokens,
		UseCache:            c.UseCache,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := c.LoaderIdentity(); err != nil {
		return err
	}
	if _, err := c.TaskKind(); err != nil {
		return err
	}
	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("model_name is required")
	}
	if c.ImageSize <= 0 {
		return fmt.Errorf("image_size must be positive, got %d", c.ImageSize)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be within [0,1], got %v", c.ConfidenceThreshold)
	}
	if c.OverlapThreshold < 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("overlap_threshold must be within [0,1], got %v", c.OverlapThreshold)
	}
	if c.MaxNewTokens < 0 {
		return fmt.Errorf("max_new_tokens must not be negative")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	return nil
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping
// empty items.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
