package cli

import (
	"fmt"

	"mlserve/internal/backend"
	"mlserve/internal/config"
)

// resolveConfig layers defaults, the config file, MLSERVE_* variables and
// finally command line flags, then validates the result.
func resolveConfig(f *flags, lookup func(string) (string, bool)) (config.Config, error) {
	var envFiles []string
	if f.envFile != "" {
		envFiles = append(envFiles, f.envFile)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return config.Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := config.Defaults()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if err := config.ApplyEnv(&cfg, lookup); err != nil {
		return config.Config{}, err
	}
	applyFlags(&cfg, f)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, f *flags) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Addr, f.addr)
	set(&cfg.ModelDir, f.modelDir)
	set(&cfg.ModelName, f.modelName)
	set(&cfg.Loader, f.loader)
	set(&cfg.Task, f.task)
	set(&cfg.LabelsFile, f.labelsFile)
	set(&cfg.LogLevel, f.logLevel)
	set(&cfg.LogFormat, f.logFormat)
}

func backendOptions(cfg config.Config) backend.Options {
	return backend.Options{
		OnnxLibraryPath: cfg.OnnxLibraryPath,
		LabelsFile:      cfg.LabelsFile,
		ContextSize:     cfg.ContextSize,
		Threads:         cfg.Threads,
		PromptCachePath: cfg.PromptCachePath,
	}
}
