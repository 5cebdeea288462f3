package manager

import (
	"time"

	"github.com/rs/zerolog"

	"mlserve/internal/inference"
	"mlserve/internal/registry"
	"mlserve/internal/runner"
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// ModelPath is the single model file served by this process.
	ModelPath string
	// Loaders available to Predict, keyed by their identity.
	Loaders []inference.Loader
	// Loader and Task are the deployment's configured dispatch pair, used by
	// PredictImage, Generate and Preload.
	Loader inference.LoaderIdentity
	Task   inference.TaskKind
	// Registry defaults to registry.Default().
	Registry *registry.Registry
	Runner   inference.RunnerConfig
	// LabelsFile is only checked by SanityCheck; loaders read it.
	LabelsFile string
	Logger     *zerolog.Logger
	Publisher  EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		cache:      inference.NewModelCache(cfg.ModelPath),
		loaders:    make(map[inference.LoaderIdentity]inference.Loader, len(cfg.Loaders)),
		loaderID:   cfg.Loader,
		task:       cfg.Task,
		registry:   cfg.Registry,
		runnerCfg:  cfg.Runner,
		labelsFile: cfg.LabelsFile,
		pub:        cfg.Publisher,
		log:        zerolog.Nop(),
		state:      StateIdle,
		startTime:  time.Now(),
	}
	for _, l := range cfg.Loaders {
		if l != nil {
			m.loaders[l.Identity()] = l
		}
	}
	if m.registry == nil {
		m.registry = registry.Default()
	}
	if m.runnerCfg.InputSize <= 0 {
		m.runnerCfg.InputSize = runner.DefaultInputSize
	}
	if m.pub == nil {
		m.pub = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	}
	return m
}
