package manager

import (
	"os"

	"mlserve/internal/common/fsutil"
)

// SanityReport describes startup checks for the configured deployment.
type SanityReport struct {
	ModelPath        string `json:"model_path"`
	ModelFound       bool   `json:"model_found"`
	LoaderConfigured bool   `json:"loader_configured"`
	RunnerRegistered bool   `json:"runner_registered"`
	LabelsFile       string `json:"labels_file,omitempty"`
	LabelsFound      bool   `json:"labels_found"`
	Error            string `json:"error,omitempty"`
}

// OK reports whether every check passed.
func (r SanityReport) OK() bool {
	return r.ModelFound && r.LoaderConfigured && r.RunnerRegistered && (r.LabelsFile == "" || r.LabelsFound)
}

// SanityCheck validates the model file, the configured loader, the
// registry pair and the labels file without loading anything.
// It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{ModelPath: m.cache.Path(), LabelsFile: m.labelsFile}
	r.ModelFound, r.Error = checkFile(r.ModelPath)
	_, r.LoaderConfigured = m.loaders[m.loaderID]
	if _, err := m.registry.Resolve(m.loaderID, m.task); err == nil {
		r.RunnerRegistered = true
	} else if r.Error == "" {
		r.Error = err.Error()
	}
	if r.LabelsFile != "" {
		r.LabelsFound, _ = checkFile(r.LabelsFile)
	}
	return r
}

func checkFile(path string) (bool, string) {
	if path == "" {
		return false, "path is empty"
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return false, err.Error()
	}
	fi, err := os.Stat(p)
	if err != nil {
		return false, err.Error()
	}
	if fi.IsDir() {
		return false, p + " is a directory"
	}
	return true, ""
}
