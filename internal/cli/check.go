package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"mlserve/internal/backend"
	"mlserve/internal/config"
	"mlserve/internal/registry"
)

var (
	passText = color.New(color.FgGreen, color.Bold).Sprint("PASS")
	failText = color.New(color.FgHiRed, color.Bold).Sprint("FAIL")
	warnText = color.New(color.FgYellow).Sprint("WARN")
)

func errorText(err error) string {
	return color.New(color.FgHiRed).Sprint("error: ") + err.Error()
}

func mark(ok bool) string {
	if ok {
		return passText
	}
	return failText
}

// runBackend maps loader identities to the runtime backing them.
var runBackend = map[string]string{
	"yolo":      "onnx",
	"tf-keras":  "onnx",
	"causal-lm": "llama",
}

// runCheck prints a PASS/FAIL report for the configured deployment and
// fails when any required check did not pass. Nothing is loaded.
func runCheck(cfg config.Config, out io.Writer) error {
	mgr, err := newManager(cfg, zerolog.Nop(), nil)
	if err != nil {
		return err
	}
	r := mgr.SanityCheck()

	fmt.Fprintf(out, "%s model file        %s\n", mark(r.ModelFound), r.ModelPath)
	fmt.Fprintf(out, "%s loader            %s\n", mark(r.LoaderConfigured), cfg.Loader)
	fmt.Fprintf(out, "%s runner            %s/%s\n", mark(r.RunnerRegistered), cfg.Loader, cfg.Task)
	if r.LabelsFile != "" {
		fmt.Fprintf(out, "%s labels file       %s\n", mark(r.LabelsFound), r.LabelsFile)
	}

	built := backend.Built()
	rt := runBackend[cfg.Loader]
	backendOK := built[rt]
	if backendOK {
		fmt.Fprintf(out, "%s backend           %s\n", passText, rt)
	} else {
		fmt.Fprintf(out, "%s backend           %s not compiled in (build with -tags=%s)\n", warnText, rt, rt)
	}

	if files, err := registry.ScanDir(cfg.ModelDir); err == nil && len(files) > 0 {
		sort.Strings(files)
		fmt.Fprintf(out, "     models in %s:\n", cfg.ModelDir)
		for _, f := range files {
			fmt.Fprintf(out, "       %s\n", f)
		}
	}

	if !r.OK() {
		if r.Error != "" {
			return fmt.Errorf("sanity check failed: %s", r.Error)
		}
		return fmt.Errorf("sanity check failed")
	}
	return nil
}
