package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"mlserve/internal/config"
	"mlserve/internal/httpapi"
	"mlserve/internal/inference"
	"mlserve/internal/logging"
	"mlserve/pkg/types"
)

type predictInput struct {
	imagePath string
	prompt    string
}

// runPredict loads the configured model, runs one prediction and writes the
// records as indented JSON.
func runPredict(ctx context.Context, cfg config.Config, in predictInput, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	mgr, err := newManager(cfg, logger, nil)
	if err != nil {
		return err
	}

	var recs []types.Record
	switch {
	case mgr.Task() == inference.TaskGenerator:
		if in.prompt == "" {
			return fmt.Errorf("--prompt is required for the generator task")
		}
		recs, err = mgr.Generate(ctx, in.prompt)
	case in.imagePath != "":
		img, lerr := httpapi.LoadImageFile(in.imagePath)
		if lerr != nil {
			return lerr
		}
		recs, err = mgr.PredictImage(ctx, img)
	default:
		return fmt.Errorf("an image path is required for the %s task", mgr.Task())
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(types.PredictResponse{Loader: string(mgr.Loader()), Task: string(mgr.Task()), Result: recs})
}
