// Package cli wires configuration, logging, the prediction manager and the
// HTTP API into the mlserve command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// flags carries the persistent command line settings shared by every
// subcommand. Empty values leave the file/environment configuration alone.
type flags struct {
	configPath string
	envFile    string
	addr       string
	modelDir   string
	modelName  string
	loader     string
	task       string
	labelsFile string
	logLevel   string
	logFormat  string
}

// Indirection points so tests can observe dispatch without starting a
// server or loading a model.
var (
	fnServe   = runServe
	fnCheck   = runCheck
	fnPredict = runPredict
)

// buildRootCmd constructs the Cobra command tree writing to out.
func buildRootCmd(out io.Writer) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "mlserve",
		Short:         "Single-model inference server for detection, classification and generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&f.envFile, "env-file", "", "Load environment variables from this file (default .env when present)")
	pf.StringVar(&f.addr, "addr", "", "HTTP listen address, e.g. :8080")
	pf.StringVar(&f.modelDir, "model-dir", "", "Directory holding the model file")
	pf.StringVar(&f.modelName, "model-name", "", "Model file name inside --model-dir")
	pf.StringVar(&f.loader, "loader", "", "Loader identity: yolo|tf-keras|causal-lm")
	pf.StringVar(&f.task, "task", "", "Task kind: detector|classifier|generator")
	pf.StringVar(&f.labelsFile, "labels-file", "", "Class names, one per line")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format: json|console")

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Example: "  mlserve serve --config mlserve.yaml\n  mlserve serve --model-name yolov8n.onnx --labels-file coco.names",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(f, os.LookupEnv)
			if err != nil {
				return err
			}
			return fnServe(cmd.Context(), cfg)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the model file, labels and runtime backends without loading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(f, os.LookupEnv)
			if err != nil {
				return err
			}
			return fnCheck(cfg, cmd.OutOrStdout())
		},
	}

	var prompt string
	predictCmd := &cobra.Command{
		Use:     "predict [image]",
		Short:   "Run one prediction and print the records as JSON",
		Example: "  mlserve predict street.jpg\n  mlserve predict --loader causal-lm --task generator --prompt 'Hello'",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(f, os.LookupEnv)
			if err != nil {
				return err
			}
			in := predictInput{prompt: prompt}
			if len(args) == 1 {
				in.imagePath = args[0]
			}
			return fnPredict(cmd.Context(), cfg, in, cmd.OutOrStdout())
		},
	}
	predictCmd.Flags().StringVar(&prompt, "prompt", "", "Prompt for generator models")

	root.AddCommand(serveCmd, checkCmd, predictCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	root.AddCommand(completionCmd)

	return root
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns 0 on success, 2 when no command was given and 1 on error.
func MainWithArgs(args []string) int {
	root := buildRootCmd(os.Stdout)
	if len(args) == 0 {
		_ = root.Usage()
		return 2
	}
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/mlserve.
func Main() int { return MainWithArgs(os.Args[1:]) }
