package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/funvibe/callsite/internal/config"
	"github.com/funvibe/callsite/internal/pipeline"
	"github.com/funvibe/callsite/pkg/bootstrap"
)

const defaultModulePath = "github.com/funvibe/callsite"

var (
	// Global flags
	verbose bool

	// Probe flags
	jsonOutput bool

	// Generate flags
	outDir      string
	packageName string
	modulePath  string

	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "callsite",
		Short: "Bootstrap switch call sites and carrier classes from a manifest",
		Long: `callsite reads a YAML manifest of string switches, enum switches and
carrier shapes.

  probe  bootstraps every call site and prints the case index for each probe
  gen    writes precompiled carrier classes as Go source`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				return nil
			}
			l, err := buildLogger(verbose, isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	probeCmd := &cobra.Command{
		Use:   "probe <manifest>",
		Short: "Bootstrap every call site and print probe results",
		Args:  cobra.ExactArgs(1),
		RunE:  runProbe,
	}
	probeCmd.Flags().BoolVar(&jsonOutput, "json", false, "print one JSON object per probe")

	genCmd := &cobra.Command{
		Use:   "gen <manifest>",
		Short: "Generate precompiled carrier classes",
		Long: `Generates one Go struct per distinct carrier shape in the manifest, with an
init function that registers it through bootstrap.RegisterCarrier.

Example:
  callsite gen sites.yaml --out ./internal/carriers --package carriers`,
		Args: cobra.ExactArgs(1),
		RunE: runGen,
	}
	genCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	genCmd.Flags().StringVarP(&packageName, "package", "p", config.GeneratedPackageName, "package name of the generated file")
	genCmd.Flags().StringVar(&modulePath, "module", defaultModulePath, "module path that provides pkg/bootstrap")

	root.AddCommand(probeCmd, genCmd)
	return root
}

func buildLogger(debug, color bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if color {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func runProbe(cmd *cobra.Command, args []string) error {
	rt := bootstrap.NewRuntime(bootstrap.WithLogger(logger))
	ctx := pipeline.NewPipelineContext(args[0], rt, logger)
	ctx = pipeline.New(
		pipeline.LoadProcessor{},
		pipeline.BootstrapProcessor{},
		pipeline.ProbeProcessor{},
	).Run(ctx)
	if err := reportErrors(cmd, ctx); err != nil {
		return err
	}

	if err := printResults(cmd, ctx.Results); err != nil {
		return err
	}

	for _, c := range rt.Classes() {
		logger.Debug("carrier class",
			zap.String("name", c.Descriptor.Name),
			zap.String("descriptor", c.Descriptor.String()),
			zap.Stringer("id", c.Descriptor.ID),
			zap.String("backend", c.Backend))
	}
	return nil
}

func printResults(cmd *cobra.Command, results []pipeline.ProbeResult) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SITE\tKIND\tINPUT\tOUTPUT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Site, r.Kind, r.Input, r.Output)
	}
	return w.Flush()
}

func runGen(cmd *cobra.Command, args []string) error {
	ctx := pipeline.NewPipelineContext(args[0], nil, logger)
	ctx = pipeline.New(
		pipeline.LoadProcessor{},
		pipeline.GenerateProcessor{ModulePath: modulePath, PackageName: packageName},
	).Run(ctx)
	if err := reportErrors(cmd, ctx); err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	target := filepath.Join(outDir, ctx.Generated.Filename)
	if err := os.WriteFile(target, []byte(ctx.Generated.Content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	logger.Info("generated carriers", zap.String("file", target))
	fmt.Fprintln(cmd.OutOrStdout(), target)
	return nil
}

func reportErrors(cmd *cobra.Command, ctx *pipeline.PipelineContext) error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	for _, err := range ctx.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	return fmt.Errorf("%s: %d error(s)", ctx.FilePath, len(ctx.Errors))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
