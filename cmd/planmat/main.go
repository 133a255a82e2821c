package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/matt1432/planmat/internal/descriptor"
	"github.com/matt1432/planmat/internal/emit"
	"github.com/matt1432/planmat/internal/lockfile"
	"github.com/matt1432/planmat/internal/manifest"
	"github.com/matt1432/planmat/internal/matrix"
	"github.com/matt1432/planmat/internal/plan"
	"github.com/matt1432/planmat/internal/platform"
	"github.com/matt1432/planmat/internal/source"
	"github.com/matt1432/planmat/internal/store"
)

var (
	manifestPath   string
	descriptorPath string
	sourceRoot     string
	indexPath      string
	outputPath     string
	failFast       bool
	verbose        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "planmat",
		Short: "Evaluates a package build descriptor across the supported platform matrix",
		Long:  "planmat projects a single declarative build descriptor onto every supported platform and emits one fully resolved, reproducible build plan per platform, plus dev-shell and default-package descriptors.",
	}

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the build descriptor and emit the plan matrix",
		RunE:  runEval,
	}

	evalCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "./package.yaml", "Package manifest path")
	evalCmd.Flags().StringVarP(&descriptorPath, "descriptor", "d", "./build.hcl", "Build descriptor path")
	evalCmd.Flags().StringVarP(&sourceRoot, "source", "s", ".", "Source tree root")
	evalCmd.Flags().StringVarP(&indexPath, "index", "i", "./toolchains.yaml", "Toolchain index path")
	evalCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the matrix document (default stdout)")
	evalCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failing platform instead of evaluating the rest")
	evalCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	platformsCmd := &cobra.Command{
		Use:   "platforms",
		Short: "List the supported platforms",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range platform.All() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(platformsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	setupLogging()

	slog.Debug("loading manifest", "path", manifestPath)
	meta, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	slog.Debug("loading descriptor", "path", descriptorPath)
	desc, err := descriptor.Load(descriptorPath)
	if err != nil {
		return err
	}

	tree, err := source.Select(os.DirFS(sourceRoot), desc.Source.Patterns)
	if err != nil {
		return fmt.Errorf("selecting source: %w", err)
	}
	slog.Debug("selected source files", "count", len(tree.Files()))

	lock, err := lockfile.NewRef(sourceRoot, desc.LockFile)
	if err != nil {
		return err
	}

	slog.Debug("loading toolchain index", "path", indexPath)
	idx, err := store.Load(indexPath)
	if err != nil {
		return err
	}

	builder := plan.NewBuilder(meta, tree, lock, desc)
	evaluator := matrix.NewEvaluator(builder, desc.Formatter)

	var m matrix.Matrix
	var failed map[platform.Platform]error
	if failFast {
		m, err = evaluator.Evaluate(idx.Collection)
		if err != nil {
			return err
		}
	} else {
		m, failed = evaluator.EvaluateIsolated(idx.Collection)
		for _, p := range platform.All() {
			if err := failed[p]; err != nil {
				slog.Error("platform evaluation failed", "error", err)
			}
		}
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	if err := emit.NewEmitter(out).Emit(meta.Name, meta.Version, m); err != nil {
		return err
	}

	slog.Info("evaluated platform matrix",
		"package", meta.Name,
		"version", meta.Version,
		"platforms", len(m),
		"failed", len(failed),
	)

	if len(failed) > 0 {
		return fmt.Errorf("evaluation failed for %d of %d platforms", len(failed), len(platform.All()))
	}
	return nil
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func openOutput() (io.Writer, func(), error) {
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
