package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SaudiBrother/Audio-checker/internal/app"
)

var (
	// Batch command flags
	batchSampleFormat  string
	batchSampleRate    int
	batchChannels      int
	batchConcurrency   int
	batchPattern       string
	batchOutputFile    string
	batchTransformSize int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [flags] [pcm-files-or-dirs...]",
	Short: "Analyze many PCM inputs concurrently",
	Long: `Analyze a set of raw PCM inputs through the batch scheduler.

Directories are expanded with the --pattern glob. Inputs are queued FIFO
and processed with up to --concurrency analyses in flight; one input's
failure never affects the others.

Examples:
  # Analyze every .pcm file under a directory with 4 workers
  audio-checker batch --concurrency 4 ./captures

  # Mix explicit files and directories, write a CSV report
  audio-checker batch -o csv --output-file report.csv a.pcm b.pcm ./more`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchSampleFormat, "format", "f", "",
		"input sample format (s16le, f32le, f64le)")
	batchCmd.Flags().IntVar(&batchSampleRate, "rate", 0,
		"input sample rate in Hz")
	batchCmd.Flags().IntVar(&batchChannels, "channels", 0,
		"input channel count")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0,
		"maximum concurrent analyses (default 2)")
	batchCmd.Flags().StringVar(&batchPattern, "pattern", "*.pcm",
		"glob pattern for expanding directories")
	batchCmd.Flags().IntVar(&batchTransformSize, "transform-size", 0,
		"FFT size, power of two (default 4096)")
	batchCmd.Flags().StringVar(&batchOutputFile, "output-file", "",
		"write results to file instead of stdout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	paths, err := expandInputs(args, batchPattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no inputs matched")
	}

	appCtx := &app.Context{
		ConfigFile:    configFile,
		OutputFile:    batchOutputFile,
		OutputFormat:  outputFormat,
		SampleFormat:  batchSampleFormat,
		SampleRate:    batchSampleRate,
		Channels:      batchChannels,
		TransformSize: batchTransformSize,
		Concurrency:   batchConcurrency,
		Verbose:       verbose,
		Quiet:         quiet,
	}

	analyzer, err := app.NewAnalyzerApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	return analyzer.Run(ctx, paths)
}

// expandInputs resolves a mix of files and directories into a sorted,
// de-duplicated list of file paths. Directories are expanded non-recursively
// with the given glob pattern.
func expandInputs(args []string, pattern string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(arg, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return paths, nil
}
