package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/RyanBlaney/latency-benchmark-common/output"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/SaudiBrother/Audio-checker/configs"
	"github.com/SaudiBrother/Audio-checker/internal/engine"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/pcm"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/quality"
	"github.com/SaudiBrother/Audio-checker/pkg/audio/spectral"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ConfigFile        string // Application configuration file (optional)
	OutputFile        string
	OutputFormat      string
	SampleFormat      string
	SampleRate        int
	Channels          int
	TransformSize     int
	CutoffThresholdDb float64
	Concurrency       int
	Verbose           bool
	Quiet             bool
	IncludeFeatures   bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// FileResult is the per-input output record.
type FileResult struct {
	File     string             `json:"file"`
	Verdict  *quality.Verdict   `json:"verdict,omitempty"`
	Features *spectral.Features `json:"features,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// AnalyzerApp handles the analysis application lifecycle
type AnalyzerApp struct {
	ctx    *Context
	config *configs.Config
	engine *engine.Engine
	logger logging.Logger
}

// NewAnalyzerApp creates a new analyzer application
func NewAnalyzerApp(ctx *Context) (*AnalyzerApp, error) {
	logger := setupLogging(ctx)
	ctx.Logger = logger

	config, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	eng, err := engine.NewEngine(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis engine: %w", err)
	}

	logger.Debug("Analyzer application initialized", logging.Fields{
		"config_file":    ctx.ConfigFile,
		"output_format":  ctx.OutputFormat,
		"transform_size": config.Analysis.TransformSize,
		"sample_format":  config.Input.SampleFormat,
		"concurrency":    config.Batch.Concurrency,
	})

	return &AnalyzerApp{
		ctx:    ctx,
		config: config,
		engine: eng,
		logger: logger,
	}, nil
}

// Run analyzes the given inputs and writes the results. A single input
// is analyzed synchronously; multiple inputs go through the batch
// scheduler. The path "-" reads raw PCM from stdin.
func (app *AnalyzerApp) Run(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no inputs to analyze")
	}

	start := time.Now()

	var results []FileResult
	if len(paths) == 1 {
		results = []FileResult{app.analyzeOne(ctx, paths[0])}
	} else {
		var err error
		results, err = app.analyzeBatch(ctx, paths)
		if err != nil {
			return err
		}
	}

	if err := app.outputResults(results, time.Since(start)); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed == len(results) {
		return fmt.Errorf("all analyses failed")
	}
	return nil
}

// analyzeOne runs the pipeline synchronously for a single input.
func (app *AnalyzerApp) analyzeOne(ctx context.Context, path string) FileResult {
	result := FileResult{File: path}

	buf, err := app.readInput(path)
	if err != nil {
		app.logger.Error(err, "Failed to read input", logging.Fields{"file": path})
		result.Error = err.Error()
		return result
	}

	analysis, err := app.engine.AnalyzeDetailed(ctx, buf)
	if err != nil {
		app.logger.Error(err, "Analysis failed", logging.Fields{"file": path})
		result.Error = err.Error()
		return result
	}

	result.Verdict = analysis.Verdict
	if app.includeFeatures() {
		result.Features = analysis.Features
	}
	return result
}

// analyzeBatch runs the inputs through the scheduler with the configured
// concurrency limit. Read failures are reported per item without blocking
// the rest of the batch.
func (app *AnalyzerApp) analyzeBatch(ctx context.Context, paths []string) ([]FileResult, error) {
	scheduler := engine.NewScheduler(app.engine, app.config.Batch.Concurrency, app.logger)

	resultByPath := make(map[string]*FileResult, len(paths))
	var batch []engine.BatchItem
	for _, path := range paths {
		result := &FileResult{File: path}
		resultByPath[path] = result

		buf, err := app.readInput(path)
		if err != nil {
			app.logger.Error(err, "Failed to read input", logging.Fields{"file": path})
			result.Error = err.Error()
			continue
		}
		batch = append(batch, engine.BatchItem{ID: path, Buffer: buf})
	}

	if len(batch) > 0 {
		var bar *progressbar.ProgressBar
		if !app.ctx.Quiet {
			bar = progressbar.NewOptions(len(batch),
				progressbar.OptionSetDescription("analyzing"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(50),
				progressbar.OptionSetWriter(os.Stderr),
			)
		}

		scheduled, err := scheduler.SubmitBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to submit batch: %w", err)
		}

		for br := range scheduled {
			result := resultByPath[br.ID]
			if br.Err != nil {
				result.Error = br.Err.Error()
			} else {
				result.Verdict = br.Verdict
			}
			if bar != nil {
				bar.Add(1)
			}
		}
		if bar != nil {
			bar.Finish()
			fmt.Fprintln(os.Stderr)
		}

		stats := scheduler.Stats()
		app.logger.Debug("Batch finished", logging.Fields{
			"submitted": stats.Submitted,
			"completed": stats.Completed,
			"failed":    stats.Failed,
		})
	}

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, *resultByPath[path])
	}
	return results, nil
}

// readInput decodes raw PCM from a file, or from stdin for "-".
func (app *AnalyzerApp) readInput(path string) (*pcm.Buffer, error) {
	format, err := pcm.ParseSampleFormat(app.config.Input.SampleFormat)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	return pcm.ReadRaw(r, format, app.config.Input.Channels, app.config.Input.SampleRate)
}

func (app *AnalyzerApp) includeFeatures() bool {
	return app.config.Output.IncludeFeatures || app.ctx.IncludeFeatures
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) logging.Logger {
	return logging.NewDefaultLogger()
}

// outputResults handles all result output
func (app *AnalyzerApp) outputResults(results []FileResult, elapsed time.Duration) error {
	outputData := map[string]any{
		"results":   results,
		"timestamp": time.Now(),
		"configuration": map[string]any{
			"transform_size":      app.config.Analysis.TransformSize,
			"cutoff_threshold_db": app.config.Analysis.CutoffThresholdDb,
			"smoothing_factor":    app.config.Analysis.SmoothingFactor,
			"window_seconds":      app.config.Analysis.WindowSeconds,
			"sample_format":       app.config.Input.SampleFormat,
		},
	}

	var formatter output.Formatter
	switch app.ctx.OutputFormat {
	case "json":
		formatter = &output.JSONFormatter{}
	case "yaml":
		formatter = &output.YAMLFormatter{}
	case "csv":
		formatter = &output.CSVFormatter{}
	case "table":
		formatter = &output.TableFormatter{}
	default:
		formatter = &output.JSONFormatter{}
	}

	formattedData, err := formatter.Format(outputData, true)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	if !app.ctx.Quiet {
		app.printSummary(results, elapsed)
	}

	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = os.Stdout.Write(formattedData)
	return err
}

// printSummary writes a human-readable recap to stderr.
func (app *AnalyzerApp) printSummary(results []FileResult, elapsed time.Duration) {
	p := message.NewPrinter(language.English)

	analyzed, upscaled, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
		default:
			analyzed++
			if r.Verdict.IsUpscaled {
				upscaled++
			}
		}
	}

	p.Fprintf(os.Stderr, "Analyzed %d input(s) in %.2fs: %d suspect, %d failed\n",
		analyzed, elapsed.Seconds(), upscaled, failed)

	for _, r := range results {
		if r.Error != "" || !r.Verdict.IsUpscaled {
			continue
		}
		p.Fprintf(os.Stderr, "  %s: %s (score %d, confidence %d, cutoff %.0f Hz)\n",
			r.File, r.Verdict.QualityLabel, r.Verdict.QualityScore,
			r.Verdict.Confidence, r.Verdict.CutoffFrequencyHz)
	}
}

// writeToFile writes data to the specified output file
func (app *AnalyzerApp) writeToFile(data []byte) error {
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}
