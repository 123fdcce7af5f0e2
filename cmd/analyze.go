package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SaudiBrother/Audio-checker/internal/app"
)

var (
	// Analyze command flags
	analyzeSampleFormat    string
	analyzeSampleRate      int
	analyzeChannels        int
	analyzeTransformSize   int
	analyzeCutoffThreshold float64
	analyzeFeatures        bool
	analyzeOutputFile      string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] [pcm-files...]",
	Short: "Analyze raw PCM inputs for upscaling artifacts",
	Long: `Analyze one or more raw PCM inputs and report a quality verdict per input.

Each input is decoded as headerless interleaved PCM, downmixed to mono,
transformed to a magnitude spectrum and scored. Use "-" to read a single
input from stdin.

Examples:
  # Analyze a 16-bit stereo capture
  audio-checker analyze capture.pcm

  # Analyze float32 mono from stdin
  ffmpeg -i track.flac -f f32le -ac 1 - | audio-checker analyze --format f32le --channels 1 -

  # Full feature breakdown as YAML
  audio-checker analyze --features -o yaml capture.pcm`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeSampleFormat, "format", "f", "",
		"input sample format (s16le, f32le, f64le)")
	analyzeCmd.Flags().IntVar(&analyzeSampleRate, "rate", 0,
		"input sample rate in Hz")
	analyzeCmd.Flags().IntVar(&analyzeChannels, "channels", 0,
		"input channel count")
	analyzeCmd.Flags().IntVar(&analyzeTransformSize, "transform-size", 0,
		"FFT size, power of two (default 4096)")
	analyzeCmd.Flags().Float64Var(&analyzeCutoffThreshold, "cutoff-threshold", 0,
		"cutoff detection threshold in dB (default -80)")
	analyzeCmd.Flags().BoolVar(&analyzeFeatures, "features", false,
		"include the extracted features in the output")
	analyzeCmd.Flags().StringVar(&analyzeOutputFile, "output-file", "",
		"write results to file instead of stdout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appCtx := &app.Context{
		ConfigFile:        configFile,
		OutputFile:        analyzeOutputFile,
		OutputFormat:      outputFormat,
		SampleFormat:      analyzeSampleFormat,
		SampleRate:        analyzeSampleRate,
		Channels:          analyzeChannels,
		TransformSize:     analyzeTransformSize,
		CutoffThresholdDb: analyzeCutoffThreshold,
		Verbose:           verbose,
		Quiet:             quiet,
		IncludeFeatures:   analyzeFeatures,
	}

	analyzer, err := app.NewAnalyzerApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	return analyzer.Run(ctx, args)
}
