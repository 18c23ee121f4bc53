// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpump/audio"
	"github.com/ik5/aacpump/formats/aac"
	"github.com/ik5/aacpump/internal/config"
)

var (
	// Global flags
	cfgFile    string
	logLevel   string
	logFormat  string
	bufferSize int
	engineName string

	settings *config.Config
	logger   = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "aacpump",
	Short: "Decode ADTS AAC streams",
	Long: `aacpump decodes ADTS AAC one sample at a time and hands the PCM to a
sound device or a file.

Examples:
  # Play a stream
  aacpump play radio.aac

  # Convert to 8 kHz mono WAV
  aacpump convert --rate 8000 --mono song.aac song.wav

  # Write WAV to stdout
  aacpump convert song.aac - | aplay

  # Show frame count and duration
  aacpump probe song.aac
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Command returns the root cobra command for mounting into a parent CLI.
func Command() *cobra.Command {
	return rootCmd
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "text or json")
	rootCmd.PersistentFlags().IntVar(&bufferSize, "buffer-size", 0, "compressed buffer size in bytes")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "decoder engine (aac, probe)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(probeCmd)
}

// setup loads the config file and lets flags that were set override it.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("buffer-size") {
		cfg.BufferSize = bufferSize
	}
	if flags.Changed("engine") {
		cfg.Engine = engineName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}

	settings = cfg
	logger = l
	slog.SetDefault(l)
	return nil
}

func newLogger(w io.Writer, c config.Log) (*slog.Logger, error) {
	level, err := config.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func newRegistry(ctx context.Context) *audio.Registry {
	reg := audio.NewRegistry()
	aac.Register(reg, aac.WithContext(ctx), aac.WithLogger(logger))
	return reg
}

// newPump builds a pump for the configured engine.
func newPump(ctx context.Context, format string) (*audio.Pump, error) {
	eng, err := newRegistry(ctx).New(format)
	if err != nil {
		return nil, err
	}

	p, err := audio.NewPump(eng,
		audio.WithLogger(logger),
		audio.WithBufferSize(settings.BufferSize),
		audio.WithWindowSize(settings.WindowSize),
		audio.WithSyncFunc(aac.FindFrame),
	)
	if err != nil {
		_ = eng.Close()
		return nil, err
	}
	return p, nil
}

func openInput(path string) (audio.ByteSource, error) {
	if path == "-" {
		return audio.NewReaderSource(io.NopCloser(os.Stdin)), nil
	}
	src, err := audio.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return src, nil
}
