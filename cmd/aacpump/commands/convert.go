// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpump"
	"github.com/ik5/aacpump/audio"
	"github.com/ik5/aacpump/formats/aiff"
	"github.com/ik5/aacpump/formats/wav"
)

var (
	convertFormat string
	convertRate   int
	convertMono   bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Decode to WAV or AIFF",
	Long: `Decode an ADTS AAC file to 16-bit PCM.

The output format comes from --format, then the output file extension, then
the config file. An output of "-" writes WAV to stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFormat, "format", "", "output format: wav or aiff")
	convertCmd.Flags().IntVar(&convertRate, "rate", 0, "resample to this rate in Hz (0 keeps the source rate)")
	convertCmd.Flags().BoolVar(&convertMono, "mono", false, "mix down to mono")
}

// sinkCloser is a file sink that finalises its output on Close.
type sinkCloser interface {
	audio.Sink
	io.Closer
}

func outputFormat(path string) string {
	if convertFormat != "" {
		return convertFormat
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".aif", ".aiff":
		return "aiff"
	case ".wav":
		return "wav"
	}
	if settings.Output.Format == "aiff" {
		return "aiff"
	}
	return "wav"
}

func openOutput(path string) (sinkCloser, func() error, error) {
	if path == "-" {
		return wav.NewStreamSink(os.Stdout), func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}

	switch format := outputFormat(path); format {
	case "wav":
		return wav.NewSink(f), f.Close, nil
	case "aiff":
		return aiff.NewSink(f), f.Close, nil
	default:
		_ = f.Close()
		return nil, nil, fmt.Errorf("unsupported output format %q", format)
	}
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rate := settings.Resample.Rate
	if cmd.Flags().Changed("rate") {
		rate = convertRate
	}
	mono := settings.Resample.Mono || convertMono

	p, err := newPump(ctx, settings.Engine)
	if err != nil {
		return err
	}
	defer p.Close()

	src, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	out, closeFile, err := openOutput(args[1])
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("finalise output: %w", cerr)
		}
		if cerr := closeFile(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var sink audio.Sink = out
	if mono {
		sink = audio.MonoSink(sink)
	}
	if rate > 0 {
		sink = audio.ResampleSink(sink, rate)
	}

	if err := p.Start(src, sink); err != nil {
		return err
	}
	if err := aacpump.Run(ctx, p); err != nil {
		return err
	}

	st := p.Stats()
	logger.Info("converted",
		"in", args[0],
		"out", args[1],
		"frames", st.Frames,
		"samples", st.Delivered,
		"decode_errors", st.DecodeErrors,
	)
	return nil
}
