// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpump"
	"github.com/ik5/aacpump/output"
)

var playRingSize int

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play a stream on the default sound device",
	Long: `Play an ADTS AAC file, or "-" for stdin, until it ends or Ctrl-C is
pressed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playRingSize, "ring-size", output.DefaultRingSize, "playback queue size in bytes")
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

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

	device := output.NewOto(output.WithLogger(logger), output.WithRingSize(playRingSize))
	defer device.Close()

	if err := p.Start(src, device); err != nil {
		return err
	}

	begin := time.Now()
	err = aacpump.Run(ctx, p)

	st := p.Stats()
	logger.Info("playback finished",
		"frames", st.Frames,
		"samples", st.Delivered,
		"decode_errors", st.DecodeErrors,
		"elapsed", time.Since(begin).Round(time.Millisecond),
	)
	if err != nil {
		return err
	}
	return device.Err()
}
