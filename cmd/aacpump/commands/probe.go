// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpump"
	"github.com/ik5/aacpump/audio"
	"github.com/ik5/aacpump/formats/aac"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Print stream information without decoding",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	engine := aac.NewProbeEngine()
	p, err := audio.NewPump(engine,
		audio.WithLogger(logger),
		audio.WithBufferSize(settings.BufferSize),
		audio.WithSyncFunc(aac.FindFrame),
	)
	if err != nil {
		return err
	}
	defer p.Close()

	src, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	if err := p.Start(src, &audio.BufferSink{}); err != nil {
		return err
	}
	if err := aacpump.Run(cmd.Context(), p); err != nil {
		return err
	}

	info := engine.Info()
	st := p.Stats()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "frames:      %d\n", info.Frames)
	fmt.Fprintf(w, "bytes:       %d of %d read\n", info.Bytes, st.BytesRead)
	fmt.Fprintf(w, "profile:     %d\n", info.Profile)
	fmt.Fprintf(w, "sample rate: %d Hz\n", info.SampleRate)
	fmt.Fprintf(w, "channels:    %d\n", info.Channels)
	fmt.Fprintf(w, "duration:    %s\n", info.Duration)
	if st.DecodeErrors > 0 {
		fmt.Fprintf(w, "bad frames:  %d\n", st.DecodeErrors)
	}
	return nil
}
