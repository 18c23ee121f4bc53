// SPDX-License-Identifier: EPL-2.0

// Command aacpump decodes ADTS AAC streams.
//
// Usage:
//
//	aacpump [flags] <command> [args]
//
// Commands:
//
//	play     - play a stream on the default sound device
//	convert  - decode to WAV or AIFF
//	probe    - print stream information without decoding
package main

import (
	"fmt"
	"os"

	"github.com/ik5/aacpump/cmd/aacpump/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
