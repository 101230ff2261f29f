// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command nrbfdump decodes a raw MS-NRBF message, or an MS-NRTP frame
// carrying one, and pretty-prints it as JSON.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netremoting/nrbf"
	"github.com/netremoting/nrbf/nrtp"
)

var asFrame bool

func prettyPrint(v interface{}) string {
	buf, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(buf)
}

func dumpFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if asFrame {
		frame, err := nrtp.ReadFrameFrom(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decoding frame: %w", err)
		}
		fmt.Println(prettyPrint(frame))
		msg, err := nrbf.ReadMessage(nrbf.NewReader(bytes.NewReader(frame.Content)))
		if err != nil {
			return fmt.Errorf("decoding message content: %w", err)
		}
		fmt.Println(prettyPrint(msg))
		return nil
	}

	msg, err := nrbf.ReadMessage(nrbf.NewReader(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	fmt.Println(prettyPrint(msg))
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "nrbfdump [file]",
		Short: "Decode and pretty-print an MS-NRBF message",
		Long:  "nrbfdump decodes a raw NRBF message, or an NRTP frame with --frame, and prints it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpFile(args[0])
		},
	}
	rootCmd.Flags().BoolVar(&asFrame, "frame", false, "decode an MS-NRTP frame instead of a bare message")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
