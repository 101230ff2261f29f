// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command nrbfpeer exercises the nrtp transport end to end: "serve"
// runs an echo server on a single request path, "call" dials a
// peer and issues a single method-call request.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/netremoting/nrbf"
	"github.com/netremoting/nrbf/nrtp"
)

func runServe(addr, path string) error {
	srv := nrtp.NewServer(addr)
	srv.Handle(path, func(ctx context.Context, requestID uuid.UUID, payload []byte) ([]byte, error) {
		msg, err := nrbf.ReadMessage(nrbf.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, err
		}
		fmt.Printf("request %s: %s.%s(%d args)\n", requestID, msg.Call.TypeName.Str, msg.Call.MethodName.Str, len(msg.Args))

		var argValue *nrbf.RemotingValue
		if len(msg.Args) > 0 {
			argValue = &msg.Args[0]
		}
		reply := nrbf.MakeMethodReturn(argValue)
		var buf bytes.Buffer
		if err := nrbf.WriteMessage(nrbf.NewWriter(&buf), reply); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Printf("listening on %s, path %s\n", addr, path)
	return srv.ListenAndServe(ctx)
}

func runCall(uri, method, typeName string) error {
	ctx := context.Background()
	client, err := nrtp.Open(ctx, uri)
	if err != nil {
		return err
	}
	defer client.Close()

	call := nrbf.MakeMethodCall(method, typeName, []nrbf.RemotingValue{
		nrbf.PrimitiveRemotingValue(nrbf.StringValue("hello")),
	})
	var buf bytes.Buffer
	if err := nrbf.WriteMessage(nrbf.NewWriter(&buf), call); err != nil {
		return err
	}

	reply, err := client.Invoke(ctx, method, typeName, false, buf.Bytes())
	if err != nil {
		return err
	}
	rv := nrbf.ExtractReturnValue(reply)
	if rv.Kind == nrbf.ValueNull {
		fmt.Println("reply: void")
	} else {
		fmt.Printf("reply: %+v\n", rv)
	}
	return nil
}

func main() {
	var addr, path, uri, method, typeName string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an echo server over nrtp",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, path)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8910", "listen address")
	serveCmd.Flags().StringVar(&path, "path", "/", "request-uri path to handle")

	callCmd := &cobra.Command{
		Use:   "call",
		Short: "Issue a single method call to a peer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(uri, method, typeName)
		},
	}
	callCmd.Flags().StringVar(&uri, "uri", "tcp://127.0.0.1:8910/", "peer URI")
	callCmd.Flags().StringVar(&method, "method", "Echo", "method name")
	callCmd.Flags().StringVar(&typeName, "type", "Remote.IEcho", "type name")

	rootCmd := &cobra.Command{Use: "nrbfpeer"}
	rootCmd.AddCommand(serveCmd, callCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
