// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command fbmctl is a small demonstration client: it connects to a
// server, sends one unary request, prints the response, and
// disconnects.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"code.hybscloud.com/fbm"
	"code.hybscloud.com/fbm/transport/wsconn"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fbmctl",
		Short: "Send a single FBM request and print the response",
	}
	cmd.AddCommand(newSendCommand())
	return cmd
}

type sendOptions struct {
	url         string
	location    string
	action      string
	contentType string
	body        string
	timeout     time.Duration
}

func newSendCommand() *cobra.Command {
	opts := sendOptions{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Connect, send one unary request, print the response, disconnect",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", "ws://127.0.0.1:8080/fbm", "server URL")
	flags.StringVar(&opts.location, "location", "/", "Location header value")
	flags.StringVar(&opts.action, "action", "", "Action header value")
	flags.StringVar(&opts.contentType, "content-type", "text/plain", "request body content type")
	flags.StringVar(&opts.body, "body", "", "request body")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "response timeout")
	return cmd
}

func runSend(ctx context.Context, opts sendOptions) error {
	client := fbm.NewClient(wsconn.New(5*time.Second),
		fbm.WithRequestTimeout(opts.timeout),
	)

	connectCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	if err := client.Connect(connectCtx, opts.url, http.Header{}); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	req, err := client.RentRequest()
	if err != nil {
		return fmt.Errorf("rent request: %w", err)
	}
	defer client.ReturnRequest(req)

	if opts.location != "" {
		if err := req.WriteHeader(fbm.CommandLocation, opts.location); err != nil {
			return fmt.Errorf("write location header: %w", err)
		}
	}
	if opts.action != "" {
		if err := req.WriteHeader(fbm.CommandAction, opts.action); err != nil {
			return fmt.Errorf("write action header: %w", err)
		}
	}
	if err := req.WriteBody([]byte(opts.body), opts.contentType); err != nil {
		return fmt.Errorf("write body: %w", err)
	}

	resp, err := client.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}

	if status, ok := resp.Header(fbm.CommandStatus); ok {
		fmt.Printf("status: %s\n", status)
	}
	fmt.Printf("body: %s\n", resp.Body())
	return nil
}
