// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/netremoting/nrbf"
)

// DefaultTimeout is the round-trip timeout Invoke applies when the
// caller's context carries no deadline.
const DefaultTimeout = 20 * time.Second

// Client is a thin MS-NRTP client bound to a single TCP connection and
// the request-uri path its target URI named.
type Client struct {
	conn net.Conn
	path string
}

// Open dials uri, which must be of the form tcp://host:port/path. The
// path becomes every subsequent Invoke call's request-uri header.
func Open(ctx context.Context, uri string) (*Client, error) {
	addr, path, err := parseURI(uri)
	if err != nil {
		return nil, err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, wrapFrame("Open", err)
	}
	return &Client{conn: conn, path: path}, nil
}

func parseURI(uri string) (addr, path string, err error) {
	u, parseErr := url.Parse(uri)
	if parseErr != nil || u.Scheme != "tcp" || u.Host == "" {
		return "", "", wrapFrame("parseURI", ErrBadURI)
	}
	p := u.Path
	if p == "" {
		p = "/"
	}
	return u.Host, p, nil
}

// Invoke sends a method call for (method, typeName) against the path
// Open's URI named and, unless oneWay, waits for the reply frame's
// content.
func (c *Client) Invoke(ctx context.Context, method, typeName string, oneWay bool, payload []byte) ([]byte, error) {
	if c.conn == nil {
		return nil, wrapNotConnected("Invoke", ErrNotConnected)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return nil, wrapTimeout("Invoke", err)
		}
		defer c.conn.SetDeadline(time.Time{})
	}

	op := OpRequest
	if oneWay {
		op = OpOneWayRequest
	}
	req := &Frame{
		Operation: op,
		Headers: []Header{
			{Token: HeaderRequestURI, Text: normalizePath(c.path)},
			{Token: HeaderContentType, Text: "application/octet-stream"},
			{Token: HeaderCustom, CustomName: "method", CustomValue: method},
			{Token: HeaderCustom, CustomName: "type", CustomValue: typeName},
		},
		Content: payload,
	}
	if err := WriteFrame(nrbf.NewWriter(c.conn), req); err != nil {
		return nil, err
	}
	if oneWay {
		return nil, nil
	}

	reply, err := ReadFrame(nrbf.NewReader(c.conn))
	if err != nil {
		return nil, err
	}
	if status, ok := reply.StatusCode(); ok && status == StatusError {
		phrase := "remote handler error"
		for _, h := range reply.Headers {
			if h.Token == HeaderStatusPhrase {
				phrase = h.Text
			}
		}
		return nil, wrapHandler("Invoke", errString(phrase))
	}
	return reply.Content, nil
}

func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

type errString string

func (e errString) Error() string { return string(e) }

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
