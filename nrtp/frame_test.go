// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netremoting/nrbf"
)

// pingPayload is spec scenario 1's 39-byte encoded message, reused
// here as the frame content for scenario 6.
func pingPayload() []byte {
	return []byte{
		0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x15, 0x11, 0x00, 0x00, 0x00,
		0x12, 0x04, 'P', 'i', 'n', 'g',
		0x12, 0x08, 'M', 'y', 'S', 'e', 'r', 'v', 'e', 'r',
		0x0B,
	}
}

// TestGoldenRequestFrameRoundTrip is scenario 6: a not-chunked request
// frame carrying scenario 1's payload round-trips op, headers, and
// content verbatim.
func TestGoldenRequestFrameRoundTrip(t *testing.T) {
	payload := pingPayload()
	frame := &Frame{
		Operation: OpRequest,
		Headers: []Header{
			{Token: HeaderRequestURI, Text: "/S"},
			{Token: HeaderContentType, Text: "application/octet-stream"},
		},
		Content: payload,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(nrbf.NewWriter(&buf), frame))

	got, err := ReadFrame(nrbf.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)

	require.Equal(t, OpRequest, got.Operation)
	uri, ok := got.RequestURI()
	require.True(t, ok)
	require.Equal(t, "/S", uri)
	ct, ok := got.ContentType()
	require.True(t, ok)
	require.Equal(t, "application/octet-stream", ct)
	require.Equal(t, payload, got.Content)
}

func TestFrameChunkedRoundTrip(t *testing.T) {
	content := bytes.Repeat([]byte("chunk-me"), 10000)
	frame := &Frame{
		Operation: OpReply,
		Headers:   []Header{{Token: HeaderStatusCode, Status: StatusSuccess}},
		Content:   content,
		Chunked:   true,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFrame(nrbf.NewWriter(&buf), frame))

	got, err := ReadFrame(nrbf.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.True(t, got.Chunked)
	require.Equal(t, content, got.Content)
	status, ok := got.StatusCode()
	require.True(t, ok)
	require.Equal(t, StatusSuccess, status)
}

func TestFrameBadProtocolID(t *testing.T) {
	buf := []byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0}
	_, err := ReadFrame(nrbf.NewReader(bytes.NewReader(buf)))
	require.ErrorIs(t, err, ErrBadProtocolID)
}

func TestFrameOneWayNoReplyContentLength(t *testing.T) {
	frame := &Frame{Operation: OpOneWayRequest, Content: []byte("x")}
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(nrbf.NewWriter(&buf), frame))
	got, err := ReadFrame(nrbf.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Equal(t, OpOneWayRequest, got.Operation)
	require.Equal(t, []byte("x"), got.Content)
}

func TestHeaderCustomRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := nrbf.NewWriter(&buf)
	headers := []Header{
		{Token: HeaderCustom, CustomName: "X-Trace", CustomValue: "abc123"},
		{Token: HeaderCloseConnection},
	}
	require.NoError(t, writeHeaders(w, headers))

	got, err := readHeaders(nrbf.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "X-Trace", got[0].CustomName)
	require.Equal(t, "abc123", got[0].CustomValue)
	require.True(t, wantsClose(got))
}
