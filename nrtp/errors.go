// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"errors"

	"github.com/netremoting/nrbf"
)

// Sentinel leaf errors for frame-level failures, each wrapped in an
// *nrbf.CodecError with Kind nrbf.KindFrame by wrapFrame, or
// nrbf.KindTimeout/KindNotConnected/KindHandler by the transport code.
var (
	ErrBadProtocolID      = errors.New("nrtp: protocol id mismatch")
	ErrUnsupportedVersion = errors.New("nrtp: unsupported frame version")
	ErrBadOperation       = errors.New("nrtp: unrecognized operation type")
	ErrBadContentDist     = errors.New("nrtp: unrecognized content distribution marker")
	ErrMalformedFrame     = errors.New("nrtp: malformed frame")
	ErrUnknownHeaderToken = errors.New("nrtp: unrecognized frame-header token")
	ErrBadChunkSize       = errors.New("nrtp: chunk size must be positive")
	ErrBadChunkTerminator = errors.New("nrtp: chunk not terminated by CRLF")
	ErrBadURI             = errors.New("nrtp: URI must be tcp://host:port/path")
	ErrNotConnected       = errors.New("nrtp: client is not connected")
	ErrNoHandler          = errors.New("nrtp: no handler registered for request URI")
)

func wrapFrame(op string, err error) error {
	if err == nil {
		return nil
	}
	return &nrbf.CodecError{Kind: nrbf.KindFrame, Op: op, Err: err}
}

func wrapTimeout(op string, err error) error {
	if err == nil {
		return nil
	}
	return &nrbf.CodecError{Kind: nrbf.KindTimeout, Op: op, Err: err}
}

func wrapNotConnected(op string, err error) error {
	if err == nil {
		return nil
	}
	return &nrbf.CodecError{Kind: nrbf.KindNotConnected, Op: op, Err: err}
}

func wrapHandler(op string, err error) error {
	if err == nil {
		return nil
	}
	return &nrbf.CodecError{Kind: nrbf.KindHandler, Op: op, Err: err}
}
