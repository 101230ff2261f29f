// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"bytes"
	"io"

	"github.com/netremoting/nrbf"
)

// protocolID is the fixed 4-byte magic ("NET.") opening every frame.
const protocolID uint32 = 0x54454E2E

// Operation distinguishes a request expecting a reply, a one-way
// request, and a reply.
type Operation uint16

// Defined operation types.
const (
	OpRequest       Operation = 0
	OpOneWayRequest Operation = 1
	OpReply         Operation = 2
)

func (o Operation) valid() bool {
	return o == OpRequest || o == OpOneWayRequest || o == OpReply
}

// contentDist is the not-chunked/chunked marker preceding the content
// length or chunk stream.
type contentDist uint16

const (
	distNotChunked contentDist = 0
	distChunked    contentDist = 1
)

// Frame is one complete MS-NRTP message envelope: protocol version,
// operation, headers, and payload.
type Frame struct {
	Operation Operation
	Headers   []Header
	Content   []byte
	// Chunked requests the chunked content encoding on write; Read
	// always reports whether the frame it decoded was chunked via this
	// field, but the distinction is otherwise invisible to callers —
	// Content is fully assembled either way.
	Chunked bool
}

// RequestURI returns the frame's request-uri header, if present.
func (f *Frame) RequestURI() (string, bool) { return requestURI(f.Headers) }

// ContentType returns the frame's content-type header, if present.
func (f *Frame) ContentType() (string, bool) { return contentType(f.Headers) }

// WantsClose reports whether the frame carries a close-connection header.
func (f *Frame) WantsClose() bool { return wantsClose(f.Headers) }

// StatusCode returns the frame's status-code header, if present.
func (f *Frame) StatusCode() (StatusCode, bool) { return statusOf(f.Headers) }

// ReadFrame decodes one frame from r.
func ReadFrame(r *nrbf.Reader) (*Frame, error) {
	magic, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if magic != protocolID {
		return nil, wrapFrame("ReadFrame", ErrBadProtocolID)
	}
	major, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	minor, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if major != 1 || minor != 0 {
		return nil, wrapFrame("ReadFrame", ErrUnsupportedVersion)
	}
	opRaw, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	op := Operation(opRaw)
	if !op.valid() {
		return nil, wrapFrame("ReadFrame", ErrBadOperation)
	}
	distRaw, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	dist := contentDist(distRaw)

	var content []byte
	chunked := false
	switch dist {
	case distNotChunked:
		length, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		if length < 0 {
			return nil, wrapFrame("ReadFrame", ErrMalformedFrame)
		}
		headers, err := readHeaders(r)
		if err != nil {
			return nil, err
		}
		body, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
		content = body
		return &Frame{Operation: op, Headers: headers, Content: content}, nil

	case distChunked:
		chunked = true
		headers, err := readHeaders(r)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		for {
			size, err := r.ReadInt32()
			if err != nil {
				return nil, err
			}
			if size == 0 {
				if err := expectCRLF(r); err != nil {
					return nil, err
				}
				break
			}
			if size < 0 {
				return nil, wrapFrame("ReadFrame", ErrBadChunkSize)
			}
			chunk, err := r.ReadBytes(int(size))
			if err != nil {
				return nil, err
			}
			buf.Write(chunk)
			if err := expectCRLF(r); err != nil {
				return nil, err
			}
		}
		return &Frame{Operation: op, Headers: headers, Content: buf.Bytes(), Chunked: chunked}, nil

	default:
		return nil, wrapFrame("ReadFrame", ErrBadContentDist)
	}
}

func expectCRLF(r *nrbf.Reader) error {
	b, err := r.ReadBytes(2)
	if err != nil {
		return err
	}
	if b[0] != 0x0D || b[1] != 0x0A {
		return wrapFrame("expectCRLF", ErrBadChunkTerminator)
	}
	return nil
}

// WriteFrame encodes f to w, using chunked content encoding iff f.Chunked.
func WriteFrame(w *nrbf.Writer, f *Frame) error {
	if !f.Operation.valid() {
		return wrapFrame("WriteFrame", ErrBadOperation)
	}
	if err := w.WriteUint32(protocolID); err != nil {
		return err
	}
	if err := w.WriteByte(1); err != nil {
		return err
	}
	if err := w.WriteByte(0); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(f.Operation)); err != nil {
		return err
	}

	if !f.Chunked {
		if err := w.WriteUint16(uint16(distNotChunked)); err != nil {
			return err
		}
		if err := w.WriteInt32(int32(len(f.Content))); err != nil {
			return err
		}
		if err := writeHeaders(w, f.Headers); err != nil {
			return err
		}
		return w.WriteBytes(f.Content)
	}

	if err := w.WriteUint16(uint16(distChunked)); err != nil {
		return err
	}
	if err := writeHeaders(w, f.Headers); err != nil {
		return err
	}
	const chunkSize = 1 << 16
	content := f.Content
	for len(content) > 0 {
		n := chunkSize
		if n > len(content) {
			n = len(content)
		}
		if err := w.WriteInt32(int32(n)); err != nil {
			return err
		}
		if err := w.WriteBytes(content[:n]); err != nil {
			return err
		}
		if err := w.WriteBytes([]byte{0x0D, 0x0A}); err != nil {
			return err
		}
		content = content[n:]
	}
	if err := w.WriteInt32(0); err != nil {
		return err
	}
	return w.WriteBytes([]byte{0x0D, 0x0A})
}

// ReadFrameFrom is a convenience wrapper for callers holding a raw
// io.Reader rather than an *nrbf.Reader.
func ReadFrameFrom(r io.Reader) (*Frame, error) {
	return ReadFrame(nrbf.NewReader(r))
}

// WriteFrameTo is a convenience wrapper for callers holding a raw
// io.Writer rather than an *nrbf.Writer.
func WriteFrameTo(w io.Writer, f *Frame) error {
	return WriteFrame(nrbf.NewWriter(w), f)
}
