// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrtp

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/netremoting/nrbf"
)

// HeaderToken is the one-byte token id opening each frame-header entry.
type HeaderToken byte

// Defined header tokens.
const (
	HeaderEnd             HeaderToken = 0
	HeaderCustom          HeaderToken = 1
	HeaderStatusCode      HeaderToken = 2
	HeaderStatusPhrase    HeaderToken = 3
	HeaderRequestURI      HeaderToken = 4
	HeaderCloseConnection HeaderToken = 5
	HeaderContentType     HeaderToken = 6
)

// StatusCode is the reply status carried by a HeaderStatusCode token.
type StatusCode byte

// Defined status codes.
const (
	StatusSuccess StatusCode = 0
	StatusError   StatusCode = 1
)

// stringFormat is the counted-string encoding discriminator byte.
type stringFormat byte

const (
	formatUTF16LE stringFormat = 0
	formatUTF8    stringFormat = 1
)

// Header is one decoded frame-header entry. Only the field matching
// Token is meaningful.
type Header struct {
	Token HeaderToken

	CustomName  string // HeaderCustom
	CustomValue string // HeaderCustom

	Status StatusCode // HeaderStatusCode

	Text string // HeaderStatusPhrase, HeaderRequestURI, HeaderContentType
}

// readCountedString reads a counted-string: one format byte, a signed
// 32-bit length, then that many bytes, decoded per the format byte.
func readCountedString(r *nrbf.Reader) (string, error) {
	formatByte, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	n, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", wrapFrame("readCountedString", ErrMalformedFrame)
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	switch stringFormat(formatByte) {
	case formatUTF8:
		return string(raw), nil
	case formatUTF16LE:
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := decoder.Bytes(raw)
		if err != nil {
			return "", wrapFrame("readCountedString", ErrMalformedFrame)
		}
		return string(out), nil
	default:
		return "", wrapFrame("readCountedString", ErrMalformedFrame)
	}
}

// writeCountedString always emits the UTF-8 form; legacy .NET peers
// accept either per the counted-string grammar.
func writeCountedString(w *nrbf.Writer, s string) error {
	if err := w.WriteByte(byte(formatUTF8)); err != nil {
		return err
	}
	b := []byte(s)
	if err := w.WriteInt32(int32(len(b))); err != nil {
		return err
	}
	return w.WriteBytes(b)
}

// readHeaders reads frame-header tokens up to and including the
// terminating end-headers token.
func readHeaders(r *nrbf.Reader) ([]Header, error) {
	var headers []Header
	for {
		tokByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		tok := HeaderToken(tokByte)
		if tok == HeaderEnd {
			return headers, nil
		}
		h := Header{Token: tok}
		switch tok {
		case HeaderCustom:
			name, err := readCountedString(r)
			if err != nil {
				return nil, err
			}
			value, err := readCountedString(r)
			if err != nil {
				return nil, err
			}
			h.CustomName = name
			h.CustomValue = value
		case HeaderStatusCode:
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			h.Status = StatusCode(b)
		case HeaderStatusPhrase, HeaderRequestURI, HeaderContentType:
			s, err := readCountedString(r)
			if err != nil {
				return nil, err
			}
			h.Text = s
		case HeaderCloseConnection:
			// no payload
		default:
			return nil, wrapFrame("readHeaders", ErrUnknownHeaderToken)
		}
		headers = append(headers, h)
	}
}

// writeHeaders writes headers followed by the end-headers terminator.
func writeHeaders(w *nrbf.Writer, headers []Header) error {
	for _, h := range headers {
		if err := w.WriteByte(byte(h.Token)); err != nil {
			return err
		}
		switch h.Token {
		case HeaderCustom:
			if err := writeCountedString(w, h.CustomName); err != nil {
				return err
			}
			if err := writeCountedString(w, h.CustomValue); err != nil {
				return err
			}
		case HeaderStatusCode:
			if err := w.WriteByte(byte(h.Status)); err != nil {
				return err
			}
		case HeaderStatusPhrase, HeaderRequestURI, HeaderContentType:
			if err := writeCountedString(w, h.Text); err != nil {
				return err
			}
		case HeaderCloseConnection:
			// no payload
		default:
			return wrapFrame("writeHeaders", ErrUnknownHeaderToken)
		}
	}
	return w.WriteByte(byte(HeaderEnd))
}

// requestURI returns the first HeaderRequestURI token's value, if any.
func requestURI(headers []Header) (string, bool) {
	for _, h := range headers {
		if h.Token == HeaderRequestURI {
			return h.Text, true
		}
	}
	return "", false
}

// contentType returns the first HeaderContentType token's value, if any.
func contentType(headers []Header) (string, bool) {
	for _, h := range headers {
		if h.Token == HeaderContentType {
			return h.Text, true
		}
	}
	return "", false
}

// wantsClose reports whether headers carry a HeaderCloseConnection token.
func wantsClose(headers []Header) bool {
	for _, h := range headers {
		if h.Token == HeaderCloseConnection {
			return true
		}
	}
	return false
}

// statusOf returns the first HeaderStatusCode token's value, if any.
func statusOf(headers []Header) (StatusCode, bool) {
	for _, h := range headers {
		if h.Token == HeaderStatusCode {
			return h.Status, true
		}
	}
	return 0, false
}
