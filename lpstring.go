// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import "unicode/utf8"

// maxLengthHeaderBytes bounds the base-128 length header: at most 5
// bytes encode a length up to 2^31-1.
const maxLengthHeaderBytes = 5

// ReadLengthPrefixedString reads the base-128 little-endian length
// header (continuation bit set in the high bit, at most 5 bytes) and
// the following UTF-8 payload, returning the decoded string.
func ReadLengthPrefixedString(r *Reader) (string, error) {
	length, err := readLength(r)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	b, err := r.ReadBytes(int(length))
	if err != nil {
		return "", wrapErr(KindDecode, "ReadLengthPrefixedString", ErrTruncated)
	}
	if !utf8.Valid(b) {
		return "", wrapErr(KindDecode, "ReadLengthPrefixedString", ErrInvalidUTF8)
	}
	return string(b), nil
}

func readLength(r *Reader) (uint32, error) {
	var length uint32
	for i := 0; i < maxLengthHeaderBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		length |= uint32(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			return length, nil
		}
	}
	return 0, wrapErr(KindDecode, "readLength", ErrLengthHeaderTooLong)
}

// WriteLengthPrefixedString writes the base-128 length header followed
// by the UTF-8 bytes of s.
func WriteLengthPrefixedString(w *Writer, s string) error {
	if err := writeLength(w, uint32(len(s))); err != nil {
		return err
	}
	return w.WriteBytes([]byte(s))
}

func writeLength(w *Writer, length uint32) error {
	for {
		b := byte(length & 0x7f)
		length >>= 7
		if length != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if length == 0 {
			return nil
		}
	}
}
