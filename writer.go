// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import "io"

// Writer wraps an io.Writer with the little-endian primitive writes
// the record codec builds on.
type Writer struct {
	w   io.Writer
	buf [8]byte
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	_, err := w.w.Write([]byte{b})
	return err
}

// WriteBytes writes raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteUint16 writes v little-endian.
func (w *Writer) WriteUint16(v uint16) error {
	w.buf[0] = byte(v)
	w.buf[1] = byte(v >> 8)
	_, err := w.w.Write(w.buf[:2])
	return err
}

// WriteUint32 writes v little-endian.
func (w *Writer) WriteUint32(v uint32) error {
	w.buf[0] = byte(v)
	w.buf[1] = byte(v >> 8)
	w.buf[2] = byte(v >> 16)
	w.buf[3] = byte(v >> 24)
	_, err := w.w.Write(w.buf[:4])
	return err
}

// WriteUint64 writes v little-endian.
func (w *Writer) WriteUint64(v uint64) error {
	for i := 0; i < 8; i++ {
		w.buf[i] = byte(v >> (8 * uint(i)))
	}
	_, err := w.w.Write(w.buf[:8])
	return err
}

// WriteInt16 writes v little-endian.
func (w *Writer) WriteInt16(v int16) error { return w.WriteUint16(uint16(v)) }

// WriteInt32 writes v little-endian.
func (w *Writer) WriteInt32(v int32) error { return w.WriteUint32(uint32(v)) }

// WriteInt64 writes v little-endian.
func (w *Writer) WriteInt64(v int64) error { return w.WriteUint64(uint64(v)) }
