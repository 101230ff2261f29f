// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// ReadMessageEnd reads the zero-byte end-of-message marker.
func ReadMessageEnd(r *Reader) error {
	return expectTag(r, RecordMessageEnd, "ReadMessageEnd")
}

// WriteMessageEnd writes the end-of-message marker.
func WriteMessageEnd(w *Writer) error {
	return w.WriteByte(byte(RecordMessageEnd))
}
