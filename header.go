// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// SerializationHeader is the first record of every message: the root
// object ID, an implementation-reserved header ID, and the format
// version (always 1.0).
type SerializationHeader struct {
	RootID       int32
	HeaderID     int32
	MajorVersion int32
	MinorVersion int32
}

// ReadSerializationHeader reads and validates the header record.
func ReadSerializationHeader(r *Reader) (SerializationHeader, error) {
	var h SerializationHeader
	if err := expectTag(r, RecordSerializedStreamHeader, "ReadSerializationHeader"); err != nil {
		return h, err
	}
	rootID, err := r.ReadInt32()
	if err != nil {
		return h, err
	}
	headerID, err := r.ReadInt32()
	if err != nil {
		return h, err
	}
	major, err := r.ReadInt32()
	if err != nil {
		return h, err
	}
	minor, err := r.ReadInt32()
	if err != nil {
		return h, err
	}
	if major != 1 || minor != 0 {
		return h, wrapErr(KindDecode, "ReadSerializationHeader", ErrVersionMismatch)
	}
	h.RootID = rootID
	h.HeaderID = headerID
	h.MajorVersion = major
	h.MinorVersion = minor
	return h, nil
}

// WriteSerializationHeader writes h, forcing version 1.0.
func WriteSerializationHeader(w *Writer, h SerializationHeader) error {
	if err := w.WriteByte(byte(RecordSerializedStreamHeader)); err != nil {
		return err
	}
	if err := w.WriteInt32(h.RootID); err != nil {
		return err
	}
	if err := w.WriteInt32(h.HeaderID); err != nil {
		return err
	}
	if err := w.WriteInt32(1); err != nil {
		return err
	}
	return w.WriteInt32(0)
}

// NewSerializationHeader returns the header appropriate for a message
// with or without a call array, per the root/header-id invariant:
// root-id equals the call array's object id (else 0), and header-id
// is -1 when a call array is present (else 0).
func NewSerializationHeader(callArrayObjectID int32, hasCallArray bool) SerializationHeader {
	if !hasCallArray {
		return SerializationHeader{RootID: 0, HeaderID: 0, MajorVersion: 1, MinorVersion: 0}
	}
	return SerializationHeader{RootID: callArrayObjectID, HeaderID: -1, MajorVersion: 1, MinorVersion: 0}
}
