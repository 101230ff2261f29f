// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// BinaryObjectString is a boxed string instance: a referenceable
// object carrying its object ID and value.
type BinaryObjectString struct {
	ObjectID int32
	Value    string
}

// ReadBinaryObjectString reads {object id, value}.
func ReadBinaryObjectString(r *Reader) (BinaryObjectString, error) {
	var s BinaryObjectString
	if err := expectTag(r, RecordBinaryObjectString, "ReadBinaryObjectString"); err != nil {
		return s, err
	}
	id, err := r.ReadInt32()
	if err != nil {
		return s, err
	}
	if id <= 0 {
		return s, wrapErr(KindInvariant, "ReadBinaryObjectString", ErrNonPositiveObjectID)
	}
	val, err := ReadLengthPrefixedString(r)
	if err != nil {
		return s, err
	}
	s.ObjectID = id
	s.Value = val
	return s, nil
}

// WriteBinaryObjectString writes s, validating ObjectID > 0.
func WriteBinaryObjectString(w *Writer, s BinaryObjectString) error {
	if s.ObjectID <= 0 {
		return wrapErr(KindInvariant, "WriteBinaryObjectString", ErrNonPositiveObjectID)
	}
	if err := w.WriteByte(byte(RecordBinaryObjectString)); err != nil {
		return err
	}
	if err := w.WriteInt32(s.ObjectID); err != nil {
		return err
	}
	return WriteLengthPrefixedString(w, s.Value)
}
