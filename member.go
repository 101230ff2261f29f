// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// MemberReference is a compact record standing in for a previously
// (or, during decode, not-yet) emitted referenceable object.
type MemberReference struct {
	IDRef int32
}

// ReadMemberReference reads {id ref}.
func ReadMemberReference(r *Reader) (MemberReference, error) {
	var ref MemberReference
	if err := expectTag(r, RecordMemberReference, "ReadMemberReference"); err != nil {
		return ref, err
	}
	id, err := r.ReadInt32()
	if err != nil {
		return ref, err
	}
	ref.IDRef = id
	return ref, nil
}

// WriteMemberReference writes ref.
func WriteMemberReference(w *Writer, ref MemberReference) error {
	if err := w.WriteByte(byte(RecordMemberReference)); err != nil {
		return err
	}
	return w.WriteInt32(ref.IDRef)
}

// ReadMemberPrimitiveTyped reads a self-describing primitive: its own
// kind tag followed by the value. Used for members/elements whose
// type is not statically known from the enclosing container.
func ReadMemberPrimitiveTyped(r *Reader) (PrimitiveValue, error) {
	if err := expectTag(r, RecordMemberPrimitiveTyped, "ReadMemberPrimitiveTyped"); err != nil {
		return PrimitiveValue{}, err
	}
	k, err := ReadPrimitiveKind(r)
	if err != nil {
		return PrimitiveValue{}, err
	}
	if k == PrimitiveNull || k == PrimitiveString {
		return PrimitiveValue{}, wrapErr(KindDecode, "ReadMemberPrimitiveTyped", ErrIllegalArrayPrimitiveKind)
	}
	return ReadPrimitiveValue(r, k)
}

// WriteMemberPrimitiveTyped writes v preceded by its own kind tag.
func WriteMemberPrimitiveTyped(w *Writer, v PrimitiveValue) error {
	if v.Kind == PrimitiveNull || v.Kind == PrimitiveString {
		return wrapErr(KindDecode, "WriteMemberPrimitiveTyped", ErrIllegalArrayPrimitiveKind)
	}
	if err := w.WriteByte(byte(RecordMemberPrimitiveTyped)); err != nil {
		return err
	}
	if err := WritePrimitiveKind(w, v.Kind); err != nil {
		return err
	}
	return WritePrimitiveValue(w, v)
}

// ReadObjectNull reads the zero-payload single-null marker.
func ReadObjectNull(r *Reader) error {
	return expectTag(r, RecordObjectNull, "ReadObjectNull")
}

// WriteObjectNull writes the single-null marker.
func WriteObjectNull(w *Writer) error {
	return w.WriteByte(byte(RecordObjectNull))
}

// ReadObjectNullMultiple256 reads a run of 2-255 nulls, returning the
// count as an unsigned byte.
func ReadObjectNullMultiple256(r *Reader) (byte, error) {
	if err := expectTag(r, RecordObjectNullMultiple256, "ReadObjectNullMultiple256"); err != nil {
		return 0, err
	}
	return r.ReadByte()
}

// WriteObjectNullMultiple256 writes a run of count nulls (count in
// [1,255]; the writer's null-run optimizer only emits this form for
// runs of 2-255, but the record codec itself only requires count > 0).
func WriteObjectNullMultiple256(w *Writer, count byte) error {
	if count == 0 {
		return wrapErr(KindInvariant, "WriteObjectNullMultiple256", ErrNonPositiveCount)
	}
	if err := w.WriteByte(byte(RecordObjectNullMultiple256)); err != nil {
		return err
	}
	return w.WriteByte(count)
}

// ReadObjectNullMultiple reads a run of >=1 nulls with a 32-bit count.
func ReadObjectNullMultiple(r *Reader) (int32, error) {
	if err := expectTag(r, RecordObjectNullMultiple, "ReadObjectNullMultiple"); err != nil {
		return 0, err
	}
	count, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if count <= 0 {
		return 0, wrapErr(KindInvariant, "ReadObjectNullMultiple", ErrNonPositiveCount)
	}
	return count, nil
}

// WriteObjectNullMultiple writes a run of count nulls, count > 0.
func WriteObjectNullMultiple(w *Writer, count int32) error {
	if count <= 0 {
		return wrapErr(KindInvariant, "WriteObjectNullMultiple", ErrNonPositiveCount)
	}
	if err := w.WriteByte(byte(RecordObjectNullMultiple)); err != nil {
		return err
	}
	return w.WriteInt32(count)
}
