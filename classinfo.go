// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// ClassInfo is the common header shared by every class record variant:
// the object ID, the class name, and the ordered member names. The
// writer does not assign object IDs: a ClassInfo written with
// ObjectID 0 is rejected.
type ClassInfo struct {
	ObjectID    int32
	Name        string
	MemberNames []string
}

// ReadClassInfo reads {object id, name, member count, member names[]}.
func ReadClassInfo(r *Reader) (ClassInfo, error) {
	var ci ClassInfo
	id, err := r.ReadInt32()
	if err != nil {
		return ci, err
	}
	name, err := ReadLengthPrefixedString(r)
	if err != nil {
		return ci, err
	}
	count, err := r.ReadInt32()
	if err != nil {
		return ci, err
	}
	if count < 0 {
		return ci, wrapErr(KindInvariant, "ReadClassInfo", ErrNegativeLength)
	}
	names := make([]string, count)
	for i := range names {
		names[i], err = ReadLengthPrefixedString(r)
		if err != nil {
			return ci, err
		}
	}
	ci.ObjectID = id
	ci.Name = name
	ci.MemberNames = names
	return ci, nil
}

// WriteClassInfo writes ci, validating ObjectID > 0.
func WriteClassInfo(w *Writer, ci ClassInfo) error {
	if ci.ObjectID <= 0 {
		return wrapErr(KindInvariant, "WriteClassInfo", ErrNonPositiveObjectID)
	}
	if err := w.WriteInt32(ci.ObjectID); err != nil {
		return err
	}
	if err := WriteLengthPrefixedString(w, ci.Name); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(len(ci.MemberNames))); err != nil {
		return err
	}
	for _, name := range ci.MemberNames {
		if err := WriteLengthPrefixedString(w, name); err != nil {
			return err
		}
	}
	return nil
}

// MemberTypeInfo carries the parallel binary-type and additional-info
// vectors for a class's members; indices align with ClassInfo's
// MemberNames.
type MemberTypeInfo struct {
	BinaryTypes     []BinaryType
	AdditionalInfos []AdditionalTypeInfo
}

// ReadMemberTypeInfo reads n binary types followed by n additional
// type infos, validating that Unused never appears.
func ReadMemberTypeInfo(r *Reader, n int) (MemberTypeInfo, error) {
	var mti MemberTypeInfo
	types := make([]BinaryType, n)
	for i := range types {
		b, err := r.ReadByte()
		if err != nil {
			return mti, err
		}
		types[i] = BinaryType(b)
	}
	infos := make([]AdditionalTypeInfo, n)
	for i, bt := range types {
		info, err := ReadAdditionalTypeInfo(r, bt)
		if err != nil {
			return mti, err
		}
		infos[i] = info
	}
	mti.BinaryTypes = types
	mti.AdditionalInfos = infos
	return mti, nil
}

// WriteMemberTypeInfo writes mti's binary types then additional infos.
func WriteMemberTypeInfo(w *Writer, mti MemberTypeInfo) error {
	if len(mti.BinaryTypes) != len(mti.AdditionalInfos) {
		return wrapErr(KindInvariant, "WriteMemberTypeInfo", ErrMemberCountMismatch)
	}
	for _, bt := range mti.BinaryTypes {
		if err := w.WriteByte(byte(bt)); err != nil {
			return err
		}
	}
	for i, bt := range mti.BinaryTypes {
		if err := WriteAdditionalTypeInfo(w, bt, mti.AdditionalInfos[i]); err != nil {
			return err
		}
	}
	return nil
}
