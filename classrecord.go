// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// ClassRecordVariant distinguishes the five wire shapes a class
// record can take. The value model's Class variant carries this
// verbatim, since it determines which concrete form gets re-emitted.
type ClassRecordVariant byte

// Class record variant constants, paired with their RecordType tag.
const (
	ClassVariantWithId ClassRecordVariant = iota
	ClassVariantSystemWithMembers
	ClassVariantWithMembers
	ClassVariantSystemWithMembersAndTypes
	ClassVariantWithMembersAndTypes
)

func (v ClassRecordVariant) tag() RecordType {
	switch v {
	case ClassVariantWithId:
		return RecordClassWithId
	case ClassVariantSystemWithMembers:
		return RecordSystemClassWithMembers
	case ClassVariantWithMembers:
		return RecordClassWithMembers
	case ClassVariantSystemWithMembersAndTypes:
		return RecordSystemClassWithMembersAndTypes
	case ClassVariantWithMembersAndTypes:
		return RecordClassWithMembersAndTypes
	default:
		return 0
	}
}

// HasTypeInfo reports whether this variant carries a MemberTypeInfo
// table (and therefore can serve as a ClassWithId metadata target).
func (v ClassRecordVariant) HasTypeInfo() bool {
	return v == ClassVariantSystemWithMembersAndTypes || v == ClassVariantWithMembersAndTypes
}

// HasLibraryID reports whether this variant carries an explicit
// library id field (the non-system "With" variants).
func (v ClassRecordVariant) HasLibraryID() bool {
	return v == ClassVariantWithMembers || v == ClassVariantWithMembersAndTypes
}

// ClassRecord is the header (everything but recursively-typed member
// values) of one class record, in whichever of the five wire shapes
// Variant names.
type ClassRecord struct {
	Variant ClassRecordVariant

	// Used by ClassVariantWithId only.
	MetadataObjectID int32

	// Used by every variant. ClassVariantWithId carries only
	// Info.ObjectID on the wire; the reader fills Name and MemberNames
	// from the referenced metadata.
	Info ClassInfo

	// Used only by ClassVariantWithMembersAndTypes and
	// ClassVariantSystemWithMembersAndTypes.
	Types MemberTypeInfo

	// Used only by ClassVariantWithMembers and
	// ClassVariantWithMembersAndTypes.
	LibraryID int32
}

// ReadClassRecord reads one class record header given its
// already-peeked tag.
func ReadClassRecord(r *Reader, tag RecordType) (ClassRecord, error) {
	var cr ClassRecord
	switch tag {
	case RecordClassWithId:
		if err := expectTag(r, RecordClassWithId, "ReadClassRecord"); err != nil {
			return cr, err
		}
		objID, err := r.ReadInt32()
		if err != nil {
			return cr, err
		}
		if objID <= 0 {
			return cr, wrapErr(KindInvariant, "ReadClassRecord", ErrNonPositiveObjectID)
		}
		metaID, err := r.ReadInt32()
		if err != nil {
			return cr, err
		}
		cr.Variant = ClassVariantWithId
		cr.Info = ClassInfo{ObjectID: objID}
		cr.MetadataObjectID = metaID

	case RecordSystemClassWithMembers:
		if err := expectTag(r, RecordSystemClassWithMembers, "ReadClassRecord"); err != nil {
			return cr, err
		}
		ci, err := ReadClassInfo(r)
		if err != nil {
			return cr, err
		}
		cr.Variant = ClassVariantSystemWithMembers
		cr.Info = ci

	case RecordClassWithMembers:
		if err := expectTag(r, RecordClassWithMembers, "ReadClassRecord"); err != nil {
			return cr, err
		}
		ci, err := ReadClassInfo(r)
		if err != nil {
			return cr, err
		}
		libID, err := r.ReadInt32()
		if err != nil {
			return cr, err
		}
		cr.Variant = ClassVariantWithMembers
		cr.Info = ci
		cr.LibraryID = libID

	case RecordSystemClassWithMembersAndTypes:
		if err := expectTag(r, RecordSystemClassWithMembersAndTypes, "ReadClassRecord"); err != nil {
			return cr, err
		}
		ci, err := ReadClassInfo(r)
		if err != nil {
			return cr, err
		}
		types, err := ReadMemberTypeInfo(r, len(ci.MemberNames))
		if err != nil {
			return cr, err
		}
		cr.Variant = ClassVariantSystemWithMembersAndTypes
		cr.Info = ci
		cr.Types = types

	case RecordClassWithMembersAndTypes:
		if err := expectTag(r, RecordClassWithMembersAndTypes, "ReadClassRecord"); err != nil {
			return cr, err
		}
		ci, err := ReadClassInfo(r)
		if err != nil {
			return cr, err
		}
		types, err := ReadMemberTypeInfo(r, len(ci.MemberNames))
		if err != nil {
			return cr, err
		}
		libID, err := r.ReadInt32()
		if err != nil {
			return cr, err
		}
		cr.Variant = ClassVariantWithMembersAndTypes
		cr.Info = ci
		cr.Types = types
		cr.LibraryID = libID

	default:
		return cr, wrapErr(KindDecode, "ReadClassRecord", ErrUnexpectedTag)
	}
	return cr, nil
}

// WriteClassRecord writes cr's tag and header fields.
func WriteClassRecord(w *Writer, cr ClassRecord) error {
	switch cr.Variant {
	case ClassVariantWithId:
		if cr.Info.ObjectID <= 0 {
			return wrapErr(KindInvariant, "WriteClassRecord", ErrNonPositiveObjectID)
		}
		if err := w.WriteByte(byte(RecordClassWithId)); err != nil {
			return err
		}
		if err := w.WriteInt32(cr.Info.ObjectID); err != nil {
			return err
		}
		return w.WriteInt32(cr.MetadataObjectID)

	case ClassVariantSystemWithMembers:
		if err := w.WriteByte(byte(RecordSystemClassWithMembers)); err != nil {
			return err
		}
		return WriteClassInfo(w, cr.Info)

	case ClassVariantWithMembers:
		if err := w.WriteByte(byte(RecordClassWithMembers)); err != nil {
			return err
		}
		if err := WriteClassInfo(w, cr.Info); err != nil {
			return err
		}
		if cr.LibraryID <= 0 {
			return wrapErr(KindInvariant, "WriteClassRecord", ErrNonPositiveLibraryID)
		}
		return w.WriteInt32(cr.LibraryID)

	case ClassVariantSystemWithMembersAndTypes:
		if err := w.WriteByte(byte(RecordSystemClassWithMembersAndTypes)); err != nil {
			return err
		}
		if err := WriteClassInfo(w, cr.Info); err != nil {
			return err
		}
		if len(cr.Types.BinaryTypes) != len(cr.Info.MemberNames) {
			return wrapErr(KindInvariant, "WriteClassRecord", ErrMemberCountMismatch)
		}
		return WriteMemberTypeInfo(w, cr.Types)

	case ClassVariantWithMembersAndTypes:
		if err := w.WriteByte(byte(RecordClassWithMembersAndTypes)); err != nil {
			return err
		}
		if err := WriteClassInfo(w, cr.Info); err != nil {
			return err
		}
		if len(cr.Types.BinaryTypes) != len(cr.Info.MemberNames) {
			return wrapErr(KindInvariant, "WriteClassRecord", ErrMemberCountMismatch)
		}
		if err := WriteMemberTypeInfo(w, cr.Types); err != nil {
			return err
		}
		if cr.LibraryID <= 0 {
			return wrapErr(KindInvariant, "WriteClassRecord", ErrNonPositiveLibraryID)
		}
		return w.WriteInt32(cr.LibraryID)

	default:
		return wrapErr(KindInvariant, "WriteClassRecord", ErrUnexpectedTag)
	}
}
