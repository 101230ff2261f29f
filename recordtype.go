// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// RecordType is the one-byte tag that opens every MS-NRBF record.
type RecordType byte

// The 20 defined record type tags.
const (
	RecordSerializedStreamHeader     RecordType = 0
	RecordClassWithMembersAndTypes   RecordType = 1
	RecordClassWithMembers           RecordType = 2
	RecordSystemClassWithMembersAndTypes RecordType = 3
	RecordSystemClassWithMembers     RecordType = 4
	RecordClassWithId                RecordType = 5
	RecordBinaryObjectString         RecordType = 6
	RecordBinaryArray                RecordType = 7
	RecordMemberPrimitiveTyped       RecordType = 8
	RecordMemberReference            RecordType = 9
	RecordObjectNull                 RecordType = 10
	RecordMessageEnd                 RecordType = 11
	RecordBinaryLibrary              RecordType = 12
	RecordObjectNullMultiple256      RecordType = 13
	RecordObjectNullMultiple         RecordType = 14
	RecordArraySinglePrimitive       RecordType = 15
	RecordArraySingleObject          RecordType = 16
	RecordArraySingleString          RecordType = 17
	RecordMethodCall                 RecordType = 21
	RecordMethodReturn               RecordType = 22
)

// Valid reports whether t is one of the 20 defined record tags.
func (t RecordType) Valid() bool {
	switch t {
	case RecordSerializedStreamHeader, RecordClassWithMembersAndTypes,
		RecordClassWithMembers, RecordSystemClassWithMembersAndTypes,
		RecordSystemClassWithMembers, RecordClassWithId,
		RecordBinaryObjectString, RecordBinaryArray,
		RecordMemberPrimitiveTyped, RecordMemberReference,
		RecordObjectNull, RecordMessageEnd, RecordBinaryLibrary,
		RecordObjectNullMultiple256, RecordObjectNullMultiple,
		RecordArraySinglePrimitive, RecordArraySingleObject,
		RecordArraySingleString, RecordMethodCall, RecordMethodReturn:
		return true
	default:
		return false
	}
}

// IsReferenceable reports whether t is a record kind that may carry an
// object ID and later be the target of a MemberReference: any class
// variant, any array variant, or a boxed string.
func (t RecordType) IsReferenceable() bool {
	switch t {
	case RecordClassWithMembersAndTypes, RecordClassWithMembers,
		RecordSystemClassWithMembersAndTypes, RecordSystemClassWithMembers,
		RecordClassWithId, RecordBinaryObjectString, RecordBinaryArray,
		RecordArraySinglePrimitive, RecordArraySingleObject,
		RecordArraySingleString:
		return true
	default:
		return false
	}
}

// PeekRecordType peeks the next byte and validates it is a defined tag
// without consuming it.
func PeekRecordType(r *Reader) (RecordType, error) {
	b, err := r.PeekByte()
	if err != nil {
		return 0, err
	}
	t := RecordType(b)
	if !t.Valid() {
		return 0, wrapErr(KindDecode, "PeekRecordType", ErrInvalidTag)
	}
	return t, nil
}

// expectTag consumes one byte and requires it equal want.
func expectTag(r *Reader, want RecordType, op string) error {
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	if RecordType(b) != want {
		return wrapErr(KindDecode, op, ErrUnexpectedTag)
	}
	return nil
}
