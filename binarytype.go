// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// BinaryType tags the element type of an array, or a class member's
// declared type, in the 8-valued grammar shared by both.
type BinaryType byte

// The 8 defined binary types.
const (
	BinaryTypePrimitive     BinaryType = 0
	BinaryTypeString        BinaryType = 1
	BinaryTypeObject        BinaryType = 2
	BinaryTypeSystemClass   BinaryType = 3
	BinaryTypeClass         BinaryType = 4
	BinaryTypeObjectArray   BinaryType = 5
	BinaryTypeStringArray   BinaryType = 6
	BinaryTypePrimitiveArray BinaryType = 7
)

// AdditionalTypeInfo carries the zero-or-one extra piece of type
// metadata a BinaryType may need: a primitive kind for
// Primitive/PrimitiveArray, a class name for SystemClass, or a
// {class name, library id} pair for Class.
type AdditionalTypeInfo struct {
	PrimitiveKind PrimitiveKind
	ClassName     string
	LibraryID     int32
}

// ReadAdditionalTypeInfo reads the additional type info (if any) for
// binary type bt.
func ReadAdditionalTypeInfo(r *Reader, bt BinaryType) (AdditionalTypeInfo, error) {
	var info AdditionalTypeInfo
	switch bt {
	case BinaryTypePrimitive, BinaryTypePrimitiveArray:
		k, err := ReadPrimitiveKind(r)
		if err != nil {
			return info, err
		}
		if err := ValidateArrayPrimitiveKind(k); err != nil {
			return info, err
		}
		info.PrimitiveKind = k
	case BinaryTypeSystemClass:
		name, err := ReadLengthPrefixedString(r)
		if err != nil {
			return info, err
		}
		info.ClassName = name
	case BinaryTypeClass:
		name, err := ReadLengthPrefixedString(r)
		if err != nil {
			return info, err
		}
		libID, err := r.ReadInt32()
		if err != nil {
			return info, err
		}
		info.ClassName = name
		info.LibraryID = libID
	case BinaryTypeString, BinaryTypeObject, BinaryTypeObjectArray, BinaryTypeStringArray:
		// no additional info
	default:
		return info, wrapErr(KindDecode, "ReadAdditionalTypeInfo", ErrInvalidTag)
	}
	return info, nil
}

// WriteAdditionalTypeInfo writes the additional type info (if any)
// for binary type bt.
func WriteAdditionalTypeInfo(w *Writer, bt BinaryType, info AdditionalTypeInfo) error {
	switch bt {
	case BinaryTypePrimitive, BinaryTypePrimitiveArray:
		if err := ValidateArrayPrimitiveKind(info.PrimitiveKind); err != nil {
			return err
		}
		return WritePrimitiveKind(w, info.PrimitiveKind)
	case BinaryTypeSystemClass:
		return WriteLengthPrefixedString(w, info.ClassName)
	case BinaryTypeClass:
		if err := WriteLengthPrefixedString(w, info.ClassName); err != nil {
			return err
		}
		return w.WriteInt32(info.LibraryID)
	case BinaryTypeString, BinaryTypeObject, BinaryTypeObjectArray, BinaryTypeStringArray:
		return nil
	default:
		return wrapErr(KindDecode, "WriteAdditionalTypeInfo", ErrInvalidTag)
	}
}
