// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// ArrayInfo is the {object id, length} header shared by every array
// record variant.
type ArrayInfo struct {
	ObjectID int32
	Length   int32
}

// ReadArrayInfo reads {object id, length}, validating both.
func ReadArrayInfo(r *Reader) (ArrayInfo, error) {
	var ai ArrayInfo
	id, err := r.ReadInt32()
	if err != nil {
		return ai, err
	}
	if id <= 0 {
		return ai, wrapErr(KindInvariant, "ReadArrayInfo", ErrNonPositiveObjectID)
	}
	length, err := r.ReadInt32()
	if err != nil {
		return ai, err
	}
	if length < 0 {
		return ai, wrapErr(KindInvariant, "ReadArrayInfo", ErrNegativeLength)
	}
	ai.ObjectID = id
	ai.Length = length
	return ai, nil
}

// WriteArrayInfo writes ai, validating ObjectID > 0 and Length >= 0.
func WriteArrayInfo(w *Writer, ai ArrayInfo) error {
	if ai.ObjectID <= 0 {
		return wrapErr(KindInvariant, "WriteArrayInfo", ErrNonPositiveObjectID)
	}
	if ai.Length < 0 {
		return wrapErr(KindInvariant, "WriteArrayInfo", ErrNegativeLength)
	}
	if err := w.WriteInt32(ai.ObjectID); err != nil {
		return err
	}
	return w.WriteInt32(ai.Length)
}

// ArrayRecordVariant distinguishes the four wire shapes an array
// record can take.
type ArrayRecordVariant byte

// Array record variant constants.
const (
	ArrayVariantSingleObject ArrayRecordVariant = iota
	ArrayVariantSinglePrimitive
	ArrayVariantSingleString
	ArrayVariantBinaryArray
)

// BinaryArrayType enumerates the general binary-array shape: a plain
// single-dimension array, a single-dimension offset array (non-zero
// lower bound), a rectangular (multi-dimensional) array, a
// rectangular offset array, or a jagged array of arrays.
type BinaryArrayType byte

// Binary array type constants.
const (
	BinaryArraySingle BinaryArrayType = iota
	BinaryArrayJagged
	BinaryArrayRectangular
	BinaryArraySingleOffset
	BinaryArrayJaggedOffset
	BinaryArrayRectangularOffset
)

func hasLowerBounds(bat BinaryArrayType) bool {
	switch bat {
	case BinaryArraySingleOffset, BinaryArrayJaggedOffset, BinaryArrayRectangularOffset:
		return true
	default:
		return false
	}
}

// ArrayRecord is the header of one array record, in whichever of the
// four wire shapes Variant names.
type ArrayRecord struct {
	Variant ArrayRecordVariant
	Info    ArrayInfo

	// Used only by ArrayVariantSinglePrimitive.
	PrimitiveKind PrimitiveKind

	// Used only by ArrayVariantBinaryArray.
	ArrayType    BinaryArrayType
	Rank         int32
	Lengths      []int32
	LowerBounds  []int32
	ItemType     BinaryType
	AdditionalInfo AdditionalTypeInfo
}

// ReadArrayRecord reads one array record header given its
// already-peeked tag.
func ReadArrayRecord(r *Reader, tag RecordType) (ArrayRecord, error) {
	var ar ArrayRecord
	switch tag {
	case RecordArraySingleObject:
		if err := expectTag(r, RecordArraySingleObject, "ReadArrayRecord"); err != nil {
			return ar, err
		}
		ai, err := ReadArrayInfo(r)
		if err != nil {
			return ar, err
		}
		ar.Variant = ArrayVariantSingleObject
		ar.Info = ai

	case RecordArraySingleString:
		if err := expectTag(r, RecordArraySingleString, "ReadArrayRecord"); err != nil {
			return ar, err
		}
		ai, err := ReadArrayInfo(r)
		if err != nil {
			return ar, err
		}
		ar.Variant = ArrayVariantSingleString
		ar.Info = ai

	case RecordArraySinglePrimitive:
		if err := expectTag(r, RecordArraySinglePrimitive, "ReadArrayRecord"); err != nil {
			return ar, err
		}
		ai, err := ReadArrayInfo(r)
		if err != nil {
			return ar, err
		}
		k, err := ReadPrimitiveKind(r)
		if err != nil {
			return ar, err
		}
		if err := ValidateArrayPrimitiveKind(k); err != nil {
			return ar, err
		}
		ar.Variant = ArrayVariantSinglePrimitive
		ar.Info = ai
		ar.PrimitiveKind = k

	case RecordBinaryArray:
		if err := expectTag(r, RecordBinaryArray, "ReadArrayRecord"); err != nil {
			return ar, err
		}
		objID, err := r.ReadInt32()
		if err != nil {
			return ar, err
		}
		if objID <= 0 {
			return ar, wrapErr(KindInvariant, "ReadArrayRecord", ErrNonPositiveObjectID)
		}
		batByte, err := r.ReadByte()
		if err != nil {
			return ar, err
		}
		bat := BinaryArrayType(batByte)
		rank, err := r.ReadInt32()
		if err != nil {
			return ar, err
		}
		if rank < 1 {
			return ar, wrapErr(KindInvariant, "ReadArrayRecord", ErrInvalidRank)
		}
		lengths := make([]int32, rank)
		for i := range lengths {
			lengths[i], err = r.ReadInt32()
			if err != nil {
				return ar, err
			}
			if lengths[i] < 0 {
				return ar, wrapErr(KindInvariant, "ReadArrayRecord", ErrNegativeLength)
			}
		}
		var lowerBounds []int32
		if hasLowerBounds(bat) {
			lowerBounds = make([]int32, rank)
			for i := range lowerBounds {
				lowerBounds[i], err = r.ReadInt32()
				if err != nil {
					return ar, err
				}
			}
		}
		itemType, err := r.ReadByte()
		if err != nil {
			return ar, err
		}
		bt := BinaryType(itemType)
		info, err := ReadAdditionalTypeInfo(r, bt)
		if err != nil {
			return ar, err
		}
		ar.Variant = ArrayVariantBinaryArray
		ar.Info = ArrayInfo{ObjectID: objID}
		ar.ArrayType = bat
		ar.Rank = rank
		ar.Lengths = lengths
		ar.LowerBounds = lowerBounds
		ar.ItemType = bt
		ar.AdditionalInfo = info

	default:
		return ar, wrapErr(KindDecode, "ReadArrayRecord", ErrUnexpectedTag)
	}
	return ar, nil
}

// WriteArrayRecord writes ar's tag and header fields.
func WriteArrayRecord(w *Writer, ar ArrayRecord) error {
	switch ar.Variant {
	case ArrayVariantSingleObject:
		if err := w.WriteByte(byte(RecordArraySingleObject)); err != nil {
			return err
		}
		return WriteArrayInfo(w, ar.Info)

	case ArrayVariantSingleString:
		if err := w.WriteByte(byte(RecordArraySingleString)); err != nil {
			return err
		}
		return WriteArrayInfo(w, ar.Info)

	case ArrayVariantSinglePrimitive:
		if err := ValidateArrayPrimitiveKind(ar.PrimitiveKind); err != nil {
			return err
		}
		if err := w.WriteByte(byte(RecordArraySinglePrimitive)); err != nil {
			return err
		}
		if err := WriteArrayInfo(w, ar.Info); err != nil {
			return err
		}
		return WritePrimitiveKind(w, ar.PrimitiveKind)

	case ArrayVariantBinaryArray:
		if ar.Info.ObjectID <= 0 {
			return wrapErr(KindInvariant, "WriteArrayRecord", ErrNonPositiveObjectID)
		}
		if ar.Rank < 1 || int(ar.Rank) != len(ar.Lengths) {
			return wrapErr(KindInvariant, "WriteArrayRecord", ErrInvalidRank)
		}
		if hasLowerBounds(ar.ArrayType) && len(ar.LowerBounds) != int(ar.Rank) {
			return wrapErr(KindInvariant, "WriteArrayRecord", ErrInvalidRank)
		}
		if err := w.WriteByte(byte(RecordBinaryArray)); err != nil {
			return err
		}
		if err := w.WriteInt32(ar.Info.ObjectID); err != nil {
			return err
		}
		if err := w.WriteByte(byte(ar.ArrayType)); err != nil {
			return err
		}
		if err := w.WriteInt32(ar.Rank); err != nil {
			return err
		}
		for _, l := range ar.Lengths {
			if l < 0 {
				return wrapErr(KindInvariant, "WriteArrayRecord", ErrNegativeLength)
			}
			if err := w.WriteInt32(l); err != nil {
				return err
			}
		}
		if hasLowerBounds(ar.ArrayType) {
			for _, lb := range ar.LowerBounds {
				if err := w.WriteInt32(lb); err != nil {
					return err
				}
			}
		}
		if err := w.WriteByte(byte(ar.ItemType)); err != nil {
			return err
		}
		return WriteAdditionalTypeInfo(w, ar.ItemType, ar.AdditionalInfo)

	default:
		return wrapErr(KindInvariant, "WriteArrayRecord", ErrUnexpectedTag)
	}
}
