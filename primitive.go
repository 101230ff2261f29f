// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"math"
	"regexp"
	"unicode/utf8"
)

// PrimitiveKind enumerates the 18 MS-NRBF primitive wire types, plus
// the reserved "Unused" slot that must never appear in a class member
// type table.
type PrimitiveKind byte

// Primitive kind constants, in wire-tag order.
const (
	PrimitiveBoolean PrimitiveKind = 1
	PrimitiveByte    PrimitiveKind = 2
	PrimitiveChar    PrimitiveKind = 3
	// primitiveUnused (4) is reserved and must never be used.
	primitiveUnused   PrimitiveKind = 4
	PrimitiveDecimal  PrimitiveKind = 5
	PrimitiveDouble   PrimitiveKind = 6
	PrimitiveInt16    PrimitiveKind = 7
	PrimitiveInt32    PrimitiveKind = 8
	PrimitiveInt64    PrimitiveKind = 9
	PrimitiveSByte    PrimitiveKind = 10
	PrimitiveSingle   PrimitiveKind = 11
	PrimitiveTimeSpan PrimitiveKind = 12
	PrimitiveDateTime PrimitiveKind = 13
	PrimitiveUInt16   PrimitiveKind = 14
	PrimitiveUInt32   PrimitiveKind = 15
	PrimitiveUInt64   PrimitiveKind = 16
	PrimitiveNull     PrimitiveKind = 17
	PrimitiveString   PrimitiveKind = 18
)

func (k PrimitiveKind) valid() bool {
	return k >= PrimitiveBoolean && k <= PrimitiveString && k != primitiveUnused
}

// decimalPattern matches the MS-NRBF Decimal wire grammar: an optional
// leading minus, then either digits.digits or bare digits, no
// exponent. Significant-digit count (<=29) is checked separately.
var decimalPattern = regexp.MustCompile(`^-?(?:\d+\.\d+|\d+)$`)

// DateTimeKind enumerates the 2-bit "kind" packed into a DateTime
// primitive's high bits.
type DateTimeKind byte

// DateTime kind constants.
const (
	DateTimeUnspecified DateTimeKind = 0
	DateTimeUTC         DateTimeKind = 1
	DateTimeLocal       DateTimeKind = 2
)

// DateTimeValue is a decoded DateTime primitive: a 62-bit tick count
// since 0001-01-01 plus a 2-bit kind.
type DateTimeValue struct {
	Ticks int64
	Kind  DateTimeKind
}

func significantDigits(s string) int {
	n := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			n++
		}
	}
	return n
}

// ValidateDecimal reports whether s matches the MS-NRBF Decimal
// grammar: `^-?(?:\d+\.\d+|\d+)$`, no exponent, at most 29 significant
// digits.
func ValidateDecimal(s string) error {
	if !decimalPattern.MatchString(s) {
		return wrapErr(KindDecode, "ValidateDecimal", ErrInvalidDecimal)
	}
	if significantDigits(s) > 29 {
		return wrapErr(KindDecode, "ValidateDecimal", ErrInvalidDecimal)
	}
	return nil
}

// ReadPrimitiveKind reads one byte and validates it is a defined,
// non-Unused primitive kind.
func ReadPrimitiveKind(r *Reader) (PrimitiveKind, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	k := PrimitiveKind(b)
	if !k.valid() {
		return 0, wrapErr(KindDecode, "ReadPrimitiveKind", ErrUnusedPrimitiveKind)
	}
	return k, nil
}

// WritePrimitiveKind writes k's wire tag, validating it is not Unused.
func WritePrimitiveKind(w *Writer, k PrimitiveKind) error {
	if !k.valid() {
		return wrapErr(KindDecode, "WritePrimitiveKind", ErrUnusedPrimitiveKind)
	}
	return w.WriteByte(byte(k))
}

// ValidateArrayPrimitiveKind additionally rejects Null and String,
// which are never legal element kinds for a primitive array or a
// Primitive/PrimitiveArray additional-type-info byte.
func ValidateArrayPrimitiveKind(k PrimitiveKind) error {
	if !k.valid() || k == PrimitiveNull || k == PrimitiveString {
		return wrapErr(KindDecode, "ValidateArrayPrimitiveKind", ErrIllegalArrayPrimitiveKind)
	}
	return nil
}

// PrimitiveValue is a tagged union over the 18 primitive kinds. Only
// the field matching Kind is meaningful.
type PrimitiveValue struct {
	Kind PrimitiveKind

	Bool     bool
	Byte     byte
	SByte    int8
	Char     rune
	Int16    int16
	Int32    int32
	Int64    int64
	UInt16   uint16
	UInt32   uint32
	UInt64   uint64
	Single   float32
	Double   float64
	Decimal  string
	TimeSpan int64
	DateTime DateTimeValue
	Str      string
}

// ReadPrimitiveValue reads the wire representation for kind k (the
// kind is assumed already known from context — a preceding type tag
// or a container's declared element kind).
func ReadPrimitiveValue(r *Reader, k PrimitiveKind) (PrimitiveValue, error) {
	v := PrimitiveValue{Kind: k}
	switch k {
	case PrimitiveBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return v, err
		}
		v.Bool = b != 0
	case PrimitiveByte:
		b, err := r.ReadByte()
		if err != nil {
			return v, err
		}
		v.Byte = b
	case PrimitiveSByte:
		b, err := r.ReadByte()
		if err != nil {
			return v, err
		}
		v.SByte = int8(b)
	case PrimitiveChar:
		ch, err := readChar(r)
		if err != nil {
			return v, err
		}
		v.Char = ch
	case PrimitiveInt16:
		n, err := r.ReadInt16()
		if err != nil {
			return v, err
		}
		v.Int16 = n
	case PrimitiveInt32:
		n, err := r.ReadInt32()
		if err != nil {
			return v, err
		}
		v.Int32 = n
	case PrimitiveInt64:
		n, err := r.ReadInt64()
		if err != nil {
			return v, err
		}
		v.Int64 = n
	case PrimitiveUInt16:
		n, err := r.ReadUint16()
		if err != nil {
			return v, err
		}
		v.UInt16 = n
	case PrimitiveUInt32:
		n, err := r.ReadUint32()
		if err != nil {
			return v, err
		}
		v.UInt32 = n
	case PrimitiveUInt64:
		n, err := r.ReadUint64()
		if err != nil {
			return v, err
		}
		v.UInt64 = n
	case PrimitiveSingle:
		n, err := r.ReadUint32()
		if err != nil {
			return v, err
		}
		v.Single = math.Float32frombits(n)
	case PrimitiveDouble:
		n, err := r.ReadUint64()
		if err != nil {
			return v, err
		}
		v.Double = math.Float64frombits(n)
	case PrimitiveDecimal:
		s, err := ReadLengthPrefixedString(r)
		if err != nil {
			return v, err
		}
		if err := ValidateDecimal(s); err != nil {
			return v, err
		}
		v.Decimal = s
	case PrimitiveTimeSpan:
		n, err := r.ReadInt64()
		if err != nil {
			return v, err
		}
		v.TimeSpan = n
	case PrimitiveDateTime:
		dt, err := readDateTime(r)
		if err != nil {
			return v, err
		}
		v.DateTime = dt
	case PrimitiveString:
		s, err := ReadLengthPrefixedString(r)
		if err != nil {
			return v, err
		}
		v.Str = s
	case PrimitiveNull:
		// no payload
	default:
		return v, wrapErr(KindDecode, "ReadPrimitiveValue", ErrUnusedPrimitiveKind)
	}
	return v, nil
}

// WritePrimitiveValue writes v's payload (not its kind tag; callers
// that need an inline type tag write it separately via
// WritePrimitiveKind).
func WritePrimitiveValue(w *Writer, v PrimitiveValue) error {
	switch v.Kind {
	case PrimitiveBoolean:
		if v.Bool {
			return w.WriteByte(1)
		}
		return w.WriteByte(0)
	case PrimitiveByte:
		return w.WriteByte(v.Byte)
	case PrimitiveSByte:
		return w.WriteByte(byte(v.SByte))
	case PrimitiveChar:
		return writeChar(w, v.Char)
	case PrimitiveInt16:
		return w.WriteInt16(v.Int16)
	case PrimitiveInt32:
		return w.WriteInt32(v.Int32)
	case PrimitiveInt64:
		return w.WriteInt64(v.Int64)
	case PrimitiveUInt16:
		return w.WriteUint16(v.UInt16)
	case PrimitiveUInt32:
		return w.WriteUint32(v.UInt32)
	case PrimitiveUInt64:
		return w.WriteUint64(v.UInt64)
	case PrimitiveSingle:
		return w.WriteUint32(math.Float32bits(v.Single))
	case PrimitiveDouble:
		return w.WriteUint64(math.Float64bits(v.Double))
	case PrimitiveDecimal:
		if err := ValidateDecimal(v.Decimal); err != nil {
			return err
		}
		return WriteLengthPrefixedString(w, v.Decimal)
	case PrimitiveTimeSpan:
		return w.WriteInt64(v.TimeSpan)
	case PrimitiveDateTime:
		return writeDateTime(w, v.DateTime)
	case PrimitiveString:
		return WriteLengthPrefixedString(w, v.Str)
	case PrimitiveNull:
		return nil
	default:
		return wrapErr(KindDecode, "WritePrimitiveValue", ErrUnusedPrimitiveKind)
	}
}

// readChar reads 1-4 UTF-8 bytes forming exactly one Unicode scalar.
func readChar(r *Reader) (rune, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	n := utf8.RuneLen(rune(first))
	// Determine the expected sequence length from the lead byte
	// without assuming RuneLen works on a bare lead byte: derive it
	// from the high bits directly.
	switch {
	case first&0x80 == 0x00:
		n = 1
	case first&0xE0 == 0xC0:
		n = 2
	case first&0xF0 == 0xE0:
		n = 3
	case first&0xF8 == 0xF0:
		n = 4
	default:
		return 0, wrapErr(KindDecode, "readChar", ErrInvalidUTF8)
	}
	buf := make([]byte, n)
	buf[0] = first
	if n > 1 {
		rest, err := r.ReadBytes(n - 1)
		if err != nil {
			return 0, err
		}
		copy(buf[1:], rest)
	}
	ch, size := utf8.DecodeRune(buf)
	if ch == utf8.RuneError || size != n {
		return 0, wrapErr(KindDecode, "readChar", ErrInvalidCharScalar)
	}
	return ch, nil
}

func writeChar(w *Writer, ch rune) error {
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, ch)
	return w.WriteBytes(buf[:n])
}

// dateTimeTickMask / dateTimeKindBits split the packed 64-bit
// DateTime wire value: the top 2 bits are the kind, the low 62 bits
// are the tick count.
const (
	dateTimeTickMask = (uint64(1) << 62) - 1
	dateTimeKindBits = 62
)

func readDateTime(r *Reader) (DateTimeValue, error) {
	raw, err := r.ReadUint64()
	if err != nil {
		return DateTimeValue{}, err
	}
	kind := DateTimeKind(raw >> dateTimeKindBits)
	if kind == 3 {
		return DateTimeValue{}, wrapErr(KindDecode, "readDateTime", ErrInvalidDateTimeKind)
	}
	return DateTimeValue{
		Ticks: int64(raw & dateTimeTickMask),
		Kind:  kind,
	}, nil
}

func writeDateTime(w *Writer, v DateTimeValue) error {
	if v.Kind == 3 {
		return wrapErr(KindDecode, "writeDateTime", ErrInvalidDateTimeKind)
	}
	raw := (uint64(v.Kind) << dateTimeKindBits) | (uint64(v.Ticks) & dateTimeTickMask)
	return w.WriteUint64(raw)
}
