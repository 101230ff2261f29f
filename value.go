// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// ValueKind discriminates the RemotingValue tagged union.
type ValueKind int

// RemotingValue kinds.
const (
	ValuePrimitive ValueKind = iota
	ValueString
	ValueNull
	ValueReference
	ValueClass
	ValueArray
)

// RemotingValue is the unified recursive value callers exchange with
// the codec: one of {primitive, string, null, reference, class
// instance, array}. The model is acyclic at the language level; a
// cyclic object graph is represented by Reference nodes, and
// materializing a live cycle from the decoded arena is the caller's
// concern (see SerializationContext/DeserializationContext).
type RemotingValue struct {
	Kind ValueKind

	Primitive PrimitiveValue // ValuePrimitive
	Str       string         // ValueString (a boxed string's payload)
	StringID  int32          // ValueString: the boxed string's object id, 0 if inline/unboxed

	ReferenceID int32 // ValueReference

	ClassVariant ClassRecordVariant // ValueClass
	ClassRecord  ClassRecord        // ValueClass: the header this value was/will be emitted with
	Members      []RemotingValue    // ValueClass: member values, aligned with ClassRecord.Info.MemberNames

	ArrayVariant ArrayRecordVariant // ValueArray
	ArrayRecordH ArrayRecord        // ValueArray: the header this value was/will be emitted with
	Elements     []RemotingValue    // ValueArray: element values

	// Handle is the caller-supplied identity used by the
	// SerializationContext to decide whether this object was already
	// emitted. It is never read by the decoder.
	Handle any
}

// NullValue is the shared null RemotingValue.
var NullValue = RemotingValue{Kind: ValueNull}

// ReferenceValue builds a RemotingValue standing in for a
// previously-seen object ID.
func ReferenceValue(id int32) RemotingValue {
	return RemotingValue{Kind: ValueReference, ReferenceID: id}
}

// PrimitiveRemotingValue wraps a PrimitiveValue (not String, not
// Null — those have their own constructors) as a RemotingValue.
func PrimitiveRemotingValue(v PrimitiveValue) RemotingValue {
	return RemotingValue{Kind: ValuePrimitive, Primitive: v}
}

// BoxedStringValue builds a String RemotingValue with no object ID
// (StringID 0). At an inline argument, context or return-value
// position it is written as a bare String value with code. Where a
// BinaryObjectString record is written instead, StringID must first be
// set to a positive ID; the writer does not turn a repeated boxed
// string into a MemberReference.
func BoxedStringValue(s string) RemotingValue {
	return RemotingValue{Kind: ValueString, Str: s}
}

// readGenericValue reads one generically-typed value at a position
// where no static BinaryType is known: an inline method-call argument,
// inline call context, inline return value, or a single element of a
// call array (array-single-object).
//
// The wire form used here is the narrower "value with code" construct
// spec.md's message-helper section names explicitly: a bare
// PrimitiveKind byte followed by the raw value, with no wrapping
// record tag — this is also what the worked byte examples in spec.md
// §8 show for inline arguments and call-array elements. Two tags are
// special-cased ahead of the primitive-kind interpretation because
// they are central to the object-identity model and never appear in
// the worked examples in a colliding position: MemberReference (so a
// call-array element can point back at an object emitted earlier) and
// the null markers (so explicit nulls round-trip). A PrimitiveKind
// byte and a RecordType tag share the same numbering space, so this
// position cannot also special-case arbitrary referenceable tags
// (ClassWithId and friends, the array records) without colliding with
// real primitive-kind values such as Boolean(1) or Decimal(5); a
// caller needing to pass a class or array value at one of these
// positions must do so some other way (DESIGN.md). See DESIGN.md for
// the full discussion of this disambiguation.
func readGenericValue(r *Reader, ctx *DeserializationContext) (RemotingValue, error) {
	b, err := r.PeekByte()
	if err != nil {
		return RemotingValue{}, err
	}
	switch RecordType(b) {
	case RecordObjectNull:
		if err := ReadObjectNull(r); err != nil {
			return RemotingValue{}, err
		}
		return NullValue, nil
	case RecordMemberReference:
		ref, err := ReadMemberReference(r)
		if err != nil {
			return RemotingValue{}, err
		}
		ctx.notePendingReference(ref.IDRef)
		return ReferenceValue(ref.IDRef), nil
	}

	k, err := ReadPrimitiveKind(r)
	if err != nil {
		return RemotingValue{}, err
	}
	switch k {
	case PrimitiveNull:
		return NullValue, nil
	case PrimitiveString:
		s, err := ReadLengthPrefixedString(r)
		if err != nil {
			return RemotingValue{}, err
		}
		return RemotingValue{Kind: ValueString, Str: s}, nil
	default:
		v, err := ReadPrimitiveValue(r, k)
		if err != nil {
			return RemotingValue{}, err
		}
		return PrimitiveRemotingValue(v), nil
	}
}

// writeGenericValue writes v using the same "value with code" form
// readGenericValue expects, for the subset of RemotingValue kinds
// that form supports (Primitive, String, Null, Reference). A Class or
// Array value cannot be written here: see readGenericValue's doc
// comment for why this position can't disambiguate a record tag from
// a primitive kind byte.
func writeGenericValue(w *Writer, v RemotingValue) error {
	switch v.Kind {
	case ValueNull:
		return WriteObjectNull(w)
	case ValueReference:
		return WriteMemberReference(w, MemberReference{IDRef: v.ReferenceID})
	case ValueString:
		if err := WritePrimitiveKind(w, PrimitiveString); err != nil {
			return err
		}
		return WriteLengthPrefixedString(w, v.Str)
	case ValuePrimitive:
		if err := WritePrimitiveKind(w, v.Primitive.Kind); err != nil {
			return err
		}
		return WritePrimitiveValue(w, v.Primitive)
	default:
		return wrapErr(KindInvariant, "writeGenericValue", ErrUnexpectedTag)
	}
}

// readGenericValues reads count generic values, honoring the
// null-run optimization: ObjectNullMultiple256/ObjectNullMultiple
// records expand into that many Null values, clipped to the
// remaining slots.
func readGenericValues(r *Reader, ctx *DeserializationContext, count int32) ([]RemotingValue, error) {
	values := make([]RemotingValue, 0, count)
	for int32(len(values)) < count {
		b, err := r.PeekByte()
		if err != nil {
			return nil, err
		}
		switch RecordType(b) {
		case RecordObjectNullMultiple256:
			n, err := ReadObjectNullMultiple256(r)
			if err != nil {
				return nil, err
			}
			values = appendNulls(values, int32(n), count)
			continue
		case RecordObjectNullMultiple:
			n, err := ReadObjectNullMultiple(r)
			if err != nil {
				return nil, err
			}
			values = appendNulls(values, n, count)
			continue
		}
		v, err := readGenericValue(r, ctx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func appendNulls(values []RemotingValue, n, limit int32) []RemotingValue {
	remaining := limit - int32(len(values))
	if n > remaining {
		n = remaining
	}
	for i := int32(0); i < n; i++ {
		values = append(values, NullValue)
	}
	return values
}

// writeGenericValues writes values, collapsing consecutive Null
// elements into compact null-run records per the writer's null-run
// optimization (§4.5): runs of 2-255 use ObjectNullMultiple256, runs
// of 256+ use ObjectNullMultiple, single nulls use ObjectNull.
func writeGenericValues(w *Writer, values []RemotingValue) error {
	i := 0
	for i < len(values) {
		if values[i].Kind != ValueNull {
			if err := writeGenericValue(w, values[i]); err != nil {
				return err
			}
			i++
			continue
		}
		run := 0
		for i+run < len(values) && values[i+run].Kind == ValueNull {
			run++
		}
		if err := writeNullRun(w, run); err != nil {
			return err
		}
		i += run
	}
	return nil
}

func writeNullRun(w *Writer, run int) error {
	switch {
	case run == 1:
		return WriteObjectNull(w)
	case run >= 2 && run <= 255:
		return WriteObjectNullMultiple256(w, byte(run))
	default:
		remaining := run
		for remaining > 0 {
			chunk := remaining
			if chunk > 1<<30 {
				chunk = 1 << 30
			}
			if err := WriteObjectNullMultiple(w, int32(chunk)); err != nil {
				return err
			}
			remaining -= chunk
		}
		return nil
	}
}

// readArrayElementValue reads one element of an ArraySingleObject or
// ArraySingleString referenceable. Unlike readGenericValue's inline
// call-argument/call-array positions, a string element here is never
// a bare "value with code": spec.md's Open Question on the point
// resolves it to the wire-compatible form, a wrapped
// BinaryObjectString record, matching how a typed String class member
// is read (readTypedValue's BinaryTypeString case).
func readArrayElementValue(r *Reader, ctx *DeserializationContext) (RemotingValue, error) {
	b, err := r.PeekByte()
	if err != nil {
		return RemotingValue{}, err
	}
	switch RecordType(b) {
	case RecordObjectNull:
		if err := ReadObjectNull(r); err != nil {
			return RemotingValue{}, err
		}
		return NullValue, nil
	case RecordMemberReference:
		ref, err := ReadMemberReference(r)
		if err != nil {
			return RemotingValue{}, err
		}
		ctx.notePendingReference(ref.IDRef)
		return ReferenceValue(ref.IDRef), nil
	case RecordBinaryObjectString:
		return readReferenceable(r, ctx, RecordBinaryObjectString)
	}
	return readGenericValue(r, ctx)
}

// readArrayElementValues is readGenericValues' counterpart for
// ArraySingleObject/ArraySingleString elements, reading through
// readArrayElementValue so string elements come back wrapped.
func readArrayElementValues(r *Reader, ctx *DeserializationContext, count int32) ([]RemotingValue, error) {
	values := make([]RemotingValue, 0, count)
	for int32(len(values)) < count {
		b, err := r.PeekByte()
		if err != nil {
			return nil, err
		}
		switch RecordType(b) {
		case RecordObjectNullMultiple256:
			n, err := ReadObjectNullMultiple256(r)
			if err != nil {
				return nil, err
			}
			values = appendNulls(values, int32(n), count)
			continue
		case RecordObjectNullMultiple:
			n, err := ReadObjectNullMultiple(r)
			if err != nil {
				return nil, err
			}
			values = appendNulls(values, n, count)
			continue
		}
		v, err := readArrayElementValue(r, ctx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// writeArrayElementValue is writeGenericValue's counterpart for
// ArraySingleObject/ArraySingleString elements: a string element is
// always wrapped in a BinaryObjectString record rather than written as
// a bare "value with code" (spec.md's Open Question resolution; see
// DESIGN.md).
func writeArrayElementValue(w *Writer, v RemotingValue) error {
	if v.Kind == ValueString {
		return WriteBinaryObjectString(w, BinaryObjectString{ObjectID: v.StringID, Value: v.Str})
	}
	return writeGenericValue(w, v)
}

// writeArrayElementValues is writeGenericValues' counterpart for
// ArraySingleObject/ArraySingleString elements.
func writeArrayElementValues(w *Writer, values []RemotingValue) error {
	i := 0
	for i < len(values) {
		if values[i].Kind != ValueNull {
			if err := writeArrayElementValue(w, values[i]); err != nil {
				return err
			}
			i++
			continue
		}
		run := 0
		for i+run < len(values) && values[i+run].Kind == ValueNull {
			run++
		}
		if err := writeNullRun(w, run); err != nil {
			return err
		}
		i += run
	}
	return nil
}

// DeriveMemberTypeInfo derives a MemberTypeInfo table from a class
// value's member RemotingValues, per the fixed rule set of §4.3. It
// fails if any member is itself a Class value using the bare
// ClassWithId variant, since that variant carries no metadata to
// derive a binary type from.
func DeriveMemberTypeInfo(members []RemotingValue) (MemberTypeInfo, error) {
	mti := MemberTypeInfo{
		BinaryTypes:     make([]BinaryType, len(members)),
		AdditionalInfos: make([]AdditionalTypeInfo, len(members)),
	}
	for i, m := range members {
		bt, info, err := deriveOne(m)
		if err != nil {
			return MemberTypeInfo{}, err
		}
		mti.BinaryTypes[i] = bt
		mti.AdditionalInfos[i] = info
	}
	return mti, nil
}

func deriveOne(m RemotingValue) (BinaryType, AdditionalTypeInfo, error) {
	switch m.Kind {
	case ValuePrimitive:
		if err := ValidateArrayPrimitiveKind(m.Primitive.Kind); err != nil {
			return 0, AdditionalTypeInfo{}, err
		}
		return BinaryTypePrimitive, AdditionalTypeInfo{PrimitiveKind: m.Primitive.Kind}, nil
	case ValueString:
		return BinaryTypeString, AdditionalTypeInfo{}, nil
	case ValueNull, ValueReference:
		return BinaryTypeObject, AdditionalTypeInfo{}, nil
	case ValueClass:
		if m.ClassVariant == ClassVariantWithId {
			return 0, AdditionalTypeInfo{}, wrapErr(KindInvariant, "DeriveMemberTypeInfo", ErrCannotDeriveMemberTypeInfo)
		}
		if m.ClassVariant == ClassVariantSystemWithMembers || m.ClassVariant == ClassVariantSystemWithMembersAndTypes {
			return BinaryTypeSystemClass, AdditionalTypeInfo{ClassName: m.ClassRecord.Info.Name}, nil
		}
		return BinaryTypeClass, AdditionalTypeInfo{ClassName: m.ClassRecord.Info.Name, LibraryID: m.ClassRecord.LibraryID}, nil
	case ValueArray:
		switch m.ArrayVariant {
		case ArrayVariantSinglePrimitive:
			return BinaryTypePrimitiveArray, AdditionalTypeInfo{PrimitiveKind: m.ArrayRecordH.PrimitiveKind}, nil
		case ArrayVariantSingleString:
			return BinaryTypeStringArray, AdditionalTypeInfo{}, nil
		case ArrayVariantSingleObject:
			return BinaryTypeObjectArray, AdditionalTypeInfo{}, nil
		default: // ArrayVariantBinaryArray
			return BinaryTypeClass, AdditionalTypeInfo{ClassName: "System.Array"}, nil
		}
	default:
		return 0, AdditionalTypeInfo{}, wrapErr(KindInvariant, "DeriveMemberTypeInfo", ErrCannotDeriveMemberTypeInfo)
	}
}
