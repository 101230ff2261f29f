// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTripMessage(t *testing.T, msg *RemotingMessage) *RemotingMessage {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(NewWriter(&buf), msg))
	got, err := ReadMessage(NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	return got
}

// These class/array values are written and read through
// writeClassValue/readClassValue and writeArrayValue/readArrayValue
// directly rather than as RemotingMessage inline arguments: a Class or
// Array value is a referenceable record in its own right, and the
// inline-argument position's bare "value with code" form (see
// value.go's writeGenericValue) only supports Primitive/String/Null/
// Reference, since its leading byte doubles as a PrimitiveKind
// discriminant that collides with several RecordType tags.

func TestMessageWithUntypedClassArgument(t *testing.T) {
	class := RemotingValue{
		Kind:         ValueClass,
		ClassVariant: ClassVariantSystemWithMembers,
		ClassRecord: ClassRecord{
			Variant: ClassVariantSystemWithMembers,
			Info:    ClassInfo{ObjectID: 1, Name: "System.Point", MemberNames: []string{"X", "Y"}},
		},
		Members: []RemotingValue{
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 3}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 4}),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeClassValue(NewWriter(&buf), class))

	got, err := readClassValue(NewReader(bytes.NewReader(buf.Bytes())), NewDeserializationContext(), class.ClassVariant.tag())
	require.NoError(t, err)
	require.Equal(t, ValueClass, got.Kind)
	require.Equal(t, "System.Point", got.ClassRecord.Info.Name)
	require.Len(t, got.Members, 2)
	require.Equal(t, int32(3), got.Members[0].Primitive.Int32)
	require.Equal(t, int32(4), got.Members[1].Primitive.Int32)
}

func TestMessageWithTypedClassAndClassWithIdReference(t *testing.T) {
	types := MemberTypeInfo{
		BinaryTypes:     []BinaryType{BinaryTypePrimitive, BinaryTypePrimitive},
		AdditionalInfos: []AdditionalTypeInfo{{PrimitiveKind: PrimitiveInt32}, {PrimitiveKind: PrimitiveInt32}},
	}
	first := RemotingValue{
		Kind:         ValueClass,
		ClassVariant: ClassVariantSystemWithMembersAndTypes,
		ClassRecord: ClassRecord{
			Variant: ClassVariantSystemWithMembersAndTypes,
			Info:    ClassInfo{ObjectID: 1, Name: "System.Point", MemberNames: []string{"X", "Y"}},
			Types:   types,
		},
		Members: []RemotingValue{
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 1}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 2}),
		},
	}
	second := RemotingValue{
		Kind:         ValueClass,
		ClassVariant: ClassVariantWithId,
		ClassRecord: ClassRecord{
			Variant:          ClassVariantWithId,
			Info:             ClassInfo{ObjectID: 2},
			MetadataObjectID: 1,
			Types:            types,
		},
		Members: []RemotingValue{
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 5}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 6}),
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, writeClassValue(w, first))
	require.NoError(t, writeClassValue(w, second))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	ctx := NewDeserializationContext()
	_, err := readClassValue(r, ctx, first.ClassVariant.tag())
	require.NoError(t, err)
	got, err := readClassValue(r, ctx, second.ClassVariant.tag())
	require.NoError(t, err)
	require.Equal(t, ClassVariantWithId, got.ClassVariant)
	require.Equal(t, "System.Point", got.ClassRecord.Info.Name)
	require.Equal(t, int32(5), got.Members[0].Primitive.Int32)
}

func TestClassWithIdUnknownMetadataFails(t *testing.T) {
	orphan := RemotingValue{
		Kind:         ValueClass,
		ClassVariant: ClassVariantWithId,
		ClassRecord: ClassRecord{
			Variant:          ClassVariantWithId,
			Info:             ClassInfo{ObjectID: 1},
			MetadataObjectID: 99,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeClassValue(NewWriter(&buf), orphan))
	_, err := readClassValue(NewReader(bytes.NewReader(buf.Bytes())), NewDeserializationContext(), orphan.ClassVariant.tag())
	require.ErrorIs(t, err, ErrUnknownMetadataID)
}

func TestMessageWithPrimitiveArrayArgument(t *testing.T) {
	arr := RemotingValue{
		Kind:         ValueArray,
		ArrayVariant: ArrayVariantSinglePrimitive,
		ArrayRecordH: ArrayRecord{
			Variant:       ArrayVariantSinglePrimitive,
			Info:          ArrayInfo{ObjectID: 1, Length: 3},
			PrimitiveKind: PrimitiveInt32,
		},
		Elements: []RemotingValue{
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 1}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 2}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 3}),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeArrayValue(NewWriter(&buf), arr))

	got, err := readArrayValue(NewReader(bytes.NewReader(buf.Bytes())), NewDeserializationContext(), RecordArraySinglePrimitive)
	require.NoError(t, err)
	require.Equal(t, ValueArray, got.Kind)
	require.Len(t, got.Elements, 3)
	require.Equal(t, int32(2), got.Elements[1].Primitive.Int32)
}

func TestMessageWithRectangularOffsetBinaryArray(t *testing.T) {
	arr := RemotingValue{
		Kind:         ValueArray,
		ArrayVariant: ArrayVariantBinaryArray,
		ArrayRecordH: ArrayRecord{
			Variant:        ArrayVariantBinaryArray,
			Info:           ArrayInfo{ObjectID: 1},
			ArrayType:      BinaryArrayRectangularOffset,
			Rank:           2,
			Lengths:        []int32{2, 2},
			LowerBounds:    []int32{1, 1},
			ItemType:       BinaryTypePrimitive,
			AdditionalInfo: AdditionalTypeInfo{PrimitiveKind: PrimitiveInt32},
		},
		Elements: []RemotingValue{
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 1}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 2}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 3}),
			PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 4}),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeArrayValue(NewWriter(&buf), arr))

	got, err := readArrayValue(NewReader(bytes.NewReader(buf.Bytes())), NewDeserializationContext(), RecordBinaryArray)
	require.NoError(t, err)
	require.Equal(t, []int32{2, 2}, got.ArrayRecordH.Lengths)
	require.Equal(t, []int32{1, 1}, got.ArrayRecordH.LowerBounds)
	require.Len(t, got.Elements, 4)
}

func TestMessageBoxedStringArgumentRoundTrip(t *testing.T) {
	boxed := BoxedStringValue("shared")
	msg := MakeMethodCall("Echo", "IEcho", []RemotingValue{boxed})
	msg.Call.Flags = FlagArgsInline | FlagNoContext

	got := roundTripMessage(t, msg)
	require.Len(t, got.Args, 1)
	require.Equal(t, "shared", got.Args[0].Str)
}

// TestArraySingleStringElementsAreWireWrapped exercises writeArrayValue/
// readArrayValue directly: an ArraySingleString record is a top-level
// referenceable in its own right, not an inline method-call argument,
// so the test drives the array grammar without going through the
// narrower "value with code" position (which can only carry a
// primitive, a string, a null, or a reference — see value.go).
func TestArraySingleStringElementsAreWireWrapped(t *testing.T) {
	arr := RemotingValue{
		Kind:         ValueArray,
		ArrayVariant: ArrayVariantSingleString,
		ArrayRecordH: ArrayRecord{
			Variant: ArrayVariantSingleString,
			Info:    ArrayInfo{ObjectID: 1, Length: 2},
		},
		Elements: []RemotingValue{
			{Kind: ValueString, Str: "Foo", StringID: 2},
			{Kind: ValueString, Str: "Bar", StringID: 3},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeArrayValue(NewWriter(&buf), arr))

	// Each string element must appear wrapped as a tagged
	// BinaryObjectString record (tag 6, then object id, then
	// length-prefixed string), never as a bare primitive-kind 18
	// "value with code".
	require.Contains(t, buf.String(), "Foo")
	wire := buf.Bytes()
	idx := bytes.Index(wire, []byte("Foo"))
	require.GreaterOrEqual(t, idx, 6)
	// 1 byte back from "Foo" is the 1-byte base-128 string-length
	// header; 4 bytes before that is the object id; 1 byte before that
	// is the BinaryObjectString tag (6).
	tagOffset := idx - 1 - 4 - 1
	require.Equal(t, byte(RecordBinaryObjectString), wire[tagOffset])

	ctx := NewDeserializationContext()
	got, err := readArrayValue(NewReader(bytes.NewReader(wire)), ctx, RecordArraySingleString)
	require.NoError(t, err)
	require.Len(t, got.Elements, 2)
	require.Equal(t, "Foo", got.Elements[0].Str)
	require.Equal(t, "Bar", got.Elements[1].Str)
}

// TestBinaryArrayAcceptsCompactNullRun exercises writeArrayValue/
// readArrayValue directly for the same reason: a general BinaryArray
// is a referenceable record, not an inline argument.
func TestBinaryArrayAcceptsCompactNullRun(t *testing.T) {
	arr := RemotingValue{
		Kind:         ValueArray,
		ArrayVariant: ArrayVariantBinaryArray,
		ArrayRecordH: ArrayRecord{
			Variant:        ArrayVariantBinaryArray,
			Info:           ArrayInfo{ObjectID: 1, Length: 4},
			ArrayType:      BinaryArraySingle,
			Rank:           1,
			Lengths:        []int32{4},
			ItemType:       BinaryTypeObject,
			AdditionalInfo: AdditionalTypeInfo{},
		},
		Elements: []RemotingValue{NullValue, NullValue, NullValue, NullValue},
	}

	var buf bytes.Buffer
	require.NoError(t, writeArrayValue(NewWriter(&buf), arr))
	// A 4-null run should collapse to a single compact null-run record,
	// not four individual ObjectNull bytes.
	require.NotEqual(t, 4, bytes.Count(buf.Bytes(), []byte{byte(RecordObjectNull)}))

	ctx := NewDeserializationContext()
	got, err := readArrayValue(NewReader(bytes.NewReader(buf.Bytes())), ctx, RecordBinaryArray)
	require.NoError(t, err)
	require.Len(t, got.Elements, 4)
	for _, e := range got.Elements {
		require.Equal(t, ValueNull, e.Kind)
	}
}

func TestEmptyCallArrayWithFlagSetIsRejected(t *testing.T) {
	header := []byte{
		0x00,
		0x01, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	body := concat(header, []byte{
		0x15, 0x18, 0x00, 0x00, 0x00,
		0x12, 0x01, 'X',
		0x12, 0x01, 'Y',
		// array-single-object with length 0: violates "in-array flag
		// implies non-empty call array".
		0x10, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x0B,
	})
	_, err := ReadMessage(NewReader(bytes.NewReader(body)))
	require.Error(t, err)
}
