// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTripGenericValues(t *testing.T, values []RemotingValue) []RemotingValue {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeGenericValues(NewWriter(&buf), values))

	ctx := NewDeserializationContext()
	got, err := readGenericValues(NewReader(bytes.NewReader(buf.Bytes())), ctx, int32(len(values)))
	require.NoError(t, err)
	return got
}

func TestGenericValuesRoundTripMixed(t *testing.T) {
	values := []RemotingValue{
		PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 42}),
		{Kind: ValueString, Str: "hello"},
		NullValue,
		PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveBoolean, Bool: true}),
	}
	got := roundTripGenericValues(t, values)
	require.Len(t, got, len(values))
	require.Equal(t, int32(42), got[0].Primitive.Int32)
	require.Equal(t, "hello", got[1].Str)
	require.Equal(t, ValueNull, got[2].Kind)
	require.True(t, got[3].Primitive.Bool)
}

func TestGenericValuesCompactNullRun(t *testing.T) {
	values := make([]RemotingValue, 260)
	for i := range values {
		values[i] = NullValue
	}

	var buf bytes.Buffer
	require.NoError(t, writeGenericValues(NewWriter(&buf), values))

	// A 260-null run is encoded as a single ObjectNullMultiple record:
	// tag (1) + count (4).
	require.Len(t, buf.Bytes(), 5)
	require.Equal(t, byte(RecordObjectNullMultiple), buf.Bytes()[0])

	ctx := NewDeserializationContext()
	got, err := readGenericValues(NewReader(bytes.NewReader(buf.Bytes())), ctx, 260)
	require.NoError(t, err)
	require.Len(t, got, 260)
	for _, v := range got {
		require.Equal(t, ValueNull, v.Kind)
	}
}

func TestGenericValuesCompactNullRun256Boundary(t *testing.T) {
	values := make([]RemotingValue, 256)
	for i := range values {
		values[i] = NullValue
	}

	var buf bytes.Buffer
	require.NoError(t, writeGenericValues(NewWriter(&buf), values))
	// 256 nulls exceed the single-byte-count form (max 255), so it must
	// fall back to ObjectNullMultiple.
	require.Equal(t, byte(RecordObjectNullMultiple), buf.Bytes()[0])
}

func TestGenericValuesNullRun255UsesCompactForm(t *testing.T) {
	values := make([]RemotingValue, 255)
	for i := range values {
		values[i] = NullValue
	}

	var buf bytes.Buffer
	require.NoError(t, writeGenericValues(NewWriter(&buf), values))
	require.Equal(t, byte(RecordObjectNullMultiple256), buf.Bytes()[0])
}

func TestGenericValueMemberReference(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMemberReference(NewWriter(&buf), MemberReference{IDRef: 7}))

	ctx := NewDeserializationContext()
	v, err := readGenericValue(NewReader(bytes.NewReader(buf.Bytes())), ctx)
	require.NoError(t, err)
	require.Equal(t, ValueReference, v.Kind)
	require.Equal(t, int32(7), v.ReferenceID)

	// The reference is pending until the referent is registered.
	err = ctx.CheckResolved()
	require.ErrorIs(t, err, ErrDanglingReference)

	require.NoError(t, ctx.RegisterObject(7, NullValue))
	require.NoError(t, ctx.CheckResolved())
}

func TestDeriveMemberTypeInfoPrimitiveAndString(t *testing.T) {
	members := []RemotingValue{
		PrimitiveRemotingValue(PrimitiveValue{Kind: PrimitiveInt32, Int32: 1}),
		{Kind: ValueString, Str: "x"},
		NullValue,
	}
	mti, err := DeriveMemberTypeInfo(members)
	require.NoError(t, err)
	require.Equal(t, BinaryTypePrimitive, mti.BinaryTypes[0])
	require.Equal(t, BinaryTypeString, mti.BinaryTypes[1])
	require.Equal(t, BinaryTypeObject, mti.BinaryTypes[2])
}

func TestDeriveMemberTypeInfoRejectsClassWithId(t *testing.T) {
	members := []RemotingValue{
		{Kind: ValueClass, ClassVariant: ClassVariantWithId},
	}
	_, err := DeriveMemberTypeInfo(members)
	require.ErrorIs(t, err, ErrCannotDeriveMemberTypeInfo)
}
