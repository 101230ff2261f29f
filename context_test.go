// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializationContextObjectIDAssignsOnce(t *testing.T) {
	ctx := NewSerializationContext()
	type handle struct{ n int }
	h := &handle{n: 1}

	id1, seen1 := ctx.ObjectID(h)
	require.False(t, seen1)
	require.Equal(t, int32(1), id1)

	id2, seen2 := ctx.ObjectID(h)
	require.True(t, seen2)
	require.Equal(t, id1, id2)

	other := &handle{n: 2}
	id3, seen3 := ctx.ObjectID(other)
	require.False(t, seen3)
	require.Equal(t, int32(2), id3)
}

func TestSerializationContextLibraryIDAssignsOnce(t *testing.T) {
	ctx := NewSerializationContext()
	id1, seen1 := ctx.LibraryID("System.Private.CoreLib")
	require.False(t, seen1)
	id2, seen2 := ctx.LibraryID("System.Private.CoreLib")
	require.True(t, seen2)
	require.Equal(t, id1, id2)
}

func TestSerializationContextReserveObjectIDDoesNotCollide(t *testing.T) {
	ctx := NewSerializationContext()
	reserved := ctx.ReserveObjectID()
	id, seen := ctx.ObjectID("anything")
	require.False(t, seen)
	require.NotEqual(t, reserved, id)
}

func TestDeserializationContextDuplicateObjectID(t *testing.T) {
	ctx := NewDeserializationContext()
	require.NoError(t, ctx.RegisterObject(1, NullValue))
	err := ctx.RegisterObject(1, NullValue)
	require.ErrorIs(t, err, ErrDuplicateObjectID)
}

func TestDeserializationContextUnknownLibraryID(t *testing.T) {
	ctx := NewDeserializationContext()
	_, err := ctx.Library(99)
	require.ErrorIs(t, err, ErrUnknownLibraryID)
}

func TestDeserializationContextDuplicateLibraryID(t *testing.T) {
	ctx := NewDeserializationContext()
	require.NoError(t, ctx.RegisterLibrary(1, "Foo"))
	err := ctx.RegisterLibrary(1, "Bar")
	require.ErrorIs(t, err, ErrDuplicateObjectID)
}

func TestDeserializationContextResolvedReferenceNeverPending(t *testing.T) {
	ctx := NewDeserializationContext()
	require.NoError(t, ctx.RegisterObject(5, NullValue))
	ctx.notePendingReference(5)
	require.NoError(t, ctx.CheckResolved())
}
