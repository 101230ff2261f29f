// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// header17 is the 17-byte SerializedStreamHeader record shared by
// every scenario below: tag 0, root-id 0, header-id 0, version 1.0.
func header17() []byte {
	return []byte{
		0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// TestGoldenPingNoArgs is scenario 1: a call with no arguments and no
// context.
func TestGoldenPingNoArgs(t *testing.T) {
	want := concat(header17(), []byte{
		0x15, 0x11, 0x00, 0x00, 0x00,
		0x12, 0x04, 'P', 'i', 'n', 'g',
		0x12, 0x08, 'M', 'y', 'S', 'e', 'r', 'v', 'e', 'r',
		0x0B,
	})
	require.Len(t, want, 39)

	msg, err := ReadMessage(NewReader(bytes.NewReader(want)))
	require.NoError(t, err)
	require.True(t, msg.IsCall)
	require.Equal(t, "Ping", msg.Call.MethodName.Str)
	require.Equal(t, "MyServer", msg.Call.TypeName.Str)
	require.True(t, msg.Call.Flags.has(FlagNoArgs))
	require.True(t, msg.Call.Flags.has(FlagNoContext))
	require.Empty(t, msg.Args)

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(NewWriter(&buf), msg))
	require.Equal(t, want, buf.Bytes())
}

// TestGoldenAddInlineInts is scenario 2: a call with two inline i32
// arguments.
func TestGoldenAddInlineInts(t *testing.T) {
	want := concat(header17(), []byte{
		0x15, 0x12, 0x00, 0x00, 0x00,
		0x12, 0x03, 'A', 'd', 'd',
		0x12, 0x0B, 'M', 'a', 't', 'h', 'S', 'e', 'r', 'v', 'i', 'c', 'e',
		0x02, 0x00, 0x00, 0x00,
		0x08, 0x03, 0x00, 0x00, 0x00,
		0x08, 0x05, 0x00, 0x00, 0x00,
		0x0B,
	})

	msg, err := ReadMessage(NewReader(bytes.NewReader(want)))
	require.NoError(t, err)
	require.True(t, msg.IsCall)
	require.Equal(t, "Add", msg.Call.MethodName.Str)
	require.Equal(t, "MathService", msg.Call.TypeName.Str)
	require.Len(t, msg.Args, 2)
	require.Equal(t, int32(3), msg.Args[0].Primitive.Int32)
	require.Equal(t, int32(5), msg.Args[1].Primitive.Int32)

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(NewWriter(&buf), msg))
	require.Equal(t, want, buf.Bytes())
}

// TestGoldenReturnIntInline is scenario 3: a return carrying an inline
// i32 value.
func TestGoldenReturnIntInline(t *testing.T) {
	want := concat(header17(), []byte{
		0x16, 0x11, 0x08, 0x00, 0x00,
		0x08, 0x08, 0x00, 0x00, 0x00,
		0x0B,
	})

	msg, err := ReadMessage(NewReader(bytes.NewReader(want)))
	require.NoError(t, err)
	require.False(t, msg.IsCall)
	require.True(t, msg.Return.Flags.has(FlagReturnValueInline))
	require.NotNil(t, msg.ReturnValue)
	require.Equal(t, int32(8), msg.ReturnValue.Primitive.Int32)

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(NewWriter(&buf), msg))
	require.Equal(t, want, buf.Bytes())
}

// TestGoldenVoidReturn is scenario 4: a return with no value.
func TestGoldenVoidReturn(t *testing.T) {
	want := concat(header17(), []byte{
		0x16, 0x11, 0x04, 0x00, 0x00,
		0x0B,
	})

	msg, err := ReadMessage(NewReader(bytes.NewReader(want)))
	require.NoError(t, err)
	require.False(t, msg.IsCall)
	require.True(t, msg.Return.Flags.has(FlagReturnValueVoid))
	require.Nil(t, msg.ReturnValue)

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(NewWriter(&buf), msg))
	require.Equal(t, want, buf.Bytes())
}

// TestGoldenCallWithArgsInArray is scenario 5: a call whose single i32
// argument is routed through the call array, with a non-default
// root-id/header-id header.
func TestGoldenCallWithArgsInArray(t *testing.T) {
	header := []byte{
		0x00,
		0x01, 0x00, 0x00, 0x00, // root-id = 1
		0xFF, 0xFF, 0xFF, 0xFF, // header-id = -1
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	want := concat(header, []byte{
		0x15, 0x18, 0x00, 0x00, 0x00,
		0x12, 0x03, 'F', 'o', 'o',
		0x12, 0x03, 'B', 'a', 'r',
		0x10, 0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x08, 0x0A, 0x00, 0x00, 0x00,
		0x0B,
	})

	msg, err := ReadMessage(NewReader(bytes.NewReader(want)))
	require.NoError(t, err)
	require.True(t, msg.IsCall)
	require.Equal(t, int32(1), msg.Header.RootID)
	require.Equal(t, int32(-1), msg.Header.HeaderID)
	require.True(t, msg.Call.Flags.has(FlagArgsInArray))
	require.Len(t, msg.Args, 1)
	require.Equal(t, int32(10), msg.Args[0].Primitive.Int32)

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(NewWriter(&buf), msg))
	require.Equal(t, want, buf.Bytes())
}
