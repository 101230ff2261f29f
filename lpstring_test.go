// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTripLPString(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteLengthPrefixedString(NewWriter(&buf), s))
	got, err := ReadLengthPrefixedString(NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	return got
}

func TestLengthPrefixedStringEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLengthPrefixedString(NewWriter(&buf), ""))
	require.Equal(t, []byte{0x00}, buf.Bytes())
	require.Equal(t, "", roundTripLPString(t, ""))
}

func TestLengthPrefixedStringSingleByteHeaderBoundary(t *testing.T) {
	// 127 bytes still fits the single-byte (no continuation) header.
	s := strings.Repeat("a", 127)
	var buf bytes.Buffer
	require.NoError(t, WriteLengthPrefixedString(NewWriter(&buf), s))
	require.Equal(t, byte(127), buf.Bytes()[0])
	require.Equal(t, s, roundTripLPString(t, s))
}

func TestLengthPrefixedStringTwoByteHeaderBoundary(t *testing.T) {
	// 128 bytes requires a second, continuation-free header byte.
	s := strings.Repeat("a", 128)
	var buf bytes.Buffer
	require.NoError(t, WriteLengthPrefixedString(NewWriter(&buf), s))
	require.Equal(t, byte(0x80), buf.Bytes()[0])
	require.Equal(t, byte(0x01), buf.Bytes()[1])
	require.Equal(t, s, roundTripLPString(t, s))
}

func TestLengthPrefixedString130Chars(t *testing.T) {
	s := strings.Repeat("x", 130)
	require.Equal(t, s, roundTripLPString(t, s))
}

func TestLengthPrefixedStringRejectsInvalidUTF8(t *testing.T) {
	raw := []byte{0x02, 0xff, 0xfe}
	_, err := ReadLengthPrefixedString(NewReader(bytes.NewReader(raw)))
	require.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestLengthPrefixedStringRejectsOverlongHeader(t *testing.T) {
	raw := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, err := ReadLengthPrefixedString(NewReader(bytes.NewReader(raw)))
	require.ErrorIs(t, err, ErrLengthHeaderTooLong)
}
