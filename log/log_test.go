// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelperFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHelper(NewFilter(NewStdLogger(&buf), FilterLevel(LevelWarn)))

	h.Debug("should not appear")
	h.Infof("also not appearing: %d", 1)
	h.Warn("this should appear")

	out := buf.String()
	require.NotContains(t, out, "should not appear")
	require.NotContains(t, out, "also not appearing")
	require.True(t, strings.Contains(out, "this should appear"))
}

func TestNilHelperIsNoOp(t *testing.T) {
	var h *Helper
	require.NotPanics(t, func() {
		h.Info("no logger configured")
		h.Errorf("still fine: %v", nil)
	})
}

func TestHelperWithNilLoggerIsNoOp(t *testing.T) {
	h := NewHelper(nil)
	require.NotPanics(t, func() {
		h.Critical("dropped silently")
	})
}
