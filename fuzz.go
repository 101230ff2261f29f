// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import "bytes"

// Fuzz is a go-fuzz entry point: it round-trips data through
// ReadMessage/WriteMessage, reporting 1 when a message decoded and
// re-encoded successfully (interesting input) and 0 otherwise.
func Fuzz(data []byte) int {
	r := NewReader(bytes.NewReader(data))
	msg, err := ReadMessage(r)
	if err != nil {
		return 0
	}
	var buf bytes.Buffer
	if err := WriteMessage(NewWriter(&buf), msg); err != nil {
		return 0
	}
	return 1
}
