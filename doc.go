// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package nrbf implements MS-NRBF, the .NET Remoting Binary Format: a
// tag-prefixed, reference-tracking binary serialization grammar for a
// stream of records describing a remoting method call or return.
//
// The package is layered bottom-up: Reader/Writer provide
// bounds-checked primitive I/O, the record types (ClassRecord,
// ArrayRecord, BinaryLibrary, and the rest) encode and decode single
// MS-NRBF records, RemotingValue is the tagged-union value model built
// from those records, and ReadMessage/WriteMessage drive the full
// grammar described by §2 of MS-NRBF: header, referenceable object
// graph, a method call or return, and a terminating MessageEnd record.
//
// SerializationContext and DeserializationContext track the
// per-message object- and library-ID namespaces a real .NET remoting
// peer relies on for back-references; ReadMessage reports
// ErrDanglingReference if a message ends with an unresolved
// MemberReference.
//
// Subpackage nrtp implements MS-NRTP, the TCP framing protocol that
// typically carries NRBF payloads between client and server.
package nrbf
