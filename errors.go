// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"errors"
	"fmt"
)

// Kind classifies a CodecError along the taxonomy of the error
// handling design: decode, invariant, invalid-flags, frame, timeout,
// handler, or not-connected.
type Kind int

const (
	// KindDecode covers malformed bytes: truncation, illegal tag,
	// illegal UTF-8, bad length, version mismatch.
	KindDecode Kind = iota

	// KindInvariant covers structurally parseable input that violates
	// a grammar invariant: duplicate object ID, dangling reference,
	// both call and return present, negative length, and so on.
	KindInvariant

	// KindInvalidFlags covers a MessageFlags combination that violates
	// the exclusivity rules of the method-call/return grammar.
	KindInvalidFlags

	// KindFrame covers MS-NRTP framing violations.
	KindFrame

	// KindTimeout covers an I/O operation that did not complete in the
	// allotted time.
	KindTimeout

	// KindHandler covers a panic or error raised by a server handler.
	KindHandler

	// KindNotConnected covers a client operation attempted before
	// Open or after Close.
	KindNotConnected
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindInvariant:
		return "invariant"
	case KindInvalidFlags:
		return "invalid-flags"
	case KindFrame:
		return "frame"
	case KindTimeout:
		return "timeout"
	case KindHandler:
		return "handler"
	case KindNotConnected:
		return "not-connected"
	default:
		return "unknown"
	}
}

// CodecError is the error type returned by every decode/encode
// operation in this module. Op names the failing operation (e.g.
// "ReadClassRecord"); Err is the underlying sentinel or wrapped cause.
type CodecError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *CodecError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("nrbf: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("nrbf: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func wrapErr(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &CodecError{Kind: kind, Op: op, Err: err}
}

// Sentinel leaf errors. Each is wrapped in a *CodecError with the
// appropriate Kind by the routine that raises it; callers may test
// against the sentinel directly with errors.Is.
var (
	// ErrTruncated is returned when fewer bytes are available than a
	// record or primitive requires.
	ErrTruncated = errors.New("nrbf: truncated input")

	// ErrInvalidUTF8 is returned when a Char primitive or a
	// length-prefixed string does not decode to valid UTF-8.
	ErrInvalidUTF8 = errors.New("nrbf: invalid UTF-8 encoding")

	// ErrInvalidCharScalar is returned when a Char primitive decodes
	// to anything other than exactly one Unicode scalar.
	ErrInvalidCharScalar = errors.New("nrbf: Char primitive is not exactly one Unicode scalar")

	// ErrInvalidDecimal is returned when a Decimal primitive's string
	// form does not match the decimal grammar.
	ErrInvalidDecimal = errors.New("nrbf: malformed Decimal value")

	// ErrInvalidDateTimeKind is returned when a DateTime primitive's
	// packed kind bits are 3 (reserved, never valid).
	ErrInvalidDateTimeKind = errors.New("nrbf: invalid DateTime kind")

	// ErrLengthHeaderTooLong is returned when a length-prefixed
	// string's base-128 length header exceeds 5 bytes.
	ErrLengthHeaderTooLong = errors.New("nrbf: length header exceeds 5 bytes")

	// ErrInvalidTag is returned when a byte at record-boundary
	// position does not match any of the 20 defined record kinds.
	ErrInvalidTag = errors.New("nrbf: unrecognized record tag")

	// ErrUnexpectedTag is returned when a record routine is invoked
	// and the (already peeked) tag does not match the expected variant.
	ErrUnexpectedTag = errors.New("nrbf: record tag does not match expected variant")

	// ErrUnusedPrimitiveKind is returned when the reserved "Unused"
	// primitive kind (4) appears where a primitive kind is required.
	ErrUnusedPrimitiveKind = errors.New("nrbf: Unused primitive kind is not a valid primitive")

	// ErrIllegalArrayPrimitiveKind is returned when a primitive-array
	// or primitive additional-type-info carries Null, String, or
	// Unused as its element kind.
	ErrIllegalArrayPrimitiveKind = errors.New("nrbf: Null/String/Unused is not a valid primitive array element kind")

	// ErrNonPositiveObjectID is returned when an object ID field is
	// zero or negative where a positive ID is required.
	ErrNonPositiveObjectID = errors.New("nrbf: object ID must be positive")

	// ErrNonPositiveLibraryID is returned when a library ID field is
	// zero or negative.
	ErrNonPositiveLibraryID = errors.New("nrbf: library ID must be positive")

	// ErrNegativeLength is returned when an array length, a class
	// member count, or a requested byte count is negative.
	ErrNegativeLength = errors.New("nrbf: length must be non-negative")

	// ErrNonPositiveCount is returned when a null-run count field is
	// zero or negative (runs must count at least one null).
	ErrNonPositiveCount = errors.New("nrbf: null run count must be positive")

	// ErrInvalidRank is returned when a general binary array's rank
	// is less than 1, or its lengths/lower-bounds vectors disagree
	// with the declared rank.
	ErrInvalidRank = errors.New("nrbf: array rank must be at least 1 and match dimension vectors")

	// ErrVersionMismatch is returned when the serialization header's
	// major/minor version fields are not 1/0.
	ErrVersionMismatch = errors.New("nrbf: unsupported serialization header version")

	// ErrDuplicateObjectID is returned when a fully-formed record
	// (not a member-reference) reuses an object ID already emitted or
	// already seen during decode.
	ErrDuplicateObjectID = errors.New("nrbf: object ID emitted more than once")

	// ErrDanglingReference is returned at end-of-message when a
	// member-reference's ID never resolved to an emitted object.
	ErrDanglingReference = errors.New("nrbf: member reference never resolved")

	// ErrUnknownLibraryID is returned when a class record names a
	// library ID with no preceding BinaryLibrary record.
	ErrUnknownLibraryID = errors.New("nrbf: library ID referenced before definition")

	// ErrUnknownMetadataID is returned when a ClassWithId record's
	// metadata-id does not refer to a previously emitted with-types
	// class variant.
	ErrUnknownMetadataID = errors.New("nrbf: class-with-id metadata ID not previously defined")

	// ErrBothCallAndReturn is returned when a message contains a second
	// method-call or method-return record after its first one. A
	// message with neither fails with ErrMessageEndTooEarly or
	// ErrMissingMessageEnd.
	ErrBothCallAndReturn = errors.New("nrbf: message must carry exactly one of method-call or method-return")

	// ErrMissingMessageEnd is returned when a message's byte stream
	// ends before a MessageEnd record is read.
	ErrMissingMessageEnd = errors.New("nrbf: message is missing its end marker")

	// ErrMessageEndTooEarly is returned when a MessageEnd record
	// appears before any method-call or method-return.
	ErrMessageEndTooEarly = errors.New("nrbf: message end encountered before method call or return")

	// ErrCallArrayMismatch is returned when an "in-array" message
	// flag is set but no call array follows, or the call array is
	// empty when a flag demands it be present. An array-single-object
	// record after a method record whose flags set no "in-array" flag
	// is not reported: it is read as a trailing referenceable.
	ErrCallArrayMismatch = errors.New("nrbf: call array presence does not match message flags")

	// ErrInvalidFlagCombination is returned by MessageFlags validation
	// when more than one member of a mutually exclusive group is set,
	// or a disallowed flag is set for the record's direction (call vs
	// return).
	ErrInvalidFlagCombination = errors.New("nrbf: message flags violate an exclusivity rule")

	// ErrCannotDeriveMemberTypeInfo is returned when the value model's
	// writer is asked to derive a MemberTypeInfo entry from a class
	// member whose class-record variant is ClassWithId (bare metadata
	// reference, no member names/types to derive from).
	ErrCannotDeriveMemberTypeInfo = errors.New("nrbf: cannot derive member type info from a ClassWithId value")

	// ErrMemberCountMismatch is returned when a ClassInfo's member
	// name count disagrees with its MemberTypeInfo vectors.
	ErrMemberCountMismatch = errors.New("nrbf: member name count does not match member type info count")
)
