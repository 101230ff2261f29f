// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import "bytes"

// fqnSuffix is appended by FullyQualifiedTypeName only; the codec
// itself never rewrites a type name it reads or is given to write.
const fqnSuffix = ", Version=1.0.0.0, Culture=neutral, PublicKeyToken=null"

// FullyQualifiedTypeName appends the standard assembly-qualification
// suffix to a bare CLR type name, for callers that want to build a
// method-call TypeName the way a real .NET remoting client would. The
// record codec never applies this on its own.
func FullyQualifiedTypeName(typeName string) string {
	return typeName + fqnSuffix
}

// MakeMethodCall builds a minimal RemotingMessage for a method call
// with no call context, routing args inline when there are any.
func MakeMethodCall(methodName, typeName string, args []RemotingValue) *RemotingMessage {
	flags := FlagNoContext
	if len(args) == 0 {
		flags |= FlagNoArgs
	} else {
		flags |= FlagArgsInline
	}
	msg := &RemotingMessage{
		Header: NewSerializationHeader(0, false),
		IsCall: true,
		Call: BinaryMethodCall{
			Flags:      flags,
			MethodName: StringValue(methodName),
			TypeName:   StringValue(typeName),
		},
	}
	if len(args) > 0 {
		msg.Args = args
	}
	return msg
}

// MakeMethodReturn builds a minimal RemotingMessage for a method
// return carrying either an inline value or, when value is nil, a void
// return (FlagReturnValueVoid, not FlagNoReturnValue — see the worked
// void-return byte example in spec.md §8).
func MakeMethodReturn(value *RemotingValue) *RemotingMessage {
	flags := FlagNoArgs | FlagNoContext
	switch {
	case value == nil:
		flags |= FlagReturnValueVoid
	default:
		flags |= FlagReturnValueInline
	}
	msg := &RemotingMessage{
		Header: NewSerializationHeader(0, false),
		IsCall: false,
		Return: BinaryMethodReturn{Flags: flags},
	}
	msg.ReturnValue = value
	return msg
}

// ExtractMethodCallInfo decodes payload as a method-call message and
// best-effort extracts (methodName, typeName). isOneWay is not derived
// from payload at all: the source's is_one_way is computed
// inconsistently from the NoReturnValue flag, so this library instead
// takes it from the caller, who reads it off the NRTP frame's
// operation field (operation == one-way-request) before ever reaching
// the NRBF payload — see DESIGN.md. On any decode error, or if payload
// is not a call, this returns ("", "", false) rather than propagating.
func ExtractMethodCallInfo(payload []byte, oneWay bool) (methodName, typeName string, isOneWay bool) {
	msg, err := ReadMessage(NewReader(bytes.NewReader(payload)))
	if err != nil || !msg.IsCall {
		return "", "", false
	}
	return msg.Call.MethodName.Str, msg.Call.TypeName.Str, oneWay
}

// ExtractReturnValue decodes payload as a method-return message and
// best-effort extracts its return value. It returns a pointer to a
// copy of NullValue, never an error, if payload is a call message, carries a
// void/no return value, or fails to decode.
func ExtractReturnValue(payload []byte) *RemotingValue {
	msg, err := ReadMessage(NewReader(bytes.NewReader(payload)))
	if err != nil || msg.IsCall || msg.ReturnValue == nil {
		v := NullValue
		return &v
	}
	return msg.ReturnValue
}
