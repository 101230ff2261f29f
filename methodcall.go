// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// MessageFlags is the 32-bit bitmap carried by a BinaryMethodCall or
// BinaryMethodReturn record. 16 bits are defined; the remainder are
// reserved and passed through uninterpreted.
type MessageFlags uint32

// Defined MessageFlags bits.
const (
	FlagNoArgs MessageFlags = 1 << iota
	FlagArgsInline
	FlagArgsIsArray
	FlagArgsInArray
	FlagNoContext
	FlagContextInline
	FlagContextInArray
	FlagMethodSignatureInArray
	FlagPropertiesInArray
	FlagNoReturnValue
	FlagReturnValueVoid
	FlagReturnValueInline
	FlagReturnValueInArray
	FlagExceptionInArray
	flagReserved15
	FlagGenericMethod
)

func (f MessageFlags) has(bit MessageFlags) bool { return f&bit != 0 }

func countSet(f MessageFlags, bits ...MessageFlags) int {
	n := 0
	for _, b := range bits {
		if f.has(b) {
			n++
		}
	}
	return n
}

// HasInArrayFlag reports whether any of the "in-array" flags (args,
// context, return value, exception, method signature, or properties
// routed through the call array) is set.
func (f MessageFlags) HasInArrayFlag() bool {
	return f.has(FlagArgsInArray) || f.has(FlagContextInArray) ||
		f.has(FlagReturnValueInArray) || f.has(FlagExceptionInArray) ||
		f.has(FlagMethodSignatureInArray) || f.has(FlagPropertiesInArray)
}

// ValidateCallFlags applies the exclusivity rules of the grammar to a
// method-call's flags.
func ValidateCallFlags(f MessageFlags) error {
	if countSet(f, FlagNoArgs, FlagArgsInline, FlagArgsIsArray, FlagArgsInArray) > 1 {
		return wrapErr(KindInvalidFlags, "ValidateCallFlags", ErrInvalidFlagCombination)
	}
	if countSet(f, FlagNoContext, FlagContextInline, FlagContextInArray) > 1 {
		return wrapErr(KindInvalidFlags, "ValidateCallFlags", ErrInvalidFlagCombination)
	}
	if f.has(FlagExceptionInArray) {
		if f.has(FlagArgsInline) || f.has(FlagArgsIsArray) || f.has(FlagArgsInArray) || f.has(FlagNoArgs) {
			return wrapErr(KindInvalidFlags, "ValidateCallFlags", ErrInvalidFlagCombination)
		}
	}
	return nil
}

// ValidateReturnFlags applies the exclusivity rules of the grammar to
// a method-return's flags.
func ValidateReturnFlags(f MessageFlags) error {
	if countSet(f, FlagNoReturnValue, FlagReturnValueVoid, FlagReturnValueInline, FlagReturnValueInArray) > 1 {
		return wrapErr(KindInvalidFlags, "ValidateReturnFlags", ErrInvalidFlagCombination)
	}
	if countSet(f, FlagNoContext, FlagContextInline, FlagContextInArray) > 1 {
		return wrapErr(KindInvalidFlags, "ValidateReturnFlags", ErrInvalidFlagCombination)
	}
	hasReturn := f.has(FlagReturnValueVoid) || f.has(FlagReturnValueInline) ||
		f.has(FlagReturnValueInArray) || f.has(FlagNoReturnValue)
	if f.has(FlagExceptionInArray) && hasReturn {
		return wrapErr(KindInvalidFlags, "ValidateReturnFlags", ErrInvalidFlagCombination)
	}
	if f.has(FlagReturnValueInArray) && f.has(FlagMethodSignatureInArray) {
		return wrapErr(KindInvalidFlags, "ValidateReturnFlags", ErrInvalidFlagCombination)
	}
	if f.has(FlagMethodSignatureInArray) && f.has(FlagExceptionInArray) {
		return wrapErr(KindInvalidFlags, "ValidateReturnFlags", ErrInvalidFlagCombination)
	}
	if f.has(FlagMethodSignatureInArray) || f.has(FlagGenericMethod) {
		return wrapErr(KindInvalidFlags, "ValidateReturnFlags", ErrInvalidFlagCombination)
	}
	return nil
}

// BinaryMethodCall is a request record: the method/type name plus
// optional call context and argument array, all gated by Flags.
type BinaryMethodCall struct {
	Flags      MessageFlags
	MethodName PrimitiveValue // Kind == PrimitiveString
	TypeName   PrimitiveValue // Kind == PrimitiveString
}

// ReadBinaryMethodCall reads the method-call record's fixed fields
// (method name, type name); optional args/context follow the record,
// inline or in the call array, and are read by the grammar driver.
func ReadBinaryMethodCall(r *Reader) (BinaryMethodCall, error) {
	var c BinaryMethodCall
	if err := expectTag(r, RecordMethodCall, "ReadBinaryMethodCall"); err != nil {
		return c, err
	}
	flagsRaw, err := r.ReadUint32()
	if err != nil {
		return c, err
	}
	flags := MessageFlags(flagsRaw)
	if err := ValidateCallFlags(flags); err != nil {
		return c, err
	}
	methodName, err := readStringValueWithCode(r)
	if err != nil {
		return c, err
	}
	typeName, err := readStringValueWithCode(r)
	if err != nil {
		return c, err
	}
	c.Flags = flags
	c.MethodName = methodName
	c.TypeName = typeName
	return c, nil
}

// WriteBinaryMethodCall writes c's tag, flags, method name, type name.
func WriteBinaryMethodCall(w *Writer, c BinaryMethodCall) error {
	if err := ValidateCallFlags(c.Flags); err != nil {
		return err
	}
	if err := w.WriteByte(byte(RecordMethodCall)); err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(c.Flags)); err != nil {
		return err
	}
	if err := writeStringValueWithCode(w, c.MethodName); err != nil {
		return err
	}
	return writeStringValueWithCode(w, c.TypeName)
}

// BinaryMethodReturn is a response record: flags plus, depending on
// flags, an inline return value read separately by the grammar driver.
type BinaryMethodReturn struct {
	Flags MessageFlags
}

// ReadBinaryMethodReturn reads the method-return record's flags. The
// inline return value (if any) is read by the grammar driver.
func ReadBinaryMethodReturn(r *Reader) (BinaryMethodReturn, error) {
	var ret BinaryMethodReturn
	if err := expectTag(r, RecordMethodReturn, "ReadBinaryMethodReturn"); err != nil {
		return ret, err
	}
	flagsRaw, err := r.ReadUint32()
	if err != nil {
		return ret, err
	}
	flags := MessageFlags(flagsRaw)
	if err := ValidateReturnFlags(flags); err != nil {
		return ret, err
	}
	ret.Flags = flags
	return ret, nil
}

// WriteBinaryMethodReturn writes ret's tag and flags.
func WriteBinaryMethodReturn(w *Writer, ret BinaryMethodReturn) error {
	if err := ValidateReturnFlags(ret.Flags); err != nil {
		return err
	}
	if err := w.WriteByte(byte(RecordMethodReturn)); err != nil {
		return err
	}
	return w.WriteUint32(uint32(ret.Flags))
}

// readStringValueWithCode reads a "value with code" (an inline type
// code followed by the value) constrained to the String primitive,
// as used for BinaryMethodCall/Return's method and type names.
func readStringValueWithCode(r *Reader) (PrimitiveValue, error) {
	k, err := ReadPrimitiveKind(r)
	if err != nil {
		return PrimitiveValue{}, err
	}
	if k != PrimitiveString {
		return PrimitiveValue{}, wrapErr(KindDecode, "readStringValueWithCode", ErrUnexpectedTag)
	}
	return ReadPrimitiveValue(r, PrimitiveString)
}

func writeStringValueWithCode(w *Writer, v PrimitiveValue) error {
	if v.Kind != PrimitiveString {
		return wrapErr(KindDecode, "writeStringValueWithCode", ErrUnexpectedTag)
	}
	if err := WritePrimitiveKind(w, PrimitiveString); err != nil {
		return err
	}
	return WritePrimitiveValue(w, v)
}

// StringValue is a convenience constructor for a String-kind
// PrimitiveValue, used when building method names / type names.
func StringValue(s string) PrimitiveValue {
	return PrimitiveValue{Kind: PrimitiveString, Str: s}
}
