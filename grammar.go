// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// RemotingMessage is the top-level parse/build result for one NRBF
// message: the header, zero or more top-level referenceable objects
// (classes, arrays, boxed strings) and the library table they cite,
// exactly one of a method-call or method-return, and that record's
// optional argument/context/return-value/exception payloads.
type RemotingMessage struct {
	Header SerializationHeader

	Libraries      []BinaryLibrary
	Referenceables []RemotingValue

	IsCall bool
	Call   BinaryMethodCall
	Return BinaryMethodReturn

	Args        []RemotingValue
	Context     *RemotingValue
	ReturnValue *RemotingValue
	Exception   *RemotingValue
}

// ReadMessage parses one complete NRBF message from r.
func ReadMessage(r *Reader) (*RemotingMessage, error) {
	header, err := ReadSerializationHeader(r)
	if err != nil {
		return nil, err
	}
	msg := &RemotingMessage{Header: header}
	ctx := NewDeserializationContext()

	if err := readReferenceableSection(r, ctx, msg); err != nil {
		return nil, err
	}

	tag, err := PeekRecordType(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case RecordMethodCall:
		call, err := ReadBinaryMethodCall(r)
		if err != nil {
			return nil, err
		}
		msg.IsCall = true
		msg.Call = call
		if call.Flags.has(FlagArgsInline) {
			count, err := r.ReadInt32()
			if err != nil {
				return nil, err
			}
			args, err := readGenericValues(r, ctx, count)
			if err != nil {
				return nil, err
			}
			msg.Args = args
		}
		if call.Flags.has(FlagContextInline) {
			v, err := readGenericValue(r, ctx)
			if err != nil {
				return nil, err
			}
			msg.Context = &v
		}
		if call.Flags.HasInArrayFlag() {
			if err := readCallArray(r, ctx, msg, call.Flags, nil); err != nil {
				return nil, err
			}
		}

	case RecordMethodReturn:
		ret, err := ReadBinaryMethodReturn(r)
		if err != nil {
			return nil, err
		}
		msg.Return = ret
		if ret.Flags.has(FlagReturnValueInline) {
			v, err := readGenericValue(r, ctx)
			if err != nil {
				return nil, err
			}
			msg.ReturnValue = &v
		}
		if ret.Flags.has(FlagContextInline) {
			v, err := readGenericValue(r, ctx)
			if err != nil {
				return nil, err
			}
			msg.Context = &v
		}
		if ret.Flags.HasInArrayFlag() {
			if err := readCallArray(r, ctx, msg, 0, &ret.Flags); err != nil {
				return nil, err
			}
		}

	default:
		if tag == RecordMessageEnd {
			return nil, wrapErr(KindInvariant, "ReadMessage", ErrMessageEndTooEarly)
		}
		return nil, wrapErr(KindInvariant, "ReadMessage", ErrBothCallAndReturn)
	}

	if err := readReferenceableSection(r, ctx, msg); err != nil {
		return nil, err
	}

	if tag, err := PeekRecordType(r); err == nil && (tag == RecordMethodCall || tag == RecordMethodReturn) {
		return nil, wrapErr(KindInvariant, "ReadMessage", ErrBothCallAndReturn)
	}
	if err := ReadMessageEnd(r); err != nil {
		return nil, err
	}
	if err := ctx.CheckResolved(); err != nil {
		return nil, err
	}
	return msg, nil
}

// readReferenceableSection reads library and top-level referenceable
// records until a method-call, method-return, or message-end tag is
// seen, leaving that tag unconsumed.
func readReferenceableSection(r *Reader, ctx *DeserializationContext, msg *RemotingMessage) error {
	for {
		b, err := r.PeekByte()
		if err != nil {
			return wrapErr(KindDecode, "readReferenceableSection", ErrMissingMessageEnd)
		}
		tag := RecordType(b)
		switch {
		case tag == RecordBinaryLibrary:
			lib, err := ReadBinaryLibrary(r)
			if err != nil {
				return err
			}
			if err := ctx.RegisterLibrary(lib.LibraryID, lib.Name); err != nil {
				return err
			}
			msg.Libraries = append(msg.Libraries, lib)
		case tag == RecordMethodCall || tag == RecordMethodReturn || tag == RecordMessageEnd:
			return nil
		case tag.IsReferenceable():
			v, err := readReferenceable(r, ctx, tag)
			if err != nil {
				return err
			}
			msg.Referenceables = append(msg.Referenceables, v)
		default:
			return wrapErr(KindDecode, "readReferenceableSection", ErrUnexpectedTag)
		}
	}
}

// readCallArray reads the auxiliary array-single-object record
// carrying whichever of args/context/return-value/exception the
// flags route through it, in that fixed order.
func readCallArray(r *Reader, ctx *DeserializationContext, msg *RemotingMessage, callFlags MessageFlags, retFlags *MessageFlags) error {
	tag, err := PeekRecordType(r)
	if err != nil {
		return err
	}
	if tag != RecordArraySingleObject {
		return wrapErr(KindInvariant, "readCallArray", ErrCallArrayMismatch)
	}
	ar, err := ReadArrayRecord(r, tag)
	if err != nil {
		return err
	}
	if ar.Info.Length == 0 {
		return wrapErr(KindInvariant, "readCallArray", ErrCallArrayMismatch)
	}
	elements, err := readGenericValues(r, ctx, ar.Info.Length)
	if err != nil {
		return err
	}
	if err := ctx.RegisterObject(ar.Info.ObjectID, RemotingValue{Kind: ValueArray, ArrayVariant: ArrayVariantSingleObject, ArrayRecordH: ar}); err != nil {
		return err
	}

	i := 0
	next := func() *RemotingValue {
		if i >= len(elements) {
			return nil
		}
		v := elements[i]
		i++
		return &v
	}
	if retFlags == nil {
		if callFlags.has(FlagArgsInArray) {
			// The args fill the array; a context routed through it is
			// the last element.
			n := len(elements)
			if callFlags.has(FlagContextInArray) {
				n--
				msg.Context = &elements[n]
			}
			msg.Args = elements[:n]
			return nil
		}
		if callFlags.has(FlagContextInArray) {
			msg.Context = next()
		}
		return nil
	}
	if retFlags.has(FlagReturnValueInArray) {
		msg.ReturnValue = next()
	}
	if retFlags.has(FlagContextInArray) {
		msg.Context = next()
	}
	if retFlags.has(FlagExceptionInArray) {
		msg.Exception = next()
	}
	return nil
}

// readReferenceable reads one top-level class, array, or boxed-string
// record (the already-peeked tag names which), recursing into its
// members/elements, and registers its object ID.
func readReferenceable(r *Reader, ctx *DeserializationContext, tag RecordType) (RemotingValue, error) {
	switch {
	case tag == RecordBinaryObjectString:
		s, err := ReadBinaryObjectString(r)
		if err != nil {
			return RemotingValue{}, err
		}
		v := RemotingValue{Kind: ValueString, Str: s.Value, StringID: s.ObjectID}
		if err := ctx.RegisterObject(s.ObjectID, v); err != nil {
			return RemotingValue{}, err
		}
		return v, nil

	case tag == RecordClassWithId || tag == RecordSystemClassWithMembers ||
		tag == RecordClassWithMembers || tag == RecordSystemClassWithMembersAndTypes ||
		tag == RecordClassWithMembersAndTypes:
		return readClassValue(r, ctx, tag)

	case tag == RecordArraySinglePrimitive || tag == RecordArraySingleObject ||
		tag == RecordArraySingleString || tag == RecordBinaryArray:
		return readArrayValue(r, ctx, tag)

	default:
		return RemotingValue{}, wrapErr(KindDecode, "readReferenceable", ErrUnexpectedTag)
	}
}

func readClassValue(r *Reader, ctx *DeserializationContext, tag RecordType) (RemotingValue, error) {
	cr, err := ReadClassRecord(r, tag)
	if err != nil {
		return RemotingValue{}, err
	}
	if cr.Variant.HasLibraryID() {
		if _, err := ctx.Library(cr.LibraryID); err != nil {
			return RemotingValue{}, err
		}
	}

	if cr.Variant == ClassVariantWithId {
		meta, ok := ctx.classMeta[cr.MetadataObjectID]
		if !ok {
			return RemotingValue{}, wrapErr(KindInvariant, "readClassValue", ErrUnknownMetadataID)
		}
		cr.Info.Name = meta.info.Name
		cr.Info.MemberNames = meta.info.MemberNames
		cr.Types = meta.types
		members, err := readMembersTyped(r, ctx, meta.types)
		if err != nil {
			return RemotingValue{}, err
		}
		v := RemotingValue{Kind: ValueClass, ClassVariant: ClassVariantWithId, ClassRecord: cr, Members: members}
		if err := ctx.RegisterObject(cr.Info.ObjectID, v); err != nil {
			return RemotingValue{}, err
		}
		return v, nil
	}

	var members []RemotingValue
	if cr.Variant.HasTypeInfo() {
		members, err = readMembersTyped(r, ctx, cr.Types)
	} else {
		members, err = readMembersUntyped(r, ctx, len(cr.Info.MemberNames))
	}
	if err != nil {
		return RemotingValue{}, err
	}

	v := RemotingValue{Kind: ValueClass, ClassVariant: cr.Variant, ClassRecord: cr, Members: members}
	if err := ctx.RegisterObject(cr.Info.ObjectID, v); err != nil {
		return RemotingValue{}, err
	}
	if cr.Variant.HasTypeInfo() {
		ctx.classMeta[cr.Info.ObjectID] = classMetadata{info: cr.Info, types: cr.Types}
	}
	return v, nil
}

// classMetadata is what a ClassWithId record needs to resolve its
// member layout: the name/member-names and declared types of the
// with-types class record it refers back to.
type classMetadata struct {
	info  ClassInfo
	types MemberTypeInfo
}

func readMembersTyped(r *Reader, ctx *DeserializationContext, types MemberTypeInfo) ([]RemotingValue, error) {
	members := make([]RemotingValue, len(types.BinaryTypes))
	for i, bt := range types.BinaryTypes {
		v, err := readTypedValue(r, ctx, bt, types.AdditionalInfos[i])
		if err != nil {
			return nil, err
		}
		members[i] = v
	}
	return members, nil
}

func readMembersUntyped(r *Reader, ctx *DeserializationContext, n int) ([]RemotingValue, error) {
	members := make([]RemotingValue, n)
	for i := range members {
		v, err := readUntypedMember(r, ctx)
		if err != nil {
			return nil, err
		}
		members[i] = v
	}
	return members, nil
}

// readUntypedMember reads one member of a ClassWithMembers/
// SystemClassWithMembers record, whose type is not statically
// declared: the member fully self-describes via a record tag.
func readUntypedMember(r *Reader, ctx *DeserializationContext) (RemotingValue, error) {
	b, err := r.PeekByte()
	if err != nil {
		return RemotingValue{}, err
	}
	tag := RecordType(b)
	switch tag {
	case RecordMemberPrimitiveTyped:
		v, err := ReadMemberPrimitiveTyped(r)
		if err != nil {
			return RemotingValue{}, err
		}
		return PrimitiveRemotingValue(v), nil
	case RecordObjectNull:
		if err := ReadObjectNull(r); err != nil {
			return RemotingValue{}, err
		}
		return NullValue, nil
	case RecordMemberReference:
		ref, err := ReadMemberReference(r)
		if err != nil {
			return RemotingValue{}, err
		}
		ctx.notePendingReference(ref.IDRef)
		return ReferenceValue(ref.IDRef), nil
	default:
		if !tag.IsReferenceable() {
			return RemotingValue{}, wrapErr(KindDecode, "readUntypedMember", ErrUnexpectedTag)
		}
		return readReferenceable(r, ctx, tag)
	}
}

// readTypedValue reads a value whose BinaryType is statically known
// from a class's declared member types or an array's item type.
func readTypedValue(r *Reader, ctx *DeserializationContext, bt BinaryType, info AdditionalTypeInfo) (RemotingValue, error) {
	switch bt {
	case BinaryTypePrimitive:
		v, err := ReadPrimitiveValue(r, info.PrimitiveKind)
		if err != nil {
			return RemotingValue{}, err
		}
		return PrimitiveRemotingValue(v), nil
	case BinaryTypeString:
		b, err := r.PeekByte()
		if err != nil {
			return RemotingValue{}, err
		}
		switch RecordType(b) {
		case RecordObjectNull:
			_ = ReadObjectNull(r)
			return NullValue, nil
		case RecordMemberReference:
			ref, err := ReadMemberReference(r)
			if err != nil {
				return RemotingValue{}, err
			}
			ctx.notePendingReference(ref.IDRef)
			return ReferenceValue(ref.IDRef), nil
		}
		return readReferenceable(r, ctx, RecordBinaryObjectString)
	default:
		return readObjectSlot(r, ctx)
	}
}

// readObjectSlot reads a value at a position statically typed as
// some form of Object (BinaryTypeObject/SystemClass/Class/
// ObjectArray/StringArray/PrimitiveArray): null, a reference, or a
// full nested referenceable record.
func readObjectSlot(r *Reader, ctx *DeserializationContext) (RemotingValue, error) {
	b, err := r.PeekByte()
	if err != nil {
		return RemotingValue{}, err
	}
	switch RecordType(b) {
	case RecordObjectNull:
		_ = ReadObjectNull(r)
		return NullValue, nil
	case RecordMemberReference:
		ref, err := ReadMemberReference(r)
		if err != nil {
			return RemotingValue{}, err
		}
		ctx.notePendingReference(ref.IDRef)
		return ReferenceValue(ref.IDRef), nil
	}
	tag := RecordType(b)
	if !tag.IsReferenceable() {
		return RemotingValue{}, wrapErr(KindDecode, "readObjectSlot", ErrUnexpectedTag)
	}
	return readReferenceable(r, ctx, tag)
}

func readArrayValue(r *Reader, ctx *DeserializationContext, tag RecordType) (RemotingValue, error) {
	ar, err := ReadArrayRecord(r, tag)
	if err != nil {
		return RemotingValue{}, err
	}
	var elements []RemotingValue
	switch ar.Variant {
	case ArrayVariantSinglePrimitive:
		elements = make([]RemotingValue, ar.Info.Length)
		for i := range elements {
			v, err := ReadPrimitiveValue(r, ar.PrimitiveKind)
			if err != nil {
				return RemotingValue{}, err
			}
			elements[i] = PrimitiveRemotingValue(v)
		}
	case ArrayVariantSingleObject, ArrayVariantSingleString:
		elements, err = readArrayElementValues(r, ctx, ar.Info.Length)
		if err != nil {
			return RemotingValue{}, err
		}
	case ArrayVariantBinaryArray:
		total := int32(1)
		for _, l := range ar.Lengths {
			total *= l
		}
		elements, err = readBinaryArrayElements(r, ctx, ar.ItemType, ar.AdditionalInfo, total)
		if err != nil {
			return RemotingValue{}, err
		}
	}
	v := RemotingValue{Kind: ValueArray, ArrayVariant: ar.Variant, ArrayRecordH: ar, Elements: elements}
	if err := ctx.RegisterObject(ar.Info.ObjectID, v); err != nil {
		return RemotingValue{}, err
	}
	return v, nil
}

// readBinaryArrayElements reads total elements of a general BinaryArray
// record, honoring the null-run optimization for a non-primitive item
// type: ObjectNullMultiple256/ObjectNullMultiple records expand into
// that many Null elements, clipped to the remaining slots, the same as
// readGenericValues/readArrayElementValues already do for the other
// array variants. A primitive item type never encodes a null, so the
// peek below simply never matches for it.
func readBinaryArrayElements(r *Reader, ctx *DeserializationContext, bt BinaryType, info AdditionalTypeInfo, total int32) ([]RemotingValue, error) {
	elements := make([]RemotingValue, 0, total)
	for int32(len(elements)) < total {
		b, err := r.PeekByte()
		if err != nil {
			return nil, err
		}
		switch RecordType(b) {
		case RecordObjectNullMultiple256:
			n, err := ReadObjectNullMultiple256(r)
			if err != nil {
				return nil, err
			}
			elements = appendNulls(elements, int32(n), total)
			continue
		case RecordObjectNullMultiple:
			n, err := ReadObjectNullMultiple(r)
			if err != nil {
				return nil, err
			}
			elements = appendNulls(elements, n, total)
			continue
		}
		v, err := readTypedValue(r, ctx, bt, info)
		if err != nil {
			return nil, err
		}
		elements = append(elements, v)
	}
	return elements, nil
}

// WriteMessage writes msg: header, library table, top-level
// referenceables, the method-call-or-return record (plus whatever
// inline/array payload its flags demand), and the end marker. msg's
// object/library IDs must already be consistent (assigned by a
// SerializationContext); WriteMessage does not allocate them.
func WriteMessage(w *Writer, msg *RemotingMessage) error {
	if err := WriteSerializationHeader(w, msg.Header); err != nil {
		return err
	}
	for _, lib := range msg.Libraries {
		if err := WriteBinaryLibrary(w, lib); err != nil {
			return err
		}
	}
	for _, v := range msg.Referenceables {
		if err := writeReferenceableValue(w, v); err != nil {
			return err
		}
	}

	if msg.IsCall {
		if err := WriteBinaryMethodCall(w, msg.Call); err != nil {
			return err
		}
		if msg.Call.Flags.has(FlagArgsInline) {
			if err := w.WriteInt32(int32(len(msg.Args))); err != nil {
				return err
			}
			for _, a := range msg.Args {
				if err := writeGenericValue(w, a); err != nil {
					return err
				}
			}
		}
		if msg.Call.Flags.has(FlagContextInline) && msg.Context != nil {
			if err := writeGenericValue(w, *msg.Context); err != nil {
				return err
			}
		}
		if msg.Call.Flags.HasInArrayFlag() {
			if err := writeCallArray(w, callArrayElements(msg.Call.Flags, msg)); err != nil {
				return err
			}
		}
	} else {
		if err := WriteBinaryMethodReturn(w, msg.Return); err != nil {
			return err
		}
		if msg.Return.Flags.has(FlagReturnValueInline) && msg.ReturnValue != nil {
			if err := writeGenericValue(w, *msg.ReturnValue); err != nil {
				return err
			}
		}
		if msg.Return.Flags.has(FlagContextInline) && msg.Context != nil {
			if err := writeGenericValue(w, *msg.Context); err != nil {
				return err
			}
		}
		if msg.Return.Flags.HasInArrayFlag() {
			if err := writeCallArray(w, returnArrayElements(msg.Return.Flags, msg)); err != nil {
				return err
			}
		}
	}

	return WriteMessageEnd(w)
}

func callArrayElements(flags MessageFlags, msg *RemotingMessage) []RemotingValue {
	var elems []RemotingValue
	if flags.has(FlagArgsInArray) {
		elems = append(elems, msg.Args...)
	}
	if flags.has(FlagContextInArray) && msg.Context != nil {
		elems = append(elems, *msg.Context)
	}
	return elems
}

func returnArrayElements(flags MessageFlags, msg *RemotingMessage) []RemotingValue {
	var elems []RemotingValue
	if flags.has(FlagReturnValueInArray) && msg.ReturnValue != nil {
		elems = append(elems, *msg.ReturnValue)
	}
	if flags.has(FlagContextInArray) && msg.Context != nil {
		elems = append(elems, *msg.Context)
	}
	if flags.has(FlagExceptionInArray) && msg.Exception != nil {
		elems = append(elems, *msg.Exception)
	}
	return elems
}

func writeCallArray(w *Writer, elems []RemotingValue) error {
	ar := ArrayRecord{
		Variant: ArrayVariantSingleObject,
		Info:    ArrayInfo{ObjectID: 1, Length: int32(len(elems))},
	}
	if err := WriteArrayRecord(w, ar); err != nil {
		return err
	}
	return writeGenericValues(w, elems)
}

func writeReferenceableValue(w *Writer, v RemotingValue) error {
	switch v.Kind {
	case ValueString:
		return WriteBinaryObjectString(w, BinaryObjectString{ObjectID: v.StringID, Value: v.Str})
	case ValueClass:
		return writeClassValue(w, v)
	case ValueArray:
		return writeArrayValue(w, v)
	default:
		return wrapErr(KindInvariant, "writeReferenceableValue", ErrUnexpectedTag)
	}
}

func writeClassValue(w *Writer, v RemotingValue) error {
	if err := WriteClassRecord(w, v.ClassRecord); err != nil {
		return err
	}
	if v.ClassVariant == ClassVariantWithId || v.ClassVariant.HasTypeInfo() {
		types := v.ClassRecord.Types
		for i, m := range v.Members {
			if err := writeTypedValue(w, types.BinaryTypes[i], types.AdditionalInfos[i], m); err != nil {
				return err
			}
		}
		return nil
	}
	for _, m := range v.Members {
		if err := writeUntypedMember(w, m); err != nil {
			return err
		}
	}
	return nil
}

func writeUntypedMember(w *Writer, v RemotingValue) error {
	switch v.Kind {
	case ValuePrimitive:
		return WriteMemberPrimitiveTyped(w, v.Primitive)
	case ValueNull:
		return WriteObjectNull(w)
	case ValueReference:
		return WriteMemberReference(w, MemberReference{IDRef: v.ReferenceID})
	case ValueClass, ValueArray, ValueString:
		return writeReferenceableValue(w, v)
	default:
		return wrapErr(KindInvariant, "writeUntypedMember", ErrUnexpectedTag)
	}
}

func writeTypedValue(w *Writer, bt BinaryType, info AdditionalTypeInfo, v RemotingValue) error {
	switch bt {
	case BinaryTypePrimitive:
		return WritePrimitiveValue(w, v.Primitive)
	case BinaryTypeString:
		switch v.Kind {
		case ValueNull:
			return WriteObjectNull(w)
		case ValueReference:
			return WriteMemberReference(w, MemberReference{IDRef: v.ReferenceID})
		default:
			return WriteBinaryObjectString(w, BinaryObjectString{ObjectID: v.StringID, Value: v.Str})
		}
	default:
		return writeObjectSlot(w, v)
	}
}

func writeObjectSlot(w *Writer, v RemotingValue) error {
	switch v.Kind {
	case ValueNull:
		return WriteObjectNull(w)
	case ValueReference:
		return WriteMemberReference(w, MemberReference{IDRef: v.ReferenceID})
	default:
		return writeReferenceableValue(w, v)
	}
}

func writeArrayValue(w *Writer, v RemotingValue) error {
	if err := WriteArrayRecord(w, v.ArrayRecordH); err != nil {
		return err
	}
	switch v.ArrayVariant {
	case ArrayVariantSinglePrimitive:
		for _, el := range v.Elements {
			if err := WritePrimitiveValue(w, el.Primitive); err != nil {
				return err
			}
		}
		return nil
	case ArrayVariantSingleObject, ArrayVariantSingleString:
		return writeArrayElementValues(w, v.Elements)
	default: // ArrayVariantBinaryArray
		return writeBinaryArrayElements(w, v.ArrayRecordH.ItemType, v.ArrayRecordH.AdditionalInfo, v.Elements)
	}
}

// writeBinaryArrayElements writes a general BinaryArray's elements,
// collapsing consecutive Null elements into compact null-run records
// the same as writeGenericValues/writeArrayElementValues do for the
// other array variants (§4.5's null-run optimization names
// "general binary-array (non-primitive element type)" explicitly). A
// primitive item type never has Null elements to collapse.
func writeBinaryArrayElements(w *Writer, bt BinaryType, info AdditionalTypeInfo, values []RemotingValue) error {
	if bt == BinaryTypePrimitive {
		for _, v := range values {
			if err := writeTypedValue(w, bt, info, v); err != nil {
				return err
			}
		}
		return nil
	}
	i := 0
	for i < len(values) {
		if values[i].Kind != ValueNull {
			if err := writeTypedValue(w, bt, info, values[i]); err != nil {
				return err
			}
			i++
			continue
		}
		run := 0
		for i+run < len(values) && values[i+run].Kind == ValueNull {
			run++
		}
		if err := writeNullRun(w, run); err != nil {
			return err
		}
		i += run
	}
	return nil
}
