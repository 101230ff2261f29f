// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// BinaryLibrary names an assembly. Classes refer to it by LibraryID,
// a namespace distinct from object IDs.
type BinaryLibrary struct {
	LibraryID int32
	Name      string
}

// ReadBinaryLibrary reads {library id, library name}.
func ReadBinaryLibrary(r *Reader) (BinaryLibrary, error) {
	var lib BinaryLibrary
	if err := expectTag(r, RecordBinaryLibrary, "ReadBinaryLibrary"); err != nil {
		return lib, err
	}
	id, err := r.ReadInt32()
	if err != nil {
		return lib, err
	}
	if id <= 0 {
		return lib, wrapErr(KindInvariant, "ReadBinaryLibrary", ErrNonPositiveLibraryID)
	}
	name, err := ReadLengthPrefixedString(r)
	if err != nil {
		return lib, err
	}
	lib.LibraryID = id
	lib.Name = name
	return lib, nil
}

// WriteBinaryLibrary writes lib, validating LibraryID > 0.
func WriteBinaryLibrary(w *Writer, lib BinaryLibrary) error {
	if lib.LibraryID <= 0 {
		return wrapErr(KindInvariant, "WriteBinaryLibrary", ErrNonPositiveLibraryID)
	}
	if err := w.WriteByte(byte(RecordBinaryLibrary)); err != nil {
		return err
	}
	if err := w.WriteInt32(lib.LibraryID); err != nil {
		return err
	}
	return WriteLengthPrefixedString(w, lib.Name)
}
