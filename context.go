// Copyright 2024 The netremoting Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

// SerializationContext tracks the object-ID and library-ID namespaces
// for one outgoing message: which handles have already been assigned
// an ID (so a second encounter becomes a MemberReference instead of a
// duplicate record), and which library names have already been
// assigned a library ID.
type SerializationContext struct {
	nextObjectID  int32
	nextLibraryID int32

	ids       map[any]int32
	libraries map[string]int32
}

// NewSerializationContext returns a context with empty namespaces. IDs
// are assigned starting at 1 (0 is reserved for "no call array").
func NewSerializationContext() *SerializationContext {
	return &SerializationContext{
		nextObjectID:  1,
		nextLibraryID: 1,
		ids:           make(map[any]int32),
		libraries:     make(map[string]int32),
	}
}

// ObjectID returns the ID assigned to handle, assigning a fresh one on
// first use. The second return value is true when handle was already
// assigned an ID (the caller should emit a MemberReference instead of
// a fresh record).
func (c *SerializationContext) ObjectID(handle any) (id int32, seen bool) {
	if id, ok := c.ids[handle]; ok {
		return id, true
	}
	id = c.nextObjectID
	c.nextObjectID++
	c.ids[handle] = id
	return id, false
}

// ReserveObjectID allocates a fresh object ID with no associated
// handle, for values (such as the call array) whose identity is
// structural rather than caller-supplied.
func (c *SerializationContext) ReserveObjectID() int32 {
	id := c.nextObjectID
	c.nextObjectID++
	return id
}

// LibraryID returns the ID assigned to the named assembly/library,
// assigning a fresh one on first use. The second return value is true
// when a BinaryLibrary record for name has already been emitted.
func (c *SerializationContext) LibraryID(name string) (id int32, seen bool) {
	if id, ok := c.libraries[name]; ok {
		return id, true
	}
	id = c.nextLibraryID
	c.nextLibraryID++
	c.libraries[name] = id
	return id, false
}

// DeserializationContext tracks the object-ID and library-ID
// namespaces for one incoming message: every fully-formed record seen
// so far (keyed by object ID), every library name seen so far (keyed
// by library ID), and the set of reference IDs mentioned by a
// MemberReference that have not yet resolved to a record.
type DeserializationContext struct {
	objects   map[int32]RemotingValue
	libraries map[int32]string

	pending map[int32]bool

	// classMeta resolves a with-types class record's object ID to the
	// name/member-names/types a later ClassWithId record needs.
	classMeta map[int32]classMetadata
}

// NewDeserializationContext returns an empty context.
func NewDeserializationContext() *DeserializationContext {
	return &DeserializationContext{
		objects:   make(map[int32]RemotingValue),
		libraries: make(map[int32]string),
		pending:   make(map[int32]bool),
		classMeta: make(map[int32]classMetadata),
	}
}

// RegisterObject records that id now resolves to v. It is an error
// (ErrDuplicateObjectID) for id to have already been registered.
func (c *DeserializationContext) RegisterObject(id int32, v RemotingValue) error {
	if _, ok := c.objects[id]; ok {
		return wrapErr(KindInvariant, "RegisterObject", ErrDuplicateObjectID)
	}
	c.objects[id] = v
	delete(c.pending, id)
	return nil
}

// Object returns the record previously registered under id.
func (c *DeserializationContext) Object(id int32) (RemotingValue, bool) {
	v, ok := c.objects[id]
	return v, ok
}

// RegisterLibrary records that id now names library.
func (c *DeserializationContext) RegisterLibrary(id int32, name string) error {
	if _, ok := c.libraries[id]; ok {
		return wrapErr(KindInvariant, "RegisterLibrary", ErrDuplicateObjectID)
	}
	c.libraries[id] = name
	return nil
}

// Library resolves a previously-registered library ID.
func (c *DeserializationContext) Library(id int32) (string, error) {
	name, ok := c.libraries[id]
	if !ok {
		return "", wrapErr(KindInvariant, "Library", ErrUnknownLibraryID)
	}
	return name, nil
}

// notePendingReference records that id was mentioned by a
// MemberReference and has not yet been confirmed to resolve.
func (c *DeserializationContext) notePendingReference(id int32) {
	if _, ok := c.objects[id]; ok {
		return
	}
	c.pending[id] = true
}

// CheckResolved fails with ErrDanglingReference if any referenced ID
// never resolved to a registered object by end of message.
func (c *DeserializationContext) CheckResolved() error {
	for id := range c.pending {
		if _, ok := c.objects[id]; !ok {
			return wrapErr(KindInvariant, "CheckResolved", ErrDanglingReference)
		}
	}
	return nil
}
