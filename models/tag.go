// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"fmt"
)

// TagKind selects which of the two disjoint tag variants a value holds.
// The kind decides both the table a tag is stored in and how it can be
// searched.
type TagKind int

const (
	// TagKindEncrypted tags have opaque names and values and only support
	// exact-match predicates.
	TagKindEncrypted TagKind = iota + 1

	// TagKindPlaintext tags keep their value in clear text and support
	// range and pattern predicates.
	TagKindPlaintext
)

func (k TagKind) String() string {
	switch k {
	case TagKindEncrypted:
		return "encrypted"
	case TagKindPlaintext:
		return "plaintext"
	default:
		return fmt.Sprintf("TagKind(%d)", int(k))
	}
}

// Tag is a searchable annotation of a wallet item. A Tag is always exactly
// one variant; build it with [EncryptedTag] or [PlaintextTag].
type Tag struct {
	kind       TagKind
	name       []byte
	cipherText []byte
	plainText  string
}

// EncryptedTag builds a tag whose name and value are both ciphertext.
func EncryptedTag(name, value []byte) Tag {
	return Tag{kind: TagKindEncrypted, name: name, cipherText: value}
}

// PlaintextTag builds a tag whose value is stored in clear text.
func PlaintextTag(name []byte, value string) Tag {
	return Tag{kind: TagKindPlaintext, name: name, plainText: value}
}

// Kind returns the variant of t.
func (t Tag) Kind() TagKind { return t.kind }

// Name returns the tag name. For encrypted tags the name is ciphertext.
func (t Tag) Name() []byte { return t.name }

// EncryptedValue returns the ciphertext value of an encrypted tag.
// ok is false for plaintext tags.
func (t Tag) EncryptedValue() (value []byte, ok bool) {
	return t.cipherText, t.kind == TagKindEncrypted
}

// PlaintextValue returns the clear-text value of a plaintext tag.
// ok is false for encrypted tags.
func (t Tag) PlaintextValue() (value string, ok bool) {
	return t.plainText, t.kind == TagKindPlaintext
}

// Value returns the tag value as a driver argument: []byte for encrypted
// tags, string for plaintext tags.
func (t Tag) Value() any {
	if t.kind == TagKindPlaintext {
		return t.plainText
	}
	return t.cipherText
}

// TagName returns the reference used to delete this tag.
func (t Tag) TagName() TagName {
	return TagName{kind: t.kind, name: t.name}
}

// Equal reports whether t and other are the same variant with equal name
// and value.
func (t Tag) Equal(other Tag) bool {
	return t.kind == other.kind &&
		bytes.Equal(t.name, other.name) &&
		bytes.Equal(t.cipherText, other.cipherText) &&
		t.plainText == other.plainText
}

func (t Tag) String() string {
	if t.kind == TagKindPlaintext {
		return fmt.Sprintf("PlainText(%x, %q)", t.name, t.plainText)
	}
	return fmt.Sprintf("Encrypted(%x, %x)", t.name, t.cipherText)
}

// TagName addresses a single tag of an item by variant and name.
type TagName struct {
	kind TagKind
	name []byte
}

// OfEncrypted references an encrypted tag by name.
func OfEncrypted(name []byte) TagName {
	return TagName{kind: TagKindEncrypted, name: name}
}

// OfPlain references a plaintext tag by name.
func OfPlain(name []byte) TagName {
	return TagName{kind: TagKindPlaintext, name: name}
}

// Kind returns the variant the name refers to.
func (n TagName) Kind() TagKind { return n.kind }

// Name returns the raw tag name.
func (n TagName) Name() []byte { return n.name }
