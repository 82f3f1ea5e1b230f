// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "bytes"

// EncryptedValue is the ciphertext of a wallet item together with the
// wrapped item key that decrypts it. The storage layer never interprets
// either part.
type EncryptedValue struct {
	// Data is the encrypted item payload.
	Data []byte `json:"data"`

	// Key is the item key, wrapped by the wallet master key.
	Key []byte `json:"key"`
}

// NewEncryptedValue builds an [EncryptedValue] from ciphertext and key.
func NewEncryptedValue(data, key []byte) EncryptedValue {
	return EncryptedValue{Data: data, Key: key}
}

// Equal reports whether both parts of v and other are byte-identical.
func (v EncryptedValue) Equal(other EncryptedValue) bool {
	return bytes.Equal(v.Data, other.Data) && bytes.Equal(v.Key, other.Key)
}
