// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// StorageRecord is the query-time view of a wallet item. Only Name is always
// present; Value, Type and Tags are filled according to the options used
// for the lookup.
type StorageRecord struct {
	Name  []byte
	Value *EncryptedValue
	Type  []byte
	Tags  []Tag
}
