// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import "github.com/MKhiriev/go-wallet-storage/models"

// Operator is a node of a tag predicate tree.
type Operator interface {
	operator()
}

// TargetValue is the right-hand side of a tag predicate. Encrypted tags are
// compared against ciphertext, plaintext tags against clear text.
type TargetValue struct {
	encrypted   []byte
	unencrypted string
	isEncrypted bool
}

// Encrypted wraps a ciphertext comparison value.
func Encrypted(value []byte) TargetValue {
	return TargetValue{encrypted: value, isEncrypted: true}
}

// Unencrypted wraps a clear-text comparison value.
func Unencrypted(value string) TargetValue {
	return TargetValue{unencrypted: value}
}

// IsEncrypted reports whether v holds ciphertext.
func (v TargetValue) IsEncrypted() bool { return v.isEncrypted }

func (v TargetValue) arg() any {
	if v.isEncrypted {
		return v.encrypted
	}
	return v.unencrypted
}

type (
	// Eq matches items having the tag with exactly this value.
	Eq struct {
		Name  models.TagName
		Value TargetValue
	}

	// Neq matches items having the tag with any other value.
	Neq struct {
		Name  models.TagName
		Value TargetValue
	}

	// Gt, Gte, Lt and Lte compare plaintext tag values.
	Gt struct {
		Name  models.TagName
		Value TargetValue
	}
	Gte struct {
		Name  models.TagName
		Value TargetValue
	}
	Lt struct {
		Name  models.TagName
		Value TargetValue
	}
	Lte struct {
		Name  models.TagName
		Value TargetValue
	}

	// Like matches plaintext tag values against an SQL LIKE pattern.
	Like struct {
		Name  models.TagName
		Value TargetValue
	}

	// In matches items whose tag value is one of Values.
	In struct {
		Name   models.TagName
		Values []TargetValue
	}

	// And matches when every operand matches. An empty And matches all items.
	And []Operator

	// Or matches when any operand matches. An empty Or matches nothing.
	Or []Operator

	// Not negates its operand.
	Not struct {
		Operator Operator
	}
)

func (Eq) operator()   {}
func (Neq) operator()  {}
func (Gt) operator()   {}
func (Gte) operator()  {}
func (Lt) operator()   {}
func (Lte) operator()  {}
func (Like) operator() {}
func (In) operator()   {}
func (And) operator()  {}
func (Or) operator()   {}
func (Not) operator()  {}

// MatchAll is the predicate used for full scans.
func MatchAll() Operator { return And{} }
