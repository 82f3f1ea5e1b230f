// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"strings"
)

// RecordOptions selects which fields of a [StorageRecord] are materialized
// by a point lookup. It never alters stored state.
type RecordOptions struct {
	RetrieveType  bool `json:"retrieveType"`
	RetrieveValue bool `json:"retrieveValue"`
	RetrieveTags  bool `json:"retrieveTags"`
}

// DefaultRecordOptions returns the options an empty document resolves to.
func DefaultRecordOptions() RecordOptions {
	return RecordOptions{
		RetrieveType:  false,
		RetrieveValue: true,
		RetrieveTags:  false,
	}
}

// FullRecordOptions materializes type, value and tags.
func FullRecordOptions() RecordOptions {
	return RecordOptions{RetrieveType: true, RetrieveValue: true, RetrieveTags: true}
}

// UnmarshalJSON fills keys missing from the document with their defaults.
func (o *RecordOptions) UnmarshalJSON(b []byte) error {
	type plain RecordOptions
	opts := plain(DefaultRecordOptions())
	if err := json.Unmarshal(b, &opts); err != nil {
		return err
	}
	*o = RecordOptions(opts)
	return nil
}

// SearchOptions controls what a search computes and returns.
type SearchOptions struct {
	RetrieveRecords    bool `json:"retrieveRecords"`
	RetrieveTotalCount bool `json:"retrieveTotalCount"`
	RetrieveType       bool `json:"retrieveType"`
	RetrieveValue      bool `json:"retrieveValue"`
	RetrieveTags       bool `json:"retrieveTags"`
}

// DefaultSearchOptions returns the options an empty document resolves to.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		RetrieveRecords:    true,
		RetrieveTotalCount: false,
		RetrieveType:       false,
		RetrieveValue:      true,
		RetrieveTags:       false,
	}
}

// UnmarshalJSON fills keys missing from the document with their defaults.
func (o *SearchOptions) UnmarshalJSON(b []byte) error {
	type plain SearchOptions
	opts := plain(DefaultSearchOptions())
	if err := json.Unmarshal(b, &opts); err != nil {
		return err
	}
	*o = SearchOptions(opts)
	return nil
}

// RecordOptions projects the per-record part of the search options.
func (o SearchOptions) RecordOptions() RecordOptions {
	return RecordOptions{
		RetrieveType:  o.RetrieveType,
		RetrieveValue: o.RetrieveValue,
		RetrieveTags:  o.RetrieveTags,
	}
}

// DecodeRecordOptions parses a JSON options document. An empty or
// whitespace-only document yields [DefaultRecordOptions].
func DecodeRecordOptions(raw string) (RecordOptions, error) {
	opts := DefaultRecordOptions()
	if strings.TrimSpace(raw) == "" {
		return opts, nil
	}
	err := json.Unmarshal([]byte(raw), &opts)
	return opts, err
}

// DecodeSearchOptions parses a JSON options document. An empty or
// whitespace-only document yields [DefaultSearchOptions].
func DecodeSearchOptions(raw string) (SearchOptions, error) {
	opts := DefaultSearchOptions()
	if strings.TrimSpace(raw) == "" {
		return opts, nil
	}
	err := json.Unmarshal([]byte(raw), &opts)
	return opts, err
}
