// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/MKhiriev/go-wallet-storage/models"
)

// plainTagPrefix marks a tag name in WQL as referring to a plaintext tag.
// The prefix is not part of the stored name.
const plainTagPrefix = "~"

// Parse reads a WQL document into an operator tree.
//
// Grammar:
//
//	query   = {}                                  -- matches everything
//	        | {"$and": [query, ...]} | {"$or": [query, ...]} | {"$not": query}
//	        | {name: "value"}                     -- Eq
//	        | {name: {"$neq"|"$gt"|"$gte"|"$lt"|"$lte"|"$like": "value"}}
//	        | {name: {"$in": ["value", ...]}}
//
// Several keys in one object are combined with And. Names starting with "~"
// address plaintext tags; other names and their values are taken as the
// (already encrypted) bytes of the string.
func Parse(raw string) (Operator, error) {
	if strings.TrimSpace(raw) == "" {
		return MatchAll(), nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedWQL, err)
	}

	return parseObject(doc)
}

func parseObject(doc map[string]json.RawMessage) (Operator, error) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ops := make(And, 0, len(keys))
	for _, key := range keys {
		op, err := parseEntry(key, doc[key])
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if len(ops) == 1 {
		return ops[0], nil
	}
	return ops, nil
}

func parseEntry(key string, raw json.RawMessage) (Operator, error) {
	switch key {
	case "$and", "$or":
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %s expects an array of objects", ErrMalformedWQL, key)
		}
		ops := make([]Operator, 0, len(items))
		for _, item := range items {
			op, err := parseObject(item)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
		if key == "$and" {
			return And(ops), nil
		}
		return Or(ops), nil

	case "$not":
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: $not expects an object", ErrMalformedWQL)
		}
		op, err := parseObject(inner)
		if err != nil {
			return nil, err
		}
		return Not{Operator: op}, nil
	}

	if strings.HasPrefix(key, "$") {
		return nil, fmt.Errorf("%w: unknown operator %q", ErrMalformedWQL, key)
	}

	name := tagName(key)

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedWQL, err)
		}
		return Eq{Name: name, Value: targetValue(name, value)}, nil
	}

	var cmp map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &cmp); err != nil || len(cmp) != 1 {
		return nil, fmt.Errorf("%w: tag %q expects a string or a single-operator object", ErrMalformedWQL, key)
	}

	for opName, opRaw := range cmp {
		if opName == "$in" {
			var values []string
			if err := json.Unmarshal(opRaw, &values); err != nil {
				return nil, fmt.Errorf("%w: $in expects an array of strings", ErrMalformedWQL)
			}
			targets := make([]TargetValue, 0, len(values))
			for _, v := range values {
				targets = append(targets, targetValue(name, v))
			}
			return In{Name: name, Values: targets}, nil
		}

		var value string
		if err := json.Unmarshal(opRaw, &value); err != nil {
			return nil, fmt.Errorf("%w: %s expects a string", ErrMalformedWQL, opName)
		}
		target := targetValue(name, value)

		switch opName {
		case "$neq":
			return Neq{Name: name, Value: target}, nil
		case "$gt":
			return Gt{Name: name, Value: target}, nil
		case "$gte":
			return Gte{Name: name, Value: target}, nil
		case "$lt":
			return Lt{Name: name, Value: target}, nil
		case "$lte":
			return Lte{Name: name, Value: target}, nil
		case "$like":
			return Like{Name: name, Value: target}, nil
		default:
			return nil, fmt.Errorf("%w: unknown operator %q", ErrMalformedWQL, opName)
		}
	}

	// unreachable: cmp has exactly one entry
	return nil, ErrMalformedWQL
}

func tagName(key string) models.TagName {
	if strings.HasPrefix(key, plainTagPrefix) {
		return models.OfPlain([]byte(strings.TrimPrefix(key, plainTagPrefix)))
	}
	return models.OfEncrypted([]byte(key))
}

func targetValue(name models.TagName, value string) TargetValue {
	if name.Kind() == models.TagKindPlaintext {
		return Unencrypted(value)
	}
	return Encrypted([]byte(value))
}
