// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-wallet-storage/models"
)

const (
	tableItems          = "items AS i"
	tableTagsEncrypted  = "tags_encrypted"
	tableTagsPlaintext  = "tags_plaintext"
	tagSubqueryTemplate = "i.id IN (SELECT item_id FROM %s WHERE wallet_id = ? AND name = ? AND %s)"
)

var recordColumns = []string{"i.id", "i.name", "i.value", "i.key", "i.type"}

// sqlTranslator is the squirrel-based implementation of [Translator]. Each
// tag predicate becomes an "i.id IN (SELECT item_id ...)" sub-select against
// the tag table of its variant.
type sqlTranslator struct {
	builder sq.StatementBuilderType
}

// NewPostgresTranslator returns a [Translator] emitting $n placeholders.
func NewPostgresTranslator() Translator {
	return &sqlTranslator{builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// NewSQLiteTranslator returns a [Translator] emitting ? placeholders.
func NewSQLiteTranslator() Translator {
	return &sqlTranslator{builder: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
}

func (t *sqlTranslator) Translate(walletID string, typ []byte, op Operator) (string, []any, error) {
	return t.build(t.builder.Select(recordColumns...), walletID, typ, op)
}

func (t *sqlTranslator) TranslateCount(walletID string, typ []byte, op Operator) (string, []any, error) {
	return t.build(t.builder.Select("COUNT(*)"), walletID, typ, op)
}

func (t *sqlTranslator) build(sel sq.SelectBuilder, walletID string, typ []byte, op Operator) (string, []any, error) {
	if op == nil {
		op = MatchAll()
	}

	predicate, err := compile(walletID, op)
	if err != nil {
		return "", nil, err
	}

	sel = sel.From(tableItems).Where(sq.Expr("i.wallet_id = ?", walletID))
	if typ != nil {
		sel = sel.Where(sq.Expr("i.type = ?", typ))
	}
	sel = sel.Where(predicate)

	query, args, err := sel.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	return query, args, nil
}

// compile turns op into a squirrel predicate. Placeholders stay as "?" and
// are rewritten by the outer builder.
func compile(walletID string, op Operator) (sq.Sqlizer, error) {
	switch o := op.(type) {
	case Eq:
		return tagPredicate(walletID, o.Name, "value = ?", false, o.Value)
	case Neq:
		return tagPredicate(walletID, o.Name, "value != ?", false, o.Value)
	case Gt:
		return tagPredicate(walletID, o.Name, "value > ?", true, o.Value)
	case Gte:
		return tagPredicate(walletID, o.Name, "value >= ?", true, o.Value)
	case Lt:
		return tagPredicate(walletID, o.Name, "value < ?", true, o.Value)
	case Lte:
		return tagPredicate(walletID, o.Name, "value <= ?", true, o.Value)
	case Like:
		return tagPredicate(walletID, o.Name, "value LIKE ?", true, o.Value)
	case In:
		if len(o.Values) == 0 {
			return sq.Expr("1=0"), nil
		}
		return tagPredicate(walletID, o.Name, "value IN ("+sq.Placeholders(len(o.Values))+")", false, o.Values...)
	case And:
		parts, err := compileAll(walletID, o)
		if err != nil {
			return nil, err
		}
		return sq.And(parts), nil
	case Or:
		parts, err := compileAll(walletID, o)
		if err != nil {
			return nil, err
		}
		return sq.Or(parts), nil
	case Not:
		if o.Operator == nil {
			return nil, fmt.Errorf("%w: $not without operand", ErrInvalidQuery)
		}
		inner, err := compile(walletID, o.Operator)
		if err != nil {
			return nil, err
		}
		return sq.Expr("NOT (?)", inner), nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator %T", ErrInvalidQuery, op)
	}
}

func compileAll(walletID string, ops []Operator) ([]sq.Sqlizer, error) {
	parts := make([]sq.Sqlizer, 0, len(ops))
	for _, op := range ops {
		part, err := compile(walletID, op)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func tagPredicate(walletID string, name models.TagName, cond string, plaintextOnly bool, values ...TargetValue) (sq.Sqlizer, error) {
	var table string
	switch name.Kind() {
	case models.TagKindEncrypted:
		if plaintextOnly {
			return nil, fmt.Errorf("%w: range and pattern predicates need a plaintext tag", ErrInvalidQuery)
		}
		table = tableTagsEncrypted
	case models.TagKindPlaintext:
		table = tableTagsPlaintext
	default:
		return nil, fmt.Errorf("%w: tag name without variant", ErrInvalidQuery)
	}

	args := make([]any, 0, len(values)+2)
	args = append(args, walletID, name.Name())
	for _, v := range values {
		// encrypted names compare against ciphertext, plain names against text
		if v.IsEncrypted() != (name.Kind() == models.TagKindEncrypted) {
			return nil, fmt.Errorf("%w: value variant does not match tag %s", ErrInvalidQuery, name.Kind())
		}
		args = append(args, v.arg())
	}

	return sq.Expr(fmt.Sprintf(tagSubqueryTemplate, table, cond), args...), nil
}
