package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Statement texts are written with "?" placeholders and rebound to the
// placeholder format of each backend by [newQueries].
const (
	insertMetadata     = `INSERT INTO metadata (wallet_id, value) VALUES (?, ?)`
	selectWalletExists = `SELECT wallet_id FROM metadata WHERE wallet_id = ?`
	selectMetadata     = `SELECT value FROM metadata WHERE wallet_id = ?`
	updateMetadata     = `UPDATE metadata SET value = ? WHERE wallet_id = ?`

	deleteWalletPlaintextTags = `DELETE FROM tags_plaintext WHERE wallet_id = ?`
	deleteWalletEncryptedTags = `DELETE FROM tags_encrypted WHERE wallet_id = ?`
	deleteWalletItems         = `DELETE FROM items WHERE wallet_id = ?`
	deleteWalletMetadata      = `DELETE FROM metadata WHERE wallet_id = ?`

	insertItem   = `INSERT INTO items (wallet_id, type, name, value, key) VALUES (?, ?, ?, ?, ?) RETURNING id`
	selectItem   = `SELECT id, value, key FROM items WHERE wallet_id = ? AND type = ? AND name = ?`
	selectItemID = `SELECT id FROM items WHERE wallet_id = ? AND type = ? AND name = ?`
	updateItem   = `UPDATE items SET value = ?, key = ? WHERE wallet_id = ? AND type = ? AND name = ?`
	deleteItem   = `DELETE FROM items WHERE wallet_id = ? AND type = ? AND name = ?`

	insertTag = `INSERT INTO %s (wallet_id, item_id, name, value) VALUES (?, ?, ?, ?)`
	upsertTag = insertTag + ` ON CONFLICT (wallet_id, name, item_id) DO UPDATE SET value = excluded.value`

	deleteItemTags = `DELETE FROM %s WHERE wallet_id = ? AND item_id = ?`
	deleteItemTag  = `DELETE FROM %s WHERE wallet_id = ? AND item_id = ? AND name = ?`
	selectItemTags = `SELECT name, value FROM %s WHERE wallet_id = ? AND item_id = ?`

	tableTagsEncrypted = "tags_encrypted"
	tableTagsPlaintext = "tags_plaintext"
)

// tagQueries holds the statements addressing one tag table.
type tagQueries struct {
	insert     string
	upsert     string
	deleteAll  string
	deleteName string
	selectAll  string
}

// queries is the fixed statement set of one backend.
type queries struct {
	insertMetadata     string
	selectWalletExists string
	selectMetadata     string
	updateMetadata     string

	// deleteWallet runs in this order inside one transaction; the last
	// statement removes the metadata row.
	deleteWallet [4]string

	insertItem   string
	selectItem   string
	selectItemID string
	updateItem   string
	deleteItem   string

	encrypted tagQueries
	plaintext tagQueries
}

func newQueries(format sq.PlaceholderFormat) (queries, error) {
	var q queries
	var err error
	rebind := func(s string) string {
		if err != nil {
			return ""
		}
		var out string
		out, err = format.ReplacePlaceholders(s)
		return out
	}
	tags := func(table string) tagQueries {
		return tagQueries{
			insert:     rebind(fmt.Sprintf(insertTag, table)),
			upsert:     rebind(fmt.Sprintf(upsertTag, table)),
			deleteAll:  rebind(fmt.Sprintf(deleteItemTags, table)),
			deleteName: rebind(fmt.Sprintf(deleteItemTag, table)),
			selectAll:  rebind(fmt.Sprintf(selectItemTags, table)),
		}
	}

	q = queries{
		insertMetadata:     rebind(insertMetadata),
		selectWalletExists: rebind(selectWalletExists),
		selectMetadata:     rebind(selectMetadata),
		updateMetadata:     rebind(updateMetadata),
		deleteWallet: [4]string{
			rebind(deleteWalletPlaintextTags),
			rebind(deleteWalletEncryptedTags),
			rebind(deleteWalletItems),
			rebind(deleteWalletMetadata),
		},
		insertItem:   rebind(insertItem),
		selectItem:   rebind(selectItem),
		selectItemID: rebind(selectItemID),
		updateItem:   rebind(updateItem),
		deleteItem:   rebind(deleteItem),
		encrypted:    tags(tableTagsEncrypted),
		plaintext:    tags(tableTagsPlaintext),
	}
	if err != nil {
		return queries{}, fmt.Errorf("error building sql queries: %w", err)
	}

	return q, nil
}

// mustQueries is used for the statically known placeholder formats.
func mustQueries(format sq.PlaceholderFormat) queries {
	q, err := newQueries(format)
	if err != nil {
		panic(err)
	}
	return q
}
