package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-wallet-storage/internal/config"
	"github.com/MKhiriev/go-wallet-storage/internal/query"
	"github.com/MKhiriev/go-wallet-storage/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteTestConfig(t *testing.T) *config.Storage {
	t.Helper()
	cfg := config.DefaultStorage()
	cfg.Path = filepath.Join(t.TempDir(), "wallets", "wallets.db")
	cfg.AcquireTimeout = 2 * time.Second
	return &cfg
}

// openSQLiteWallet provisions a fresh SQLite file and opens walletID in it.
func openSQLiteWallet(t *testing.T, cfg *config.Storage, walletID string) WalletStorage {
	t.Helper()
	ctx := testContext()
	st := NewSQLiteStorageType()

	require.NoError(t, st.Init(ctx, cfg, nil))
	require.NoError(t, st.Create(ctx, walletID, cfg, nil, []byte("metadata of "+walletID)))

	w, err := st.Open(ctx, walletID, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

// openLimitedSQLiteWallet provisions with the default pool and reopens the
// wallet with maxConnections and a short acquire timeout.
func openLimitedSQLiteWallet(t *testing.T, maxConnections int) WalletStorage {
	t.Helper()
	cfg := sqliteTestConfig(t)
	openSQLiteWallet(t, cfg, testWalletID)

	limited := *cfg
	limited.MaxConnections = maxConnections
	limited.AcquireTimeout = 200 * time.Millisecond

	w, err := NewSQLiteStorageType().Open(testContext(), testWalletID, &limited, nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func collect(t *testing.T, it StorageIterator) []*models.StorageRecord {
	t.Helper()
	defer it.Close()

	var records []*models.StorageRecord
	for {
		record, err := it.Next(testContext())
		require.NoError(t, err)
		if record == nil {
			return records
		}
		records = append(records, record)
	}
}

func TestSQLite_RecordScenario(t *testing.T) {
	ctx := testContext()
	w := openSQLiteWallet(t, sqliteTestConfig(t), testWalletID)

	require.NoError(t, w.Add(ctx, testType, testName, testValue, []models.Tag{
		models.EncryptedTag([]byte{1}, []byte{2}),
		models.PlaintextTag([]byte{3}, "x"),
	}))

	opts, err := ParseRecordOptions(`{"retrieveTags": true}`)
	require.NoError(t, err)

	record, err := w.Get(ctx, testType, testName, opts)
	require.NoError(t, err)
	require.NotNil(t, record.Value)
	assert.True(t, testValue.Equal(*record.Value))
	assert.ElementsMatch(t, []models.Tag{
		models.EncryptedTag([]byte{1}, []byte{2}),
		models.PlaintextTag([]byte{3}, "x"),
	}, record.Tags)

	require.NoError(t, w.DeleteTags(ctx, testType, testName, []models.TagName{models.OfEncrypted([]byte{1})}))
	record, err = w.Get(ctx, testType, testName, opts)
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{models.PlaintextTag([]byte{3}, "x")}, record.Tags)

	require.NoError(t, w.Delete(ctx, testType, testName))
	_, err = w.Get(ctx, testType, testName, opts)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestSQLite_RecordProperties(t *testing.T) {
	ctx := testContext()
	cfg := sqliteTestConfig(t)
	w := openSQLiteWallet(t, cfg, testWalletID)
	full := models.FullRecordOptions()

	t.Run("add then get returns value and type", func(t *testing.T) {
		require.NoError(t, w.Add(ctx, []byte("t"), []byte("roundtrip"), testValue, nil))

		record, err := w.Get(ctx, []byte("t"), []byte("roundtrip"), full)
		require.NoError(t, err)
		assert.Equal(t, []byte("t"), record.Type)
		assert.True(t, testValue.Equal(*record.Value))
		assert.Empty(t, record.Tags)
	})

	t.Run("duplicate add leaves the item unchanged", func(t *testing.T) {
		tags := []models.Tag{models.PlaintextTag([]byte("k"), "v")}
		require.NoError(t, w.Add(ctx, []byte("t"), []byte("dup"), testValue, tags))

		other := models.NewEncryptedValue([]byte("other"), []byte("key"))
		err := w.Add(ctx, []byte("t"), []byte("dup"), other, []models.Tag{models.PlaintextTag([]byte("z"), "z")})
		require.ErrorIs(t, err, ErrItemAlreadyExists)

		record, err := w.Get(ctx, []byte("t"), []byte("dup"), full)
		require.NoError(t, err)
		assert.True(t, testValue.Equal(*record.Value))
		assert.Equal(t, tags, record.Tags)
	})

	t.Run("duplicate tag in add rolls the item back", func(t *testing.T) {
		err := w.Add(ctx, []byte("t"), []byte("half"), testValue, []models.Tag{
			models.EncryptedTag([]byte("n"), []byte("1")),
			models.EncryptedTag([]byte("n"), []byte("2")),
		})
		require.ErrorIs(t, err, ErrItemAlreadyExists)

		_, err = w.Get(ctx, []byte("t"), []byte("half"), full)
		require.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("update replaces value and key", func(t *testing.T) {
		require.NoError(t, w.Add(ctx, []byte("t"), []byte("upd"), testValue, nil))

		next := models.NewEncryptedValue([]byte("new data"), []byte("new key"))
		require.NoError(t, w.Update(ctx, []byte("t"), []byte("upd"), next))

		record, err := w.Get(ctx, []byte("t"), []byte("upd"), full)
		require.NoError(t, err)
		assert.True(t, next.Equal(*record.Value))

		err = w.Update(ctx, []byte("t"), []byte("missing"), next)
		require.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("update tags is a full replace", func(t *testing.T) {
		require.NoError(t, w.Add(ctx, []byte("t"), []byte("ut"), testValue, []models.Tag{
			models.EncryptedTag([]byte("a"), []byte("1")),
			models.PlaintextTag([]byte("b"), "2"),
		}))

		replacement := []models.Tag{models.PlaintextTag([]byte("c"), "3")}
		require.NoError(t, w.UpdateTags(ctx, []byte("t"), []byte("ut"), replacement))

		record, err := w.Get(ctx, []byte("t"), []byte("ut"), full)
		require.NoError(t, err)
		assert.Equal(t, replacement, record.Tags)
	})

	t.Run("add tags merges with latest value winning", func(t *testing.T) {
		require.NoError(t, w.Add(ctx, []byte("t"), []byte("at"), testValue, nil))

		require.NoError(t, w.AddTags(ctx, []byte("t"), []byte("at"), []models.Tag{
			models.PlaintextTag([]byte("a"), "1"),
			models.PlaintextTag([]byte("b"), "1"),
		}))
		require.NoError(t, w.AddTags(ctx, []byte("t"), []byte("at"), []models.Tag{
			models.PlaintextTag([]byte("b"), "2"),
			models.EncryptedTag([]byte("b"), []byte("3")),
		}))

		record, err := w.Get(ctx, []byte("t"), []byte("at"), full)
		require.NoError(t, err)
		assert.ElementsMatch(t, []models.Tag{
			models.PlaintextTag([]byte("a"), "1"),
			models.PlaintextTag([]byte("b"), "2"),
			models.EncryptedTag([]byte("b"), []byte("3")),
		}, record.Tags)

		err = w.AddTags(ctx, []byte("t"), []byte("nope"), []models.Tag{models.PlaintextTag([]byte("a"), "1")})
		require.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("delete leaves no tag rows behind", func(t *testing.T) {
		require.NoError(t, w.Add(ctx, []byte("t"), []byte("del"), testValue, []models.Tag{
			models.EncryptedTag([]byte("a"), []byte("1")),
			models.PlaintextTag([]byte("b"), "2"),
		}))
		require.NoError(t, w.Delete(ctx, []byte("t"), []byte("del")))
		require.ErrorIs(t, w.Delete(ctx, []byte("t"), []byte("del")), ErrItemNotFound)

		db := w.(*walletStorage).db
		for _, table := range []string{tableTagsEncrypted, tableTagsPlaintext} {
			var orphans int
			err := db.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM "+table+" WHERE item_id NOT IN (SELECT id FROM items)").Scan(&orphans)
			require.NoError(t, err)
			assert.Zero(t, orphans, table)
		}
	})
}

func TestSQLite_Search(t *testing.T) {
	ctx := testContext()
	w := openSQLiteWallet(t, sqliteTestConfig(t), testWalletID)

	colors := map[string]string{"apple": "red", "cherry": "red", "lime": "green", "plum": "purple"}
	for name, color := range colors {
		require.NoError(t, w.Add(ctx, []byte("fruit"), []byte(name), testValue, []models.Tag{
			models.PlaintextTag([]byte("color"), color),
			models.EncryptedTag([]byte("secret"), []byte(name)),
		}))
	}
	require.NoError(t, w.Add(ctx, []byte("veg"), []byte("pepper"), testValue, []models.Tag{
		models.PlaintextTag([]byte("color"), "red"),
	}))

	tests := []struct {
		name  string
		typ   []byte
		wql   string
		names []string
	}{
		{name: "everything", wql: `{}`, names: []string{"apple", "cherry", "lime", "plum", "pepper"}},
		{name: "type filter", typ: []byte("veg"), wql: `{}`, names: []string{"pepper"}},
		{name: "plaintext eq", typ: []byte("fruit"), wql: `{"~color": "red"}`, names: []string{"apple", "cherry"}},
		{name: "encrypted eq", wql: `{"secret": "lime"}`, names: []string{"lime"}},
		{name: "in", wql: `{"~color": {"$in": ["green", "purple"]}}`, names: []string{"lime", "plum"}},
		{name: "like", wql: `{"~color": {"$like": "p%"}}`, names: []string{"plum"}},
		{name: "or", wql: `{"$or": [{"secret": "apple"}, {"secret": "plum"}]}`, names: []string{"apple", "plum"}},
		{name: "not", typ: []byte("fruit"), wql: `{"$not": {"~color": "red"}}`, names: []string{"lime", "plum"}},
		{name: "nothing", wql: `{"~color": "blue"}`, names: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := query.Parse(tt.wql)
			require.NoError(t, err)

			it, err := w.Search(ctx, tt.typ, op, models.SearchOptions{RetrieveTotalCount: true})
			require.NoError(t, err)
			count, ok := it.TotalCount()
			require.True(t, ok)
			require.NoError(t, it.Close())

			it, err = w.Search(ctx, tt.typ, op, models.DefaultSearchOptions())
			require.NoError(t, err)
			records := collect(t, it)

			var names []string
			for _, record := range records {
				names = append(names, string(record.Name))
				assert.NotNil(t, record.Value)
				assert.Nil(t, record.Tags)
			}
			assert.ElementsMatch(t, tt.names, names)
			assert.Equal(t, int64(len(records)), count)
		})
	}

	t.Run("encrypted tags reject range predicates", func(t *testing.T) {
		op, err := query.Parse(`{"secret": {"$gt": "a"}}`)
		require.NoError(t, err)

		_, err = w.Search(ctx, nil, op, models.DefaultSearchOptions())
		require.ErrorIs(t, err, ErrInvalidQuery)
	})
}

func TestSQLite_GetAll(t *testing.T) {
	ctx := testContext()
	w := openSQLiteWallet(t, sqliteTestConfig(t), testWalletID)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, w.Add(ctx, []byte("t-"+name), []byte(name), testValue, []models.Tag{
			models.PlaintextTag([]byte("name"), name),
		}))
	}

	it, err := w.GetAll(ctx)
	require.NoError(t, err)
	records := collect(t, it)

	require.Len(t, records, 3)
	seen := map[string]bool{}
	for _, record := range records {
		name := string(record.Name)
		assert.False(t, seen[name], "item %s enumerated twice", name)
		seen[name] = true

		assert.Equal(t, []byte("t-"+name), record.Type)
		require.NotNil(t, record.Value)
		assert.Equal(t, []models.Tag{models.PlaintextTag([]byte("name"), name)}, record.Tags)
	}
}

func TestSQLite_WalletIsolation(t *testing.T) {
	ctx := testContext()
	cfg := sqliteTestConfig(t)
	first := openSQLiteWallet(t, cfg, "first")

	second, err := NewSQLiteStorageType().Open(ctx, "second", cfg, nil)
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, second)

	require.NoError(t, NewSQLiteStorageType().Create(ctx, "second", cfg, nil, []byte("m2")))
	second, err = NewSQLiteStorageType().Open(ctx, "second", cfg, nil)
	require.NoError(t, err)
	defer second.Close()

	// the same (type, name) lives independently in both wallets
	require.NoError(t, first.Add(ctx, testType, testName, testValue, []models.Tag{models.PlaintextTag([]byte("w"), "first")}))
	require.NoError(t, second.Add(ctx, testType, testName, testValue, []models.Tag{models.PlaintextTag([]byte("w"), "second")}))

	require.NoError(t, first.Delete(ctx, testType, testName))

	record, err := second.Get(ctx, testType, testName, models.FullRecordOptions())
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{models.PlaintextTag([]byte("w"), "second")}, record.Tags)

	it, err := first.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, collect(t, it))

	require.NoError(t, NewSQLiteStorageType().Delete(ctx, "second", cfg, nil))
	_, err = first.GetStorageMetadata(ctx)
	require.NoError(t, err)
}

func TestSQLite_Metadata(t *testing.T) {
	ctx := testContext()
	w := openSQLiteWallet(t, sqliteTestConfig(t), testWalletID)

	got, err := w.GetStorageMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("metadata of "+testWalletID), got)

	require.NoError(t, w.SetStorageMetadata(ctx, []byte("rotated")))
	got, err = w.GetStorageMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("rotated"), got)
}

func TestSQLite_Lifecycle(t *testing.T) {
	ctx := testContext()
	cfg := sqliteTestConfig(t)
	st := NewSQLiteStorageType()

	_, err := st.Open(ctx, testWalletID, cfg, nil)
	require.ErrorIs(t, err, ErrNotFound, "open before init")

	require.NoError(t, st.Init(ctx, cfg, nil))
	require.NoError(t, st.Init(ctx, cfg, nil), "init is idempotent")

	require.NoError(t, st.Create(ctx, testWalletID, cfg, nil, nil))
	require.ErrorIs(t, st.Create(ctx, testWalletID, cfg, nil, nil), ErrAlreadyExists)

	w, err := st.Open(ctx, testWalletID, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(ctx, testType, testName, testValue, []models.Tag{models.PlaintextTag([]byte("a"), "b")}))
	require.NoError(t, w.Close())

	require.NoError(t, st.Delete(ctx, testWalletID, cfg, nil))
	require.ErrorIs(t, st.Delete(ctx, testWalletID, cfg, nil), ErrNotFound)

	_, err = st.Open(ctx, testWalletID, cfg, nil)
	require.ErrorIs(t, err, ErrNotFound)

	bad := *cfg
	bad.Driver = "bolt"
	require.ErrorIs(t, st.Init(ctx, &bad, nil), ErrConfig)
}

func TestSQLite_SearchCountOnlyHoldsNoConnection(t *testing.T) {
	ctx := testContext()
	w := openLimitedSQLiteWallet(t, 1)

	require.NoError(t, w.Add(ctx, testType, testName, testValue, nil))

	it, err := w.Search(ctx, nil, query.MatchAll(), models.SearchOptions{RetrieveTotalCount: true})
	require.NoError(t, err)
	count, ok := it.TotalCount()
	require.True(t, ok)
	assert.Equal(t, int64(1), count)

	// the iterator is still open, but the only connection is free
	_, err = w.Get(ctx, testType, testName, models.DefaultRecordOptions())
	require.NoError(t, err)
	require.NoError(t, it.Close())
}

func TestSQLite_IteratorReleasesConnections(t *testing.T) {
	ctx := testContext()
	w := openLimitedSQLiteWallet(t, 2)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, w.Add(ctx, testType, []byte(name), testValue, nil))
	}

	it, err := w.GetAll(ctx)
	require.NoError(t, err)
	record, err := it.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, record)

	// records cursor and tag retriever each hold one connection
	_, err = w.Get(ctx, testType, []byte("a"), models.DefaultRecordOptions())
	require.ErrorIs(t, err, ErrPoolExhausted)

	require.NoError(t, it.Close())
	require.NoError(t, it.Close(), "close twice")

	_, err = w.Get(ctx, testType, []byte("a"), models.DefaultRecordOptions())
	require.NoError(t, err)

	record, err = it.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestSQLite_CancelledContext(t *testing.T) {
	cfg := sqliteTestConfig(t)
	w := openSQLiteWallet(t, cfg, testWalletID)

	ctx, cancel := context.WithCancel(testContext())
	cancel()

	err := w.Add(ctx, testType, testName, testValue, nil)
	require.ErrorIs(t, err, ErrIO)
}
