package store

import (
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-wallet-storage/internal/mock"
	"github.com/MKhiriev/go-wallet-storage/internal/query"
	"github.com/MKhiriev/go-wallet-storage/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	fakeSearch = `SELECT search`
	fakeCount  = `SELECT count`
)

func newSearchWallet(t *testing.T) (*walletStorage, sqlmock.Sqlmock, *mock.MockTranslator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	translator := mock.NewMockTranslator(ctrl)

	db, sqlMock := newTestDB(t)
	storeDB := newDBFromSQL(db)
	storeDB.dialect.translator = translator

	return newWalletStorage(storeDB, testWalletID), sqlMock, translator
}

func searchRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "value", "key", "type"})
}

func TestWalletStorage_Search_CountOnly(t *testing.T) {
	w, sqlMock, translator := newSearchWallet(t)
	op := query.Eq{Name: models.OfPlain([]byte("color")), Value: query.Unencrypted("red")}

	translator.EXPECT().TranslateCount(testWalletID, testType, op).Return(fakeCount, []any{testWalletID}, nil)
	sqlMock.ExpectQuery(regexp.QuoteMeta(fakeCount)).
		WithArgs(testWalletID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	it, err := w.Search(testContext(), testType, op, models.SearchOptions{RetrieveTotalCount: true})
	require.NoError(t, err)

	count, ok := it.TotalCount()
	assert.True(t, ok)
	assert.Equal(t, int64(7), count)

	record, err := it.Next(testContext())
	require.NoError(t, err)
	assert.Nil(t, record)
	require.NoError(t, it.Close())
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestWalletStorage_Search_RecordsWithTags(t *testing.T) {
	w, sqlMock, translator := newSearchWallet(t)
	op := query.MatchAll()

	translator.EXPECT().Translate(testWalletID, []byte(nil), op).Return(fakeSearch, []any{testWalletID}, nil)

	sqlMock.ExpectPrepare(regexp.QuoteMeta(fakeSearch)).
		ExpectQuery().
		WithArgs(testWalletID).
		WillReturnRows(searchRows().
			AddRow(int64(1), []byte("a"), []byte("da"), []byte("ka"), []byte("t")).
			AddRow(int64(2), []byte("b"), []byte("db"), []byte("kb"), []byte("t")))
	encrypted := sqlMock.ExpectPrepare(regexp.QuoteMeta(pgSelectEncryptedTags))
	plaintext := sqlMock.ExpectPrepare(regexp.QuoteMeta(pgSelectPlaintextTags))
	encrypted.ExpectQuery().WithArgs(testWalletID, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).AddRow([]byte("e"), []byte("v")))
	plaintext.ExpectQuery().WithArgs(testWalletID, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}))
	encrypted.ExpectQuery().WithArgs(testWalletID, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}))
	plaintext.ExpectQuery().WithArgs(testWalletID, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).AddRow([]byte("p"), "x"))

	it, err := w.Search(testContext(), nil, op, models.SearchOptions{
		RetrieveRecords: true,
		RetrieveTags:    true,
	})
	require.NoError(t, err)

	_, ok := it.TotalCount()
	assert.False(t, ok)

	var got []*models.StorageRecord
	for {
		record, err := it.Next(testContext())
		require.NoError(t, err)
		if record == nil {
			break
		}
		got = append(got, record)
	}

	require.Len(t, got, 2)
	assert.Equal(t, []byte("a"), got[0].Name)
	assert.Nil(t, got[0].Value)
	assert.Nil(t, got[0].Type)
	assert.Equal(t, []models.Tag{models.EncryptedTag([]byte("e"), []byte("v"))}, got[0].Tags)
	assert.Equal(t, []models.Tag{models.PlaintextTag([]byte("p"), "x")}, got[1].Tags)

	// exhausted iterators stay exhausted
	record, err := it.Next(testContext())
	require.NoError(t, err)
	assert.Nil(t, record)
	require.NoError(t, it.Close())
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestWalletStorage_Search_ValueAndType(t *testing.T) {
	w, sqlMock, translator := newSearchWallet(t)
	op := query.MatchAll()

	translator.EXPECT().Translate(testWalletID, testType, op).Return(fakeSearch, nil, nil)
	sqlMock.ExpectPrepare(regexp.QuoteMeta(fakeSearch)).
		ExpectQuery().
		WillReturnRows(searchRows().AddRow(int64(1), testName, testValue.Data, testValue.Key, testType))

	it, err := w.Search(testContext(), testType, op, models.SearchOptions{
		RetrieveRecords: true,
		RetrieveValue:   true,
		RetrieveType:    true,
	})
	require.NoError(t, err)

	record, err := it.Next(testContext())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, &models.StorageRecord{Name: testName, Value: &testValue, Type: testType}, record)

	require.NoError(t, it.Close())
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestWalletStorage_Search_Errors(t *testing.T) {
	t.Run("untranslatable query", func(t *testing.T) {
		w, sqlMock, translator := newSearchWallet(t)
		translator.EXPECT().Translate(testWalletID, gomock.Any(), gomock.Any()).
			Return("", nil, errors.New("unsupported operator"))

		_, err := w.Search(testContext(), nil, query.MatchAll(), models.SearchOptions{RetrieveRecords: true})
		require.ErrorIs(t, err, ErrInvalidQuery)
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("count fails", func(t *testing.T) {
		w, sqlMock, translator := newSearchWallet(t)
		translator.EXPECT().TranslateCount(testWalletID, gomock.Any(), gomock.Any()).Return(fakeCount, nil, nil)
		sqlMock.ExpectQuery(regexp.QuoteMeta(fakeCount)).WillReturnError(errors.New("conn reset"))

		_, err := w.Search(testContext(), nil, query.MatchAll(), models.SearchOptions{RetrieveTotalCount: true, RetrieveRecords: true})
		require.ErrorIs(t, err, ErrIO)
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("cursor fails mid iteration", func(t *testing.T) {
		w, sqlMock, translator := newSearchWallet(t)
		translator.EXPECT().Translate(testWalletID, gomock.Any(), gomock.Any()).Return(fakeSearch, nil, nil)
		sqlMock.ExpectPrepare(regexp.QuoteMeta(fakeSearch)).
			ExpectQuery().
			WillReturnRows(searchRows().
				AddRow(int64(1), []byte("a"), []byte("d"), []byte("k"), []byte("t")).
				RowError(1, errors.New("conn reset")).
				AddRow(int64(2), []byte("b"), []byte("d"), []byte("k"), []byte("t")))

		it, err := w.Search(testContext(), nil, query.MatchAll(), models.SearchOptions{RetrieveRecords: true})
		require.NoError(t, err)

		record, err := it.Next(testContext())
		require.NoError(t, err)
		require.NotNil(t, record)

		_, err = it.Next(testContext())
		require.ErrorIs(t, err, ErrIO)
		require.NoError(t, it.Close())
	})
}

func TestWalletStorage_GetAll(t *testing.T) {
	w, sqlMock, translator := newSearchWallet(t)

	translator.EXPECT().Translate(testWalletID, []byte(nil), query.MatchAll()).Return(fakeSearch, nil, nil)
	sqlMock.ExpectPrepare(regexp.QuoteMeta(fakeSearch)).
		ExpectQuery().
		WillReturnRows(searchRows())
	sqlMock.ExpectPrepare(regexp.QuoteMeta(pgSelectEncryptedTags))
	sqlMock.ExpectPrepare(regexp.QuoteMeta(pgSelectPlaintextTags))

	it, err := w.GetAll(testContext())
	require.NoError(t, err)

	record, err := it.Next(testContext())
	require.NoError(t, err)
	assert.Nil(t, record)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}
