package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MKhiriev/go-wallet-storage/models"
)

// tagRetriever reads the tags of one item at a time through two prepared
// statements on a connection of its own, so it can run while the records
// cursor of the same search is still open.
type tagRetriever struct {
	walletID  string
	conn      *sql.Conn
	encrypted *sql.Stmt
	plaintext *sql.Stmt
}

func newTagRetriever(ctx context.Context, db *DB, walletID string) (*tagRetriever, error) {
	conn, err := db.lease(ctx)
	if err != nil {
		return nil, err
	}

	r := &tagRetriever{walletID: walletID, conn: conn}

	q := db.queries()
	if r.encrypted, err = conn.PrepareContext(ctx, q.encrypted.selectAll); err != nil {
		r.close()
		return nil, ioError(ErrPreparingStatement, err)
	}
	if r.plaintext, err = conn.PrepareContext(ctx, q.plaintext.selectAll); err != nil {
		r.close()
		return nil, ioError(ErrPreparingStatement, err)
	}

	return r, nil
}

// retrieve returns all tags of itemID, encrypted first.
func (r *tagRetriever) retrieve(ctx context.Context, itemID int64) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, 8)

	for _, s := range []struct {
		stmt *sql.Stmt
		kind models.TagKind
	}{
		{r.encrypted, models.TagKindEncrypted},
		{r.plaintext, models.TagKindPlaintext},
	} {
		rows, err := s.stmt.QueryContext(ctx, r.walletID, itemID)
		if err != nil {
			return nil, ioError(ErrExecutingQuery, err)
		}
		if tags, err = scanTags(rows, s.kind, tags); err != nil {
			return nil, err
		}
	}

	return tags, nil
}

// close releases both statements before handing the connection back.
func (r *tagRetriever) close() error {
	var errs []error
	for _, stmt := range []*sql.Stmt{r.encrypted, r.plaintext} {
		if stmt != nil {
			errs = append(errs, stmt.Close())
		}
	}
	errs = append(errs, r.conn.Close())
	return errors.Join(errs...)
}
