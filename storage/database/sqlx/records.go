package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core/records"
)

type recordRepository struct {
	db *sqlx.DB
}

var _ records.Repository = (*recordRepository)(nil)

func NewRecordRepository(db *sqlx.DB) records.Repository {
	return &recordRepository{db: db}
}

func notFound(coll, id string) error {
	return errors.Wrapf(records.ErrNotFound, "%s/%s", coll, id)
}

func decode(body types.JSONText) (records.Document, error) {
	doc := make(records.Document)
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return doc, nil
}

// encode returns the document as text: lib/pq would send raw bytes as bytea.
func encode(doc records.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "encoding record")
	}
	return string(data), nil
}

func (repo *recordRepository) List(ctx context.Context, coll string) ([]records.Document, error) {
	var bodies []types.JSONText
	q := `SELECT body FROM records WHERE collection = $1 ORDER BY seq`
	if err := repo.db.SelectContext(ctx, &bodies, q, coll); err != nil {
		return nil, errors.Wrapf(err, "listing %s", coll)
	}

	docs := make([]records.Document, 0, len(bodies))
	for _, body := range bodies {
		doc, err := decode(body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (repo *recordRepository) Get(ctx context.Context, coll, id string) (records.Document, error) {
	var body types.JSONText
	q := `SELECT body FROM records WHERE collection = $1 AND id = $2`
	if err := repo.db.GetContext(ctx, &body, q, coll, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(coll, id)
		}
		return nil, errors.Wrapf(err, "getting %s/%s", coll, id)
	}
	return decode(body)
}

func (repo *recordRepository) Insert(ctx context.Context, coll string, doc records.Document) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}
	q := `INSERT INTO records (collection, id, body) VALUES ($1, $2, $3::jsonb)`
	if _, err = repo.db.ExecContext(ctx, q, coll, doc.ID(), body); err != nil {
		return errors.Wrapf(err, "inserting %s/%s", coll, doc.ID())
	}
	return nil
}

// exec runs a single-row statement and maps "no row affected" to ErrNotFound.
func (repo *recordRepository) exec(ctx context.Context, coll, id, q string, args ...interface{}) error {
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrapf(err, "writing %s/%s", coll, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "writing %s/%s", coll, id)
	}
	if n == 0 {
		return notFound(coll, id)
	}
	return nil
}

func (repo *recordRepository) Replace(ctx context.Context, coll, id string, doc records.Document) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}
	q := `UPDATE records SET body = $3::jsonb WHERE collection = $1 AND id = $2`
	return repo.exec(ctx, coll, id, q, coll, id, body)
}

func (repo *recordRepository) Delete(ctx context.Context, coll, id string) error {
	q := `DELETE FROM records WHERE collection = $1 AND id = $2`
	return repo.exec(ctx, coll, id, q, coll, id)
}
