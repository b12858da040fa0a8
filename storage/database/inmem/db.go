package inmemdb

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core/records"
)

type (
	DB struct {
		sync.RWMutex
		tables map[string]*table
	}

	table struct {
		order []string // ids in insertion order
		docs  map[string]records.Document
	}
)

func Open() *DB {
	return &DB{tables: make(map[string]*table)}
}

type recordRepository struct {
	db *DB
}

var _ records.Repository = (*recordRepository)(nil)

func NewRecordRepository(db *DB) records.Repository {
	return &recordRepository{db: db}
}

func clone(doc records.Document) records.Document {
	c := make(records.Document, len(doc))
	for k, v := range doc {
		c[k] = v
	}
	return c
}

func notFound(coll, id string) error {
	return errors.Wrapf(records.ErrNotFound, "%s/%s", coll, id)
}

// tbl must be called with the write lock held.
func (repo *recordRepository) tbl(coll string) *table {
	t, ok := repo.db.tables[coll]
	if !ok {
		t = &table{docs: make(map[string]records.Document)}
		repo.db.tables[coll] = t
	}
	return t
}

func (repo *recordRepository) List(_ context.Context, coll string) ([]records.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	t, ok := repo.db.tables[coll]
	if !ok {
		return []records.Document{}, nil
	}
	docs := make([]records.Document, 0, len(t.order))
	for _, id := range t.order {
		docs = append(docs, clone(t.docs[id]))
	}
	return docs, nil
}

func (repo *recordRepository) Get(_ context.Context, coll, id string) (records.Document, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.tables[coll]; ok {
		if doc, ok := t.docs[id]; ok {
			return clone(doc), nil
		}
	}
	return nil, notFound(coll, id)
}

func (repo *recordRepository) Insert(_ context.Context, coll string, doc records.Document) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	t := repo.tbl(coll)
	id := doc.ID()
	if _, exists := t.docs[id]; exists {
		return errors.Errorf("%s/%s already exists", coll, id)
	}
	t.order = append(t.order, id)
	t.docs[id] = clone(doc)
	return nil
}

func (repo *recordRepository) Replace(_ context.Context, coll, id string, doc records.Document) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	t := repo.tbl(coll)
	if _, ok := t.docs[id]; !ok {
		return notFound(coll, id)
	}
	t.docs[id] = clone(doc)
	return nil
}

func (repo *recordRepository) Delete(_ context.Context, coll, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	t := repo.tbl(coll)
	if _, ok := t.docs[id]; !ok {
		return notFound(coll, id)
	}
	delete(t.docs, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}
