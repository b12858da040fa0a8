package redisrepos

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/records"
)

const keyPrefix = "scuola:"

// Open connects to the configured Redis server.
func Open(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: conf.Redis.Addr,
		DB:   conf.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

// Each collection is a list of ids (insertion order) and a hash of id -> JSON document.
type recordRepository struct {
	rdb *redis.Client
}

var _ records.Repository = (*recordRepository)(nil)

func NewRecordRepository(rdb *redis.Client) records.Repository {
	return &recordRepository{rdb: rdb}
}

func idsKey(coll string) string  { return keyPrefix + coll + ":ids" }
func docsKey(coll string) string { return keyPrefix + coll + ":docs" }

func notFound(coll, id string) error {
	return errors.Wrapf(records.ErrNotFound, "%s/%s", coll, id)
}

func decode(data string) (records.Document, error) {
	doc := make(records.Document)
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return doc, nil
}

func (repo *recordRepository) List(ctx context.Context, coll string) ([]records.Document, error) {
	ids, err := repo.rdb.LRange(ctx, idsKey(coll), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", coll)
	}
	if len(ids) == 0 {
		return []records.Document{}, nil
	}

	vals, err := repo.rdb.HMGet(ctx, docsKey(coll), ids...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", coll)
	}
	docs := make([]records.Document, 0, len(vals))
	for _, val := range vals {
		data, ok := val.(string)
		if !ok { // id left behind by an interrupted delete
			continue
		}
		doc, err := decode(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (repo *recordRepository) Get(ctx context.Context, coll, id string) (records.Document, error) {
	data, err := repo.rdb.HGet(ctx, docsKey(coll), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(coll, id)
		}
		return nil, errors.Wrapf(err, "getting %s/%s", coll, id)
	}
	return decode(data)
}

func (repo *recordRepository) Insert(ctx context.Context, coll string, doc records.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	id := doc.ID()

	created, err := repo.rdb.HSetNX(ctx, docsKey(coll), id, data).Result()
	if err != nil {
		return errors.Wrapf(err, "inserting %s/%s", coll, id)
	}
	if !created {
		return errors.Errorf("%s/%s already exists", coll, id)
	}
	if err = repo.rdb.RPush(ctx, idsKey(coll), id).Err(); err != nil {
		return errors.Wrapf(err, "inserting %s/%s", coll, id)
	}
	return nil
}

func (repo *recordRepository) Replace(ctx context.Context, coll, id string, doc records.Document) error {
	exists, err := repo.rdb.HExists(ctx, docsKey(coll), id).Result()
	if err != nil {
		return errors.Wrapf(err, "replacing %s/%s", coll, id)
	}
	if !exists {
		return notFound(coll, id)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	if err = repo.rdb.HSet(ctx, docsKey(coll), id, data).Err(); err != nil {
		return errors.Wrapf(err, "replacing %s/%s", coll, id)
	}
	return nil
}

func (repo *recordRepository) Delete(ctx context.Context, coll, id string) error {
	var del *redis.IntCmd
	_, err := repo.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.HDel(ctx, docsKey(coll), id)
		pipe.LRem(ctx, idsKey(coll), 1, id)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "deleting %s/%s", coll, id)
	}
	if del.Val() == 0 {
		return notFound(coll, id)
	}
	return nil
}
