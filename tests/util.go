package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/records"
)

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

// TestRepository runs the behaviour every records.Repository must share against an empty repo.
func TestRepository(t *testing.T, repo records.Repository) {
	ctx := context.Background()

	docs, err := repo.List(ctx, "aule")
	require.NoError(t, err)
	assert.Empty(t, docs, "unknown collections are empty")

	for _, doc := range []records.Document{
		{"id": "b", "name": "Lab B", "numero_posti": float64(20)},
		{"id": "a", "name": "Lab A", "numero_posti": float64(30)},
		{"id": "c", "name": "Lab C", "numero_posti": float64(10)},
	} {
		require.NoError(t, repo.Insert(ctx, "aule", doc))
	}
	require.NoError(t, repo.Insert(ctx, "docenti", records.Document{"id": "a", "firstname": "Maria"}))

	docs, err = repo.List(ctx, "aule")
	require.NoError(t, err)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID())
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids, "insertion order is kept")

	doc, err := repo.Get(ctx, "aule", "a")
	require.NoError(t, err)
	assert.Equal(t, records.Document{"id": "a", "name": "Lab A", "numero_posti": float64(30)}, doc)

	doc["name"] = "changed locally"
	doc, err = repo.Get(ctx, "aule", "a")
	require.NoError(t, err)
	assert.Equal(t, "Lab A", doc["name"], "returned documents are copies")

	doc, err = repo.Get(ctx, "docenti", "a")
	require.NoError(t, err)
	assert.Equal(t, "Maria", doc["firstname"], "collections are isolated")

	require.NoError(t, repo.Replace(ctx, "aule", "a", records.Document{"id": "a", "name": "Aula A", "numero_posti": float64(31)}))
	doc, err = repo.Get(ctx, "aule", "a")
	require.NoError(t, err)
	assert.Equal(t, records.Document{"id": "a", "name": "Aula A", "numero_posti": float64(31)}, doc)

	require.NoError(t, repo.Delete(ctx, "aule", "b"))
	docs, err = repo.List(ctx, "aule")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = repo.Get(ctx, "aule", "b")
	assert.True(t, errors.Is(err, records.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, "aule", "b"), records.ErrNotFound))
	assert.True(t, errors.Is(repo.Replace(ctx, "aule", "b", records.Document{"id": "b"}), records.ErrNotFound))
}
