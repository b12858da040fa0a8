// Package records is the reference backend: schemaless JSON documents grouped in collections,
// validated against the school payloads before they are stored.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/school"
)

var (
	// errors
	ErrNotFound          = errors.New("not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidJSON       = errors.New("invalid JSON body")
)

// Document is a stored record. Its "id" key holds the record id.
type Document map[string]interface{}

func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

type (
	Repository interface {
		// List returns the documents of coll in insertion order.
		List(ctx context.Context, coll string) ([]Document, error)
		Get(ctx context.Context, coll, id string) (Document, error)
		Insert(ctx context.Context, coll string, doc Document) error
		// Replace overwrites the whole document, ErrNotFound if it does not exist.
		Replace(ctx context.Context, coll, id string, doc Document) error
		Delete(ctx context.Context, coll, id string) error
	}

	schema struct {
		create func() school.Payload
		update func() school.Payload
		unique map[string]error // field -> error returned on duplicates
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		newID    func() string
		mu       sync.Mutex // serializes writes so uniqueness checks hold
	}
)

var schemas = map[string]schema{
	school.RoomsPath: {
		create: func() school.Payload { return &school.NewRoom{} },
		update: func() school.Payload { return &school.UpdateRoom{} },
	},
	school.CoursesPath: {
		create: func() school.Payload { return &school.NewCourse{} },
		update: func() school.Payload { return &school.UpdateCourse{} },
	},
	school.TeachersPath: {
		create: func() school.Payload { return &school.NewTeacher{} },
		update: func() school.Payload { return &school.UpdateTeacher{} },
	},
	school.StudentsPath: {
		create: func() school.Payload { return &school.NewStudent{} },
		update: func() school.Payload { return &school.UpdateStudent{} },
		unique: map[string]error{"matricola": school.ErrMatricolaExists},
	},
	school.EnrollmentsPath: {
		create: func() school.Payload { return &school.NewEnrollment{} },
		update: func() school.Payload { return &school.UpdateEnrollment{} },
	},
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		validate: validate,
		newID:    func() string { return uuid.New().String() },
	}
}

func lookup(coll string) (schema, error) {
	sch, ok := schemas[coll]
	if !ok {
		return schema{}, errors.Wrap(ErrUnknownCollection, coll)
	}
	return sch, nil
}

// decode validates body against p and returns the cleaned payload as a document.
func (svc *Service) decode(body []byte, p school.Payload) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(p); err != nil {
		return nil, core.NewValidationError(ErrInvalidJSON)
	}
	if err := school.Validate(svc.validate, p); err != nil {
		return nil, err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "encoding payload")
	}
	doc := make(Document)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding payload")
	}
	return doc, nil
}

func (svc *Service) checkUniqueness(ctx context.Context, coll string, sch schema, doc Document, excludedID string) error {
	if len(sch.unique) == 0 {
		return nil
	}
	docs, err := svc.repo.List(ctx, coll)
	if err != nil {
		return err
	}
	for field, uniqErr := range sch.unique {
		val, ok := doc[field]
		if !ok {
			continue
		}
		for _, other := range docs {
			if other.ID() != excludedID && other[field] == val {
				return core.NewValidationError(uniqErr, core.FieldError{Field: field, Error: uniqErr.Error()})
			}
		}
	}
	return nil
}

func (svc *Service) List(ctx context.Context, coll string) ([]Document, error) {
	if _, err := lookup(coll); err != nil {
		return nil, err
	}
	return svc.repo.List(ctx, coll)
}

func (svc *Service) Get(ctx context.Context, coll, id string) (Document, error) {
	if _, err := lookup(coll); err != nil {
		return nil, err
	}
	return svc.repo.Get(ctx, coll, id)
}

// Create validates body, assigns a fresh id and stores the document.
func (svc *Service) Create(ctx context.Context, coll string, body []byte) (Document, error) {
	return svc.insert(ctx, coll, body, "")
}

// Restore is Create keeping the "id" found in body, if any. It is used to load fixtures
// whose records reference each other.
func (svc *Service) Restore(ctx context.Context, coll string, body []byte) (Document, error) {
	var ref struct {
		ID interface{} `json:"id"`
	}
	if err := json.Unmarshal(body, &ref); err != nil {
		return nil, core.NewValidationError(ErrInvalidJSON)
	}
	var id string
	switch v := ref.ID.(type) {
	case string:
		id = v
	case float64: // json-server fixtures often use numeric ids
		id = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return svc.insert(ctx, coll, body, id)
}

func (svc *Service) insert(ctx context.Context, coll string, body []byte, id string) (Document, error) {
	sch, err := lookup(coll)
	if err != nil {
		return nil, err
	}
	doc, err := svc.decode(body, sch.create())
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if err := svc.checkUniqueness(ctx, coll, sch, doc, ""); err != nil {
		return nil, err
	}
	if id == "" {
		id = svc.newID()
	}
	doc["id"] = id
	if err := svc.repo.Insert(ctx, coll, doc); err != nil {
		return nil, errors.Wrapf(err, "inserting into %s", coll)
	}
	return doc, nil
}

// Patch merges the fields present in body into the stored document.
func (svc *Service) Patch(ctx context.Context, coll, id string, body []byte) (Document, error) {
	sch, err := lookup(coll)
	if err != nil {
		return nil, err
	}
	changes, err := svc.decode(body, sch.update())
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	doc, err := svc.repo.Get(ctx, coll, id)
	if err != nil {
		return nil, err
	}
	if err := svc.checkUniqueness(ctx, coll, sch, changes, id); err != nil {
		return nil, err
	}
	for k, v := range changes {
		doc[k] = v
	}
	doc["id"] = id
	if err := svc.repo.Replace(ctx, coll, id, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (svc *Service) Delete(ctx context.Context, coll, id string) error {
	if _, err := lookup(coll); err != nil {
		return err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.repo.Delete(ctx, coll, id)
}
