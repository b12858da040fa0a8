package records

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Ordering sorts documents on one field.
type Ordering struct {
	Field     string
	Ascending bool
}

// Query narrows a list: every filter must match exactly, orderings apply in sequence.
type Query struct {
	Filters   map[string]string
	Orderings []Ordering
}

// Find lists the documents of coll matching q.
func (svc *Service) Find(ctx context.Context, coll string, q Query) ([]Document, error) {
	docs, err := svc.List(ctx, coll)
	if err != nil {
		return nil, err
	}

	found := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if q.matches(doc) {
			found = append(found, doc)
		}
	}
	if len(q.Orderings) > 0 {
		sort.SliceStable(found, func(i, j int) bool {
			for _, ord := range q.Orderings {
				c := compare(found[i][ord.Field], found[j][ord.Field])
				if c == 0 {
					continue
				}
				return (c < 0) == ord.Ascending
			}
			return false
		})
	}
	return found, nil
}

func (q Query) matches(doc Document) bool {
	for field, want := range q.Filters {
		val, ok := doc[field]
		if !ok || fmt.Sprint(val) != want {
			return false
		}
	}
	return true
}

// compare orders numbers numerically and anything else as text. Missing values come first.
func compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
