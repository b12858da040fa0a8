package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/scuola/core/records"
)

// reserved query params, any other param filters on the field of the same name.
var sortParam = "_sort"

// bindQuery reads json-server style list params: `?_sort=name,-numero_posti&aula_id=1`.
func bindQuery(ctx echo.Context) records.Query {
	var q records.Query
	data := ctx.QueryParams()
	if len(data) == 0 {
		return q
	}

	for param, val := range data {
		if strings.HasPrefix(param, "_") || len(val) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string]string)
		}
		q.Filters[param] = val[0]
	}

	val, ok := data[sortParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return q
	}
	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field != "" {
			q.Orderings = append(q.Orderings, records.Ordering{Field: field, Ascending: !descending})
		}
	}
	return q
}
