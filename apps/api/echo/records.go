package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/scuola/core/records"
	"github.com/trezcool/scuola/core/school"
)

type recordApi struct {
	service *records.Service
}

// registerRecordAPI exposes every school collection the way json-server does.
func registerRecordAPI(app *echo.Echo, svc *records.Service) {
	api := recordApi{service: svc}

	for _, coll := range school.Paths {
		g := app.Group("/" + coll)
		g.GET("", api.recordList(coll))
		g.POST("", api.recordCreate(coll))
		g.GET("/:id", api.recordRetrieve(coll))
		g.PATCH("/:id", api.recordUpdate(coll))
		g.DELETE("/:id", api.recordDestroy(coll))
	}
}

func readBody(ctx echo.Context) ([]byte, error) {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}
	return body, nil
}

// Handlers

func (api *recordApi) recordList(coll string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		docs, err := api.service.Find(ctx.Request().Context(), coll, bindQuery(ctx))
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, docs)
	}
}

func (api *recordApi) recordRetrieve(coll string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		doc, err := api.service.Get(ctx.Request().Context(), coll, ctx.Param("id"))
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, doc)
	}
}

func (api *recordApi) recordCreate(coll string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		body, err := readBody(ctx)
		if err != nil {
			return err
		}
		doc, err := api.service.Create(ctx.Request().Context(), coll, body)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusCreated, doc)
	}
}

func (api *recordApi) recordUpdate(coll string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		body, err := readBody(ctx)
		if err != nil {
			return err
		}
		doc, err := api.service.Patch(ctx.Request().Context(), coll, ctx.Param("id"), body)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, doc)
	}
}

func (api *recordApi) recordDestroy(coll string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := api.service.Delete(ctx.Request().Context(), coll, ctx.Param("id")); err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, echo.Map{})
	}
}
