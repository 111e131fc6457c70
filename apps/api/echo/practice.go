package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bestroofingnow/RoofingTrainer/core/practice"
)

type practiceApi struct {
	svc *practice.Service
}

func registerPracticeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *practice.Service) {
	api := practiceApi{svc: svc}

	pg := g.Group("/practice", jwt)
	pg.POST("/recordings", api.saveRecording)
	pg.GET("/recordings", api.queryRecordings)
}

// Handlers

func (api *practiceApi) saveRecording(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data practice.NewRecording
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecording")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.SaveRecording(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *practiceApi) queryRecordings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	recordings, err := api.svc.Recordings(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recordings)
}
