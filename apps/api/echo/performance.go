package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bestroofingnow/RoofingTrainer/core"
	"github.com/bestroofingnow/RoofingTrainer/core/performance"
)

const dateLayout = "2006-01-02"

type performanceApi struct {
	svc *performance.Service
}

func registerPerformanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *performance.Service) {
	api := performanceApi{svc: svc}

	pg := g.Group("/performance", jwt)
	pg.POST("/snapshots", api.saveSnapshot)
	pg.GET("/snapshots", api.querySnapshots)
	pg.GET("/dashboard", api.dashboard)
}

// Handlers

func (api *performanceApi) saveSnapshot(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data performance.NewSnapshot
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSnapshot")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	snap, err := api.svc.SaveSnapshot(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *performanceApi) querySnapshots(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -core.Conf.KPI.WindowSize+1)
	if v := ctx.QueryParam("from"); v != "" {
		if from, err = time.Parse(dateLayout, v); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "from", Error: "invalid date, expected YYYY-MM-DD"})
		}
	}
	if v := ctx.QueryParam("to"); v != "" {
		if to, err = time.Parse(dateLayout, v); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "invalid date, expected YYYY-MM-DD"})
		}
	}

	snapshots, err := api.svc.Snapshots(ctx.Request().Context(), claims.Subject, from, to)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snapshots)
}

func (api *performanceApi) dashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	dash, err := api.svc.Dashboard(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dash)
}
