package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bestroofingnow/RoofingTrainer/core/training"
)

type trainingApi struct {
	svc *training.Service
}

func registerTrainingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *training.Service) {
	api := trainingApi{svc: svc}

	tg := g.Group("/training", jwt)

	// curriculum catalog
	tg.GET("/modules", api.queryModules)
	tg.GET("/modules/:id", api.retrieveModule)
	tg.GET("/modules/:id/quizzes", api.queryModuleQuizzes)
	tg.PUT("/modules/:id/progress", api.upsertProgress)

	// quizzes
	tg.GET("/quizzes/:id", api.retrieveQuiz)
	tg.POST("/quizzes/:id/attempts", api.submitAttempt)
	tg.GET("/quizzes/:id/attempts", api.queryAttempts)

	// progress
	tg.GET("/progress", api.queryProgress)
	tg.GET("/progress/summary", api.progressSummary)

	// script library
	tg.GET("/scripts", api.queryScripts)
	tg.POST("/scripts", api.createScript, instructorMiddleware())
}

func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

// Handlers

func (api *trainingApi) queryModules(ctx echo.Context) error {
	modules, err := api.svc.Modules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	return ctx.JSON(http.StatusOK, modules)
}

func (api *trainingApi) retrieveModule(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	mod, err := api.svc.GetModule(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mod)
}

func (api *trainingApi) queryModuleQuizzes(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	quizzes, err := api.svc.QuizzesByModule(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quizzes)
}

// QuizDetail bundles a quiz with its ordered questions.
type QuizDetail struct {
	training.Quiz
	Questions []training.Question `json:"questions"`
}

func (api *trainingApi) retrieveQuiz(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	qz, err := api.svc.GetQuiz(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	questions, err := api.svc.Questions(ctx.Request().Context(), qz.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, QuizDetail{Quiz: qz, Questions: questions})
}

func (api *trainingApi) submitAttempt(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data training.AttemptSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttemptSubmission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.SubmitAttempt(ctx.Request().Context(), claims.Subject, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *trainingApi) queryAttempts(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	attempts, err := api.svc.Attempts(ctx.Request().Context(), claims.Subject, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, attempts)
}

func (api *trainingApi) upsertProgress(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data training.ProgressUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressUpdate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prog, err := api.svc.UpsertProgress(ctx.Request().Context(), claims.Subject, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *trainingApi) queryProgress(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	rows, err := api.svc.ProgressByUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *trainingApi) progressSummary(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	summary, err := api.svc.ProgressSummary(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *trainingApi) queryScripts(ctx echo.Context) error {
	scripts, err := api.svc.Scripts(ctx.Request().Context(), ctx.QueryParam("category"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, scripts)
}

func (api *trainingApi) createScript(ctx echo.Context) error {
	var data training.NewScript
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScript")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	scr, err := api.svc.CreateScript(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, scr)
}
