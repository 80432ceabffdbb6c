package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zeeshanfreelancer/memegenerator/middlewares"
	"github.com/zeeshanfreelancer/memegenerator/models"
	"github.com/zeeshanfreelancer/memegenerator/responses"
	"github.com/zeeshanfreelancer/memegenerator/services"
)

type TemplateController struct {
	templates *services.TemplateService
	logger    *slog.Logger
	debug     bool
}

func NewTemplateController(templates *services.TemplateService, debug bool) *TemplateController {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return &TemplateController{
		templates: templates,
		logger:    logger,
		debug:     debug,
	}
}

// ListTemplates serves GET /templates. Page and limit are clamped, never
// rejected; non-numeric values fall back to defaults.
func (tc *TemplateController) ListTemplates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := tc.templates.ListTemplates(ctx, services.ListParams{
		Page:     page,
		Limit:    limit,
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		tc.logger.Error("list templates failed", "error", err)
		return c.JSON(http.StatusInternalServerError, responses.TemplateResponse{
			Status:  http.StatusInternalServerError,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, tc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.TemplateListResponse{
		Status:         http.StatusOK,
		Message:        "success",
		Items:          result.Items,
		CurrentPage:    result.Pagination.CurrentPage,
		TotalPages:     result.Pagination.TotalPages,
		TotalTemplates: result.Total,
	})
}

// GetTemplate serves GET /templates/:id and counts the view.
func (tc *TemplateController) GetTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.TemplateResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": "malformed template id"},
		})
	}

	t, err := tc.templates.GetTemplate(ctx, id, middlewares.UserID(c))
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			tc.logger.Error("get template failed", "template", id.Hex(), "error", err)
		}
		return c.JSON(status, responses.TemplateResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, tc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.TemplateResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    &echo.Map{"data": t},
	})
}

// CreateTemplate serves POST /templates: an authenticated user upload,
// stored as pending.
func (tc *TemplateController) CreateTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var input services.CreateTemplateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, responses.TemplateResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": err.Error()},
		})
	}
	if validationErr := validate.Struct(&input); validationErr != nil {
		return c.JSON(http.StatusBadRequest, responses.TemplateResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": validationErr.Error()},
		})
	}

	actor := middlewares.UserID(c)
	t, err := tc.templates.CreateTemplate(ctx, actor, input)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			tc.logger.Error("create template failed", "actor", actor.Hex(), "error", err)
		}
		return c.JSON(status, responses.TemplateResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, tc.debug)},
		})
	}

	return c.JSON(http.StatusCreated, responses.TemplateResponse{
		Status:  http.StatusCreated,
		Message: "success",
		Data:    &echo.Map{"data": t},
	})
}

// ArchiveTemplate serves DELETE /templates/:id. Archival only, no hard
// delete.
func (tc *TemplateController) ArchiveTemplate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.TemplateResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": "malformed template id"},
		})
	}

	actor := middlewares.UserID(c)
	if err := tc.templates.ArchiveTemplate(ctx, actor, id); err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			tc.logger.Error("archive template failed", "actor", actor.Hex(), "template", id.Hex(), "error", err)
		}
		return c.JSON(status, responses.TemplateResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, tc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.TemplateResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    &echo.Map{"data": models.TemplateStatusArchived},
	})
}

// ToggleFavorite serves POST /templates/:id/favorite.
func (tc *TemplateController) ToggleFavorite(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.TemplateResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": "malformed template id"},
		})
	}

	actor := middlewares.UserID(c)
	favorited, popularity, err := tc.templates.ToggleFavorite(ctx, actor, id)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			tc.logger.Error("toggle favorite failed", "actor", actor.Hex(), "template", id.Hex(), "error", err)
		}
		return c.JSON(status, responses.TemplateResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, tc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.TemplateResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    &echo.Map{"favorited": favorited, "popularity": popularity},
	})
}
