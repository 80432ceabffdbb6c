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
	"github.com/zeeshanfreelancer/memegenerator/responses"
	"github.com/zeeshanfreelancer/memegenerator/services"
)

type MemeController struct {
	memes  *services.MemeService
	logger *slog.Logger
	debug  bool
}

func NewMemeController(memes *services.MemeService, debug bool) *MemeController {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return &MemeController{
		memes:  memes,
		logger: logger,
		debug:  debug,
	}
}

// CreateMeme serves POST /memes.
func (mc *MemeController) CreateMeme(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	var input services.CreateMemeInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, responses.MemeResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": err.Error()},
		})
	}
	if validationErr := validate.Struct(&input); validationErr != nil {
		return c.JSON(http.StatusBadRequest, responses.MemeResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": validationErr.Error()},
		})
	}

	actor := middlewares.UserID(c)
	m, err := mc.memes.CreateMeme(ctx, actor, input)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			mc.logger.Error("create meme failed", "actor", actor.Hex(), "error", err)
		}
		return c.JSON(status, responses.MemeResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, mc.debug)},
		})
	}

	return c.JSON(http.StatusCreated, responses.MemeResponse{
		Status:  http.StatusCreated,
		Message: "success",
		Data:    &echo.Map{"data": m},
	})
}

// ListMemes serves GET /memes, newest first.
func (mc *MemeController) ListMemes(c echo.Context) error {
	return mc.list(c, primitive.NilObjectID)
}

// ListMyMemes serves GET /memes/mine for the acting user.
func (mc *MemeController) ListMyMemes(c echo.Context) error {
	return mc.list(c, middlewares.UserID(c))
}

func (mc *MemeController) list(c echo.Context, createdBy primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := mc.memes.ListMemes(ctx, createdBy, page, limit)
	if err != nil {
		mc.logger.Error("list memes failed", "error", err)
		return c.JSON(http.StatusInternalServerError, responses.MemeResponse{
			Status:  http.StatusInternalServerError,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, mc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.MemeListResponse{
		Status:      http.StatusOK,
		Message:     "success",
		Items:       result.Items,
		CurrentPage: result.Pagination.CurrentPage,
		TotalPages:  result.Pagination.TotalPages,
		TotalMemes:  result.Total,
	})
}

// GetMeme serves GET /memes/:id.
func (mc *MemeController) GetMeme(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.MemeResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": "malformed meme id"},
		})
	}

	m, err := mc.memes.GetMeme(ctx, id)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			mc.logger.Error("get meme failed", "meme", id.Hex(), "error", err)
		}
		return c.JSON(status, responses.MemeResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, mc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.MemeResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    &echo.Map{"data": m},
	})
}

// ToggleLike serves POST /memes/:id/like: like when absent, unlike when
// present.
func (mc *MemeController) ToggleLike(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.MemeResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": "malformed meme id"},
		})
	}

	actor := middlewares.UserID(c)
	liked, likesCount, err := mc.memes.ToggleLike(ctx, actor, id)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			mc.logger.Error("toggle like failed", "actor", actor.Hex(), "meme", id.Hex(), "error", err)
		}
		return c.JSON(status, responses.MemeResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, mc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.MemeResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    &echo.Map{"liked": liked, "likesCount": likesCount},
	})
}

// DeleteMeme serves DELETE /memes/:id.
func (mc *MemeController) DeleteMeme(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.MemeResponse{
			Status:  http.StatusBadRequest,
			Message: "error",
			Data:    &echo.Map{"data": "malformed meme id"},
		})
	}

	actor := middlewares.UserID(c)
	if err := mc.memes.DeleteMeme(ctx, actor, id); err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			mc.logger.Error("delete meme failed", "actor", actor.Hex(), "meme", id.Hex(), "error", err)
		}
		return c.JSON(status, responses.MemeResponse{
			Status:  status,
			Message: "error",
			Data:    &echo.Map{"data": errorDetail(err, mc.debug)},
		})
	}

	return c.JSON(http.StatusOK, responses.MemeResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    &echo.Map{"data": "deleted"},
	})
}
