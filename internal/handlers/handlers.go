package handlers

import (
	"errors"
	"net/http"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/akulinav/sprint-tracker/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// New создает новый экземпляр обработчика
func New(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
	}
}

// respondError транслирует доменную ошибку в HTTP-ответ с кодом ошибки API
func (h *Handler) respondError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.JSON(http.StatusNotFound, models.NewErrorResponse(models.ErrCodeNotFound, err.Error()))
	case errors.Is(err, models.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, models.NewErrorResponse(models.ErrCodeInvalidTransition, err.Error()))
	case errors.Is(err, models.ErrConflictingActiveSprint):
		return c.JSON(http.StatusConflict, models.NewErrorResponse(models.ErrCodeActiveSprint, err.Error()))
	case errors.Is(err, models.ErrInvalidHierarchy):
		return c.JSON(http.StatusUnprocessableEntity, models.NewErrorResponse(models.ErrCodeInvalidHierarchy, err.Error()))
	case errors.Is(err, models.ErrEpicNotSprintable):
		return c.JSON(http.StatusUnprocessableEntity, models.NewErrorResponse(models.ErrCodeEpicNotSprintable, err.Error()))
	case errors.Is(err, models.ErrMissingDateRange):
		return c.JSON(http.StatusUnprocessableEntity, models.NewErrorResponse(models.ErrCodeMissingDateRange, err.Error()))
	case errors.Is(err, models.ErrInvalidOperation):
		return c.JSON(http.StatusUnprocessableEntity, models.NewErrorResponse(models.ErrCodeInvalidOperation, err.Error()))
	case errors.Is(err, models.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrCodeInvalidInput, err.Error()))
	default:
		h.logger.Error(op+": внутренняя ошибка", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrCodeInternal, "internal error"))
	}
}

// bindError отвечает на некорректное тело запроса
func (h *Handler) bindError(c echo.Context, op string, err error) error {
	h.logger.Warn(op+": ошибка парсинга тела запроса", zap.Error(err))
	return c.JSON(http.StatusBadRequest, models.NewErrorResponse(models.ErrCodeInvalidInput, "invalid request body"))
}

// parseIDParam разбирает uuid из path-параметра
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return id, nil
}

// ActorMiddleware извлекает текущего пользователя запроса из заголовков.
// Проверка подлинности — внешний коллаборатор; ядру нужен только
// идентификатор, роль и организация.
func ActorMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := models.Actor{Role: c.Request().Header.Get("X-User-Role")}
		if id, err := uuid.Parse(c.Request().Header.Get("X-User-Id")); err == nil {
			actor.UserID = id
		}
		if id, err := uuid.Parse(c.Request().Header.Get("X-Org-Id")); err == nil {
			actor.OrgID = id
		}
		c.Set("actor", actor)
		return next(c)
	}
}

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Use(ActorMiddleware)

	// Sprints
	e.POST("/sprints", h.CreateSprint)
	e.GET("/sprints/:id", h.GetSprint)
	e.PUT("/sprints/:id", h.UpdateSprint)
	e.DELETE("/sprints/:id", h.DeleteSprint)
	e.POST("/sprints/:id/start", h.StartSprint)
	e.POST("/sprints/:id/complete", h.CompleteSprint)
	e.GET("/sprints/:id/statistics", h.SprintStatistics)

	// Issues
	e.POST("/issues", h.CreateIssue)
	e.POST("/issues/create-story", h.CreateStory)
	e.POST("/issues/create-subtask", h.CreateSubtask)
	e.POST("/issues/assign-sprint", h.AssignSprint)
	e.GET("/issues/:id", h.GetIssue)
	e.PUT("/issues/:id", h.UpdateIssue)
	e.DELETE("/issues/:id", h.DeleteIssue)
	e.PUT("/issues/:id/move-to-sprint", h.MoveToSprint)
	e.GET("/issues/project/:projectId/backlog", h.Backlog)
	e.GET("/issues/hierarchy/:projectId", h.Hierarchy)

	// Epics
	e.POST("/epics", h.CreateEpic)
	e.GET("/epics/:id", h.GetEpic)
	e.PUT("/epics/:id", h.UpdateEpic)
	e.POST("/epics/:id/close", h.CloseEpic)

	// Features
	e.POST("/features", h.CreateFeature)
	e.GET("/features/:id", h.GetFeature)
	e.PUT("/features/:id", h.UpdateFeature)
}
