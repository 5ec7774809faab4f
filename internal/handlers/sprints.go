package handlers

import (
	"net/http"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateSprint создает новый спринт в статусе PLANNED
func (h *Handler) CreateSprint(c echo.Context) error {
	h.logger.Info("CreateSprint: начало обработки запроса")

	var req models.CreateSprintRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CreateSprint", err)
	}

	sprint, err := h.service.CreateSprint(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("CreateSprint: ошибка создания спринта", zap.Error(err), zap.String("name", req.Name))
		return h.respondError(c, "CreateSprint", err)
	}

	h.logger.Info("CreateSprint: спринт успешно создан", zap.String("sprint_id", sprint.ID.String()))
	return c.JSON(http.StatusCreated, map[string]interface{}{"sprint": sprint})
}

// GetSprint получает спринт по идентификатору
func (h *Handler) GetSprint(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	sprint, err := h.service.GetSprint(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("GetSprint: ошибка получения спринта", zap.Error(err), zap.String("sprint_id", id.String()))
		return h.respondError(c, "GetSprint", err)
	}

	return c.JSON(http.StatusOK, sprint)
}

// UpdateSprint частично обновляет атрибуты спринта
func (h *Handler) UpdateSprint(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateSprintRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "UpdateSprint", err)
	}

	sprint, err := h.service.UpdateSprint(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Warn("UpdateSprint: ошибка обновления спринта", zap.Error(err), zap.String("sprint_id", id.String()))
		return h.respondError(c, "UpdateSprint", err)
	}

	h.logger.Info("UpdateSprint: спринт успешно обновлен", zap.String("sprint_id", id.String()))
	return c.JSON(http.StatusOK, sprint)
}

// DeleteSprint удаляет спринт, отвязывая его задачи
func (h *Handler) DeleteSprint(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteSprint(c.Request().Context(), id); err != nil {
		h.logger.Warn("DeleteSprint: ошибка удаления спринта", zap.Error(err), zap.String("sprint_id", id.String()))
		return h.respondError(c, "DeleteSprint", err)
	}

	h.logger.Info("DeleteSprint: спринт удален", zap.String("sprint_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

// StartSprint запускает спринт: PLANNED -> ACTIVE
func (h *Handler) StartSprint(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	h.logger.Info("StartSprint: запуск спринта", zap.String("sprint_id", id.String()))

	sprint, err := h.service.StartSprint(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("StartSprint: спринт не запущен", zap.Error(err), zap.String("sprint_id", id.String()))
		return h.respondError(c, "StartSprint", err)
	}

	h.logger.Info("StartSprint: спринт запущен", zap.String("sprint_id", id.String()))
	return c.JSON(http.StatusOK, sprint)
}

// CompleteSprint завершает спринт: ACTIVE -> COMPLETED
func (h *Handler) CompleteSprint(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CompleteSprintRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CompleteSprint", err)
	}

	h.logger.Info("CompleteSprint: завершение спринта", zap.String("sprint_id", id.String()))

	sprint, err := h.service.CompleteSprint(c.Request().Context(), id, req.MoveIssuesToSprintID)
	if err != nil {
		h.logger.Warn("CompleteSprint: спринт не завершен", zap.Error(err), zap.String("sprint_id", id.String()))
		return h.respondError(c, "CompleteSprint", err)
	}

	h.logger.Info("CompleteSprint: спринт завершен", zap.String("sprint_id", id.String()))
	return c.JSON(http.StatusOK, sprint)
}

// SprintStatistics возвращает статистику спринта с burndown-графиком
func (h *Handler) SprintStatistics(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.service.SprintStatistics(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("SprintStatistics: ошибка расчета статистики", zap.Error(err), zap.String("sprint_id", id.String()))
		return h.respondError(c, "SprintStatistics", err)
	}

	return c.JSON(http.StatusOK, stats)
}
