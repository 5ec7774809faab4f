package handlers

import (
	"net/http"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateEpic создает новый эпик
func (h *Handler) CreateEpic(c echo.Context) error {
	h.logger.Info("CreateEpic: начало обработки запроса")

	var req models.CreateIssueRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CreateEpic", err)
	}

	epic, err := h.service.CreateEpic(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("CreateEpic: ошибка создания эпика", zap.Error(err))
		return h.respondError(c, "CreateEpic", err)
	}

	h.logger.Info("CreateEpic: эпик создан", zap.String("epic_id", epic.ID.String()), zap.String("key", epic.Key))
	return c.JSON(http.StatusCreated, map[string]interface{}{"epic": epic})
}

// GetEpic получает эпик по идентификатору
func (h *Handler) GetEpic(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	epic, err := h.service.GetEpic(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("GetEpic: ошибка получения эпика", zap.Error(err), zap.String("epic_id", id.String()))
		return h.respondError(c, "GetEpic", err)
	}

	return c.JSON(http.StatusOK, epic)
}

// UpdateEpic частично обновляет эпик
func (h *Handler) UpdateEpic(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateIssueRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "UpdateEpic", err)
	}

	epic, err := h.service.UpdateEpic(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Warn("UpdateEpic: ошибка обновления эпика", zap.Error(err), zap.String("epic_id", id.String()))
		return h.respondError(c, "UpdateEpic", err)
	}

	h.logger.Info("UpdateEpic: эпик обновлен", zap.String("epic_id", id.String()))
	return c.JSON(http.StatusOK, epic)
}

// CloseEpic закрывает эпик с выбранной политикой для дочерних задач
func (h *Handler) CloseEpic(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.CloseEpicRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CloseEpic", err)
	}

	h.logger.Info("CloseEpic: закрытие эпика", zap.String("epic_id", id.String()), zap.String("policy", string(req.Policy)))

	epic, err := h.service.CloseEpic(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Warn("CloseEpic: эпик не закрыт", zap.Error(err), zap.String("epic_id", id.String()))
		return h.respondError(c, "CloseEpic", err)
	}

	h.logger.Info("CloseEpic: эпик закрыт", zap.String("epic_id", id.String()))
	return c.JSON(http.StatusOK, epic)
}

// CreateFeature создает фичу, опционально привязанную к эпику
func (h *Handler) CreateFeature(c echo.Context) error {
	h.logger.Info("CreateFeature: начало обработки запроса")

	var req models.CreateFeatureRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CreateFeature", err)
	}

	feature, err := h.service.CreateFeature(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("CreateFeature: ошибка создания фичи", zap.Error(err), zap.String("name", req.Name))
		return h.respondError(c, "CreateFeature", err)
	}

	h.logger.Info("CreateFeature: фича создана", zap.String("feature_id", feature.ID.String()))
	return c.JSON(http.StatusCreated, map[string]interface{}{"feature": feature})
}

// GetFeature получает фичу по идентификатору
func (h *Handler) GetFeature(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	feature, err := h.service.GetFeature(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("GetFeature: ошибка получения фичи", zap.Error(err), zap.String("feature_id", id.String()))
		return h.respondError(c, "GetFeature", err)
	}

	return c.JSON(http.StatusOK, feature)
}

// UpdateFeature частично обновляет фичу
func (h *Handler) UpdateFeature(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateFeatureRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "UpdateFeature", err)
	}

	feature, err := h.service.UpdateFeature(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Warn("UpdateFeature: ошибка обновления фичи", zap.Error(err), zap.String("feature_id", id.String()))
		return h.respondError(c, "UpdateFeature", err)
	}

	h.logger.Info("UpdateFeature: фича обновлена", zap.String("feature_id", id.String()))
	return c.JSON(http.StatusOK, feature)
}
