package handlers

import (
	"net/http"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateIssue создает задачу любого типа с учетом правил иерархии
func (h *Handler) CreateIssue(c echo.Context) error {
	h.logger.Info("CreateIssue: начало обработки запроса")

	var req models.CreateIssueRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CreateIssue", err)
	}

	issue, err := h.service.CreateIssue(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("CreateIssue: ошибка создания задачи", zap.Error(err), zap.String("type", string(req.Type)))
		return h.respondError(c, "CreateIssue", err)
	}

	h.logger.Info("CreateIssue: задача создана", zap.String("issue_id", issue.ID.String()), zap.String("key", issue.Key))
	return c.JSON(http.StatusCreated, map[string]interface{}{"issue": issue})
}

// CreateStory создает историю, при необходимости привязанную к эпику
func (h *Handler) CreateStory(c echo.Context) error {
	h.logger.Info("CreateStory: начало обработки запроса")

	var req models.CreateIssueRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CreateStory", err)
	}

	issue, err := h.service.CreateStory(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("CreateStory: ошибка создания истории", zap.Error(err))
		return h.respondError(c, "CreateStory", err)
	}

	h.logger.Info("CreateStory: история создана", zap.String("issue_id", issue.ID.String()), zap.String("key", issue.Key))
	return c.JSON(http.StatusCreated, map[string]interface{}{"issue": issue})
}

// CreateSubtask создает подзадачу под существующей родительской задачей
func (h *Handler) CreateSubtask(c echo.Context) error {
	h.logger.Info("CreateSubtask: начало обработки запроса")

	var req models.CreateIssueRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "CreateSubtask", err)
	}

	issue, err := h.service.CreateSubtask(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("CreateSubtask: ошибка создания подзадачи", zap.Error(err))
		return h.respondError(c, "CreateSubtask", err)
	}

	h.logger.Info("CreateSubtask: подзадача создана", zap.String("issue_id", issue.ID.String()), zap.String("key", issue.Key))
	return c.JSON(http.StatusCreated, map[string]interface{}{"issue": issue})
}

// GetIssue получает задачу по идентификатору
func (h *Handler) GetIssue(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	issue, err := h.service.GetIssue(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("GetIssue: ошибка получения задачи", zap.Error(err), zap.String("issue_id", id.String()))
		return h.respondError(c, "GetIssue", err)
	}

	return c.JSON(http.StatusOK, issue)
}

// UpdateIssue частично обновляет задачу и пересчитывает агрегаты спринта
func (h *Handler) UpdateIssue(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateIssueRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "UpdateIssue", err)
	}

	issue, err := h.service.UpdateIssue(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Warn("UpdateIssue: ошибка обновления задачи", zap.Error(err), zap.String("issue_id", id.String()))
		return h.respondError(c, "UpdateIssue", err)
	}

	h.logger.Info("UpdateIssue: задача обновлена", zap.String("issue_id", id.String()))
	return c.JSON(http.StatusOK, issue)
}

// DeleteIssue удаляет задачу
func (h *Handler) DeleteIssue(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteIssue(c.Request().Context(), id); err != nil {
		h.logger.Warn("DeleteIssue: ошибка удаления задачи", zap.Error(err), zap.String("issue_id", id.String()))
		return h.respondError(c, "DeleteIssue", err)
	}

	h.logger.Info("DeleteIssue: задача удалена", zap.String("issue_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

// AssignSprint массово переназначает набор задач в спринт или в бэклог
func (h *Handler) AssignSprint(c echo.Context) error {
	h.logger.Info("AssignSprint: начало обработки запроса")

	var req models.AssignSprintRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "AssignSprint", err)
	}

	if err := h.service.AssignToSprint(c.Request().Context(), req); err != nil {
		h.logger.Warn("AssignSprint: ошибка назначения задач", zap.Error(err), zap.Int("issues_count", len(req.IssueIDs)))
		return h.respondError(c, "AssignSprint", err)
	}

	h.logger.Info("AssignSprint: задачи переназначены", zap.Int("issues_count", len(req.IssueIDs)))
	return c.NoContent(http.StatusNoContent)
}

// MoveToSprint переносит задачу вместе с ее подзадачами
func (h *Handler) MoveToSprint(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.MoveToSprintRequest
	if err := c.Bind(&req); err != nil {
		return h.bindError(c, "MoveToSprint", err)
	}

	if err := h.service.MoveIssueAndDescendants(c.Request().Context(), id, req.SprintID); err != nil {
		h.logger.Warn("MoveToSprint: ошибка переноса задачи", zap.Error(err), zap.String("issue_id", id.String()))
		return h.respondError(c, "MoveToSprint", err)
	}

	h.logger.Info("MoveToSprint: задача перенесена", zap.String("issue_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

// Backlog возвращает бэклог проекта с фильтрами и пагинацией
func (h *Handler) Backlog(c echo.Context) error {
	projectID, err := parseIDParam(c, "projectId")
	if err != nil {
		return err
	}

	var filter models.BacklogFilter
	if err := c.Bind(&filter); err != nil {
		return h.bindError(c, "Backlog", err)
	}

	issues, err := h.service.ListBacklog(c.Request().Context(), projectID, filter)
	if err != nil {
		h.logger.Warn("Backlog: ошибка получения бэклога", zap.Error(err), zap.String("project_id", projectID.String()))
		return h.respondError(c, "Backlog", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"issues": issues})
}

// Hierarchy возвращает дерево эпик -> история -> подзадача по проекту
func (h *Handler) Hierarchy(c echo.Context) error {
	projectID, err := parseIDParam(c, "projectId")
	if err != nil {
		return err
	}

	tree, err := h.service.ProjectHierarchy(c.Request().Context(), projectID)
	if err != nil {
		h.logger.Warn("Hierarchy: ошибка построения иерархии", zap.Error(err), zap.String("project_id", projectID.String()))
		return h.respondError(c, "Hierarchy", err)
	}

	return c.JSON(http.StatusOK, tree)
}
