package service

import (
	"context"
	"fmt"

	"github.com/akulinav/sprint-tracker/internal/hierarchy"
	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
)

// CreateIssue создает задачу любого типа, пропуская размещение через
// валидатор иерархии. Все записи в хранилище происходят только после
// принятого размещения — при отказе долговременных изменений нет.
func (s *Service) CreateIssue(ctx context.Context, req models.CreateIssueRequest) (*models.Issue, error) {
	if req.ProjectID == uuid.Nil || req.Title == "" || req.Type == "" {
		return nil, fmt.Errorf("%w: project_id, type and title are required", models.ErrInvalidInput)
	}

	in := hierarchy.Input{
		Type:       req.Type,
		SprintID:   req.SprintID,
		AssigneeID: req.AssigneeID,
		Priority:   req.Priority,
	}

	if req.ParentID != nil {
		parent, err := s.repo.GetIssue(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent issue: %w", err)
		}
		in.Parent = parent
	}
	if req.EpicID != nil {
		epic, err := s.repo.GetIssue(ctx, *req.EpicID)
		if err != nil {
			return nil, fmt.Errorf("epic: %w", err)
		}
		in.Epic = epic
	}
	if req.SprintID != nil {
		if _, err := s.repo.GetSprint(ctx, *req.SprintID); err != nil {
			return nil, fmt.Errorf("sprint: %w", err)
		}
	}

	placement, err := hierarchy.Resolve(in)
	if err != nil {
		return nil, err
	}

	issue := &models.Issue{
		ProjectID:      req.ProjectID,
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       placement.Priority,
		AssigneeID:     placement.AssigneeID,
		ReporterID:     req.ReporterID,
		SprintID:       placement.SprintID,
		ParentID:       req.ParentID,
		EpicID:         placement.EpicID,
		FeatureID:      req.FeatureID,
		Points:         req.Points,
		EstimatedHours: req.EstimatedHours,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Tags:           req.Tags,
	}
	if issue.Status == "" {
		if issue.Type == models.IssueTypeEpic {
			issue.Status = models.EpicStatusOpen
		} else {
			issue.Status = models.StatusTodo
		}
	}
	if issue.Priority == "" {
		issue.Priority = models.PriorityMedium
	}

	if err := s.repo.CreateIssue(ctx, issue); err != nil {
		return nil, err
	}

	if err := s.recalcSprint(ctx, issue.SprintID); err != nil {
		return nil, err
	}

	if issue.AssigneeID != nil {
		s.notify("issue assigned", s.notifier.IssueAssigned(ctx, issue))
	}
	return issue, nil
}

// CreateStory — типизированный ярлык для создания истории
func (s *Service) CreateStory(ctx context.Context, req models.CreateIssueRequest) (*models.Issue, error) {
	req.Type = models.IssueTypeStory
	return s.CreateIssue(ctx, req)
}

// CreateSubtask — типизированный ярлык для создания подзадачи
func (s *Service) CreateSubtask(ctx context.Context, req models.CreateIssueRequest) (*models.Issue, error) {
	req.Type = models.IssueTypeSubtask
	return s.CreateIssue(ctx, req)
}

// GetIssue получает задачу по ID
func (s *Service) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	return s.repo.GetIssue(ctx, id)
}

// UpdateIssue применяет частичное обновление. Изменение статуса или
// оценки задачи, стоящей в спринте, инвалидирует агрегаты спринта.
func (s *Service) UpdateIssue(ctx context.Context, id uuid.UUID, req models.UpdateIssueRequest) (*models.Issue, error) {
	issue, err := s.repo.GetIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := issue.Status
	oldAssignee := issue.AssigneeID
	progressChanged := false

	if req.Title != nil {
		issue.Title = *req.Title
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.Status != nil && *req.Status != issue.Status {
		issue.Status = *req.Status
		progressChanged = true
	}
	if req.Priority != nil {
		issue.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		issue.AssigneeID = req.AssigneeID
	}
	if req.FeatureID != nil {
		issue.FeatureID = req.FeatureID
	}
	if req.Points != nil && *req.Points != issue.Points {
		issue.Points = *req.Points
		progressChanged = true
	}
	if req.EstimatedHours != nil {
		issue.EstimatedHours = req.EstimatedHours
	}
	if req.ActualHours != nil {
		issue.ActualHours = req.ActualHours
	}
	if req.OrderIndex != nil {
		issue.OrderIndex = *req.OrderIndex
	}

	if err := s.repo.UpdateIssue(ctx, issue); err != nil {
		return nil, err
	}

	if progressChanged {
		if err := s.recalcSprint(ctx, issue.SprintID); err != nil {
			return nil, err
		}
	}

	if issue.Status != oldStatus {
		s.notify("issue status changed", s.notifier.IssueStatusChanged(ctx, issue, oldStatus))
	}
	if issue.AssigneeID != nil && (oldAssignee == nil || *oldAssignee != *issue.AssigneeID) {
		s.notify("issue assigned", s.notifier.IssueAssigned(ctx, issue))
	}
	return issue, nil
}

// DeleteIssue удаляет задачу и пересчитывает агрегаты ее спринта
func (s *Service) DeleteIssue(ctx context.Context, id uuid.UUID) error {
	issue, err := s.repo.GetIssue(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteIssue(ctx, id); err != nil {
		return err
	}
	return s.recalcSprint(ctx, issue.SprintID)
}

// ProjectHierarchy строит полное дерево эпик → история → подзадача
// плюс истории вне эпиков
func (s *Service) ProjectHierarchy(ctx context.Context, projectID uuid.UUID) (*models.ProjectHierarchy, error) {
	issues, err := s.repo.ListProjectIssues(ctx, projectID)
	if err != nil {
		return nil, err
	}

	subtasksByParent := make(map[uuid.UUID][]models.Issue)
	knownParents := make(map[uuid.UUID]bool)
	for _, is := range issues {
		if is.Type != models.IssueTypeSubtask {
			knownParents[is.ID] = true
		}
	}
	for _, is := range issues {
		if is.Type == models.IssueTypeSubtask && is.ParentID != nil && knownParents[*is.ParentID] {
			subtasksByParent[*is.ParentID] = append(subtasksByParent[*is.ParentID], is)
		}
	}

	storyNode := func(is models.Issue) models.HierarchyNode {
		node := models.HierarchyNode{Issue: is}
		for _, sub := range subtasksByParent[is.ID] {
			node.Children = append(node.Children, models.HierarchyNode{Issue: sub})
		}
		return node
	}

	tree := &models.ProjectHierarchy{
		Epics:      []models.HierarchyNode{},
		Unassigned: []models.HierarchyNode{},
	}

	storiesByEpic := make(map[uuid.UUID][]models.Issue)
	for _, is := range issues {
		switch {
		case is.IsEpic():
			// эпики добавим ниже, сохранив порядок
		case is.Type == models.IssueTypeSubtask:
			if is.ParentID == nil || !knownParents[*is.ParentID] {
				tree.Unassigned = append(tree.Unassigned, models.HierarchyNode{Issue: is})
			}
		case is.EpicID != nil:
			storiesByEpic[*is.EpicID] = append(storiesByEpic[*is.EpicID], is)
		default:
			tree.Unassigned = append(tree.Unassigned, storyNode(is))
		}
	}

	for _, is := range issues {
		if !is.IsEpic() {
			continue
		}
		epicNode := models.HierarchyNode{Issue: is}
		for _, story := range storiesByEpic[is.ID] {
			epicNode.Children = append(epicNode.Children, storyNode(story))
		}
		tree.Epics = append(tree.Epics, epicNode)
	}

	return tree, nil
}
