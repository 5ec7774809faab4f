// Package hierarchy содержит чистые правила размещения задач в иерархии
// эпик → история → подзадача. Никаких обращений к хранилищу: все записи,
// на которые ссылается кандидат, загружает вызывающая сторона.
package hierarchy

import (
	"fmt"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
)

// Input — кандидат на размещение. Parent и Epic — уже загруженные записи
// (nil, если соответствующая ссылка не передана).
type Input struct {
	Type       models.IssueType
	Parent     *models.Issue
	Epic       *models.Issue
	SprintID   *uuid.UUID
	AssigneeID *uuid.UUID
	Priority   models.Priority
}

// Placement — принятое размещение: итоговые ссылки и унаследованные
// от родителя дефолты. Побочных эффектов нет, записи в БД делает вызывающий.
type Placement struct {
	EpicID     *uuid.UUID
	SprintID   *uuid.UUID
	AssigneeID *uuid.UUID
	Priority   models.Priority
}

// Resolve применяет таблицу решений по типу задачи и либо принимает
// размещение, либо возвращает конкретное нарушение.
func Resolve(in Input) (Placement, error) {
	switch in.Type {
	case models.IssueTypeEpic:
		return resolveEpic(in)
	case models.IssueTypeStory, models.IssueTypeTask, models.IssueTypeBug:
		return resolveStory(in)
	case models.IssueTypeSubtask:
		return resolveSubtask(in)
	default:
		return Placement{}, fmt.Errorf("%w: unknown issue type %q", models.ErrInvalidInput, in.Type)
	}
}

// resolveEpic: эпик живет только на верхнем уровне и никогда не попадает в спринт
func resolveEpic(in Input) (Placement, error) {
	if in.Parent != nil || in.Epic != nil {
		return Placement{}, fmt.Errorf("%w: epic cannot have a parent or an epic reference", models.ErrInvalidHierarchy)
	}
	if in.SprintID != nil {
		return Placement{}, models.ErrEpicNotSprintable
	}
	return Placement{
		AssigneeID: in.AssigneeID,
		Priority:   in.Priority,
	}, nil
}

// resolveStory: STORY/TASK/BUG. Родителем может быть только эпик; эпик
// родителя перекрывает явно переданный epic_id. История может сидеть
// под эпиком и без родительской связи.
func resolveStory(in Input) (Placement, error) {
	p := Placement{
		SprintID:   in.SprintID,
		AssigneeID: in.AssigneeID,
		Priority:   in.Priority,
	}

	if in.Parent != nil {
		if !in.Parent.IsEpic() {
			return Placement{}, fmt.Errorf("%w: parent of a %s must be an epic, got %s",
				models.ErrInvalidHierarchy, in.Type, in.Parent.Type)
		}
		epicID := in.Parent.ID
		p.EpicID = &epicID
		return p, nil
	}

	if in.Epic != nil {
		if !in.Epic.IsEpic() {
			return Placement{}, fmt.Errorf("%w: epic reference points to a %s",
				models.ErrInvalidHierarchy, in.Epic.Type)
		}
		epicID := in.Epic.ID
		p.EpicID = &epicID
	}
	return p, nil
}

// resolveSubtask: родитель обязателен и должен быть STORY/TASK/BUG.
// Эпик и спринт наследуются от родителя; исполнитель и приоритет
// наследуются, только если вызывающий их не задал.
func resolveSubtask(in Input) (Placement, error) {
	if in.Parent == nil {
		return Placement{}, fmt.Errorf("%w: subtask requires a parent issue", models.ErrInvalidHierarchy)
	}
	switch in.Parent.Type {
	case models.IssueTypeStory, models.IssueTypeTask, models.IssueTypeBug:
	default:
		return Placement{}, fmt.Errorf("%w: subtask parent must be a story, task or bug, got %s",
			models.ErrInvalidHierarchy, in.Parent.Type)
	}

	p := Placement{
		EpicID:     in.Parent.EpicID,
		SprintID:   in.Parent.SprintID,
		AssigneeID: in.AssigneeID,
		Priority:   in.Priority,
	}
	if p.AssigneeID == nil {
		p.AssigneeID = in.Parent.AssigneeID
	}
	if p.Priority == "" {
		p.Priority = in.Parent.Priority
	}
	return p, nil
}
