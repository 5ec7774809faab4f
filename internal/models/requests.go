package models

import (
	"time"

	"github.com/google/uuid"
)

// CreateSprintRequest — создание спринта (статус всегда PLANNED)
type CreateSprintRequest struct {
	ProjectID     uuid.UUID             `json:"project_id"`
	Name          string                `json:"name"`
	Key           string                `json:"key"`
	Goal          string                `json:"goal"`
	Notes         string                `json:"notes"`
	StartDate     *time.Time            `json:"start_date,omitempty"`
	EndDate       *time.Time            `json:"end_date,omitempty"`
	Capacity      float64               `json:"capacity"`
	PlannedPoints float64               `json:"planned_points"`
	Members       []SprintMemberRequest `json:"members,omitempty"`
}

type SprintMemberRequest struct {
	UserID        uuid.UUID `json:"user_id"`
	CapacityHours float64   `json:"capacity_hours"`
}

// UpdateSprintRequest — частичное обновление; nil-поля не трогаются
type UpdateSprintRequest struct {
	Name          *string       `json:"name,omitempty"`
	Key           *string       `json:"key,omitempty"`
	Goal          *string       `json:"goal,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	StartDate     *time.Time    `json:"start_date,omitempty"`
	EndDate       *time.Time    `json:"end_date,omitempty"`
	Capacity      *float64      `json:"capacity,omitempty"`
	PlannedPoints *float64      `json:"planned_points,omitempty"`
	Velocity      *float64      `json:"velocity,omitempty"`
	Status        *SprintStatus `json:"status,omitempty"`
}

// CompleteSprintRequest — опциональный спринт-приемник незавершенных задач
type CompleteSprintRequest struct {
	MoveIssuesToSprintID *uuid.UUID `json:"move_issues_to_sprint_id,omitempty"`
}

// CreateIssueRequest — создание задачи любого типа с проверкой иерархии
type CreateIssueRequest struct {
	ProjectID      uuid.UUID   `json:"project_id"`
	Type           IssueType   `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Status         IssueStatus `json:"status"`
	Priority       Priority    `json:"priority"`
	AssigneeID     *uuid.UUID  `json:"assignee_id,omitempty"`
	ReporterID     *uuid.UUID  `json:"reporter_id,omitempty"`
	SprintID       *uuid.UUID  `json:"sprint_id,omitempty"`
	ParentID       *uuid.UUID  `json:"parent_id,omitempty"`
	EpicID         *uuid.UUID  `json:"epic_id,omitempty"`
	FeatureID      *uuid.UUID  `json:"feature_id,omitempty"`
	Points         float64     `json:"points"`
	EstimatedHours *float64    `json:"estimated_hours,omitempty"`
	// Только для эпиков
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
}

// UpdateIssueRequest — частичное обновление задачи
type UpdateIssueRequest struct {
	Title          *string      `json:"title,omitempty"`
	Description    *string      `json:"description,omitempty"`
	Status         *IssueStatus `json:"status,omitempty"`
	Priority       *Priority    `json:"priority,omitempty"`
	AssigneeID     *uuid.UUID   `json:"assignee_id,omitempty"`
	FeatureID      *uuid.UUID   `json:"feature_id,omitempty"`
	Points         *float64     `json:"points,omitempty"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"`
	ActualHours    *float64     `json:"actual_hours,omitempty"`
	OrderIndex     *int         `json:"order_index,omitempty"`
}

// AssignSprintRequest — массовое назначение задач на спринт (nil — в бэклог)
type AssignSprintRequest struct {
	SprintID *uuid.UUID  `json:"sprint_id"`
	IssueIDs []uuid.UUID `json:"issue_ids"`
}

// MoveToSprintRequest — перенос задачи вместе с ее подзадачами
type MoveToSprintRequest struct {
	SprintID *uuid.UUID `json:"sprint_id"`
}

// BacklogFilter — фильтры листинга бэклога
type BacklogFilter struct {
	Type     IssueType `query:"type"`
	Priority Priority  `query:"priority"`
	Search   string    `query:"search"`
	Limit    int       `query:"limit"`
	Offset   int       `query:"offset"`
}

// CloseEpicRequest — закрытие эпика с политикой разрешения дочерних задач
type CloseEpicRequest struct {
	Policy       EpicClosePolicy `json:"policy"`
	TargetEpicID *uuid.UUID      `json:"target_epic_id,omitempty"`
}

// CreateFeatureRequest — создание фичи
type CreateFeatureRequest struct {
	ProjectID   uuid.UUID  `json:"project_id"`
	EpicID      *uuid.UUID `json:"epic_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Points      float64    `json:"points"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
}

// UpdateFeatureRequest — частичное обновление фичи
type UpdateFeatureRequest struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *FeatureStatus `json:"status,omitempty"`
	Priority    *Priority      `json:"priority,omitempty"`
	Points      *float64       `json:"points,omitempty"`
	EpicID      *uuid.UUID     `json:"epic_id,omitempty"`
	OwnerID     *uuid.UUID     `json:"owner_id,omitempty"`
}

// HierarchyNode — узел дерева эпик → история → подзадача
type HierarchyNode struct {
	Issue    Issue           `json:"issue"`
	Children []HierarchyNode `json:"children,omitempty"`
}

// ProjectHierarchy — полное дерево проекта плюс задачи вне эпиков
type ProjectHierarchy struct {
	Epics      []HierarchyNode `json:"epics"`
	Unassigned []HierarchyNode `json:"unassigned"`
}
