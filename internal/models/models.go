package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы задач. Эпик — это тоже запись в issues: иерархические правила
// для всех вариантов задаются одной таблицей решений (internal/hierarchy).
type IssueType string

const (
	IssueTypeEpic    IssueType = "EPIC"
	IssueTypeStory   IssueType = "STORY"
	IssueTypeTask    IssueType = "TASK"
	IssueTypeBug     IssueType = "BUG"
	IssueTypeSubtask IssueType = "SUBTASK"
)

// Статусы обычных задач (STORY/TASK/BUG/SUBTASK)
type IssueStatus string

const (
	StatusTodo       IssueStatus = "TODO"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusInReview   IssueStatus = "IN_REVIEW"
	StatusDone       IssueStatus = "DONE"
	StatusBlocked    IssueStatus = "BLOCKED"
	StatusCancelled  IssueStatus = "CANCELLED"
)

// Статусы эпиков (записей с типом EPIC)
const (
	EpicStatusOpen       IssueStatus = "OPEN"
	EpicStatusInProgress IssueStatus = "IN_PROGRESS"
	EpicStatusClosed     IssueStatus = "CLOSED"
	EpicStatusOnHold     IssueStatus = "ON_HOLD"
)

// Статусы фич
type FeatureStatus string

const (
	FeatureStatusTodo       FeatureStatus = "TO_DO"
	FeatureStatusInProgress FeatureStatus = "IN_PROGRESS"
	FeatureStatusInReview   FeatureStatus = "IN_REVIEW"
	FeatureStatusDone       FeatureStatus = "DONE"
	FeatureStatusClosed     FeatureStatus = "CLOSED"
)

// Статусы спринтов
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "PLANNED"
	SprintActive    SprintStatus = "ACTIVE"
	SprintCompleted SprintStatus = "COMPLETED"
	SprintCancelled SprintStatus = "CANCELLED"
)

// Приоритеты
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Политики закрытия эпика: что делать с незавершенными дочерними задачами
type EpicClosePolicy string

const (
	EpicCloseKeep    EpicClosePolicy = "keep"    // оставить как есть
	EpicCloseMove    EpicClosePolicy = "move"    // перенести под другой эпик
	EpicCloseBacklog EpicClosePolicy = "backlog" // отвязать от эпика и спринта
	EpicCloseCancel  EpicClosePolicy = "cancel"  // отменить незавершенные
)

// Issue представляет единицу работы: эпик, историю, таску, баг или подзадачу.
// Ссылки на спринт/эпик/родителя — nullable-ассоциации, не владение.
type Issue struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	ProjectID      uuid.UUID   `json:"project_id" db:"project_id"`
	Sequence       int64       `json:"sequence" db:"sequence"`
	Key            string      `json:"key" db:"key"`
	Type           IssueType   `json:"type" db:"type"`
	Title          string      `json:"title" db:"title"`
	Description    string      `json:"description" db:"description"`
	Status         IssueStatus `json:"status" db:"status"`
	Priority       Priority    `json:"priority" db:"priority"`
	AssigneeID     *uuid.UUID  `json:"assignee_id,omitempty" db:"assignee_id"`
	ReporterID     *uuid.UUID  `json:"reporter_id,omitempty" db:"reporter_id"`
	SprintID       *uuid.UUID  `json:"sprint_id,omitempty" db:"sprint_id"`
	ParentID       *uuid.UUID  `json:"parent_id,omitempty" db:"parent_id"`
	EpicID         *uuid.UUID  `json:"epic_id,omitempty" db:"epic_id"`
	FeatureID      *uuid.UUID  `json:"feature_id,omitempty" db:"feature_id"`
	Points         float64     `json:"points" db:"points"`
	EstimatedHours *float64    `json:"estimated_hours,omitempty" db:"estimated_hours"`
	ActualHours    *float64    `json:"actual_hours,omitempty" db:"actual_hours"`
	OrderIndex     int         `json:"order_index" db:"order_index"`
	// Поля, заполняемые только для эпиков
	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	Tags      []string   `json:"tags,omitempty" db:"tags"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsEpic сообщает, является ли запись эпиком
func (i *Issue) IsEpic() bool {
	return i.Type == IssueTypeEpic
}

// Feature представляет промежуточную группировку задач под эпиком
type Feature struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	ProjectID   uuid.UUID     `json:"project_id" db:"project_id"`
	EpicID      *uuid.UUID    `json:"epic_id,omitempty" db:"epic_id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Status      FeatureStatus `json:"status" db:"status"`
	Priority    Priority      `json:"priority" db:"priority"`
	Points      float64       `json:"points" db:"points"`
	OwnerID     *uuid.UUID    `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// Sprint представляет таймбокс внутри проекта.
// TotalPoints и CompletedPoints — производные значения, пересчитываемые
// при каждом изменении состава/статусов/оценок задач спринта.
type Sprint struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	ProjectID       uuid.UUID      `json:"project_id" db:"project_id"`
	Name            string         `json:"name" db:"name"`
	Key             string         `json:"key" db:"key"`
	Goal            string         `json:"goal" db:"goal"`
	Notes           string         `json:"notes" db:"notes"`
	StartDate       *time.Time     `json:"start_date,omitempty" db:"start_date"`
	EndDate         *time.Time     `json:"end_date,omitempty" db:"end_date"`
	Status          SprintStatus   `json:"status" db:"status"`
	Capacity        float64        `json:"capacity" db:"capacity"`
	PlannedPoints   float64        `json:"planned_points" db:"planned_points"`
	TotalPoints     float64        `json:"total_points" db:"total_points"`
	CompletedPoints float64        `json:"completed_points" db:"completed_points"`
	Velocity        float64        `json:"velocity" db:"velocity"`
	Members         []SprintMember `json:"members,omitempty" db:"-"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// SprintMember представляет участника спринта с его капасити в часах
type SprintMember struct {
	SprintID      uuid.UUID `json:"sprint_id" db:"sprint_id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	CapacityHours float64   `json:"capacity_hours" db:"capacity_hours"`
}

// BurndownPoint — одна точка burndown-графика.
// Actual заполняется только для прошедших дней (включая сегодня).
type BurndownPoint struct {
	Date   string   `json:"date"`
	Ideal  float64  `json:"ideal"`
	Actual *float64 `json:"actual,omitempty"`
}

// SprintStatistics — агрегированная статистика спринта
type SprintStatistics struct {
	TotalPoints     float64         `json:"total_points"`
	CompletedPoints float64         `json:"completed_points"`
	BurnDown        []BurndownPoint `json:"burn_down"`
}

// Actor — текущий пользователь запроса; проверка подлинности внешняя
type Actor struct {
	UserID uuid.UUID
	Role   string
	OrgID  uuid.UUID
}
