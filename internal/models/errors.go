package models

import "errors"

// Ошибки доменного движка. Все возвращаются вызывающему синхронно,
// ни одна не ретраится внутри движка.
var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidTransition       = errors.New("invalid sprint transition")
	ErrConflictingActiveSprint = errors.New("project already has an active sprint")
	ErrInvalidHierarchy        = errors.New("invalid issue hierarchy")
	ErrEpicNotSprintable       = errors.New("epic cannot be assigned to a sprint")
	ErrMissingDateRange        = errors.New("sprint has no start or end date")
	ErrInvalidOperation        = errors.New("operation is not allowed for this issue type")
)

// Коды ошибок для API
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeActiveSprint      = "ACTIVE_SPRINT_EXISTS"
	ErrCodeInvalidHierarchy  = "INVALID_HIERARCHY"
	ErrCodeEpicNotSprintable = "EPIC_NOT_SPRINTABLE"
	ErrCodeMissingDateRange  = "MISSING_DATE_RANGE"
	ErrCodeInvalidOperation  = "INVALID_OPERATION"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

type ErrDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse представляет структуру ошибки API
type ErrorResponse struct {
	Error ErrDetails `json:"error"`
}

// NewErrorResponse создает стандартный ответ с ошибкой
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrDetails{Code: code, Message: message}}
}
