package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeRepo — in-memory реализация Repository для тестов сервиса.
// Повторяет семантику постгресового слоя, включая условные переходы
// статусов и частичный уникальный индекс активного спринта.
type fakeRepo struct {
	sprints  map[uuid.UUID]*models.Sprint
	issues   map[uuid.UUID]*models.Issue
	features map[uuid.UUID]*models.Feature
	members  map[uuid.UUID][]models.SprintMember
	seq      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sprints:  make(map[uuid.UUID]*models.Sprint),
		issues:   make(map[uuid.UUID]*models.Issue),
		features: make(map[uuid.UUID]*models.Feature),
		members:  make(map[uuid.UUID][]models.SprintMember),
	}
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	logger := zap.NewNop()
	svc := New(repo, NewLogNotifier(logger), logger)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func copySprint(s *models.Sprint) *models.Sprint {
	c := *s
	return &c
}

func copyIssue(is *models.Issue) *models.Issue {
	c := *is
	return &c
}

func (f *fakeRepo) CreateSprint(_ context.Context, s *models.Sprint, members []models.SprintMember) error {
	s.ID = uuid.New()
	s.Status = models.SprintPlanned
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.sprints[s.ID] = copySprint(s)
	for i := range members {
		members[i].SprintID = s.ID
	}
	f.members[s.ID] = members
	s.Members = members
	return nil
}

func (f *fakeRepo) GetSprint(_ context.Context, id uuid.UUID) (*models.Sprint, error) {
	s, ok := f.sprints[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := copySprint(s)
	c.Members = f.members[id]
	return c, nil
}

func (f *fakeRepo) UpdateSprint(_ context.Context, s *models.Sprint) error {
	if _, ok := f.sprints[s.ID]; !ok {
		return models.ErrNotFound
	}
	f.sprints[s.ID] = copySprint(s)
	return nil
}

func (f *fakeRepo) ActivateSprint(_ context.Context, id uuid.UUID) error {
	s, ok := f.sprints[id]
	if !ok {
		return models.ErrNotFound
	}
	if s.Status != models.SprintPlanned {
		return models.ErrInvalidTransition
	}
	for _, other := range f.sprints {
		if other.ID != id && other.ProjectID == s.ProjectID && other.Status == models.SprintActive {
			return models.ErrConflictingActiveSprint
		}
	}
	s.Status = models.SprintActive
	return nil
}

func (f *fakeRepo) CompleteSprint(_ context.Context, id uuid.UUID, target *uuid.UUID) error {
	s, ok := f.sprints[id]
	if !ok {
		return models.ErrNotFound
	}
	if s.Status != models.SprintActive {
		return models.ErrInvalidTransition
	}
	s.Status = models.SprintCompleted
	for _, is := range f.issues {
		if is.SprintID != nil && *is.SprintID == id && is.Status != models.StatusDone {
			is.SprintID = target
			is.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (f *fakeRepo) DeleteSprint(_ context.Context, id uuid.UUID) error {
	if _, ok := f.sprints[id]; !ok {
		return models.ErrNotFound
	}
	for _, is := range f.issues {
		if is.SprintID != nil && *is.SprintID == id {
			is.SprintID = nil
		}
	}
	delete(f.members, id)
	delete(f.sprints, id)
	return nil
}

func (f *fakeRepo) UpdateSprintPoints(_ context.Context, id uuid.UUID, total, completed float64) error {
	s, ok := f.sprints[id]
	if !ok {
		return models.ErrNotFound
	}
	s.TotalPoints = total
	s.CompletedPoints = completed
	return nil
}

func (f *fakeRepo) ListSprintIssues(_ context.Context, sprintID uuid.UUID) ([]models.Issue, error) {
	var out []models.Issue
	for _, is := range f.issues {
		if is.SprintID != nil && *is.SprintID == sprintID {
			out = append(out, *copyIssue(is))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeRepo) CreateIssue(_ context.Context, is *models.Issue) error {
	f.seq++
	is.ID = uuid.New()
	is.Sequence = f.seq
	is.Key = fmt.Sprintf("PROJ-%d", f.seq)
	is.CreatedAt = time.Now()
	is.UpdatedAt = is.CreatedAt
	f.issues[is.ID] = copyIssue(is)
	return nil
}

func (f *fakeRepo) GetIssue(_ context.Context, id uuid.UUID) (*models.Issue, error) {
	is, ok := f.issues[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyIssue(is), nil
}

func (f *fakeRepo) UpdateIssue(_ context.Context, is *models.Issue) error {
	if _, ok := f.issues[is.ID]; !ok {
		return models.ErrNotFound
	}
	c := copyIssue(is)
	c.UpdatedAt = time.Now()
	f.issues[is.ID] = c
	return nil
}

func (f *fakeRepo) DeleteIssue(_ context.Context, id uuid.UUID) error {
	if _, ok := f.issues[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeRepo) ListIssuesByIDs(_ context.Context, ids []uuid.UUID) ([]models.Issue, error) {
	var out []models.Issue
	for _, id := range ids {
		if is, ok := f.issues[id]; ok {
			out = append(out, *copyIssue(is))
		}
	}
	return out, nil
}

func (f *fakeRepo) AssignIssuesToSprint(_ context.Context, ids []uuid.UUID, sprintID *uuid.UUID) error {
	for _, id := range ids {
		if is, ok := f.issues[id]; ok {
			is.SprintID = sprintID
			is.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (f *fakeRepo) MoveIssueWithSubtasks(_ context.Context, id uuid.UUID, sprintID *uuid.UUID) error {
	is, ok := f.issues[id]
	if !ok {
		return models.ErrNotFound
	}
	is.SprintID = sprintID
	for _, sub := range f.issues {
		if sub.Type == models.IssueTypeSubtask && sub.ParentID != nil && *sub.ParentID == id {
			sub.SprintID = sprintID
		}
	}
	return nil
}

func (f *fakeRepo) ListBacklog(_ context.Context, projectID uuid.UUID, filter models.BacklogFilter) ([]models.Issue, error) {
	var out []models.Issue
	for _, is := range f.issues {
		if is.ProjectID != projectID || is.SprintID != nil {
			continue
		}
		if filter.Type != "" && is.Type != filter.Type {
			continue
		}
		if filter.Priority != "" && is.Priority != filter.Priority {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(is.Title), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(is.Key), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *copyIssue(is))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeRepo) ListProjectIssues(_ context.Context, projectID uuid.UUID) ([]models.Issue, error) {
	var out []models.Issue
	for _, is := range f.issues {
		if is.ProjectID == projectID {
			out = append(out, *copyIssue(is))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeRepo) CloseEpic(_ context.Context, epicID uuid.UUID, policy models.EpicClosePolicy, target *uuid.UUID) error {
	epic, ok := f.issues[epicID]
	if !ok || epic.Type != models.IssueTypeEpic {
		return models.ErrNotFound
	}
	epic.Status = models.EpicStatusClosed

	switch policy {
	case models.EpicCloseKeep:
	case models.EpicCloseMove:
		for _, is := range f.issues {
			if is.EpicID != nil && *is.EpicID == epicID {
				is.EpicID = target
			}
		}
		for _, ft := range f.features {
			if ft.EpicID != nil && *ft.EpicID == epicID {
				ft.EpicID = target
			}
		}
	case models.EpicCloseBacklog:
		for _, is := range f.issues {
			if is.EpicID != nil && *is.EpicID == epicID {
				is.EpicID = nil
				is.SprintID = nil
			}
		}
	case models.EpicCloseCancel:
		for _, is := range f.issues {
			if is.EpicID != nil && *is.EpicID == epicID &&
				is.Status != models.StatusDone && is.Status != models.StatusCancelled {
				is.Status = models.StatusCancelled
			}
		}
	default:
		return models.ErrInvalidInput
	}
	return nil
}

func (f *fakeRepo) CreateFeature(_ context.Context, ft *models.Feature) error {
	ft.ID = uuid.New()
	ft.CreatedAt = time.Now()
	ft.UpdatedAt = ft.CreatedAt
	c := *ft
	f.features[ft.ID] = &c
	return nil
}

func (f *fakeRepo) GetFeature(_ context.Context, id uuid.UUID) (*models.Feature, error) {
	ft, ok := f.features[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *ft
	return &c, nil
}

func (f *fakeRepo) UpdateFeature(_ context.Context, ft *models.Feature) error {
	if _, ok := f.features[ft.ID]; !ok {
		return models.ErrNotFound
	}
	c := *ft
	f.features[ft.ID] = &c
	return nil
}
