package service

import (
	"context"
	"testing"

	"github.com/akulinav/sprint-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEpicWithChildren(t *testing.T, svc *Service) (projectID uuid.UUID, epic, open, done *models.Issue, sprintID uuid.UUID) {
	t.Helper()
	projectID = uuid.New()

	sprint := mustCreateSprint(t, svc, projectID)
	sprintID = sprint.ID

	epic = mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeEpic, Title: "epic",
	})
	open = mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeStory, Title: "open",
		ParentID: &epic.ID, SprintID: &sprintID, Points: 3,
	})
	done = mustCreateIssue(t, svc, models.CreateIssueRequest{
		ProjectID: projectID, Type: models.IssueTypeStory, Title: "done",
		ParentID: &epic.ID, Status: models.StatusDone, Points: 2,
	})
	return projectID, epic, open, done, sprintID
}

func TestCloseEpic(t *testing.T) {
	ctx := context.Background()

	t.Run("keep leaves children untouched", func(t *testing.T) {
		svc, repo := newTestService()
		_, epic, open, _, _ := seedEpicWithChildren(t, svc)

		closed, err := svc.CloseEpic(ctx, epic.ID, models.CloseEpicRequest{Policy: models.EpicCloseKeep})
		require.NoError(t, err)
		assert.Equal(t, models.EpicStatusClosed, closed.Status)

		is, err := repo.GetIssue(ctx, open.ID)
		require.NoError(t, err)
		require.NotNil(t, is.EpicID)
		assert.Equal(t, epic.ID, *is.EpicID)
	})

	t.Run("move re-points children to another epic", func(t *testing.T) {
		svc, repo := newTestService()
		projectID, epic, open, _, _ := seedEpicWithChildren(t, svc)
		target := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "target",
		})

		_, err := svc.CloseEpic(ctx, epic.ID, models.CloseEpicRequest{
			Policy:       models.EpicCloseMove,
			TargetEpicID: &target.ID,
		})
		require.NoError(t, err)

		is, err := repo.GetIssue(ctx, open.ID)
		require.NoError(t, err)
		require.NotNil(t, is.EpicID)
		assert.Equal(t, target.ID, *is.EpicID)
	})

	t.Run("move requires a target epic", func(t *testing.T) {
		svc, _ := newTestService()
		_, epic, _, _, _ := seedEpicWithChildren(t, svc)

		_, err := svc.CloseEpic(ctx, epic.ID, models.CloseEpicRequest{Policy: models.EpicCloseMove})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("move target must be an epic", func(t *testing.T) {
		svc, _ := newTestService()
		_, epic, open, _, _ := seedEpicWithChildren(t, svc)

		_, err := svc.CloseEpic(ctx, epic.ID, models.CloseEpicRequest{
			Policy:       models.EpicCloseMove,
			TargetEpicID: &open.ID,
		})
		assert.ErrorIs(t, err, models.ErrInvalidHierarchy)
	})

	t.Run("backlog detaches epic and sprint references", func(t *testing.T) {
		svc, repo := newTestService()
		_, epic, open, _, _ := seedEpicWithChildren(t, svc)

		_, err := svc.CloseEpic(ctx, epic.ID, models.CloseEpicRequest{Policy: models.EpicCloseBacklog})
		require.NoError(t, err)

		is, err := repo.GetIssue(ctx, open.ID)
		require.NoError(t, err)
		assert.Nil(t, is.EpicID)
		assert.Nil(t, is.SprintID)
	})

	t.Run("cancel marks only unfinished children", func(t *testing.T) {
		svc, repo := newTestService()
		_, epic, open, done, _ := seedEpicWithChildren(t, svc)

		_, err := svc.CloseEpic(ctx, epic.ID, models.CloseEpicRequest{Policy: models.EpicCloseCancel})
		require.NoError(t, err)

		cancelled, err := repo.GetIssue(ctx, open.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, cancelled.Status)

		kept, err := repo.GetIssue(ctx, done.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDone, kept.Status)
	})

	t.Run("closing a non-epic is not found", func(t *testing.T) {
		svc, _ := newTestService()
		story := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: uuid.New(), Type: models.IssueTypeStory, Title: "story",
		})

		_, err := svc.CloseEpic(ctx, story.ID, models.CloseEpicRequest{Policy: models.EpicCloseKeep})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestFeatures(t *testing.T) {
	ctx := context.Background()

	t.Run("create and update", func(t *testing.T) {
		svc, _ := newTestService()
		projectID := uuid.New()
		epic := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeEpic, Title: "epic",
		})

		feature, err := svc.CreateFeature(ctx, models.CreateFeatureRequest{
			ProjectID: projectID, EpicID: &epic.ID, Name: "checkout",
		})
		require.NoError(t, err)
		assert.Equal(t, models.FeatureStatusTodo, feature.Status)
		assert.Equal(t, models.PriorityMedium, feature.Priority)

		status := models.FeatureStatusInProgress
		updated, err := svc.UpdateFeature(ctx, feature.ID, models.UpdateFeatureRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, models.FeatureStatusInProgress, updated.Status)
	})

	t.Run("epic reference must point to an epic", func(t *testing.T) {
		svc, _ := newTestService()
		projectID := uuid.New()
		story := mustCreateIssue(t, svc, models.CreateIssueRequest{
			ProjectID: projectID, Type: models.IssueTypeStory, Title: "story",
		})

		_, err := svc.CreateFeature(ctx, models.CreateFeatureRequest{
			ProjectID: projectID, EpicID: &story.ID, Name: "bad",
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
